// Package hei implements a line-oriented engine protocol, so that a
// front end or a match runner can drive the engine over stdin/stdout.
//
// A session looks like:
//
//	> hei
//	< id name hexai
//	< heiok
//	> heinewgame 11x11
//	> position startpos moves f6 e7
//	> go movetime 500
//	< info source rollout score 0.62 time 480 simulations 431
//	< bestmove g5
package hei

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/nelhage/hexai/engine"
	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/notation"
)

type Engine struct {
	ConfigFactory func(rows, cols int) engine.Config

	in  *bufio.Reader
	out io.Writer

	ctl     *engine.Controller
	opts    []option
	rows    int
	cols    int
	board   *hex.Board
	toMove  hex.Side
	applied []hex.Move
}

type option struct {
	name, value string
}

func NewEngine(in io.Reader, out io.Writer) *Engine {
	return &Engine{
		in:   bufio.NewReader(in),
		out:  out,
		rows: engine.DefaultSize,
		cols: engine.DefaultSize,
	}
}

func (e *Engine) Run(ctx context.Context) error {
	for {
		line, err := e.in.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		words := strings.Fields(line)
		switch words[0] {
		case "hei":
			fmt.Fprintln(e.out, "id name hexai")
			fmt.Fprintln(e.out, "id author Nelson Elhage")
			fmt.Fprintln(e.out, "heiok")
		case "quit":
			return nil
		case "heinewgame":
			if err := e.newGame(words[1:]); err != nil {
				return err
			}
		case "position":
			if err := e.position(words[1:]); err != nil {
				return fmt.Errorf("error parsing position: %w", err)
			}
		case "setoption":
			if err := e.setOption(words[1:]); err != nil {
				log.Printf("error in setoption: %v", err)
			}
		case "go":
			if err := e.analyze(ctx, words[1:]); err != nil {
				log.Printf("error in go: %v", err)
				fmt.Fprintln(e.out, "bestmove none")
			}
		case "stats":
			if e.ctl != nil {
				fmt.Fprintf(e.out, "info string %s\n", e.ctl.PerformanceStats())
				fmt.Fprintf(e.out, "info string %s\n", e.ctl.FrontierStats())
			}
		case "stop":
		case "isready":
			fmt.Fprintln(e.out, "readyok")
		default:
			return fmt.Errorf("Unknown command: %q", line)
		}
	}
}

// ParseSize accepts "N" or "RxC".
func ParseSize(s string) (rows, cols int, err error) {
	r, c := s, s
	if i := strings.IndexByte(s, 'x'); i >= 0 {
		r, c = s[:i], s[i+1:]
	}
	if rows, err = strconv.Atoi(r); err != nil {
		return 0, 0, fmt.Errorf("bad size: %q", s)
	}
	if cols, err = strconv.Atoi(c); err != nil {
		return 0, 0, fmt.Errorf("bad size: %q", s)
	}
	if rows < engine.MinSize || rows > engine.MaxSize || cols < engine.MinSize || cols > engine.MaxSize {
		return 0, 0, fmt.Errorf("bad size: %q", s)
	}
	return rows, cols, nil
}

func (e *Engine) newGame(args []string) error {
	rows, cols := engine.DefaultSize, engine.DefaultSize
	if len(args) > 0 {
		var err error
		if rows, cols, err = ParseSize(args[0]); err != nil {
			return err
		}
	}
	if e.ctl != nil && (rows != e.rows || cols != e.cols) {
		e.ctl = nil
	}
	e.rows, e.cols = rows, cols
	e.board = nil
	e.applied = nil
	if e.ctl != nil {
		e.ctl.Reset()
	}
	return nil
}

func (e *Engine) config() (engine.Config, error) {
	var cfg engine.Config
	if e.ConfigFactory != nil {
		cfg = e.ConfigFactory(e.rows, e.cols)
	}
	cfg.Rows, cfg.Cols = e.rows, e.cols
	for _, o := range e.opts {
		if err := applyOption(&cfg, o.name, o.value); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func (e *Engine) controller() (*engine.Controller, error) {
	if e.ctl != nil {
		return e.ctl, nil
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	e.ctl, err = engine.New(cfg)
	return e.ctl, err
}

// position handles
//
//	position startpos [moves M...]
//	position hbn <board> <side> [last] [moves M...]
//
// A startpos game that extends the previous one is replayed onto the
// controller's board incrementally.
func (e *Engine) position(words []string) error {
	if len(words) == 0 {
		return errors.New("not enough arguments")
	}
	var board *hex.Board
	toMove := hex.SideA
	startpos := false
	switch words[0] {
	case "startpos":
		board = hex.New(hex.Config{Rows: e.rows, Cols: e.cols})
		words = words[1:]
		startpos = true
	case "hbn":
		if len(words) < 3 {
			return errors.New("position hbn: not enough arguments")
		}
		n := 3
		if len(words) > 3 && words[3] != "moves" {
			n = 4
		}
		var err error
		board, toMove, err = notation.ParseBoard(strings.Join(words[1:n], " "))
		if err != nil {
			return fmt.Errorf("parse board: %w", err)
		}
		if board.Rows() != e.rows || board.Cols() != e.cols {
			return fmt.Errorf("board has wrong size: got %dx%d, configured for %dx%d",
				board.Rows(), board.Cols(), e.rows, e.cols)
		}
		words = words[n:]
	default:
		return fmt.Errorf("Unknown initial position: %q", words[0])
	}

	var moves []hex.Move
	if len(words) > 0 {
		if words[0] != "moves" {
			return errors.New("position: expected `moves'")
		}
		var err error
		moves, err = notation.ParseMoves(strings.Join(words[1:], " "), toMove)
		if err != nil {
			return fmt.Errorf("parse moves: %w", err)
		}
	}
	for _, m := range moves {
		if err := board.Place(m); err != nil {
			return fmt.Errorf("move %s: %w", m, err)
		}
		toMove = m.Side.Flip()
	}

	ctl, err := e.controller()
	if err != nil {
		return err
	}
	if !startpos || !isPrefix(e.applied, moves) {
		ctl.Reset()
		e.applied = nil
	}
	if startpos {
		for _, m := range moves[len(e.applied):] {
			if err := ctl.ApplyMove(m); err != nil {
				return err
			}
			e.applied = append(e.applied, m)
		}
	}
	e.board, e.toMove = board, toMove
	return nil
}

func isPrefix(prefix, ms []hex.Move) bool {
	if len(prefix) > len(ms) {
		return false
	}
	for i := range prefix {
		if !prefix[i].Equal(ms[i]) {
			return false
		}
	}
	return true
}

func (e *Engine) setOption(words []string) error {
	if len(words) != 4 || words[0] != "name" || words[2] != "value" {
		return errors.New("expected: setoption name <name> value <value>")
	}
	o := option{name: strings.ToLower(words[1]), value: words[3]}
	var cfg engine.Config
	if err := applyOption(&cfg, o.name, o.value); err != nil {
		return err
	}
	e.opts = append(e.opts, o)
	if e.ctl == nil {
		return nil
	}
	next, err := e.config()
	if err != nil {
		return err
	}
	return e.ctl.UpdateConfig(next)
}

func applyOption(cfg *engine.Config, name, value string) error {
	var err error
	switch name {
	case "policy":
		cfg.Policy, err = engine.ParsePolicy(value)
	case "simulations":
		cfg.Simulations, err = strconv.Atoi(value)
	case "threads":
		cfg.Threads, err = strconv.Atoi(value)
	case "seed":
		cfg.Seed, err = strconv.ParseInt(value, 10, 64)
	case "debug":
		cfg.Debug, err = strconv.Atoi(value)
	case "strength":
		var s float64
		if s, err = strconv.ParseFloat(value, 64); err == nil {
			w := cfg.WeightsOrDefault()
			w.Strength = s
			cfg.Weights = &w
		}
	default:
		return fmt.Errorf("unknown option: %q", name)
	}
	if err != nil {
		return fmt.Errorf("option %s: %w", name, err)
	}
	return nil
}

func (e *Engine) analyze(ctx context.Context, words []string) error {
	if e.board == nil {
		return errors.New("No position provided")
	}
	ctl, err := e.controller()
	if err != nil {
		return err
	}
	tc, err := parseTimeControl(words)
	if err != nil {
		return err
	}
	if budget := tc.Budget(e.toMove); budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	d, err := ctl.GetBestMove(ctx, e.board, e.toMove)
	if errors.Is(err, engine.ErrNoLegalMoves) {
		fmt.Fprintln(e.out, "bestmove none")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "info source %s score %.2f time %d simulations %d\n",
		d.Source, d.Score, d.Elapsed.Milliseconds(), d.Rollout.Simulations)
	fmt.Fprintf(e.out, "bestmove %s\n", notation.FormatPos(d.Move.Pos))
	return nil
}
