package hei

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/nelhage/hexai/ai"
	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/notation"
)

// Client drives an engine speaking the protocol over a pipe.
type Client struct {
	cmd *exec.Cmd

	stdinPipe  io.WriteCloser
	stdoutPipe io.ReadCloser

	read  *bufio.Reader
	write io.Writer

	gameid int
}

func NewClient(cmdline []string) (*Client, error) {
	cmd := &exec.Cmd{
		Args: cmdline,
	}
	if path, err := exec.LookPath(cmdline[0]); err != nil {
		return nil, err
	} else {
		cmd.Path = path
	}

	cl := &Client{
		cmd: cmd,
	}

	if stdin, err := cmd.StdinPipe(); err != nil {
		cl.Close()
		return nil, err
	} else {
		cl.stdinPipe = stdin
		cl.write = stdin
	}

	if stdout, err := cmd.StdoutPipe(); err != nil {
		cl.Close()
		return nil, err
	} else {
		cl.stdoutPipe = stdout
		cl.read = bufio.NewReader(stdout)
	}

	err := cl.cmd.Start()
	if err != nil {
		cl.Close()
		return nil, err
	}
	if err := cl.handshake(); err != nil {
		cl.Close()
		return nil, err
	}
	return cl, nil
}

// NewPipeClient talks to an engine over an existing connection.
func NewPipeClient(r io.Reader, w io.Writer) (*Client, error) {
	cl := &Client{
		read:  bufio.NewReader(r),
		write: w,
	}
	if err := cl.handshake(); err != nil {
		return nil, err
	}
	return cl, nil
}

func (c *Client) handshake() error {
	_, err := c.sendCommand("hei", "heiok")
	return err
}

func (c *Client) NewGame(rows, cols int) (ai.Player, error) {
	c.gameid += 1
	if _, err := c.sendCommand(fmt.Sprintf("heinewgame %dx%d", rows, cols), ""); err != nil {
		return nil, err
	}
	return &player{
		client: c,
		gameid: c.gameid,
	}, nil
}

// SetOption forwards an engine option.
func (c *Client) SetOption(name, value string) error {
	_, err := c.sendCommand(fmt.Sprintf("setoption name %s value %s", name, value), "")
	return err
}

// Stats returns the engine's "info string" lines.
func (c *Client) Stats() ([]string, error) {
	// one write, so an unbuffered pipe cannot deadlock against the
	// engine's replies
	if _, err := io.WriteString(c.write, "stats\nisready\n"); err != nil {
		return nil, err
	}
	var out []string
	for {
		line, err := c.read.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "readyok" {
			return out, nil
		}
		if strings.HasPrefix(line, "info string ") {
			out = append(out, strings.TrimPrefix(line, "info string "))
		}
	}
}

func (c *Client) Close() {
	if c.write != nil {
		c.sendCommand("quit", "")
	}
	if c.stdinPipe != nil {
		c.stdinPipe.Close()
	}
	if c.stdoutPipe != nil {
		c.stdoutPipe.Close()
	}
	if c.cmd != nil {
		c.cmd.Wait()
	}
}

func (c *Client) sendCommand(cmd string, expect string) ([]string, error) {
	if _, err := fmt.Fprintln(c.write, cmd); err != nil {
		return nil, err
	}
	if expect == "" {
		return nil, nil
	}

	for {
		line, err := c.read.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		words := strings.Split(line, " ")
		if words[0] == expect {
			return words, nil
		}
	}
}

type player struct {
	client *Client
	gameid int
}

var errDeadPlayer = errors.New("GetMove on a player from a finished game")

func (p *player) GetMove(ctx context.Context, b *hex.Board, side hex.Side) (hex.Move, error) {
	if p.gameid != p.client.gameid {
		return hex.Move{}, errDeadPlayer
	}
	pos := fmt.Sprintf("position hbn %s", notation.FormatBoard(b, side))
	if _, err := p.client.sendCommand(pos, ""); err != nil {
		return hex.Move{}, fmt.Errorf("send position: %w", err)
	}
	goCmd := "go"
	if deadline, ok := ctx.Deadline(); ok {
		tc := TimeControl{MoveTime: time.Until(deadline)}
		goCmd = strings.Join(append([]string{goCmd}, tc.Args()...), " ")
	}
	bestmove, err := p.client.sendCommand(goCmd, "bestmove")
	if err != nil {
		return hex.Move{}, err
	}
	if len(bestmove) != 2 {
		return hex.Move{}, fmt.Errorf("bad bestmove: %q", strings.Join(bestmove, " "))
	}
	if bestmove[1] == "none" {
		return hex.Move{}, ai.ErrNoMoves
	}
	pt, err := notation.ParsePos(bestmove[1])
	if err != nil {
		return hex.Move{}, fmt.Errorf("unable to parse move: %q", bestmove[1])
	}
	return hex.NewMove(pt, side), nil
}
