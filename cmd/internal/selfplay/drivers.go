package selfplay

import (
	"fmt"
	"strings"

	"github.com/nelhage/hexai/ai"
	"github.com/nelhage/hexai/cmd/internal/opt"
	"github.com/nelhage/hexai/hei"
)

// ParseDriver understands "engine", "rand", and "hei:COMMAND LINE".
func ParseDriver(spec string, eng *opt.Engine) (DriverFactory, error) {
	switch {
	case spec == "engine":
		return func() (Driver, error) { return &engineDriver{eng}, nil }, nil
	case spec == "rand":
		return func() (Driver, error) { return randDriver{}, nil }, nil
	case strings.HasPrefix(spec, "hei:"):
		argv := strings.Fields(spec[len("hei:"):])
		if len(argv) == 0 {
			return nil, fmt.Errorf("empty command: %q", spec)
		}
		return func() (Driver, error) {
			cl, err := hei.NewClient(argv)
			if err != nil {
				return nil, err
			}
			return &heiDriver{cl}, nil
		}, nil
	}
	return nil, fmt.Errorf("unknown player: %q", spec)
}

type engineDriver struct {
	opt *opt.Engine
}

func (e *engineDriver) NewGame(rows, cols int, seed int64) (ai.Player, error) {
	o := *e.opt
	if o.Seed == 0 {
		o.Seed = seed
	}
	p, err := o.NewPlayer(rows, cols)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (e *engineDriver) Close() {}

type randDriver struct{}

func (randDriver) NewGame(rows, cols int, seed int64) (ai.Player, error) {
	return ai.NewRandom(seed), nil
}

func (randDriver) Close() {}

type heiDriver struct {
	cl *hei.Client
}

func (h *heiDriver) NewGame(rows, cols int, seed int64) (ai.Player, error) {
	return h.cl.NewGame(rows, cols)
}

func (h *heiDriver) Close() {
	h.cl.Close()
}
