package rpc

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/golang/protobuf/ptypes/empty"
	structpb "github.com/golang/protobuf/ptypes/struct"
	"github.com/golang/protobuf/ptypes/wrappers"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nelhage/hexai/engine"
	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/notation"
)

// Server answers BestMove with a single Controller, rebuilt whenever a
// request arrives for a board of different dimensions.
type Server struct {
	ConfigFactory func(rows, cols int) engine.Config

	sync.Mutex
	ctl *engine.Controller
	cfg engine.Config
}

var _ EngineServer = &Server{}

func NewServer(factory func(rows, cols int) engine.Config) *Server {
	return &Server{ConfigFactory: factory}
}

func (s *Server) config(rows, cols int) engine.Config {
	if s.ConfigFactory != nil {
		return s.ConfigFactory(rows, cols)
	}
	return engine.Config{Rows: rows, Cols: cols}
}

func (s *Server) getController(rows, cols int, req *Request) (*engine.Controller, error) {
	cfg := s.cfg
	if s.ctl == nil || cfg.Rows != rows || cfg.Cols != cols {
		cfg = s.config(rows, cols)
		cfg.Rows, cfg.Cols = rows, cols
	}
	if req.Policy != "" {
		p, err := engine.ParsePolicy(req.Policy)
		if err != nil {
			return nil, &fieldError{"policy", err}
		}
		cfg.Policy = p
	}
	if req.Simulations != 0 {
		cfg.Simulations = req.Simulations
	}
	if s.ctl != nil && cfg == s.cfg {
		return s.ctl, nil
	}

	var err error
	if s.ctl != nil && cfg.Rows == s.cfg.Rows && cfg.Cols == s.cfg.Cols {
		err = s.ctl.UpdateConfig(cfg)
	} else {
		var ctl *engine.Controller
		ctl, err = engine.New(cfg)
		if err == nil {
			s.ctl = ctl
		}
	}
	if err != nil {
		return nil, err
	}
	s.cfg = cfg
	return s.ctl, nil
}

func (s *Server) BestMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := parseRequest(in)
	if err != nil {
		return nil, toStatus(err)
	}
	b, side, err := notation.ParseBoard(req.Position)
	if err != nil {
		return nil, toStatus(&fieldError{"position", err})
	}

	s.Lock()
	defer s.Unlock()
	ctl, err := s.getController(b.Rows(), b.Cols(), req)
	if err != nil {
		return nil, toStatus(err)
	}
	d, err := ctl.GetBestMove(ctx, b, side)
	if err != nil {
		return nil, toStatus(err)
	}
	log.Printf("[rpc] position=%q move=%s source=%s", req.Position, notation.FormatPos(d.Move.Pos), d.Source)

	resp := Response{
		Move:        notation.FormatPos(d.Move.Pos),
		Source:      d.Source.String(),
		Score:       d.Score,
		WinRate:     d.Rollout.WinRate,
		Simulations: d.Rollout.Simulations,
		Elapsed:     d.Elapsed,
		Occupancy:   hex.Occupancy(b),
		RegionsA:    len(hex.Regions(b, hex.SideA)),
		RegionsB:    len(hex.Regions(b, hex.SideB)),
	}
	return resp.toStruct(), nil
}

func (s *Server) Stats(ctx context.Context, _ *empty.Empty) (*wrappers.StringValue, error) {
	s.Lock()
	defer s.Unlock()
	if s.ctl == nil {
		return &wrappers.StringValue{Value: "no engine"}, nil
	}
	return &wrappers.StringValue{
		Value: s.ctl.PerformanceStats() + "\n" + s.ctl.FrontierStats(),
	}, nil
}

func toStatus(err error) error {
	var fe *fieldError
	switch {
	case errors.As(err, &fe):
		return badRequest(fe.field, err)
	case errors.Is(err, engine.ErrInvalidInput):
		return badRequest("position", err)
	case errors.Is(err, engine.ErrNoLegalMoves):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, engine.ErrCancelled):
		return status.Error(codes.Canceled, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func badRequest(field string, err error) error {
	st := status.New(codes.InvalidArgument, err.Error())
	detailed, e := st.WithDetails(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{
			{Field: field, Description: err.Error()},
		},
	})
	if e != nil {
		return st.Err()
	}
	return detailed.Err()
}
