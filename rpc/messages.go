package rpc

import (
	"fmt"
	"time"

	structpb "github.com/golang/protobuf/ptypes/struct"
)

// Request asks for the best move in Position, written in board
// notation including the side to move and, optionally, the opponent's
// last move. Empty fields keep the server's current settings.
type Request struct {
	Position    string
	Policy      string
	Simulations int
}

type Response struct {
	Move        string
	Source      string
	Score       float64
	WinRate     float64
	Simulations int
	Elapsed     time.Duration

	Occupancy float64
	RegionsA  int
	RegionsB  int
}

func str(s string) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_StringValue{StringValue: s}}
}

func num(f float64) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_NumberValue{NumberValue: f}}
}

func (r *Request) toStruct() *structpb.Struct {
	s := &structpb.Struct{Fields: map[string]*structpb.Value{
		"position": str(r.Position),
	}}
	if r.Policy != "" {
		s.Fields["policy"] = str(r.Policy)
	}
	if r.Simulations != 0 {
		s.Fields["simulations"] = num(float64(r.Simulations))
	}
	return s
}

// fieldError names the offending request field.
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.field, e.err)
}

func parseRequest(s *structpb.Struct) (*Request, error) {
	var r Request
	for k, v := range s.GetFields() {
		switch k {
		case "position":
			sv, ok := v.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return nil, &fieldError{k, fmt.Errorf("want a string")}
			}
			r.Position = sv.StringValue
		case "policy":
			sv, ok := v.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return nil, &fieldError{k, fmt.Errorf("want a string")}
			}
			r.Policy = sv.StringValue
		case "simulations":
			nv, ok := v.GetKind().(*structpb.Value_NumberValue)
			if !ok || nv.NumberValue < 0 || nv.NumberValue != float64(int(nv.NumberValue)) {
				return nil, &fieldError{k, fmt.Errorf("want a non-negative integer")}
			}
			r.Simulations = int(nv.NumberValue)
		default:
			return nil, &fieldError{k, fmt.Errorf("unknown field")}
		}
	}
	if r.Position == "" {
		return nil, &fieldError{"position", fmt.Errorf("required")}
	}
	return &r, nil
}

func (r *Response) toStruct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"move":        str(r.Move),
		"source":      str(r.Source),
		"score":       num(r.Score),
		"win_rate":    num(r.WinRate),
		"simulations": num(float64(r.Simulations)),
		"elapsed_us":  num(float64(r.Elapsed / time.Microsecond)),
		"occupancy":   num(r.Occupancy),
		"regions_a":   num(float64(r.RegionsA)),
		"regions_b":   num(float64(r.RegionsB)),
	}}
}

func parseResponse(s *structpb.Struct) Response {
	f := s.GetFields()
	return Response{
		Move:        f["move"].GetStringValue(),
		Source:      f["source"].GetStringValue(),
		Score:       f["score"].GetNumberValue(),
		WinRate:     f["win_rate"].GetNumberValue(),
		Simulations: int(f["simulations"].GetNumberValue()),
		Elapsed:     time.Duration(f["elapsed_us"].GetNumberValue()) * time.Microsecond,
		Occupancy:   f["occupancy"].GetNumberValue(),
		RegionsA:    int(f["regions_a"].GetNumberValue()),
		RegionsB:    int(f["regions_b"].GetNumberValue()),
	}
}
