// Package rpc serves engine decisions over gRPC.
//
// The service has no generated stubs: requests and responses travel as
// well-known protobuf types, and the method table is declared here.
//
//	/hexai.Engine/BestMove  google.protobuf.Struct -> google.protobuf.Struct
//	/hexai.Engine/Stats     google.protobuf.Empty  -> google.protobuf.StringValue
package rpc

import (
	"context"

	"github.com/golang/protobuf/ptypes/empty"
	structpb "github.com/golang/protobuf/ptypes/struct"
	"github.com/golang/protobuf/ptypes/wrappers"
	"google.golang.org/grpc"
)

const (
	serviceName    = "hexai.Engine"
	bestMoveMethod = "/" + serviceName + "/BestMove"
	statsMethod    = "/" + serviceName + "/Stats"
)

type EngineServer interface {
	BestMove(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Stats(context.Context, *empty.Empty) (*wrappers.StringValue, error)
}

func Register(s *grpc.Server, srv EngineServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*EngineServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "BestMove",
			Handler:    bestMoveHandler,
		},
		{
			MethodName: "Stats",
			Handler:    statsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hexai/engine.proto",
}

func bestMoveHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).BestMove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: bestMoveMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EngineServer).BestMove(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func statsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(empty.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).Stats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: statsMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EngineServer).Stats(ctx, req.(*empty.Empty))
	}
	return interceptor(ctx, in, info, handler)
}
