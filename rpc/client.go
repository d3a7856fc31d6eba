package rpc

import (
	"context"

	"github.com/golang/protobuf/ptypes/empty"
	structpb "github.com/golang/protobuf/ptypes/struct"
	"github.com/golang/protobuf/ptypes/wrappers"
	"google.golang.org/grpc"
)

type Client struct {
	cc *grpc.ClientConn
}

func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc}
}

// Dial connects to a server without transport security.
func Dial(ctx context.Context, addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithInsecure()}, opts...)
	cc, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, err
	}
	return NewClient(cc), nil
}

func (c *Client) BestMove(ctx context.Context, req Request, opts ...grpc.CallOption) (Response, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, bestMoveMethod, req.toStruct(), out, opts...); err != nil {
		return Response{}, err
	}
	return parseResponse(out), nil
}

func (c *Client) Stats(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	out := new(wrappers.StringValue)
	if err := c.cc.Invoke(ctx, statsMethod, new(empty.Empty), out, opts...); err != nil {
		return "", err
	}
	return out.Value, nil
}

func (c *Client) Close() error {
	return c.cc.Close()
}
