package rosterpb

import (
	"context"
	"errors"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client invokes roster.v1 methods by full name.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Invoke calls a unary method.
func (c *Client) Invoke(ctx context.Context, method string, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = map[string]any{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, NewStruct(in), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// WatchRoster opens the roster snapshot stream.
func (c *Client) WatchRoster(ctx context.Context, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(ctx, &RosterServiceDesc.Streams[0], RosterWatchRoster, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: stream}
	// io.EOF means the server already ended the stream; Recv reports why.
	if err := x.ClientStream.SendMsg(Empty()); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return x, nil
}
