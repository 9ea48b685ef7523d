package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/roundrobin/internal/testutil"
)

func TestLogging_HandleGRPC(t *testing.T) {
	t.Parallel()

	lg := NewLogging(testutil.MakeNoopLogger())

	tests := []struct {
		name     string
		handler  grpc.UnaryHandler
		wantCode codes.Code
	}{
		{
			name: "success path",
			handler: func(ctx context.Context, req any) (any, error) {
				return "ok", nil
			},
			wantCode: codes.OK,
		},
		{
			name: "grpc error propagates",
			handler: func(ctx context.Context, req any) (any, error) {
				return nil, status.Error(codes.InvalidArgument, "bad input")
			},
			wantCode: codes.InvalidArgument,
		},
		{
			name: "non-grpc error is reported as Unknown",
			handler: func(ctx context.Context, req any) (any, error) {
				return nil, errors.New("boom")
			},
			wantCode: codes.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}
			resp, err := lg.HandleGRPC(context.Background(), struct{}{}, info, tt.handler)

			if tt.wantCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "ok", resp)
				return
			}
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}

func TestLogging_HandleStream(t *testing.T) {
	lg := NewLogging(testutil.MakeNoopLogger())
	info := &grpc.StreamServerInfo{FullMethod: "/svc/Stream", IsServerStream: true}

	err := lg.HandleStream(nil, nil, info, func(any, grpc.ServerStream) error {
		return status.Error(codes.Canceled, "gone")
	})
	assert.Equal(t, codes.Canceled, status.Code(err))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, codes.OK, statusCode(nil))
	assert.Equal(t, codes.NotFound, statusCode(status.Error(codes.NotFound, "x")))
	assert.Equal(t, codes.Internal, statusCode(errors.New("plain")))
}

func TestRecovery_Handle(t *testing.T) {
	r := NewRecovery(testutil.MakeNoopLogger())
	err := r.Handle(context.Background(), "boom")
	assert.Equal(t, codes.Internal, status.Code(err))
}
