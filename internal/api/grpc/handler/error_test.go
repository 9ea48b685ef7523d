package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/roster"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       error
		wantCode codes.Code
		wantMsg  string
	}{
		{
			name:     "grpc status passthrough",
			in:       status.Error(codes.PermissionDenied, "nope"),
			wantCode: codes.PermissionDenied,
			wantMsg:  "nope",
		},
		{
			name:     "validation",
			in:       fmt.Errorf("%w: bad phone", model.ErrValidation),
			wantCode: codes.InvalidArgument,
			wantMsg:  "validation error: bad phone",
		},
		{
			name:     "not found inside write error",
			in:       fmt.Errorf("update: %w: %w", model.ErrWrite, model.ErrNotFound),
			wantCode: codes.NotFound,
		},
		{
			name:     "write",
			in:       fmt.Errorf("add: %w: %w", model.ErrWrite, errors.New("conn reset")),
			wantCode: codes.Unavailable,
		},
		{
			name:     "credentials hide details",
			in:       fmt.Errorf("%w: token expired", model.ErrInvalidCredentials),
			wantCode: codes.Unauthenticated,
			wantMsg:  "invalid credentials",
		},
		{
			name:     "revoked refresh token",
			in:       model.ErrTokenRevoked,
			wantCode: codes.Unauthenticated,
		},
		{
			name:     "exists",
			in:       model.ErrAlreadyExists,
			wantCode: codes.AlreadyExists,
		},
		{
			name:     "no account",
			in:       model.ErrNoAccount,
			wantCode: codes.FailedPrecondition,
		},
		{
			name:     "storage disabled",
			in:       model.ErrStorageDisabled,
			wantCode: codes.FailedPrecondition,
		},
		{
			name:     "subscriptions disabled",
			in:       roster.ErrSubscriptionsDisabled,
			wantCode: codes.FailedPrecondition,
		},
		{
			name:     "canceled",
			in:       context.Canceled,
			wantCode: codes.Canceled,
		},
		{
			name:     "other -> Internal",
			in:       errors.New("boom"),
			wantCode: codes.Internal,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st, ok := status.FromError(handleError(tt.in))
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, st.Message())
			}
		})
	}
}

func TestHandleError_CommitError(t *testing.T) {
	failed := uuid.New()
	err := fmt.Errorf("commit: %w", &roster.CommitError{
		Failed: []uuid.UUID{failed},
		Causes: map[uuid.UUID]error{failed: assert.AnError},
		Total:  3,
	})

	st, ok := status.FromError(handleError(err))
	require.True(t, ok)
	assert.Equal(t, codes.Unavailable, st.Code())

	details := st.Details()
	require.Len(t, details, 1)
	detail, ok := details[0].(*structpb.Struct)
	require.True(t, ok)
	ids := detail.GetFields()["failed_ids"].GetListValue().GetValues()
	require.Len(t, ids, 1)
	assert.Equal(t, failed.String(), ids[0].GetStringValue())
}

func TestHandleError_Nil(t *testing.T) {
	assert.NoError(t, handleError(nil))
}
