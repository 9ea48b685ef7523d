package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/roundrobin/internal/api/rosterpb"
	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/roster"
)

// handleError maps domain errors to gRPC statuses. A failed CommitOrder
// carries the failed ids as a Struct detail under "failed_ids".
func handleError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var commitErr *roster.CommitError
	if errors.As(err, &commitErr) {
		st := status.New(codes.Unavailable, commitErr.Error())
		detail := rosterpb.NewStruct(map[string]any{"failed_ids": rosterpb.UUIDList(commitErr.FailedIDs())})
		if withDetails, derr := st.WithDetails(detail); derr == nil {
			st = withDetails
		}
		return st.Err()
	}

	switch {
	case errors.Is(err, model.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrTokenRevoked),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenMismatch):
		return status.Error(codes.Unauthenticated, "invalid credentials")
	case errors.Is(err, model.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, model.ErrNoAccount),
		errors.Is(err, model.ErrStorageDisabled),
		errors.Is(err, roster.ErrSubscriptionsDisabled):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, model.ErrWrite):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
