package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/roundrobin/internal/api/rosterpb"
	"github.com/dtroode/roundrobin/internal/logger"
	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/roster"
	"github.com/dtroode/roundrobin/internal/session"
)

// RosterService defines roster intents.
type RosterService interface {
	List(ctx context.Context, sess session.Session) ([]model.Entry, error)
	AddUser(ctx context.Context, sess session.Session, name, phoneNumber, region string) (model.Entry, error)
	UpdateUser(ctx context.Context, sess session.Session, id uuid.UUID, name, phoneNumber, region string) error
	SetStatus(ctx context.Context, sess session.Session, id uuid.UUID, status string) error
	DeleteUser(ctx context.Context, sess session.Session, id uuid.UUID) error
	MoveUser(ctx context.Context, sess session.Session, movedID, targetID uuid.UUID) ([]model.Entry, error)
	CommitOrder(ctx context.Context, sess session.Session, ids []uuid.UUID) error
	Watch(ctx context.Context, sess session.Session, fn func(roster.Snapshot)) (*roster.Subscription, error)
	Export(ctx context.Context, sess session.Session) (string, error)
}

// Roster handles roster.v1.Roster.
type Roster struct {
	rosterService RosterService
	sessions      sessions
	logger        *logger.Logger
}

func NewRoster(rosterService RosterService, resolver SessionResolver, contextManager model.ContextManager, logger *logger.Logger) *Roster {
	return &Roster{
		rosterService: rosterService,
		sessions:      sessions{contextManager: contextManager, resolver: resolver},
		logger:        logger,
	}
}

func (h *Roster) ListUsers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sess, err := h.sessions.current(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := h.rosterService.List(ctx, sess)
	if err != nil {
		return nil, handleError(err)
	}

	return rosterpb.NewStruct(map[string]any{"entries": rosterpb.EncodeEntries(entries)}), nil
}

func (h *Roster) AddUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := h.sessions.current(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := h.rosterService.AddUser(ctx, sess,
		rosterpb.String(in, "name"),
		rosterpb.String(in, "phone_number"),
		rosterpb.String(in, "region"),
	)
	if err != nil {
		h.logger.Info("Roster handler: add user failed", "account_id", sess.AccountID, "error", err.Error())
		return nil, handleError(err)
	}

	return rosterpb.NewStruct(rosterpb.EncodeEntry(entry)), nil
}

func (h *Roster) UpdateUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := h.sessions.current(ctx)
	if err != nil {
		return nil, err
	}

	id, err := rosterpb.UUID(in, "id")
	if err != nil {
		return nil, handleError(err)
	}

	err = h.rosterService.UpdateUser(ctx, sess, id,
		rosterpb.String(in, "name"),
		rosterpb.String(in, "phone_number"),
		rosterpb.String(in, "region"),
	)
	if err != nil {
		return nil, handleError(err)
	}

	return rosterpb.Empty(), nil
}

func (h *Roster) SetStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := h.sessions.current(ctx)
	if err != nil {
		return nil, err
	}

	id, err := rosterpb.UUID(in, "id")
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.rosterService.SetStatus(ctx, sess, id, rosterpb.String(in, "status")); err != nil {
		return nil, handleError(err)
	}

	return rosterpb.Empty(), nil
}

func (h *Roster) DeleteUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := h.sessions.current(ctx)
	if err != nil {
		return nil, err
	}

	id, err := rosterpb.UUID(in, "id")
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.rosterService.DeleteUser(ctx, sess, id); err != nil {
		return nil, handleError(err)
	}

	return rosterpb.Empty(), nil
}

func (h *Roster) MoveUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := h.sessions.current(ctx)
	if err != nil {
		return nil, err
	}

	movedID, err := rosterpb.UUID(in, "moved_id")
	if err != nil {
		return nil, handleError(err)
	}
	targetID, err := rosterpb.UUID(in, "target_id")
	if err != nil {
		return nil, handleError(err)
	}

	entries, err := h.rosterService.MoveUser(ctx, sess, movedID, targetID)
	if err != nil {
		return nil, handleError(err)
	}

	return rosterpb.NewStruct(map[string]any{"entries": rosterpb.EncodeEntries(entries)}), nil
}

// CommitOrder writes order = index for every id given.
func (h *Roster) CommitOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := h.sessions.current(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := rosterpb.UUIDs(in, "ids")
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.rosterService.CommitOrder(ctx, sess, ids); err != nil {
		h.logger.Info("Roster handler: commit order failed", "account_id", sess.AccountID, "error", err.Error())
		return nil, handleError(err)
	}

	return rosterpb.Empty(), nil
}

func (h *Roster) ExportRoster(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sess, err := h.sessions.current(ctx)
	if err != nil {
		return nil, err
	}

	key, err := h.rosterService.Export(ctx, sess)
	if err != nil {
		return nil, handleError(err)
	}

	return rosterpb.NewStruct(map[string]any{"key": key}), nil
}

// WatchRoster streams a snapshot now and after every change until the
// client goes away.
func (h *Roster) WatchRoster(_ *structpb.Struct, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	ctx := stream.Context()

	sess, err := h.sessions.current(ctx)
	if err != nil {
		return err
	}

	sendErr := make(chan error, 1)
	sub, err := h.rosterService.Watch(ctx, sess, func(s roster.Snapshot) {
		if err := stream.Send(encodeSnapshot(s)); err != nil {
			select {
			case sendErr <- err:
			default:
			}
		}
	})
	if err != nil {
		return handleError(err)
	}
	defer sub.Close()

	h.logger.Debug("Roster handler: watch started", "account_id", sess.AccountID)

	select {
	case <-ctx.Done():
		return nil
	case <-sub.Done():
		return nil
	case err := <-sendErr:
		h.logger.Info("Roster handler: watch send failed", "account_id", sess.AccountID, "error", err.Error())
		return err
	}
}

func encodeSnapshot(s roster.Snapshot) *structpb.Struct {
	out := map[string]any{
		"account_id":   s.AccountID.String(),
		"entries":      rosterpb.EncodeEntries(s.Entries),
		"delivered_at": rosterpb.Time(s.DeliveredAt),
	}
	if s.Err != nil {
		out["error"] = s.Err.Error()
	}
	return rosterpb.NewStruct(out)
}
