package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/roundrobin/internal/api/rosterpb"
	"github.com/dtroode/roundrobin/internal/logger"
	"github.com/dtroode/roundrobin/internal/model"
)

// AccountService defines account creation and membership operations.
type AccountService interface {
	CreateAccount(ctx context.Context, identityID uuid.UUID, email, name string) (model.Account, error)
	JoinAccount(ctx context.Context, identityID uuid.UUID, email, inviteCode string) (model.Account, error)
	Account(ctx context.Context, accountID uuid.UUID) (model.Account, error)
}

// Account handles roster.v1.Accounts.
type Account struct {
	accountService AccountService
	sessions       sessions
	logger         *logger.Logger
}

func NewAccount(accountService AccountService, resolver SessionResolver, contextManager model.ContextManager, logger *logger.Logger) *Account {
	return &Account{
		accountService: accountService,
		sessions:       sessions{contextManager: contextManager, resolver: resolver},
		logger:         logger,
	}
}

func (h *Account) CreateAccount(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := h.sessions.current(ctx)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Account handler: processing create account request", "identity_id", sess.IdentityID)

	account, err := h.accountService.CreateAccount(ctx, sess.IdentityID, sess.Email, rosterpb.String(in, "name"))
	if err != nil {
		return nil, handleError(err)
	}

	return rosterpb.NewStruct(rosterpb.EncodeAccount(account, model.RoleAdmin)), nil
}

func (h *Account) JoinAccount(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := h.sessions.current(ctx)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Account handler: processing join account request", "identity_id", sess.IdentityID)

	account, err := h.accountService.JoinAccount(ctx, sess.IdentityID, sess.Email, rosterpb.String(in, "invite_code"))
	if err != nil {
		return nil, handleError(err)
	}

	return rosterpb.NewStruct(rosterpb.EncodeAccount(account, model.RoleMember)), nil
}

// GetAccount returns the caller's account and role.
func (h *Account) GetAccount(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sess, err := h.sessions.current(ctx)
	if err != nil {
		return nil, err
	}

	account, err := h.accountService.Account(ctx, sess.AccountID)
	if err != nil {
		return nil, handleError(err)
	}

	return rosterpb.NewStruct(rosterpb.EncodeAccount(account, sess.Role)), nil
}
