package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/dtroode/roundrobin/internal/logger"
	"github.com/dtroode/roundrobin/internal/model"
)

const (
	inviteAlphabet   = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	inviteCodeLength = 10
	maxAccountName   = 200
)

// AccountService creates accounts and resolves memberships.
type AccountService struct {
	accountStore    model.AccountStore
	membershipStore model.MembershipStore
	logger          *logger.Logger

	newInviteCode func() (string, error)
}

func NewAccountService(accountStore model.AccountStore, membershipStore model.MembershipStore, logger *logger.Logger) *AccountService {
	return &AccountService{
		accountStore:    accountStore,
		membershipStore: membershipStore,
		logger:          logger,
		newInviteCode: func() (string, error) {
			return gonanoid.Generate(inviteAlphabet, inviteCodeLength)
		},
	}
}

// CreateAccount creates an account owned by identityID, who becomes its admin.
// An identity belongs to at most one account. email is recorded on the
// membership.
func (s *AccountService) CreateAccount(ctx context.Context, identityID uuid.UUID, email, name string) (model.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Account{}, fmt.Errorf("%w: account name is required", model.ErrValidation)
	}
	if len(name) > maxAccountName {
		return model.Account{}, fmt.Errorf("%w: account name is too long", model.ErrValidation)
	}

	s.logger.Debug("Account service: creating account", "identity_id", identityID, "name", name)

	if err := s.ensureNoMembership(ctx, identityID); err != nil {
		return model.Account{}, err
	}

	code, err := s.newInviteCode()
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to generate invite code: %w", err)
	}

	account := model.Account{
		ID:         uuid.New(),
		Name:       name,
		CreatedBy:  identityID,
		InviteCode: code,
	}
	owner := model.Membership{
		IdentityID: identityID,
		AccountID:  account.ID,
		Role:       model.RoleAdmin,
		Email:      email,
	}

	created, err := s.accountStore.CreateWithOwner(ctx, account, owner)
	if err != nil {
		s.logger.Error("Account service: failed to create account", "identity_id", identityID, "error", err.Error())
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("Account service: account created", "account_id", created.ID, "identity_id", identityID)
	return created, nil
}

// JoinAccount adds identityID as a member of the account owning inviteCode.
func (s *AccountService) JoinAccount(ctx context.Context, identityID uuid.UUID, email, inviteCode string) (model.Account, error) {
	inviteCode = strings.ToUpper(strings.TrimSpace(inviteCode))
	if inviteCode == "" {
		return model.Account{}, fmt.Errorf("%w: invite code is required", model.ErrValidation)
	}

	if err := s.ensureNoMembership(ctx, identityID); err != nil {
		return model.Account{}, err
	}

	account, err := s.accountStore.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, fmt.Errorf("invite code %s: %w", inviteCode, model.ErrNotFound)
		}
		return model.Account{}, fmt.Errorf("failed to get account by invite code: %w", err)
	}

	err = s.membershipStore.Create(ctx, model.Membership{
		IdentityID: identityID,
		AccountID:  account.ID,
		Role:       model.RoleMember,
		Email:      email,
	})
	if err != nil {
		s.logger.Error("Account service: failed to join account", "account_id", account.ID, "identity_id", identityID, "error", err.Error())
		return model.Account{}, fmt.Errorf("failed to create membership: %w", err)
	}

	s.logger.Info("Account service: account joined", "account_id", account.ID, "identity_id", identityID)
	return account, nil
}

// Membership returns the account id of identityID, or uuid.Nil when it has none.
func (s *AccountService) Membership(ctx context.Context, identityID uuid.UUID) (uuid.UUID, error) {
	m, err := s.membershipStore.GetByIdentity(ctx, identityID)
	if errors.Is(err, model.ErrNotFound) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m.AccountID, nil
}

// Account returns the account the session belongs to.
func (s *AccountService) Account(ctx context.Context, accountID uuid.UUID) (model.Account, error) {
	if accountID == uuid.Nil {
		return model.Account{}, model.ErrNoAccount
	}
	return s.accountStore.GetByID(ctx, accountID)
}

func (s *AccountService) ensureNoMembership(ctx context.Context, identityID uuid.UUID) error {
	_, err := s.membershipStore.GetByIdentity(ctx, identityID)
	if err == nil {
		return fmt.Errorf("membership: %w", model.ErrAlreadyExists)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get membership: %w", err)
	}
	return nil
}
