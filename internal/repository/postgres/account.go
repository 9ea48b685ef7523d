package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/roundrobin/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

// CreateWithOwner inserts the account and its creator's membership in one
// transaction. An owner who already belongs to an account yields
// model.ErrAlreadyExists.
func (r *AccountRepository) CreateWithOwner(ctx context.Context, account model.Account, owner model.Membership) (model.Account, error) {
	const insertAccount = `INSERT INTO accounts (id, name, created_by, invite_code, created_at)
			  VALUES ($1, $2, $3, $4, NOW())
			  RETURNING id, name, created_by, invite_code, created_at`
	const insertMembership = `INSERT INTO memberships (identity_id, account_id, role, email, created_at)
			  VALUES ($1, $2, $3, $4, NOW())`

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	var saved model.Account
	err := withTx(ctx, r.db.DB, func(tx DBTX) error {
		err := tx.QueryRowContext(ctx, insertAccount,
			account.ID, account.Name, account.CreatedBy, account.InviteCode,
		).Scan(&saved.ID, &saved.Name, &saved.CreatedBy, &saved.InviteCode, &saved.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert account: %w", err)
		}

		_, err = tx.ExecContext(ctx, insertMembership,
			owner.IdentityID, saved.ID, string(owner.Role), owner.Email,
		)
		if err != nil {
			return fmt.Errorf("insert owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.Account{}, fmt.Errorf("failed to create account: %w", model.ErrAlreadyExists)
		}
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return saved, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	query := `SELECT id, name, created_by, invite_code, created_at FROM accounts WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *AccountRepository) GetByInviteCode(ctx context.Context, code string) (model.Account, error) {
	query := `SELECT id, name, created_by, invite_code, created_at FROM accounts WHERE invite_code = $1`
	return r.get(ctx, query, code)
}

func (r *AccountRepository) get(ctx context.Context, query string, arg any) (model.Account, error) {
	var account model.Account
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID, &account.Name, &account.CreatedBy, &account.InviteCode, &account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}
