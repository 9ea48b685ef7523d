package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/roundrobin/internal/model"
)

var _ model.MembershipStore = (*MembershipRepository)(nil)

type MembershipRepository struct {
	db *Connection
}

func NewMembershipRepository(db *Connection) *MembershipRepository {
	return &MembershipRepository{
		db: db,
	}
}

func (r *MembershipRepository) GetByIdentity(ctx context.Context, identityID uuid.UUID) (model.Membership, error) {
	query := `SELECT identity_id, account_id, role, email, created_at
			  FROM memberships WHERE identity_id = $1`

	var m model.Membership
	var role string
	err := r.db.QueryRowContext(ctx, query, identityID).Scan(
		&m.IdentityID, &m.AccountID, &role, &m.Email, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Membership{}, model.ErrNotFound
		}
		return model.Membership{}, fmt.Errorf("failed to get membership: %w", err)
	}
	m.Role = model.Role(role)

	return m, nil
}

// Create adds a membership. An identity may belong to one account only.
func (r *MembershipRepository) Create(ctx context.Context, m model.Membership) error {
	query := `INSERT INTO memberships (identity_id, account_id, role, email, created_at)
			  VALUES ($1, $2, $3, $4, NOW())`

	_, err := r.db.ExecContext(ctx, query, m.IdentityID, m.AccountID, string(m.Role), m.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("membership for %s: %w", m.IdentityID, model.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create membership: %w", err)
	}
	return nil
}
