package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/roundrobin/internal/model"
)

var _ model.IdentityStore = (*IdentityRepository)(nil)

type IdentityRepository struct {
	db *Connection
}

func NewIdentityRepository(db *Connection) *IdentityRepository {
	return &IdentityRepository{
		db: db,
	}
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (model.Identity, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at
			  FROM identities WHERE email = $1`

	return r.get(ctx, query, email)
}

func (r *IdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Identity, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at
			  FROM identities WHERE id = $1`

	return r.get(ctx, query, id)
}

func (r *IdentityRepository) get(ctx context.Context, query string, arg any) (model.Identity, error) {
	var identity model.Identity
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&identity.ID, &identity.Email, &identity.PasswordHash, &identity.CreatedAt, &identity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Identity{}, model.ErrNotFound
		}
		return model.Identity{}, fmt.Errorf("failed to get identity: %w", err)
	}

	return identity, nil
}

func (r *IdentityRepository) Create(ctx context.Context, identity model.Identity) (model.Identity, error) {
	query := `INSERT INTO identities (id, email, password_hash, created_at, updated_at)
			  VALUES ($1, $2, $3, NOW(), NOW())
			  RETURNING id, email, password_hash, created_at, updated_at`

	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}

	var saved model.Identity
	err := r.db.QueryRowContext(ctx, query, identity.ID, identity.Email, identity.PasswordHash).Scan(
		&saved.ID, &saved.Email, &saved.PasswordHash, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Identity{}, fmt.Errorf("identity %s: %w", identity.Email, model.ErrAlreadyExists)
		}
		return model.Identity{}, fmt.Errorf("failed to create identity: %w", err)
	}

	return saved, nil
}
