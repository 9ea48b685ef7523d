package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/roundrobin/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

const refreshTokenColumns = `id, jti, identity_id, token_hash, issued_at, expires_at, revoked_at, rotated_from_jti, created_at, updated_at`

type RefreshTokenRepository struct {
	db *Connection
}

func NewRefreshTokenRepository(db *Connection) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token model.RefreshToken) error {
	if err := insertRefreshToken(ctx, r.db, token); err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

// Rotate revokes oldJTI and stores next in one transaction. It fails with
// model.ErrTokenRevoked when oldJTI was already revoked, so concurrent
// refreshes of the same token cannot both succeed.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldJTI string, next model.RefreshToken) error {
	err := withTx(ctx, r.db.DB, func(tx DBTX) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE refresh_tokens SET revoked_at = NOW(), updated_at = NOW()
			 WHERE jti = $1 AND revoked_at IS NULL`, oldJTI)
		if err != nil {
			return err
		}
		if err := requireAffected(res); err != nil {
			return model.ErrTokenRevoked
		}
		return insertRefreshToken(ctx, tx, next)
	})
	if errors.Is(err, model.ErrTokenRevoked) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	query := `SELECT ` + refreshTokenColumns + ` FROM refresh_tokens WHERE jti = $1`

	var rt model.RefreshToken
	err := r.db.QueryRowContext(ctx, query, jti).Scan(
		&rt.ID, &rt.JTI, &rt.IdentityID, &rt.TokenHash, &rt.IssuedAt, &rt.ExpiresAt,
		&rt.RevokedAt, &rt.RotatedFromJTI, &rt.CreatedAt, &rt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RefreshToken{}, model.ErrNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return rt, nil
}

// RevokeByJTI is idempotent: revoking an unknown or revoked token is not an
// error.
func (r *RefreshTokenRepository) RevokeByJTI(ctx context.Context, jti string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW(), updated_at = NOW()
		 WHERE jti = $1 AND revoked_at IS NULL`, jti)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAllByIdentity(ctx context.Context, identityID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW(), updated_at = NOW()
		 WHERE identity_id = $1 AND revoked_at IS NULL`, identityID)
	if err != nil {
		return fmt.Errorf("failed to revoke identity refresh tokens: %w", err)
	}
	return nil
}

func insertRefreshToken(ctx context.Context, db DBTX, token model.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (`+refreshTokenColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`,
		token.ID, token.JTI, token.IdentityID, token.TokenHash, token.IssuedAt, token.ExpiresAt,
		token.RevokedAt, token.RotatedFromJTI,
	)
	return err
}
