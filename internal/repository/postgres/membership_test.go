package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/roundrobin/internal/model"
)

func TestMembershipRepository_GetByIdentity(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewMembershipRepository(conn)
	identityID, accountID := uuid.New(), uuid.New()
	now := time.Now()
	cols := []string{"identity_id", "account_id", "role", "email", "created_at"}

	mock.ExpectQuery(`FROM memberships WHERE identity_id = \$1`).
		WithArgs(identityID).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(identityID.String(), accountID.String(), "member", "m@example.com", now))

	got, err := repo.GetByIdentity(context.Background(), identityID)
	require.NoError(t, err)
	assert.Equal(t, accountID, got.AccountID)
	assert.Equal(t, model.RoleMember, got.Role)

	mock.ExpectQuery(`FROM memberships`).WillReturnRows(sqlmock.NewRows(cols))
	_, err = repo.GetByIdentity(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMembershipRepository_Create(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewMembershipRepository(conn)
	m := model.Membership{IdentityID: uuid.New(), AccountID: uuid.New(), Role: model.RoleMember, Email: "m@example.com"}

	mock.ExpectExec(`INSERT INTO memberships`).
		WithArgs(m.IdentityID, m.AccountID, "member", "m@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO memberships`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	require.NoError(t, repo.Create(context.Background(), m))
	assert.ErrorIs(t, repo.Create(context.Background(), m), model.ErrAlreadyExists)
}
