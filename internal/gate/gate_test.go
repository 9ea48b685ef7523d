package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		hasSession bool
		accountID  uuid.UUID
		wantState  State
		wantView   View
	}{
		{name: "no session", hasSession: false, accountID: uuid.Nil, wantState: StateAnonymous, wantView: ViewLogin},
		{name: "no session ignores account", hasSession: false, accountID: uuid.New(), wantState: StateAnonymous, wantView: ViewLogin},
		{name: "session without account", hasSession: true, accountID: uuid.Nil, wantState: StateAuthenticatedNoAccount, wantView: ViewAccountCreation},
		{name: "session with account", hasSession: true, accountID: uuid.New(), wantState: StateAuthenticatedWithAccount, wantView: ViewRoster},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.hasSession, tt.accountID)
			assert.Equal(t, tt.wantState, got)
			assert.Equal(t, tt.wantView, got.View())
		})
	}

	assert.Equal(t, ViewNone, StateChecking.View())
}

func TestGate_Transitions(t *testing.T) {
	ctx := context.Background()
	identityID := uuid.New()
	accountID := uuid.New()

	lookups := 0
	g := New(func(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
		lookups++
		assert.Equal(t, identityID, id)
		return uuid.Nil, nil
	})
	assert.Equal(t, StateChecking, g.State())

	var seen []State
	g.OnChange(func(s State) { seen = append(seen, s) })

	st, err := g.SessionChanged(ctx, identityID)
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticatedNoAccount, st)
	assert.Equal(t, ViewAccountCreation, st.View())
	assert.Equal(t, 1, lookups)

	st = g.MembershipChanged(accountID)
	assert.Equal(t, StateAuthenticatedWithAccount, st)
	assert.Equal(t, accountID, g.AccountID())

	st, err = g.SessionChanged(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, StateAnonymous, st)
	assert.Equal(t, uuid.Nil, g.AccountID())
	assert.Equal(t, 1, lookups)

	assert.Equal(t, []State{
		StateAuthenticatedNoAccount,
		StateAuthenticatedWithAccount,
		StateAnonymous,
	}, seen)
}

func TestGate_LookupFailureStaysChecking(t *testing.T) {
	lookupErr := errors.New("membership store down")
	g := New(func(context.Context, uuid.UUID) (uuid.UUID, error) {
		return uuid.Nil, lookupErr
	})

	st, err := g.SessionChanged(context.Background(), uuid.New())
	assert.ErrorIs(t, err, lookupErr)
	assert.Equal(t, StateChecking, st)
	assert.Equal(t, StateChecking, g.State())
	assert.Equal(t, ViewNone, g.State().View())
}

func TestGate_MembershipChangedWithoutSession(t *testing.T) {
	g := New(func(context.Context, uuid.UUID) (uuid.UUID, error) {
		return uuid.Nil, nil
	})

	_, err := g.SessionChanged(context.Background(), uuid.Nil)
	require.NoError(t, err)

	assert.Equal(t, StateAnonymous, g.MembershipChanged(uuid.New()))
}
