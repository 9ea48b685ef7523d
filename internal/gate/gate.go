// Package gate projects authentication and membership into the view an
// admin is allowed to see.
package gate

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// State is the gate's current classification of the viewer.
type State string

const (
	StateChecking                 State = "checking"
	StateAnonymous                State = "anonymous"
	StateAuthenticatedNoAccount   State = "authenticated_no_account"
	StateAuthenticatedWithAccount State = "authenticated_with_account"
)

// View is the screen shown for a state.
type View string

const (
	ViewNone            View = ""
	ViewLogin           View = "login"
	ViewAccountCreation View = "account_creation"
	ViewRoster          View = "roster"
)

// View returns the screen for the state. StateChecking has no view.
func (s State) View() View {
	switch s {
	case StateAnonymous:
		return ViewLogin
	case StateAuthenticatedNoAccount:
		return ViewAccountCreation
	case StateAuthenticatedWithAccount:
		return ViewRoster
	default:
		return ViewNone
	}
}

// Decide is the pure projection of the two observations.
func Decide(hasSession bool, accountID uuid.UUID) State {
	switch {
	case !hasSession:
		return StateAnonymous
	case accountID == uuid.Nil:
		return StateAuthenticatedNoAccount
	default:
		return StateAuthenticatedWithAccount
	}
}

// MembershipLookup resolves the account of an identity.
// It returns uuid.Nil with a nil error when the identity has no account.
type MembershipLookup func(ctx context.Context, identityID uuid.UUID) (uuid.UUID, error)

// Gate tracks session and membership observations and notifies listeners
// whenever the derived state changes.
type Gate struct {
	mu         sync.Mutex
	lookup     MembershipLookup
	state      State
	identityID uuid.UUID
	accountID  uuid.UUID
	listeners  []func(State)
}

// New creates a gate in StateChecking.
func New(lookup MembershipLookup) *Gate {
	return &Gate{
		lookup: lookup,
		state:  StateChecking,
	}
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// AccountID returns the account of the current session, if any.
func (g *Gate) AccountID() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.accountID
}

// OnChange registers fn to be called after every state transition.
func (g *Gate) OnChange(fn func(State)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// SessionChanged records a new session observation. A nil identity means
// signed out. For a signed-in identity the membership is looked up once; a
// lookup error keeps the gate in StateChecking and is returned.
func (g *Gate) SessionChanged(ctx context.Context, identityID uuid.UUID) (State, error) {
	if identityID == uuid.Nil {
		return g.transition(uuid.Nil, uuid.Nil, StateAnonymous), nil
	}

	g.transition(identityID, uuid.Nil, StateChecking)

	accountID, err := g.lookup(ctx, identityID)
	if err != nil {
		return StateChecking, err
	}

	return g.transition(identityID, accountID, Decide(true, accountID)), nil
}

// MembershipChanged records that the current identity created or joined
// accountID.
func (g *Gate) MembershipChanged(accountID uuid.UUID) State {
	g.mu.Lock()
	identityID := g.identityID
	g.mu.Unlock()

	if identityID == uuid.Nil {
		return g.State()
	}
	return g.transition(identityID, accountID, Decide(true, accountID))
}

func (g *Gate) transition(identityID, accountID uuid.UUID, next State) State {
	g.mu.Lock()
	changed := g.state != next
	g.identityID = identityID
	g.accountID = accountID
	g.state = next
	listeners := append([]func(State){}, g.listeners...)
	g.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(next)
		}
	}
	return next
}
