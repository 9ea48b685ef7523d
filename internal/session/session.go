// Package session carries the authenticated identity and its account scope.
package session

import (
	"github.com/google/uuid"

	"github.com/dtroode/roundrobin/internal/model"
)

// Session is the explicit scope every roster operation runs in.
// A zero AccountID means the identity has not created or joined an account.
type Session struct {
	IdentityID uuid.UUID
	Email      string
	AccountID  uuid.UUID
	Role       model.Role
}

// New builds a session from an identity and its optional membership.
func New(identityID uuid.UUID, email string, membership *model.Membership) Session {
	s := Session{IdentityID: identityID, Email: email}
	if membership != nil {
		s.AccountID = membership.AccountID
		s.Role = membership.Role
		if s.Email == "" {
			s.Email = membership.Email
		}
	}
	return s
}

// HasAccount reports whether the session is scoped to an account.
func (s Session) HasAccount() bool {
	return s.AccountID != uuid.Nil
}

// Authenticated reports whether the session belongs to a signed-in identity.
func (s Session) Authenticated() bool {
	return s.IdentityID != uuid.Nil
}

// RequireAccount returns model.ErrNoAccount for sessions without an account.
func (s Session) RequireAccount() error {
	if !s.HasAccount() {
		return model.ErrNoAccount
	}
	return nil
}
