package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EntryStore defines persistence operations for roster entries.
// All operations are scoped by account.
type EntryStore interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Entry, error)
	Append(ctx context.Context, entry Entry) (Entry, error)
	UpdateContact(ctx context.Context, accountID, id uuid.UUID, name, phoneNumber string) error
	UpdateStatus(ctx context.Context, accountID, id uuid.UUID, status Status) error
	Delete(ctx context.Context, accountID, id uuid.UUID) error
	DeleteAndCompact(ctx context.Context, accountID, id uuid.UUID) error
	SetOrder(ctx context.Context, accountID, id uuid.UUID, order int) error
	SetOrders(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) error
}

// Entry is a single call-routing roster user.
type Entry struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Name        string
	PhoneNumber string
	Status      Status
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayName returns the name, falling back to the phone number.
func (e Entry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.PhoneNumber
}

// Status is the availability of a roster entry.
type Status string

const (
	// StatusAvailable means the user can take calls.
	StatusAvailable Status = "available"
	// StatusInCall means the user is currently on a call.
	StatusInCall Status = "in_call"
)

// ParseStatus accepts the known statuses and any other lowercase token,
// so that statuses added later still round-trip.
func ParseStatus(s string) (Status, bool) {
	if s == "" {
		return "", false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && r != '_' {
			return "", false
		}
	}
	return Status(s), true
}
