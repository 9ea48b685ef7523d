package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/roundrobin/internal/model"
)

// EntryStore is an in-memory model.EntryStore for tests.
// Set FailOrder to make SetOrder fail for specific ids.
type EntryStore struct {
	mu        sync.Mutex
	entries   map[uuid.UUID]model.Entry
	FailOrder map[uuid.UUID]error
	FailList  error
}

func NewEntryStore() *EntryStore {
	return &EntryStore{
		entries:   make(map[uuid.UUID]model.Entry),
		FailOrder: make(map[uuid.UUID]error),
	}
}

// Seed inserts entries as given, keeping their ids and orders.
func (s *EntryStore) Seed(entries ...model.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.entries[e.ID] = e
	}
}

func (s *EntryStore) ListByAccount(_ context.Context, accountID uuid.UUID) ([]model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailList != nil {
		return nil, s.FailList
	}
	return s.list(accountID), nil
}

func (s *EntryStore) Append(_ context.Context, entry model.Entry) (model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	entry.ID = uuid.New()
	entry.Order = len(s.list(entry.AccountID))
	entry.CreatedAt = now
	entry.UpdatedAt = now
	s.entries[entry.ID] = entry
	return entry, nil
}

func (s *EntryStore) UpdateContact(_ context.Context, accountID, id uuid.UUID, name, phoneNumber string) error {
	return s.modify(accountID, id, func(e *model.Entry) {
		e.Name = name
		e.PhoneNumber = phoneNumber
	})
}

func (s *EntryStore) UpdateStatus(_ context.Context, accountID, id uuid.UUID, status model.Status) error {
	return s.modify(accountID, id, func(e *model.Entry) { e.Status = status })
}

func (s *EntryStore) Delete(_ context.Context, accountID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || e.AccountID != accountID {
		return model.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *EntryStore) DeleteAndCompact(ctx context.Context, accountID, id uuid.UUID) error {
	if err := s.Delete(ctx, accountID, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.list(accountID) {
		e.Order = i
		s.entries[e.ID] = e
	}
	return nil
}

func (s *EntryStore) SetOrder(_ context.Context, accountID, id uuid.UUID, order int) error {
	s.mu.Lock()
	err := s.FailOrder[id]
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.modify(accountID, id, func(e *model.Entry) { e.Order = order })
}

func (s *EntryStore) SetOrders(_ context.Context, accountID uuid.UUID, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if e, ok := s.entries[id]; !ok || e.AccountID != accountID {
			return model.ErrNotFound
		}
		if err := s.FailOrder[id]; err != nil {
			return err
		}
	}
	for i, id := range ids {
		e := s.entries[id]
		e.Order = i
		s.entries[id] = e
	}
	return nil
}

func (s *EntryStore) modify(accountID, id uuid.UUID, fn func(*model.Entry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || e.AccountID != accountID {
		return model.ErrNotFound
	}
	fn(&e)
	e.UpdatedAt = time.Now()
	s.entries[id] = e
	return nil
}

func (s *EntryStore) list(accountID uuid.UUID) []model.Entry {
	var out []model.Entry
	for _, e := range s.entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b model.Entry) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}
