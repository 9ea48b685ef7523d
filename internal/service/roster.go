package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/roundrobin/internal/logger"
	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/ordering"
	"github.com/dtroode/roundrobin/internal/phone"
	"github.com/dtroode/roundrobin/internal/roster"
	"github.com/dtroode/roundrobin/internal/session"
)

const maxEntryName = 200

// RosterService turns user intents into roster adapter calls.
// Phone numbers are normalized here so the adapter only sees canonical values.
type RosterService struct {
	adapter    *roster.Adapter
	normalizer *phone.Normalizer
	storage    model.Storage
	logger     *logger.Logger

	now func() time.Time
}

// NewRosterService creates a RosterService. A nil storage disables exports.
func NewRosterService(adapter *roster.Adapter, normalizer *phone.Normalizer, storage model.Storage, logger *logger.Logger) *RosterService {
	return &RosterService{
		adapter:    adapter,
		normalizer: normalizer,
		storage:    storage,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *RosterService) List(ctx context.Context, sess session.Session) ([]model.Entry, error) {
	return s.adapter.List(ctx, sess)
}

// AddUser normalizes the phone number and appends a new entry.
// region may be empty to use the configured default.
func (s *RosterService) AddUser(ctx context.Context, sess session.Session, name, phoneNumber, region string) (model.Entry, error) {
	name, canonical, err := s.contact(name, phoneNumber, region)
	if err != nil {
		return model.Entry{}, err
	}

	s.logger.Debug("Roster service: adding user", "account_id", sess.AccountID)

	entry, err := s.adapter.Add(ctx, sess, name, canonical)
	if err != nil {
		return model.Entry{}, err
	}

	s.logger.Info("Roster service: user added", "account_id", sess.AccountID, "entry_id", entry.ID)
	return entry, nil
}

// UpdateUser replaces name and phone number. Order and status are kept.
func (s *RosterService) UpdateUser(ctx context.Context, sess session.Session, id uuid.UUID, name, phoneNumber, region string) error {
	name, canonical, err := s.contact(name, phoneNumber, region)
	if err != nil {
		return err
	}
	return s.adapter.Update(ctx, sess, id, name, canonical)
}

func (s *RosterService) SetStatus(ctx context.Context, sess session.Session, id uuid.UUID, status string) error {
	st, ok := model.ParseStatus(strings.TrimSpace(status))
	if !ok {
		return fmt.Errorf("%w: invalid status %q", model.ErrValidation, status)
	}
	return s.adapter.SetStatus(ctx, sess, id, st)
}

func (s *RosterService) DeleteUser(ctx context.Context, sess session.Session, id uuid.UUID) error {
	return s.adapter.Delete(ctx, sess, id)
}

// MoveUser moves movedID into targetID's position against the current
// roster and commits the resulting order. It returns the reordered list.
func (s *RosterService) MoveUser(ctx context.Context, sess session.Session, movedID, targetID uuid.UUID) ([]model.Entry, error) {
	current, err := s.adapter.List(ctx, sess)
	if err != nil {
		return nil, err
	}

	reordered, err := ordering.Reorder(current, movedID, targetID)
	if err != nil {
		return nil, err
	}

	if len(ordering.Changed(current, reordered)) == 0 {
		return reordered, nil
	}

	if err := s.adapter.CommitOrder(ctx, sess, ordering.IDs(reordered)); err != nil {
		return nil, err
	}

	s.logger.Info("Roster service: user moved", "account_id", sess.AccountID, "entry_id", movedID, "target_id", targetID)
	return reordered, nil
}

func (s *RosterService) CommitOrder(ctx context.Context, sess session.Session, ids []uuid.UUID) error {
	return s.adapter.CommitOrder(ctx, sess, ids)
}

func (s *RosterService) Watch(ctx context.Context, sess session.Session, fn func(roster.Snapshot)) (*roster.Subscription, error) {
	return s.adapter.Subscribe(ctx, sess, fn)
}

type exportedEntry struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	DisplayPhone string    `json:"display_phone"`
	Status       string    `json:"status"`
	Order        int       `json:"order"`
}

type exportDocument struct {
	AccountID  uuid.UUID       `json:"account_id"`
	ExportedAt time.Time       `json:"exported_at"`
	Entries    []exportedEntry `json:"entries"`
}

// ExportKey returns the object key of a roster export taken at t.
func ExportKey(accountID uuid.UUID, t time.Time) string {
	return fmt.Sprintf("accounts/%s/roster-%d.json", accountID, t.Unix())
}

// Export writes the ordered roster to object storage and returns its key.
func (s *RosterService) Export(ctx context.Context, sess session.Session) (string, error) {
	if s.storage == nil {
		return "", model.ErrStorageDisabled
	}

	entries, err := s.adapter.List(ctx, sess)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	doc := exportDocument{
		AccountID:  sess.AccountID,
		ExportedAt: now,
		Entries:    make([]exportedEntry, 0, len(entries)),
	}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, exportedEntry{
			ID:           e.ID,
			Name:         e.Name,
			PhoneNumber:  e.PhoneNumber,
			DisplayPhone: phone.Display(e.PhoneNumber),
			Status:       string(e.Status),
			Order:        e.Order,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal export: %w", err)
	}

	key := ExportKey(sess.AccountID, now)

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		s.logger.Error("Roster service: failed to check export key", "key", key, "error", err.Error())
		return "", fmt.Errorf("failed to check export key: %w", err)
	}
	if exists {
		return "", fmt.Errorf("export %s: %w", key, model.ErrAlreadyExists)
	}

	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
		s.logger.Error("Roster service: failed to upload export", "key", key, "error", err.Error())
		return "", fmt.Errorf("failed to upload export: %w", err)
	}

	s.logger.Info("Roster service: roster exported", "account_id", sess.AccountID, "key", key, "entries", len(entries))
	return key, nil
}

func (s *RosterService) contact(name, phoneNumber, region string) (string, string, error) {
	name = strings.TrimSpace(name)
	if len(name) > maxEntryName {
		return "", "", fmt.Errorf("%w: name is too long", model.ErrValidation)
	}
	canonical, err := s.normalizer.Normalize(phoneNumber, region)
	if err != nil {
		return "", "", err
	}
	return name, canonical, nil
}
