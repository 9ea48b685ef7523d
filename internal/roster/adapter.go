// Package roster bridges roster intents to the entry store and keeps live
// subscriptions in sync through the event bus.
package roster

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dtroode/roundrobin/internal/events"
	"github.com/dtroode/roundrobin/internal/logger"
	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/ordering"
	"github.com/dtroode/roundrobin/internal/session"
)

const defaultWriteConcurrency = 8

// Options tune write behavior.
type Options struct {
	// RenumberOnDelete compacts the remaining orders after a delete.
	RenumberOnDelete bool
	// AtomicReorder applies CommitOrder in a single transaction.
	AtomicReorder bool
	// WriteConcurrency bounds parallel per-entry writes in CommitOrder.
	WriteConcurrency int
}

// Adapter performs roster writes and opens live subscriptions.
type Adapter struct {
	store      model.EntryStore
	publisher  events.Publisher
	subscriber events.Subscriber
	opts       Options
	logger     *logger.Logger
}

// NewAdapter creates an Adapter. A nil publisher disables change
// notifications.
func NewAdapter(
	store model.EntryStore,
	publisher events.Publisher,
	subscriber events.Subscriber,
	opts Options,
	logger *logger.Logger,
) *Adapter {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	if opts.WriteConcurrency <= 0 {
		opts.WriteConcurrency = defaultWriteConcurrency
	}
	return &Adapter{
		store:      store,
		publisher:  publisher,
		subscriber: subscriber,
		opts:       opts,
		logger:     logger,
	}
}

// List returns the account's roster sorted by order.
func (a *Adapter) List(ctx context.Context, sess session.Session) ([]model.Entry, error) {
	if err := sess.RequireAccount(); err != nil {
		return nil, err
	}
	entries, err := a.store.ListByAccount(ctx, sess.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return ordering.Sort(entries), nil
}

// Add appends a new available entry at the tail of the roster.
// phoneNumber must already be canonical.
func (a *Adapter) Add(ctx context.Context, sess session.Session, name, phoneNumber string) (model.Entry, error) {
	if err := sess.RequireAccount(); err != nil {
		return model.Entry{}, err
	}

	entry, err := a.store.Append(ctx, model.Entry{
		AccountID:   sess.AccountID,
		Name:        name,
		PhoneNumber: phoneNumber,
		Status:      model.StatusAvailable,
	})
	if err != nil {
		a.logger.Error("Roster adapter: add failed", "account_id", sess.AccountID, "error", err)
		return model.Entry{}, writeError("add entry", err)
	}

	a.notify(ctx, sess.AccountID, events.OpAdded, entry.ID)
	return entry, nil
}

// Update changes an entry's name and phone number only.
func (a *Adapter) Update(ctx context.Context, sess session.Session, id uuid.UUID, name, phoneNumber string) error {
	if err := sess.RequireAccount(); err != nil {
		return err
	}

	if err := a.store.UpdateContact(ctx, sess.AccountID, id, name, phoneNumber); err != nil {
		a.logger.Error("Roster adapter: update failed", "account_id", sess.AccountID, "entry_id", id, "error", err)
		return writeError("update entry", err)
	}

	a.notify(ctx, sess.AccountID, events.OpUpdated, id)
	return nil
}

// SetStatus changes an entry's availability.
func (a *Adapter) SetStatus(ctx context.Context, sess session.Session, id uuid.UUID, status model.Status) error {
	if err := sess.RequireAccount(); err != nil {
		return err
	}

	if err := a.store.UpdateStatus(ctx, sess.AccountID, id, status); err != nil {
		a.logger.Error("Roster adapter: status update failed", "account_id", sess.AccountID, "entry_id", id, "error", err)
		return writeError("update status", err)
	}

	a.notify(ctx, sess.AccountID, events.OpStatus, id)
	return nil
}

// Delete removes an entry. Remaining orders keep their gap unless
// RenumberOnDelete is set.
func (a *Adapter) Delete(ctx context.Context, sess session.Session, id uuid.UUID) error {
	if err := sess.RequireAccount(); err != nil {
		return err
	}

	var err error
	if a.opts.RenumberOnDelete {
		err = a.store.DeleteAndCompact(ctx, sess.AccountID, id)
	} else {
		err = a.store.Delete(ctx, sess.AccountID, id)
	}
	if err != nil {
		a.logger.Error("Roster adapter: delete failed", "account_id", sess.AccountID, "entry_id", id, "error", err)
		return writeError("delete entry", err)
	}

	a.notify(ctx, sess.AccountID, events.OpDeleted, id)
	return nil
}

// CommitOrder writes each id's position in ids as its order.
//
// By default the writes are independent and may partially apply; failures
// are reported as a *CommitError listing the failed ids. With AtomicReorder
// all writes happen in one transaction.
func (a *Adapter) CommitOrder(ctx context.Context, sess session.Session, ids []uuid.UUID) error {
	if err := sess.RequireAccount(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if dup, ok := firstDuplicate(ids); ok {
		return fmt.Errorf("%w: entry %s appears twice in order", model.ErrValidation, dup)
	}

	if a.opts.AtomicReorder {
		if err := a.store.SetOrders(ctx, sess.AccountID, ids); err != nil {
			a.logger.Error("Roster adapter: atomic reorder failed", "account_id", sess.AccountID, "error", err)
			return writeError("commit order", err)
		}
		a.notify(ctx, sess.AccountID, events.OpReordered, ids...)
		return nil
	}

	var (
		mu     sync.Mutex
		failed = make(map[uuid.UUID]error)
	)

	g := new(errgroup.Group)
	g.SetLimit(a.opts.WriteConcurrency)
	for pos, id := range ids {
		g.Go(func() error {
			if err := a.store.SetOrder(ctx, sess.AccountID, id, pos); err != nil {
				mu.Lock()
				failed[id] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) < len(ids) {
		a.notify(ctx, sess.AccountID, events.OpReordered, ids...)
	}

	if len(failed) > 0 {
		cerr := newCommitError(ids, failed)
		a.logger.Error("Roster adapter: reorder partially failed",
			"account_id", sess.AccountID, "failed", len(failed), "total", len(ids))
		return cerr
	}

	a.logger.Debug("Roster adapter: order committed", "account_id", sess.AccountID, "entries", len(ids))
	return nil
}

// notify publishes a change event. Failures are logged; subscribers catch up
// on the next notification.
func (a *Adapter) notify(ctx context.Context, accountID uuid.UUID, op events.Operation, ids ...uuid.UUID) {
	event := events.RosterChanged{
		AccountID: accountID,
		Op:        op,
		EntryIDs:  ids,
		At:        time.Now().UTC(),
	}
	if err := a.publisher.Publish(context.WithoutCancel(ctx), events.RosterTopic(accountID), event); err != nil {
		a.logger.Warn("Roster adapter: failed to publish change", "account_id", accountID, "op", op, "error", err)
	}
}

func writeError(op string, err error) error {
	if errors.Is(err, model.ErrWrite) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, model.ErrWrite, err)
}

func firstDuplicate(ids []uuid.UUID) (uuid.UUID, bool) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return uuid.Nil, false
}

// CommitError reports the entries whose order write failed.
type CommitError struct {
	// Failed lists failed ids in the order they were committed.
	Failed []uuid.UUID
	Causes map[uuid.UUID]error
	Total  int
}

func newCommitError(ids []uuid.UUID, failed map[uuid.UUID]error) *CommitError {
	out := &CommitError{Causes: failed, Total: len(ids)}
	for _, id := range ids {
		if _, ok := failed[id]; ok {
			out.Failed = append(out.Failed, id)
		}
	}
	return out
}

func (e *CommitError) Error() string {
	ids := make([]string, len(e.Failed))
	for i, id := range e.Failed {
		ids[i] = id.String()
	}
	return fmt.Sprintf("commit order: %d of %d writes failed: %v", len(e.Failed), e.Total, ids)
}

// Unwrap makes a CommitError match model.ErrWrite.
func (e *CommitError) Unwrap() error {
	return model.ErrWrite
}

// FailedIDs returns a copy of the failed ids.
func (e *CommitError) FailedIDs() []uuid.UUID {
	return slices.Clone(e.Failed)
}
