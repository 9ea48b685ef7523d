package roster

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/roundrobin/internal/events"
	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/ordering"
	"github.com/dtroode/roundrobin/internal/session"
)

// ErrSubscriptionsDisabled is returned by Subscribe when the adapter has no
// event subscriber.
var ErrSubscriptionsDisabled = errors.New("live subscriptions are not configured")

// Snapshot is one full delivery of an account's roster.
type Snapshot struct {
	AccountID uuid.UUID
	Entries   []model.Entry
	// Err is set when reloading after a change failed. Entries is nil then
	// and the previous delivery remains authoritative.
	Err         error
	DeliveredAt time.Time
}

// Subscription is a live roster feed. It must be closed when the viewer
// goes away.
type Subscription struct {
	cancel func()
	done   chan struct{}
	exited chan struct{}
	once   sync.Once
}

// Subscribe loads the roster, delivers it to fn and re-delivers a full
// snapshot after every change notification for the session's account.
// fn is never called concurrently with itself. The feed ends when ctx is
// done or the subscription is closed.
func (a *Adapter) Subscribe(ctx context.Context, sess session.Session, fn func(Snapshot)) (*Subscription, error) {
	if err := sess.RequireAccount(); err != nil {
		return nil, err
	}
	if a.subscriber == nil {
		return nil, ErrSubscriptionsDisabled
	}

	ch, cancel, err := a.subscriber.Subscribe(events.RosterTopic(sess.AccountID))
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to roster changes: %w", err)
	}

	// Subscribe before the first load so no change between the two is lost.
	initial, err := a.store.ListByAccount(ctx, sess.AccountID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	sub := &Subscription{
		cancel: cancel,
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}

	a.logger.Debug("Roster adapter: subscription opened", "account_id", sess.AccountID)

	go func() {
		defer close(sub.exited)
		defer cancel()

		fn(Snapshot{
			AccountID:   sess.AccountID,
			Entries:     ordering.Sort(initial),
			DeliveredAt: time.Now(),
		})

		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.done:
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				if !drain(ch) {
					return
				}
				// Deliveries after Close are dropped.
				select {
				case <-sub.done:
					return
				default:
				}
				fn(a.reload(ctx, sess.AccountID))
			}
		}
	}()

	return sub, nil
}

func (a *Adapter) reload(ctx context.Context, accountID uuid.UUID) Snapshot {
	entries, err := a.store.ListByAccount(ctx, accountID)
	if err != nil {
		a.logger.Error("Roster adapter: reload failed", "account_id", accountID, "error", err)
		return Snapshot{AccountID: accountID, Err: err, DeliveredAt: time.Now()}
	}
	return Snapshot{
		AccountID:   accountID,
		Entries:     ordering.Sort(entries),
		DeliveredAt: time.Now(),
	}
}

// drain discards queued notifications so a burst causes one reload.
// It reports false if the channel was closed.
func drain(ch <-chan []byte) bool {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}

// Close unregisters the subscription and waits for any in-flight delivery
// to finish. It is safe to call more than once but must not be called
// from the delivery callback.
func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.done)
		s.cancel()
	})
	<-s.exited
}

// Done is closed when the subscription's goroutine has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.exited
}
