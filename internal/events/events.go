// Package events carries roster change notifications between writers and
// live subscriptions.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TopicRosterAll matches the change topic of every account on NATS.
const TopicRosterAll = "roster.*.changed"

// RosterTopic returns the change topic for one account's roster.
func RosterTopic(accountID uuid.UUID) string {
	return "roster." + accountID.String() + ".changed"
}

// Operation names a write that changed a roster.
type Operation string

const (
	OpAdded     Operation = "added"
	OpUpdated   Operation = "updated"
	OpDeleted   Operation = "deleted"
	OpReordered Operation = "reordered"
	OpStatus    Operation = "status"
)

// RosterChanged is published after every successful roster write.
// Subscribers treat it as a hint to reload the whole roster.
type RosterChanged struct {
	AccountID uuid.UUID   `json:"account_id"`
	Op        Operation   `json:"op"`
	EntryIDs  []uuid.UUID `json:"entry_ids,omitempty"`
	At        time.Time   `json:"at"`
}

// Publisher emits events to the event bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}

// Bus is both ends of the event bus.
type Bus interface {
	Publisher
	Subscriber
}

// subscriberBuffer is the per-subscription channel size. Payloads beyond it
// are dropped; the next notification triggers a full reload anyway.
const subscriberBuffer = 64
