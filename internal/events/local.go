package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrBusClosed is returned by a LocalBus after Close.
var ErrBusClosed = errors.New("event bus closed")

type localSub struct {
	ch chan []byte
}

// LocalBus is an in-process Bus used when no NATS server is configured.
// Topics match exactly.
type LocalBus struct {
	mu     sync.Mutex
	subs   map[string]map[*localSub]struct{}
	closed bool
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[string]map[*localSub]struct{})}
}

func (b *LocalBus) Publish(ctx context.Context, topic string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	for s := range b.subs[topic] {
		select {
		case s.ch <- data:
		default:
		}
	}
	return nil
}

func (b *LocalBus) Subscribe(topic string) (<-chan []byte, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, nil, ErrBusClosed
	}

	s := &localSub{ch: make(chan []byte, subscriberBuffer)}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*localSub]struct{})
	}
	b.subs[topic][s] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[topic][s]; !ok {
				return
			}
			delete(b.subs[topic], s)
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
			close(s.ch)
		})
	}
	return s.ch, cancel, nil
}

// SubscriptionCount returns the number of open subscriptions.
func (b *LocalBus) SubscriptionCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, set := range b.subs {
		n += len(set)
	}
	return n
}

// Close closes every open subscription channel.
func (b *LocalBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for topic, set := range b.subs {
		for s := range set {
			close(s.ch)
		}
		delete(b.subs, topic)
	}
	return nil
}
