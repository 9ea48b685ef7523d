package client

import (
	"slices"
	"sync"

	"github.com/dtroode/roundrobin/internal/model"
)

// Mirror holds the roster a client displays. Authoritative snapshots from
// the server always replace any local speculation.
type Mirror struct {
	mu            sync.RWMutex
	authoritative []model.Entry
	speculative   []model.Entry
	speculating   bool
	loaded        bool
}

func NewMirror() *Mirror {
	return &Mirror{}
}

// Apply installs a server snapshot and drops any speculation.
func (m *Mirror) Apply(entries []model.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authoritative = slices.Clone(entries)
	m.speculative = nil
	m.speculating = false
	m.loaded = true
}

// Speculate shows entries until the next Apply or Discard.
func (m *Mirror) Speculate(entries []model.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speculative = slices.Clone(entries)
	m.speculating = true
}

// Discard drops speculation and reverts to the last snapshot.
func (m *Mirror) Discard() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speculative = nil
	m.speculating = false
}

// Entries returns what should be displayed.
func (m *Mirror) Entries() []model.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.speculating {
		return slices.Clone(m.speculative)
	}
	return slices.Clone(m.authoritative)
}

// Speculating reports whether the displayed roster is unconfirmed.
func (m *Mirror) Speculating() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.speculating
}

// Loaded reports whether a snapshot was ever applied.
func (m *Mirror) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}
