package client

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/roundrobin/internal/model"
)

func entries(names ...string) []model.Entry {
	out := make([]model.Entry, len(names))
	for i, n := range names {
		out[i] = model.Entry{ID: uuid.New(), Name: n, PhoneNumber: "+12015550100", Status: model.StatusAvailable, Order: i}
	}
	return out
}

func entryNames(list []model.Entry) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Name
	}
	return out
}

func TestMirror(t *testing.T) {
	t.Run("starts unloaded", func(t *testing.T) {
		m := NewMirror()
		assert.False(t, m.Loaded())
		assert.False(t, m.Speculating())
		assert.Empty(t, m.Entries())
	})

	t.Run("speculation shows until discarded", func(t *testing.T) {
		m := NewMirror()
		list := entries("a", "b")
		m.Apply(list)

		m.Speculate([]model.Entry{list[1], list[0]})
		assert.True(t, m.Speculating())
		assert.Equal(t, []string{"b", "a"}, entryNames(m.Entries()))

		m.Discard()
		assert.False(t, m.Speculating())
		assert.Equal(t, []string{"a", "b"}, entryNames(m.Entries()))
	})

	t.Run("snapshot replaces speculation", func(t *testing.T) {
		m := NewMirror()
		m.Apply(entries("a", "b"))
		m.Speculate(entries("x"))

		m.Apply(entries("c", "d", "e"))
		assert.False(t, m.Speculating())
		assert.Equal(t, []string{"c", "d", "e"}, entryNames(m.Entries()))
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		m := NewMirror()
		m.Apply(entries("a"))

		got := m.Entries()
		got[0].Name = "changed"
		assert.Equal(t, "a", m.Entries()[0].Name)
	})
}
