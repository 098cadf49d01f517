package services

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/dtinth/auden/store"
)

func TestPresenceTracksOnlineUsers(t *testing.T) {
	tree := store.NewMemoryStore()
	s := NewPresenceService(tree)

	s.Connected("alice")
	s.Connected("bob")
	assert.Equal(t, s.OnlineUsers(), []string{"alice", "bob"})
	assert.Equal(t, s.OnlineCount(), 2)

	s.Disconnected("bob")
	assert.Equal(t, s.OnlineUsers(), []string{"alice"})

	lastSeen := store.AsInt(store.Child(tree.Get(store.Join("presence", "bob")), "lastSeen"))
	assert.NotEqual(t, lastSeen, int64(0))
}

func TestPresenceRefcountsConnections(t *testing.T) {
	tree := store.NewMemoryStore()
	s := NewPresenceService(tree)

	// Two tabs: closing one keeps the user online.
	s.Connected("alice")
	s.Connected("alice")
	s.Disconnected("alice")
	assert.Equal(t, s.OnlineUsers(), []string{"alice"})

	s.Disconnected("alice")
	assert.Equal(t, s.OnlineCount(), 0)
}
