package services

import (
	"sync"

	"github.com/dtinth/auden/store"
)

// PresenceService keeps the lightweight online-indicator records at
// /presence/{uid}. A user can hold several connections (multiple tabs), so
// connections are refcounted and the user goes offline only when the last
// one drops.
type PresenceService struct {
	store store.Store

	mu          sync.Mutex
	connections map[string]int
}

func NewPresenceService(s store.Store) *PresenceService {
	return &PresenceService{
		store:       s,
		connections: map[string]int{},
	}
}

// Connected marks a user online.
func (s *PresenceService) Connected(uid string) {
	s.mu.Lock()
	s.connections[uid]++
	s.mu.Unlock()
	s.write(uid, true)
}

// Disconnected drops one connection and marks the user offline once none
// remain.
func (s *PresenceService) Disconnected(uid string) {
	s.mu.Lock()
	s.connections[uid]--
	online := s.connections[uid] > 0
	if !online {
		delete(s.connections, uid)
	}
	s.mu.Unlock()
	s.write(uid, online)
}

func (s *PresenceService) write(uid string, online bool) {
	s.store.Set(store.Join("presence", uid), map[string]any{
		"online":   online,
		"lastSeen": store.ServerTimestamp,
	})
}

// OnlineUsers lists the uids currently marked online.
func (s *PresenceService) OnlineUsers() []string {
	var uids []string
	for _, entry := range store.Entries(s.store.Get("presence")) {
		if store.AsBool(store.Child(entry.Val, "online")) {
			uids = append(uids, entry.Key)
		}
	}
	return uids
}

func (s *PresenceService) OnlineCount() int {
	return len(s.OnlineUsers())
}
