package store

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// MemoryStore is the in-process tree engine. All mutation goes through a
// single mutex, which gives each path last-writer-wins semantics and makes
// server timestamps monotonic across concurrent writers.
type MemoryStore struct {
	mu      sync.Mutex
	root    map[string]any
	subs    map[int]*Subscription
	nextSub int
	lastTS  int64
	entropy *ulid.MonotonicEntropy
}

// Subscription delivers snapshots of one path. The channel always holds the
// latest snapshot only; a slow consumer skips intermediate states rather than
// lagging behind the live tree.
type Subscription struct {
	store *MemoryStore
	id    int
	path  string
	C     chan any
}

// Close tears down the subscription. Required on navigation away from a
// screen, otherwise the hub leaks feeds.
func (s *Subscription) Close() {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, ok := s.store.subs[s.id]; ok {
		delete(s.store.subs, s.id)
		close(s.C)
	}
}

// Path returns the subscribed path.
func (s *Subscription) Path() string {
	return s.path
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		root:    map[string]any{},
		subs:    map[int]*Subscription{},
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (m *MemoryStore) Get(path string) any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.get(splitPath(path)))
}

func (m *MemoryStore) Set(path string, value any) error {
	segments := splitPath(path)
	if len(segments) == 0 && value != nil {
		if _, ok := value.(map[string]any); !ok {
			return fmt.Errorf("store: cannot set non-map value at root")
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(segments, m.resolve(clone(value)))
	m.notify(path)
	return nil
}

func (m *MemoryStore) Push(path string, value any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, err := m.pushKey()
	if err != nil {
		return "", err
	}
	segments := append(splitPath(path), key)
	m.set(segments, m.resolve(clone(value)))
	m.notify(Join(path, key))
	return key, nil
}

func (m *MemoryStore) Remove(path string) error {
	return m.Set(path, nil)
}

func (m *MemoryStore) Query(path string, orderByChild string, limitToLast int) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := Entries(clone(m.get(splitPath(path))))
	// Stable sort on top of key order, so equal field values keep
	// arrival order.
	sort.SliceStable(entries, func(i, j int) bool {
		return compareValues(Child(entries[i].Val, orderByChild), Child(entries[j].Val, orderByChild)) < 0
	})
	if limitToLast > 0 && len(entries) > limitToLast {
		entries = entries[len(entries)-limitToLast:]
	}
	return entries
}

func (m *MemoryStore) Subscribe(path string) *Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := &Subscription{
		store: m,
		id:    m.nextSub,
		path:  path,
		C:     make(chan any, 1),
	}
	m.nextSub++
	m.subs[sub.id] = sub
	sub.deliver(clone(m.get(splitPath(path))))
	return sub
}

// ReplaceRoot swaps the whole tree, used when restoring a snapshot. Every
// subscriber observes its path again.
func (m *MemoryStore) ReplaceRoot(root map[string]any) {
	if root == nil {
		root = map[string]any{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.root = root
	for _, sub := range m.subs {
		sub.deliver(clone(m.get(splitPath(sub.path))))
	}
}

// Root returns a snapshot of the whole tree.
func (m *MemoryStore) Root() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.root).(map[string]any)
}

func (m *MemoryStore) get(segments []string) any {
	var v any = m.root
	for _, seg := range segments {
		node, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = node[seg]
	}
	return v
}

func (m *MemoryStore) set(segments []string, value any) {
	if len(segments) == 0 {
		if value == nil {
			m.root = map[string]any{}
		} else {
			m.root = value.(map[string]any)
		}
		return
	}
	node := m.root
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			if value == nil {
				return
			}
			child = map[string]any{}
			node[seg] = child
		}
		node = child
	}
	last := segments[len(segments)-1]
	if value == nil {
		delete(node, last)
	} else {
		node[last] = value
	}
}

// notify re-delivers to every subscription whose path contains, or is
// contained by, the written path.
func (m *MemoryStore) notify(path string) {
	for _, sub := range m.subs {
		if related(sub.path, path) {
			sub.deliver(clone(m.get(splitPath(sub.path))))
		}
	}
}

func related(a, b string) bool {
	as, bs := splitPath(a), splitPath(b)
	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func (sub *Subscription) deliver(v any) {
	for {
		select {
		case sub.C <- v:
			return
		default:
			select {
			case <-sub.C:
			default:
			}
		}
	}
}

// timestamp returns wall-clock milliseconds, bumped to stay strictly
// increasing under concurrent writes.
func (m *MemoryStore) timestamp() int64 {
	ts := time.Now().UnixMilli()
	if ts <= m.lastTS {
		ts = m.lastTS + 1
	}
	m.lastTS = ts
	return ts
}

func (m *MemoryStore) pushKey() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), m.entropy)
	if err != nil {
		return "", fmt.Errorf("store: generate push key: %w", err)
	}
	return "-" + id.String(), nil
}

// resolve replaces server-timestamp sentinels in a value about to be written.
func (m *MemoryStore) resolve(v any) any {
	switch val := v.(type) {
	case serverTimestampSentinel:
		return m.timestamp()
	case map[string]any:
		for k, child := range val {
			val[k] = m.resolve(child)
		}
		return val
	}
	return v
}

func clone(v any) any {
	node, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(node))
	for k, child := range node {
		out[k] = clone(child)
	}
	return out
}
