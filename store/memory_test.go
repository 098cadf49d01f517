package store

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestSetAndGet(t *testing.T) {
	s := NewMemoryStore()

	err := s.Set("a/b/c", "hello")
	assert.Equal(t, err, nil)
	assert.Equal(t, s.Get("a/b/c"), "hello")
	assert.Equal(t, s.Get("a/b"), map[string]any{"c": "hello"})
	assert.Equal(t, s.Get("a/missing"), nil)
}

func TestSetOverwritesSubtree(t *testing.T) {
	s := NewMemoryStore()

	s.Set("options", map[string]any{"option00": "A", "option01": "B"})
	s.Set("options", map[string]any{"option00": "C"})
	assert.Equal(t, s.Get("options"), map[string]any{"option00": "C"})
}

func TestRemove(t *testing.T) {
	s := NewMemoryStore()

	s.Set("a/b", "x")
	s.Set("a/c", "y")
	s.Remove("a/b")
	assert.Equal(t, s.Get("a/b"), nil)
	assert.Equal(t, s.Get("a/c"), "y")
}

func TestLastWriterWins(t *testing.T) {
	s := NewMemoryStore()

	s.Set("cell", "first")
	s.Set("cell", "second")
	assert.Equal(t, s.Get("cell"), "second")
}

func TestGetReturnsSnapshot(t *testing.T) {
	s := NewMemoryStore()

	s.Set("node", map[string]any{"k": "v"})
	snapshot := s.Get("node").(map[string]any)
	snapshot["k"] = "mutated"
	assert.Equal(t, s.Get("node/k"), "v")
}

func TestPushKeysAreOrdered(t *testing.T) {
	s := NewMemoryStore()

	var keys []string
	for i := 0; i < 10; i++ {
		key, err := s.Push("events", map[string]any{"n": i})
		assert.Equal(t, err, nil)
		keys = append(keys, key)
	}

	entries := Entries(s.Get("events"))
	assert.Equal(t, len(entries), 10)
	for i, entry := range entries {
		assert.Equal(t, entry.Key, keys[i])
		assert.Equal(t, AsInt(Child(entry.Val, "n")), int64(i))
	}
}

func TestServerTimestampsAreMonotonic(t *testing.T) {
	s := NewMemoryStore()

	before := time.Now().UnixMilli()
	var last int64
	for i := 0; i < 100; i++ {
		s.Push("log", map[string]any{"timestamp": ServerTimestamp})
	}
	for _, entry := range Entries(s.Get("log")) {
		ts := AsInt(Child(entry.Val, "timestamp"))
		if ts < before {
			t.Fatalf("timestamp %d before test start %d", ts, before)
		}
		if ts <= last {
			t.Fatalf("timestamp %d not increasing (previous %d)", ts, last)
		}
		last = ts
	}
}

func TestQueryOrdersByChildField(t *testing.T) {
	s := NewMemoryStore()

	s.Set("events/z", map[string]any{"timestamp": int64(3)})
	s.Set("events/a", map[string]any{"timestamp": int64(1)})
	s.Set("events/m", map[string]any{"timestamp": int64(2)})

	entries := s.Query("events", "timestamp", 0)
	assert.Equal(t, len(entries), 3)
	assert.Equal(t, entries[0].Key, "a")
	assert.Equal(t, entries[1].Key, "m")
	assert.Equal(t, entries[2].Key, "z")
}

func TestQueryLimitToLastKeepsNewest(t *testing.T) {
	s := NewMemoryStore()

	for i := 0; i < 50; i++ {
		s.Push("events", map[string]any{"timestamp": int64(i)})
	}

	entries := s.Query("events", "timestamp", 30)
	assert.Equal(t, len(entries), 30)
	assert.Equal(t, AsInt(Child(entries[0].Val, "timestamp")), int64(20))
	assert.Equal(t, AsInt(Child(entries[29].Val, "timestamp")), int64(49))
}

func TestQueryTiesKeepKeyOrder(t *testing.T) {
	s := NewMemoryStore()

	s.Set("events/b", map[string]any{"timestamp": int64(1)})
	s.Set("events/a", map[string]any{"timestamp": int64(1)})

	entries := s.Query("events", "timestamp", 0)
	assert.Equal(t, entries[0].Key, "a")
	assert.Equal(t, entries[1].Key, "b")
}

func TestSubscribeDeliversSnapshotThenUpdates(t *testing.T) {
	s := NewMemoryStore()
	s.Set("cell", "initial")

	sub := s.Subscribe("cell")
	defer sub.Close()
	assert.Equal(t, <-sub.C, "initial")

	s.Set("cell", "changed")
	assert.Equal(t, <-sub.C, "changed")
}

func TestSubscribeObservesChildWrites(t *testing.T) {
	s := NewMemoryStore()

	sub := s.Subscribe("node")
	defer sub.Close()
	assert.Equal(t, <-sub.C, nil)

	s.Set("node/child", "v")
	assert.Equal(t, <-sub.C, map[string]any{"child": "v"})
}

func TestSubscriptionSkipsToLatest(t *testing.T) {
	s := NewMemoryStore()
	sub := s.Subscribe("cell")
	defer sub.Close()

	// No reads between writes: the channel should hold only the latest.
	s.Set("cell", "one")
	s.Set("cell", "two")
	s.Set("cell", "three")
	assert.Equal(t, <-sub.C, "three")
}

func TestEntriesOnMissingData(t *testing.T) {
	assert.Equal(t, len(Entries(nil)), 0)
	assert.Equal(t, len(Entries("not a map")), 0)
}

func TestChildOnMissingData(t *testing.T) {
	assert.Equal(t, Child(nil, "a", "b"), nil)
	assert.Equal(t, Child(map[string]any{"a": "leaf"}, "a", "b"), nil)
}

func TestCoercionsDefaultOnMalformedData(t *testing.T) {
	assert.Equal(t, AsBool("true"), false)
	assert.Equal(t, AsString(42), "")
	assert.Equal(t, AsInt("42"), int64(0))
	assert.Equal(t, AsInt(float64(42)), int64(42))
	assert.Equal(t, AsInt(42), int64(42))
}

func TestReplaceRootRedelivers(t *testing.T) {
	s := NewMemoryStore()
	s.Set("cell", "old")

	sub := s.Subscribe("cell")
	<-sub.C
	defer sub.Close()

	s.ReplaceRoot(map[string]any{"cell": "restored"})
	assert.Equal(t, <-sub.C, "restored")
	assert.Equal(t, s.Get("cell"), "restored")
}
