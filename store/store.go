// Package store implements the hierarchical realtime tree shared by every
// connected client. Values are plain JSON-ish trees (map[string]any nodes with
// string/bool/number leaves), addressed by slash-separated paths. Writes to
// the same path resolve last-writer-wins; writes to different paths are
// independent. Consumers observe changes through path subscriptions.
package store

import (
	"sort"
	"strings"
)

// Entry is a key/value pair from a tree node, the shape every aggregation
// walks over.
type Entry struct {
	Key string
	Val any
}

type serverTimestampSentinel struct{}

// ServerTimestamp is a write-time placeholder resolved by the store to a
// monotonically increasing millisecond timestamp.
var ServerTimestamp = serverTimestampSentinel{}

// Store is the realtime tree surface consumed by all scene logic. The tree
// product itself is a collaborator; scene logic must never depend on anything
// beyond this interface.
type Store interface {
	// Get returns a snapshot of the subtree at path, or nil if absent.
	Get(path string) any
	// Set overwrites the subtree at path. Setting nil removes it.
	Set(path string, value any) error
	// Push appends a child under path with a store-generated unique,
	// time-ordered key and returns that key.
	Push(path string, value any) (string, error)
	// Remove deletes the subtree at path.
	Remove(path string) error
	// Query returns the children of path ordered ascending by the named
	// child field, keeping only the last limitToLast entries when
	// limitToLast > 0.
	Query(path string, orderByChild string, limitToLast int) []Entry
	// Subscribe delivers a snapshot of path immediately and again after
	// every write that affects it. Callers must Close the subscription.
	Subscribe(path string) *Subscription
}

// Join builds a slash-separated path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

func splitPath(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// Entries converts a tree node into key-ordered entries. A nil or non-map
// value yields no entries, so partially written subtrees read as empty.
func Entries(v any) []Entry {
	node, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{Key: k, Val: node[k]})
	}
	return out
}

// Child digs into nested map nodes, returning nil as soon as a segment is
// missing. Absent data is the normal state during live writes.
func Child(v any, segments ...string) any {
	for _, seg := range segments {
		node, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = node[seg]
	}
	return v
}

// AsBool coerces a leaf to bool, defaulting false.
func AsBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// AsString coerces a leaf to string, defaulting "".
func AsString(v any) string {
	s, _ := v.(string)
	return s
}

// AsInt coerces a numeric leaf to int64, defaulting 0. JSON round-trips
// deliver float64, direct writes deliver int or int64.
func AsInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func compareValues(a, b any) int {
	an, aNum := asFloat(a)
	bn, bNum := asFloat(b)
	if aNum && bNum {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	return strings.Compare(AsString(a), AsString(b))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
