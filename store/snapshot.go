package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Snapshotter persists the tree to Redis as a single JSON blob so a restarted
// process rejoins the event with the same state. Events are short-lived, so a
// generous TTL doubles as cleanup.
type Snapshotter struct {
	store     *MemoryStore
	redis     *redis.Client
	namespace string
}

const snapshotTTL = 24 * time.Hour

func NewSnapshotter(store *MemoryStore, redisClient *redis.Client, namespace string) *Snapshotter {
	return &Snapshotter{
		store:     store,
		redis:     redisClient,
		namespace: namespace,
	}
}

func (s *Snapshotter) key() string {
	return "auden:tree:" + s.namespace
}

// Save writes the current tree to Redis.
func (s *Snapshotter) Save(ctx context.Context) error {
	data, err := json.Marshal(s.store.Root())
	if err != nil {
		return fmt.Errorf("failed to marshal tree snapshot: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(), data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot in Redis: %w", err)
	}
	return nil
}

// Restore loads the latest snapshot, if any, into the tree.
func (s *Snapshotter) Restore(ctx context.Context) error {
	data, err := s.redis.Get(ctx, s.key()).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("failed to load snapshot from Redis: %w", err)
	}
	var root map[string]any
	if err := json.Unmarshal([]byte(data), &root); err != nil {
		return fmt.Errorf("failed to unmarshal tree snapshot: %w", err)
	}
	s.store.ReplaceRoot(root)
	log.Printf("Restored tree snapshot for namespace %s", s.namespace)
	return nil
}

// Run saves the tree periodically until ctx is cancelled, then saves once
// more on the way out.
func (s *Snapshotter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if err := s.Save(context.Background()); err != nil {
				log.Printf("Failed to save final snapshot: %v", err)
			}
			return
		case <-ticker.C:
			if err := s.Save(ctx); err != nil {
				log.Printf("Failed to save snapshot: %v", err)
			}
		}
	}
}
