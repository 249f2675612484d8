// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"treecms/internal/models"
)

const (
	// treeKey is the Valkey key holding the serialized category forest.
	treeKey = "categories:tree"

	// treeTTL bounds staleness if an invalidation is ever missed
	// (for example when Valkey is briefly unreachable during a write).
	treeTTL = 5 * time.Minute
)

// TreeCache stores the nested category forest in Valkey as JSON.
// It is a read-through cache: misses and Valkey errors both fall back
// to the database, so the cache is never load-bearing.
type TreeCache struct {
	client *redis.Client
}

// NewTreeCache returns a TreeCache backed by the given Valkey client.
func NewTreeCache(client *redis.Client) *TreeCache {
	return &TreeCache{client: client}
}

// Get returns the cached forest, or ok=false on miss or error.
func (c *TreeCache) Get(ctx context.Context) ([]models.Category, bool) {
	payload, err := c.client.Get(ctx, treeKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("tree cache get failed", "error", err)
		return nil, false
	}

	var tree []models.Category
	if err := json.Unmarshal(payload, &tree); err != nil {
		slog.Warn("tree cache payload corrupt, dropping", "error", err)
		c.client.Del(ctx, treeKey)
		return nil, false
	}
	return tree, true
}

// Set stores the forest. Failures are logged, not returned — the next
// read simply misses.
func (c *TreeCache) Set(ctx context.Context, tree []models.Category) {
	payload, err := json.Marshal(tree)
	if err != nil {
		slog.Warn("tree cache marshal failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, treeKey, payload, treeTTL).Err(); err != nil {
		slog.Warn("tree cache set failed", "error", err)
	}
}

// Invalidate drops the cached forest. Called on every category mutation.
func (c *TreeCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, treeKey).Err()
}
