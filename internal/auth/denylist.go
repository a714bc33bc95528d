package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist holds the IDs (jti) of refresh tokens that must no longer be accepted.
// Entries only need to live until the token would have expired anyway.
type Denylist interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// NewDenylist returns a Redis-backed denylist when client is non-nil, otherwise
// a process-local one (suitable for a single instance only).
func NewDenylist(client *redis.Client) Denylist {
	if client != nil {
		return NewRedisDenylist(client)
	}
	return NewMemoryDenylist()
}

// RedisDenylist stores one key per token with a TTL matching the token's expiry.
type RedisDenylist struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisDenylist creates a denylist backed by Redis.
func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client, prefix: "token:denylist:", now: time.Now}
}

// Add blacklists jti until expiresAt. Already expired tokens are ignored.
func (d *RedisDenylist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.prefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("denylist add %s: %w", jti, err)
	}
	return nil
}

// Contains reports whether jti is blacklisted.
func (d *RedisDenylist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, d.prefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("denylist lookup %s: %w", jti, err)
	}
	return n > 0, nil
}

// MemoryDenylist is a mutex-guarded map of jti to expiry.
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryDenylist creates an empty in-process denylist.
func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{entries: make(map[string]time.Time), now: time.Now}
}

// Add blacklists jti until expiresAt and prunes expired entries.
func (d *MemoryDenylist) Add(_ context.Context, jti string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, exp := range d.entries {
		if !exp.After(now) {
			delete(d.entries, k)
		}
	}
	if expiresAt.After(now) {
		d.entries[jti] = expiresAt
	}
	return nil
}

// Contains reports whether jti is blacklisted and not yet expired.
func (d *MemoryDenylist) Contains(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.entries[jti]
	return ok && exp.After(d.now()), nil
}
