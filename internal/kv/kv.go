// Package kv provides the device-local key-value storage used to persist
// session state across process restarts.
//
// Two durable backends are available: a JSON file store and a SQLite store.
// Both store opaque string values under string keys and treat the absence
// of a key as ErrNotFound rather than an error condition.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("kv: key not found")

// Store is a durable string key-value store.
//
// Implementations must be safe for concurrent use. Delete is idempotent:
// deleting an absent key returns nil.
type Store interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the value stored under key.
	// Returns nil if the key is absent.
	Delete(ctx context.Context, key string) error
}
