// Package kvstore persists the client's local state (session fields and the
// notification log) as JSON values under string keys.
package kvstore

import (
	"context"
	"errors"
)

const (
	KeyToken         = "token"
	KeyUsername      = "username"
	KeyUserID        = "userId"
	KeyDarkMode      = "darkMode"
	KeyNotifications = "notifications"
)

var ErrNotFound = errors.New("key not found")

// Store is read-modify-write without locking across processes: the last
// writer wins.
type Store interface {
	// Get decodes the value under key into dest, or returns ErrNotFound.
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	// Delete of a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
