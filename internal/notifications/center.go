// Package notifications keeps the local, append-only notification log.
//
// The log lives in the kvstore under the notifications key and is written
// back after every change. Ids are max+1 and never reused.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"crowdfix/internal/errs"
	"crowdfix/internal/kvstore"
	"crowdfix/internal/logger"
	"crowdfix/internal/models"

	"go.uber.org/zap"
)

// Defaults seed an empty log on first load.
var Defaults = []models.Notification{
	{ID: 1, Message: "New solution posted on your problem"},
	{ID: 2, Message: "User replied to your comment"},
}

type Center struct {
	kv   kvstore.Store
	seed bool

	mu     sync.Mutex
	items  []models.Notification
	unseen bool
}

type Option func(*Center)

// WithoutSeed leaves a fresh log empty instead of seeding Defaults.
func WithoutSeed() Option {
	return func(c *Center) { c.seed = false }
}

func NewCenter(kv kvstore.Store, opts ...Option) *Center {
	c := &Center{kv: kv, seed: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads the persisted log. When nothing is stored yet the defaults are
// seeded and written back.
func (c *Center) Load(ctx context.Context) error {
	var items []models.Notification
	err := c.kv.Get(ctx, kvstore.KeyNotifications, &items)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		items = []models.Notification{}
		if c.seed {
			items = append(items, Defaults...)
		}
		if err := c.persist(ctx, items); err != nil {
			return err
		}
		logger.Log.Debug("Seeded notification log", zap.Int("count", len(items)))
	case err != nil:
		return fmt.Errorf("failed to load notifications: %w", err)
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// Record appends an unread notification and raises the unseen indicator.
func (c *Center) Record(ctx context.Context, message string) (models.Notification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := models.Notification{ID: nextID(c.items), Message: message}
	next := append(append([]models.Notification(nil), c.items...), n)
	if err := c.persist(ctx, next); err != nil {
		return models.Notification{}, err
	}

	c.items = next
	c.unseen = true
	logger.Log.Debug("Notification recorded", zap.Int("id", n.ID), zap.String("message", message))
	return n, nil
}

func (c *Center) MarkRead(ctx context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i, n := range c.items {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errs.Validation("notifications.mark_read", fmt.Errorf("notification %d does not exist", id))
	}
	if c.items[idx].IsRead {
		return nil
	}

	next := append([]models.Notification(nil), c.items...)
	next[idx].IsRead = true
	if err := c.persist(ctx, next); err != nil {
		return err
	}
	c.items = next
	return nil
}

// List returns the log oldest first.
func (c *Center) List() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Notification(nil), c.items...)
}

func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, n := range c.items {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// Unseen reports whether anything was recorded since the last MarkSeen.
func (c *Center) Unseen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unseen
}

func (c *Center) MarkSeen() {
	c.mu.Lock()
	c.unseen = false
	c.mu.Unlock()
}

func (c *Center) persist(ctx context.Context, items []models.Notification) error {
	if err := c.kv.Set(ctx, kvstore.KeyNotifications, items); err != nil {
		return fmt.Errorf("failed to persist notifications: %w", err)
	}
	return nil
}

func nextID(items []models.Notification) int {
	max := 0
	for _, n := range items {
		if n.ID > max {
			max = n.ID
		}
	}
	return max + 1
}
