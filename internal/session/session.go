// Package session holds the signed-in identity and UI preferences, mirrored to
// a kvstore.Store under the token, username, userId and darkMode keys.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"crowdfix/internal/kvstore"
	"crowdfix/internal/logger"
	"crowdfix/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type Context struct {
	kv kvstore.Store

	mu  sync.RWMutex
	cur models.Session
}

// Load reads the persisted session. Missing keys leave the zero value.
func Load(ctx context.Context, kv kvstore.Store) (*Context, error) {
	c := &Context{kv: kv}

	fields := []struct {
		key  string
		dest interface{}
	}{
		{kvstore.KeyToken, &c.cur.Token},
		{kvstore.KeyUsername, &c.cur.Username},
		{kvstore.KeyUserID, &c.cur.UserID},
		{kvstore.KeyDarkMode, &c.cur.DarkMode},
	}
	for _, f := range fields {
		if err := kv.Get(ctx, f.key, f.dest); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
			return nil, fmt.Errorf("failed to load session field %s: %w", f.key, err)
		}
	}

	logger.Log.Debug("Session loaded",
		zap.String("username", c.cur.Username),
		zap.Bool("token_present", c.cur.Token != ""))

	return c, nil
}

func (c *Context) Current() models.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cur
}

func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cur.Token
}

func (c *Context) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cur.Username
}

// Begin persists a successful login. The in-memory identity changes only
// once every key is written.
func (c *Context) Begin(ctx context.Context, username, token string) error {
	userID := userIDFromToken(token)

	if err := c.kv.Set(ctx, kvstore.KeyToken, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := c.kv.Set(ctx, kvstore.KeyUsername, username); err != nil {
		return fmt.Errorf("failed to persist username: %w", err)
	}
	if err := c.kv.Set(ctx, kvstore.KeyUserID, userID); err != nil {
		return fmt.Errorf("failed to persist user id: %w", err)
	}

	c.mu.Lock()
	c.cur.Username = username
	c.cur.Token = token
	c.cur.UserID = userID
	c.mu.Unlock()
	return nil
}

// Clear tears down the identity. The dark mode preference survives logout.
func (c *Context) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.cur.Token = ""
	c.cur.Username = ""
	c.cur.UserID = ""
	c.mu.Unlock()

	for _, key := range []string{kvstore.KeyToken, kvstore.KeyUsername, kvstore.KeyUserID} {
		if err := c.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	return nil
}

func (c *Context) SetDarkMode(ctx context.Context, on bool) error {
	c.mu.Lock()
	c.cur.DarkMode = on
	c.mu.Unlock()

	if err := c.kv.Set(ctx, kvstore.KeyDarkMode, on); err != nil {
		return fmt.Errorf("failed to persist dark mode: %w", err)
	}
	return nil
}

func (c *Context) ToggleDarkMode(ctx context.Context) (bool, error) {
	on := !c.Current().DarkMode
	return on, c.SetDarkMode(ctx, on)
}

// userIDFromToken reads the user id claim without verifying the signature;
// the server remains the only party that trusts the token. Opaque tokens
// yield "".
func userIDFromToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}

	for _, name := range []string{"user_id", "userId", "sub"} {
		switch v := claims[name].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return ""
}
