// Package session holds the application context shared by every screen and
// command: the signed-in identity, the unread notification count, and the
// global banner.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"jendo-cli/internal/model"
)

// Claims are read from the token without verifying its signature; the server
// remains the authority. They only drive local expiry checks.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

func parseClaims(token string) Claims {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}
	}
	var c Claims
	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c
}

// Context is safe for concurrent use; tea commands read the token from
// background goroutines.
type Context struct {
	mu     sync.RWMutex
	token  string
	user   *model.User
	claims Claims
	unread int
	banner string

	store *Store
	now   func() time.Time
}

// New returns a signed-out context. store may be nil for an in-memory session.
func New(store *Store) *Context {
	return &Context{store: store, now: time.Now}
}

// Restore loads the persisted session, if any.
func Restore(ctx context.Context, store *Store) (*Context, error) {
	c := New(store)
	if store == nil {
		return c, nil
	}
	snap, err := store.Load(ctx)
	if err != nil {
		return c, err
	}
	if snap.Token != "" {
		c.token = snap.Token
		c.user = snap.User
		c.claims = parseClaims(snap.Token)
	}
	return c, nil
}

// Begin records a successful sign-in.
func (c *Context) Begin(ctx context.Context, token string, user model.User) error {
	token = strings.TrimSpace(token)
	c.mu.Lock()
	c.token = token
	u := user
	c.user = &u
	c.claims = parseClaims(token)
	c.unread = 0
	c.banner = ""
	store := c.store
	c.mu.Unlock()

	if store == nil {
		return nil
	}
	return store.Save(ctx, Snapshot{Token: token, User: &u})
}

// End clears identity, unread count and banner.
func (c *Context) End(ctx context.Context) error {
	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.claims = Claims{}
	c.unread = 0
	c.banner = ""
	store := c.store
	c.mu.Unlock()

	if store == nil {
		return nil
	}
	return store.Clear(ctx)
}

// Token returns the bearer token, or "" when signed out or expired.
func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" || c.expiredLocked(c.now()) {
		return ""
	}
	return c.token
}

func (c *Context) User() (model.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil || c.token == "" || c.expiredLocked(c.now()) {
		return model.User{}, false
	}
	return *c.user, true
}

func (c *Context) SignedIn() bool { return c.Token() != "" }

func (c *Context) Claims() Claims {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.claims
}

// Expired reports whether the token carries an exp claim that has passed.
// Opaque tokens never expire locally.
func (c *Context) Expired(now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expiredLocked(now)
}

func (c *Context) expiredLocked(now time.Time) bool {
	return !c.claims.ExpiresAt.IsZero() && !now.Before(c.claims.ExpiresAt)
}

func (c *Context) UnreadCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.unread
}

func (c *Context) SetUnreadCount(n int) {
	if n < 0 {
		n = 0
	}
	c.mu.Lock()
	c.unread = n
	c.mu.Unlock()
}

func (c *Context) Banner() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.banner
}

func (c *Context) SetBanner(s string) {
	c.mu.Lock()
	c.banner = strings.TrimSpace(s)
	c.mu.Unlock()
}
