// Package credentials holds the API credential for one editing session.
// The key is issued at session start, lives only in process memory, and
// expires after a period of user inactivity.
package credentials

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// DefaultInactivityTimeout after which a credential can no longer be used.
const DefaultInactivityTimeout = 15 * time.Minute

// ErrExpired is returned once the inactivity timeout has elapsed since the
// last recorded user interaction.
var ErrExpired = errors.New("credential expired after inactivity")

// Credential wraps an API key with an explicit inactivity lifecycle.
type Credential struct {
	mu           sync.Mutex
	key          string
	timeout      time.Duration
	lastActivity time.Time
}

// New credential. A non-positive timeout falls back to the default.
func New(key string, timeout time.Duration) *Credential {
	if timeout <= 0 {
		timeout = DefaultInactivityTimeout
	}
	return &Credential{
		key:          key,
		timeout:      timeout,
		lastActivity: time.Now(),
	}
}

// Touch records a user interaction, pushing the expiry deadline back.
func (c *Credential) Touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActivity = time.Now()
}

// Key returns the API key, or ErrExpired if the credential has lapsed.
func (c *Credential) Key() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if time.Since(c.lastActivity) > c.timeout {
		return "", ErrExpired
	}
	return c.key, nil
}

// Expired reports whether the credential has lapsed without refreshing it.
func (c *Credential) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Since(c.lastActivity) > c.timeout
}
