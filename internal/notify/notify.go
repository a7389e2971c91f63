// Package notify holds the toast feed: action outcomes queued for display,
// auto-expiring, newest last.
package notify

import (
	"log"
	"sync"
	"time"
)

// Level classifies a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is one toast.
type Notice struct {
	Level   Level
	Message string
	At      time.Time
}

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 5 * time.Second

// maxNotices bounds the feed; the oldest notice drops first.
const maxNotices = 50

// Center collects notices. Safe for concurrent use; background work such as
// fire-and-forget indexing reports here too.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	notices []Notice

	now func() time.Time
}

func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, now: time.Now}
}

// Push appends a notice, dropping the oldest when the feed is full.
func (c *Center) Push(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, Notice{Level: level, Message: message, At: c.now()})
	if len(c.notices) > maxNotices {
		c.notices = c.notices[len(c.notices)-maxNotices:]
	}
	log.Printf("notify: [%s] %s", level, message)
}

// Success reports a completed action.
func (c *Center) Success(message string) { c.Push(LevelSuccess, message) }

// Failure reports a failed action.
func (c *Center) Failure(message string) { c.Push(LevelError, message) }

// Info reports a neutral event.
func (c *Center) Info(message string) { c.Push(LevelInfo, message) }

// Active returns the notices still within their display window, oldest
// first. Expired notices are pruned as a side effect.
func (c *Center) Active() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-c.ttl)
	kept := c.notices[:0]
	for _, n := range c.notices {
		if n.At.After(cutoff) {
			kept = append(kept, n)
		}
	}
	c.notices = kept

	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// Clear drops every notice.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = nil
}
