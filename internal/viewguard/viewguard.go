package viewguard

import (
	"fmt"
	"sync"
	"time"
)

const (
	// Window is how long after a recorded hit the same viewer/post pair is
	// considered a duplicate and does not bump the view count again.
	Window = 1 * time.Second
	// TTL is how long entries are kept before opportunistic cleanup removes them.
	TTL = 300 * time.Second
	// MaxEntries caps the map size; when exceeded the map is reset wholesale.
	MaxEntries = 20000
)

// Guard deduplicates post view counting per viewer within a short window.
// It is a bounded in-process map, not a persistent store: restarting the
// process forgets all history, which is acceptable for view counters.
type Guard struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	lastGC time.Time
	now    func() time.Time
}

func New() *Guard {
	return &Guard{
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

// ShouldCount reports whether a view by viewerKey on postID should increment
// the post's view counter, and records the hit when it should.
func (g *Guard) ShouldCount(viewerKey string, postID int64) bool {
	key := fmt.Sprintf("%s:%d", viewerKey, postID)
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, ok := g.seen[key]; ok && now.Sub(last) < Window {
		return false
	}

	g.cleanupLocked(now)
	g.seen[key] = now
	return true
}

// cleanupLocked drops expired entries at most once per TTL interval, and
// resets the whole map if it grew past MaxEntries.
func (g *Guard) cleanupLocked(now time.Time) {
	if len(g.seen) > MaxEntries {
		g.seen = make(map[string]time.Time)
		g.lastGC = now
		return
	}
	if now.Sub(g.lastGC) < TTL {
		return
	}
	for k, t := range g.seen {
		if now.Sub(t) > TTL {
			delete(g.seen, k)
		}
	}
	g.lastGC = now
}

// Len reports the current number of tracked entries.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
