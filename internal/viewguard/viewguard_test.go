package viewguard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestGuard(start time.Time) (*Guard, *time.Time) {
	g := New()
	now := start
	g.now = func() time.Time { return now }
	return g, &now
}

func TestShouldCountDedupesWithinWindow(t *testing.T) {
	g, now := newTestGuard(time.Unix(1000, 0))

	assert.True(t, g.ShouldCount("user:1", 42))
	assert.False(t, g.ShouldCount("user:1", 42))

	*now = now.Add(500 * time.Millisecond)
	assert.False(t, g.ShouldCount("user:1", 42))

	*now = now.Add(600 * time.Millisecond)
	assert.True(t, g.ShouldCount("user:1", 42))
}

func TestShouldCountSeparatesViewersAndPosts(t *testing.T) {
	g, _ := newTestGuard(time.Unix(1000, 0))

	assert.True(t, g.ShouldCount("user:1", 42))
	assert.True(t, g.ShouldCount("user:2", 42))
	assert.True(t, g.ShouldCount("user:1", 43))
	assert.True(t, g.ShouldCount("ip:10.0.0.1", 42))
}

func TestCleanupDropsExpiredEntries(t *testing.T) {
	g, now := newTestGuard(time.Unix(1000, 0))

	g.ShouldCount("user:1", 1)
	g.ShouldCount("user:2", 2)
	assert.Equal(t, 2, g.Len())

	// Past the TTL, the next hit triggers cleanup of both stale entries.
	*now = now.Add(TTL + time.Second)
	g.ShouldCount("user:3", 3)
	assert.Equal(t, 1, g.Len())
}

func TestMapResetsWhenOverCapacity(t *testing.T) {
	g, _ := newTestGuard(time.Unix(1000, 0))

	for i := 0; i < MaxEntries+1; i++ {
		g.ShouldCount(fmt.Sprintf("user:%d", i), 1)
	}
	assert.LessOrEqual(t, g.Len(), MaxEntries+1)

	// One more hit after crossing the cap resets the map.
	g.ShouldCount("overflow", 2)
	assert.Less(t, g.Len(), 10)
}
