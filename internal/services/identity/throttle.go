package identity

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// loginThrottle rate-limits login attempts per normalized email so the
// REST and GraphQL surfaces share one guard. Idle entries are swept so
// the map stays bounded on a long-running server.
type loginThrottle struct {
	mu        sync.Mutex
	attempts  map[string]*attemptEntry
	limit     rate.Limit
	burst     int
	idleAfter time.Duration
	lastSweep time.Time
}

type attemptEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLoginThrottle() *loginThrottle {
	return &loginThrottle{
		attempts:  make(map[string]*attemptEntry),
		limit:     rate.Every(time.Second),
		burst:     10,
		idleAfter: 10 * time.Minute,
		lastSweep: time.Now(),
	}
}

func (l *loginThrottle) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > time.Minute {
		for k, e := range l.attempts {
			if now.Sub(e.lastSeen) > l.idleAfter {
				delete(l.attempts, k)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.attempts[key]
	if !ok {
		entry = &attemptEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.attempts[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}
