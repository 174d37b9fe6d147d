package chat

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const guestIdle = 10 * time.Minute

type guest struct {
	limiter *rate.Limiter
	seen    time.Time
}

// guestLimiter rate limits guests per client key. Entries idle longer than
// idle are swept on the next call after the sweep interval.
type guestLimiter struct {
	mu        sync.Mutex
	guests    map[string]*guest
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newGuestLimiter(limit rate.Limit, burst int, idle time.Duration) *guestLimiter {
	return &guestLimiter{
		guests:    make(map[string]*guest),
		limit:     limit,
		burst:     burst,
		idle:      idle,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *guestLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.idle {
		l.sweep(now)
	}

	g, ok := l.guests[key]
	if !ok {
		g = &guest{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.guests[key] = g
	}
	g.seen = now
	return g.limiter.AllowN(now, 1)
}

func (l *guestLimiter) sweep(now time.Time) {
	for key, g := range l.guests {
		if now.Sub(g.seen) > l.idle {
			delete(l.guests, key)
		}
	}
	l.lastSweep = now
}
