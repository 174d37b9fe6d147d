package chat

import (
	"time"

	"golang.org/x/time/rate"
)

func NewGuestLimiter(limit float64, burst int, idle time.Duration, now func() time.Time) *guestLimiter {
	l := newGuestLimiter(rate.Limit(limit), burst, idle)
	l.now = now
	l.lastSweep = now()
	return l
}

func (l *guestLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.guests)
}
