// Package ledger remembers which webhook events were already acted on.
package ledger

import (
	"context"
	"sync"
	"time"
)

// MemoryLedger keeps processed event ids for ttl, or forever when ttl is
// not positive. It only dedupes within one process.
type MemoryLedger struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryLedger(ttl time.Duration) *MemoryLedger {
	return &MemoryLedger{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

// MarkProcessed records eventID and reports whether this was the first time.
func (l *MemoryLedger) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictExpired(now)

	if _, ok := l.seen[eventID]; ok {
		return false, nil
	}
	l.seen[eventID] = now.Add(l.ttl)
	return true, nil
}

func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}

func (l *MemoryLedger) evictExpired(now time.Time) {
	if l.ttl <= 0 {
		return
	}
	for id, expires := range l.seen {
		if !now.Before(expires) {
			delete(l.seen, id)
		}
	}
}
