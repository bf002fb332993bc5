package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const memoryIdleTTL = 10 * time.Minute

type memoryEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryBucket keeps one token bucket per key inside the process. It is used
// when no Redis address is configured.
type MemoryBucket struct {
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryBucket(now func() time.Time) *MemoryBucket {
	if now == nil {
		now = time.Now
	}
	return &MemoryBucket{
		entries: make(map[string]*memoryEntry),
		now:     now,
	}
}

func (b *MemoryBucket) Allow(_ context.Context, key string, r float64, burst int) (*Decision, error) {
	if err := checkArgs(key, r, burst); err != nil {
		return &Decision{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.sweep(now)

	entry, ok := b.entries[key]
	if !ok {
		entry = &memoryEntry{limiter: rate.NewLimiter(rate.Limit(r), burst)}
		b.entries[key] = entry
	}
	if entry.limiter.Limit() != rate.Limit(r) {
		entry.limiter.SetLimitAt(now, rate.Limit(r))
	}
	if entry.limiter.Burst() != burst {
		entry.limiter.SetBurstAt(now, burst)
	}
	entry.lastSeen = now

	allowed := entry.limiter.AllowN(now, 1)
	tokens := entry.limiter.TokensAt(now)

	retryAfter := time.Duration(0)
	if !allowed && tokens < 1 {
		retryAfter = time.Duration((1 - tokens) / r * float64(time.Second))
	}
	remaining := int(tokens)
	if remaining < 0 {
		remaining = 0
	}
	return &Decision{
		Allowed:    allowed,
		Limit:      burst,
		Remaining:  remaining,
		ResetTime:  now.Add(retryAfter),
		RetryAfter: retryAfter,
	}, nil
}

func (b *MemoryBucket) sweep(now time.Time) {
	if now.Sub(b.lastSweep) < memoryIdleTTL {
		return
	}
	for key, entry := range b.entries {
		if now.Sub(entry.lastSeen) > memoryIdleTTL {
			delete(b.entries, key)
		}
	}
	b.lastSweep = now
}

func (b *MemoryBucket) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
