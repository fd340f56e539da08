package report

import (
	"sync"
	"time"
)

// CooldownStore tracks the next-eligible submission time per user.
// Implementations must be safe for concurrent use from independent user flows.
type CooldownStore interface {
	// Remaining returns the wait left before the user may submit again.
	// The second result is false when no cooldown is active.
	Remaining(userID int64, now time.Time) (time.Duration, bool)
	// Touch starts a fresh cooldown for the user measured from now.
	Touch(userID int64, now time.Time)
}

const cooldownGCEvery = 64

type memoryCooldowns struct {
	mu      sync.Mutex
	ttl     time.Duration
	until   map[int64]time.Time
	touches int
}

// NewMemoryCooldowns returns an in-memory CooldownStore with the given
// cooldown duration. Expired entries are collected lazily on write.
func NewMemoryCooldowns(ttl time.Duration) CooldownStore {
	return &memoryCooldowns{
		ttl:   ttl,
		until: make(map[int64]time.Time),
	}
}

func (m *memoryCooldowns) Remaining(userID int64, now time.Time) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deadline, ok := m.until[userID]
	if !ok || !now.Before(deadline) {
		return 0, false
	}
	return deadline.Sub(now), true
}

func (m *memoryCooldowns) Touch(userID int64, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.until[userID] = now.Add(m.ttl)

	m.touches++
	if m.touches%cooldownGCEvery == 0 {
		for id, deadline := range m.until {
			if !now.Before(deadline) {
				delete(m.until, id)
			}
		}
	}
}
