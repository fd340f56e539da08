package report

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/reportbot/core/logger"
)

// State identifies the current step of a report conversation.
type State string

const (
	StateAwaitingType    State = "awaiting_type"
	StateAwaitingTarget  State = "awaiting_target"
	StateAwaitingReason  State = "awaiting_reason"
	StateAwaitingDetails State = "awaiting_details"
	StateAwaitingConfirm State = "awaiting_confirm"
)

// Session is one user's in-progress report conversation. It is owned
// exclusively by Sessions and only ever touched under the user's slot lock.
type Session struct {
	Reporter Reporter
	State    State
	Draft    Draft
}

// userSlot serializes all session access for a single user. The slot outlives
// individual sessions so that concurrent events for the same user can never
// interleave, even across a session being cleared and recreated.
type userSlot struct {
	mu      sync.Mutex
	sess    *Session
	touched time.Time
	gone    bool
}

// Sessions owns every active report conversation, keyed by user id.
// Distinct users never contend on each other's slot.
type Sessions struct {
	mu      sync.Mutex
	slots   map[int64]*userSlot
	idleTTL time.Duration
	now     func() time.Time
}

// NewSessions constructs the session manager. Sessions idle longer than
// idleTTL are dropped by EvictIdle.
func NewSessions(idleTTL time.Duration) *Sessions {
	return &Sessions{
		slots:   make(map[int64]*userSlot),
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

func (s *Sessions) slot(userID int64) *userSlot {
	for {
		s.mu.Lock()
		sl, ok := s.slots[userID]
		if !ok {
			sl = &userSlot{touched: s.now()}
			s.slots[userID] = sl
		}
		s.mu.Unlock()

		sl.mu.Lock()
		if sl.gone {
			// Evicted between lookup and lock; take a fresh slot.
			sl.mu.Unlock()
			continue
		}
		return sl
	}
}

// Transition runs fn with exclusive access to the user's session. fn receives
// the current session (nil when none) and returns its replacement; returning
// nil clears the session.
func (s *Sessions) Transition(userID int64, fn func(sess *Session) *Session) {
	sl := s.slot(userID)
	defer sl.mu.Unlock()
	sl.sess = fn(sl.sess)
	sl.touched = s.now()
}

// Active reports whether the user currently has a session in progress.
func (s *Sessions) Active(userID int64) bool {
	s.mu.Lock()
	sl, ok := s.slots[userID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.sess != nil
}

// Clear drops the user's session, if any.
func (s *Sessions) Clear(userID int64) {
	s.Transition(userID, func(*Session) *Session { return nil })
}

// EvictIdle drops sessions (and empty slots) untouched since before the idle
// window and returns how many sessions were evicted.
func (s *Sessions) EvictIdle(now time.Time) int {
	s.mu.Lock()
	stale := make(map[int64]*userSlot)
	cutoff := now.Add(-s.idleTTL)
	for id, sl := range s.slots {
		stale[id] = sl
	}
	s.mu.Unlock()

	evicted := 0
	for id, sl := range stale {
		sl.mu.Lock()
		if sl.touched.After(cutoff) {
			sl.mu.Unlock()
			continue
		}
		if sl.sess != nil {
			sl.sess = nil
			evicted++
		}
		sl.gone = true
		sl.mu.Unlock()

		s.mu.Lock()
		if cur, ok := s.slots[id]; ok && cur == sl {
			delete(s.slots, id)
		}
		s.mu.Unlock()
	}
	return evicted
}

// Sweep periodically evicts idle sessions until ctx is done.
func (s *Sessions) Sweep(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(s.now()); n > 0 {
				logger.Info(ctx, "report.flow", "session.evict",
					slog.Int("evicted", n),
				)
			}
		}
	}
}
