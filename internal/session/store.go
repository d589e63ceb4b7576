// ABOUTME: Bounded in-memory session store with FIFO history and idle eviction
// ABOUTME: Appends to one session are serialized; reads see full snapshots
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/aimi9933/llmprox/internal/models"
)

// Store keeps per-session conversation history, bounded to maxHistory turns
// per session (oldest dropped first) and evicted wholesale after ttl of
// inactivity. All state is injected, never package-level; Close drops
// everything.
type Store struct {
	maxHistory int
	ttl        time.Duration
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*record
}

// record holds one session. Its mutex serializes mutations so concurrent
// appends to the same session never interleave partially.
type record struct {
	mu           sync.Mutex
	turns        []models.Turn
	lastActivity time.Time
}

// NewStore creates a Store. A non-positive ttl disables idle eviction.
func NewStore(maxHistory int, ttl time.Duration) *Store {
	return &Store{
		maxHistory: maxHistory,
		ttl:        ttl,
		now:        time.Now,
		sessions:   make(map[string]*record),
	}
}

// Append adds a turn to the session, creating the session if absent. Once the
// history bound is exceeded the oldest turns are dropped.
func (s *Store) Append(sessionID string, turn models.Turn) {
	s.evictIdleLocked()

	s.mu.Lock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		rec = &record{}
		s.sessions[sessionID] = rec
	}
	s.mu.Unlock()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.turns = append(rec.turns, turn)
	if excess := len(rec.turns) - s.maxHistory; excess > 0 {
		rec.turns = append([]models.Turn(nil), rec.turns[excess:]...)
	}
	rec.lastActivity = s.now()
}

// History returns a snapshot of the session's turns in insertion order. An
// unknown session id yields nil, treated as a fresh session rather than an
// error. Reading refreshes the session's activity.
func (s *Store) History(sessionID string) []models.Turn {
	s.mu.RLock()
	rec, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.lastActivity = s.now()
	return append([]models.Turn(nil), rec.turns...)
}

// RecentTurns returns up to n most recent turns, oldest first.
func (s *Store) RecentTurns(sessionID string, n int) []models.Turn {
	turns := s.History(sessionID)
	if n > 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	return turns
}

// ListSessions returns summaries of all live sessions, most recently active
// first, ties broken by session id for stable output.
func (s *Store) ListSessions() []models.SessionSummary {
	s.evictIdleLocked()

	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	recs := make([]*record, 0, len(s.sessions))
	for id, rec := range s.sessions {
		ids = append(ids, id)
		recs = append(recs, rec)
	}
	s.mu.RUnlock()

	summaries := make([]models.SessionSummary, 0, len(ids))
	for i, rec := range recs {
		rec.mu.Lock()
		summary := models.SessionSummary{
			SessionID:    ids[i],
			MessageCount: len(rec.turns),
			LastActivity: rec.lastActivity,
			Roles:        distinctRoles(rec.turns),
		}
		rec.mu.Unlock()
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].LastActivity.Equal(summaries[j].LastActivity) {
			return summaries[i].LastActivity.After(summaries[j].LastActivity)
		}
		return summaries[i].SessionID < summaries[j].SessionID
	})
	return summaries
}

// Clear removes a session entirely. Clearing an absent session is a no-op.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// TurnCount returns the total number of turns across all sessions.
func (s *Store) TurnCount() int {
	s.mu.RLock()
	recs := make([]*record, 0, len(s.sessions))
	for _, rec := range s.sessions {
		recs = append(recs, rec)
	}
	s.mu.RUnlock()

	total := 0
	for _, rec := range recs {
		rec.mu.Lock()
		total += len(rec.turns)
		rec.mu.Unlock()
	}
	return total
}

// EvictIdle removes sessions whose last activity is older than the ttl and
// returns how many were dropped. Sessions are removed whole: a concurrent
// History call sees either the full session or none of it.
func (s *Store) EvictIdle() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, rec := range s.sessions {
		rec.mu.Lock()
		idle := rec.lastActivity.Before(cutoff)
		rec.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Close drops all sessions (service teardown).
func (s *Store) Close() {
	s.mu.Lock()
	s.sessions = make(map[string]*record)
	s.mu.Unlock()
}

// evictIdleLocked runs passive eviction on the mutation paths.
func (s *Store) evictIdleLocked() {
	if s.ttl > 0 {
		s.EvictIdle()
	}
}

func distinctRoles(turns []models.Turn) []string {
	seen := make(map[string]bool)
	for _, turn := range turns {
		seen[string(turn.Role)] = true
	}
	roles := make([]string, 0, len(seen))
	for role := range seen {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}
