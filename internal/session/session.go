// Package session tracks per-browser working state. Each session owns
// an isolated working set and geo cache; nothing in it survives the
// idle timeout.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"fahrtkosten-service/internal/domain"
	"fahrtkosten-service/internal/geo"
)

// WorkingSet is the data a user has fetched and derived so far.
type WorkingSet struct {
	Season   string
	Leagues  []domain.League
	LeagueID string
	Team     string
	Games    []domain.Game
	Players  []domain.Player
	Items    []domain.ExpenseLineItem
	Sheets   int

	// Venues maps schedule ids or match numbers to hall addresses from
	// the uploaded hall list. The schedule pages carry no addresses.
	Venues map[string]string

	// Flash carries a one-shot status message for the next page render.
	Flash    string
	FlashErr string
}

// Session is one browser session.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
	ws       WorkingSet
	resolver *geo.Resolver
	authed   bool
}

// Update mutates the working set under the session lock.
func (s *Session) Update(fn func(*WorkingSet)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.ws)
}

// Snapshot returns a shallow copy of the working set.
func (s *Session) Snapshot() WorkingSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws
}

// Resolver returns the session's geo resolver, if one was attached.
func (s *Session) Resolver() *geo.Resolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver
}

// SetResolver attaches the session-scoped geo resolver. The resolver
// carries the distance cache, so it lives exactly as long as the
// session.
func (s *Session) SetResolver(r *geo.Resolver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver = r
}

// Authenticated reports whether the session holds a federation login.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authed
}

// SetAuthenticated marks the session's federation login state.
func (s *Session) SetAuthenticated(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authed = v
}

// LastSeen returns the time of the last request on this session.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

// Manager owns all live sessions.
type Manager struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a manager with the given idle timeout.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a fresh session.
func (m *Manager) Create() *Session {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		lastSeen:  now,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given id and refreshes its idle
// timer.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	s.touch(m.now())
	return s, true
}

// GetOrCreate resumes an existing session or starts a new one when the
// id is unknown or empty.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	return m.Create(), true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// PruneIdle drops sessions idle past the timeout and returns how many
// were removed.
func (m *Manager) PruneIdle() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	return len(stale)
}
