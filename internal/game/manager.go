package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/soundsteps/phonics-backend/internal/content"
	"github.com/soundsteps/phonics-backend/internal/model"
)

var (
	// ErrSetRequired blocks competition starts without a chosen set.
	ErrSetRequired = errors.New("competition mode requires a set letter")
	// ErrUnknownSet rejects letters outside the authored schedules.
	ErrUnknownSet = errors.New("unknown set letter")
	// ErrNoQuestions means content selection produced an empty sequence.
	ErrNoQuestions = errors.New("no questions available")
)

// Manager owns all live sessions. Sessions exist only in memory and only
// for the duration of one attempt; the sweeper reaps abandoned ones.
type Manager struct {
	library *content.Library
	clock   clockwork.Clock
	log     zerolog.Logger
	ttl     time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	rng      *rand.Rand
}

// NewManager creates a session manager. ttl bounds how long an idle or
// finished session is kept before the sweeper discards it.
func NewManager(library *content.Library, clock clockwork.Clock, ttl time.Duration, log zerolog.Logger) *Manager {
	return &Manager{
		library:  library,
		clock:    clock,
		log:      log.With().Str("component", "session_manager").Logger(),
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*Session),
		rng:      rand.New(rand.NewSource(clock.Now().UnixNano())),
	}
}

// Start validates settings, selects the question sequence, and spawns the
// session's event loop.
func (m *Manager) Start(settings model.GameSettings) (*Session, error) {
	norm := settings.Normalized()

	var questions []content.ResolvedQuestion
	switch norm.Mode {
	case model.ModeCompetition:
		if norm.SetLetter == "" {
			return nil, ErrSetRequired
		}
		if !m.library.HasSet(norm.SetLetter) {
			return nil, ErrUnknownSet
		}
		seq, err := m.library.ResolveSet(norm.SetLetter)
		if err != nil {
			return nil, err
		}
		questions = seq
	case model.ModePractice:
		pool := m.library.PracticePool()
		m.mu.Lock()
		questions = content.SelectUniqueTargets(pool, norm.QuestionCount, m.rng)
		m.mu.Unlock()
	default:
		return nil, errors.New("unknown game mode")
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	s := newSession(settings, questions, m.clock, m.log)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	go s.run()

	m.log.Info().
		Str("session_id", s.ID.String()).
		Str("mode", string(norm.Mode)).
		Str("set", norm.SetLetter).
		Int("questions", len(questions)).
		Msg("Session started")
	return s, nil
}

// Get looks a session up by id.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove closes and forgets a session, returning its settings unchanged so
// the settings view can re-seed itself.
func (m *Manager) Remove(id uuid.UUID) (model.GameSettings, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return model.GameSettings{}, false
	}
	s.Close()
	return s.Settings(), true
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep discards sessions with no client activity inside the TTL and
// returns how many were removed.
func (m *Manager) Sweep() int {
	now := m.clock.Now()

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > m.ttl {
			delete(m.sessions, id)
			stale = append(stale, s)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
		m.log.Debug().Str("session_id", s.ID.String()).Msg("Swept stale session")
	}
	return len(stale)
}

// CloseAll shuts every session down, for process shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
}
