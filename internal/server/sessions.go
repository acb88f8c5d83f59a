package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/thejatinbaghel/JobReady-AI/internal/orchestrator"
)

type session struct {
	orch     *orchestrator.Orchestrator
	lastSeen time.Time
}

// Sessions maps browser session IDs to their own orchestrator, so each
// visitor gets independent slots. Sessions idle for longer than ttl are
// dropped unless a request is still in flight.
type Sessions struct {
	ttl    time.Duration
	create func() *orchestrator.Orchestrator
	logger *slog.Logger
	now    func() time.Time

	mu   sync.Mutex
	byID map[string]*session
}

// NewSessions creates an empty registry. create builds the orchestrator for
// each new session.
func NewSessions(ttl time.Duration, create func() *orchestrator.Orchestrator, logger *slog.Logger) *Sessions {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sessions{
		ttl:    ttl,
		create: create,
		logger: logger,
		now:    time.Now,
		byID:   make(map[string]*session),
	}
}

// Get returns the orchestrator for id, creating it on first use, and marks
// the session as active.
func (s *Sessions) Get(id string) *orchestrator.Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		sess = &session{orch: s.create()}
		s.byID[id] = sess
		s.logger.Debug("session created", "session", id, "sessions", len(s.byID))
	}
	sess.lastSeen = s.now()
	return sess.orch
}

// Lookup returns the orchestrator for an existing session without creating one.
func (s *Sessions) Lookup(id string) (*orchestrator.Orchestrator, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.orch, true
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.byID {
		if sess.lastSeen.After(cutoff) || sess.orch.Busy() {
			continue
		}
		delete(s.byID, id)
		removed++
	}
	return removed
}

// Run sweeps expired sessions every half TTL until ctx is cancelled.
func (s *Sessions) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
			if n := s.Sweep(); n > 0 {
				s.logger.Info("expired sessions removed", "removed", n, "remaining", s.Len())
			}
		}
	}
}

// Close cancels every in-flight request and forgets all sessions.
func (s *Sessions) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.byID {
		sess.orch.Close()
		delete(s.byID, id)
	}
}
