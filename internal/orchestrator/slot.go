package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

// ErrAbandoned is returned by Run when the slot was cancelled while the
// request was in flight. The late outcome is not applied.
var ErrAbandoned = errors.New("request abandoned")

type listener struct {
	id int
	fn func(model.Outcome)
}

// Slot owns the request lifecycle for one task kind. At most one request is
// in flight per slot; a second Run while Loading is rejected with
// model.ErrSlotBusy.
type Slot struct {
	kind     model.TaskKind
	analyzer model.Analyzer
	timeout  time.Duration
	logger   *slog.Logger

	// notifyMu is taken before mu by every transition so observers receive
	// outcomes in the order they were applied.
	notifyMu sync.Mutex

	mu          sync.Mutex
	outcome     model.Outcome
	lastSuccess model.Outcome
	generation  uint64
	inFlight    bool
	cancel      context.CancelFunc
	listeners   []listener
	nextID      int
}

// NewSlot creates an idle slot for kind. A positive timeout bounds each run.
func NewSlot(kind model.TaskKind, analyzer model.Analyzer, timeout time.Duration, logger *slog.Logger) *Slot {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Slot{
		kind:     kind,
		analyzer: analyzer,
		timeout:  timeout,
		logger:   logger,
		outcome:  model.Outcome{Kind: kind, Status: model.StatusIdle},
	}
}

// Kind returns the task kind this slot serves.
func (s *Slot) Kind() model.TaskKind { return s.kind }

// Run executes req and blocks until it resolves. The returned outcome is the
// terminal one applied to the slot. Errors are reserved for runs that never
// produced an applied outcome: model.ErrSlotBusy and ErrAbandoned.
func (s *Slot) Run(ctx context.Context, req model.AnalysisRequest) (model.Outcome, error) {
	if req.Kind != s.kind {
		return model.Outcome{}, fmt.Errorf("%s slot cannot run %q request", s.kind, req.Kind)
	}

	s.notifyMu.Lock()
	s.mu.Lock()
	if s.inFlight {
		current := s.outcome
		s.mu.Unlock()
		s.notifyMu.Unlock()
		s.logger.Debug("rejected overlapping request", "task", s.kind, "generation", current.Generation)
		return current, model.ErrSlotBusy
	}

	s.generation++
	gen := s.generation

	if err := req.Validate(); err != nil {
		failed := s.failure(gen, err)
		s.apply(failed)
		return failed, nil
	}

	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	s.inFlight = true
	s.cancel = cancel
	s.apply(model.Outcome{Kind: s.kind, Status: model.StatusLoading, Generation: gen})

	s.logger.Debug("request started", "task", s.kind, "generation", gen)
	start := time.Now()
	res, err := s.analyze(runCtx, req)
	cancel()

	var final model.Outcome
	if err != nil {
		final = s.failure(gen, err)
	} else {
		final = model.Outcome{Kind: s.kind, Status: model.StatusSuccess, Generation: gen, Result: res}
	}

	s.notifyMu.Lock()
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		s.notifyMu.Unlock()
		s.logger.Debug("dropped stale response", "task", s.kind, "generation", gen)
		return final, ErrAbandoned
	}
	s.inFlight = false
	s.cancel = nil
	s.apply(final)

	if final.Status == model.StatusFailure {
		s.logger.Warn("request failed",
			"task", s.kind,
			"generation", gen,
			"reason", final.Reason,
			"duration", time.Since(start),
			"error", err,
		)
	} else {
		s.logger.Info("request succeeded", "task", s.kind, "generation", gen, "duration", time.Since(start))
	}
	return final, nil
}

// Cancel abandons the in-flight request, if any, and returns the slot to
// Idle. A response that arrives later is dropped. Reports whether a request
// was cancelled.
func (s *Slot) Cancel() bool {
	s.notifyMu.Lock()
	s.mu.Lock()
	if !s.inFlight {
		s.mu.Unlock()
		s.notifyMu.Unlock()
		return false
	}
	s.cancel()
	s.cancel = nil
	s.inFlight = false
	s.generation++
	s.apply(model.Outcome{Kind: s.kind, Status: model.StatusIdle, Generation: s.generation})
	return true
}

// Snapshot returns the current outcome.
func (s *Slot) Snapshot() model.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// LastSuccess returns the most recent successful outcome. A later failure
// does not clear it. ok is false if no run has succeeded yet.
func (s *Slot) LastSuccess() (model.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSuccess, s.lastSuccess.Status == model.StatusSuccess
}

// Busy reports whether a request is in flight.
func (s *Slot) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Subscribe registers fn to receive every outcome applied from now on.
// fn runs synchronously on the goroutine that applied the transition and
// must not call Run or Cancel on the same slot.
func (s *Slot) Subscribe(fn func(model.Outcome)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// apply stores o and delivers it to listeners. Callers hold notifyMu and mu;
// apply releases both.
func (s *Slot) apply(o model.Outcome) {
	s.outcome = o
	if o.Status == model.StatusSuccess {
		s.lastSuccess = o
	}
	ls := make([]listener, len(s.listeners))
	copy(ls, s.listeners)
	s.mu.Unlock()

	for _, l := range ls {
		l.fn(o)
	}
	s.notifyMu.Unlock()
}

// analyze calls the analyzer, turning a panic into an error so the slot
// always reaches a terminal state.
func (s *Slot) analyze(ctx context.Context, req model.AnalysisRequest) (res model.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("analyzer panicked", "task", s.kind, "panic", r, "stack", string(debug.Stack()))
			res, err = nil, fmt.Errorf("analyzer panic: %v", r)
		}
	}()
	return s.analyzer.Analyze(ctx, req)
}

func (s *Slot) failure(gen uint64, err error) model.Outcome {
	return model.Outcome{
		Kind:       s.kind,
		Status:     model.StatusFailure,
		Generation: gen,
		Reason:     model.ReasonOf(err),
		Err:        err,
	}
}
