package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

// Orchestrator holds one independent Slot per task kind.
type Orchestrator struct {
	slots map[model.TaskKind]*Slot
}

// New creates an orchestrator whose slots share analyzer. Slots never block
// each other; a tailor run may overlap an enhance or predict run.
func New(analyzer model.Analyzer, timeout time.Duration, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o := &Orchestrator{slots: make(map[model.TaskKind]*Slot, len(model.TaskKinds))}
	for _, kind := range model.TaskKinds {
		o.slots[kind] = NewSlot(kind, analyzer, timeout, logger.With("slot", string(kind)))
	}
	return o
}

// Slot returns the slot for kind, or nil for an unknown kind.
func (o *Orchestrator) Slot(kind model.TaskKind) *Slot {
	return o.slots[kind]
}

// Run dispatches req to the slot for its kind.
func (o *Orchestrator) Run(ctx context.Context, req model.AnalysisRequest) (model.Outcome, error) {
	slot := o.Slot(req.Kind)
	if slot == nil {
		return model.Outcome{}, fmt.Errorf("%w: unknown task kind %q", model.ErrValidation, req.Kind)
	}
	return slot.Run(ctx, req)
}

// Snapshot returns the current outcome of every slot.
func (o *Orchestrator) Snapshot() map[model.TaskKind]model.Outcome {
	out := make(map[model.TaskKind]model.Outcome, len(o.slots))
	for kind, slot := range o.slots {
		out[kind] = slot.Snapshot()
	}
	return out
}

// Subscribe registers fn on the slot for kind.
func (o *Orchestrator) Subscribe(kind model.TaskKind, fn func(model.Outcome)) (unsubscribe func()) {
	slot := o.Slot(kind)
	if slot == nil {
		return func() {}
	}
	return slot.Subscribe(fn)
}

// SubscribeAll registers fn on every slot.
func (o *Orchestrator) SubscribeAll(fn func(model.Outcome)) (unsubscribe func()) {
	unsubs := make([]func(), 0, len(model.TaskKinds))
	for _, kind := range model.TaskKinds {
		unsubs = append(unsubs, o.slots[kind].Subscribe(fn))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Busy reports whether any slot has a request in flight.
func (o *Orchestrator) Busy() bool {
	for _, slot := range o.slots {
		if slot.Busy() {
			return true
		}
	}
	return false
}

// Close cancels every in-flight request.
func (o *Orchestrator) Close() {
	for _, slot := range o.slots {
		slot.Cancel()
	}
}
