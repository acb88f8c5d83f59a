package notifier

import (
	"log/slog"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

// LogNotifier writes terminal outcomes to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each finished request via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs o if it is Success or Failure; Idle and Loading are ignored.
// Its signature matches the orchestrator's subscriber callback.
func (n *LogNotifier) Notify(o model.Outcome) {
	if !o.Terminal() {
		return
	}
	args := []any{"task", o.Kind, "generation", o.Generation}

	if o.Status == model.StatusFailure {
		args = append(args, "reason", o.Reason, "message", o.Message())
		if o.Err != nil {
			args = append(args, "error", o.Err)
		}
		n.logger.Warn("analysis failed", args...)
		return
	}

	switch r := o.Result.(type) {
	case model.TailorResult:
		args = append(args, "ats_score", r.ATSScore, "suggestions", len(r.Suggestions))
	case model.EnhanceResult:
		args = append(args, "bullets", len(r.Bullets()))
	case model.PredictResult:
		args = append(args,
			"behavioral", len(r.Behavioral),
			"technical", len(r.Technical),
			"situational", len(r.Situational),
		)
	}
	n.logger.Info("analysis ready", args...)
}
