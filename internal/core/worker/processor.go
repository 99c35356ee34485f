package worker

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dogenkigen/account-manager/internal/core/domain"
	"github.com/dogenkigen/account-manager/internal/core/engine"
)

// EventSource yields events in log order and io.EOF at the end.
type EventSource interface {
	Next() (domain.Event, error)
}

// Summary describes one replay run.
type Summary struct {
	RunID    uuid.UUID
	Events   int
	Outcomes map[engine.Outcome]int
}

// Replay feeds every event from src into eng, strictly one at a time.
// A decoding error aborts the run; dropped events do not.
func Replay(src EventSource, eng *engine.Engine, logger *slog.Logger) (Summary, error) {
	summary := Summary{RunID: uuid.New()}
	logger = logger.With("run_id", summary.RunID)

	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			summary.Outcomes = eng.Stats()
			return summary, fmt.Errorf("failed to read event %d: %w", summary.Events+1, err)
		}

		summary.Events++
		if outcome := eng.Process(ev); outcome != engine.Applied {
			logger.Debug("Event dropped",
				"reason", outcome,
				"type", ev.Kind,
				"client", ev.Client,
				"tx", ev.Tx,
			)
		}
	}

	summary.Outcomes = eng.Stats()
	logger.Info("Replay finished", "events", summary.Events, "outcomes", summary.Outcomes)
	return summary, nil
}
