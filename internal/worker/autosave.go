package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jwalitptl/hms/pkg/circuitbreaker"
	"github.com/jwalitptl/hms/pkg/logger"
)

const (
	maxConsecutiveFailures = 3
	failureCooldownTicks   = 10
)

// Saver is satisfied by file.Persister.
type Saver interface {
	SaveIfChanged(ctx context.Context) (bool, error)
}

// AutosaveWorker periodically writes the store to disk when it has changed.
type AutosaveWorker struct {
	saver    Saver
	interval time.Duration
	breaker  *circuitbreaker.CircuitBreaker
	logger   *logger.Logger
}

func NewAutosaveWorker(saver Saver, interval time.Duration, log *logger.Logger) *AutosaveWorker {
	if log == nil {
		log = logger.Nop()
	}
	breaker := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:        "autosave",
		MaxFailures: maxConsecutiveFailures,
		Timeout:     failureCooldownTicks * interval,
	})
	return &AutosaveWorker{
		saver:    saver,
		interval: interval,
		breaker:  breaker,
		logger:   log.With("autosave"),
	}
}

// Start blocks until ctx is done. A non-positive interval disables the worker.
func (w *AutosaveWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := w.breaker.Execute(func() error { return w.save(ctx) })
			switch {
			case errors.Is(err, circuitbreaker.ErrOpen):
				w.logger.Debug("autosave paused after repeated failures")
			case err != nil:
				// Log error but continue
				w.logger.Error(err, "autosave failed", "breaker", string(w.breaker.State()))
			}
		}
	}
}

func (w *AutosaveWorker) save(ctx context.Context) error {
	wrote, err := w.saver.SaveIfChanged(ctx)
	if err != nil {
		return fmt.Errorf("failed to autosave: %w", err)
	}
	if wrote {
		w.logger.Debug("autosaved data")
	}
	return nil
}
