package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

type Config struct {
	Name      string
	Processor Processor
	// ErrorDelay pauses the loop after a failed iteration.
	ErrorDelay time.Duration
}

type Processor interface {
	ProcessMessage(ctx context.Context) error
}

type Worker struct {
	name       string
	processor  Processor
	errorDelay time.Duration
}

func New(cfg Config) *Worker {
	return &Worker{
		name:       cfg.Name,
		processor:  cfg.Processor,
		errorDelay: cfg.ErrorDelay,
	}
}

func (w *Worker) Run(ctx context.Context) {
	slog.InfoContext(ctx, "Worker started...", "worker", w.name)
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Worker stopped...", "worker", w.name)
			return
		default:
			err := w.processor.ProcessMessage(ctx)
			if err == nil {
				continue
			}
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				continue
			}
			slog.ErrorContext(ctx, "Error processing message", "worker", w.name, "error", err)
			w.pause(ctx)
		}
	}
}

func (w *Worker) pause(ctx context.Context) {
	if w.errorDelay <= 0 {
		return
	}
	t := time.NewTimer(w.errorDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
