package app

import (
	"context"
	"fmt"
	"time"

	"swapBook/internal/ports"
)

// ProjectionEngine drains unprojected events from the store into the
// read model. It wakes on the store's append signal and also polls on a
// fixed interval so events appended by another process are not missed.
// Events are applied strictly in per-stream order; a failed apply stops
// the batch and the event is redelivered on the next pass because the
// cursor only moves inside a successful apply.
type ProjectionEngine struct {
	logger       ports.Logger
	events       ports.EventStream
	readModel    ports.ReadModelStore
	pollInterval time.Duration
	batchSize    int
}

// NewProjectionEngine creates a new projection engine instance.
func NewProjectionEngine(
	logger ports.Logger,
	events ports.EventStream,
	readModel ports.ReadModelStore,
	pollInterval time.Duration,
	batchSize int,
) (*ProjectionEngine, error) {
	// Validate dependencies
	if logger == nil || events == nil || readModel == nil {
		return nil, fmt.Errorf("missing required dependencies for ProjectionEngine")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %v", pollInterval)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	return &ProjectionEngine{
		logger:       logger,
		events:       events,
		readModel:    readModel,
		pollInterval: pollInterval,
		batchSize:    batchSize,
	}, nil
}

// Run drives the projection until the context is cancelled. It catches
// up immediately on start, then again on every append signal or poll
// tick. Apply failures are logged and retried on the next pass rather
// than terminating the loop.
func (p *ProjectionEngine) Run(ctx context.Context) error {
	p.logger.Info(ctx, "Projection engine started", map[string]interface{}{
		"pollInterval": p.pollInterval.String(),
		"batchSize":    p.batchSize,
	})

	for {
		if err := p.catchUp(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info(ctx, "Projection engine stopping")
				return nil
			}
			p.logger.Error(ctx, err, "Projection pass failed, will retry")
		}

		select {
		case <-ctx.Done():
			p.logger.Info(ctx, "Projection engine stopping")
			return nil
		case <-p.events.Appended():
		case <-time.After(p.pollInterval):
		}
	}
}

// CatchUp applies all currently pending events and returns. Exposed for
// callers that want a synchronous drain (seeding tools, tests).
func (p *ProjectionEngine) CatchUp(ctx context.Context) error {
	return p.catchUp(ctx)
}

func (p *ProjectionEngine) catchUp(ctx context.Context) error {
	for {
		pending, err := p.events.ReadPending(ctx, p.batchSize)
		if err != nil {
			return fmt.Errorf("failed to read pending events: %w", err)
		}
		if len(pending) == 0 {
			return nil
		}

		for _, stored := range pending {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := p.readModel.ApplyEvent(ctx, stored); err != nil {
				// Leave the cursor where it is; the event comes back
				// in the next batch.
				return fmt.Errorf("failed to apply event to read model: %w", err)
			}
		}

		if len(pending) < p.batchSize {
			return nil
		}
	}
}
