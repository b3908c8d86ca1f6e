package ports

import (
	"context"

	"swapBook/internal/domain"
)

// ReadModelStore maintains and queries the denormalized trade table.
// Rows are written exclusively by the projection engine; the write side
// of the trade store never touches them.
type ReadModelStore interface {
	// ApplyEvent folds one event into the trade row and advances the
	// projection cursor for its stream in the same transaction.
	// Re-applying an already acknowledged version is a no-op, which makes
	// at-least-once redelivery safe.
	ApplyEvent(ctx context.Context, evt StoredEvent) error
	// GetByID retrieves a trade by id. Returns nil, nil when the trade
	// does not exist or is cancelled.
	GetByID(ctx context.Context, tradeID string) (*domain.Trade, error)
	// FindByOwner retrieves the non-cancelled trades booked by the given
	// owner, ordered by trade date descending, newest booking first on
	// ties.
	FindByOwner(ctx context.Context, bookedBy string) ([]*domain.Trade, error)
}
