package ports

import (
	"context"

	"swapBook/internal/domain"
)

// StoredEvent is an event together with its position in its stream.
type StoredEvent struct {
	StreamID string
	Version  uint64
	Event    domain.Event
}

// EventStream defines durable, ordered, append-only storage of trade
// events keyed by stream identity, with per-stream version numbers.
type EventStream interface {
	// StartStream creates the stream and appends its first event at
	// version 1. Returns ErrDuplicateStream if the stream already exists.
	StartStream(ctx context.Context, streamID string, first domain.Event) (uint64, error)
	// Append atomically appends one event at expectedVersion+1. Returns
	// ErrStreamNotFound if the stream does not exist and
	// ErrConcurrencyConflict if another writer appended first; the caller
	// is expected to re-read the stream and reapply its command.
	Append(ctx context.Context, streamID string, expectedVersion uint64, evt domain.Event) (uint64, error)
	// ReadAll returns the stream's events in strict append order along
	// with the current version. Returns ErrStreamNotFound if absent.
	ReadAll(ctx context.Context, streamID string) ([]domain.Event, uint64, error)
	// ReadPending returns events beyond the projection cursor, ordered
	// within each stream, up to limit. Cross-stream order is not part of
	// the contract.
	ReadPending(ctx context.Context, limit int) ([]StoredEvent, error)
	// Appended signals that new events may be pending for the projection.
	// The channel is buffered and the write path never blocks on it; a
	// signal can coalesce several appends.
	Appended() <-chan struct{}
}
