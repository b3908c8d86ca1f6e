package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"swapBook/internal/domain"
	"swapBook/internal/ports"
)

// --- EventStream Implementation ---

// StartStream creates a new stream and writes its first event at version 1.
func (s *Store) StartStream(ctx context.Context, streamID string, first domain.Event) (uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for stream %s: %w", streamID, err)
	}
	defer tx.Rollback()

	current, err := currentVersion(ctx, tx, streamID)
	if err != nil {
		return 0, fmt.Errorf("failed to check stream %s: %w", streamID, err)
	}
	if current > 0 {
		return 0, fmt.Errorf("stream %s: %w", streamID, ports.ErrDuplicateStream)
	}

	if err := insertEvent(ctx, tx, streamID, 1, first); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit first event for stream %s: %w", streamID, err)
	}

	s.logger.Debug(ctx, "Stream started", map[string]interface{}{"streamID": streamID, "kind": string(first.Kind())})
	s.signalAppended()
	return 1, nil
}

// Append writes one event at expectedVersion+1. The UNIQUE (stream_id,
// version) constraint is the serialization point: a writer that lost the
// race observes a version mismatch inside the transaction and fails with
// ErrConcurrencyConflict instead of overwriting history.
func (s *Store) Append(ctx context.Context, streamID string, expectedVersion uint64, evt domain.Event) (uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for stream %s: %w", streamID, err)
	}
	defer tx.Rollback()

	current, err := currentVersion(ctx, tx, streamID)
	if err != nil {
		return 0, fmt.Errorf("failed to check stream %s: %w", streamID, err)
	}
	if current == 0 {
		return 0, fmt.Errorf("stream %s: %w", streamID, ports.ErrStreamNotFound)
	}
	if current != expectedVersion {
		return 0, fmt.Errorf("stream %s at version %d, expected %d: %w",
			streamID, current, expectedVersion, ports.ErrConcurrencyConflict)
	}

	next := expectedVersion + 1
	if err := insertEvent(ctx, tx, streamID, next, evt); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit event for stream %s: %w", streamID, err)
	}

	s.logger.Debug(ctx, "Event appended", map[string]interface{}{"streamID": streamID, "version": next, "kind": string(evt.Kind())})
	s.signalAppended()
	return next, nil
}

// ReadAll returns the stream's events in strict append order along with
// the current version.
func (s *Store) ReadAll(ctx context.Context, streamID string) ([]domain.Event, uint64, error) {
	const query = `
	SELECT kind, payload FROM trade_events
	WHERE stream_id = ? ORDER BY version ASC`

	rows, err := s.db.QueryContext(ctx, query, streamID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query events for stream %s: %w", streamID, err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var kind string
		var payload []byte
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, 0, fmt.Errorf("failed to scan event for stream %s: %w", streamID, err)
		}
		evt, err := unmarshalEvent(kind, payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode event for stream %s: %w", streamID, err)
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating events for stream %s: %w", streamID, err)
	}
	if len(events) == 0 {
		return nil, 0, fmt.Errorf("stream %s: %w", streamID, ports.ErrStreamNotFound)
	}
	return events, uint64(len(events)), nil
}

// ReadPending returns events not yet acknowledged by the projection
// cursor, ordered within each stream by version.
func (s *Store) ReadPending(ctx context.Context, limit int) ([]ports.StoredEvent, error) {
	const query = `
	SELECT e.stream_id, e.version, e.kind, e.payload
	FROM trade_events e
	LEFT JOIN projection_cursor c ON c.stream_id = e.stream_id
	WHERE e.version > COALESCE(c.last_version, 0)
	ORDER BY e.stream_id ASC, e.version ASC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending events: %w", err)
	}
	defer rows.Close()

	pending := make([]ports.StoredEvent, 0)
	for rows.Next() {
		var streamID, kind string
		var version int64
		var payload []byte
		if err := rows.Scan(&streamID, &version, &kind, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan pending event: %w", err)
		}
		evt, err := unmarshalEvent(kind, payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode pending event %s v%d: %w", streamID, version, err)
		}
		pending = append(pending, ports.StoredEvent{StreamID: streamID, Version: uint64(version), Event: evt})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending events: %w", err)
	}
	return pending, nil
}

// Appended exposes the wake-up channel for the projection engine.
func (s *Store) Appended() <-chan struct{} {
	return s.appended
}

// signalAppended wakes the projection engine without ever blocking the
// write path; a pending signal coalesces further appends.
func (s *Store) signalAppended() {
	select {
	case s.appended <- struct{}{}:
	default:
	}
}

// --- Helpers ---

func currentVersion(ctx context.Context, tx *sql.Tx, streamID string) (uint64, error) {
	const query = `SELECT COALESCE(MAX(version), 0) FROM trade_events WHERE stream_id = ?`
	var version int64
	if err := tx.QueryRowContext(ctx, query, streamID).Scan(&version); err != nil {
		return 0, err
	}
	return uint64(version), nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, streamID string, version uint64, evt domain.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode %s event for stream %s: %w", evt.Kind(), streamID, err)
	}
	meta := evt.Meta()

	const query = `
	INSERT INTO trade_events (stream_id, version, kind, payload, actor_id, occurred_at)
	VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query,
		streamID, int64(version), string(evt.Kind()), string(payload), meta.ActorID, meta.Timestamp); err != nil {
		return fmt.Errorf("failed to insert event for stream %s at version %d: %w", streamID, version, err)
	}
	return nil
}

// unmarshalEvent decodes a stored payload back into its concrete event type.
func unmarshalEvent(kind string, payload []byte) (domain.Event, error) {
	switch domain.EventKind(kind) {
	case domain.KindTradeCreated:
		var e domain.TradeCreated
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	case domain.KindTradeUpdated:
		var e domain.TradeUpdated
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	case domain.KindTradePriced:
		var e domain.TradePriced
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	case domain.KindTradeCancelled:
		var e domain.TradeCancelled
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
}
