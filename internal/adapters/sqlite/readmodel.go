package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"swapBook/internal/domain"
	"swapBook/internal/ports"

	"github.com/shopspring/decimal"
)

// --- ReadModelStore Implementation ---

// ApplyEvent folds one event into the trade row and advances the
// projection cursor for its stream in a single transaction. Versions at
// or below the cursor are skipped, so redelivered events are no-ops.
func (s *Store) ApplyEvent(ctx context.Context, evt ports.StoredEvent) error {
	if err := s.applyEvent(ctx, evt); err != nil {
		return fmt.Errorf("event %s v%d (%s): %v: %w",
			evt.StreamID, evt.Version, evt.Event.Kind(), err, ports.ErrProjectionApply)
	}
	return nil
}

func (s *Store) applyEvent(ctx context.Context, evt ports.StoredEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	acked, err := cursorVersion(ctx, tx, evt.StreamID)
	if err != nil {
		return fmt.Errorf("failed to read projection cursor: %w", err)
	}
	if evt.Version <= acked {
		// Already reflected in the read model; redelivery is a no-op.
		s.logger.Debug(ctx, "Skipping already applied event", map[string]interface{}{"streamID": evt.StreamID, "version": evt.Version})
		return nil
	}

	if err := s.foldEvent(ctx, tx, evt); err != nil {
		return err
	}

	const ack = `
	INSERT INTO projection_cursor (stream_id, last_version) VALUES (?, ?)
	ON CONFLICT(stream_id) DO UPDATE SET last_version = excluded.last_version`
	if _, err := tx.ExecContext(ctx, ack, evt.StreamID, int64(evt.Version)); err != nil {
		return fmt.Errorf("failed to advance projection cursor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit read model update: %w", err)
	}
	return nil
}

// foldEvent mutates the persisted row with the same rules the aggregate
// fold uses in memory.
func (s *Store) foldEvent(ctx context.Context, tx *sql.Tx, evt ports.StoredEvent) error {
	switch e := evt.Event.(type) {
	case domain.TradeCreated:
		leg1 := e.Leg1
		leg2 := e.Leg2
		row := &domain.Trade{
			ID:               e.TradeID,
			Counterparty:     e.Counterparty,
			EffectiveDate:    e.EffectiveDate,
			MaturityDate:     e.MaturityDate,
			NotionalAmount:   e.NotionalAmount,
			NotionalCurrency: e.NotionalCurrency,
			TradeDate:        e.TradeDate,
			BookedBy:         e.BookedBy,
			CreatedAt:        e.Timestamp,
			UpdatedAt:        e.Timestamp,
			Leg1:             &leg1,
			Leg2:             &leg2,
		}
		// The trade id is the row's unique key, so a redelivered create
		// overwrites the row with identical data instead of duplicating it.
		return upsertTrade(ctx, tx, row)
	case domain.TradeUpdated:
		row, err := loadTrade(ctx, tx, e.TradeID)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("no read model row for trade %s", e.TradeID)
		}
		if row.IsCancelled {
			s.logger.Warn(ctx, "Applying event to a cancelled trade row", map[string]interface{}{"tradeID": e.TradeID, "kind": string(evt.Event.Kind())})
		}
		if e.Counterparty != nil {
			row.Counterparty = *e.Counterparty
		}
		if e.EffectiveDate != nil {
			row.EffectiveDate = *e.EffectiveDate
		}
		if e.MaturityDate != nil {
			row.MaturityDate = *e.MaturityDate
		}
		if e.NotionalAmount != nil {
			row.NotionalAmount = *e.NotionalAmount
		}
		if e.Leg1 != nil {
			leg := *e.Leg1
			row.Leg1 = &leg
		}
		if e.Leg2 != nil {
			leg := *e.Leg2
			row.Leg2 = &leg
		}
		row.UpdatedAt = e.Timestamp
		return upsertTrade(ctx, tx, row)
	case domain.TradePriced:
		row, err := loadTrade(ctx, tx, e.TradeID)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("no read model row for trade %s", e.TradeID)
		}
		if row.IsCancelled {
			s.logger.Warn(ctx, "Applying event to a cancelled trade row", map[string]interface{}{"tradeID": e.TradeID, "kind": string(evt.Event.Kind())})
		}
		npv := e.NPV
		row.NPV = &npv
		row.UpdatedAt = e.Timestamp
		return upsertTrade(ctx, tx, row)
	case domain.TradeCancelled:
		row, err := loadTrade(ctx, tx, e.TradeID)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("no read model row for trade %s", e.TradeID)
		}
		reason := e.Reason
		row.IsCancelled = true
		row.CancellationReason = &reason
		row.UpdatedAt = e.Timestamp
		return upsertTrade(ctx, tx, row)
	default:
		return fmt.Errorf("unknown event kind %q", evt.Event.Kind())
	}
}

// GetByID retrieves a trade by id. Cancelled trades are invisible to
// readers, so both "absent" and "cancelled" return nil, nil.
func (s *Store) GetByID(ctx context.Context, tradeID string) (*domain.Trade, error) {
	row := s.db.QueryRowContext(ctx, selectTrade+` WHERE id = ?`, tradeID)
	trade, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug(ctx, "Trade not found by ID", map[string]interface{}{"tradeID": tradeID})
			return nil, nil // Not an error, just not found
		}
		return nil, fmt.Errorf("failed to query trade %s: %w", tradeID, err)
	}
	if trade.IsCancelled {
		return nil, nil
	}
	return trade, nil
}

// FindByOwner retrieves the non-cancelled trades booked by the given
// owner, most recent trade date first. Ties keep the newest booking
// first; the rowid is stable across projection overwrites because the
// upsert updates in place.
func (s *Store) FindByOwner(ctx context.Context, bookedBy string) ([]*domain.Trade, error) {
	const order = ` WHERE booked_by = ? AND is_cancelled = 0 ORDER BY trade_date DESC, rowid DESC`
	rows, err := s.db.QueryContext(ctx, selectTrade+order, bookedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades for owner %s: %w", bookedBy, err)
	}
	defer rows.Close()

	trades := make([]*domain.Trade, 0)
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade during FindByOwner: %w", err)
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}
	return trades, nil
}

// --- Helper Functions ---

const selectTrade = `
	SELECT id, counterparty, effective_date, maturity_date, notional_amount, notional_currency,
	       trade_date, booked_by, npv, is_cancelled, cancellation_reason, created_at, updated_at, leg1, leg2
	FROM trades`

func cursorVersion(ctx context.Context, tx *sql.Tx, streamID string) (uint64, error) {
	const query = `SELECT last_version FROM projection_cursor WHERE stream_id = ?`
	var version int64
	err := tx.QueryRowContext(ctx, query, streamID).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uint64(version), nil
}

func loadTrade(ctx context.Context, tx *sql.Tx, tradeID string) (*domain.Trade, error) {
	row := tx.QueryRowContext(ctx, selectTrade+` WHERE id = ?`, tradeID)
	trade, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load trade %s: %w", tradeID, err)
	}
	return trade, nil
}

func upsertTrade(ctx context.Context, tx *sql.Tx, t *domain.Trade) error {
	leg1, err := marshalLeg(t.Leg1)
	if err != nil {
		return fmt.Errorf("failed to encode leg1 for trade %s: %w", t.ID, err)
	}
	leg2, err := marshalLeg(t.Leg2)
	if err != nil {
		return fmt.Errorf("failed to encode leg2 for trade %s: %w", t.ID, err)
	}

	var npv sql.NullString
	if t.NPV != nil {
		npv = sql.NullString{String: t.NPV.String(), Valid: true}
	}
	var reason sql.NullString
	if t.CancellationReason != nil {
		reason = sql.NullString{String: *t.CancellationReason, Valid: true}
	}

	const query = `
	INSERT INTO trades (id, counterparty, effective_date, maturity_date, notional_amount, notional_currency,
	                    trade_date, booked_by, npv, is_cancelled, cancellation_reason, created_at, updated_at, leg1, leg2)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		counterparty = excluded.counterparty,
		effective_date = excluded.effective_date,
		maturity_date = excluded.maturity_date,
		notional_amount = excluded.notional_amount,
		notional_currency = excluded.notional_currency,
		trade_date = excluded.trade_date,
		booked_by = excluded.booked_by,
		npv = excluded.npv,
		is_cancelled = excluded.is_cancelled,
		cancellation_reason = excluded.cancellation_reason,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at,
		leg1 = excluded.leg1,
		leg2 = excluded.leg2`

	if _, err := tx.ExecContext(ctx, query,
		t.ID, t.Counterparty, t.EffectiveDate, t.MaturityDate, t.NotionalAmount.String(), t.NotionalCurrency,
		t.TradeDate, t.BookedBy, npv, boolToInt(t.IsCancelled), reason, t.CreatedAt, t.UpdatedAt, leg1, leg2); err != nil {
		return fmt.Errorf("failed to upsert trade %s: %w", t.ID, err)
	}
	return nil
}

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanTrade scans a row into a domain.Trade struct.
func scanTrade(s scanner) (*domain.Trade, error) {
	t := &domain.Trade{}
	var notional string
	var npv, reason, leg1, leg2 sql.NullString
	var cancelled int
	var createdAt, updatedAt time.Time
	err := s.Scan(
		&t.ID, &t.Counterparty, &t.EffectiveDate, &t.MaturityDate, &notional, &t.NotionalCurrency,
		&t.TradeDate, &t.BookedBy, &npv, &cancelled, &reason, &createdAt, &updatedAt, &leg1, &leg2)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}

	amount, err := decimal.NewFromString(notional)
	if err != nil {
		return nil, fmt.Errorf("invalid notional amount %q: %w", notional, err)
	}
	t.NotionalAmount = amount
	if npv.Valid {
		value, err := decimal.NewFromString(npv.String)
		if err != nil {
			return nil, fmt.Errorf("invalid npv %q: %w", npv.String, err)
		}
		t.NPV = &value
	}
	t.IsCancelled = cancelled != 0
	if reason.Valid {
		t.CancellationReason = &reason.String
	}
	t.CreatedAt = createdAt
	t.UpdatedAt = updatedAt
	if t.Leg1, err = unmarshalLeg(leg1); err != nil {
		return nil, fmt.Errorf("invalid leg1 for trade %s: %w", t.ID, err)
	}
	if t.Leg2, err = unmarshalLeg(leg2); err != nil {
		return nil, fmt.Errorf("invalid leg2 for trade %s: %w", t.ID, err)
	}
	return t, nil
}

func marshalLeg(leg *domain.SwapLeg) (sql.NullString, error) {
	if leg == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(leg)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalLeg(column sql.NullString) (*domain.SwapLeg, error) {
	if !column.Valid {
		return nil, nil
	}
	var leg domain.SwapLeg
	if err := json.Unmarshal([]byte(column.String), &leg); err != nil {
		return nil, err
	}
	return &leg, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
