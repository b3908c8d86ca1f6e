package sqlite

import (
	"context"
	"testing"
	"time"

	"swapBook/internal/domain"
	"swapBook/internal/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stored(version uint64, evt domain.Event) ports.StoredEvent {
	return ports.StoredEvent{StreamID: evt.Meta().TradeID, Version: version, Event: evt}
}

func TestReadModel_ApplyCreated(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	created := testCreatedEvent("trade-1", at)
	require.NoError(t, store.ApplyEvent(ctx, stored(1, created)))

	trade, err := store.GetByID(ctx, "trade-1")
	require.NoError(t, err)
	require.NotNil(t, trade)
	assert.Equal(t, "trade-1", trade.ID)
	assert.Equal(t, "BankA", trade.Counterparty)
	assert.True(t, trade.NotionalAmount.Equal(created.NotionalAmount))
	assert.Equal(t, "USD", trade.NotionalCurrency)
	assert.Equal(t, "trader1", trade.BookedBy)
	assert.Nil(t, trade.NPV)
	assert.False(t, trade.IsCancelled)
	// Both timestamps start at the booking event's time.
	assert.True(t, trade.CreatedAt.Equal(at))
	assert.True(t, trade.UpdatedAt.Equal(at))
	require.NotNil(t, trade.Leg1)
	assert.Equal(t, domain.LegTypeFixed, trade.Leg1.LegType)
	require.NotNil(t, trade.Leg2)
	require.NotNil(t, trade.Leg2.ReferenceRate)
	assert.Equal(t, "SOFR", *trade.Leg2.ReferenceRate)
}

func TestReadModel_RedeliveredEventIsNoOp(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	created := testCreatedEvent("trade-1", at)
	require.NoError(t, store.ApplyEvent(ctx, stored(1, created)))

	npv := decimal.RequireFromString("500.00")
	priced := domain.TradePriced{
		EventMeta:   domain.EventMeta{TradeID: "trade-1", Timestamp: at.Add(time.Hour), ActorID: "system"},
		NPV:         npv,
		PricingDate: at.Add(time.Hour),
	}
	require.NoError(t, store.ApplyEvent(ctx, stored(2, priced)))

	// Redeliver both events; the cursor is already past them.
	require.NoError(t, store.ApplyEvent(ctx, stored(1, created)))
	require.NoError(t, store.ApplyEvent(ctx, stored(2, priced)))

	trade, err := store.GetByID(ctx, "trade-1")
	require.NoError(t, err)
	require.NotNil(t, trade)
	require.NotNil(t, trade.NPV)
	assert.True(t, trade.NPV.Equal(npv))

	// Still exactly one row for the trade.
	trades, err := store.FindByOwner(ctx, "trader1")
	require.NoError(t, err)
	assert.Len(t, trades, 1)
}

func TestReadModel_ApplyUpdatedPatchesPresentFields(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	created := testCreatedEvent("trade-1", at)
	require.NoError(t, store.ApplyEvent(ctx, stored(1, created)))

	newCounterparty := "BankB"
	newNotional := decimal.NewFromInt(2_500_000)
	updated := domain.TradeUpdated{
		EventMeta:      domain.EventMeta{TradeID: "trade-1", Timestamp: at.Add(time.Hour), ActorID: "trader2"},
		Counterparty:   &newCounterparty,
		NotionalAmount: &newNotional,
	}
	require.NoError(t, store.ApplyEvent(ctx, stored(2, updated)))

	trade, err := store.GetByID(ctx, "trade-1")
	require.NoError(t, err)
	require.NotNil(t, trade)
	assert.Equal(t, "BankB", trade.Counterparty)
	assert.True(t, trade.NotionalAmount.Equal(newNotional))
	// Untouched fields keep their booked values.
	assert.Equal(t, "USD", trade.NotionalCurrency)
	assert.True(t, trade.EffectiveDate.Equal(created.EffectiveDate))
	// LastModified tracks the event's timestamp, not the booking's.
	assert.True(t, trade.UpdatedAt.Equal(at.Add(time.Hour)))
	assert.True(t, trade.CreatedAt.Equal(at))
}

func TestReadModel_ApplyCancelledHidesTrade(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.ApplyEvent(ctx, stored(1, testCreatedEvent("trade-1", at))))

	cancelled := domain.TradeCancelled{
		EventMeta: domain.EventMeta{TradeID: "trade-1", Timestamp: at.Add(time.Hour), ActorID: "trader1"},
		Reason:    "booked in error",
	}
	require.NoError(t, store.ApplyEvent(ctx, stored(2, cancelled)))

	// Cancelled trades are invisible to point reads.
	trade, err := store.GetByID(ctx, "trade-1")
	require.NoError(t, err)
	assert.Nil(t, trade)

	// And to owner listings.
	trades, err := store.FindByOwner(ctx, "trader1")
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestReadModel_GetByIDMissing(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	trade, err := store.GetByID(context.Background(), "trade-ghost")
	require.NoError(t, err)
	assert.Nil(t, trade)
}

func TestReadModel_ApplyBeforeCreateFails(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	priced := domain.TradePriced{
		EventMeta:   domain.EventMeta{TradeID: "trade-1", Timestamp: time.Now().UTC(), ActorID: "system"},
		NPV:         decimal.RequireFromString("1.00"),
		PricingDate: time.Now().UTC(),
	}
	err := store.ApplyEvent(ctx, stored(2, priced))
	assert.ErrorIs(t, err, ports.ErrProjectionApply)

	// The cursor did not move, so the event stays pending.
	tx, err := store.db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()
	acked, err := cursorVersion(ctx, tx, "trade-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), acked)
}

func TestReadModel_FindByOwnerOrdering(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	older := testCreatedEvent("trade-old", base)
	older.TradeDate = base.AddDate(0, 0, -5)
	newer := testCreatedEvent("trade-new", base)
	newer.TradeDate = base
	tiedFirst := testCreatedEvent("trade-tied-1", base)
	tiedFirst.TradeDate = base
	otherOwner := testCreatedEvent("trade-other", base)
	otherOwner.BookedBy = "trader2"

	require.NoError(t, store.ApplyEvent(ctx, stored(1, older)))
	require.NoError(t, store.ApplyEvent(ctx, stored(1, newer)))
	require.NoError(t, store.ApplyEvent(ctx, stored(1, tiedFirst)))
	require.NoError(t, store.ApplyEvent(ctx, stored(1, otherOwner)))

	trades, err := store.FindByOwner(ctx, "trader1")
	require.NoError(t, err)
	require.Len(t, trades, 3)
	// Most recent trade date first; ties go to the later insertion.
	assert.Equal(t, "trade-tied-1", trades[0].ID)
	assert.Equal(t, "trade-new", trades[1].ID)
	assert.Equal(t, "trade-old", trades[2].ID)

	other, err := store.FindByOwner(ctx, "trader2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "trade-other", other[0].ID)
}

func TestReadModel_FindByOwnerNoTrades(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	trades, err := store.FindByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, trades)
	assert.Empty(t, trades)
}
