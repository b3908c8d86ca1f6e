package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedLeg(rate string) SwapLeg {
	r := decimal.RequireFromString(rate)
	return SwapLeg{
		LegType:               LegTypeFixed,
		PayerReceiver:         Pay,
		FixedRate:             &r,
		PaymentFrequency:      "6M",
		DayCountConvention:    "30/360",
		BusinessDayConvention: "ModifiedFollowing",
		PaymentCalendar:       "USNY",
	}
}

func floatingLeg(ref string) SwapLeg {
	spread := decimal.RequireFromString("0.001")
	reset := "3M"
	return SwapLeg{
		LegType:               LegTypeFloating,
		PayerReceiver:         Receive,
		ReferenceRate:         &ref,
		Spread:                &spread,
		ResetFrequency:        &reset,
		PaymentFrequency:      "3M",
		DayCountConvention:    "ACT/360",
		BusinessDayConvention: "ModifiedFollowing",
		PaymentCalendar:       "USNY",
	}
}

func createdEvent(tradeID string, at time.Time) TradeCreated {
	return TradeCreated{
		EventMeta: EventMeta{
			TradeID:   tradeID,
			Timestamp: at,
			ActorID:   "trader1",
		},
		Counterparty:     "BankA",
		EffectiveDate:    at.AddDate(0, 0, 2),
		MaturityDate:     at.AddDate(5, 0, 2),
		NotionalAmount:   decimal.NewFromInt(1_000_000),
		NotionalCurrency: "USD",
		TradeDate:        at,
		BookedBy:         "trader1",
		Leg1:             fixedLeg("0.025"),
		Leg2:             floatingLeg("SOFR"),
	}
}

func TestReplay_EmptyStream(t *testing.T) {
	assert.Nil(t, Replay(nil))
	assert.Nil(t, Replay([]Event{}))
}

func TestReplay_Created(t *testing.T) {
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	evt := createdEvent("trade-1", at)

	trade := Replay([]Event{evt})
	require.NotNil(t, trade)
	assert.Equal(t, "trade-1", trade.ID)
	assert.Equal(t, "BankA", trade.Counterparty)
	assert.True(t, trade.NotionalAmount.Equal(decimal.NewFromInt(1_000_000)))
	assert.Equal(t, "USD", trade.NotionalCurrency)
	assert.Equal(t, "trader1", trade.BookedBy)
	assert.Equal(t, at, trade.CreatedAt)
	assert.Nil(t, trade.NPV)
	assert.False(t, trade.IsCancelled)
	require.NotNil(t, trade.Leg1)
	assert.Equal(t, LegTypeFixed, trade.Leg1.LegType)
	require.NotNil(t, trade.Leg2)
	assert.Equal(t, LegTypeFloating, trade.Leg2.LegType)
}

func TestReplay_PartialUpdate(t *testing.T) {
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	created := createdEvent("trade-1", at)

	newCounterparty := "BankB"
	newNotional := decimal.NewFromInt(2_000_000)
	update := TradeUpdated{
		EventMeta:      EventMeta{TradeID: "trade-1", Timestamp: at.Add(time.Hour), ActorID: "trader2"},
		Counterparty:   &newCounterparty,
		NotionalAmount: &newNotional,
	}

	trade := Replay([]Event{created, update})
	require.NotNil(t, trade)
	// Changed fields take the new values.
	assert.Equal(t, "BankB", trade.Counterparty)
	assert.True(t, trade.NotionalAmount.Equal(newNotional))
	// Absent fields keep their prior values.
	assert.Equal(t, created.EffectiveDate, trade.EffectiveDate)
	assert.Equal(t, created.MaturityDate, trade.MaturityDate)
	assert.Equal(t, "USD", trade.NotionalCurrency)
	require.NotNil(t, trade.Leg1)
	assert.Equal(t, LegTypeFixed, trade.Leg1.LegType)
}

func TestReplay_LegReplacedWholesale(t *testing.T) {
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	created := createdEvent("trade-1", at)

	newLeg := fixedLeg("0.031")
	update := TradeUpdated{
		EventMeta: EventMeta{TradeID: "trade-1", Timestamp: at.Add(time.Hour), ActorID: "trader1"},
		Leg1:      &newLeg,
	}

	trade := Replay([]Event{created, update})
	require.NotNil(t, trade)
	require.NotNil(t, trade.Leg1)
	require.NotNil(t, trade.Leg1.FixedRate)
	assert.True(t, trade.Leg1.FixedRate.Equal(decimal.RequireFromString("0.031")))
	// The untouched leg survives.
	require.NotNil(t, trade.Leg2)
	assert.Equal(t, LegTypeFloating, trade.Leg2.LegType)
}

func TestReplay_Priced(t *testing.T) {
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	created := createdEvent("trade-1", at)
	npv1 := decimal.RequireFromString("1234.56")
	npv2 := decimal.RequireFromString("-789.01")

	trade := Replay([]Event{
		created,
		TradePriced{EventMeta: EventMeta{TradeID: "trade-1", Timestamp: at.Add(time.Hour), ActorID: "system"}, NPV: npv1, PricingDate: at.Add(time.Hour)},
		TradePriced{EventMeta: EventMeta{TradeID: "trade-1", Timestamp: at.Add(2 * time.Hour), ActorID: "system"}, NPV: npv2, PricingDate: at.Add(2 * time.Hour)},
	})
	require.NotNil(t, trade)
	require.NotNil(t, trade.NPV)
	// Later pricings overwrite earlier ones.
	assert.True(t, trade.NPV.Equal(npv2))
}

func TestReplay_Cancelled(t *testing.T) {
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	created := createdEvent("trade-1", at)
	cancel := TradeCancelled{
		EventMeta: EventMeta{TradeID: "trade-1", Timestamp: at.Add(time.Hour), ActorID: "trader1"},
		Reason:    "booked in error",
	}

	trade := Replay([]Event{created, cancel})
	require.NotNil(t, trade)
	assert.True(t, trade.IsCancelled)
	require.NotNil(t, trade.CancellationReason)
	assert.Equal(t, "booked in error", *trade.CancellationReason)
}

func TestReplay_EventsAfterCancelStillApply(t *testing.T) {
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	created := createdEvent("trade-1", at)
	cancel := TradeCancelled{
		EventMeta: EventMeta{TradeID: "trade-1", Timestamp: at.Add(time.Hour), ActorID: "trader1"},
		Reason:    "duplicate",
	}
	npv := decimal.RequireFromString("99.99")
	priced := TradePriced{
		EventMeta: EventMeta{TradeID: "trade-1", Timestamp: at.Add(2 * time.Hour), ActorID: "system"},
		NPV:       npv, PricingDate: at.Add(2 * time.Hour),
	}

	trade := Replay([]Event{created, cancel, priced})
	require.NotNil(t, trade)
	assert.True(t, trade.IsCancelled)
	require.NotNil(t, trade.NPV)
	assert.True(t, trade.NPV.Equal(npv))
}

func TestReplay_IncrementalMatchesFull(t *testing.T) {
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	newCounterparty := "BankC"
	events := []Event{
		createdEvent("trade-1", at),
		TradeUpdated{EventMeta: EventMeta{TradeID: "trade-1", Timestamp: at.Add(time.Hour), ActorID: "trader1"}, Counterparty: &newCounterparty},
		TradePriced{EventMeta: EventMeta{TradeID: "trade-1", Timestamp: at.Add(2 * time.Hour), ActorID: "system"}, NPV: decimal.RequireFromString("10.00"), PricingDate: at.Add(2 * time.Hour)},
		TradeCancelled{EventMeta: EventMeta{TradeID: "trade-1", Timestamp: at.Add(3 * time.Hour), ActorID: "trader1"}, Reason: "unwound"},
	}

	full := Replay(events)

	prefix := Replay(events[:2])
	for _, evt := range events[2:] {
		prefix.Apply(evt)
	}

	assert.Equal(t, full, prefix)

	// Replaying again yields the same state: the fold is deterministic.
	assert.Equal(t, full, Replay(events))
}
