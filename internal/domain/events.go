package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind identifies the kind of a trade event.
type EventKind string

const (
	KindTradeCreated   EventKind = "TradeCreated"
	KindTradeUpdated   EventKind = "TradeUpdated"
	KindTradePriced    EventKind = "TradePriced"
	KindTradeCancelled EventKind = "TradeCancelled"
)

// EventMeta carries the fields common to every trade event.
type EventMeta struct {
	TradeID   string    `json:"tradeId"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actorId"`
}

// Meta returns the common event fields.
func (m EventMeta) Meta() EventMeta { return m }

// Event is an immutable fact describing one state change to one trade.
// Events are never mutated or deleted once appended; ordering within a
// stream is the sole source of truth for the trade's history.
type Event interface {
	Kind() EventKind
	Meta() EventMeta
}

// TradeCreated records the booking of a new swap trade. It is always the
// first event of a stream.
type TradeCreated struct {
	EventMeta
	Counterparty     string          `json:"counterparty"`
	EffectiveDate    time.Time       `json:"effectiveDate"`
	MaturityDate     time.Time       `json:"maturityDate"`
	NotionalAmount   decimal.Decimal `json:"notionalAmount"`
	NotionalCurrency string          `json:"notionalCurrency"`
	TradeDate        time.Time       `json:"tradeDate"`
	BookedBy         string          `json:"bookedBy"`
	Leg1             SwapLeg         `json:"leg1"`
	Leg2             SwapLeg         `json:"leg2"`
}

// Kind identifies the event kind.
func (TradeCreated) Kind() EventKind { return KindTradeCreated }

// TradeUpdated records a partial amendment. Nil fields were not part of
// the amendment and leave the prior value untouched; a non-nil leg
// replaces that leg wholesale.
type TradeUpdated struct {
	EventMeta
	Counterparty   *string          `json:"counterparty,omitempty"`
	EffectiveDate  *time.Time       `json:"effectiveDate,omitempty"`
	MaturityDate   *time.Time       `json:"maturityDate,omitempty"`
	NotionalAmount *decimal.Decimal `json:"notionalAmount,omitempty"`
	Leg1           *SwapLeg         `json:"leg1,omitempty"`
	Leg2           *SwapLeg         `json:"leg2,omitempty"`
}

// Kind identifies the event kind.
func (TradeUpdated) Kind() EventKind { return KindTradeUpdated }

// TradePriced records a pricing result for the trade.
type TradePriced struct {
	EventMeta
	NPV         decimal.Decimal `json:"npv"`
	PricingDate time.Time       `json:"pricingDate"`
}

// Kind identifies the event kind.
func (TradePriced) Kind() EventKind { return KindTradePriced }

// TradeCancelled terminates the trade logically. The stream itself is
// kept forever; cancellation is a soft delete from the read perspective.
type TradeCancelled struct {
	EventMeta
	Reason string `json:"reason"`
}

// Kind identifies the event kind.
func (TradeCancelled) Kind() EventKind { return KindTradeCancelled }
