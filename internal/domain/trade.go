package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SwapTrade is the aggregate state obtained by replaying a trade's event
// stream. It lives in memory only; the persisted view of a trade is the
// read-model row maintained by the projection.
type SwapTrade struct {
	ID                 string
	Counterparty       string
	EffectiveDate      time.Time
	MaturityDate       time.Time
	NotionalAmount     decimal.Decimal
	NotionalCurrency   string
	TradeDate          time.Time
	BookedBy           string
	NPV                *decimal.Decimal // nil until the trade is first priced
	CreatedAt          time.Time
	IsCancelled        bool
	CancellationReason *string
	Leg1               *SwapLeg
	Leg2               *SwapLeg
}

// Trade is the denormalized read-model row the UI queries. One row per
// trade identity, overwritten in place as projection events arrive.
type Trade struct {
	ID                 string
	Counterparty       string
	EffectiveDate      time.Time
	MaturityDate       time.Time
	NotionalAmount     decimal.Decimal
	NotionalCurrency   string
	TradeDate          time.Time
	BookedBy           string
	NPV                *decimal.Decimal
	IsCancelled        bool
	CancellationReason *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Leg1               *SwapLeg
	Leg2               *SwapLeg
}

// TradeChange is the best-effort fact handed to the notification relay
// after a successful create or update.
type TradeChange struct {
	TradeID          string
	Change           ChangeKind
	Counterparty     string
	NotionalAmount   decimal.Decimal
	NotionalCurrency string
	BookedBy         string
}
