package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TradeDetails is the full set of terms required to book a new swap trade.
type TradeDetails struct {
	Counterparty     string
	TradeDate        time.Time
	EffectiveDate    time.Time
	MaturityDate     time.Time
	NotionalAmount   decimal.Decimal
	NotionalCurrency string
	BookedBy         string
	Leg1             SwapLeg
	Leg2             SwapLeg
}

// Validate checks the booking terms and returns every violation found,
// so a malformed command can be rejected in full before any event is
// appended.
func (d *TradeDetails) Validate() []string {
	var errs []string
	if strings.TrimSpace(d.Counterparty) == "" {
		errs = append(errs, "counterparty is required")
	}
	if strings.TrimSpace(d.BookedBy) == "" {
		errs = append(errs, "bookedBy is required")
	}
	if strings.TrimSpace(d.NotionalCurrency) == "" {
		errs = append(errs, "notional currency is required")
	}
	if !d.NotionalAmount.IsPositive() {
		errs = append(errs, "notional amount must be positive")
	}
	if d.TradeDate.IsZero() {
		errs = append(errs, "trade date is required")
	}
	if d.EffectiveDate.IsZero() || d.MaturityDate.IsZero() {
		errs = append(errs, "effective and maturity dates are required")
	} else if !d.MaturityDate.After(d.EffectiveDate) {
		errs = append(errs, "maturity date must be after effective date")
	}
	errs = append(errs, d.Leg1.validate("leg1")...)
	errs = append(errs, d.Leg2.validate("leg2")...)
	return errs
}

// TradeUpdate is a partial amendment: nil fields leave the current value
// unchanged, non-nil fields replace it. Legs are replaced wholesale.
type TradeUpdate struct {
	ActorID        string
	Counterparty   *string
	EffectiveDate  *time.Time
	MaturityDate   *time.Time
	NotionalAmount *decimal.Decimal
	Leg1           *SwapLeg
	Leg2           *SwapLeg
}

// Validate checks the present fields of the amendment. Date ordering can
// only be judged after the merge, so the current aggregate state is
// consulted for absent fields.
func (u *TradeUpdate) Validate(current *SwapTrade) []string {
	var errs []string
	if u.Counterparty != nil && strings.TrimSpace(*u.Counterparty) == "" {
		errs = append(errs, "counterparty cannot be blank")
	}
	if u.NotionalAmount != nil && !u.NotionalAmount.IsPositive() {
		errs = append(errs, "notional amount must be positive")
	}
	effective := current.EffectiveDate
	if u.EffectiveDate != nil {
		effective = *u.EffectiveDate
	}
	maturity := current.MaturityDate
	if u.MaturityDate != nil {
		maturity = *u.MaturityDate
	}
	if !maturity.After(effective) {
		errs = append(errs, "maturity date must be after effective date")
	}
	if u.Leg1 != nil {
		errs = append(errs, u.Leg1.validate("leg1")...)
	}
	if u.Leg2 != nil {
		errs = append(errs, u.Leg2.validate("leg2")...)
	}
	return errs
}
