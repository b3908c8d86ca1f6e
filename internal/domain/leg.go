package domain

import "github.com/shopspring/decimal"

// SwapLeg describes one leg of an interest-rate swap.
// Legs are value objects: an amendment replaces a leg wholesale, never
// field by field.
type SwapLeg struct {
	LegType       LegType       `json:"legType"`
	PayerReceiver PayerReceiver `json:"payerReceiver"`

	// Fixed leg terms
	FixedRate *decimal.Decimal `json:"fixedRate,omitempty"`

	// Floating leg terms
	ReferenceRate  *string          `json:"referenceRate,omitempty"`
	Spread         *decimal.Decimal `json:"spread,omitempty"`
	ResetFrequency *string          `json:"resetFrequency,omitempty"`

	// Common terms
	PaymentFrequency      string `json:"paymentFrequency"`
	DayCountConvention    string `json:"dayCountConvention"`
	BusinessDayConvention string `json:"businessDayConvention"`
	PaymentCalendar       string `json:"paymentCalendar"`

	// Optional compounding
	CompoundingMethod    *string `json:"compoundingMethod,omitempty"`
	CompoundingFrequency *string `json:"compoundingFrequency,omitempty"`

	// Optional averaging
	AveragingMethod    *string `json:"averagingMethod,omitempty"`
	AveragingFrequency *string `json:"averagingFrequency,omitempty"`
}

// validate checks the leg's required terms. The name argument ("leg1", "leg2")
// prefixes the reported violations.
func (l *SwapLeg) validate(name string) []string {
	var errs []string
	switch l.LegType {
	case LegTypeFixed:
		if l.FixedRate == nil {
			errs = append(errs, name+": fixed leg requires a fixed rate")
		}
	case LegTypeFloating:
		if l.ReferenceRate == nil || *l.ReferenceRate == "" {
			errs = append(errs, name+": floating leg requires a reference rate")
		}
	default:
		errs = append(errs, name+": leg type must be FIXED or FLOATING")
	}
	if l.PayerReceiver != Pay && l.PayerReceiver != Receive {
		errs = append(errs, name+": payer/receiver must be PAY or RECEIVE")
	}
	if l.PaymentFrequency == "" {
		errs = append(errs, name+": payment frequency is required")
	}
	if l.DayCountConvention == "" {
		errs = append(errs, name+": day count convention is required")
	}
	if l.BusinessDayConvention == "" {
		errs = append(errs, name+": business day convention is required")
	}
	if l.PaymentCalendar == "" {
		errs = append(errs, name+": payment calendar is required")
	}
	return errs
}
