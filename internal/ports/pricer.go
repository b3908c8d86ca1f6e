package ports

import "github.com/shopspring/decimal"

// Pricer produces a placeholder NPV for a trade. The contract is
// determinism, not pricing realism: the same seed and notional always
// yield the same value.
type Pricer interface {
	Price(notional decimal.Decimal, seed int64) decimal.Decimal
}
