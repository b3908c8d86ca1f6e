package pricing

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// Engine produces deterministic placeholder NPVs. It is intentionally
// not a pricing model: the value is a seeded pseudo-random variation of
// the notional, so repeated pricing requests with the same seed agree.
type Engine struct{}

// New creates a pricing engine.
func New() *Engine {
	return &Engine{}
}

// Price returns an NPV between -5% and +5% of the notional, rounded to
// two decimal places. The same seed and notional always produce the
// same value.
func (e *Engine) Price(notional decimal.Decimal, seed int64) decimal.Decimal {
	rng := rand.New(rand.NewSource(seed))
	variation := rng.Float64()*0.1 - 0.05 // -0.05 to 0.05
	return notional.Mul(decimal.NewFromFloat(variation)).Round(2)
}
