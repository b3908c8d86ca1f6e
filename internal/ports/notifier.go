package ports

import (
	"context"

	"swapBook/internal/domain"
)

// Notifier hands "trade changed" facts to the external notification
// relay that fans them out to live UI subscribers. Delivery is best
// effort: a failure must never fail or roll back the command that
// produced the fact.
type Notifier interface {
	Publish(ctx context.Context, change domain.TradeChange) error
}
