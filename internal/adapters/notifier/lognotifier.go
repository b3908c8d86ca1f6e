package notifier

import (
	"context"
	"fmt"

	"swapBook/internal/domain"
	"swapBook/internal/ports"
)

// LogNotifier implements ports.Notifier by logging the change fact. The
// real relay (message bus plus the UI fan-out) is an external
// collaborator; this adapter sits at the boundary so the trade store
// never knows the transport.
type LogNotifier struct {
	logger ports.Logger
}

// NewLogNotifier creates a new logging notifier.
func NewLogNotifier(logger ports.Logger) (*LogNotifier, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for notifier")
	}
	return &LogNotifier{logger: logger}, nil
}

// Publish logs the trade change fact.
func (n *LogNotifier) Publish(ctx context.Context, change domain.TradeChange) error {
	n.logger.Info(ctx, "Trade change published", map[string]interface{}{
		"tradeID":      change.TradeID,
		"change":       string(change.Change),
		"counterparty": change.Counterparty,
		"notional":     change.NotionalAmount.String() + " " + change.NotionalCurrency,
		"bookedBy":     change.BookedBy,
	})
	return nil
}
