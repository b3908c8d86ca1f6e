package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"swapBook/internal/domain"
	"swapBook/internal/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeService is the single place where trade commands turn into
// events. Every mutation is validated against the aggregate state
// reconstructed from the trade's event stream, then appended with an
// optimistic version check. Queries go through the read model only; the
// one exception is Create, which synthesizes its response from the
// command inputs because the projection has not caught up yet.
type TradeService struct {
	logger    ports.Logger
	events    ports.EventStream
	readModel ports.ReadModelStore
	notifier  ports.Notifier
	pricer    ports.Pricer

	now   func() time.Time
	newID func() string
}

// NewTradeService creates a new trade service instance.
func NewTradeService(
	logger ports.Logger,
	events ports.EventStream,
	readModel ports.ReadModelStore,
	notifier ports.Notifier,
	pricer ports.Pricer,
) (*TradeService, error) {
	// Validate dependencies
	if logger == nil || events == nil || readModel == nil || notifier == nil || pricer == nil {
		return nil, fmt.Errorf("missing required dependencies for TradeService")
	}
	return &TradeService{
		logger:    logger,
		events:    events,
		readModel: readModel,
		notifier:  notifier,
		pricer:    pricer,
		now:       time.Now,
		newID:     func() string { return "trade-" + uuid.NewString() },
	}, nil
}

// Create books a new swap trade: it mints a stream identity, starts the
// stream with a TradeCreated event and returns the trade synthesized
// from the command inputs. It never waits for the projection.
func (s *TradeService) Create(ctx context.Context, details domain.TradeDetails) (*domain.Trade, error) {
	if errs := details.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", strings.Join(errs, "; "), ports.ErrValidation)
	}

	tradeID := s.newID()
	now := s.now().UTC()
	evt := domain.TradeCreated{
		EventMeta: domain.EventMeta{
			TradeID:   tradeID,
			Timestamp: now,
			ActorID:   details.BookedBy,
		},
		Counterparty:     details.Counterparty,
		EffectiveDate:    details.EffectiveDate,
		MaturityDate:     details.MaturityDate,
		NotionalAmount:   details.NotionalAmount,
		NotionalCurrency: details.NotionalCurrency,
		TradeDate:        details.TradeDate,
		BookedBy:         details.BookedBy,
		Leg1:             details.Leg1,
		Leg2:             details.Leg2,
	}

	if _, err := s.events.StartStream(ctx, tradeID, evt); err != nil {
		return nil, fmt.Errorf("failed to book trade %s: %w", tradeID, err)
	}
	s.logger.Info(ctx, "Trade booked", map[string]interface{}{
		"tradeID":      tradeID,
		"counterparty": details.Counterparty,
		"bookedBy":     details.BookedBy,
	})

	s.publishChange(ctx, domain.TradeChange{
		TradeID:          tradeID,
		Change:           domain.ChangeCreated,
		Counterparty:     details.Counterparty,
		NotionalAmount:   details.NotionalAmount,
		NotionalCurrency: details.NotionalCurrency,
		BookedBy:         details.BookedBy,
	})

	leg1 := details.Leg1
	leg2 := details.Leg2
	return &domain.Trade{
		ID:               tradeID,
		Counterparty:     details.Counterparty,
		EffectiveDate:    details.EffectiveDate,
		MaturityDate:     details.MaturityDate,
		NotionalAmount:   details.NotionalAmount,
		NotionalCurrency: details.NotionalCurrency,
		TradeDate:        details.TradeDate,
		BookedBy:         details.BookedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
		Leg1:             &leg1,
		Leg2:             &leg2,
	}, nil
}

// Update amends a trade. Returns false without error when the trade does
// not exist or is already cancelled; a version conflict surfaces as
// ErrConcurrencyConflict for the caller to retry.
func (s *TradeService) Update(ctx context.Context, tradeID string, update domain.TradeUpdate) (bool, error) {
	current, version, err := s.loadActive(ctx, tradeID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil // absent or cancelled: a no-op, not an error
	}
	if errs := update.Validate(current); len(errs) > 0 {
		return false, fmt.Errorf("%s: %w", strings.Join(errs, "; "), ports.ErrValidation)
	}

	evt := domain.TradeUpdated{
		EventMeta: domain.EventMeta{
			TradeID:   tradeID,
			Timestamp: s.now().UTC(),
			ActorID:   update.ActorID,
		},
		Counterparty:   update.Counterparty,
		EffectiveDate:  update.EffectiveDate,
		MaturityDate:   update.MaturityDate,
		NotionalAmount: update.NotionalAmount,
		Leg1:           update.Leg1,
		Leg2:           update.Leg2,
	}
	if _, err := s.events.Append(ctx, tradeID, version, evt); err != nil {
		return false, fmt.Errorf("failed to amend trade %s: %w", tradeID, err)
	}
	s.logger.Info(ctx, "Trade amended", map[string]interface{}{"tradeID": tradeID, "actorID": update.ActorID})

	current.Apply(evt)
	s.publishChange(ctx, domain.TradeChange{
		TradeID:          tradeID,
		Change:           domain.ChangeUpdated,
		Counterparty:     current.Counterparty,
		NotionalAmount:   current.NotionalAmount,
		NotionalCurrency: current.NotionalCurrency,
		BookedBy:         current.BookedBy,
	})
	return true, nil
}

// Price records an externally computed NPV against the trade. Same
// guard semantics as Update.
func (s *TradeService) Price(ctx context.Context, tradeID string, npv decimal.Decimal) (bool, error) {
	current, version, err := s.loadActive(ctx, tradeID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil
	}
	return s.appendPriced(ctx, tradeID, version, npv)
}

// Reprice computes the placeholder NPV for the trade from its notional
// and the given seed, then records it. The same seed always yields the
// same NPV for the same trade.
func (s *TradeService) Reprice(ctx context.Context, tradeID string, seed int64) (bool, error) {
	current, version, err := s.loadActive(ctx, tradeID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil
	}
	npv := s.pricer.Price(current.NotionalAmount, seed)
	return s.appendPriced(ctx, tradeID, version, npv)
}

func (s *TradeService) appendPriced(ctx context.Context, tradeID string, version uint64, npv decimal.Decimal) (bool, error) {
	now := s.now().UTC()
	evt := domain.TradePriced{
		EventMeta: domain.EventMeta{
			TradeID:   tradeID,
			Timestamp: now,
			ActorID:   "system",
		},
		NPV:         npv,
		PricingDate: now,
	}
	if _, err := s.events.Append(ctx, tradeID, version, evt); err != nil {
		return false, fmt.Errorf("failed to price trade %s: %w", tradeID, err)
	}
	s.logger.Info(ctx, "Trade priced", map[string]interface{}{"tradeID": tradeID, "npv": npv.String()})
	return true, nil
}

// Cancel terminates the trade logically. Same guard semantics as
// Update; cancelling twice is a no-op returning false.
func (s *TradeService) Cancel(ctx context.Context, tradeID string, reason string) (bool, error) {
	current, version, err := s.loadActive(ctx, tradeID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil
	}

	evt := domain.TradeCancelled{
		EventMeta: domain.EventMeta{
			TradeID:   tradeID,
			Timestamp: s.now().UTC(),
			ActorID:   current.BookedBy,
		},
		Reason: reason,
	}
	if _, err := s.events.Append(ctx, tradeID, version, evt); err != nil {
		return false, fmt.Errorf("failed to cancel trade %s: %w", tradeID, err)
	}
	s.logger.Info(ctx, "Trade cancelled", map[string]interface{}{"tradeID": tradeID, "reason": reason})
	return true, nil
}

// GetByID retrieves a trade from the read model. Cancelled and absent
// trades both come back nil.
func (s *TradeService) GetByID(ctx context.Context, tradeID string) (*domain.Trade, error) {
	return s.readModel.GetByID(ctx, tradeID)
}

// GetByOwner retrieves the owner's non-cancelled trades from the read
// model, most recent trade date first.
func (s *TradeService) GetByOwner(ctx context.Context, bookedBy string) ([]*domain.Trade, error) {
	return s.readModel.FindByOwner(ctx, bookedBy)
}

// loadActive replays the trade's stream. It returns nil state when the
// stream is absent or the trade is cancelled, which every mutating
// command treats as a silent no-op (the original caller sees false).
func (s *TradeService) loadActive(ctx context.Context, tradeID string) (*domain.SwapTrade, uint64, error) {
	events, version, err := s.events.ReadAll(ctx, tradeID)
	if err != nil {
		if errors.Is(err, ports.ErrStreamNotFound) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to read stream for trade %s: %w", tradeID, err)
	}
	trade := domain.Replay(events)
	if trade == nil || trade.IsCancelled {
		return nil, 0, nil
	}
	return trade, version, nil
}

// publishChange hands the fact to the notification relay. Fire and
// forget: a relay failure never fails the command that produced it.
func (s *TradeService) publishChange(ctx context.Context, change domain.TradeChange) {
	if err := s.notifier.Publish(ctx, change); err != nil {
		s.logger.Warn(ctx, "Failed to publish trade change", map[string]interface{}{
			"tradeID": change.TradeID,
			"change":  string(change.Change),
			"error":   err.Error(),
		})
	}
}
