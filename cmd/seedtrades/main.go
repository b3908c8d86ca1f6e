package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"swapBook/config"
	"swapBook/internal/adapters/logger"
	"swapBook/internal/adapters/notifier"
	"swapBook/internal/adapters/sqlite"
	"swapBook/internal/app"
	"swapBook/internal/domain"
	"swapBook/internal/pricing"

	"github.com/shopspring/decimal"
)

// seedtrades books a handful of demo swaps through the full stack,
// prices and cancels some of them, drains the projection, and prints
// the resulting read model. Useful for smoke-testing a fresh database.
func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Store (Database Adapter)
	store, err := sqlite.New(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize trade store")
		log.Fatalf("FATAL: Failed to initialize trade store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing trade store")
		}
	}()
	appLogger.Info(context.Background(), "Trade store initialized")

	// 4. Initialize Service and Projection
	relay, err := notifier.NewLogNotifier(appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize notifier: %v", err)
	}
	service, err := app.NewTradeService(appLogger, store, store, relay, pricing.New())
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize trade service: %v", err)
	}
	engine, err := app.NewProjectionEngine(appLogger, store, store, cfg.ProjectionPollInterval, cfg.ProjectionBatchSize)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize projection engine: %v", err)
	}

	ctx := context.Background()

	// 5. Book demo trades
	fixedRate := decimal.RequireFromString("0.025")
	spread := decimal.RequireFromString("0.001")
	refRate := "SOFR"
	resetFreq := "3M"

	now := time.Now().UTC()
	details := domain.TradeDetails{
		Counterparty:     "BankA",
		EffectiveDate:    now.AddDate(0, 0, 2),
		MaturityDate:     now.AddDate(5, 0, 2),
		NotionalAmount:   decimal.NewFromInt(1_000_000),
		NotionalCurrency: "USD",
		TradeDate:        now,
		BookedBy:         "trader1",
		Leg1: domain.SwapLeg{
			LegType:               domain.LegTypeFixed,
			PayerReceiver:         domain.Pay,
			FixedRate:             &fixedRate,
			PaymentFrequency:      "6M",
			DayCountConvention:    "30/360",
			BusinessDayConvention: "ModifiedFollowing",
			PaymentCalendar:       "USNY",
		},
		Leg2: domain.SwapLeg{
			LegType:               domain.LegTypeFloating,
			PayerReceiver:         domain.Receive,
			ReferenceRate:         &refRate,
			Spread:                &spread,
			ResetFrequency:        &resetFreq,
			PaymentFrequency:      "3M",
			DayCountConvention:    "ACT/360",
			BusinessDayConvention: "ModifiedFollowing",
			PaymentCalendar:       "USNY",
		},
	}

	first, err := service.Create(ctx, details)
	if err != nil {
		log.Fatalf("Error booking trade: %v", err)
	}
	fmt.Printf("Booked %s with %s, notional %s %s\n", first.ID, first.Counterparty, first.NotionalAmount, first.NotionalCurrency)

	details.Counterparty = "BankB"
	details.NotionalAmount = decimal.NewFromInt(5_000_000)
	details.TradeDate = now.Add(time.Second)
	second, err := service.Create(ctx, details)
	if err != nil {
		log.Fatalf("Error booking trade: %v", err)
	}
	fmt.Printf("Booked %s with %s, notional %s %s\n", second.ID, second.Counterparty, second.NotionalAmount, second.NotionalCurrency)

	// 6. Price the first trade and cancel the second
	if ok, err := service.Reprice(ctx, first.ID, 42); err != nil || !ok {
		log.Fatalf("Error pricing trade %s: ok=%v err=%v", first.ID, ok, err)
	}
	if ok, err := service.Cancel(ctx, second.ID, "booked in error"); err != nil || !ok {
		log.Fatalf("Error cancelling trade %s: ok=%v err=%v", second.ID, ok, err)
	}

	// 7. Drain the projection and print the read model
	if err := engine.CatchUp(ctx); err != nil {
		log.Fatalf("Error projecting events: %v", err)
	}

	trades, err := service.GetByOwner(ctx, "trader1")
	if err != nil {
		log.Fatalf("Error listing trades: %v", err)
	}
	fmt.Printf("trader1 has %d active trade(s):\n", len(trades))
	for _, t := range trades {
		npv := "unpriced"
		if t.NPV != nil {
			npv = t.NPV.String()
		}
		fmt.Printf("  %s  %s  %s %s  npv=%s\n", t.ID, t.Counterparty, t.NotionalAmount, t.NotionalCurrency, npv)
	}
}
