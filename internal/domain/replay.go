package domain

// Replay folds an ordered event sequence into the current aggregate
// state. It is a pure function: the same sequence always yields the same
// state, and replaying a prefix then applying the remaining events one
// at a time matches replaying the whole sequence at once.
//
// Replay applies history faithfully even when an event follows a
// cancellation. Command validation prevents such events from ever being
// written; if one exists in the log anyway, it is applied like any other
// and higher layers may flag the anomaly.
func Replay(events []Event) *SwapTrade {
	if len(events) == 0 {
		return nil
	}
	trade := &SwapTrade{}
	for _, evt := range events {
		trade.Apply(evt)
	}
	return trade
}

// Apply folds a single event into the aggregate state.
func (t *SwapTrade) Apply(evt Event) {
	switch e := evt.(type) {
	case TradeCreated:
		t.ID = e.TradeID
		t.Counterparty = e.Counterparty
		t.EffectiveDate = e.EffectiveDate
		t.MaturityDate = e.MaturityDate
		t.NotionalAmount = e.NotionalAmount
		t.NotionalCurrency = e.NotionalCurrency
		t.TradeDate = e.TradeDate
		t.BookedBy = e.BookedBy
		t.CreatedAt = e.Timestamp
		leg1 := e.Leg1
		leg2 := e.Leg2
		t.Leg1 = &leg1
		t.Leg2 = &leg2
	case TradeUpdated:
		if e.Counterparty != nil {
			t.Counterparty = *e.Counterparty
		}
		if e.EffectiveDate != nil {
			t.EffectiveDate = *e.EffectiveDate
		}
		if e.MaturityDate != nil {
			t.MaturityDate = *e.MaturityDate
		}
		if e.NotionalAmount != nil {
			t.NotionalAmount = *e.NotionalAmount
		}
		if e.Leg1 != nil {
			leg := *e.Leg1
			t.Leg1 = &leg
		}
		if e.Leg2 != nil {
			leg := *e.Leg2
			t.Leg2 = &leg
		}
	case TradePriced:
		npv := e.NPV
		t.NPV = &npv
	case TradeCancelled:
		reason := e.Reason
		t.IsCancelled = true
		t.CancellationReason = &reason
	}
}
