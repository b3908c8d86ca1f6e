package domain

// LegType identifies whether a swap leg pays a fixed or a floating rate.
type LegType string

const (
	LegTypeFixed    LegType = "FIXED"
	LegTypeFloating LegType = "FLOATING"
)

// PayerReceiver indicates the direction of a leg from the booking desk's view.
type PayerReceiver string

const (
	Pay     PayerReceiver = "PAY"
	Receive PayerReceiver = "RECEIVE"
)

// ChangeKind identifies the kind of trade change announced to the notification relay.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
)
