package publisher

import "time"

const (
	EventPaymentCreated   = "payment.created"
	EventPaymentCompleted = "payment.completed"
	EventPaymentCancelled = "payment.cancelled"
	EventPaymentFailed    = "payment.failed"
	EventPaymentRefunded  = "payment.refunded"
)

type PaymentEvent struct {
	Type        string    `json:"type"`
	PaymentID   string    `json:"payment_id"`
	UserID      string    `json:"user_id"`
	Status      string    `json:"status"`
	Source      string    `json:"source,omitempty"`
	AmountUSD   string    `json:"amount_usd"`
	PayAmount   string    `json:"pay_amount,omitempty"`
	PayCurrency string    `json:"pay_currency,omitempty"`
	TrackID     int64     `json:"track_id,omitempty"`
	TestMode    bool      `json:"test_mode"`
	OccurredAt  time.Time `json:"occurred_at"`
}
