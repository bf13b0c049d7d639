package notifier

import "time"

// CallbackPayload is posted to the entitlement service once a VIP payment settles.
type CallbackPayload struct {
	PaymentID   string    `json:"payment_id"`
	UserID      string    `json:"user_id"`
	Status      string    `json:"status"`
	AmountUSD   string    `json:"amount_usd"`
	PayAmount   string    `json:"pay_amount"`
	PayCurrency string    `json:"pay_currency"`
	TrackID     int64     `json:"track_id"`
	TestMode    bool      `json:"test_mode"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}
