package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// FlexInt64 accepts both 12345 and "12345".
type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		b = []byte(s)
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", string(b), err)
	}
	*f = FlexInt64(v)
	return nil
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   struct {
		Type    string `json:"type"`
		Key     string `json:"key"`
		Message string `json:"message"`
	} `json:"error"`
	Status int `json:"status"`
}

type whiteLabelRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	PayCurrency string          `json:"pay_currency"`
	Lifetime    int             `json:"lifetime"`
	CallbackURL string          `json:"callback_url,omitempty"`
	OrderID     string          `json:"order_id"`
	Description string          `json:"description,omitempty"`
	Sandbox     bool            `json:"sandbox"`
}

type whiteLabelData struct {
	TrackID     FlexInt64       `json:"track_id"`
	PayAmount   decimal.Decimal `json:"pay_amount"`
	PayCurrency string          `json:"pay_currency"`
	Network     string          `json:"network"`
	Address     string          `json:"address"`
	QRCode      string          `json:"qr_code"`
	ExpiredAt   FlexInt64       `json:"expired_at"`
	Rate        decimal.Decimal `json:"rate"`
}

type paymentInfoData struct {
	TrackID FlexInt64 `json:"track_id"`
	Status  string    `json:"status"`
}

type acceptedCurrenciesData struct {
	List []string `json:"list"`
}

// WebhookPayload is the subset of the processor callback we act on.
type WebhookPayload struct {
	TrackID FlexInt64       `json:"track_id"`
	Status  string          `json:"status"`
	Type    string          `json:"type"`
	Amount  decimal.Decimal `json:"amount"`
	OrderID string          `json:"order_id"`
}
