package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// GatewayStatus is the processor-side state normalised to our vocabulary.
type GatewayStatus struct {
	TrackID int64
	Status  PaymentStatus
	Raw     string
}

type CreateIntentRequest struct {
	PaymentID   string
	OrderID     string
	AmountUSD   decimal.Decimal
	PayCurrency string
	Description string
	Sandbox     bool
}

type PaymentGateway interface {
	CreateIntent(ctx context.Context, req *CreateIntentRequest) (*PaymentIntent, error)
	GetStatus(ctx context.Context, trackID int64) (*GatewayStatus, error)
	AcceptedCurrencies(ctx context.Context) ([]string, error)
}
