package paymentdto

import (
	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/shopspring/decimal"
)

type CreatePaymentOutput struct {
	Payment  domain.PaymentIntent `json:"payment"`
	TestMode bool                 `json:"testMode"`
}

type PaymentStatusOutput struct {
	ID       string                `json:"id"`
	Status   domain.PaymentStatus  `json:"status"`
	Metadata *domain.PaymentIntent `json:"metadata,omitempty"`
}

type PaymentSummary struct {
	ID     string               `json:"id"`
	Status domain.PaymentStatus `json:"status"`
}

type RecentPendingOutput struct {
	Payment *PaymentSummary `json:"payment"`
}

type VipPricing struct {
	Production decimal.Decimal `json:"production"`
	Test       decimal.Decimal `json:"test"`
	Current    decimal.Decimal `json:"current"`
}

type Pricing struct {
	Vip VipPricing `json:"vip"`
}

type PaymentConfigOutput struct {
	TestMode   bool     `json:"testMode"`
	Sandbox    bool     `json:"sandbox"`
	Pricing    Pricing  `json:"pricing"`
	Currencies []string `json:"currencies"`
}

type ListPaymentsOutput struct {
	Payments   []*domain.Payment
	Pagination Pagination
}

type Pagination struct {
	CurrentPage  int32
	TotalPages   int32
	TotalItems   int32
	ItemsPerPage int32
}
