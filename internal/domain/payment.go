package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "PENDING"
	StatusCompleted PaymentStatus = "COMPLETED"
	StatusFailed    PaymentStatus = "FAILED"
	StatusRefunded  PaymentStatus = "REFUNDED"
	StatusCancelled PaymentStatus = "CANCELLED"
)

// IsTerminal reports whether no further transitions are allowed.
func (s PaymentStatus) IsTerminal() bool {
	return s != StatusPending
}

// CanTransition holds the whole payment lifecycle: only PENDING moves.
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	if s != StatusPending {
		return false
	}
	switch to {
	case StatusCompleted, StatusFailed, StatusRefunded, StatusCancelled:
		return true
	}
	return false
}

type PaymentPurpose string

const PurposeVipUpgrade PaymentPurpose = "VIP_UPGRADE"

// TransitionSource records who moved a payment out of PENDING.
type TransitionSource string

const (
	SourceUser    TransitionSource = "user"
	SourcePoll    TransitionSource = "poll"
	SourceWebhook TransitionSource = "webhook"
	SourceSweep   TransitionSource = "sweep"
	SourceAdmin   TransitionSource = "admin"
	SourceCreate  TransitionSource = "create"
)

const FailureReasonExpired = "expired"

// PaymentIntent is what the gateway hands back for a white-label payment.
type PaymentIntent struct {
	ID          string          `json:"id"`
	TrackID     int64           `json:"trackId"`
	Address     string          `json:"address"`
	PayAmount   decimal.Decimal `json:"payAmount"`
	PayCurrency string          `json:"payCurrency"`
	Network     string          `json:"network"`
	QRCode      string          `json:"qrCode"`
	ExpiredAt   int64           `json:"expiredAt"`
	Rate        decimal.Decimal `json:"rate"`
}

// Remaining is measured from the absolute expiry, never from a local counter.
func (i PaymentIntent) Remaining(now time.Time) time.Duration {
	return time.Unix(i.ExpiredAt, 0).Sub(now)
}

// IsExpired treats remaining == 0 as expired.
func (i PaymentIntent) IsExpired(now time.Time) bool {
	return i.Remaining(now) <= 0
}

type Payment struct {
	ID            string
	UserID        string
	Purpose       PaymentPurpose
	Status        PaymentStatus
	AmountUSD     decimal.Decimal
	TestMode      bool
	OrderID       string
	TrackID       int64
	Address       string
	PayAmount     decimal.Decimal
	PayCurrency   string
	Network       string
	QRCode        string
	Rate          decimal.Decimal
	ExpiresAt     time.Time
	FailureReason string
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasIntent is false while the row only reserves the user's pending slot.
func (p *Payment) HasIntent() bool {
	return p.TrackID != 0
}

func (p *Payment) Intent() PaymentIntent {
	return PaymentIntent{
		ID:          p.ID,
		TrackID:     p.TrackID,
		Address:     p.Address,
		PayAmount:   p.PayAmount,
		PayCurrency: p.PayCurrency,
		Network:     p.Network,
		QRCode:      p.QRCode,
		ExpiredAt:   p.ExpiresAt.Unix(),
		Rate:        p.Rate,
	}
}

func (p *Payment) AttachIntent(intent *PaymentIntent) {
	p.TrackID = intent.TrackID
	p.Address = intent.Address
	p.PayAmount = intent.PayAmount
	p.PayCurrency = intent.PayCurrency
	p.Network = intent.Network
	p.QRCode = intent.QRCode
	p.Rate = intent.Rate
	p.ExpiresAt = time.Unix(intent.ExpiredAt, 0)
}

// IsStale reports a PENDING payment whose expiry plus grace has passed.
func (p *Payment) IsStale(now time.Time, grace time.Duration) bool {
	return p.Status == StatusPending && !now.Before(p.ExpiresAt.Add(grace))
}

// StatusChange is a conditional PENDING -> terminal update.
type StatusChange struct {
	PaymentID string
	From      PaymentStatus
	To        PaymentStatus
	Source    TransitionSource
	Reason    string
	At        time.Time
}

type PaymentFilter struct {
	UserID string
	Status PaymentStatus
}

// StatusUpdate is pushed to connected clients when a payment leaves PENDING.
type StatusUpdate struct {
	PaymentID string        `json:"paymentId"`
	UserID    string        `json:"-"`
	Status    PaymentStatus `json:"status"`
	At        time.Time     `json:"at"`
}
