package models

import (
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/shopspring/decimal"
)

// The one-pending-per-user rule lives in migrations/000001 as a partial
// unique index (gorm tags cannot express the WHERE clause).
type PaymentModel struct {
	ID            string               `gorm:"primaryKey;type:uuid"`
	UserID        string               `gorm:"not null;index:idx_payment_user_status"`
	Purpose       domain.PaymentPurpose `gorm:"not null"`
	Status        domain.PaymentStatus `gorm:"not null;index:idx_payment_user_status;index:idx_payment_status_expires"`
	AmountUSD     decimal.Decimal      `gorm:"type:numeric(20,8);not null"`
	TestMode      bool                 `gorm:"not null"`
	OrderID       string               `gorm:"not null;uniqueIndex"`
	TrackID       int64                `gorm:"index"`
	Address       string
	PayAmount     decimal.Decimal `gorm:"type:numeric(30,12)"`
	PayCurrency   string
	Network       string
	QRCode        string
	Rate          decimal.Decimal `gorm:"type:numeric(30,12)"`
	ExpiresAt     time.Time       `gorm:"not null;index:idx_payment_status_expires"`
	FailureReason string
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}
