package logger

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"gorm.io/gorm"
)

type PaymentTransitionEvent struct {
	ID         uint                    `gorm:"primaryKey"`
	PaymentID  string                  `gorm:"type:uuid;not null;index"`
	UserID     string                  `gorm:"not null"`
	FromStatus domain.PaymentStatus
	ToStatus   domain.PaymentStatus    `gorm:"not null"`
	Source     domain.TransitionSource `gorm:"not null"`
	Reason     string
	Timestamp  time.Time `gorm:"not null"`
}

func (PaymentTransitionEvent) TableName() string {
	return "payment_events"
}

type PaymentEventLogger interface {
	LogTransition(ctx context.Context, event PaymentTransitionEvent) error
	History(ctx context.Context, paymentID string) ([]PaymentTransitionEvent, error)
}

type PGPaymentEventLogger struct {
	db *gorm.DB
}

func NewPGPaymentEventLogger(db *gorm.DB) *PGPaymentEventLogger {
	return &PGPaymentEventLogger{db: db}
}

// WithTx binds the logger to a running transaction so the audit row
// commits or rolls back together with the status change.
func (l *PGPaymentEventLogger) WithTx(tx *gorm.DB) *PGPaymentEventLogger {
	return &PGPaymentEventLogger{db: tx}
}

func (l *PGPaymentEventLogger) LogTransition(ctx context.Context, event PaymentTransitionEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return l.db.WithContext(ctx).Create(&event).Error
}

func (l *PGPaymentEventLogger) History(ctx context.Context, paymentID string) ([]PaymentTransitionEvent, error) {
	var events []PaymentTransitionEvent
	if err := l.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
