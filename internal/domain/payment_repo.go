package domain

import (
	"context"
	"time"
)

type PaymentRepository interface {
	// ReservePending inserts a PENDING row without gateway metadata.
	// Returns ErrPendingPaymentExists when the user already holds the slot.
	ReservePending(ctx context.Context, payment *Payment) error
	AttachIntent(ctx context.Context, paymentID string, intent *PaymentIntent) error
	DeleteReservation(ctx context.Context, paymentID string) error

	GetPaymentByID(ctx context.Context, paymentID string) (*Payment, error)
	GetPaymentByTrackID(ctx context.Context, trackID int64) (*Payment, error)
	FindPendingByUserID(ctx context.Context, userID string) (*Payment, error)
	FindStalePending(ctx context.Context, before time.Time, limit int) ([]*Payment, error)
	ListPayments(ctx context.Context, filter PaymentFilter, page, limit int) ([]*Payment, int64, error)

	// ChangeStatus applies the change only if the row still has change.From.
	// Returns ErrInvalidTransition when another writer got there first.
	ChangeStatus(ctx context.Context, change StatusChange) error
	// CompletePayment moves PENDING -> COMPLETED and grants VIP atomically.
	CompletePayment(ctx context.Context, change StatusChange) error
}

type User struct {
	ID       string
	IsVip    bool
	VipSince *time.Time
}

type UserRepository interface {
	// GetUserByID returns a non-VIP user when the id is unknown.
	GetUserByID(ctx context.Context, userID string) (*User, error)
}
