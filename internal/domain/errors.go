package domain

import "errors"

var (
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrForbidden            = errors.New("payment belongs to another user")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrAlreadyVip           = errors.New("user is already vip")
	ErrPendingPaymentExists = errors.New("pending payment already exists")
	ErrNotPending           = errors.New("payment is not pending")
	ErrInvalidTransition    = errors.New("invalid payment status transition")
	ErrUnsupportedCurrency  = errors.New("unsupported pay currency")
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
)
