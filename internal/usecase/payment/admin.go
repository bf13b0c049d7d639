package usecase

import (
	"context"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
)

func (uc *DefaultPaymentUsecase) MarkFailed(ctx context.Context, paymentID, reason string) (*domain.Payment, error) {
	if reason == "" {
		reason = "marked failed by admin"
	}
	return uc.adminTransition(ctx, paymentID, domain.StatusFailed, reason)
}

func (uc *DefaultPaymentUsecase) MarkRefunded(ctx context.Context, paymentID, reason string) (*domain.Payment, error) {
	if reason == "" {
		reason = "marked refunded by admin"
	}
	return uc.adminTransition(ctx, paymentID, domain.StatusRefunded, reason)
}

func (uc *DefaultPaymentUsecase) adminTransition(ctx context.Context, paymentID string, to domain.PaymentStatus, reason string) (*domain.Payment, error) {
	payment, err := uc.paymentRepo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransition(to) {
		return nil, domain.ErrInvalidTransition
	}

	result, err := uc.transition(ctx, payment, to, domain.SourceAdmin, reason)
	if err != nil {
		return nil, err
	}
	if result.Status != to {
		return nil, domain.ErrInvalidTransition
	}
	return result, nil
}
