package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
)

// transition moves a PENDING payment to a terminal status. When another
// writer already moved it, the current row is returned instead.
func (uc *DefaultPaymentUsecase) transition(
	ctx context.Context,
	payment *domain.Payment,
	to domain.PaymentStatus,
	source domain.TransitionSource,
	reason string,
) (*domain.Payment, error) {
	change := domain.StatusChange{
		PaymentID: payment.ID,
		From:      domain.StatusPending,
		To:        to,
		Source:    source,
		Reason:    reason,
		At:        uc.now(),
	}

	var err error
	if to == domain.StatusCompleted {
		err = uc.paymentRepo.CompletePayment(ctx, change)
	} else {
		err = uc.paymentRepo.ChangeStatus(ctx, change)
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		slog.Info("payment already moved by another writer",
			"payment_id", payment.ID,
			"wanted", to,
			"source", source,
		)
		return uc.paymentRepo.GetPaymentByID(ctx, payment.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to change payment status: %w", err)
	}

	updated := *payment
	updated.Status = to
	updated.FailureReason = reason
	updated.UpdatedAt = change.At
	if to == domain.StatusCompleted {
		paidAt := change.At
		updated.PaidAt = &paidAt
	}

	slog.Info("payment status changed",
		"payment_id", updated.ID,
		"user_id", updated.UserID,
		"status", to,
		"source", source,
		"reason", reason,
	)
	uc.recordTransitionMetrics(&updated, source)
	uc.notifyTransition(&updated, source)
	return &updated, nil
}

// applyGatewayStatus folds a gateway answer into the stored payment.
// Gateway PENDING leaves the row untouched.
func (uc *DefaultPaymentUsecase) applyGatewayStatus(
	ctx context.Context,
	payment *domain.Payment,
	status domain.PaymentStatus,
	source domain.TransitionSource,
) (*domain.Payment, error) {
	switch status {
	case domain.StatusCompleted:
		return uc.transition(ctx, payment, domain.StatusCompleted, source, "")
	case domain.StatusRefunded:
		return uc.transition(ctx, payment, domain.StatusRefunded, source, "refunded by gateway")
	case domain.StatusFailed:
		return uc.transition(ctx, payment, domain.StatusFailed, source, domain.FailureReasonExpired)
	default:
		return payment, nil
	}
}

// refreshPending asks the gateway about a PENDING payment. A stale payment
// is resolved for good: paid completes, anything else fails as expired.
func (uc *DefaultPaymentUsecase) refreshPending(
	ctx context.Context,
	payment *domain.Payment,
	source domain.TransitionSource,
) (*domain.Payment, error) {
	if payment.Status != domain.StatusPending {
		return payment, nil
	}
	stale := payment.IsStale(uc.now(), uc.cfg.ExpiryGrace)

	if !payment.HasIntent() {
		if !stale {
			return payment, nil
		}
		return uc.transition(ctx, payment, domain.StatusFailed, source, domain.FailureReasonExpired)
	}

	st, err := uc.gateway.GetStatus(ctx, payment.TrackID)
	if err != nil {
		return payment, err
	}
	if st.Status == domain.StatusPending && stale {
		return uc.transition(ctx, payment, domain.StatusFailed, source, domain.FailureReasonExpired)
	}
	return uc.applyGatewayStatus(ctx, payment, st.Status, source)
}

func (uc *DefaultPaymentUsecase) getOwnedPayment(ctx context.Context, userID, paymentID string) (*domain.Payment, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	payment, err := uc.paymentRepo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return payment, nil
}
