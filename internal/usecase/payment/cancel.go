package usecase

import (
	"context"
	"log/slog"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
)

const cancelReason = "cancelled by user"

func (uc *DefaultPaymentUsecase) CancelPayment(ctx context.Context, userID, paymentID string) error {
	payment, err := uc.getOwnedPayment(ctx, userID, paymentID)
	if err != nil {
		return err
	}

	switch payment.Status {
	case domain.StatusCancelled:
		return nil
	case domain.StatusPending:
	default:
		return domain.ErrNotPending
	}

	// A payment that was paid right before the click must not be cancelled.
	if payment.HasIntent() {
		st, err := uc.gateway.GetStatus(ctx, payment.TrackID)
		if err != nil {
			slog.Warn("gateway check before cancel failed", "payment_id", payment.ID, "error", err.Error())
		} else if st.Status != domain.StatusPending {
			if _, err := uc.applyGatewayStatus(ctx, payment, st.Status, domain.SourcePoll); err != nil {
				return err
			}
			return domain.ErrNotPending
		}
	}

	result, err := uc.transition(ctx, payment, domain.StatusCancelled, domain.SourceUser, cancelReason)
	if err != nil {
		return err
	}
	if result.Status != domain.StatusCancelled {
		return domain.ErrNotPending
	}
	return nil
}
