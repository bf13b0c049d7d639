package usecase

import (
	"context"
	"log/slog"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
)

// HandleGatewayNotification applies a verified gateway callback. Repeated
// or late callbacks for a settled payment are ignored.
func (uc *DefaultPaymentUsecase) HandleGatewayNotification(ctx context.Context, trackID int64, status domain.PaymentStatus) error {
	payment, err := uc.paymentRepo.GetPaymentByTrackID(ctx, trackID)
	if err != nil {
		return err
	}

	if payment.Status.IsTerminal() {
		if status == domain.StatusCompleted && payment.Status != domain.StatusCompleted {
			slog.Warn("gateway reports paid for a settled payment",
				"payment_id", payment.ID,
				"track_id", trackID,
				"status", payment.Status,
			)
		}
		return nil
	}

	_, err = uc.applyGatewayStatus(ctx, payment, status, domain.SourceWebhook)
	return err
}
