package usecase

import (
	"context"
	"log/slog"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	paymentdto "github.com/LavaJover/shvark-vip-service/internal/usecase/dto/payment"
)

// GetPaymentStatus returns the stored status. A PENDING payment is checked
// against the gateway first; terminal payments are served from the store.
func (uc *DefaultPaymentUsecase) GetPaymentStatus(ctx context.Context, userID, paymentID string) (*paymentdto.PaymentStatusOutput, error) {
	payment, err := uc.getOwnedPayment(ctx, userID, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status == domain.StatusPending {
		refreshed, err := uc.refreshPending(ctx, payment, domain.SourcePoll)
		if err != nil {
			slog.Warn("gateway status check failed",
				"payment_id", payment.ID,
				"track_id", payment.TrackID,
				"error", err.Error(),
			)
		} else {
			payment = refreshed
		}
	}

	return toStatusOutput(payment), nil
}

func toStatusOutput(payment *domain.Payment) *paymentdto.PaymentStatusOutput {
	out := &paymentdto.PaymentStatusOutput{
		ID:     payment.ID,
		Status: payment.Status,
	}
	if payment.Status == domain.StatusPending && payment.HasIntent() {
		intent := payment.Intent()
		out.Metadata = &intent
	}
	return out
}
