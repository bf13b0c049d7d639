package usecase

import (
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	publisher "github.com/LavaJover/shvark-vip-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/notifier"
)

var eventTypes = map[domain.PaymentStatus]string{
	domain.StatusPending:   publisher.EventPaymentCreated,
	domain.StatusCompleted: publisher.EventPaymentCompleted,
	domain.StatusCancelled: publisher.EventPaymentCancelled,
	domain.StatusFailed:    publisher.EventPaymentFailed,
	domain.StatusRefunded:  publisher.EventPaymentRefunded,
}

func (uc *DefaultPaymentUsecase) publishPaymentEvent(payment *domain.Payment, source domain.TransitionSource) {
	if uc.publisher == nil {
		return
	}
	go func(event publisher.PaymentEvent) {
		if err := uc.publisher.PublishPayment(event); err != nil {
			slog.Error("failed to publish kafka payment event", "type", event.Type, "payment_id", event.PaymentID, "error", err.Error())
		}
	}(publisher.PaymentEvent{
		Type:        eventTypes[payment.Status],
		PaymentID:   payment.ID,
		UserID:      payment.UserID,
		Status:      string(payment.Status),
		Source:      string(source),
		AmountUSD:   payment.AmountUSD.String(),
		PayAmount:   payment.PayAmount.String(),
		PayCurrency: payment.PayCurrency,
		TrackID:     payment.TrackID,
		TestMode:    payment.TestMode,
		OccurredAt:  uc.now(),
	})
}

// notifyTransition fans a settled payment out to kafka, live clients and,
// for completed payments, the entitlement callback.
func (uc *DefaultPaymentUsecase) notifyTransition(payment *domain.Payment, source domain.TransitionSource) {
	uc.publishPaymentEvent(payment, source)

	if uc.broadcaster != nil {
		uc.broadcaster.BroadcastStatus(domain.StatusUpdate{
			PaymentID: payment.ID,
			UserID:    payment.UserID,
			Status:    payment.Status,
			At:        payment.UpdatedAt,
		})
	}

	if payment.Status == domain.StatusCompleted && uc.notifier != nil {
		confirmedAt := payment.UpdatedAt
		if payment.PaidAt != nil {
			confirmedAt = *payment.PaidAt
		}
		uc.notifier.SendCallback(notifier.CallbackPayload{
			PaymentID:   payment.ID,
			UserID:      payment.UserID,
			Status:      string(payment.Status),
			AmountUSD:   payment.AmountUSD.String(),
			PayAmount:   payment.PayAmount.String(),
			PayCurrency: payment.PayCurrency,
			TrackID:     payment.TrackID,
			TestMode:    payment.TestMode,
			ConfirmedAt: confirmedAt.In(time.UTC),
		})
	}
}
