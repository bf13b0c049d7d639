package usecase

import (
	"github.com/LavaJover/shvark-vip-service/internal/domain"
)

// recordCreatedMetrics - вызывается после создания платежа
func (uc *DefaultPaymentUsecase) recordCreatedMetrics(payment *domain.Payment) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordPaymentCreated(payment.PayCurrency, payment.TestMode, payment.AmountUSD.InexactFloat64())
}

// recordTransitionMetrics - вызывается при выходе из PENDING
func (uc *DefaultPaymentUsecase) recordTransitionMetrics(payment *domain.Payment, source domain.TransitionSource) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordTransition(string(payment.Status), string(source), payment.PayCurrency)

	if payment.Status == domain.StatusCompleted && payment.PaidAt != nil && !payment.CreatedAt.IsZero() {
		uc.Metrics.RecordCompletionDuration(payment.PayCurrency, payment.PaidAt.Sub(payment.CreatedAt).Seconds())
	}
}

func (uc *DefaultPaymentUsecase) recordRejectedMetrics(reason string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordRejected(reason)
}

func (uc *DefaultPaymentUsecase) recordSweepMetrics(result string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordSweep(result)
}
