package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
)

// SweepExpiredPayments resolves PENDING payments whose expiry plus grace
// has passed. Returns how many left PENDING.
func (uc *DefaultPaymentUsecase) SweepExpiredPayments(ctx context.Context) (int, error) {
	before := uc.now().Add(-uc.cfg.ExpiryGrace)
	stale, err := uc.paymentRepo.FindStalePending(ctx, before, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, payment := range stale {
		if ctx.Err() != nil {
			return resolved, ctx.Err()
		}
		result, err := uc.refreshPending(ctx, payment, domain.SourceSweep)
		if err != nil {
			slog.Warn("sweep: failed to resolve payment", "payment_id", payment.ID, "error", err.Error())
			uc.recordSweepMetrics("error")
			continue
		}
		if result.Status == domain.StatusPending {
			uc.recordSweepMetrics("pending")
			continue
		}
		resolved++
		uc.recordSweepMetrics(strings.ToLower(string(result.Status)))
	}

	if uc.Metrics != nil {
		if _, total, err := uc.paymentRepo.ListPayments(ctx, domain.PaymentFilter{Status: domain.StatusPending}, 1, 1); err == nil {
			uc.Metrics.SetPending(total)
		}
	}

	if resolved > 0 {
		slog.Info("sweep: stale payments resolved", "count", resolved)
	}
	return resolved, nil
}
