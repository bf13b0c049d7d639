package usecase

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/logger"
	paymentdto "github.com/LavaJover/shvark-vip-service/internal/usecase/dto/payment"
)

func (uc *DefaultPaymentUsecase) GetRecentPending(ctx context.Context, userID string) (*paymentdto.RecentPendingOutput, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	payment, err := uc.paymentRepo.FindPendingByUserID(ctx, userID)
	if errors.Is(err, domain.ErrPaymentNotFound) {
		return &paymentdto.RecentPendingOutput{}, nil
	}
	if err != nil {
		return nil, err
	}

	if payment.IsStale(uc.now(), uc.cfg.ExpiryGrace) {
		resolved, err := uc.refreshPending(ctx, payment, domain.SourcePoll)
		if err != nil {
			slog.Warn("failed to resolve stale pending payment", "payment_id", payment.ID, "error", err.Error())
		} else {
			payment = resolved
		}
	}
	if payment.Status != domain.StatusPending {
		return &paymentdto.RecentPendingOutput{}, nil
	}

	return &paymentdto.RecentPendingOutput{
		Payment: &paymentdto.PaymentSummary{ID: payment.ID, Status: payment.Status},
	}, nil
}

func (uc *DefaultPaymentUsecase) GetPaymentConfig(ctx context.Context) *paymentdto.PaymentConfigOutput {
	return &paymentdto.PaymentConfigOutput{
		TestMode: uc.cfg.TestMode,
		Sandbox:  uc.sandbox,
		Pricing: paymentdto.Pricing{
			Vip: paymentdto.VipPricing{
				Production: uc.priceProduction,
				Test:       uc.priceTest,
				Current:    uc.currentPrice(),
			},
		},
		Currencies: uc.AcceptedCurrencies(ctx),
	}
}

// AcceptedCurrencies intersects the configured list with what the gateway
// accepts. The gateway answer is cached; on gateway failure the configured
// list is used as is.
func (uc *DefaultPaymentUsecase) AcceptedCurrencies(ctx context.Context) []string {
	if cached, ok := uc.currencies.Get(currenciesCacheKey, uc.now()); ok {
		return cached
	}

	configured := make([]string, 0, len(uc.cfg.SupportedCurrencies))
	for _, c := range uc.cfg.SupportedCurrencies {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			configured = append(configured, c)
		}
	}

	remote, err := uc.gateway.AcceptedCurrencies(ctx)
	if err != nil {
		slog.Warn("failed to load accepted currencies", "error", err.Error())
		return configured
	}

	var result []string
	if len(configured) == 0 {
		result = remote
	} else {
		result = make([]string, 0, len(configured))
		for _, c := range configured {
			if slices.Contains(remote, c) {
				result = append(result, c)
			}
		}
	}
	uc.currencies.Put(currenciesCacheKey, result, uc.now())
	return result
}

func (uc *DefaultPaymentUsecase) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return uc.paymentRepo.GetPaymentByID(ctx, paymentID)
}

func (uc *DefaultPaymentUsecase) GetPaymentHistory(ctx context.Context, paymentID string) ([]logger.PaymentTransitionEvent, error) {
	if _, err := uc.paymentRepo.GetPaymentByID(ctx, paymentID); err != nil {
		return nil, err
	}
	if uc.events == nil {
		return nil, nil
	}
	return uc.events.History(ctx, paymentID)
}

func (uc *DefaultPaymentUsecase) ListPayments(ctx context.Context, input *paymentdto.ListPaymentsInput) (*paymentdto.ListPaymentsOutput, error) {
	page, limit := input.Page, input.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	payments, total, err := uc.paymentRepo.ListPayments(ctx, domain.PaymentFilter{
		UserID: input.UserID,
		Status: domain.PaymentStatus(strings.ToUpper(input.Status)),
	}, page, limit)
	if err != nil {
		return nil, err
	}

	return &paymentdto.ListPaymentsOutput{
		Payments: payments,
		Pagination: paymentdto.Pagination{
			CurrentPage:  int32(page),
			TotalPages:   int32(math.Ceil(float64(total) / float64(limit))),
			TotalItems:   int32(total),
			ItemsPerPage: int32(limit),
		},
	}, nil
}
