package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	paymentdto "github.com/LavaJover/shvark-vip-service/internal/usecase/dto/payment"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

const orderIDPrefix = "vip_"

// CreateVipPayment reserves the user's pending slot first and only then
// talks to the gateway, so a second concurrent call is rejected before any
// charge is created.
func (uc *DefaultPaymentUsecase) CreateVipPayment(ctx context.Context, input *paymentdto.CreatePaymentInput) (*paymentdto.CreatePaymentOutput, error) {
	if input.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	payCurrency := strings.ToUpper(strings.TrimSpace(input.PayCurrency))
	if payCurrency == "" {
		return nil, fmt.Errorf("%w: pay currency is required", domain.ErrUnsupportedCurrency)
	}

	user, err := uc.userRepo.GetUserByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsVip {
		uc.recordRejectedMetrics("already_vip")
		return nil, domain.ErrAlreadyVip
	}

	if err := uc.releaseStalePending(ctx, input.UserID); err != nil {
		return nil, err
	}

	if !slices.Contains(uc.AcceptedCurrencies(ctx), payCurrency) {
		uc.recordRejectedMetrics("unsupported_currency")
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, payCurrency)
	}

	idGenerator, err := nanoid.Standard(21)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	payment := &domain.Payment{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Purpose:     domain.PurposeVipUpgrade,
		Status:      domain.StatusPending,
		AmountUSD:   uc.currentPrice(),
		TestMode:    uc.cfg.TestMode,
		OrderID:     orderIDPrefix + idGenerator(),
		PayCurrency: payCurrency,
		ExpiresAt:   now.Add(uc.cfg.ReservationTTL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.paymentRepo.ReservePending(ctx, payment); err != nil {
		if errors.Is(err, domain.ErrPendingPaymentExists) {
			uc.recordRejectedMetrics("pending_exists")
		}
		return nil, err
	}

	intent, err := uc.gateway.CreateIntent(ctx, &domain.CreateIntentRequest{
		PaymentID:   payment.ID,
		OrderID:     payment.OrderID,
		AmountUSD:   payment.AmountUSD,
		PayCurrency: payCurrency,
		Description: "VIP upgrade",
		Sandbox:     uc.sandbox || uc.cfg.TestMode,
	})
	if err != nil {
		if delErr := uc.paymentRepo.DeleteReservation(context.WithoutCancel(ctx), payment.ID); delErr != nil {
			slog.Error("failed to release payment reservation",
				"payment_id", payment.ID,
				"error", delErr.Error(),
			)
		}
		uc.recordRejectedMetrics("gateway")
		slog.Error("gateway create intent failed", "user_id", input.UserID, "pay_currency", payCurrency, "error", err.Error())
		if errors.Is(err, domain.ErrGatewayUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	intent.ID = payment.ID

	if err := uc.paymentRepo.AttachIntent(ctx, payment.ID, intent); err != nil {
		// The reservation stays and expires after the reservation ttl.
		return nil, fmt.Errorf("failed to attach payment intent: %w", err)
	}
	payment.AttachIntent(intent)

	slog.Info("vip payment created",
		"payment_id", payment.ID,
		"user_id", payment.UserID,
		"track_id", payment.TrackID,
		"pay_currency", payment.PayCurrency,
		"amount_usd", payment.AmountUSD.String(),
		"test_mode", payment.TestMode,
	)
	uc.recordCreatedMetrics(payment)
	uc.publishPaymentEvent(payment, domain.SourceCreate)

	return &paymentdto.CreatePaymentOutput{
		Payment:  *intent,
		TestMode: uc.cfg.TestMode,
	}, nil
}

// releaseStalePending resolves a pending payment left behind after its
// expiry so it no longer blocks a new one.
func (uc *DefaultPaymentUsecase) releaseStalePending(ctx context.Context, userID string) error {
	pending, err := uc.paymentRepo.FindPendingByUserID(ctx, userID)
	if errors.Is(err, domain.ErrPaymentNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !pending.IsStale(uc.now(), uc.cfg.ExpiryGrace) {
		return nil
	}

	resolved, err := uc.refreshPending(ctx, pending, domain.SourceCreate)
	if err != nil {
		slog.Warn("failed to resolve stale pending payment", "payment_id", pending.ID, "error", err.Error())
		return nil
	}
	if resolved.Status == domain.StatusCompleted {
		return domain.ErrAlreadyVip
	}
	return nil
}
