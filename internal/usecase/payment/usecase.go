package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/config"
	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/cache"
	publisher "github.com/LavaJover/shvark-vip-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/notifier"
	paymentdto "github.com/LavaJover/shvark-vip-service/internal/usecase/dto/payment"
	"github.com/shopspring/decimal"
)

type PaymentUsecase interface {
	CreateVipPayment(ctx context.Context, input *paymentdto.CreatePaymentInput) (*paymentdto.CreatePaymentOutput, error)
	GetPaymentStatus(ctx context.Context, userID, paymentID string) (*paymentdto.PaymentStatusOutput, error)
	CancelPayment(ctx context.Context, userID, paymentID string) error
	GetRecentPending(ctx context.Context, userID string) (*paymentdto.RecentPendingOutput, error)
	GetPaymentConfig(ctx context.Context) *paymentdto.PaymentConfigOutput

	HandleGatewayNotification(ctx context.Context, trackID int64, status domain.PaymentStatus) error
	SweepExpiredPayments(ctx context.Context) (int, error)

	GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error)
	GetPaymentHistory(ctx context.Context, paymentID string) ([]logger.PaymentTransitionEvent, error)
	MarkFailed(ctx context.Context, paymentID, reason string) (*domain.Payment, error)
	MarkRefunded(ctx context.Context, paymentID, reason string) (*domain.Payment, error)
	ListPayments(ctx context.Context, input *paymentdto.ListPaymentsInput) (*paymentdto.ListPaymentsOutput, error)
}

type EventPublisher interface {
	PublishPayment(event publisher.PaymentEvent) error
}

type EntitlementNotifier interface {
	SendCallback(payload notifier.CallbackPayload)
}

type StatusBroadcaster interface {
	BroadcastStatus(update domain.StatusUpdate)
}

const (
	currenciesCacheKey = "accepted_currencies"
	sweepBatchSize     = 100
)

type DefaultPaymentUsecase struct {
	paymentRepo domain.PaymentRepository
	userRepo    domain.UserRepository
	events      logger.PaymentEventLogger
	gateway     domain.PaymentGateway
	publisher   EventPublisher
	notifier    EntitlementNotifier
	broadcaster StatusBroadcaster
	Metrics     *metrics.PaymentMetrics

	cfg             config.Payment
	sandbox         bool
	priceProduction decimal.Decimal
	priceTest       decimal.Decimal
	currencies      *cache.TTLCache[[]string]
	now             func() time.Time
}

func NewDefaultPaymentUsecase(
	paymentRepo domain.PaymentRepository,
	userRepo domain.UserRepository,
	events logger.PaymentEventLogger,
	gateway domain.PaymentGateway,
	eventPublisher EventPublisher,
	entitlementNotifier EntitlementNotifier,
	broadcaster StatusBroadcaster,
	paymentMetrics *metrics.PaymentMetrics,
	cfg config.Payment,
	sandbox bool,
) (*DefaultPaymentUsecase, error) {
	production, test, err := cfg.VipPrices()
	if err != nil {
		return nil, err
	}
	return &DefaultPaymentUsecase{
		paymentRepo:     paymentRepo,
		userRepo:        userRepo,
		events:          events,
		gateway:         gateway,
		publisher:       eventPublisher,
		notifier:        entitlementNotifier,
		broadcaster:     broadcaster,
		Metrics:         paymentMetrics,
		cfg:             cfg,
		sandbox:         sandbox,
		priceProduction: production,
		priceTest:       test,
		currencies:      cache.NewTTLCache[[]string](cfg.CurrenciesCacheTTL),
		now:             time.Now,
	}, nil
}

// WithClock replaces the time source. Used by tests.
func (uc *DefaultPaymentUsecase) WithClock(now func() time.Time) *DefaultPaymentUsecase {
	uc.now = now
	return uc
}

func (uc *DefaultPaymentUsecase) currentPrice() decimal.Decimal {
	if uc.cfg.TestMode {
		return uc.priceTest
	}
	return uc.priceProduction
}
