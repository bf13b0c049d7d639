package setup

import (
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-vip-service/internal/config"
	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/gateway"
	publisher "github.com/LavaJover/shvark-vip-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/notifier"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config    *config.VipConfig
	DB        *gorm.DB
	Registry  *prometheus.Registry
	Metrics   *metrics.PaymentMetrics
	Gateway   *gateway.OxaPayClient
	Publisher *publisher.DefaultKafkaPublisher
	Notifier  *notifier.EntitlementNotifier

	Repositories *Repositories
}

type Repositories struct {
	PaymentRepo domain.PaymentRepository
	UserRepo    domain.UserRepository
	EventLogger *logger.PGPaymentEventLogger
}

func InitializeDependencies(cfg *config.VipConfig) (*Dependencies, error) {
	if cfg.Gateway.MerchantKey == "" {
		return nil, fmt.Errorf("gateway merchant key is not configured")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}

	db := postgres.MustInitDB(cfg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	eventLogger := logger.NewPGPaymentEventLogger(db)
	repos := &Repositories{
		PaymentRepo: repository.NewDefaultPaymentRepository(db, eventLogger),
		UserRepo:    repository.NewDefaultUserRepository(db),
		EventLogger: eventLogger,
	}

	return &Dependencies{
		Config:       cfg,
		DB:           db,
		Registry:     registry,
		Metrics:      paymentMetrics,
		Gateway:      gateway.NewOxaPayClient(cfg.Gateway, paymentMetrics),
		Publisher:    initPublisher(cfg),
		Notifier:     notifier.NewEntitlementNotifier(cfg.Callback.EntitlementURL, 0),
		Repositories: repos,
	}, nil
}

func initPublisher(cfg *config.VipConfig) *publisher.DefaultKafkaPublisher {
	if cfg.KafkaService.Host == "" {
		slog.Warn("kafka host is not configured, payment events are disabled")
		return nil
	}
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	return publisher.NewDefaultKafkaPublisher(brokers, cfg.KafkaService.Topic)
}

func (d *Dependencies) Close() {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			slog.Error("failed to close kafka publisher", "error", err.Error())
		}
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
