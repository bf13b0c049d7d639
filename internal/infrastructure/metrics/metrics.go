package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentMetrics содержит все метрики VIP-платежей
type PaymentMetrics struct {
	// Созданные платежи
	PaymentsCreatedTotal       *prometheus.CounterVec
	PaymentsCreatedAmountTotal *prometheus.CounterVec

	// Переходы из PENDING в терминальные статусы
	PaymentsTransitionTotal *prometheus.CounterVec

	// Отказы при создании (already vip, pending exists, gateway)
	PaymentsRejectedTotal *prometheus.CounterVec

	// Время от создания до оплаты
	PaymentCompletionDuration *prometheus.HistogramVec

	// Шлюз
	GatewayRequestDuration *prometheus.HistogramVec
	GatewayErrorsTotal     *prometheus.CounterVec

	// Фоновая зачистка
	SweepProcessedTotal *prometheus.CounterVec

	// Сейчас в PENDING
	PendingPayments prometheus.Gauge
}

// NewPaymentMetrics регистрирует метрики в переданном registry
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	factory := promauto.With(reg)

	return &PaymentMetrics{
		PaymentsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vip_payments_created_total",
				Help: "Total number of created VIP payments",
			},
			[]string{"pay_currency", "test_mode"},
		),

		PaymentsCreatedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vip_payments_created_amount_usd_total",
				Help: "Total USD amount of created VIP payments",
			},
			[]string{"test_mode"},
		),

		PaymentsTransitionTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vip_payments_transition_total",
				Help: "Payments leaving PENDING, by final status and source",
			},
			[]string{"status", "source", "pay_currency"},
		),

		PaymentsRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vip_payments_rejected_total",
				Help: "Create requests rejected before reaching the gateway",
			},
			[]string{"reason"},
		),

		PaymentCompletionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vip_payment_completion_duration_seconds",
				Help:    "Time from payment creation to confirmation",
				Buckets: prometheus.ExponentialBuckets(30, 2, 10), // 30s, 1m, 2m...
			},
			[]string{"pay_currency"},
		),

		GatewayRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vip_gateway_request_duration_seconds",
				Help:    "Payment gateway request latency",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"operation"},
		),

		GatewayErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vip_gateway_errors_total",
				Help: "Failed payment gateway requests",
			},
			[]string{"operation"},
		),

		SweepProcessedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vip_payment_sweep_processed_total",
				Help: "Stale pending payments resolved by the expiry sweep",
			},
			[]string{"result"},
		),

		PendingPayments: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vip_payments_pending",
				Help: "Payments currently holding a user's pending slot",
			},
		),
	}
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// RecordPaymentCreated записывает созданный платеж
func (m *PaymentMetrics) RecordPaymentCreated(payCurrency string, testMode bool, amountUSD float64) {
	m.PaymentsCreatedTotal.WithLabelValues(payCurrency, boolLabel(testMode)).Inc()
	m.PaymentsCreatedAmountTotal.WithLabelValues(boolLabel(testMode)).Add(amountUSD)
	m.PendingPayments.Inc()
}

// RecordTransition записывает выход платежа из PENDING
func (m *PaymentMetrics) RecordTransition(status, source, payCurrency string) {
	m.PaymentsTransitionTotal.WithLabelValues(status, source, payCurrency).Inc()
	m.PendingPayments.Dec()
}

// RecordRejected записывает отказ при создании
func (m *PaymentMetrics) RecordRejected(reason string) {
	m.PaymentsRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordCompletionDuration записывает время до оплаты
func (m *PaymentMetrics) RecordCompletionDuration(payCurrency string, durationSeconds float64) {
	m.PaymentCompletionDuration.WithLabelValues(payCurrency).Observe(durationSeconds)
}

// RecordGatewayRequest записывает запрос к шлюзу
func (m *PaymentMetrics) RecordGatewayRequest(operation string, durationSeconds float64, failed bool) {
	m.GatewayRequestDuration.WithLabelValues(operation).Observe(durationSeconds)
	if failed {
		m.GatewayErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// RecordSweep записывает результат зачистки
func (m *PaymentMetrics) RecordSweep(result string) {
	m.SweepProcessedTotal.WithLabelValues(result).Inc()
}

// SetPending выставляет значение по данным из БД
func (m *PaymentMetrics) SetPending(n int64) {
	m.PendingPayments.Set(float64(n))
}
