package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	paymentdto "github.com/LavaJover/shvark-vip-service/internal/usecase/dto/payment"
)

type ModalState string

const (
	StateWaiting  ModalState = "waiting"
	StateChecking ModalState = "checking"
	StatePaid     ModalState = "paid"
	StateExpired  ModalState = "expired"
)

// IsTerminal reports paid or expired. Both are sticky.
func (s ModalState) IsTerminal() bool {
	return s == StatePaid || s == StateExpired
}

var ErrModalOpen = errors.New("payment modal is already open")

// StatusFetcher is the one API call the modal polls.
type StatusFetcher interface {
	GetPaymentStatus(ctx context.Context, paymentID string) (*paymentdto.PaymentStatusOutput, error)
}

type ModalConfig struct {
	CountdownInterval time.Duration
	PollInterval      time.Duration
	ReloadDelay       time.Duration

	Now       func() time.Time
	Notifier  Notifier
	Clipboard Clipboard

	// OnPaid runs once when the payment is confirmed.
	OnPaid func(intent domain.PaymentIntent)

	// Reload runs ReloadDelay after confirmation so VIP-gated views refresh.
	Reload func()
}

func (c ModalConfig) withDefaults() ModalConfig {
	if c.CountdownInterval <= 0 {
		c.CountdownInterval = time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 10 * time.Second
	}
	if c.ReloadDelay <= 0 {
		c.ReloadDelay = 2 * time.Second
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Notifier == nil {
		c.Notifier = LogNotifier{}
	}
	return c
}

// PaymentModal renders one payment intent: a countdown derived from the
// absolute expiry and a status poll running on its own cadence.
type PaymentModal struct {
	api StatusFetcher
	cfg ModalConfig

	mu        sync.Mutex
	intent    domain.PaymentIntent
	state     ModalState
	remaining time.Duration
	inFlight  bool
	open      bool
	stop      context.CancelFunc
	done      chan struct{}
}

func NewPaymentModal(api StatusFetcher, cfg ModalConfig) *PaymentModal {
	done := make(chan struct{})
	close(done)
	return &PaymentModal{
		api:  api,
		cfg:  cfg.withDefaults(),
		done: done,
	}
}

// Open shows the intent and starts both timers. The first countdown tick
// and the first poll run immediately.
func (m *PaymentModal) Open(ctx context.Context, intent domain.PaymentIntent) error {
	m.mu.Lock()
	if m.open {
		m.mu.Unlock()
		return ErrModalOpen
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.intent = intent
	m.state = StateWaiting
	m.inFlight = false
	m.open = true
	m.stop = cancel
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	m.tickCountdown(m.cfg.Now())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.runCountdown(runCtx)
	}()
	go func() {
		defer wg.Done()
		m.runPolling(runCtx)
	}()
	go func() {
		wg.Wait()
		cancel()
		close(done)
	}()

	slog.Debug("payment modal opened", "payment_id", intent.ID, "expired_at", intent.ExpiredAt)
	return nil
}

// Close stops both timers. The payment itself stays PENDING server-side.
func (m *PaymentModal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *PaymentModal) stopLocked() {
	if m.stop != nil {
		m.stop()
	}
	m.open = false
}

// Done is closed once both timers have stopped.
func (m *PaymentModal) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

func (m *PaymentModal) State() ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *PaymentModal) Remaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remaining
}

func (m *PaymentModal) Intent() domain.PaymentIntent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.intent
}

// CheckNow runs a poll outside the regular cadence.
func (m *PaymentModal) CheckNow(ctx context.Context) ModalState {
	m.poll(ctx)
	return m.State()
}

func (m *PaymentModal) CopyAddress() {
	m.copyText(m.Intent().Address, "Address copied")
}

func (m *PaymentModal) CopyAmount() {
	m.copyText(m.Intent().PayAmount.String(), "Amount copied")
}

func (m *PaymentModal) copyText(text, okMessage string) {
	if m.cfg.Clipboard == nil {
		m.cfg.Notifier.Error("Clipboard is not available")
		return
	}
	if err := m.cfg.Clipboard.WriteText(text); err != nil {
		slog.Warn("clipboard write failed", "error", err.Error())
		m.cfg.Notifier.Error("Failed to copy to clipboard")
		return
	}
	m.cfg.Notifier.Success(okMessage)
}

func (m *PaymentModal) runCountdown(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.CountdownInterval)
	defer ticker.Stop()

	for {
		if m.State().IsTerminal() {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tickCountdown(m.cfg.Now())
		}
	}
}

func (m *PaymentModal) runPolling(ctx context.Context) {
	m.poll(ctx)

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if m.State().IsTerminal() {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

// tickCountdown recomputes the remaining time from the absolute expiry.
// remaining <= 0 means expired.
func (m *PaymentModal) tickCountdown(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.IsTerminal() {
		return
	}
	m.remaining = m.intent.Remaining(now)
	if m.remaining > 0 {
		return
	}
	m.remaining = 0
	m.state = StateExpired
	if m.stop != nil {
		m.stop()
	}
	slog.Info("payment modal expired", "payment_id", m.intent.ID)
}

func (m *PaymentModal) poll(ctx context.Context) {
	m.mu.Lock()
	if m.state.IsTerminal() || m.inFlight {
		m.mu.Unlock()
		return
	}
	m.inFlight = true
	m.state = StateChecking
	paymentID := m.intent.ID
	m.mu.Unlock()

	out, err := m.api.GetPaymentStatus(ctx, paymentID)

	m.mu.Lock()
	m.inFlight = false
	if m.state.IsTerminal() {
		m.mu.Unlock()
		return
	}
	if err != nil {
		m.state = StateWaiting
		m.mu.Unlock()
		slog.Warn("payment status poll failed", "payment_id", paymentID, "error", err.Error())
		return
	}
	if out.Status != domain.StatusCompleted {
		m.state = StateWaiting
		m.mu.Unlock()
		return
	}
	m.state = StatePaid
	if m.stop != nil {
		m.stop()
	}
	intent := m.intent
	m.mu.Unlock()

	m.onPaid(intent)
}

func (m *PaymentModal) onPaid(intent domain.PaymentIntent) {
	slog.Info("payment confirmed", "payment_id", intent.ID)
	m.cfg.Notifier.Success("Payment confirmed! VIP is now active")
	if m.cfg.OnPaid != nil {
		m.cfg.OnPaid(intent)
	}
	if m.cfg.Reload != nil {
		time.AfterFunc(m.cfg.ReloadDelay, m.cfg.Reload)
	}
}
