package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	paymentdto "github.com/LavaJover/shvark-vip-service/internal/usecase/dto/payment"
	"github.com/shopspring/decimal"
)

var baseTime = time.Unix(1_700_000_000, 0)

func testIntent(id string, expiresIn time.Duration) domain.PaymentIntent {
	return domain.PaymentIntent{
		ID:          id,
		TrackID:     42,
		Address:     "TXaddr1",
		PayAmount:   decimal.RequireFromString("29.99"),
		PayCurrency: "USDT",
		Network:     "TRC20",
		ExpiredAt:   baseTime.Add(expiresIn).Unix(),
		Rate:        decimal.NewFromInt(1),
	}
}

type fakeAPI struct {
	mu       sync.Mutex
	status   domain.PaymentStatus
	pollErr  error
	metadata *domain.PaymentIntent
	pending  *paymentdto.PaymentSummary

	createErr  error
	cancelErr  error
	pendingErr error
	statusErr  error

	polls   atomic.Int32
	creates atomic.Int32
	cancels atomic.Int32
}

func (f *fakeAPI) setStatus(s domain.PaymentStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = s
}

func (f *fakeAPI) GetPaymentStatus(ctx context.Context, paymentID string) (*paymentdto.PaymentStatusOutput, error) {
	f.polls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	status := f.status
	if status == "" {
		status = domain.StatusPending
	}
	out := &paymentdto.PaymentStatusOutput{ID: paymentID, Status: status}
	if status == domain.StatusPending {
		out.Metadata = f.metadata
	}
	return out, nil
}

func (f *fakeAPI) CreateVipPayment(ctx context.Context, payCurrency string) (*paymentdto.CreatePaymentOutput, error) {
	f.creates.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	intent := testIntent("pay-new", 30*time.Minute)
	intent.PayCurrency = payCurrency
	f.pending = &paymentdto.PaymentSummary{ID: intent.ID, Status: domain.StatusPending}
	return &paymentdto.CreatePaymentOutput{Payment: intent, TestMode: true}, nil
}

func (f *fakeAPI) CancelPayment(ctx context.Context, paymentID string) error {
	f.cancels.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.pending = nil
	return nil
}

func (f *fakeAPI) GetRecentPending(ctx context.Context) (*paymentdto.RecentPendingOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	return &paymentdto.RecentPendingOutput{Payment: f.pending}, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes), len(n.errors)
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

var errFlaky = errors.New("connection reset")

// slowConfig keeps the background timers out of the way so tests drive
// ticks and polls directly.
func slowConfig(n Notifier) ModalConfig {
	return ModalConfig{
		CountdownInterval: time.Hour,
		PollInterval:      time.Hour,
		ReloadDelay:       time.Millisecond,
		Now:               func() time.Time { return baseTime },
		Notifier:          n,
	}
}
