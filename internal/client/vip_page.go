package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	paymentdto "github.com/LavaJover/shvark-vip-service/internal/usecase/dto/payment"
)

var (
	ErrLoginRequired    = errors.New("login required")
	ErrNoPendingPayment = errors.New("no pending payment to act on")
)

// PaymentAPI is the slice of the payment API the VIP page uses.
type PaymentAPI interface {
	StatusFetcher
	CreateVipPayment(ctx context.Context, payCurrency string) (*paymentdto.CreatePaymentOutput, error)
	CancelPayment(ctx context.Context, paymentID string) error
	GetRecentPending(ctx context.Context) (*paymentdto.RecentPendingOutput, error)
}

// View is what the page renders: Upgrade, or Resume + Cancel.
type View struct {
	ShowUpgrade bool
	ShowResume  bool
	ShowCancel  bool
	Pending     *paymentdto.PaymentSummary
}

// VipPage decides between creating a payment and resuming the pending one.
type VipPage struct {
	api      PaymentAPI
	notifier Notifier
	modal    *PaymentModal

	mu       sync.Mutex
	pending  *paymentdto.PaymentSummary
	testMode bool
}

func NewVipPage(api PaymentAPI, modalCfg ModalConfig) *VipPage {
	modalCfg = modalCfg.withDefaults()
	return &VipPage{
		api:      api,
		notifier: modalCfg.Notifier,
		modal:    NewPaymentModal(api, modalCfg),
	}
}

func (p *VipPage) Modal() *PaymentModal {
	return p.modal
}

// TestMode reports the flag returned by the last successful create.
func (p *VipPage) TestMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.testMode
}

func (p *VipPage) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

func (p *VipPage) viewLocked() View {
	if p.pending == nil {
		return View{ShowUpgrade: true}
	}
	pending := *p.pending
	return View{ShowResume: true, ShowCancel: true, Pending: &pending}
}

func (p *VipPage) setPending(pending *paymentdto.PaymentSummary) View {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = pending
	return p.viewLocked()
}

func (p *VipPage) pendingID() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return "", false
	}
	return p.pending.ID, true
}

// Load asks the API for the caller's pending payment.
func (p *VipPage) Load(ctx context.Context) (View, error) {
	out, err := p.api.GetRecentPending(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return p.View(), ErrLoginRequired
		}
		slog.Warn("failed to load recent pending payment", "error", err.Error())
		return p.View(), err
	}
	return p.setPending(out.Payment), nil
}

// Upgrade creates a payment in payCurrency and opens the modal with it.
func (p *VipPage) Upgrade(ctx context.Context, payCurrency string) (*PaymentModal, error) {
	if _, ok := p.pendingID(); ok {
		return nil, domain.ErrPendingPaymentExists
	}

	out, err := p.api.CreateVipPayment(ctx, payCurrency)
	if err != nil {
		if errors.Is(err, domain.ErrPendingPaymentExists) {
			_, _ = p.Load(ctx)
		}
		return nil, p.fail(err, createFailureMessage(err))
	}

	p.mu.Lock()
	p.pending = &paymentdto.PaymentSummary{ID: out.Payment.ID, Status: domain.StatusPending}
	p.testMode = out.TestMode
	p.mu.Unlock()

	return p.openModal(ctx, out.Payment)
}

// Resume refetches the pending payment's metadata and reopens the modal.
func (p *VipPage) Resume(ctx context.Context) (*PaymentModal, error) {
	paymentID, ok := p.pendingID()
	if !ok {
		return nil, ErrNoPendingPayment
	}

	out, err := p.api.GetPaymentStatus(ctx, paymentID)
	if err != nil {
		if IsStaleReference(err) {
			p.setPending(nil)
			return nil, p.fail(err, "This payment is no longer available. You can start a new one.")
		}
		return nil, p.fail(err, "Failed to load payment")
	}
	if out.Status != domain.StatusPending || out.Metadata == nil {
		p.setPending(nil)
		return nil, p.fail(domain.ErrNotPending, "This payment is no longer pending")
	}

	return p.openModal(ctx, *out.Metadata)
}

// Cancel cancels the pending payment server-side, then re-queries
// recent-pending so the view reflects the freed slot.
func (p *VipPage) Cancel(ctx context.Context) (View, error) {
	paymentID, ok := p.pendingID()
	if !ok {
		return p.View(), ErrNoPendingPayment
	}

	p.modal.Close()

	if err := p.api.CancelPayment(ctx, paymentID); err != nil {
		if IsStaleReference(err) {
			p.setPending(nil)
		}
		return p.View(), p.fail(err, "Failed to cancel payment")
	}
	p.notifier.Success("Payment cancelled")

	return p.Load(ctx)
}

func (p *VipPage) openModal(ctx context.Context, intent domain.PaymentIntent) (*PaymentModal, error) {
	p.modal.Close()
	<-p.modal.Done()
	if err := p.modal.Open(ctx, intent); err != nil {
		return nil, err
	}
	return p.modal, nil
}

func (p *VipPage) fail(err error, message string) error {
	if errors.Is(err, domain.ErrUnauthenticated) {
		p.notifier.Error("Please log in to continue")
		return ErrLoginRequired
	}
	p.notifier.Error(message)
	return err
}

func createFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyVip):
		return "You already have VIP"
	case errors.Is(err, domain.ErrPendingPaymentExists):
		return "You already have a pending payment"
	case errors.Is(err, domain.ErrUnsupportedCurrency):
		return "This currency is not supported"
	default:
		return "Failed to create payment. Please try again"
	}
}
