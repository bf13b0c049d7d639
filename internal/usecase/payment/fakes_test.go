package usecase

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	publisher "github.com/LavaJover/shvark-vip-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/notifier"
	"github.com/shopspring/decimal"
)

// memoryPaymentRepo emulates the partial unique index on pending payments.
type memoryPaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*domain.Payment
	vip      map[string]time.Time
	changes  []domain.StatusChange
}

func newMemoryPaymentRepo() *memoryPaymentRepo {
	return &memoryPaymentRepo{
		payments: make(map[string]*domain.Payment),
		vip:      make(map[string]time.Time),
	}
}

func (r *memoryPaymentRepo) ReservePending(ctx context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.UserID == payment.UserID && p.Status == domain.StatusPending {
			return domain.ErrPendingPaymentExists
		}
	}
	cp := *payment
	cp.Status = domain.StatusPending
	r.payments[cp.ID] = &cp
	return nil
}

func (r *memoryPaymentRepo) AttachIntent(ctx context.Context, paymentID string, intent *domain.PaymentIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[paymentID]
	if !ok || p.Status != domain.StatusPending {
		return domain.ErrInvalidTransition
	}
	p.AttachIntent(intent)
	return nil
}

func (r *memoryPaymentRepo) DeleteReservation(ctx context.Context, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.payments[paymentID]; ok && p.Status == domain.StatusPending && p.TrackID == 0 {
		delete(r.payments, paymentID)
	}
	return nil
}

func (r *memoryPaymentRepo) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[paymentID]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryPaymentRepo) GetPaymentByTrackID(ctx context.Context, trackID int64) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.TrackID == trackID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *memoryPaymentRepo) FindPendingByUserID(ctx context.Context, userID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.UserID == userID && p.Status == domain.StatusPending {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *memoryPaymentRepo) FindStalePending(ctx context.Context, before time.Time, limit int) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, p := range r.payments {
		if p.Status == domain.StatusPending && !p.ExpiresAt.After(before) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryPaymentRepo) ListPayments(ctx context.Context, filter domain.PaymentFilter, page, limit int) ([]*domain.Payment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, p := range r.payments {
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	total := int64(len(out))
	start := (page - 1) * limit
	if start >= len(out) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *memoryPaymentRepo) ChangeStatus(ctx context.Context, change domain.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applyLocked(change)
}

func (r *memoryPaymentRepo) CompletePayment(ctx context.Context, change domain.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	change.To = domain.StatusCompleted
	if err := r.applyLocked(change); err != nil {
		return err
	}
	p := r.payments[change.PaymentID]
	if _, ok := r.vip[p.UserID]; !ok {
		r.vip[p.UserID] = change.At
	}
	return nil
}

func (r *memoryPaymentRepo) applyLocked(change domain.StatusChange) error {
	p, ok := r.payments[change.PaymentID]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	if p.Status != change.From || !change.From.CanTransition(change.To) {
		return domain.ErrInvalidTransition
	}
	p.Status = change.To
	p.FailureReason = change.Reason
	p.UpdatedAt = change.At
	if change.To == domain.StatusCompleted {
		at := change.At
		p.PaidAt = &at
	}
	r.changes = append(r.changes, change)
	return nil
}

func (r *memoryPaymentRepo) pendingCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.payments {
		if p.UserID == userID && p.Status == domain.StatusPending {
			n++
		}
	}
	return n
}

func (r *memoryPaymentRepo) transitionsFor(paymentID string) []domain.StatusChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.StatusChange
	for _, c := range r.changes {
		if c.PaymentID == paymentID {
			out = append(out, c)
		}
	}
	return out
}

// GetUserByID reads VIP state from completed payments, like the vip_users upsert.
func (r *memoryPaymentRepo) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	since, ok := r.vip[userID]
	if !ok {
		return &domain.User{ID: userID}, nil
	}
	return &domain.User{ID: userID, IsVip: true, VipSince: &since}, nil
}

type fakeGateway struct {
	mu          sync.Mutex
	createCalls atomic.Int32
	statusCalls atomic.Int32
	nextTrackID int64
	statuses    map[int64]domain.PaymentStatus
	createErr   error
	statusErr   error
	currencies  []string
	currencyErr error
	lifetime    time.Duration
	now         func() time.Time
	createDelay time.Duration
}

func newFakeGateway(now func() time.Time) *fakeGateway {
	return &fakeGateway{
		nextTrackID: 1000,
		statuses:    make(map[int64]domain.PaymentStatus),
		currencies:  []string{"USDT", "BTC", "ETH", "LTC", "TRX"},
		lifetime:    30 * time.Minute,
		now:         now,
	}
}

func (g *fakeGateway) CreateIntent(ctx context.Context, req *domain.CreateIntentRequest) (*domain.PaymentIntent, error) {
	g.createCalls.Add(1)
	if g.createDelay > 0 {
		time.Sleep(g.createDelay)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.nextTrackID++
	g.statuses[g.nextTrackID] = domain.StatusPending
	return &domain.PaymentIntent{
		TrackID:     g.nextTrackID,
		Address:     "TXaddress",
		PayAmount:   req.AmountUSD,
		PayCurrency: req.PayCurrency,
		Network:     "TRC20",
		QRCode:      "qr",
		ExpiredAt:   g.now().Add(g.lifetime).Unix(),
		Rate:        decimal.NewFromInt(1),
	}, nil
}

func (g *fakeGateway) GetStatus(ctx context.Context, trackID int64) (*domain.GatewayStatus, error) {
	g.statusCalls.Add(1)
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	st, ok := g.statuses[trackID]
	if !ok {
		st = domain.StatusPending
	}
	return &domain.GatewayStatus{TrackID: trackID, Status: st}, nil
}

func (g *fakeGateway) AcceptedCurrencies(ctx context.Context) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currencyErr != nil {
		return nil, g.currencyErr
	}
	return g.currencies, nil
}

func (g *fakeGateway) setStatus(trackID int64, st domain.PaymentStatus) {
	g.mu.Lock()
	g.statuses[trackID] = st
	g.mu.Unlock()
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publisher.PaymentEvent
}

func (p *fakePublisher) PublishPayment(event publisher.PaymentEvent) error {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeNotifier struct {
	mu       sync.Mutex
	payloads []notifier.CallbackPayload
}

func (n *fakeNotifier) SendCallback(payload notifier.CallbackPayload) {
	n.mu.Lock()
	n.payloads = append(n.payloads, payload)
	n.mu.Unlock()
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.payloads)
}

type fakeBroadcaster struct {
	mu      sync.Mutex
	updates []domain.StatusUpdate
}

func (b *fakeBroadcaster) BroadcastStatus(update domain.StatusUpdate) {
	b.mu.Lock()
	b.updates = append(b.updates, update)
	b.mu.Unlock()
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
