package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/config"
	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/metrics"
)

const (
	opCreate     = "create"
	opStatus     = "status"
	opCurrencies = "currencies"
)

type OxaPayClient struct {
	baseURL     string
	merchantKey string
	lifetime    time.Duration
	callbackURL string
	client      *http.Client
	metrics     *metrics.PaymentMetrics
}

func NewOxaPayClient(cfg config.Gateway, m *metrics.PaymentMetrics) *OxaPayClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OxaPayClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		merchantKey: cfg.MerchantKey,
		lifetime:    cfg.Lifetime,
		callbackURL: cfg.CallbackURL,
		client:      &http.Client{Timeout: timeout},
		metrics:     m,
	}
}

func (c *OxaPayClient) CreateIntent(ctx context.Context, req *domain.CreateIntentRequest) (*domain.PaymentIntent, error) {
	lifetime := int(c.lifetime / time.Minute)
	if lifetime <= 0 {
		lifetime = 60
	}
	body := whiteLabelRequest{
		Amount:      req.AmountUSD,
		Currency:    "USD",
		PayCurrency: strings.ToUpper(req.PayCurrency),
		Lifetime:    lifetime,
		CallbackURL: c.callbackURL,
		OrderID:     req.OrderID,
		Description: req.Description,
		Sandbox:     req.Sandbox,
	}

	var data whiteLabelData
	if err := c.do(ctx, opCreate, http.MethodPost, "/v1/payment/white-label", body, &data); err != nil {
		return nil, err
	}
	if data.TrackID == 0 || data.Address == "" {
		return nil, fmt.Errorf("%w: incomplete white-label response", domain.ErrGatewayUnavailable)
	}

	intent := &domain.PaymentIntent{
		ID:          req.PaymentID,
		TrackID:     int64(data.TrackID),
		Address:     data.Address,
		PayAmount:   data.PayAmount,
		PayCurrency: data.PayCurrency,
		Network:     data.Network,
		QRCode:      data.QRCode,
		ExpiredAt:   int64(data.ExpiredAt),
		Rate:        data.Rate,
	}
	if intent.PayCurrency == "" {
		intent.PayCurrency = body.PayCurrency
	}
	if intent.ExpiredAt == 0 {
		intent.ExpiredAt = time.Now().Add(time.Duration(lifetime) * time.Minute).Unix()
	}
	if intent.QRCode == "" {
		qr, err := QRCodeDataURI(intent.Address)
		if err == nil {
			intent.QRCode = qr
		}
	}
	return intent, nil
}

func (c *OxaPayClient) GetStatus(ctx context.Context, trackID int64) (*domain.GatewayStatus, error) {
	var data paymentInfoData
	path := "/v1/payment/" + strconv.FormatInt(trackID, 10)
	if err := c.do(ctx, opStatus, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return &domain.GatewayStatus{
		TrackID: trackID,
		Status:  MapStatus(data.Status),
		Raw:     data.Status,
	}, nil
}

func (c *OxaPayClient) AcceptedCurrencies(ctx context.Context) ([]string, error) {
	var data acceptedCurrenciesData
	if err := c.do(ctx, opCurrencies, http.MethodGet, "/v1/payment/accepted-currencies", nil, &data); err != nil {
		return nil, err
	}
	currencies := make([]string, 0, len(data.List))
	for _, cur := range data.List {
		currencies = append(currencies, strings.ToUpper(cur))
	}
	return currencies, nil
}

// MapStatus folds processor statuses into ours. Unknown values stay PENDING.
func MapStatus(raw string) domain.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "paid", "manual_accept":
		return domain.StatusCompleted
	case "refunded":
		return domain.StatusRefunded
	case "expired":
		return domain.StatusFailed
	default:
		return domain.StatusPending
	}
}

func (c *OxaPayClient) do(ctx context.Context, op, method, path string, in, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordGatewayRequest(op, time.Since(start).Seconds(), err != nil)
		}
	}()

	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("merchant_api_key", c.merchantKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", domain.ErrGatewayUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: status %d: failed to parse response: %v", domain.ErrGatewayUnavailable, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || (env.Status != 0 && env.Status != http.StatusOK) {
		msg := env.Error.Message
		if msg == "" {
			msg = env.Message
		}
		return fmt.Errorf("%w: status %d: %s", domain.ErrGatewayUnavailable, resp.StatusCode, msg)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: failed to parse data: %v", domain.ErrGatewayUnavailable, err)
		}
	}
	return nil
}
