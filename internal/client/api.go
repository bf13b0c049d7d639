package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	paymentdto "github.com/LavaJover/shvark-vip-service/internal/usecase/dto/payment"
)

const paymentsPath = "/api/v1/payments"

// APIError carries the {error, message} body returned by the payment API.
// It unwraps to the matching domain error when the code is known.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	err        error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("payment api: %s (status %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("payment api: %s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.err
}

var errorCodes = map[string]error{
	"unauthenticated":        domain.ErrUnauthenticated,
	"forbidden":              domain.ErrForbidden,
	"not_found":              domain.ErrPaymentNotFound,
	"already_vip":            domain.ErrAlreadyVip,
	"pending_payment_exists": domain.ErrPendingPaymentExists,
	"not_pending":            domain.ErrNotPending,
	"invalid_transition":     domain.ErrInvalidTransition,
	"unsupported_currency":   domain.ErrUnsupportedCurrency,
	"invalid_signature":      domain.ErrInvalidSignature,
	"gateway_unavailable":    domain.ErrGatewayUnavailable,
}

var statusErrors = map[int]error{
	http.StatusUnauthorized: domain.ErrUnauthenticated,
	http.StatusForbidden:    domain.ErrForbidden,
	http.StatusNotFound:     domain.ErrPaymentNotFound,
	http.StatusBadGateway:   domain.ErrGatewayUnavailable,
}

// APIClient talks to the payment HTTP API on behalf of one user.
type APIClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewAPIClient(baseURL, token string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *APIClient) Config(ctx context.Context) (*paymentdto.PaymentConfigOutput, error) {
	var out paymentdto.PaymentConfigOutput
	if err := c.do(ctx, http.MethodGet, paymentsPath+"/config", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) CreateVipPayment(ctx context.Context, payCurrency string) (*paymentdto.CreatePaymentOutput, error) {
	body := map[string]string{"payCurrency": payCurrency}
	var out paymentdto.CreatePaymentOutput
	if err := c.do(ctx, http.MethodPost, paymentsPath+"/vip", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) GetPaymentStatus(ctx context.Context, paymentID string) (*paymentdto.PaymentStatusOutput, error) {
	var out paymentdto.PaymentStatusOutput
	if err := c.do(ctx, http.MethodGet, paymentsPath+"/"+url.PathEscape(paymentID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) CancelPayment(ctx context.Context, paymentID string) error {
	var out struct {
		Ok bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodPost, paymentsPath+"/"+url.PathEscape(paymentID)+"/cancel", nil, &out); err != nil {
		return err
	}
	if !out.Ok {
		return fmt.Errorf("payment api: cancel was not acknowledged")
	}
	return nil
}

func (c *APIClient) GetRecentPending(ctx context.Context) (*paymentdto.RecentPendingOutput, error) {
	var out paymentdto.RecentPendingOutput
	if err := c.do(ctx, http.MethodGet, paymentsPath+"/recent-pending", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("payment api request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(statusCode int, raw []byte) error {
	apiErr := &APIError{StatusCode: statusCode}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Code, apiErr.Message = body.Error, body.Message
	}
	if apiErr.Code == "" {
		apiErr.Code = strings.ToLower(strings.ReplaceAll(http.StatusText(statusCode), " ", "_"))
	}

	if known, ok := errorCodes[apiErr.Code]; ok {
		apiErr.err = known
	} else if known, ok := statusErrors[statusCode]; ok {
		apiErr.err = known
	}
	return apiErr
}

// IsStaleReference reports errors after which a locally remembered
// payment id should be dropped.
func IsStaleReference(err error) bool {
	return errors.Is(err, domain.ErrPaymentNotFound) || errors.Is(err, domain.ErrForbidden)
}
