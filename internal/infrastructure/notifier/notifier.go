package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type EntitlementNotifier struct {
	callbackURL string
	client      *http.Client
}

func NewEntitlementNotifier(callbackURL string, timeout time.Duration) *EntitlementNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &EntitlementNotifier{
		callbackURL: callbackURL,
		client:      &http.Client{Timeout: timeout},
	}
}

// SendCallback fires the callback in the background. An empty URL disables it.
func (n *EntitlementNotifier) SendCallback(payload CallbackPayload) {
	if n == nil || n.callbackURL == "" {
		return
	}
	go func() {
		if err := n.Send(context.Background(), payload); err != nil {
			slog.Error("entitlement callback failed",
				"payment_id", payload.PaymentID,
				"url", n.callbackURL,
				"error", err,
			)
			return
		}
		slog.Info("entitlement callback sent", "payment_id", payload.PaymentID, "url", n.callbackURL)
	}()
}

func (n *EntitlementNotifier) Send(ctx context.Context, payload CallbackPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}
	return nil
}
