package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
)

// Sign returns the hex HMAC-SHA512 of body keyed by the merchant key.
func Sign(body []byte, merchantKey string) string {
	mac := hmac.New(sha512.New, []byte(merchantKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(body []byte, signature, merchantKey string) bool {
	if signature == "" || merchantKey == "" {
		return false
	}
	expected := Sign(body, merchantKey)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// ParseWebhook checks the HMAC header and decodes the payload.
func ParseWebhook(body []byte, signature, merchantKey string) (*WebhookPayload, error) {
	if !VerifySignature(body, signature, merchantKey) {
		return nil, domain.ErrInvalidSignature
	}
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse webhook: %w", err)
	}
	return &payload, nil
}
