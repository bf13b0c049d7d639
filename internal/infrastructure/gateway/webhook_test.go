package gateway

import (
	"strings"
	"testing"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhook(t *testing.T) {
	body := []byte(`{"track_id":"9001","status":"Paid","type":"payment","amount":29.99,"order_id":"vip_x"}`)
	sig := Sign(body, "secret")

	payload, err := ParseWebhook(body, sig, "secret")
	require.NoError(t, err)
	assert.Equal(t, FlexInt64(9001), payload.TrackID)
	assert.Equal(t, "Paid", payload.Status)
	assert.Equal(t, "vip_x", payload.OrderID)
}

func TestParseWebhook_BadSignature(t *testing.T) {
	body := []byte(`{"track_id":1,"status":"Paid"}`)

	_, err := ParseWebhook(body, Sign(body, "other"), "secret")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)

	_, err = ParseWebhook(body, "", "secret")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifySignature_CaseInsensitive(t *testing.T) {
	body := []byte(`{}`)
	sig := Sign(body, "k")
	assert.True(t, VerifySignature(body, " "+strings.ToUpper(sig)+" ", "k"))
}

