package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntitlementNotifier_Send(t *testing.T) {
	var got CallbackPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewEntitlementNotifier(srv.URL, time.Second)
	err := n.Send(context.Background(), CallbackPayload{
		PaymentID: "p-1",
		UserID:    "u-1",
		Status:    "COMPLETED",
		AmountUSD: "29.99",
	})
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.PaymentID)
	assert.Equal(t, "29.99", got.AmountUSD)
}

func TestEntitlementNotifier_SendNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewEntitlementNotifier(srv.URL, time.Second)
	err := n.Send(context.Background(), CallbackPayload{PaymentID: "p-1"})
	assert.ErrorContains(t, err, "502")
}

func TestEntitlementNotifier_DisabledWithoutURL(t *testing.T) {
	var n *EntitlementNotifier
	assert.NotPanics(t, func() { n.SendCallback(CallbackPayload{}) })

	n = NewEntitlementNotifier("", 0)
	assert.NotPanics(t, func() { n.SendCallback(CallbackPayload{}) })
}
