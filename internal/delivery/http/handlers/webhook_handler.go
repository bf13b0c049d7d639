package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/gateway"
	usecase "github.com/LavaJover/shvark-vip-service/internal/usecase/payment"
	"github.com/gin-gonic/gin"
)

const (
	signatureHeader = "HMAC"
	maxWebhookBody  = 64 << 10
)

type WebhookHandler struct {
	uc          usecase.PaymentUsecase
	merchantKey string
}

func NewWebhookHandler(uc usecase.PaymentUsecase, merchantKey string) *WebhookHandler {
	return &WebhookHandler{uc: uc, merchantKey: merchantKey}
}

// HandleGatewayWebhook answers "ok" once the update is stored or known to
// be irrelevant; any other answer makes the gateway retry.
func (h *WebhookHandler) HandleGatewayWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		badRequest(c, "failed to read body")
		return
	}

	payload, err := gateway.ParseWebhook(body, c.GetHeader(signatureHeader), h.merchantKey)
	if err != nil {
		slog.Warn("rejected gateway webhook", "error", err.Error())
		writeError(c, err)
		return
	}

	if strings.EqualFold(payload.Type, "payout") {
		c.String(http.StatusOK, "ok")
		return
	}

	err = h.uc.HandleGatewayNotification(c.Request.Context(), int64(payload.TrackID), gateway.MapStatus(payload.Status))
	if errors.Is(err, domain.ErrPaymentNotFound) {
		slog.Warn("webhook for unknown payment", "track_id", int64(payload.TrackID), "order_id", payload.OrderID)
		c.String(http.StatusOK, "ok")
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("gateway webhook processed", "track_id", int64(payload.TrackID), "status", payload.Status)
	c.String(http.StatusOK, "ok")
}
