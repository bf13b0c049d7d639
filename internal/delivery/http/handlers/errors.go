package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrPaymentNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrUserNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrAlreadyVip, http.StatusConflict, "already_vip"},
	{domain.ErrPendingPaymentExists, http.StatusConflict, "pending_payment_exists"},
	{domain.ErrNotPending, http.StatusConflict, "not_pending"},
	{domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{domain.ErrUnsupportedCurrency, http.StatusBadRequest, "unsupported_currency"},
	{domain.ErrInvalidSignature, http.StatusBadRequest, "invalid_signature"},
	{domain.ErrGatewayUnavailable, http.StatusBadGateway, "gateway_unavailable"},
}

// ErrorStatus maps a domain error to its HTTP status and code.
func ErrorStatus(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

func writeError(c *gin.Context, err error) {
	status, code := ErrorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "error", message)
		message = "internal error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: message})
}
