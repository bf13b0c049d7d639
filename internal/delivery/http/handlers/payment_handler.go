package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-vip-service/internal/delivery/http/middleware"
	paymentdto "github.com/LavaJover/shvark-vip-service/internal/usecase/dto/payment"
	usecase "github.com/LavaJover/shvark-vip-service/internal/usecase/payment"
	"github.com/gin-gonic/gin"
)

type CreatePaymentRequest struct {
	PayCurrency string `json:"payCurrency" binding:"required"`
}

type OkResponse struct {
	Ok bool `json:"ok"`
}

type PaymentHandler struct {
	uc usecase.PaymentUsecase
}

func NewPaymentHandler(uc usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func (h *PaymentHandler) CreateVipPayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "payCurrency is required")
		return
	}

	out, err := h.uc.CreateVipPayment(c.Request.Context(), &paymentdto.CreatePaymentInput{
		UserID:      middleware.UserID(c),
		PayCurrency: req.PayCurrency,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	out, err := h.uc.GetPaymentStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	if err := h.uc.CancelPayment(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, OkResponse{Ok: true})
}

func (h *PaymentHandler) GetRecentPending(c *gin.Context) {
	out, err := h.uc.GetRecentPending(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) GetPaymentConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.uc.GetPaymentConfig(c.Request.Context()))
}
