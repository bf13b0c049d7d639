package router

import (
	"github.com/LavaJover/shvark-vip-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-vip-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-vip-service/internal/delivery/ws"
	usecase "github.com/LavaJover/shvark-vip-service/internal/usecase/payment"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	JWTSecret   string
	JWTIssuer   string
	MerchantKey string
	Gatherer    prometheus.Gatherer
	DBPing      handlers.Pinger
}

func NewRouter(uc usecase.PaymentUsecase, hub *ws.Hub, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	health := handlers.NewHealthHandler(opts.DBPing)
	r.GET("/health", health.Health)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	paymentHandler := handlers.NewPaymentHandler(uc)
	webhookHandler := handlers.NewWebhookHandler(uc, opts.MerchantKey)

	api := r.Group("/api/v1/payments")
	api.GET("/config", paymentHandler.GetPaymentConfig)
	api.POST("/webhook", webhookHandler.HandleGatewayWebhook)

	authed := api.Group("", middleware.JWTAuth(opts.JWTSecret, opts.JWTIssuer))
	authed.POST("/vip", paymentHandler.CreateVipPayment)
	authed.GET("/recent-pending", paymentHandler.GetRecentPending)
	if hub != nil {
		authed.GET("/ws", handlers.NewWebSocketHandler(hub).HandleConnection)
	}
	authed.GET("/:id", paymentHandler.GetPaymentStatus)
	authed.POST("/:id/cancel", paymentHandler.CancelPayment)

	return r
}
