package setup

import (
	"github.com/LavaJover/shvark-vip-service/internal/delivery/ws"
	usecase "github.com/LavaJover/shvark-vip-service/internal/usecase/payment"
)

type UseCases struct {
	PaymentUsecase *usecase.DefaultPaymentUsecase
	Hub            *ws.Hub
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	hub := ws.NewHub()

	var eventPublisher usecase.EventPublisher
	if deps.Publisher != nil {
		eventPublisher = deps.Publisher
	}

	paymentUsecase, err := usecase.NewDefaultPaymentUsecase(
		deps.Repositories.PaymentRepo,
		deps.Repositories.UserRepo,
		deps.Repositories.EventLogger,
		deps.Gateway,
		eventPublisher,
		deps.Notifier,
		hub,
		deps.Metrics,
		deps.Config.Payment,
		deps.Config.Gateway.Sandbox,
	)
	if err != nil {
		return nil, err
	}

	return &UseCases{
		PaymentUsecase: paymentUsecase,
		Hub:            hub,
	}, nil
}
