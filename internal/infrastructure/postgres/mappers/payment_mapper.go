package mappers

import (
	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/postgres/models"
)

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:            model.ID,
		UserID:        model.UserID,
		Purpose:       model.Purpose,
		Status:        model.Status,
		AmountUSD:     model.AmountUSD,
		TestMode:      model.TestMode,
		OrderID:       model.OrderID,
		TrackID:       model.TrackID,
		Address:       model.Address,
		PayAmount:     model.PayAmount,
		PayCurrency:   model.PayCurrency,
		Network:       model.Network,
		QRCode:        model.QRCode,
		Rate:          model.Rate,
		ExpiresAt:     model.ExpiresAt,
		FailureReason: model.FailureReason,
		PaidAt:        model.PaidAt,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:            payment.ID,
		UserID:        payment.UserID,
		Purpose:       payment.Purpose,
		Status:        payment.Status,
		AmountUSD:     payment.AmountUSD,
		TestMode:      payment.TestMode,
		OrderID:       payment.OrderID,
		TrackID:       payment.TrackID,
		Address:       payment.Address,
		PayAmount:     payment.PayAmount,
		PayCurrency:   payment.PayCurrency,
		Network:       payment.Network,
		QRCode:        payment.QRCode,
		Rate:          payment.Rate,
		ExpiresAt:     payment.ExpiresAt,
		FailureReason: payment.FailureReason,
		PaidAt:        payment.PaidAt,
		CreatedAt:     payment.CreatedAt,
		UpdatedAt:     payment.UpdatedAt,
	}
}

func ToDomainUser(model *models.UserModel) *domain.User {
	return &domain.User{
		ID:       model.ID,
		IsVip:    model.IsVip,
		VipSince: model.VipSince,
	}
}
