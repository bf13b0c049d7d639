package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/postgres/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

type DefaultPaymentRepository struct {
	DB     *gorm.DB
	Events *logger.PGPaymentEventLogger
}

func NewDefaultPaymentRepository(db *gorm.DB, events *logger.PGPaymentEventLogger) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{DB: db, Events: events}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *DefaultPaymentRepository) ReservePending(ctx context.Context, payment *domain.Payment) error {
	paymentModel := mappers.ToGORMPayment(payment)
	paymentModel.Status = domain.StatusPending

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(paymentModel).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrPendingPaymentExists
			}
			return fmt.Errorf("failed to reserve payment: %w", err)
		}
		return r.Events.WithTx(tx).LogTransition(ctx, logger.PaymentTransitionEvent{
			PaymentID: paymentModel.ID,
			UserID:    paymentModel.UserID,
			ToStatus:  domain.StatusPending,
			Source:    domain.SourceCreate,
			Timestamp: paymentModel.CreatedAt,
		})
	})
}

func (r *DefaultPaymentRepository) AttachIntent(ctx context.Context, paymentID string, intent *domain.PaymentIntent) error {
	result := r.DB.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ? AND status = ?", paymentID, domain.StatusPending).
		Updates(map[string]interface{}{
			"track_id":     intent.TrackID,
			"address":      intent.Address,
			"pay_amount":   intent.PayAmount,
			"pay_currency": intent.PayCurrency,
			"network":      intent.Network,
			"qr_code":      intent.QRCode,
			"rate":         intent.Rate,
			"expires_at":   time.Unix(intent.ExpiredAt, 0),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to attach intent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *DefaultPaymentRepository) DeleteReservation(ctx context.Context, paymentID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payment_id = ?", paymentID).Delete(&logger.PaymentTransitionEvent{}).Error; err != nil {
			return err
		}
		return tx.
			Where("id = ? AND status = ? AND track_id = 0", paymentID, domain.StatusPending).
			Delete(&models.PaymentModel{}).Error
	})
}

func (r *DefaultPaymentRepository) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var payment models.PaymentModel
	if err := r.DB.WithContext(ctx).First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return mappers.ToDomainPayment(&payment), nil
}

func (r *DefaultPaymentRepository) GetPaymentByTrackID(ctx context.Context, trackID int64) (*domain.Payment, error) {
	var payment models.PaymentModel
	if err := r.DB.WithContext(ctx).First(&payment, "track_id = ?", trackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return mappers.ToDomainPayment(&payment), nil
}

func (r *DefaultPaymentRepository) FindPendingByUserID(ctx context.Context, userID string) (*domain.Payment, error) {
	var payment models.PaymentModel
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, domain.StatusPending).
		Order("created_at DESC").
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return mappers.ToDomainPayment(&payment), nil
}

func (r *DefaultPaymentRepository) FindStalePending(ctx context.Context, before time.Time, limit int) ([]*domain.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := r.DB.WithContext(ctx).
		Where("status = ?", domain.StatusPending).
		Where("expires_at <= ?", before).
		Order("expires_at ASC").
		Limit(limit).
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]*domain.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = mappers.ToDomainPayment(&paymentModels[i])
	}
	return payments, nil
}

func (r *DefaultPaymentRepository) ListPayments(ctx context.Context, filter domain.PaymentFilter, page, limit int) ([]*domain.Payment, int64, error) {
	query := r.DB.WithContext(ctx).Model(&models.PaymentModel{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var paymentModels []models.PaymentModel
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&paymentModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find payments: %w", err)
	}

	payments := make([]*domain.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = mappers.ToDomainPayment(&paymentModels[i])
	}
	return payments, total, nil
}

func (r *DefaultPaymentRepository) ChangeStatus(ctx context.Context, change domain.StatusChange) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := r.applyStatusChange(ctx, tx, change, nil)
		return err
	})
}

func (r *DefaultPaymentRepository) CompletePayment(ctx context.Context, change domain.StatusChange) error {
	change.To = domain.StatusCompleted
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paidAt := change.At
		payment, err := r.applyStatusChange(ctx, tx, change, &paidAt)
		if err != nil {
			return err
		}

		user := models.UserModel{ID: payment.UserID, IsVip: true, VipSince: &paidAt}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"is_vip":     true,
				"vip_since":  gorm.Expr("COALESCE(vip_users.vip_since, ?)", paidAt),
				"updated_at": paidAt,
			}),
		}).Create(&user).Error
	})
}

// applyStatusChange locks the row, checks the expected status and writes
// the audit event. Must run inside a transaction.
func (r *DefaultPaymentRepository) applyStatusChange(ctx context.Context, tx *gorm.DB, change domain.StatusChange, paidAt *time.Time) (*models.PaymentModel, error) {
	var payment models.PaymentModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&payment, "id = ?", change.PaymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.Status != change.From || !change.From.CanTransition(change.To) {
		return nil, domain.ErrInvalidTransition
	}

	if change.At.IsZero() {
		change.At = time.Now()
	}
	updates := map[string]interface{}{
		"status":         change.To,
		"failure_reason": change.Reason,
		"updated_at":     change.At,
	}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	if err := tx.Model(&payment).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	if err := r.Events.WithTx(tx).LogTransition(ctx, logger.PaymentTransitionEvent{
		PaymentID:  payment.ID,
		UserID:     payment.UserID,
		FromStatus: change.From,
		ToStatus:   change.To,
		Source:     change.Source,
		Reason:     change.Reason,
		Timestamp:  change.At,
	}); err != nil {
		return nil, fmt.Errorf("failed to log payment event: %w", err)
	}

	return &payment, nil
}
