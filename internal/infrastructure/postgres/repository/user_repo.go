package repository

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultUserRepository struct {
	DB *gorm.DB
}

func NewDefaultUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{DB: db}
}

// GetUserByID treats users without an entitlement row as regular users.
func (r *DefaultUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var user models.UserModel
	if err := r.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.User{ID: userID}, nil
		}
		return nil, err
	}
	return mappers.ToDomainUser(&user), nil
}
