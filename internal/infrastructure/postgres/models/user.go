package models

import "time"

type UserModel struct {
	ID        string `gorm:"primaryKey"`
	IsVip     bool   `gorm:"not null;default:false"`
	VipSince  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return "vip_users"
}
