package models

import (
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

// Account joins an employee (by email) to console credentials.
type Account struct {
	Email        string            `gorm:"column:email;primaryKey"`
	AccountType  enums.AccountType `gorm:"column:account_type;not null;default:'operator'"`
	PasswordHash string            `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}
