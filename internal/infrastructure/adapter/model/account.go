package model

import (
	"time"
)

// Account represents the database model for accounts
type Account struct {
	ID               string    `gorm:"primaryKey;size:36"`
	UserID           string    `gorm:"not null;size:36;uniqueIndex:idx_accounts_user_class"`
	ClassID          string    `gorm:"not null;size:36;uniqueIndex:idx_accounts_user_class;index"`
	Currency         string    `gorm:"not null;size:32"`
	Balance          int64     `gorm:"not null;default:0"`
	TransactionCount uint64    `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
