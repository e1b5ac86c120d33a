package model

import (
	"time"
)

// Transaction represents the database model for ledger entries
type Transaction struct {
	ID            string    `gorm:"primaryKey;size:36"`
	AccountID     string    `gorm:"not null;size:36;index"`
	UserID        string    `gorm:"not null;size:36;index"`
	Type          string    `gorm:"not null;size:32"`
	Amount        int64     `gorm:"not null"`
	BalanceBefore int64     `gorm:"not null"`
	BalanceAfter  int64     `gorm:"not null"`
	Reason        string    `gorm:"type:text"`
	Notes         string    `gorm:"type:text"`
	CreatedBy     string    `gorm:"not null;size:36;index"`
	CreatedAt     time.Time `gorm:"not null;index"`

	// Define relationships
	Account Account `gorm:"foreignKey:AccountID;references:ID"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
