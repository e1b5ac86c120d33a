package model

import (
	"time"
)

// PrizeRequest represents the database model for prize requests
type PrizeRequest struct {
	ID           string    `gorm:"primaryKey;size:36"`
	StudentID    string    `gorm:"not null;size:36;index"`
	PrizeID      string    `gorm:"not null;size:36"`
	ClassID      string    `gorm:"not null;size:36;index"`
	PrizeName    string    `gorm:"not null;size:255"`
	PrizeCost    int64     `gorm:"not null"`
	CustomAmount *int64    `gorm:"null"`
	Reason       string    `gorm:"type:text"`
	Status       string    `gorm:"not null;size:16;index"`
	RequestedAt  time.Time `gorm:"not null"`
	ReviewedAt   *time.Time
	ReviewedBy   string `gorm:"size:36"`
	ReviewNotes  string `gorm:"type:text"`
}

// TableName specifies the table name for PrizeRequest
func (PrizeRequest) TableName() string {
	return "prize_requests"
}
