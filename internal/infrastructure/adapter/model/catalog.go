package model

import (
	"strings"
	"time"
)

// Class represents the database model for classes
type Class struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"not null;size:255"`
	TeacherID string    `gorm:"not null;size:36;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for Class
func (Class) TableName() string {
	return "classes"
}

// Prize represents the database model for catalog prizes
type Prize struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Name        string    `gorm:"not null;size:255"`
	Description string    `gorm:"type:text"`
	Cost        int64     `gorm:"not null"`
	Available   bool      `gorm:"not null"`
	CreatedBy   string    `gorm:"size:36"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for Prize
func (Prize) TableName() string {
	return "prizes"
}

// Goal represents the database model for catalog goals
type Goal struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Title       string    `gorm:"not null;size:255"`
	Description string    `gorm:"type:text"`
	Points      int64     `gorm:"not null"`
	ClassIDs    string    `gorm:"type:text"` // comma separated, empty means every class
	CreatedBy   string    `gorm:"size:36"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for Goal
func (Goal) TableName() string {
	return "goals"
}

// JoinIDs packs a list of ids into the ClassIDs column
func JoinIDs(ids []string) string {
	return strings.Join(ids, ",")
}

// SplitIDs unpacks the ClassIDs column
func SplitIDs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
