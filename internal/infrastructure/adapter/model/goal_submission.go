package model

import (
	"time"
)

// GoalSubmission represents the database model for goal submissions
type GoalSubmission struct {
	ID          string    `gorm:"primaryKey;size:36"`
	StudentID   string    `gorm:"not null;size:36;index:idx_goal_submissions_student_created"`
	GoalID      string    `gorm:"not null;size:36"`
	ClassID     string    `gorm:"not null;size:36;index"`
	GoalTitle   string    `gorm:"not null;size:255"`
	Description string    `gorm:"type:text"`
	Points      int64     `gorm:"not null"`
	Status      string    `gorm:"not null;size:16"`
	ReviewedBy  string    `gorm:"size:36"`
	ReviewedAt  *time.Time
	CreatedAt   time.Time `gorm:"not null;index:idx_goal_submissions_student_created"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for GoalSubmission
func (GoalSubmission) TableName() string {
	return "goal_submissions"
}
