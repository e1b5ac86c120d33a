package entity

import (
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
)

// GoalSubmission is a student's claim of having completed a catalog goal
type GoalSubmission struct {
	ID          string
	StudentID   string
	GoalID      string
	ClassID     string
	GoalTitle   string // Snapshot used in ledger reasons
	Description string
	Points      int64 // Snapshot of the goal's value, adjustable by the teacher
	Status      ReviewStatus
	ReviewedBy  string
	ReviewedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewGoalSubmission snapshots the goal onto a pending submission
func NewGoalSubmission(id, studentID, classID string, goal *Goal, description string, now time.Time) (*GoalSubmission, error) {
	if id == "" || studentID == "" || classID == "" {
		return nil, errs.ErrInvalidID
	}
	if err := ValidatePoints(goal.Points); err != nil {
		return nil, err
	}

	return &GoalSubmission{
		ID:          id,
		StudentID:   studentID,
		GoalID:      goal.ID,
		ClassID:     classID,
		GoalTitle:   goal.Title,
		Description: description,
		Points:      goal.Points,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CreditReason is the ledger reason for the approval deposit
func (s *GoalSubmission) CreditReason() string {
	return fmt.Sprintf("Goal completed: %s", s.GoalTitle)
}

// CreatedOnDay reports whether the submission was created on the calendar day of now in loc
func (s *GoalSubmission) CreatedOnDay(now time.Time, loc *time.Location) bool {
	start, end := DayBounds(now, loc)
	return !s.CreatedAt.Before(start) && s.CreatedAt.Before(end)
}

// StudentMayChange is the same-day, own, pending rule for student edits and deletes
func (s *GoalSubmission) StudentMayChange(studentID string, now time.Time, loc *time.Location) error {
	if s.StudentID != studentID {
		return errs.ErrNotOwner
	}
	if s.Status != StatusPending || !s.CreatedOnDay(now, loc) {
		return errs.ErrEditWindowEnded
	}
	return nil
}

// DayBounds returns [start, end) of the calendar day containing t in loc
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// GoalSubmissionFilter narrows submission listings
type GoalSubmissionFilter struct {
	StudentID string
	ClassID   string
	ClassIDs  []string
	Status    ReviewStatus
	Limit     int
}
