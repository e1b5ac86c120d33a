package dto

import (
	"time"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
)

// GoalItem is one claimed goal in a submission batch
type GoalItem struct {
	GoalID      string `json:"goalId" binding:"required"`
	ClassID     string `json:"classId"`
	Description string `json:"description"`
}

// SubmitGoalsRequest represents a student's daily goal submission
type SubmitGoalsRequest struct {
	Goals []GoalItem `json:"goals" binding:"required,min=1,dive"`
}

// UpdateSubmissionRequest is a teacher review (status, points) or a student edit (description)
type UpdateSubmissionRequest struct {
	Status      string  `json:"status"`
	Points      *int64  `json:"points"`
	Description *string `json:"description"`
}

// GoalSubmissionResponse represents a goal submission
type GoalSubmissionResponse struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"studentId"`
	GoalID      string     `json:"goalId"`
	ClassID     string     `json:"classId"`
	GoalTitle   string     `json:"goalTitle"`
	Description string     `json:"description"`
	Points      int64      `json:"points"`
	Status      string     `json:"status"`
	ReviewedBy  string     `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewGoalSubmissionResponse maps a submission to its API shape
func NewGoalSubmissionResponse(s *entity.GoalSubmission) GoalSubmissionResponse {
	return GoalSubmissionResponse{
		ID:          s.ID,
		StudentID:   s.StudentID,
		GoalID:      s.GoalID,
		ClassID:     s.ClassID,
		GoalTitle:   s.GoalTitle,
		Description: s.Description,
		Points:      s.Points,
		Status:      string(s.Status),
		ReviewedBy:  s.ReviewedBy,
		ReviewedAt:  s.ReviewedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// NewGoalSubmissionResponses maps a list of submissions
func NewGoalSubmissionResponses(submissions []*entity.GoalSubmission) []GoalSubmissionResponse {
	out := make([]GoalSubmissionResponse, 0, len(submissions))
	for _, s := range submissions {
		out = append(out, NewGoalSubmissionResponse(s))
	}
	return out
}
