package handler

import (
	"fmt"
	"net/http"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// GoalSubmissionHandler handles goal submission HTTP requests
type GoalSubmissionHandler struct {
	goals     usecase.GoalUseCase
	accounts  usecase.AccountUseCase
	maxPerDay int
	logger    coreport.Logger
}

// NewGoalSubmissionHandler creates a new goal submission handler instance.
// maxPerDay caps a student's pending submissions per classroom day; zero disables the cap.
func NewGoalSubmissionHandler(
	goals usecase.GoalUseCase,
	accounts usecase.AccountUseCase,
	maxPerDay int,
	logger coreport.Logger,
) *GoalSubmissionHandler {
	return &GoalSubmissionHandler{
		goals:     goals,
		accounts:  accounts,
		maxPerDay: maxPerDay,
		logger:    logger,
	}
}

// SubmitGoals handles the POST /api/goal-submissions endpoint
func (h *GoalSubmissionHandler) SubmitGoals(c *gin.Context) {
	ctx := c.Request.Context()
	caller := actor(c)

	var req dto.SubmitGoalsRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "Invalid goal submission", err)
		return
	}

	if h.maxPerDay > 0 {
		today, err := h.goals.FindPendingSubmissionsForStudentToday(ctx, caller.ID)
		if err != nil {
			respondError(c, h.logger, "Failed to submit goals", err)
			return
		}
		if len(today)+len(req.Goals) > h.maxPerDay {
			err := fmt.Errorf("%w: %d pending today, %d submitted, limit %d",
				errs.ErrDailyLimitReached, len(today), len(req.Goals), h.maxPerDay)
			respondError(c, h.logger, "Goal submission rejected", err)
			return
		}
	}

	items := make([]usecase.GoalSubmissionItem, 0, len(req.Goals))
	for _, goal := range req.Goals {
		items = append(items, usecase.GoalSubmissionItem{
			GoalID:      goal.GoalID,
			ClassID:     goal.ClassID,
			Description: goal.Description,
		})
	}

	submissions, err := h.goals.SubmitGoals(ctx, caller.ID, items)
	if err != nil {
		respondError(c, h.logger, "Failed to submit goals", err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewGoalSubmissionResponses(submissions))
}

// ListSubmissions handles the GET /api/goal-submissions endpoint.
// today=true returns the caller's pending submissions of the current classroom day.
func (h *GoalSubmissionHandler) ListSubmissions(c *gin.Context) {
	ctx := c.Request.Context()
	caller := actor(c)

	if caller.IsStudent() && c.Query("today") == "true" {
		submissions, err := h.goals.FindPendingSubmissionsForStudentToday(ctx, caller.ID)
		if err != nil {
			respondError(c, h.logger, "Failed to list goal submissions", err)
			return
		}
		c.JSON(http.StatusOK, dto.NewGoalSubmissionResponses(submissions))
		return
	}

	status, err := queryStatus(c)
	if err != nil {
		respondError(c, h.logger, "Invalid goal submission query", err)
		return
	}
	limit, err := queryLimit(c)
	if err != nil {
		respondError(c, h.logger, "Invalid goal submission query", err)
		return
	}

	filter := entity.GoalSubmissionFilter{
		ClassID: c.Query("classId"),
		Status:  status,
		Limit:   limit,
	}
	if caller.IsStudent() {
		filter.StudentID = caller.ID
	} else {
		scope, err := h.accounts.ClassScope(ctx, caller, filter.ClassID)
		if err != nil {
			respondError(c, h.logger, "Failed to list goal submissions", err)
			return
		}
		filter.ClassIDs = scope
		filter.StudentID = c.Query("studentId")
	}

	submissions, err := h.goals.ListSubmissions(ctx, filter)
	if err != nil {
		respondError(c, h.logger, "Failed to list goal submissions", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGoalSubmissionResponses(submissions))
}

// UpdateSubmission handles the PATCH /api/goal-submissions/:id endpoint.
// Teachers review, students edit the description of a same-day pending submission.
func (h *GoalSubmissionHandler) UpdateSubmission(c *gin.Context) {
	ctx := c.Request.Context()
	caller := actor(c)

	var req dto.UpdateSubmissionRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "Invalid goal submission update", err)
		return
	}

	var (
		submission *entity.GoalSubmission
		err        error
	)
	if caller.IsTeacher() {
		submission, err = h.goals.ReviewSubmission(ctx, caller, c.Param("id"), usecase.ReviewSubmissionRequest{
			Status: entity.ReviewStatus(req.Status),
			Points: req.Points,
		})
	} else {
		if req.Description == nil {
			respondError(c, h.logger, "Invalid goal submission update",
				fmt.Errorf("%w: description is required", errs.ErrValidation))
			return
		}
		submission, err = h.goals.EditSubmission(ctx, caller, c.Param("id"), usecase.EditSubmissionRequest{
			Description: *req.Description,
		})
	}
	if err != nil {
		respondError(c, h.logger, "Failed to update goal submission", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGoalSubmissionResponse(submission))
}

// DeleteSubmission handles the DELETE /api/goal-submissions/:id endpoint
func (h *GoalSubmissionHandler) DeleteSubmission(c *gin.Context) {
	if err := h.goals.DeleteSubmission(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		respondError(c, h.logger, "Failed to delete goal submission", err)
		return
	}

	c.Status(http.StatusNoContent)
}
