package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// respondError logs err and writes the matching status and error body
func respondError(c *gin.Context, logger coreport.Logger, message string, err error) {
	status := errs.HTTPStatus(err)
	fields := errs.LogFields(err)
	fields["route"] = c.FullPath()
	if actor, ok := middleware.ActorFrom(c); ok {
		fields["actor_id"] = actor.ID
	}

	body := dto.ErrorResponse{
		Code:    errs.ErrorCode(err),
		Message: err.Error(),
		Details: errorDetails(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error(message, fields)
		if body.Details == nil {
			body.Message = "Internal server error"
		}
	} else {
		logger.Warn(message, fields)
	}

	_ = c.Error(err)
	c.JSON(status, body)
}

// errorDetails exposes the structured part of errors clients can act on
func errorDetails(err error) map[string]any {
	var (
		funds      *errs.InsufficientFundsError
		resolution *errs.BulkResolutionError
		partial    *errs.BulkAwardError
	)
	switch {
	case errors.As(err, &partial):
		return map[string]any{
			"completed": partial.Completed,
			"total":     partial.Total,
			"failedAt":  partial.StudentID,
		}
	case errors.As(err, &resolution):
		return map[string]any{
			"missing":   resolution.Missing,
			"ambiguous": resolution.Ambiguous,
		}
	case errors.As(err, &funds):
		return map[string]any{
			"required":  funds.Required,
			"available": funds.Available,
		}
	}
	return nil
}

// bindJSON decodes the body into req, reporting failures as validation errors
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	return nil
}

// bindOptionalJSON is bindJSON for bodies that may be omitted
func bindOptionalJSON(c *gin.Context, req any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return bindJSON(c, req)
}

// actor returns the authenticated caller; routes are mounted behind middleware.Auth
func actor(c *gin.Context) entity.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

// queryLimit parses the optional limit query parameter
func queryLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", errs.ErrValidation)
	}
	return limit, nil
}

// queryStatus parses the optional status query parameter
func queryStatus(c *gin.Context) (entity.ReviewStatus, error) {
	raw := c.Query("status")
	if raw == "" {
		return "", nil
	}
	if !entity.IsValidReviewStatus(raw) {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidStatus, raw)
	}
	return entity.ReviewStatus(raw), nil
}
