package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// PrizeRequestHandler handles prize redemption HTTP requests
type PrizeRequestHandler struct {
	prizes   usecase.PrizeUseCase
	accounts usecase.AccountUseCase
	logger   coreport.Logger
}

// NewPrizeRequestHandler creates a new prize request handler instance
func NewPrizeRequestHandler(
	prizes usecase.PrizeUseCase,
	accounts usecase.AccountUseCase,
	logger coreport.Logger,
) *PrizeRequestHandler {
	return &PrizeRequestHandler{
		prizes:   prizes,
		accounts: accounts,
		logger:   logger,
	}
}

// RequestPrize handles the POST /api/prize-requests endpoint
func (h *PrizeRequestHandler) RequestPrize(c *gin.Context) {
	var req dto.CreatePrizeRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "Invalid prize request", err)
		return
	}

	request, err := h.prizes.RequestPrize(c.Request.Context(), usecase.RequestPrizeRequest{
		StudentID:    actor(c).ID,
		PrizeID:      req.PrizeID,
		ClassID:      req.ClassID,
		Reason:       req.Reason,
		CustomAmount: req.CustomAmount,
	})
	if err != nil {
		respondError(c, h.logger, "Prize request rejected", err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewPrizeRequestResponse(request))
}

// ListPrizeRequests handles the GET /api/prize-requests endpoint.
// reviewed=true lists terminal requests by review time.
func (h *PrizeRequestHandler) ListPrizeRequests(c *gin.Context) {
	ctx := c.Request.Context()
	caller := actor(c)

	status, err := queryStatus(c)
	if err != nil {
		respondError(c, h.logger, "Invalid prize request query", err)
		return
	}
	limit, err := queryLimit(c)
	if err != nil {
		respondError(c, h.logger, "Invalid prize request query", err)
		return
	}

	filter := entity.PrizeRequestFilter{
		Status:  status,
		ClassID: c.Query("classId"),
		PrizeID: c.Query("prizeId"),
		Limit:   limit,
	}
	if caller.IsStudent() {
		filter.StudentID = caller.ID
	} else {
		scope, err := h.accounts.ClassScope(ctx, caller, filter.ClassID)
		if err != nil {
			respondError(c, h.logger, "Failed to list prize requests", err)
			return
		}
		filter.ClassIDs = scope
		filter.StudentID = c.Query("studentId")
	}

	var requests []*entity.PrizeRequest
	if c.Query("reviewed") == "true" {
		requests, err = h.prizes.ListRecentlyReviewed(ctx, filter)
	} else {
		requests, err = h.prizes.ListPrizeRequests(ctx, filter)
	}
	if err != nil {
		respondError(c, h.logger, "Failed to list prize requests", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPrizeRequestResponses(requests))
}

// ApprovePrizeRequest handles the POST /api/prize-requests/:id/approve endpoint
func (h *PrizeRequestHandler) ApprovePrizeRequest(c *gin.Context) {
	var req dto.ReviewPrizeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondError(c, h.logger, "Invalid review request", err)
		return
	}

	request, err := h.prizes.ApprovePrizeRequest(c.Request.Context(), actor(c), c.Param("id"), req.Notes)
	if err != nil {
		respondError(c, h.logger, "Failed to approve prize request", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPrizeRequestResponse(request))
}

// DenyPrizeRequest handles the POST /api/prize-requests/:id/deny endpoint
func (h *PrizeRequestHandler) DenyPrizeRequest(c *gin.Context) {
	var req dto.ReviewPrizeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondError(c, h.logger, "Invalid review request", err)
		return
	}

	request, err := h.prizes.DenyPrizeRequest(c.Request.Context(), actor(c), c.Param("id"), req.Notes)
	if err != nil {
		respondError(c, h.logger, "Failed to deny prize request", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPrizeRequestResponse(request))
}
