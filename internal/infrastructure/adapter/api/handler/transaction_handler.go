package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// TransactionHandler handles ledger-related HTTP requests
type TransactionHandler struct {
	ledger   usecase.LedgerUseCase
	accounts usecase.AccountUseCase
	awards   usecase.AwardUseCase
	logger   coreport.Logger
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(
	ledger usecase.LedgerUseCase,
	accounts usecase.AccountUseCase,
	awards usecase.AwardUseCase,
	logger coreport.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		ledger:   ledger,
		accounts: accounts,
		awards:   awards,
		logger:   logger,
	}
}

// RecordTransaction handles the POST /api/transactions endpoint
func (h *TransactionHandler) RecordTransaction(c *gin.Context) {
	ctx := c.Request.Context()
	caller := actor(c)

	var req dto.TransactionRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "Invalid transaction request format", err)
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		respondError(c, h.logger, "Invalid transaction request format", errs.ErrMissingReason)
		return
	}

	if _, err := h.accounts.AuthorizeAccount(ctx, caller, req.AccountID); err != nil {
		respondError(c, h.logger, "Transaction rejected", err)
		return
	}

	tx, err := h.ledger.RecordTransaction(ctx, usecase.RecordTransactionRequest{
		AccountID: req.AccountID,
		Type:      entity.TransactionType(req.Type),
		Amount:    req.Amount,
		Reason:    strings.TrimSpace(req.Reason),
		Notes:     req.Notes,
		CreatedBy: caller.ID,
	})
	if err != nil {
		respondError(c, h.logger, "Failed to record transaction", err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTransactionResponse(tx))
}

// ListTransactions handles the GET /api/transactions endpoint
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	ctx := c.Request.Context()
	caller := actor(c)

	limit, err := queryLimit(c)
	if err != nil {
		respondError(c, h.logger, "Invalid transaction query", err)
		return
	}
	filter := entity.TransactionFilter{
		AccountID: c.Query("accountId"),
		ClassID:   c.Query("classId"),
		UserID:    c.Query("userId"),
		Limit:     limit,
	}

	switch {
	case filter.AccountID != "":
		if _, err := h.accounts.AuthorizeAccount(ctx, caller, filter.AccountID); err != nil {
			respondError(c, h.logger, "Failed to list transactions", err)
			return
		}
	case caller.IsStudent():
		filter.UserID = caller.ID
	case filter.ClassID != "":
		if _, err := h.accounts.ClassScope(ctx, caller, filter.ClassID); err != nil {
			respondError(c, h.logger, "Failed to list transactions", err)
			return
		}
	default:
		err := fmt.Errorf("%w: accountId or classId is required", errs.ErrValidation)
		respondError(c, h.logger, "Invalid transaction query", err)
		return
	}

	txs, err := h.ledger.ListTransactions(ctx, filter)
	if err != nil {
		respondError(c, h.logger, "Failed to list transactions", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponses(txs))
}

// AwardBulk handles the POST /api/transactions/bulk endpoint.
// A failure part way through still reports how many deposits were made.
func (h *TransactionHandler) AwardBulk(c *gin.Context) {
	var req dto.BulkAwardRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "Invalid bulk award request", err)
		return
	}

	result, err := h.awards.AwardBulk(c.Request.Context(), usecase.AwardBulkRequest{
		TeacherID:  actor(c).ID,
		StudentIDs: req.StudentIDs,
		Amount:     req.Amount,
		Reason:     req.Reason,
		ClassID:    req.ClassID,
	})
	if err != nil {
		respondError(c, h.logger, "Bulk award failed", err)
		return
	}

	c.JSON(http.StatusCreated, dto.BulkAwardResponse{
		TransactionCount: result.TransactionCount,
		TransactionIDs:   result.TransactionIDs,
	})
}
