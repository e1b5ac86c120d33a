package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accounts        usecase.AccountUseCase
	ledger          usecase.LedgerUseCase
	defaultCurrency entity.Currency
	logger          coreport.Logger
}

// NewAccountHandler creates a new account handler instance
func NewAccountHandler(
	accounts usecase.AccountUseCase,
	ledger usecase.LedgerUseCase,
	defaultCurrency entity.Currency,
	logger coreport.Logger,
) *AccountHandler {
	return &AccountHandler{
		accounts:        accounts,
		ledger:          ledger,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// OpenAccount handles the POST /api/accounts endpoint
func (h *AccountHandler) OpenAccount(c *gin.Context) {
	var req dto.OpenAccountRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "Invalid open account request", err)
		return
	}

	currency := entity.Currency(req.Currency)
	if currency == "" {
		currency = h.defaultCurrency
	}

	account, err := h.accounts.OpenAccount(c.Request.Context(), actor(c), usecase.OpenAccountRequest{
		StudentID:      req.StudentID,
		ClassID:        req.ClassID,
		Currency:       currency,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		respondError(c, h.logger, "Failed to open account", err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAccountResponse(account))
}

// GetAccount handles the GET /api/accounts/:id endpoint
func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.accounts.AuthorizeAccount(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to get account", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAccountResponse(account))
}

// Reconcile handles the GET /api/accounts/:id/reconcile endpoint
func (h *AccountHandler) Reconcile(c *gin.Context) {
	ctx := c.Request.Context()
	account, err := h.accounts.AuthorizeAccount(ctx, actor(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to reconcile account", err)
		return
	}

	reconciliation, err := h.ledger.Reconcile(ctx, account.ID)
	if err != nil {
		respondError(c, h.logger, "Failed to reconcile account", err)
		return
	}
	if !reconciliation.Consistent {
		h.logger.Error("Account balance does not match its ledger", map[string]any{
			"account_id": reconciliation.AccountID,
			"balance":    reconciliation.Balance,
			"ledger_sum": reconciliation.LedgerSum,
		})
	}

	c.JSON(http.StatusOK, reconciliation)
}

// ListAccounts handles the GET /api/accounts endpoint.
// Students see their own accounts, teachers the accounts of the classes they own.
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	ctx := c.Request.Context()
	caller := actor(c)
	filter := entity.AccountFilter{ClassID: c.Query("classId")}

	if caller.IsStudent() {
		filter.UserID = caller.ID
	} else {
		scope, err := h.accounts.ClassScope(ctx, caller, filter.ClassID)
		if err != nil {
			respondError(c, h.logger, "Failed to list accounts", err)
			return
		}
		filter.ClassIDs = scope
		filter.UserID = c.Query("studentId")
	}

	accounts, err := h.accounts.ListAccounts(ctx, filter)
	if err != nil {
		respondError(c, h.logger, "Failed to list accounts", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAccountResponses(accounts))
}
