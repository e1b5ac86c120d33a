package ledger

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	"github.com/google/uuid"
)

// Service is the Ledger Engine. Every balance change in the system goes through
// RecordTransaction, which appends the entry and writes the balance in one store transaction.
type Service struct {
	uow          persistence.UnitOfWork
	queue        *AccountQueue
	validator    *TransactionValidator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.LedgerUseCase = (*Service)(nil)

// NewService creates a new ledger service
func NewService(uow persistence.UnitOfWork, timeProvider coreport.TimeProvider, logger coreport.Logger) *Service {
	s := &Service{
		uow:          uow,
		validator:    NewTransactionValidator(),
		timeProvider: timeProvider,
		logger:       logger,
	}
	s.queue = NewAccountQueue(logger, s.process)
	return s
}

// RecordTransaction validates the request and applies it on the account's queue
func (s *Service) RecordTransaction(ctx context.Context, req usecase.RecordTransactionRequest) (*entity.Transaction, error) {
	if err := s.validator.ValidateRecord(req); err != nil {
		s.logger.Warn("Ledger request rejected", map[string]any{
			"account_id": req.AccountID,
			"type":       string(req.Type),
			"amount":     req.Amount,
			"error":      err.Error(),
		})
		return nil, err
	}
	if req.CreatedBy == "" {
		req.CreatedBy = entity.SystemActorID
	}

	return s.queue.Enqueue(ctx, req)
}

// process runs on the account's worker: lock, check, write, commit
func (s *Service) process(ctx context.Context, req usecase.RecordTransactionRequest) (*entity.Transaction, error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Error("Failed to roll back ledger transaction", map[string]any{
					"account_id": req.AccountID,
					"error":      rbErr.Error(),
				})
			}
		}
	}()

	accountRepo := s.uow.GetAccountRepository(txCtx)
	account, err := accountRepo.GetByIDForUpdate(txCtx, req.AccountID)
	if err != nil {
		return nil, err
	}

	if req.Precondition != nil {
		if err := req.Precondition(account); err != nil {
			return nil, err
		}
	}
	if req.Companion != nil {
		if err := req.Companion(txCtx, account); err != nil {
			return nil, err
		}
	}

	transaction, err := entity.NewTransaction(
		uuid.NewString(),
		account,
		req.Type,
		req.Amount,
		req.Reason,
		req.Notes,
		req.CreatedBy,
		s.timeProvider.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.uow.GetTransactionRepository(txCtx).Create(txCtx, transaction); err != nil {
		return nil, err
	}
	if err := account.ApplyTransaction(transaction); err != nil {
		return nil, err
	}
	if err := accountRepo.UpdateBalance(txCtx, account.ID, account.Balance(), account.TransactionCount, account.UpdatedAt); err != nil {
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	committed = true

	s.logger.Info("Ledger entry recorded", map[string]any{
		"transaction_id": transaction.ID,
		"account_id":     account.ID,
		"type":           string(transaction.Type),
		"amount":         transaction.Amount,
		"balance_before": transaction.BalanceBefore,
		"balance_after":  transaction.BalanceAfter,
		"created_by":     transaction.CreatedBy,
	})
	return transaction, nil
}

// ListTransactions returns ledger history, newest first
func (s *Service) ListTransactions(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	if filter.Type != "" && !entity.IsValidTransactionType(string(filter.Type)) {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidType, filter.Type)
	}
	return s.uow.GetTransactionRepository(ctx).List(ctx, filter)
}

// Reconcile compares the stored balance with the signed ledger sum, reading both under the account lock
func (s *Service) Reconcile(ctx context.Context, accountID string) (*entity.Reconciliation, error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	// read-only, nothing to keep
	defer func() { _ = s.uow.Rollback(txCtx) }()

	account, err := s.uow.GetAccountRepository(txCtx).GetByIDForUpdate(txCtx, accountID)
	if err != nil {
		return nil, err
	}
	sum, count, err := s.uow.GetTransactionRepository(txCtx).SumSigned(txCtx, accountID)
	if err != nil {
		return nil, err
	}

	result := &entity.Reconciliation{
		AccountID:        accountID,
		Balance:          account.Balance(),
		LedgerSum:        sum,
		TransactionCount: count,
		Consistent:       sum == account.Balance() && uint64(count) == account.TransactionCount,
	}
	if !result.Consistent {
		s.logger.Error("Ledger out of balance", map[string]any{
			"account_id":        accountID,
			"balance":           result.Balance,
			"ledger_sum":        sum,
			"ledger_entries":    count,
			"transaction_count": account.TransactionCount,
		})
	}
	return result, nil
}

// ActiveAccounts reports how many accounts have ledger requests in flight
func (s *Service) ActiveAccounts() int {
	return s.queue.ActiveAccounts()
}

// Shutdown stops accepting ledger requests and waits for in-flight ones
func (s *Service) Shutdown() {
	s.queue.Shutdown()
}
