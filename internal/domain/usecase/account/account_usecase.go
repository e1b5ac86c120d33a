package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/token-economy/internal/domain/usecase/policy"
)

// OpeningBalanceReason is the ledger reason of the deposit booked when an account opens with funds
const OpeningBalanceReason = "Opening balance"

// AccountUseCase handles account opening and lookups
type AccountUseCase struct {
	uow          persistence.UnitOfWork
	ledger       usecase.LedgerUseCase
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.AccountUseCase = (*AccountUseCase)(nil)

// NewAccountUseCase creates a new AccountUseCase
func NewAccountUseCase(
	uow persistence.UnitOfWork,
	ledger usecase.LedgerUseCase,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *AccountUseCase {
	return &AccountUseCase{
		uow:          uow,
		ledger:       ledger,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// OpenAccount creates the single account of a student in a class.
// A positive opening balance is booked through the ledger so the account reconciles from its first entry.
func (u *AccountUseCase) OpenAccount(ctx context.Context, actor entity.Actor, req usecase.OpenAccountRequest) (*entity.Account, error) {
	if req.StudentID == "" || req.ClassID == "" {
		return nil, errs.ErrInvalidID
	}
	if req.OpeningBalance < 0 {
		return nil, errs.ErrInvalidAmount
	}

	// seeding opens accounts as the system actor
	if actor.Role != entity.RoleSystem {
		if _, err := policy.RequireClassOwner(ctx, u.uow.GetClassRepository(ctx), actor, req.ClassID); err != nil {
			return nil, err
		}
	} else if _, err := u.uow.GetClassRepository(ctx).GetByID(ctx, req.ClassID); err != nil {
		return nil, err
	}

	account, err := entity.NewAccount(uuid.NewString(), req.StudentID, req.ClassID, req.Currency, u.timeProvider.Now())
	if err != nil {
		return nil, err
	}

	if err := u.uow.GetAccountRepository(ctx).Create(ctx, account); err != nil {
		u.logger.Warn("Failed to open account", map[string]any{
			"student_id": req.StudentID,
			"class_id":   req.ClassID,
			"error":      err.Error(),
		})
		return nil, err
	}

	u.logger.Info("Account opened", map[string]any{
		"account_id": account.ID,
		"student_id": account.UserID,
		"class_id":   account.ClassID,
		"currency":   string(account.Currency),
	})

	if req.OpeningBalance == 0 {
		return account, nil
	}

	if _, err := u.ledger.RecordTransaction(ctx, usecase.RecordTransactionRequest{
		AccountID: account.ID,
		Type:      entity.TypeDeposit,
		Amount:    req.OpeningBalance,
		Reason:    OpeningBalanceReason,
		CreatedBy: actor.ID,
	}); err != nil {
		u.logger.Error("Opening deposit failed", map[string]any{
			"account_id": account.ID,
			"amount":     req.OpeningBalance,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("account %s opened without its opening balance: %w", account.ID, err)
	}

	return u.uow.GetAccountRepository(ctx).GetByID(ctx, account.ID)
}

// GetAccount returns an account by id
func (u *AccountUseCase) GetAccount(ctx context.Context, id string) (*entity.Account, error) {
	if id == "" {
		return nil, errs.ErrInvalidID
	}
	return u.uow.GetAccountRepository(ctx).GetByID(ctx, id)
}

// GetAccountForStudent returns the account of a student in a class
func (u *AccountUseCase) GetAccountForStudent(ctx context.Context, studentID, classID string) (*entity.Account, error) {
	if studentID == "" || classID == "" {
		return nil, errs.ErrInvalidID
	}
	return u.uow.GetAccountRepository(ctx).FindByUserAndClass(ctx, studentID, classID)
}

// ListAccounts returns accounts by class or by student, highest balance first
func (u *AccountUseCase) ListAccounts(ctx context.Context, filter entity.AccountFilter) ([]*entity.Account, error) {
	return u.uow.GetAccountRepository(ctx).List(ctx, filter)
}

// AuthorizeAccount loads an account and checks that actor may act on it
func (u *AccountUseCase) AuthorizeAccount(ctx context.Context, actor entity.Actor, accountID string) (*entity.Account, error) {
	account, err := u.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case entity.RoleSystem:
		return account, nil
	case entity.RoleStudent:
		if account.UserID != actor.ID {
			return nil, fmt.Errorf("%w: account %s", errs.ErrNotOwner, accountID)
		}
		return account, nil
	default:
		if _, err := policy.RequireClassOwner(ctx, u.uow.GetClassRepository(ctx), actor, account.ClassID); err != nil {
			return nil, err
		}
		return account, nil
	}
}

// ClassScope limits teacher listings to the classes they own
func (u *AccountUseCase) ClassScope(ctx context.Context, actor entity.Actor, classID string) ([]string, error) {
	if !actor.IsTeacher() {
		return nil, nil
	}
	return policy.TeacherClassIDs(ctx, u.uow.GetClassRepository(ctx), actor.ID, classID)
}
