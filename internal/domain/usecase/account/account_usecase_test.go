package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/token-economy/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/database"
	timeprovider "github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/time"
)

func setup(t *testing.T) (*AccountUseCase, *ledger.Service, *database.TestDatabase) {
	t.Helper()

	db := database.NewTestDatabase(t)
	tp := timeprovider.NewRealTimeProvider()
	ledgerService := ledger.NewService(db.UoW, tp, db.Logger)
	t.Cleanup(ledgerService.Shutdown)

	return NewAccountUseCase(db.UoW, ledgerService, tp, db.Logger), ledgerService, db
}

func TestOpenAccount(t *testing.T) {
	ctx := context.Background()
	useCase, ledgerService, db := setup(t)
	class := db.CreateClass(t, "teacher-1")
	teacher := entity.Actor{ID: "teacher-1", Role: entity.RoleTeacher}

	t.Run("Opening balance is booked as a deposit", func(t *testing.T) {
		account, err := useCase.OpenAccount(ctx, teacher, usecase.OpenAccountRequest{
			StudentID:      "student-1",
			ClassID:        class.ID,
			Currency:       entity.CurrencyEarthPoints,
			OpeningBalance: 500,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(500), account.Balance())
		assert.Equal(t, entity.CurrencyEarthPoints, account.Currency)
		assert.Equal(t, uint64(1), account.TransactionCount)

		history, err := ledgerService.ListTransactions(ctx, entity.TransactionFilter{AccountID: account.ID})
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, entity.TypeDeposit, history[0].Type)
		assert.Equal(t, OpeningBalanceReason, history[0].Reason)
		assert.Equal(t, "teacher-1", history[0].CreatedBy)

		reconciliation, err := ledgerService.Reconcile(ctx, account.ID)
		require.NoError(t, err)
		assert.True(t, reconciliation.Consistent)
	})

	t.Run("Zero opening balance writes no entry", func(t *testing.T) {
		account, err := useCase.OpenAccount(ctx, teacher, usecase.OpenAccountRequest{StudentID: "student-2", ClassID: class.ID})

		require.NoError(t, err)
		assert.Zero(t, account.Balance())
		assert.Equal(t, entity.DefaultCurrency, account.Currency)

		history, err := ledgerService.ListTransactions(ctx, entity.TransactionFilter{AccountID: account.ID})
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("One account per student and class", func(t *testing.T) {
		_, err := useCase.OpenAccount(ctx, teacher, usecase.OpenAccountRequest{StudentID: "student-1", ClassID: class.ID})
		assert.ErrorIs(t, err, errs.ErrDuplicateAccount)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("System actor may open accounts in any class", func(t *testing.T) {
		account, err := useCase.OpenAccount(ctx, entity.SystemActor(), usecase.OpenAccountRequest{
			StudentID:      "student-3",
			ClassID:        class.ID,
			OpeningBalance: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(10), account.Balance())
	})

	t.Run("Rejected requests", func(t *testing.T) {
		tests := []struct {
			name  string
			actor entity.Actor
			req   usecase.OpenAccountRequest
			want  error
		}{
			{"other teacher", entity.Actor{ID: "teacher-2", Role: entity.RoleTeacher}, usecase.OpenAccountRequest{StudentID: "s9", ClassID: class.ID}, errs.ErrNotClassOwner},
			{"student", entity.Actor{ID: "s9", Role: entity.RoleStudent}, usecase.OpenAccountRequest{StudentID: "s9", ClassID: class.ID}, errs.ErrRoleNotAllowed},
			{"missing class", teacher, usecase.OpenAccountRequest{StudentID: "s9", ClassID: "nope"}, errs.ErrClassNotFound},
			{"missing student", teacher, usecase.OpenAccountRequest{ClassID: class.ID}, errs.ErrInvalidID},
			{"negative opening balance", teacher, usecase.OpenAccountRequest{StudentID: "s9", ClassID: class.ID, OpeningBalance: -1}, errs.ErrInvalidAmount},
			{"unknown currency", teacher, usecase.OpenAccountRequest{StudentID: "s9", ClassID: class.ID, Currency: "gold"}, errs.ErrInvalidCurrency},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				account, err := useCase.OpenAccount(ctx, tt.actor, tt.req)
				assert.ErrorIs(t, err, tt.want)
				assert.Nil(t, account)
			})
		}

		_, err := useCase.GetAccountForStudent(ctx, "s9", class.ID)
		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	})
}

func TestAccountQueries(t *testing.T) {
	ctx := context.Background()
	useCase, _, db := setup(t)
	classA := db.CreateClass(t, "teacher-1")
	classB := db.CreateClass(t, "teacher-1")
	system := entity.SystemActor()

	rich, err := useCase.OpenAccount(ctx, system, usecase.OpenAccountRequest{StudentID: "s1", ClassID: classA.ID, OpeningBalance: 300})
	require.NoError(t, err)
	_, err = useCase.OpenAccount(ctx, system, usecase.OpenAccountRequest{StudentID: "s2", ClassID: classA.ID, OpeningBalance: 100})
	require.NoError(t, err)
	_, err = useCase.OpenAccount(ctx, system, usecase.OpenAccountRequest{StudentID: "s1", ClassID: classB.ID})
	require.NoError(t, err)

	t.Run("By id", func(t *testing.T) {
		got, err := useCase.GetAccount(ctx, rich.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(300), got.Balance())

		_, err = useCase.GetAccount(ctx, "")
		assert.ErrorIs(t, err, errs.ErrInvalidID)
		_, err = useCase.GetAccount(ctx, "missing")
		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	})

	t.Run("By student and class", func(t *testing.T) {
		got, err := useCase.GetAccountForStudent(ctx, "s1", classA.ID)
		require.NoError(t, err)
		assert.Equal(t, rich.ID, got.ID)
	})

	t.Run("Class listing is ordered by balance", func(t *testing.T) {
		accounts, err := useCase.ListAccounts(ctx, entity.AccountFilter{ClassID: classA.ID})
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "s1", accounts[0].UserID)
		assert.Equal(t, "s2", accounts[1].UserID)
	})

	t.Run("Student listing spans classes", func(t *testing.T) {
		accounts, err := useCase.ListAccounts(ctx, entity.AccountFilter{UserID: "s1"})
		require.NoError(t, err)
		assert.Len(t, accounts, 2)
	})
}

func TestAccountAccess(t *testing.T) {
	ctx := context.Background()
	useCase, _, db := setup(t)
	mine := db.CreateClass(t, "teacher-1")
	theirs := db.CreateClass(t, "teacher-2")
	account := db.CreateAccount(t, "s1", mine.ID)
	teacher := entity.Actor{ID: "teacher-1", Role: entity.RoleTeacher}

	t.Run("AuthorizeAccount", func(t *testing.T) {
		tests := []struct {
			name    string
			actor   entity.Actor
			wantErr error
		}{
			{"owning teacher", teacher, nil},
			{"account student", entity.Actor{ID: "s1", Role: entity.RoleStudent}, nil},
			{"system", entity.SystemActor(), nil},
			{"other teacher", entity.Actor{ID: "teacher-2", Role: entity.RoleTeacher}, errs.ErrNotClassOwner},
			{"other student", entity.Actor{ID: "s2", Role: entity.RoleStudent}, errs.ErrNotOwner},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := useCase.AuthorizeAccount(ctx, tt.actor, account.ID)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
					assert.ErrorIs(t, err, errs.ErrForbidden)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, account.ID, got.ID)
			})
		}

		_, err := useCase.AuthorizeAccount(ctx, teacher, "missing")
		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	})

	t.Run("ClassScope", func(t *testing.T) {
		scope, err := useCase.ClassScope(ctx, teacher, "")
		require.NoError(t, err)
		assert.Equal(t, []string{mine.ID}, scope)

		scope, err = useCase.ClassScope(ctx, teacher, mine.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{mine.ID}, scope)

		_, err = useCase.ClassScope(ctx, teacher, theirs.ID)
		assert.ErrorIs(t, err, errs.ErrNotClassOwner)

		scope, err = useCase.ClassScope(ctx, entity.Actor{ID: "s1", Role: entity.RoleStudent}, theirs.ID)
		require.NoError(t, err)
		assert.Nil(t, scope)
	})
}
