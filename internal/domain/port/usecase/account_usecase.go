package usecase

import (
	"context"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
)

// OpenAccountRequest describes a new (student, class) account
type OpenAccountRequest struct {
	StudentID      string
	ClassID        string
	Currency       entity.Currency
	OpeningBalance int64
}

// AccountUseCase covers account opening and lookups
type AccountUseCase interface {
	OpenAccount(ctx context.Context, actor entity.Actor, req OpenAccountRequest) (*entity.Account, error)
	GetAccount(ctx context.Context, id string) (*entity.Account, error)
	GetAccountForStudent(ctx context.Context, studentID, classID string) (*entity.Account, error)
	ListAccounts(ctx context.Context, filter entity.AccountFilter) ([]*entity.Account, error)

	// AuthorizeAccount loads an account the actor may see: its student,
	// the teacher owning its class, or the system
	AuthorizeAccount(ctx context.Context, actor entity.Actor, accountID string) (*entity.Account, error)

	// ClassScope returns the class ids a teacher's listing is limited to.
	// A non-empty classID must be owned by the teacher. Other roles get nil.
	ClassScope(ctx context.Context, actor entity.Actor, classID string) ([]string, error)
}
