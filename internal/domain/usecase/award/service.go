package award

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
)

// Service credits the same amount to several students.
// Validation is all-or-nothing; the deposits themselves are independent ledger entries.
type Service struct {
	uow    persistence.UnitOfWork
	ledger usecase.LedgerUseCase
	logger coreport.Logger
}

var _ usecase.AwardUseCase = (*Service)(nil)

// NewService creates a new bulk award service
func NewService(uow persistence.UnitOfWork, ledger usecase.LedgerUseCase, logger coreport.Logger) *Service {
	return &Service{
		uow:    uow,
		ledger: ledger,
		logger: logger,
	}
}

type target struct {
	studentID string
	account   *entity.Account
}

// AwardBulk resolves one account per student, checks the teacher owns every class involved,
// then records one deposit per student in request order. A failure part way through keeps
// the deposits already made and reports how many succeeded.
func (s *Service) AwardBulk(ctx context.Context, req usecase.AwardBulkRequest) (*usecase.AwardBulkResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	targets, err := s.resolve(ctx, dedupe(req.StudentIDs), req.ClassID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, req.TeacherID, targets); err != nil {
		return nil, err
	}

	result := &usecase.AwardBulkResult{TransactionIDs: make([]string, 0, len(targets))}
	reason := strings.TrimSpace(req.Reason)
	for _, t := range targets {
		tx, err := s.ledger.RecordTransaction(ctx, usecase.RecordTransactionRequest{
			AccountID: t.account.ID,
			Type:      entity.TypeDeposit,
			Amount:    req.Amount,
			Reason:    reason,
			CreatedBy: req.TeacherID,
		})
		if err != nil {
			bulkErr := &errs.BulkAwardError{
				Completed: result.TransactionCount,
				Total:     len(targets),
				StudentID: t.studentID,
				Err:       err,
			}
			s.logger.Error("Bulk award stopped", bulkErr.LogFields())
			return result, bulkErr
		}
		result.TransactionCount++
		result.TransactionIDs = append(result.TransactionIDs, tx.ID)
	}

	s.logger.Info("Bulk award completed", map[string]any{
		"teacher_id":        req.TeacherID,
		"class_id":          req.ClassID,
		"amount":            req.Amount,
		"transaction_count": result.TransactionCount,
	})
	return result, nil
}

func validate(req usecase.AwardBulkRequest) error {
	if req.TeacherID == "" {
		return errs.ErrInvalidID
	}
	if len(req.StudentIDs) == 0 {
		return fmt.Errorf("%w: at least one student is required", errs.ErrValidation)
	}
	for _, id := range req.StudentIDs {
		if id == "" {
			return fmt.Errorf("%w: student id", errs.ErrInvalidID)
		}
	}
	if err := entity.ValidateAmount(req.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(req.Reason) == "" {
		return errs.ErrMissingReason
	}
	return nil
}

// dedupe drops repeated student ids, keeping the first occurrence
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// resolve finds the account of every student or reports all that are missing or ambiguous
func (s *Service) resolve(ctx context.Context, studentIDs []string, classID string) ([]target, error) {
	accounts := s.uow.GetAccountRepository(ctx)
	targets := make([]target, 0, len(studentIDs))
	unresolved := &errs.BulkResolutionError{}

	for _, studentID := range studentIDs {
		if classID != "" {
			account, err := accounts.FindByUserAndClass(ctx, studentID, classID)
			if errors.Is(err, errs.ErrAccountNotFound) {
				unresolved.Missing = append(unresolved.Missing, studentID)
				continue
			}
			if err != nil {
				return nil, err
			}
			targets = append(targets, target{studentID: studentID, account: account})
			continue
		}

		found, err := accounts.List(ctx, entity.AccountFilter{UserID: studentID})
		if err != nil {
			return nil, err
		}
		switch len(found) {
		case 0:
			unresolved.Missing = append(unresolved.Missing, studentID)
		case 1:
			targets = append(targets, target{studentID: studentID, account: found[0]})
		default:
			unresolved.Ambiguous = append(unresolved.Ambiguous, studentID)
		}
	}

	if len(unresolved.Missing) > 0 || len(unresolved.Ambiguous) > 0 {
		s.logger.Warn("Bulk award rejected", unresolved.LogFields())
		return nil, unresolved
	}
	return targets, nil
}

// authorize requires the teacher to own the class of every resolved account
func (s *Service) authorize(ctx context.Context, teacherID string, targets []target) error {
	classes := s.uow.GetClassRepository(ctx)
	checked := make(map[string]struct{})

	for _, t := range targets {
		if _, ok := checked[t.account.ClassID]; ok {
			continue
		}
		class, err := classes.GetByID(ctx, t.account.ClassID)
		if err != nil {
			return err
		}
		if !class.IsOwnedBy(teacherID) {
			s.logger.Warn("Bulk award refused", map[string]any{
				"teacher_id": teacherID,
				"class_id":   class.ID,
				"student_id": t.studentID,
			})
			return fmt.Errorf("%w: class %s", errs.ErrNotClassOwner, class.ID)
		}
		checked[class.ID] = struct{}{}
	}
	return nil
}
