package goal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/token-economy/internal/domain/usecase/policy"
)

// errAlreadyApproved aborts an approving ledger write when another review approved the submission first
var errAlreadyApproved = errors.New("submission already approved")

// Service implements the goal submission workflow
type Service struct {
	uow          persistence.UnitOfWork
	ledger       usecase.LedgerUseCase
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.GoalUseCase = (*Service)(nil)

// NewService creates a new goal submission service
func NewService(
	uow persistence.UnitOfWork,
	ledger usecase.LedgerUseCase,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		ledger:       ledger,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// SubmitGoals creates one pending submission per item, snapshotting each goal's points.
// Either every item is stored or none is.
func (s *Service) SubmitGoals(ctx context.Context, studentID string, items []usecase.GoalSubmissionItem) ([]*entity.GoalSubmission, error) {
	if studentID == "" {
		return nil, errs.ErrInvalidID
	}
	if len(items) == 0 {
		return nil, errs.ErrEmptySubmission
	}

	now := s.timeProvider.Now()
	submissions := make([]*entity.GoalSubmission, 0, len(items))
	defaultClass := ""
	for _, item := range items {
		if item.GoalID == "" {
			return nil, errs.ErrInvalidID
		}
		if item.ClassID == "" {
			if defaultClass == "" {
				classID, err := s.enrolledClass(ctx, studentID)
				if err != nil {
					return nil, err
				}
				defaultClass = classID
			}
			item.ClassID = defaultClass
		}
		goal, err := s.uow.GetGoalRepository(ctx).GetByID(ctx, item.GoalID)
		if err != nil {
			return nil, err
		}
		if !goal.OfferedIn(item.ClassID) {
			return nil, fmt.Errorf("%w: goal %s is not offered in class %s", errs.ErrValidation, goal.ID, item.ClassID)
		}
		if _, err := s.uow.GetAccountRepository(ctx).FindByUserAndClass(ctx, studentID, item.ClassID); err != nil {
			return nil, err
		}

		submission, err := entity.NewGoalSubmission(uuid.NewString(), studentID, item.ClassID, goal, strings.TrimSpace(item.Description), now)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	repo := s.uow.GetGoalSubmissionRepository(txCtx)
	for _, submission := range submissions {
		if err := repo.Create(txCtx, submission); err != nil {
			_ = s.uow.Rollback(txCtx)
			return nil, err
		}
	}
	if err := s.uow.Commit(txCtx); err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	s.logger.Info("Goals submitted", map[string]any{
		"student_id": studentID,
		"count":      len(submissions),
	})
	return submissions, nil
}

// enrolledClass resolves the class of a student holding exactly one account
func (s *Service) enrolledClass(ctx context.Context, studentID string) (string, error) {
	accounts, err := s.uow.GetAccountRepository(ctx).List(ctx, entity.AccountFilter{UserID: studentID})
	if err != nil {
		return "", err
	}
	switch len(accounts) {
	case 0:
		return "", errs.ErrAccountNotFound
	case 1:
		return accounts[0].ClassID, nil
	default:
		return "", errs.ErrAmbiguousClass
	}
}

// ReviewSubmission moves a pending submission to approved or denied.
// Approval credits the submission's points exactly once; reviewing again with the same status changes nothing.
func (s *Service) ReviewSubmission(ctx context.Context, actor entity.Actor, submissionID string, req usecase.ReviewSubmissionRequest) (*entity.GoalSubmission, error) {
	if !req.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidStatus, req.Status)
	}
	if req.Points != nil {
		if err := entity.ValidatePoints(*req.Points); err != nil {
			return nil, err
		}
	}

	submission, err := s.load(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if _, err := policy.RequireClassOwner(ctx, s.uow.GetClassRepository(ctx), actor, submission.ClassID); err != nil {
		s.logger.Warn("Goal submission review refused", map[string]any{
			"submission_id": submissionID,
			"actor_id":      actor.ID,
			"error":         err.Error(),
		})
		return nil, err
	}

	if submission.Status == req.Status {
		s.logger.Info("Goal submission already reviewed", map[string]any{
			"submission_id": submission.ID,
			"status":        string(submission.Status),
		})
		return submission, nil
	}
	if !submission.Status.CanTransitionTo(req.Status) {
		return nil, errs.NewTransitionError("goal_submission", submission.ID, string(submission.Status), string(req.Status), errs.ErrSubmissionNotPending)
	}

	points := submission.Points
	if req.Points != nil {
		points = *req.Points
	}
	stamp := persistence.ReviewStamp{
		Status:     req.Status,
		ReviewedBy: actor.ID,
		ReviewedAt: s.timeProvider.Now(),
	}

	if req.Status == entity.StatusDenied || points == 0 {
		ok, err := s.uow.GetGoalSubmissionRepository(ctx).TransitionFromPending(ctx, submission.ID, stamp, points)
		if err != nil {
			return nil, err
		}
		if !ok {
			return s.resolveLostRace(ctx, submission.ID, req.Status)
		}
		applyReview(submission, stamp, points)
		s.logger.Info("Goal submission reviewed", map[string]any{
			"submission_id": submission.ID,
			"status":        string(req.Status),
			"points":        points,
			"reviewed_by":   actor.ID,
		})
		return submission, nil
	}

	account, err := s.uow.GetAccountRepository(ctx).FindByUserAndClass(ctx, submission.StudentID, submission.ClassID)
	if err != nil {
		return nil, err
	}

	credit, err := s.ledger.RecordTransaction(ctx, usecase.RecordTransactionRequest{
		AccountID: account.ID,
		Type:      entity.TypeDeposit,
		Amount:    points,
		Reason:    submission.CreditReason(),
		CreatedBy: actor.ID,
		// the credit is only booked on the pending -> approved edge
		Companion: func(txCtx context.Context, _ *entity.Account) error {
			ok, err := s.uow.GetGoalSubmissionRepository(txCtx).TransitionFromPending(txCtx, submission.ID, stamp, points)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
			current, err := s.uow.GetGoalSubmissionRepository(txCtx).GetByID(txCtx, submission.ID)
			if err != nil {
				return err
			}
			if current.Status == entity.StatusApproved {
				return errAlreadyApproved
			}
			return errs.NewTransitionError("goal_submission", submission.ID, string(current.Status), string(req.Status), errs.ErrSubmissionNotPending)
		},
	})
	if errors.Is(err, errAlreadyApproved) {
		return s.load(ctx, submission.ID)
	}
	if err != nil {
		return nil, err
	}

	applyReview(submission, stamp, points)
	s.logger.Info("Goal submission approved", map[string]any{
		"submission_id":  submission.ID,
		"points":         points,
		"reviewed_by":    actor.ID,
		"transaction_id": credit.ID,
		"account_id":     account.ID,
	})
	return submission, nil
}

// EditSubmission lets a student change the description of their own pending submission on the day it was made
func (s *Service) EditSubmission(ctx context.Context, actor entity.Actor, submissionID string, req usecase.EditSubmissionRequest) (*entity.GoalSubmission, error) {
	if !actor.IsStudent() {
		return nil, fmt.Errorf("%w: %s", errs.ErrRoleNotAllowed, actor.Role)
	}

	submission, err := s.load(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	if err := submission.StudentMayChange(actor.ID, now, s.timeProvider.Location()); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Description)
	ok, err := s.uow.GetGoalSubmissionRepository(ctx).UpdatePending(ctx, submission.ID, description, submission.Points, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.ErrEditWindowEnded
	}

	submission.Description = description
	submission.UpdatedAt = now
	s.logger.Info("Goal submission edited", map[string]any{
		"submission_id": submission.ID,
		"student_id":    actor.ID,
	})
	return submission, nil
}

// DeleteSubmission removes a submission. Teachers may delete any submission of their classes,
// students only their own pending submissions made today. The ledger is never touched.
func (s *Service) DeleteSubmission(ctx context.Context, actor entity.Actor, submissionID string) error {
	if submissionID == "" {
		return errs.ErrInvalidID
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.uow.Rollback(txCtx)
		}
	}()

	repo := s.uow.GetGoalSubmissionRepository(txCtx)
	submission, err := repo.GetByID(txCtx, submissionID)
	if err != nil {
		return err
	}

	switch {
	case actor.IsTeacher():
		if _, err := policy.RequireClassOwner(txCtx, s.uow.GetClassRepository(txCtx), actor, submission.ClassID); err != nil {
			return err
		}
		if err := repo.Delete(txCtx, submissionID); err != nil {
			return err
		}
	case actor.IsStudent():
		if err := submission.StudentMayChange(actor.ID, s.timeProvider.Now(), s.timeProvider.Location()); err != nil {
			return err
		}
		// a review may have committed since the read
		ok, err := repo.DeletePending(txCtx, submissionID)
		if err != nil {
			return err
		}
		if !ok {
			return errs.ErrEditWindowEnded
		}
	default:
		return fmt.Errorf("%w: %s", errs.ErrRoleNotAllowed, actor.Role)
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	committed = true

	s.logger.Info("Goal submission deleted", map[string]any{
		"submission_id": submissionID,
		"actor_id":      actor.ID,
		"status":        string(submission.Status),
	})
	return nil
}

// FindPendingSubmissionsForStudentToday returns the student's pending submissions created
// on the current calendar day of the classroom zone
func (s *Service) FindPendingSubmissionsForStudentToday(ctx context.Context, studentID string) ([]*entity.GoalSubmission, error) {
	if studentID == "" {
		return nil, errs.ErrInvalidID
	}
	from, to := entity.DayBounds(s.timeProvider.Now(), s.timeProvider.Location())
	return s.uow.GetGoalSubmissionRepository(ctx).FindPendingForStudentBetween(ctx, studentID, from, to)
}

// ListSubmissions returns submissions matching the filter, newest first
func (s *Service) ListSubmissions(ctx context.Context, filter entity.GoalSubmissionFilter) ([]*entity.GoalSubmission, error) {
	if filter.Status != "" && !entity.IsValidReviewStatus(string(filter.Status)) {
		return nil, errs.ErrInvalidStatus
	}
	return s.uow.GetGoalSubmissionRepository(ctx).List(ctx, filter)
}

func (s *Service) load(ctx context.Context, submissionID string) (*entity.GoalSubmission, error) {
	if submissionID == "" {
		return nil, errs.ErrInvalidID
	}
	return s.uow.GetGoalSubmissionRepository(ctx).GetByID(ctx, submissionID)
}

// resolveLostRace handles a conditional transition that found the submission no longer pending
func (s *Service) resolveLostRace(ctx context.Context, submissionID string, target entity.ReviewStatus) (*entity.GoalSubmission, error) {
	current, err := s.load(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if current.Status == target {
		return current, nil
	}
	return nil, errs.NewTransitionError("goal_submission", submissionID, string(current.Status), string(target), errs.ErrSubmissionNotPending)
}

func applyReview(submission *entity.GoalSubmission, stamp persistence.ReviewStamp, points int64) {
	reviewedAt := stamp.ReviewedAt
	submission.Status = stamp.Status
	submission.Points = points
	submission.ReviewedBy = stamp.ReviewedBy
	submission.ReviewedAt = &reviewedAt
	submission.UpdatedAt = reviewedAt
}
