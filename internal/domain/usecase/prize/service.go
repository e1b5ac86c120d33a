package prize

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/token-economy/internal/domain/usecase/policy"
)

// Service implements prize redemption with escrow: the account is debited when the
// request is made, approval has no balance effect and denial refunds the debit.
type Service struct {
	uow          persistence.UnitOfWork
	ledger       usecase.LedgerUseCase
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.PrizeUseCase = (*Service)(nil)

// NewService creates a new prize redemption service
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

// RequestPrize creates a pending request and debits its effective cost in the same store transaction
func (s *Service) RequestPrize(ctx context.Context, req usecase.RequestPrizeRequest) (*entity.PrizeRequest, error) {
	if req.StudentID == "" || req.PrizeID == "" || req.ClassID == "" {
		return nil, errs.ErrInvalidID
	}

	prize, err := s.uow.GetPrizeRepository(ctx).GetByID(ctx, req.PrizeID)
	if err != nil {
		return nil, err
	}
	if !prize.Available {
		return nil, errs.ErrPrizeUnavailable
	}

	cost, err := entity.EffectiveCost(prize, req.CustomAmount)
	if err != nil {
		return nil, err
	}

	account, err := s.uow.GetAccountRepository(ctx).FindByUserAndClass(ctx, req.StudentID, req.ClassID)
	if err != nil {
		return nil, err
	}

	request, err := entity.NewPrizeRequest(uuid.NewString(), req.StudentID, req.ClassID, prize, req.CustomAmount, req.Reason, s.timeProvider.Now())
	if err != nil {
		return nil, err
	}

	_, err = s.ledger.RecordTransaction(ctx, usecase.RecordTransactionRequest{
		AccountID: account.ID,
		Type:      entity.TypePrizeRedemption,
		Amount:    cost,
		Reason:    request.RedemptionReason(),
		Notes:     req.Reason,
		CreatedBy: req.StudentID,
		Precondition: func(locked *entity.Account) error {
			if !locked.CanAfford(cost) {
				return errs.NewInsufficientFundsError(locked.ID, cost, locked.Balance())
			}
			return nil
		},
		// the request row commits or rolls back together with the debit
		Companion: func(txCtx context.Context, _ *entity.Account) error {
			return s.uow.GetPrizeRequestRepository(txCtx).Create(txCtx, request)
		},
	})
	if err != nil {
		fields := errs.LogFields(err)
		fields["student_id"] = req.StudentID
		fields["prize_id"] = req.PrizeID
		fields["class_id"] = req.ClassID
		s.logger.Warn("Prize request rejected", fields)
		return nil, err
	}

	s.logger.Info("Prize requested", map[string]any{
		"request_id": request.ID,
		"student_id": request.StudentID,
		"prize_id":   request.PrizeID,
		"amount":     cost,
	})
	return request, nil
}

// ApprovePrizeRequest closes a pending request. The balance was already debited on request.
func (s *Service) ApprovePrizeRequest(ctx context.Context, actor entity.Actor, requestID, notes string) (*entity.PrizeRequest, error) {
	request, err := s.reviewable(ctx, actor, requestID, entity.StatusApproved)
	if err != nil {
		return nil, err
	}

	stamp := persistence.ReviewStamp{
		Status:     entity.StatusApproved,
		ReviewedBy: actor.ID,
		ReviewedAt: s.timeProvider.Now(),
		Notes:      strings.TrimSpace(notes),
	}
	ok, err := s.uow.GetPrizeRequestRepository(ctx).TransitionFromPending(ctx, requestID, stamp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.lostRace(ctx, requestID, entity.StatusApproved)
	}

	applyStamp(request, stamp)
	s.logger.Info("Prize request approved", map[string]any{
		"request_id":  request.ID,
		"reviewed_by": actor.ID,
	})
	return request, nil
}

// DenyPrizeRequest closes a pending request and refunds its effective amount.
// The status change and the refund are written in one store transaction, so a request is refunded at most once.
func (s *Service) DenyPrizeRequest(ctx context.Context, actor entity.Actor, requestID, notes string) (*entity.PrizeRequest, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, errs.ErrMissingNotes
	}

	request, err := s.reviewable(ctx, actor, requestID, entity.StatusDenied)
	if err != nil {
		return nil, err
	}

	account, err := s.uow.GetAccountRepository(ctx).FindByUserAndClass(ctx, request.StudentID, request.ClassID)
	if err != nil {
		return nil, err
	}

	stamp := persistence.ReviewStamp{
		Status:     entity.StatusDenied,
		ReviewedBy: actor.ID,
		ReviewedAt: s.timeProvider.Now(),
		Notes:      notes,
	}
	refund, err := s.ledger.RecordTransaction(ctx, usecase.RecordTransactionRequest{
		AccountID: account.ID,
		Type:      entity.TypeDeposit,
		Amount:    request.EffectiveAmount(),
		Reason:    request.RefundReason(),
		Notes:     notes,
		CreatedBy: actor.ID,
		Companion: func(txCtx context.Context, _ *entity.Account) error {
			ok, err := s.uow.GetPrizeRequestRepository(txCtx).TransitionFromPending(txCtx, requestID, stamp)
			if err != nil {
				return err
			}
			if !ok {
				return s.lostRace(txCtx, requestID, entity.StatusDenied)
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	applyStamp(request, stamp)
	s.logger.Info("Prize request denied and refunded", map[string]any{
		"request_id":    request.ID,
		"reviewed_by":   actor.ID,
		"refund_id":     refund.ID,
		"refund_amount": refund.Amount,
		"balance_after": refund.BalanceAfter,
		"account_id":    account.ID,
	})
	return request, nil
}

// ListPrizeRequests returns requests matching the filter, newest first
func (s *Service) ListPrizeRequests(ctx context.Context, filter entity.PrizeRequestFilter) ([]*entity.PrizeRequest, error) {
	if filter.Status != "" && !entity.IsValidReviewStatus(string(filter.Status)) {
		return nil, errs.ErrInvalidStatus
	}
	return s.uow.GetPrizeRequestRepository(ctx).List(ctx, filter)
}

// ListRecentlyReviewed returns approved and denied requests, latest review first
func (s *Service) ListRecentlyReviewed(ctx context.Context, filter entity.PrizeRequestFilter) ([]*entity.PrizeRequest, error) {
	filter.Status = ""
	return s.uow.GetPrizeRequestRepository(ctx).ListReviewed(ctx, filter)
}

// reviewable loads a request the actor may review and checks that it is still pending
func (s *Service) reviewable(ctx context.Context, actor entity.Actor, requestID string, target entity.ReviewStatus) (*entity.PrizeRequest, error) {
	if requestID == "" {
		return nil, errs.ErrInvalidID
	}

	request, err := s.uow.GetPrizeRequestRepository(ctx).GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if _, err := policy.RequireClassOwner(ctx, s.uow.GetClassRepository(ctx), actor, request.ClassID); err != nil {
		s.logger.Warn("Prize request review refused", map[string]any{
			"request_id": requestID,
			"actor_id":   actor.ID,
			"error":      err.Error(),
		})
		return nil, err
	}
	if !request.Status.CanTransitionTo(target) {
		return nil, errs.NewTransitionError("prize_request", requestID, string(request.Status), string(target), errs.ErrRequestNotPending)
	}
	return request, nil
}

// lostRace reports a conditional transition that matched no pending row
func (s *Service) lostRace(ctx context.Context, requestID string, target entity.ReviewStatus) error {
	from := "reviewed"
	if current, err := s.uow.GetPrizeRequestRepository(ctx).GetByID(ctx, requestID); err == nil {
		from = string(current.Status)
	}
	s.logger.Warn("Prize request reviewed concurrently", map[string]any{
		"request_id": requestID,
		"status":     from,
		"target":     string(target),
	})
	return errs.NewTransitionError("prize_request", requestID, from, string(target), errs.ErrRequestNotPending)
}

func applyStamp(request *entity.PrizeRequest, stamp persistence.ReviewStamp) {
	reviewedAt := stamp.ReviewedAt
	request.Status = stamp.Status
	request.ReviewedBy = stamp.ReviewedBy
	request.ReviewedAt = &reviewedAt
	request.ReviewNotes = stamp.Notes
}
