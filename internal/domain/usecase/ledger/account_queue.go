package ledger

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
)

const laneBuffer = 100

// ProcessorFunc applies one ledger request. The queue guarantees that calls
// for the same account never overlap.
type ProcessorFunc func(ctx context.Context, req usecase.RecordTransactionRequest) (*entity.Transaction, error)

// AccountQueue provides sequential processing of ledger requests per account.
// A worker goroutine lives only while its account has requests in flight.
type AccountQueue struct {
	logger    coreport.Logger
	processor ProcessorFunc

	mu      sync.Mutex
	lanes   map[string]*lane
	closed  bool
	workers sync.WaitGroup
}

type lane struct {
	requests chan *queuedRequest
	pending  int
}

// request states; a request is either claimed by its worker or abandoned by its caller, never both
const (
	stateQueued int32 = iota
	stateClaimed
	stateAbandoned
)

type queuedRequest struct {
	ctx        context.Context
	req        usecase.RecordTransactionRequest
	resultChan chan queuedResult
	state      atomic.Int32
}

type queuedResult struct {
	transaction *entity.Transaction
	err         error
}

// NewAccountQueue creates a new account queue
func NewAccountQueue(logger coreport.Logger, processor ProcessorFunc) *AccountQueue {
	if processor == nil {
		panic("ledger processor function cannot be nil")
	}

	return &AccountQueue{
		logger:    logger,
		processor: processor,
		lanes:     make(map[string]*lane),
	}
}

// Enqueue hands the request to its account's worker and waits for the outcome
func (q *AccountQueue) Enqueue(ctx context.Context, req usecase.RecordTransactionRequest) (*entity.Transaction, error) {
	l, err := q.acquire(req.AccountID)
	if err != nil {
		return nil, err
	}

	resultChan := make(chan queuedResult, 1)
	// the worker keeps draining while pending > 0, so this send cannot block forever
	item := &queuedRequest{ctx: ctx, req: req, resultChan: resultChan}
	l.requests <- item

	select {
	case result := <-resultChan:
		return result.transaction, result.err
	case <-ctx.Done():
	}

	if !item.state.CompareAndSwap(stateQueued, stateAbandoned) {
		// already claimed: the worker may have committed, so report what it did
		result := <-resultChan
		return result.transaction, result.err
	}
	q.logger.Warn("Context canceled while waiting for ledger result", map[string]any{
		"account_id": req.AccountID,
		"error":      ctx.Err().Error(),
	})
	return nil, ctx.Err()
}

// acquire registers one in-flight request on the account's lane, starting a worker if needed
func (q *AccountQueue) acquire(accountID string) (*lane, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, errs.ErrShuttingDown
	}

	l, ok := q.lanes[accountID]
	if !ok {
		l = &lane{requests: make(chan *queuedRequest, laneBuffer)}
		q.lanes[accountID] = l
		q.workers.Add(1)
		go q.work(accountID, l)
	}
	l.pending++
	return l, nil
}

// release marks one request done and reports whether the worker should exit
func (q *AccountQueue) release(accountID string, l *lane) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	l.pending--
	if l.pending > 0 {
		return false
	}
	delete(q.lanes, accountID)
	return true
}

func (q *AccountQueue) work(accountID string, l *lane) {
	defer q.workers.Done()

	q.logger.Debug("Ledger worker started", map[string]any{"account_id": accountID})
	for {
		item := <-l.requests

		var result queuedResult
		if !item.state.CompareAndSwap(stateQueued, stateClaimed) {
			result.err = item.ctx.Err()
		} else if err := item.ctx.Err(); err != nil {
			result.err = err
		} else {
			result.transaction, result.err = q.processor(item.ctx, item.req)
		}
		item.resultChan <- result

		if q.release(accountID, l) {
			q.logger.Debug("Ledger worker stopped", map[string]any{"account_id": accountID})
			return
		}
	}
}

// ActiveAccounts returns the number of accounts with requests in flight
func (q *AccountQueue) ActiveAccounts() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lanes)
}

// Shutdown rejects new requests and waits for in-flight ones to finish
func (q *AccountQueue) Shutdown() {
	q.logger.Info("Shutting down ledger queue", nil)

	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.workers.Wait()
	q.logger.Info("Ledger queue shut down successfully", nil)
}
