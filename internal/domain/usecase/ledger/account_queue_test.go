package ledger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	mockcore "github.com/amirhossein-jamali/token-economy/mocks/port/core"
)

func quietLogger(t *testing.T) *mockcore.MockLogger {
	mockLogger := mockcore.NewMockLogger(t)
	mockLogger.EXPECT().Debug(mock.Anything, mock.Anything).Maybe()
	mockLogger.EXPECT().Info(mock.Anything, mock.Anything).Maybe()
	mockLogger.EXPECT().Warn(mock.Anything, mock.Anything).Maybe()
	mockLogger.EXPECT().Error(mock.Anything, mock.Anything).Maybe()
	return mockLogger
}

func TestNewAccountQueue(t *testing.T) {
	t.Run("Nil processor function should panic", func(t *testing.T) {
		assert.Panics(t, func() {
			NewAccountQueue(quietLogger(t), nil)
		})
	})
}

func TestAccountQueue_Enqueue(t *testing.T) {
	t.Run("Returns the processor result", func(t *testing.T) {
		q := NewAccountQueue(quietLogger(t), func(ctx context.Context, req usecase.RecordTransactionRequest) (*entity.Transaction, error) {
			return &entity.Transaction{ID: "tx-1", AccountID: req.AccountID, Amount: req.Amount}, nil
		})
		defer q.Shutdown()

		tx, err := q.Enqueue(context.Background(), usecase.RecordTransactionRequest{AccountID: "acc-1", Amount: 10})

		require.NoError(t, err)
		assert.Equal(t, "tx-1", tx.ID)
		assert.Equal(t, int64(10), tx.Amount)
	})

	t.Run("Returns the processor error", func(t *testing.T) {
		q := NewAccountQueue(quietLogger(t), func(context.Context, usecase.RecordTransactionRequest) (*entity.Transaction, error) {
			return nil, errs.ErrAccountNotFound
		})
		defer q.Shutdown()

		tx, err := q.Enqueue(context.Background(), usecase.RecordTransactionRequest{AccountID: "missing"})

		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
		assert.Nil(t, tx)
	})

	t.Run("Requests for one account never overlap and keep arrival order", func(t *testing.T) {
		var running int32
		var overlapped atomic.Bool
		var mu sync.Mutex
		var order []int64

		q := NewAccountQueue(quietLogger(t), func(_ context.Context, req usecase.RecordTransactionRequest) (*entity.Transaction, error) {
			if atomic.AddInt32(&running, 1) > 1 {
				overlapped.Store(true)
			}
			time.Sleep(time.Millisecond)
			mu.Lock()
			order = append(order, req.Amount)
			mu.Unlock()
			atomic.AddInt32(&running, -1)
			return &entity.Transaction{}, nil
		})
		defer q.Shutdown()

		// sequential enqueue from one goroutine fixes the arrival order
		for i := int64(1); i <= 5; i++ {
			_, err := q.Enqueue(context.Background(), usecase.RecordTransactionRequest{AccountID: "acc-1", Amount: i})
			require.NoError(t, err)
		}

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = q.Enqueue(context.Background(), usecase.RecordTransactionRequest{AccountID: "acc-1", Amount: 100})
			}()
		}
		wg.Wait()

		assert.False(t, overlapped.Load())
		assert.Equal(t, []int64{1, 2, 3, 4, 5}, order[:5])
		assert.Len(t, order, 25)
	})

	t.Run("Different accounts are processed independently", func(t *testing.T) {
		release := make(chan struct{})
		q := NewAccountQueue(quietLogger(t), func(_ context.Context, req usecase.RecordTransactionRequest) (*entity.Transaction, error) {
			if req.AccountID == "slow" {
				<-release
			}
			return &entity.Transaction{AccountID: req.AccountID}, nil
		})
		defer q.Shutdown()

		done := make(chan error, 1)
		go func() {
			_, err := q.Enqueue(context.Background(), usecase.RecordTransactionRequest{AccountID: "slow"})
			done <- err
		}()

		tx, err := q.Enqueue(context.Background(), usecase.RecordTransactionRequest{AccountID: "fast"})
		require.NoError(t, err)
		assert.Equal(t, "fast", tx.AccountID)

		close(release)
		require.NoError(t, <-done)
	})

	t.Run("Context canceled while waiting", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{}, 1)
		var calls atomic.Int32
		q := NewAccountQueue(quietLogger(t), func(context.Context, usecase.RecordTransactionRequest) (*entity.Transaction, error) {
			calls.Add(1)
			started <- struct{}{}
			<-release
			return &entity.Transaction{}, nil
		})
		defer q.Shutdown()

		first := make(chan error, 1)
		go func() {
			_, err := q.Enqueue(context.Background(), usecase.RecordTransactionRequest{AccountID: "acc-1"})
			first <- err
		}()
		<-started

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := q.Enqueue(ctx, usecase.RecordTransactionRequest{AccountID: "acc-1"})
		assert.True(t, errors.Is(err, context.DeadlineExceeded))

		close(release)
		require.NoError(t, <-first)
		assert.Eventually(t, func() bool { return q.ActiveAccounts() == 0 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, int32(1), calls.Load(), "an abandoned request must not be applied")
	})

	t.Run("Committed result wins over a late cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := NewAccountQueue(quietLogger(t), func(_ context.Context, req usecase.RecordTransactionRequest) (*entity.Transaction, error) {
			cancel()
			return &entity.Transaction{AccountID: req.AccountID, Amount: 7}, nil
		})
		defer q.Shutdown()

		tx, err := q.Enqueue(ctx, usecase.RecordTransactionRequest{AccountID: "acc-1"})

		require.NoError(t, err)
		require.NotNil(t, tx)
		assert.Equal(t, int64(7), tx.Amount)
	})

	t.Run("Idle lanes are released", func(t *testing.T) {
		q := NewAccountQueue(quietLogger(t), func(context.Context, usecase.RecordTransactionRequest) (*entity.Transaction, error) {
			return &entity.Transaction{}, nil
		})
		defer q.Shutdown()

		for _, id := range []string{"a", "b", "c"} {
			_, err := q.Enqueue(context.Background(), usecase.RecordTransactionRequest{AccountID: id})
			require.NoError(t, err)
		}

		assert.Eventually(t, func() bool { return q.ActiveAccounts() == 0 }, time.Second, 5*time.Millisecond)
	})
}

func TestAccountQueue_Shutdown(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var processed atomic.Int32

	q := NewAccountQueue(quietLogger(t), func(_ context.Context, req usecase.RecordTransactionRequest) (*entity.Transaction, error) {
		if req.AccountID != "acc-1" {
			return &entity.Transaction{}, nil
		}
		close(started)
		<-release
		processed.Add(1)
		return &entity.Transaction{}, nil
	})

	inFlight := make(chan error, 1)
	go func() {
		_, err := q.Enqueue(context.Background(), usecase.RecordTransactionRequest{AccountID: "acc-1"})
		inFlight <- err
	}()
	<-started

	shutdownDone := make(chan struct{})
	go func() {
		q.Shutdown()
		close(shutdownDone)
	}()

	// new work is refused once shutdown has begun
	assert.Eventually(t, func() bool {
		_, err := q.Enqueue(context.Background(), usecase.RecordTransactionRequest{AccountID: "acc-2"})
		return errors.Is(err, errs.ErrShuttingDown)
	}, time.Second, 5*time.Millisecond)

	select {
	case <-shutdownDone:
		t.Fatal("shutdown returned before the in-flight request finished")
	default:
	}

	close(release)
	require.NoError(t, <-inFlight)
	<-shutdownDone
	assert.Equal(t, int32(1), processed.Load())
}
