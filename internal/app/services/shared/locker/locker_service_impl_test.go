package locker

import (
	"context"
	"errors"
	"mediconnect-service/internal/app/contracts/mocks"
	"mediconnect-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const leaderKey = "booking:sweeper:leader"

func TestAcquire(t *testing.T) {
	t.Run("acquired returns the lease token", func(t *testing.T) {
		repo := new(mocks.MockRedisRepository)
		repo.On("TrySetNX", mock.Anything, leaderKey, mock.AnythingOfType("string"), time.Minute).Return(true, nil)

		acquired, token, err := NewLockService(repo, zap.NewNop()).Acquire(context.Background(), leaderKey, time.Minute)

		require.NoError(t, err)
		assert.True(t, acquired)
		assert.NotEmpty(t, token)
		repo.AssertExpectations(t)
	})

	t.Run("held elsewhere", func(t *testing.T) {
		repo := new(mocks.MockRedisRepository)
		repo.On("TrySetNX", mock.Anything, leaderKey, mock.Anything, time.Minute).Return(false, nil)

		acquired, token, err := NewLockService(repo, zap.NewNop()).Acquire(context.Background(), leaderKey, time.Minute)

		require.NoError(t, err)
		assert.False(t, acquired)
		assert.Empty(t, token)
	})

	t.Run("redis failure", func(t *testing.T) {
		repo := new(mocks.MockRedisRepository)
		repo.On("TrySetNX", mock.Anything, leaderKey, mock.Anything, time.Minute).Return(false, exceptions.ErrRedisSet(errors.New("down")))

		acquired, _, err := NewLockService(repo, zap.NewNop()).Acquire(context.Background(), leaderKey, time.Minute)

		assert.Error(t, err)
		assert.False(t, acquired)
	})
}

func TestRelease(t *testing.T) {
	t.Run("releases own lease", func(t *testing.T) {
		repo := new(mocks.MockRedisRepository)
		repo.On("DeleteIfValue", mock.Anything, leaderKey, "token-1").Return(true, nil)

		err := NewLockService(repo, zap.NewNop()).Release(context.Background(), leaderKey, "token-1")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("lost lease is not an error", func(t *testing.T) {
		repo := new(mocks.MockRedisRepository)
		repo.On("DeleteIfValue", mock.Anything, leaderKey, "token-1").Return(false, nil)

		err := NewLockService(repo, zap.NewNop()).Release(context.Background(), leaderKey, "token-1")

		assert.NoError(t, err)
	})

	t.Run("redis failure", func(t *testing.T) {
		repo := new(mocks.MockRedisRepository)
		repo.On("DeleteIfValue", mock.Anything, leaderKey, "token-1").Return(false, exceptions.ErrRedisDelete(errors.New("down")))

		err := NewLockService(repo, zap.NewNop()).Release(context.Background(), leaderKey, "token-1")

		assert.Error(t, err)
	})
}

func TestExtend(t *testing.T) {
	t.Run("extends own lease", func(t *testing.T) {
		repo := new(mocks.MockRedisRepository)
		repo.On("ExpireIfValue", mock.Anything, leaderKey, "token-1", time.Minute).Return(true, nil)

		err := NewLockService(repo, zap.NewNop()).Extend(context.Background(), leaderKey, "token-1", time.Minute)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("lost lease fails", func(t *testing.T) {
		repo := new(mocks.MockRedisRepository)
		repo.On("ExpireIfValue", mock.Anything, leaderKey, "token-1", time.Minute).Return(false, nil)

		err := NewLockService(repo, zap.NewNop()).Extend(context.Background(), leaderKey, "token-1", time.Minute)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
	})
}
