package bookings

import (
	"context"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/app/models"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRepository connects to BOOKINGS_TEST_MONGO_URI and returns a repository
// whose clock the test controls.
func mongoRepository(t *testing.T, clock *time.Time) *BookingMongoRepository {
	t.Helper()
	uri := os.Getenv("BOOKINGS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("BOOKINGS_TEST_MONGO_URI not set")
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	repo := NewBookingMongoRepository(client, "mediconnect_test").(*BookingMongoRepository)
	repo.now = func() time.Time { return *clock }
	return repo
}

func TestMongoAcquire(t *testing.T) {
	ctx := context.Background()
	clock := time.Now().UTC().Truncate(time.Millisecond)
	repo := mongoRepository(t, &clock)
	key := "D-" + uuid.NewString() + "#2025-01-01T10:00:00Z"

	require.NoError(t, repo.Acquire(ctx, key, "h1", time.Minute))

	t.Run("Live lock refuses another holder", func(t *testing.T) {
		assert.ErrorIs(t, repo.Acquire(ctx, key, "h2", time.Minute), contracts.ErrLockConflict)
	})

	t.Run("Expired lock is taken over", func(t *testing.T) {
		clock = clock.Add(2 * time.Minute)
		require.NoError(t, repo.Acquire(ctx, key, "h2", time.Minute))

		lock, err := repo.FindLock(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "h2", lock.HolderID)
	})

	t.Run("Booked lock is never taken over", func(t *testing.T) {
		require.NoError(t, repo.MarkBooked(ctx, key, "h2"))
		clock = clock.Add(24 * time.Hour)

		assert.ErrorIs(t, repo.Acquire(ctx, key, "h3", time.Minute), contracts.ErrLockConflict)

		lock, err := repo.FindLock(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, models.SlotLockBooked, lock.Status)
		assert.Nil(t, lock.ExpiresAt)
	})

	t.Run("Release only removes the named holder", func(t *testing.T) {
		require.NoError(t, repo.ReleaseIfHeld(ctx, key, "h3"))
		lock, err := repo.FindLock(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, lock)

		require.NoError(t, repo.ReleaseIfHeld(ctx, key, "h2"))
		lock, err = repo.FindLock(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, lock)
	})
}
