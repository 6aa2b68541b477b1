//go:build mongo

package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/pkg/client"
	"roombook/pkg/config"
	"roombook/pkg/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// newMongoRepo connects to MONGO_URI (default localhost) and gives each test
// its own throwaway database. Tests skip when no server answers.
func newMongoRepo(t *testing.T) (BookingRepository, *mongo.Collection) {
	t.Helper()

	uri := os.Getenv(config.EnvMongoURI)
	if uri == "" {
		uri = config.DefaultMongoURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	if err := mc.Ping(ctx, nil); err != nil {
		_ = mc.Disconnect(context.Background())
		t.Skipf("mongo not reachable at %s: %v", uri, err)
	}

	dbName := "roombook_test_" + uuid.NewString()[:8]
	t.Cleanup(func() {
		_ = mc.Database(dbName).Drop(context.Background())
		_ = mc.Disconnect(context.Background())
	})

	cfg := &config.Config{
		MongoDatabaseName: dbName,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		Client:            &client.Client{Mongo: mc},
	}
	return NewMongoBookingRepository(cfg), mc.Database(dbName).Collection(CollectionName)
}

func appendAll(t *testing.T, repo BookingRepository, date string, descriptions ...string) {
	t.Helper()
	for _, d := range descriptions {
		_, err := repo.Append(context.Background(), date, model.BookingEntry{Description: d, Assigned: "Alice"})
		require.NoError(t, err)
	}
}

func descriptionsOf(bucket *model.DateBucket) []string {
	out := make([]string, 0, len(bucket.Bookings))
	for _, b := range bucket.Bookings {
		out = append(out, b.Description)
	}
	return out
}

func TestMongoAppend_CreatesThenAppends(t *testing.T) {
	repo, _ := newMongoRepo(t)
	ctx := context.Background()

	bucket, err := repo.Append(ctx, "2025-06-01", model.BookingEntry{Description: "Fix AC", Assigned: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", bucket.Date)
	assert.Equal(t, []string{"Fix AC"}, descriptionsOf(bucket))

	bucket, err = repo.Append(ctx, "2025-06-01", model.BookingEntry{Description: "Standup", Assigned: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fix AC", "Standup"}, descriptionsOf(bucket))
}

func TestMongoRemoveAt_ShiftsLaterEntries(t *testing.T) {
	repo, _ := newMongoRepo(t)
	ctx := context.Background()
	appendAll(t, repo, "2025-06-01", "first", "second", "third")

	remaining, err := repo.RemoveAt(ctx, "2025-06-01", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	bucket, err := repo.FindByDate(ctx, "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "third"}, descriptionsOf(bucket))

	remaining, err = repo.RemoveAt(ctx, "2025-06-01", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	bucket, err = repo.FindByDate(ctx, "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, descriptionsOf(bucket))
}

func TestMongoRemoveAt_Misses(t *testing.T) {
	repo, _ := newMongoRepo(t)
	ctx := context.Background()
	appendAll(t, repo, "2025-06-01", "only")

	tests := []struct {
		name    string
		date    string
		index   int
		wantErr error
	}{
		{"index past end", "2025-06-01", 5, bookingserrors.ErrIndexOutOfRange},
		{"index equal to length", "2025-06-01", 1, bookingserrors.ErrIndexOutOfRange},
		{"negative index", "2025-06-01", -1, bookingserrors.ErrIndexOutOfRange},
		{"unknown date", "2099-01-01", 0, bookingserrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.RemoveAt(ctx, tt.date, tt.index)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	bucket, err := repo.FindByDate(ctx, "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, descriptionsOf(bucket), "misses must not change the bucket")
}

func TestMongoRemoveAt_LastEntryDeletesBucket(t *testing.T) {
	repo, coll := newMongoRepo(t)
	ctx := context.Background()
	appendAll(t, repo, "2025-06-01", "only")
	appendAll(t, repo, "2025-06-02", "other")

	remaining, err := repo.RemoveAt(ctx, "2025-06-01", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	count, err := coll.CountDocuments(ctx, bson.M{"_id": "2025-06-01"})
	require.NoError(t, err)
	assert.Zero(t, count, "emptied bucket should be deleted")

	_, err = repo.FindByDate(ctx, "2025-06-01")
	assert.ErrorIs(t, err, bookingserrors.ErrNotFound)

	_, err = repo.RemoveAt(ctx, "2025-06-01", 0)
	assert.ErrorIs(t, err, bookingserrors.ErrNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2025-06-02", all[0].Date)
}

func TestMongoFind_IgnoresEmptyLeftovers(t *testing.T) {
	repo, coll := newMongoRepo(t)
	ctx := context.Background()

	_, err := coll.InsertOne(ctx, bson.M{"_id": "2025-06-03", "bookings": bson.A{}})
	require.NoError(t, err)
	appendAll(t, repo, "2025-06-04", "kept")

	_, err = repo.FindByDate(ctx, "2025-06-03")
	assert.ErrorIs(t, err, bookingserrors.ErrNotFound)

	_, err = repo.RemoveAt(ctx, "2025-06-03", 0)
	assert.ErrorIs(t, err, bookingserrors.ErrNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2025-06-04", all[0].Date)
}

func TestMongoAppend_ConcurrentFirstInserts(t *testing.T) {
	repo, _ := newMongoRepo(t)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Append(ctx, "2025-06-05", model.BookingEntry{
				Description: fmt.Sprintf("slot %d", i),
				Assigned:    "Alice",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	bucket, err := repo.FindByDate(ctx, "2025-06-05")
	require.NoError(t, err)
	assert.Len(t, bucket.Bookings, writers)
}
