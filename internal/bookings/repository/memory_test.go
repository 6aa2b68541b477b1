package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(desc, who string) model.BookingEntry {
	return model.BookingEntry{Description: desc, Assigned: who}
}

func TestMemory_AppendThenFind(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	bucket, err := repo.Append(ctx, "2025-06-01", entry("Fix AC", "Alice"))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", bucket.Date)
	assert.Equal(t, []model.BookingEntry{entry("Fix AC", "Alice")}, bucket.Bookings)

	found, err := repo.FindByDate(ctx, "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, []model.BookingEntry{entry("Fix AC", "Alice")}, found.Bookings)
}

func TestMemory_AppendPreservesOrder(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	_, err := repo.Append(ctx, "2025-06-01", entry("first", "A"))
	require.NoError(t, err)
	bucket, err := repo.Append(ctx, "2025-06-01", entry("second", "B"))
	require.NoError(t, err)

	require.Len(t, bucket.Bookings, 2)
	assert.Equal(t, "first", bucket.Bookings[0].Description)
	assert.Equal(t, "second", bucket.Bookings[1].Description)
}

func TestMemory_FindByDate_Missing(t *testing.T) {
	repo := NewMemoryBookingRepository()

	bucket, err := repo.FindByDate(context.Background(), "2099-01-01")
	assert.ErrorIs(t, err, bookingserrors.ErrNotFound)
	assert.Nil(t, bucket)
}

func TestMemory_ReturnedBucketIsACopy(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	bucket, err := repo.Append(ctx, "2025-06-01", entry("Fix AC", "Alice"))
	require.NoError(t, err)
	bucket.Bookings[0].Description = "tampered"

	found, err := repo.FindByDate(ctx, "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, "Fix AC", found.Bookings[0].Description)
}

func TestMemory_RemoveAt(t *testing.T) {
	tests := []struct {
		name      string
		seed      []model.BookingEntry
		index     int
		wantErr   error
		wantLeft  []model.BookingEntry
		wantCount int
	}{
		{
			name:      "remove first of two shifts the second down",
			seed:      []model.BookingEntry{entry("first", "A"), entry("second", "B")},
			index:     0,
			wantLeft:  []model.BookingEntry{entry("second", "B")},
			wantCount: 1,
		},
		{
			name:      "remove last of three",
			seed:      []model.BookingEntry{entry("a", "A"), entry("b", "B"), entry("c", "C")},
			index:     2,
			wantLeft:  []model.BookingEntry{entry("a", "A"), entry("b", "B")},
			wantCount: 2,
		},
		{
			name:     "index past the end changes nothing",
			seed:     []model.BookingEntry{entry("only", "A")},
			index:    5,
			wantErr:  bookingserrors.ErrIndexOutOfRange,
			wantLeft: []model.BookingEntry{entry("only", "A")},
		},
		{
			name:     "negative index changes nothing",
			seed:     []model.BookingEntry{entry("only", "A")},
			index:    -1,
			wantErr:  bookingserrors.ErrIndexOutOfRange,
			wantLeft: []model.BookingEntry{entry("only", "A")},
		},
		{
			name:    "unknown date",
			index:   0,
			wantErr: bookingserrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMemoryBookingRepository()
			ctx := context.Background()
			for _, e := range tt.seed {
				_, err := repo.Append(ctx, "2025-06-01", e)
				require.NoError(t, err)
			}

			remaining, err := repo.RemoveAt(ctx, "2025-06-01", tt.index)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantCount, remaining)
			}

			if len(tt.wantLeft) == 0 {
				return
			}
			bucket, err := repo.FindByDate(ctx, "2025-06-01")
			require.NoError(t, err)
			assert.Equal(t, tt.wantLeft, bucket.Bookings)
		})
	}
}

func TestMemory_RemovingLastEntryDropsBucket(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	_, err := repo.Append(ctx, "2025-06-01", entry("Fix AC", "Alice"))
	require.NoError(t, err)

	remaining, err := repo.RemoveAt(ctx, "2025-06-01", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = repo.FindByDate(ctx, "2025-06-01")
	assert.ErrorIs(t, err, bookingserrors.ErrNotFound)

	_, err = repo.RemoveAt(ctx, "2025-06-01", 0)
	assert.ErrorIs(t, err, bookingserrors.ErrNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	bucket, err := repo.Append(ctx, "2025-06-01", entry("again", "Bob"))
	require.NoError(t, err)
	assert.Len(t, bucket.Bookings, 1)
}

func TestMemory_FindAll_SortedAndNonEmpty(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	for _, d := range []string{"2025-06-03", "2025-06-01", "2025-06-02"} {
		_, err := repo.Append(ctx, d, entry("x", "A"))
		require.NoError(t, err)
	}
	_, err := repo.RemoveAt(ctx, "2025-06-02", 0)
	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)

	dates := make([]string, 0, len(all))
	for _, b := range all {
		assert.NotEmpty(t, b.Bookings)
		dates = append(dates, b.Date)
	}
	assert.Equal(t, []string{"2025-06-01", "2025-06-03"}, dates)
}

func TestMemory_FindAll_EmptyStoreIsEmptySlice(t *testing.T) {
	all, err := NewMemoryBookingRepository().FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestMemory_ConcurrentAppendSameDate(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	const writers = 50
	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Append(ctx, "2025-06-01", entry(fmt.Sprintf("job %d", i), "Alice"))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	bucket, err := repo.FindByDate(ctx, "2025-06-01")
	require.NoError(t, err)
	require.Len(t, bucket.Bookings, writers)

	seen := make(map[string]bool, writers)
	for _, b := range bucket.Bookings {
		seen[b.Description] = true
	}
	assert.Len(t, seen, writers)
}

func TestMemory_ConcurrentAppendAndRemove(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	_, err := repo.Append(ctx, "2025-06-01", entry("seed", "A"))
	require.NoError(t, err)

	const rounds = 100
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, _ = repo.Append(ctx, "2025-06-01", entry("add", "A"))
		}
	}()
	removed := 0
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if _, err := repo.RemoveAt(ctx, "2025-06-01", 0); err == nil {
				removed++
			}
		}
	}()
	wg.Wait()

	want := 1 + rounds - removed
	bucket, err := repo.FindByDate(ctx, "2025-06-01")
	if want == 0 {
		assert.ErrorIs(t, err, bookingserrors.ErrNotFound)
		return
	}
	require.NoError(t, err)
	assert.Len(t, bucket.Bookings, want)
}

func TestMemory_CanceledContext(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Append(ctx, "2025-06-01", entry("Fix AC", "Alice"))
	assert.ErrorIs(t, err, context.Canceled)
}
