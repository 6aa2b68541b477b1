package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/pkg/model"
)

type memoryBucket struct {
	mu      sync.Mutex
	bucket  model.DateBucket
	deleted bool
}

// memoryBookingRepository keeps buckets in process memory. The map lock only
// guards bucket lookup and creation; each bucket has its own lock so writes to
// different dates never wait on each other.
type memoryBookingRepository struct {
	mu      sync.Mutex
	buckets map[string]*memoryBucket
	now     func() time.Time
}

func NewMemoryBookingRepository() BookingRepository {
	return &memoryBookingRepository{
		buckets: make(map[string]*memoryBucket),
		now:     time.Now,
	}
}

func (r *memoryBookingRepository) getOrCreate(date string) *memoryBucket {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[date]
	if !ok {
		now := r.now().UTC()
		b = &memoryBucket{bucket: model.DateBucket{Date: date, CreatedAt: now, UpdatedAt: now}}
		r.buckets[date] = b
	}
	return b
}

func (r *memoryBookingRepository) get(date string) *memoryBucket {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buckets[date]
}

func (r *memoryBookingRepository) Append(ctx context.Context, date string, entry model.BookingEntry) (*model.DateBucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for {
		b := r.getOrCreate(date)

		b.mu.Lock()
		if b.deleted {
			// Emptied and unlinked while we waited; look it up again.
			b.mu.Unlock()
			continue
		}
		b.bucket.Bookings = append(b.bucket.Bookings, entry)
		b.bucket.UpdatedAt = r.now().UTC()
		out := copyBucket(&b.bucket)
		b.mu.Unlock()

		return out, nil
	}
}

func (r *memoryBookingRepository) FindByDate(ctx context.Context, date string) (*model.DateBucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := r.get(date)
	if b == nil {
		return nil, bookingserrors.ErrNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bucket.IsEmpty() {
		return nil, bookingserrors.ErrNotFound
	}
	return copyBucket(&b.bucket), nil
}

func (r *memoryBookingRepository) FindAll(ctx context.Context) ([]model.DateBucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	snapshot := make([]*memoryBucket, 0, len(r.buckets))
	for _, b := range r.buckets {
		snapshot = append(snapshot, b)
	}
	r.mu.Unlock()

	buckets := []model.DateBucket{}
	for _, b := range snapshot {
		b.mu.Lock()
		if !b.bucket.IsEmpty() {
			buckets = append(buckets, *copyBucket(&b.bucket))
		}
		b.mu.Unlock()
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date < buckets[j].Date
	})

	return buckets, nil
}

func (r *memoryBookingRepository) RemoveAt(ctx context.Context, date string, index int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	b := r.get(date)
	if b == nil {
		return 0, bookingserrors.ErrNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.bucket.Bookings
	if len(entries) == 0 {
		return 0, bookingserrors.ErrNotFound
	}
	if index < 0 || index >= len(entries) {
		return 0, bookingserrors.ErrIndexOutOfRange
	}

	b.bucket.Bookings = append(entries[:index:index], entries[index+1:]...)
	b.bucket.UpdatedAt = r.now().UTC()

	remaining := len(b.bucket.Bookings)
	if remaining == 0 {
		b.deleted = true
		r.mu.Lock()
		if r.buckets[date] == b {
			delete(r.buckets, date)
		}
		r.mu.Unlock()
	}

	return remaining, nil
}

func copyBucket(b *model.DateBucket) *model.DateBucket {
	out := *b
	out.Bookings = make([]model.BookingEntry, len(b.Bookings))
	copy(out.Bookings, b.Bookings)
	return &out
}
