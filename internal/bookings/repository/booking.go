package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/pkg/config"
	"roombook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

// BookingRepository stores one ordered bucket of entries per calendar date.
// Every method is atomic with respect to a single bucket.
type BookingRepository interface {
	// Append adds entry to the end of the bucket for date, creating the bucket
	// on first use, and returns the bucket as it is after the write.
	Append(ctx context.Context, date string, entry model.BookingEntry) (*model.DateBucket, error)
	FindByDate(ctx context.Context, date string) (*model.DateBucket, error)
	// FindAll returns every non-empty bucket ordered by date.
	FindAll(ctx context.Context) ([]model.DateBucket, error)
	// RemoveAt deletes the entry at index and returns how many entries remain.
	RemoveAt(ctx context.Context, date string, index int) (int, error)
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout bounds ctx by timeout unless the caller's deadline is sooner.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func nonEmpty(filter bson.M) bson.M {
	filter["bookings.0"] = bson.M{"$exists": true}
	return filter
}

func (r *mongoBookingRepository) Append(ctx context.Context, date string, entry model.BookingEntry) (*model.DateBucket, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	filter := bson.M{"_id": date}
	update := bson.M{
		"$push":        bson.M{"bookings": entry},
		"$setOnInsert": bson.M{"created_at": now},
		"$set":         bson.M{"updated_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var bucket model.DateBucket
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&bucket)
	if mongo.IsDuplicateKeyError(err) {
		// Two upserts raced to create the same date; the loser now finds the document.
		err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&bucket)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append booking: %w", err)
	}

	return &bucket, nil
}

func (r *mongoBookingRepository) FindByDate(ctx context.Context, date string) (*model.DateBucket, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var bucket model.DateBucket
	err := r.collection.FindOne(ctx, nonEmpty(bson.M{"_id": date})).Decode(&bucket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}

	return &bucket, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context) ([]model.DateBucket, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, nonEmpty(bson.M{}), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	buckets := []model.DateBucket{}
	if err = cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return buckets, nil
}

func (r *mongoBookingRepository) RemoveAt(ctx context.Context, date string, index int) (int, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if index < 0 {
		return 0, r.missReason(ctx, date)
	}

	filter := bson.M{"_id": date}
	filter[fmt.Sprintf("bookings.%d", index)] = bson.M{"$exists": true}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var bucket model.DateBucket
	err := r.collection.FindOneAndUpdate(ctx, filter, removeAtPipeline(index), opts).Decode(&bucket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, r.missReason(ctx, date)
		}
		return 0, fmt.Errorf("failed to remove booking: %w", err)
	}

	remaining := len(bucket.Bookings)
	if remaining == 0 {
		// An append may have landed in between; the $size guard keeps it.
		_, err := r.collection.DeleteOne(ctx, bson.M{"_id": date, "bookings": bson.M{"$size": 0}})
		if err != nil {
			return 0, fmt.Errorf("failed to delete empty bucket: %w", err)
		}
	}

	return remaining, nil
}

// removeAtPipeline rebuilds the bookings array without the element at index
// in a single server-side update.
func removeAtPipeline(index int) mongo.Pipeline {
	keep := bson.M{
		"$filter": bson.M{
			"input": bson.M{"$range": bson.A{0, bson.M{"$size": "$bookings"}}},
			"as":    "i",
			"cond":  bson.M{"$ne": bson.A{"$$i", index}},
		},
	}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "bookings", Value: bson.M{
				"$map": bson.M{
					"input": keep,
					"as":    "i",
					"in":    bson.M{"$arrayElemAt": bson.A{"$bookings", "$$i"}},
				},
			}},
			{Key: "updated_at", Value: "$$NOW"},
		}}},
	}
}

// missReason tells an unknown date apart from an index past the end.
func (r *mongoBookingRepository) missReason(ctx context.Context, date string) error {
	err := r.collection.FindOne(ctx, nonEmpty(bson.M{"_id": date})).Err()
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return bookingserrors.ErrNotFound
	case err != nil:
		return fmt.Errorf("failed to find bookings: %w", err)
	default:
		return bookingserrors.ErrIndexOutOfRange
	}
}
