package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/internal/bookings/events"
	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/validator"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"

	"github.com/google/uuid"
)

type BookingService interface {
	Add(ctx context.Context, req *model.AddBookingRequest) (*model.DateBucket, error)
	GetByDate(ctx context.Context, date string) (*model.DateBucket, error)
	GetAll(ctx context.Context) ([]model.DateBucket, error)
	Remove(ctx context.Context, date string, index int) (int, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Add(ctx context.Context, req *model.AddBookingRequest) (*model.DateBucket, error) {
	s.sanitize(req)
	if err := s.validate(req); err != nil {
		return nil, err
	}

	entry := req.Entry()
	bucket, err := s.repo.Append(ctx, req.Date, entry)
	if err != nil {
		s.cfg.Log.Error("Failed to add booking", "date", req.Date, "error", err)
		return nil, apperrors.Internal("Failed to add booking", err)
	}

	s.cfg.Log.Info("Booking added",
		"date", bucket.Date,
		"count", len(bucket.Bookings),
	)

	s.publish(ctx, model.BookingEvent{
		Type:  model.EventBookingAdded,
		Date:  bucket.Date,
		Entry: &entry,
		Count: len(bucket.Bookings),
	})

	return bucket, nil
}

func (s *bookingService) GetByDate(ctx context.Context, date string) (*model.DateBucket, error) {
	if err := s.validateDate(date); err != nil {
		return nil, err
	}

	bucket, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Bookings", date)
		}
		s.cfg.Log.Error("Failed to get bookings", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bucket, nil
}

func (s *bookingService) GetAll(ctx context.Context) ([]model.DateBucket, error) {
	buckets, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return buckets, nil
}

func (s *bookingService) Remove(ctx context.Context, date string, index int) (int, error) {
	if err := s.validateDate(date); err != nil {
		return 0, err
	}

	remaining, err := s.repo.RemoveAt(ctx, date, index)
	if err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrNotFound):
			return 0, apperrors.NotFoundWithID("Bookings", date)
		case errors.Is(err, bookingserrors.ErrIndexOutOfRange):
			return 0, apperrors.InvalidInput("Invalid index").WithDetails(map[string]any{
				"date":  date,
				"index": index,
			})
		default:
			s.cfg.Log.Error("Failed to remove booking", "date", date, "index", index, "error", err)
			return 0, apperrors.Internal("Failed to remove booking", err)
		}
	}

	s.cfg.Log.Info("Booking removed",
		"date", date,
		"index", index,
		"remaining", remaining,
	)

	s.publish(ctx, model.BookingEvent{
		Type:  model.EventBookingRemoved,
		Date:  date,
		Index: &index,
		Count: remaining,
	})

	return remaining, nil
}

// publish never fails the caller; the write it describes is already committed.
func (s *bookingService) publish(ctx context.Context, event model.BookingEvent) {
	event.ID = uuid.NewString()
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", event.Type,
			"date", event.Date,
			"error", err,
		)
	}
}

func (s *bookingService) sanitize(req *model.AddBookingRequest) {
	req.Date = sanitizer.TrimAndNormalize(req.Date)
	req.Description = sanitizer.NormalizeDescription(req.Description)
	req.Assigned = sanitizer.NormalizeName(req.Assigned)
}

func (s *bookingService) validate(req *model.AddBookingRequest) error {
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return validationError(err)
	}
	return nil
}

func (s *bookingService) validateDate(date string) error {
	if err := s.validator.ValidateDate(date); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Booking validation failed", verrs.Fields())
	}
	return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
}
