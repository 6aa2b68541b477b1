package model

import "time"

const (
	EventBookingAdded   = "booking.added"
	EventBookingRemoved = "booking.removed"
)

// BookingEvent announces a committed change to a date bucket. Consumers holding
// a cached copy of the bucket refetch it.
type BookingEvent struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	Date       string        `json:"date"`
	Entry      *BookingEntry `json:"entry,omitempty"`
	Index      *int          `json:"index,omitempty"`
	Count      int           `json:"count"`
	OccurredAt time.Time     `json:"occurred_at"`
}
