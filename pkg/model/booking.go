package model

import (
	"time"
)

// DateLayout is the ISO 8601 calendar date used as the bucket key.
const DateLayout = "2006-01-02"

type BookingEntry struct {
	Description string `json:"description" bson:"description"`
	Assigned    string `json:"assigned" bson:"assigned"`
}

// DateBucket is the ordered list of bookings for one calendar date.
type DateBucket struct {
	Date      string         `json:"date" bson:"_id"`
	Bookings  []BookingEntry `json:"bookings" bson:"bookings"`
	CreatedAt time.Time      `json:"-" bson:"created_at,omitempty"`
	UpdatedAt time.Time      `json:"-" bson:"updated_at,omitempty"`
}

func (b *DateBucket) IsEmpty() bool {
	return b == nil || len(b.Bookings) == 0
}

type AddBookingRequest struct {
	Date        string `json:"date" validate:"required,calendar_date"`
	Description string `json:"description" validate:"required,max=500"`
	Assigned    string `json:"assigned" validate:"required,max=100,alnum_space"`
}

func (r *AddBookingRequest) Entry() BookingEntry {
	return BookingEntry{
		Description: r.Description,
		Assigned:    r.Assigned,
	}
}

type RemoveBookingResponse struct {
	Message   string `json:"message"`
	Remaining int    `json:"remaining"`
}

type PinRequest struct {
	Pin string `json:"pin"`
}
