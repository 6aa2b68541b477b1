package errors

import "errors"

var (
	ErrNotFound = errors.New("no bookings found for date")

	ErrIndexOutOfRange = errors.New("booking index out of range")
)
