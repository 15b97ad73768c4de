package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange       = errors.New("invalidRange")
	ErrOverlap            = errors.New("overlap")
	ErrSlotUnavailable    = errors.New("slotUnavailable")
	ErrSlotNotFound       = errors.New("slotNotFound")
	ErrBookingMismatch    = errors.New("bookingMismatch")
	ErrStorageUnavailable = errors.New("storageUnavailable")

	ErrInvalidInput      = errors.New("invalidInput")
	ErrInvalidTransition = errors.New("invalidTransition")
	ErrRequestNotFound   = errors.New("requestNotFound")
	ErrNotServiceman     = errors.New("notServiceman")
	ErrForbidden         = errors.New("forbidden")
	ErrConcurrentUpdate  = errors.New("concurrentUpdate")
)

// ScheduleError carries one of the sentinel kinds above plus a caller-facing message.
type ScheduleError struct {
	Code    string
	Message string
	Err     error
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScheduleError) Unwrap() error {
	return e.Err
}

// NewError builds a ScheduleError of the given kind.
func NewError(kind error, msg string) error {
	return &ScheduleError{Code: kind.Error(), Message: msg, Err: kind}
}

// StorageError wraps an infrastructure failure so callers can retry the whole operation.
func StorageError(op string, cause error) error {
	return &ScheduleError{
		Code:    ErrStorageUnavailable.Error(),
		Message: fmt.Sprintf("%s: store unavailable", op),
		Err:     errors.Join(ErrStorageUnavailable, cause),
	}
}

// SlotUnavailableMessage is what dispatchers see when a booking race is lost.
const SlotUnavailableMessage = "slot no longer available, please choose another"
