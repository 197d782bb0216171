package booking

import (
	"net/http"
	"time"

	"github.com/nexcharge/nexcharge-backend/internal/pkg/apperror"
	"github.com/nexcharge/nexcharge-backend/internal/user"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrOwnerNotFound     = apperror.New(http.StatusNotFound, "owner not found")
	ErrOwnerInactive     = apperror.New(http.StatusForbidden, "owner account is deactivated")
	ErrStationNotFound   = apperror.New(http.StatusNotFound, "station not found")
	ErrStationInactive   = apperror.New(http.StatusConflict, "station is not active")
	ErrInvalidHour       = apperror.New(http.StatusBadRequest, "reservation hour must be between 0 and 23")
	ErrDateOutsideWindow = apperror.New(http.StatusBadRequest, "reservation date must be within the next 7 days")
	ErrSlotFull          = apperror.New(http.StatusConflict, "time slot is fully booked")
	ErrModifyWindow      = apperror.New(http.StatusConflict, "bookings can only be changed at least 12 hours before the reservation")
	ErrDeleteApproved    = apperror.New(http.StatusConflict, "approved bookings cannot be deleted")
)

// Status is the lifecycle state of a booking.
//
//	Pending --approve--> Approved --complete--> Completed
//	Pending --cancel---> Cancelled
//	Approved --cancel--> Cancelled (if >= 12h remain)
//
// Cancelled and Completed are terminal. Delete is out-of-band and permitted
// from any status except Approved.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusCancelled Status = "Cancelled"
	StatusCompleted Status = "Completed"
)

// Booking is a one-hour charging slot reservation at a station.
type Booking struct {
	ID          string
	OwnerNIC    user.NIC
	StationID   string
	StationName string

	// ReservationDate is the calendar day (UTC midnight) of the slot;
	// ReservationHour is the hour the one-hour slot starts at.
	ReservationDate time.Time
	ReservationHour int

	Status   Status
	QRBase64 *string // populated on approval

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotStart returns the UTC instant the reserved hour begins.
func (b *Booking) SlotStart() time.Time {
	d := b.ReservationDate.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), b.ReservationHour, 0, 0, 0, time.UTC)
}
