package http

import (
	"github.com/nexcharge/nexcharge-backend/internal/booking"
)

// dateFormat is the wire format for reservation dates.
const dateFormat = "2006-01-02"

type CreateBookingRequest struct {
	StationID       string `json:"stationId" binding:"required,uuid"`
	ReservationDate string `json:"reservationDate" binding:"required,datetime=2006-01-02"`
	ReservationHour *int   `json:"reservationHour" binding:"required"`
}

type UpdateBookingRequest struct {
	StationID       *string `json:"stationId" binding:"omitempty,uuid"`
	ReservationDate *string `json:"reservationDate" binding:"omitempty,datetime=2006-01-02"`
	ReservationHour *int    `json:"reservationHour"`
}

// BookingResponse is the wire shape existing clients depend on.
type BookingResponse struct {
	ID              string  `json:"id"`
	OwnerNIC        string  `json:"ownerNIC"`
	StationID       string  `json:"stationId"`
	StationName     string  `json:"stationName,omitempty"`
	ReservationDate string  `json:"reservationDate"`
	ReservationHour int     `json:"reservationHour"`
	Status          string  `json:"status"`
	QRBase64        *string `json:"qrBase64"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		OwnerNIC:        b.OwnerNIC.String(),
		StationID:       b.StationID,
		StationName:     b.StationName,
		ReservationDate: b.ReservationDate.UTC().Format(dateFormat),
		ReservationHour: b.ReservationHour,
		Status:          string(b.Status),
		QRBase64:        b.QRBase64,
	}
}

// HourAvailabilityResponse is one entry of the 24-hour breakdown.
type HourAvailabilityResponse struct {
	Hour           int `json:"hour"`
	AvailableSlots int `json:"availableSlots"`
	TotalSlots     int `json:"totalSlots"`
}

// AvailabilityResponse is the per-day availability wire shape.
type AvailabilityResponse struct {
	StationID      string                     `json:"stationId"`
	StationName    string                     `json:"stationName"`
	Date           string                     `json:"date"`
	AvailableHours []HourAvailabilityResponse `json:"availableHours"`
}

func NewAvailabilityResponse(a *booking.DayAvailability) AvailabilityResponse {
	hours := make([]HourAvailabilityResponse, len(a.Hours))
	for i, h := range a.Hours {
		hours[i] = HourAvailabilityResponse{
			Hour:           h.Hour,
			AvailableSlots: h.AvailableSlots,
			TotalSlots:     h.TotalSlots,
		}
	}
	return AvailabilityResponse{
		StationID:      a.StationID,
		StationName:    a.StationName,
		Date:           a.Date.UTC().Format(dateFormat),
		AvailableHours: hours,
	}
}

// AvailableHoursResponse lists the hours that still have free slots.
type AvailableHoursResponse struct {
	StationID string `json:"stationId"`
	Date      string `json:"date"`
	Hours     []int  `json:"hours"`
}
