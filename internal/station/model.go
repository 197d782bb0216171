package station

import (
	"net/http"
	"time"

	"github.com/nexcharge/nexcharge-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "station not found")
	ErrEmptyName          = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidType        = apperror.New(http.StatusBadRequest, "charger type must be AC or DC")
	ErrInvalidCapacity    = apperror.New(http.StatusBadRequest, "available slots must be at least 1")
	ErrHasUpcomingBooking = apperror.New(http.StatusConflict, "station has upcoming bookings and cannot be deactivated")
)

// ChargerType is the kind of charger a station provides.
type ChargerType string

const (
	TypeAC ChargerType = "AC"
	TypeDC ChargerType = "DC"
)

// ParseChargerType validates a charger type string.
func ParseChargerType(s string) (ChargerType, error) {
	switch ChargerType(s) {
	case TypeAC, TypeDC:
		return ChargerType(s), nil
	}
	return "", ErrInvalidType
}

// Station represents a charging station.
// AvailableSlots is the per-hour booking ceiling: at most that many bookings may
// share one hour slot at this station.
type Station struct {
	ID             string
	Name           string
	Location       string
	Type           ChargerType
	AvailableSlots int
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Filter defines parameters for listing stations.
type Filter struct {
	Type     string
	IsActive *bool

	Page     int
	PageSize int
}
