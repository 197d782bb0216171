package http

import (
	"time"

	"github.com/nexcharge/nexcharge-backend/internal/pkg/request"
	"github.com/nexcharge/nexcharge-backend/internal/station"
)

// ListStationsRequest defines query parameters for listing stations.
type ListStationsRequest struct {
	request.ListParams
	Type     string `form:"type" binding:"omitempty,oneof=AC DC"`
	IsActive *bool  `form:"is_active"`
}

type CreateStationRequest struct {
	Name           string `json:"name" binding:"required"`
	Location       string `json:"location" binding:"required"`
	Type           string `json:"type" binding:"required,oneof=AC DC"`
	AvailableSlots int    `json:"availableSlots" binding:"required,min=1"`
}

type UpdateStationRequest struct {
	Name           *string `json:"name"`
	Location       *string `json:"location"`
	Type           *string `json:"type" binding:"omitempty,oneof=AC DC"`
	AvailableSlots *int    `json:"availableSlots" binding:"omitempty,min=1"`
}

// SetStatusRequest is the payload for PATCH /v1/stations/:id/status.
type SetStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type StationResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	Type           string    `json:"type"`
	AvailableSlots int       `json:"availableSlots"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func NewStationResponse(st *station.Station) StationResponse {
	return StationResponse{
		ID:             st.ID,
		Name:           st.Name,
		Location:       st.Location,
		Type:           string(st.Type),
		AvailableSlots: st.AvailableSlots,
		IsActive:       st.IsActive,
		CreatedAt:      st.CreatedAt,
		UpdatedAt:      st.UpdatedAt,
	}
}
