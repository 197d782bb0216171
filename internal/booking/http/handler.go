package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nexcharge/nexcharge-backend/internal/auth"
	"github.com/nexcharge/nexcharge-backend/internal/booking"
	"github.com/nexcharge/nexcharge-backend/internal/pkg/response"
	"github.com/nexcharge/nexcharge-backend/internal/user"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// isStaff reports whether the authenticated caller is back office or operator.
func isStaff(c *gin.Context) bool {
	return user.Role(auth.GetUserRole(c)).IsStaff()
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	nic := auth.GetUserNIC(c)
	if nic == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	// Format already validated by the binding.
	date, _ := time.Parse(dateFormat, req.ReservationDate)

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		OwnerNIC:  user.NIC(nic),
		StationID: req.StationID,
		Date:      date,
		Hour:      *req.ReservationHour,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) List(c *gin.Context) {
	nic := auth.GetUserNIC(c)

	// Staff may inspect another owner's bookings.
	if q := c.Query("nic"); q != "" && isStaff(c) {
		nic = q
	}

	bookings, err := h.service.ListForOwner(c.Request.Context(), user.NIC(nic))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Get(c *gin.Context) {
	b, ok := h.fetchAuthorized(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Update(c *gin.Context) {
	if _, ok := h.fetchAuthorized(c); !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var date *time.Time
	if req.ReservationDate != nil {
		d, _ := time.Parse(dateFormat, *req.ReservationDate)
		date = &d
	}

	b, err := h.service.Update(c.Request.Context(), c.Param("id"), booking.UpdateRequest{
		StationID: req.StationID,
		Date:      date,
		Hour:      req.ReservationHour,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	if _, ok := h.fetchAuthorized(c); !ok {
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Approve(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Complete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.Complete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	if _, ok := h.fetchAuthorized(c); !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Availability(c *gin.Context) {
	stationID := c.Param("id")
	if _, err := uuid.Parse(stationID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	a, err := h.service.StationAvailability(c.Request.Context(), stationID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(a))
}

func (h *Handler) AvailableHours(c *gin.Context) {
	stationID := c.Param("id")
	if _, err := uuid.Parse(stationID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	hours, err := h.service.AvailableHours(c.Request.Context(), stationID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, AvailableHoursResponse{
		StationID: stationID,
		Date:      date.UTC().Format(dateFormat),
		Hours:     hours,
	})
}

func (h *Handler) UpcomingForStation(c *gin.Context) {
	stationID := c.Param("id")
	if _, err := uuid.Parse(stationID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	bookings, err := h.service.ListUpcomingForStation(c.Request.Context(), stationID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// fetchAuthorized loads the booking from the :id param and enforces that the
// caller owns it or is staff. It writes the error response itself.
func (h *Handler) fetchAuthorized(c *gin.Context) (*booking.Booking, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return nil, false
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}

	if b.OwnerNIC.String() != auth.GetUserNIC(c) && !isStaff(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return nil, false
	}

	return b, true
}

// parseDateQuery reads the required ?date=YYYY-MM-DD query parameter.
func parseDateQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return time.Time{}, false
	}

	date, err := time.Parse(dateFormat, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
		return time.Time{}, false
	}

	return date, true
}
