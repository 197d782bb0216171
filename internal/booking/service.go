package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nexcharge/nexcharge-backend/internal/pkg/apperror"
	"github.com/nexcharge/nexcharge-backend/internal/qr"
	"github.com/nexcharge/nexcharge-backend/internal/station"
	"github.com/nexcharge/nexcharge-backend/internal/user"
)

const (
	// bookingWindowDays is how far ahead a reservation may be placed,
	// inclusive of the last day.
	bookingWindowDays = 7

	// modifyCutoff is the period before the reserved hour during which a
	// booking can no longer be updated or cancelled.
	modifyCutoff = 12 * time.Hour
)

type CreateRequest struct {
	OwnerNIC  user.NIC
	StationID string
	Date      time.Time
	Hour      int
}

type UpdateRequest struct {
	StationID *string
	Date      *time.Time
	Hour      *int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListForOwner(ctx context.Context, nic user.NIC) ([]*Booking, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Booking, error)
	Cancel(ctx context.Context, id string) (*Booking, error)
	Approve(ctx context.Context, id string) (*Booking, error)
	Complete(ctx context.Context, id string) (*Booking, error)
	Delete(ctx context.Context, id string) error

	StationAvailability(ctx context.Context, stationID string, date time.Time) (*DayAvailability, error)
	AvailableHours(ctx context.Context, stationID string, date time.Time) ([]int, error)
	ListUpcomingForStation(ctx context.Context, stationID string) ([]*Booking, error)
}

type service struct {
	repo     Repository
	stations station.Service
	users    user.Service
	qrEncode qr.EncodeFunc
	slots    *slotLocker
	logger   *zap.Logger

	// now is injectable so the window rules are testable.
	now func() time.Time
}

func NewService(repo Repository, stations station.Service, users user.Service, qrEncode qr.EncodeFunc, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		stations: stations,
		users:    users,
		qrEncode: qrEncode,
		slots:    newSlotLocker(),
		logger:   logger.With(zap.String("service", "booking")),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if req.Hour < 0 || req.Hour > 23 {
		return nil, ErrInvalidHour
	}

	owner, err := s.users.GetByNIC(ctx, req.OwnerNIC)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}
	if !owner.IsActive {
		return nil, ErrOwnerInactive
	}

	st, err := s.lookupStation(ctx, req.StationID)
	if err != nil {
		return nil, err
	}
	if !st.IsActive {
		return nil, ErrStationInactive
	}

	// Date-only comparison against server UTC "now"; the owner's local time
	// is not considered.
	today := dateOnly(s.now())
	day := dateOnly(req.Date)
	if day.Before(today) || day.After(today.AddDate(0, 0, bookingWindowDays)) {
		return nil, ErrDateOutsideWindow
	}

	unlock := s.slots.lock(st.ID, day, req.Hour)
	defer unlock()

	if err := s.checkCapacity(ctx, st, day, req.Hour); err != nil {
		return nil, err
	}

	b := &Booking{
		OwnerNIC:        req.OwnerNIC,
		StationID:       st.ID,
		StationName:     st.Name,
		ReservationDate: day,
		ReservationHour: req.Hour,
		Status:          StatusPending,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("station_id", b.StationID),
		zap.String("date", day.Format("2006-01-02")),
		zap.Int("hour", b.ReservationHour),
	)

	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListForOwner(ctx context.Context, nic user.NIC) ([]*Booking, error) {
	return s.repo.ListForOwner(ctx, nic)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The cutoff applies to the booking's current slot.
	if !s.now().Before(b.SlotStart().Add(-modifyCutoff)) {
		return nil, ErrModifyWindow
	}

	newStationID := b.StationID
	if req.StationID != nil {
		newStationID = *req.StationID
	}
	newDay := b.ReservationDate
	if req.Date != nil {
		newDay = dateOnly(*req.Date)
	}
	newHour := b.ReservationHour
	if req.Hour != nil {
		newHour = *req.Hour
	}

	if newHour < 0 || newHour > 23 {
		return nil, ErrInvalidHour
	}

	st, err := s.lookupStation(ctx, newStationID)
	if err != nil {
		return nil, err
	}
	if newStationID != b.StationID && !st.IsActive {
		return nil, ErrStationInactive
	}

	changed := newStationID != b.StationID ||
		!newDay.Equal(b.ReservationDate) ||
		newHour != b.ReservationHour

	if changed {
		// Any change moves the booking to a different slot, so it never
		// counts toward the capacity of the one it is moving into.
		unlock := s.slots.lock(st.ID, newDay, newHour)
		defer unlock()

		if err := s.checkCapacity(ctx, st, newDay, newHour); err != nil {
			return nil, err
		}
	}

	b.StationID = st.ID
	b.StationName = st.Name
	b.ReservationDate = newDay
	b.ReservationHour = newHour

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Cancel(ctx context.Context, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.now().Before(b.SlotStart().Add(-modifyCutoff)) {
		return nil, ErrModifyWindow
	}

	b.Status = StatusCancelled
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled", zap.String("booking_id", b.ID))
	return b, nil
}

func (s *service) Approve(ctx context.Context, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := qr.Payload{
		BookingID: b.ID,
		OwnerNIC:  b.OwnerNIC.String(),
		StationID: b.StationID,
		Date:      b.ReservationDate,
		Hour:      b.ReservationHour,
	}

	// Re-approval regenerates the image; the payload content is the same.
	encoded, err := s.qrEncode(payload.Encode())
	if err != nil {
		return nil, err
	}

	b.Status = StatusApproved
	b.QRBase64 = &encoded

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking approved", zap.String("booking_id", b.ID))
	return b, nil
}

func (s *service) Complete(ctx context.Context, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b.Status = StatusCompleted
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking completed", zap.String("booking_id", b.ID))
	return b, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if b.Status == StatusApproved {
		return ErrDeleteApproved
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) StationAvailability(ctx context.Context, stationID string, date time.Time) (*DayAvailability, error) {
	st, err := s.lookupStation(ctx, stationID)
	if err != nil {
		return nil, err
	}

	day := dateOnly(date)
	bookings, err := s.repo.ListForDate(ctx, stationID, day)
	if err != nil {
		return nil, err
	}

	counts := countByHour(bookings)

	return &DayAvailability{
		StationID:   st.ID,
		StationName: st.Name,
		Date:        day,
		Hours:       buildHours(counts, st.AvailableSlots),
	}, nil
}

func (s *service) AvailableHours(ctx context.Context, stationID string, date time.Time) ([]int, error) {
	st, err := s.lookupStation(ctx, stationID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.ListForDate(ctx, stationID, dateOnly(date))
	if err != nil {
		return nil, err
	}

	return freeHours(countByHour(bookings), st.AvailableSlots), nil
}

func (s *service) ListUpcomingForStation(ctx context.Context, stationID string) ([]*Booking, error) {
	if _, err := s.lookupStation(ctx, stationID); err != nil {
		return nil, err
	}
	return s.repo.ListUpcoming(ctx, stationID, s.now())
}

func (s *service) lookupStation(ctx context.Context, id string) (*station.Station, error) {
	st, err := s.stations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, station.ErrNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return st, nil
}

// checkCapacity must be called with the slot lock held.
func (s *service) checkCapacity(ctx context.Context, st *station.Station, day time.Time, hour int) error {
	count, err := s.repo.CountForSlot(ctx, st.ID, day, hour)
	if err != nil {
		return err
	}
	if count >= st.AvailableSlots {
		return apperror.WithMessagef(ErrSlotFull,
			"hour %02d:00 at %s is fully booked (%d of %d slots taken)",
			hour, st.Name, count, st.AvailableSlots)
	}
	return nil
}

// dateOnly truncates t to UTC midnight.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
