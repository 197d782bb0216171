package station

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name           string
	Location       string
	Type           ChargerType
	AvailableSlots int
}

type UpdateRequest struct {
	Name           *string
	Location       *string
	Type           *ChargerType
	AvailableSlots *int
}

// UpcomingChecker reports whether a station still has non-cancelled future
// bookings. The booking module provides the implementation; the interface lives
// here so this package does not depend on it.
type UpcomingChecker interface {
	HasUpcomingBookings(ctx context.Context, stationID string) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Station, error)
	GetByID(ctx context.Context, id string) (*Station, error)
	List(ctx context.Context, filter Filter) ([]*Station, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Station, error)

	// SetActive toggles the station's active flag. Deactivation is rejected
	// while the station has upcoming bookings.
	SetActive(ctx context.Context, id string, active bool) (*Station, error)
}

type service struct {
	repo     Repository
	upcoming UpcomingChecker
}

func NewService(repo Repository, upcoming UpcomingChecker) Service {
	return &service{
		repo:     repo,
		upcoming: upcoming,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Station, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if _, err := ParseChargerType(string(req.Type)); err != nil {
		return nil, err
	}
	if req.AvailableSlots < 1 {
		return nil, ErrInvalidCapacity
	}

	st := &Station{
		Name:           strings.TrimSpace(req.Name),
		Location:       strings.TrimSpace(req.Location),
		Type:           req.Type,
		AvailableSlots: req.AvailableSlots,
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Station, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Station, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Station, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		st.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		st.Location = strings.TrimSpace(*req.Location)
	}
	if req.Type != nil {
		if _, err := ParseChargerType(string(*req.Type)); err != nil {
			return nil, err
		}
		st.Type = *req.Type
	}
	if req.AvailableSlots != nil {
		if *req.AvailableSlots < 1 {
			return nil, ErrInvalidCapacity
		}
		st.AvailableSlots = *req.AvailableSlots
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) SetActive(ctx context.Context, id string, active bool) (*Station, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !active && st.IsActive {
		has, err := s.upcoming.HasUpcomingBookings(ctx, id)
		if err != nil {
			return nil, err
		}
		if has {
			return nil, ErrHasUpcomingBooking
		}
	}

	st.IsActive = active
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}
