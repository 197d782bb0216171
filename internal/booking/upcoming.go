package booking

import (
	"context"
	"time"

	"github.com/nexcharge/nexcharge-backend/internal/station"
)

// upcomingChecker lets the station module ask whether a station still has
// future bookings before deactivating it, without depending on this package's
// service (which itself depends on the station module).
type upcomingChecker struct {
	repo Repository
	now  func() time.Time
}

// NewUpcomingChecker adapts the booking repository to station.UpcomingChecker.
func NewUpcomingChecker(repo Repository) station.UpcomingChecker {
	return &upcomingChecker{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (c *upcomingChecker) HasUpcomingBookings(ctx context.Context, stationID string) (bool, error) {
	bookings, err := c.repo.ListUpcoming(ctx, stationID, c.now())
	if err != nil {
		return false, err
	}
	return len(bookings) > 0, nil
}
