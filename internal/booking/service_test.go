package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nexcharge/nexcharge-backend/internal/station"
	"github.com/nexcharge/nexcharge-backend/internal/user"
)

// fixedNow is the reference "server now" for all window tests: a Monday noon.
var fixedNow = time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)

const (
	testNIC      = "200012345678"
	inactiveNIC  = "199987654321"
	unknownNIC   = "199011223344"
	testPassword = "irrelevant"
)

//
// Fakes
//

type fakeRepo struct {
	bookings map[string]*Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[string]*Booking)}
}

func copyBooking(b *Booking) *Booking {
	c := *b
	return &c
}

func (r *fakeRepo) Create(_ context.Context, b *Booking) error {
	b.ID = uuid.NewString()
	b.CreatedAt = fixedNow
	b.UpdatedAt = fixedNow
	r.bookings[b.ID] = copyBooking(b)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyBooking(b), nil
}

func (r *fakeRepo) Update(_ context.Context, b *Booking) error {
	if _, ok := r.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	r.bookings[b.ID] = copyBooking(b)
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeRepo) CountForSlot(_ context.Context, stationID string, date time.Time, hour int) (int, error) {
	count := 0
	for _, b := range r.bookings {
		if b.StationID == stationID &&
			b.ReservationDate.Equal(date) &&
			b.ReservationHour == hour &&
			b.Status != StatusCancelled {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) ListForDate(_ context.Context, stationID string, date time.Time) ([]*Booking, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if b.StationID == stationID && b.ReservationDate.Equal(date) {
			out = append(out, copyBooking(b))
		}
	}
	return out, nil
}

func (r *fakeRepo) ListUpcoming(_ context.Context, stationID string, from time.Time) ([]*Booking, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if b.StationID == stationID && b.Status != StatusCancelled && !b.SlotStart().Before(from) {
			out = append(out, copyBooking(b))
		}
	}
	return out, nil
}

func (r *fakeRepo) ListForOwner(_ context.Context, nic user.NIC) ([]*Booking, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if b.OwnerNIC == nic {
			out = append(out, copyBooking(b))
		}
	}
	return out, nil
}

type fakeStations struct {
	stations map[string]*station.Station
}

func (f *fakeStations) GetByID(_ context.Context, id string) (*station.Station, error) {
	st, ok := f.stations[id]
	if !ok {
		return nil, station.ErrNotFound
	}
	c := *st
	return &c, nil
}

func (f *fakeStations) Create(context.Context, station.CreateRequest) (*station.Station, error) {
	panic("not used in tests")
}

func (f *fakeStations) List(context.Context, station.Filter) ([]*station.Station, int, error) {
	panic("not used in tests")
}

func (f *fakeStations) Update(context.Context, string, station.UpdateRequest) (*station.Station, error) {
	panic("not used in tests")
}

func (f *fakeStations) SetActive(context.Context, string, bool) (*station.Station, error) {
	panic("not used in tests")
}

type fakeUsers struct {
	users map[user.NIC]*user.User
}

func (f *fakeUsers) GetByNIC(_ context.Context, nic user.NIC) (*user.User, error) {
	u, ok := f.users[nic]
	if !ok {
		return nil, user.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) Register(context.Context, user.RegisterRequest) (*user.User, error) {
	panic("not used in tests")
}

func (f *fakeUsers) Login(context.Context, string, string) (*user.User, error) {
	panic("not used in tests")
}

func (f *fakeUsers) GetByID(context.Context, string) (*user.User, error) {
	panic("not used in tests")
}

func (f *fakeUsers) List(context.Context, user.Filter) ([]*user.User, int, error) {
	panic("not used in tests")
}

func (f *fakeUsers) SetActive(context.Context, user.NIC, bool, user.Role) (*user.User, error) {
	panic("not used in tests")
}

//
// Harness
//

type harness struct {
	svc       *service
	repo      *fakeRepo
	stationID string
	qrCalls   int
}

// newHarness wires the service against in-memory fakes with a fixed clock and
// one active station of the given capacity.
func newHarness(t *testing.T, capacity int) *harness {
	t.Helper()

	repo := newFakeRepo()
	stationID := uuid.NewString()

	stations := &fakeStations{stations: map[string]*station.Station{
		stationID: {
			ID:             stationID,
			Name:           "Colombo Fort Supercharge",
			Type:           station.TypeDC,
			AvailableSlots: capacity,
			IsActive:       true,
		},
	}}

	users := &fakeUsers{users: map[user.NIC]*user.User{
		testNIC:     {ID: uuid.NewString(), NIC: testNIC, Role: user.RoleOwner, IsActive: true},
		inactiveNIC: {ID: uuid.NewString(), NIC: inactiveNIC, Role: user.RoleOwner, IsActive: false},
	}}

	h := &harness{repo: repo, stationID: stationID}

	qrStub := func(content string) (string, error) {
		h.qrCalls++
		return fmt.Sprintf("png-%d:%s", h.qrCalls, content), nil
	}

	svc := NewService(repo, stations, users, qrStub, zap.NewNop()).(*service)
	svc.now = func() time.Time { return fixedNow }

	h.svc = svc
	return h
}

func (h *harness) addStation(st *station.Station) {
	h.svc.stations.(*fakeStations).stations[st.ID] = st
}

func (h *harness) create(t *testing.T, date time.Time, hour int) *Booking {
	t.Helper()
	b, err := h.svc.Create(context.Background(), CreateRequest{
		OwnerNIC:  testNIC,
		StationID: h.stationID,
		Date:      date,
		Hour:      hour,
	})
	require.NoError(t, err)
	return b
}

func tomorrow() time.Time {
	return fixedNow.AddDate(0, 0, 1)
}

//
// Create
//

func TestCreateBooking(t *testing.T) {
	h := newHarness(t, 2)

	b := h.create(t, tomorrow(), 9)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusPending, b.Status)
	assert.Nil(t, b.QRBase64, "no QR before approval")
	assert.Equal(t, 9, b.ReservationHour)
	assert.Equal(t, time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), b.ReservationDate)
	assert.Equal(t, "Colombo Fort Supercharge", b.StationName)
}

func TestCreateBookingCapacity(t *testing.T) {
	h := newHarness(t, 2)

	h.create(t, tomorrow(), 9)
	h.create(t, tomorrow(), 9)

	// Third booking on the same (station, date, hour) triple must fail.
	_, err := h.svc.Create(context.Background(), CreateRequest{
		OwnerNIC:  testNIC,
		StationID: h.stationID,
		Date:      tomorrow(),
		Hour:      9,
	})
	require.ErrorIs(t, err, ErrSlotFull)
	assert.Contains(t, err.Error(), "09:00", "error carries the full hour")
	assert.Contains(t, err.Error(), "2", "error carries the capacity")

	// Same station, different hour succeeds.
	h.create(t, tomorrow(), 10)

	// Same hour, different date succeeds.
	h.create(t, fixedNow.AddDate(0, 0, 2), 9)
}

func TestCreateBookingCancelledDoesNotCount(t *testing.T) {
	h := newHarness(t, 1)

	b := h.create(t, tomorrow(), 9)
	_, err := h.svc.Cancel(context.Background(), b.ID)
	require.NoError(t, err)

	// Slot freed by cancellation.
	h.create(t, tomorrow(), 9)
}

func TestCreateBookingDateWindow(t *testing.T) {
	h := newHarness(t, 2)

	tests := []struct {
		name    string
		date    time.Time
		wantErr error
	}{
		{"today is allowed", fixedNow, nil},
		{"last day of window is allowed", fixedNow.AddDate(0, 0, 7), nil},
		{"eighth day is rejected", fixedNow.AddDate(0, 0, 8), ErrDateOutsideWindow},
		{"yesterday is rejected", fixedNow.AddDate(0, 0, -1), ErrDateOutsideWindow},
		// Date-only comparison: late tonight is still today.
		{"later today is allowed", fixedNow.Add(10 * time.Hour), nil},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Create(context.Background(), CreateRequest{
				OwnerNIC:  testNIC,
				StationID: h.stationID,
				Date:      tt.date,
				Hour:      14 + i%2, // avoid filling one slot
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateBookingInvalidHour(t *testing.T) {
	h := newHarness(t, 2)

	for _, hour := range []int{-1, 24, 99} {
		_, err := h.svc.Create(context.Background(), CreateRequest{
			OwnerNIC:  testNIC,
			StationID: h.stationID,
			Date:      tomorrow(),
			Hour:      hour,
		})
		assert.ErrorIs(t, err, ErrInvalidHour, "hour %d", hour)
	}
}

func TestCreateBookingOwnerChecks(t *testing.T) {
	h := newHarness(t, 2)

	_, err := h.svc.Create(context.Background(), CreateRequest{
		OwnerNIC:  unknownNIC,
		StationID: h.stationID,
		Date:      tomorrow(),
		Hour:      9,
	})
	assert.ErrorIs(t, err, ErrOwnerNotFound)

	_, err = h.svc.Create(context.Background(), CreateRequest{
		OwnerNIC:  inactiveNIC,
		StationID: h.stationID,
		Date:      tomorrow(),
		Hour:      9,
	})
	assert.ErrorIs(t, err, ErrOwnerInactive)
}

func TestCreateBookingStationChecks(t *testing.T) {
	h := newHarness(t, 2)

	_, err := h.svc.Create(context.Background(), CreateRequest{
		OwnerNIC:  testNIC,
		StationID: uuid.NewString(),
		Date:      tomorrow(),
		Hour:      9,
	})
	assert.ErrorIs(t, err, ErrStationNotFound)

	inactive := &station.Station{
		ID:             uuid.NewString(),
		Name:           "Closed Station",
		Type:           station.TypeAC,
		AvailableSlots: 2,
		IsActive:       false,
	}
	h.addStation(inactive)

	_, err = h.svc.Create(context.Background(), CreateRequest{
		OwnerNIC:  testNIC,
		StationID: inactive.ID,
		Date:      tomorrow(),
		Hour:      9,
	})
	assert.ErrorIs(t, err, ErrStationInactive)
}

//
// Update / Cancel windows
//

func TestModificationWindow(t *testing.T) {
	h := newHarness(t, 2)

	// Slot starts tomorrow at 14:00 UTC, i.e. 26 hours from fixedNow.
	b := h.create(t, tomorrow(), 14)
	slotStart := b.SlotStart()

	// 13 hours before the slot: update still allowed.
	h.svc.now = func() time.Time { return slotStart.Add(-13 * time.Hour) }
	newHour := 15
	_, err := h.svc.Update(context.Background(), b.ID, UpdateRequest{Hour: &newHour})
	require.NoError(t, err)

	// 11 hours before the slot: update and cancel both rejected.
	// The booking now sits at 15:00, so recompute the cutoff from there.
	updated, err := h.svc.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	h.svc.now = func() time.Time { return updated.SlotStart().Add(-11 * time.Hour) }

	newHour = 16
	_, err = h.svc.Update(context.Background(), b.ID, UpdateRequest{Hour: &newHour})
	assert.ErrorIs(t, err, ErrModifyWindow)

	_, err = h.svc.Cancel(context.Background(), b.ID)
	assert.ErrorIs(t, err, ErrModifyWindow)
}

func TestUpdateBookingCapacityRecheck(t *testing.T) {
	h := newHarness(t, 1)

	h.create(t, tomorrow(), 9)
	b := h.create(t, tomorrow(), 10)

	// Moving into the full hour must fail.
	newHour := 9
	_, err := h.svc.Update(context.Background(), b.ID, UpdateRequest{Hour: &newHour})
	assert.ErrorIs(t, err, ErrSlotFull)

	// Moving to a free hour succeeds and keeps the status.
	newHour = 11
	updated, err := h.svc.Update(context.Background(), b.ID, UpdateRequest{Hour: &newHour})
	require.NoError(t, err)
	assert.Equal(t, 11, updated.ReservationHour)
	assert.Equal(t, StatusPending, updated.Status)
}

func TestUpdateBookingStationChange(t *testing.T) {
	h := newHarness(t, 1)

	other := &station.Station{
		ID:             uuid.NewString(),
		Name:           "Kandy City Charge",
		Type:           station.TypeAC,
		AvailableSlots: 1,
		IsActive:       true,
	}
	h.addStation(other)

	b := h.create(t, tomorrow(), 9)

	updated, err := h.svc.Update(context.Background(), b.ID, UpdateRequest{StationID: &other.ID})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.StationID)
	assert.Equal(t, "Kandy City Charge", updated.StationName)

	// The original slot is freed, so a new booking fits there again.
	h.create(t, tomorrow(), 9)
}

func TestUpdateBookingUnknown(t *testing.T) {
	h := newHarness(t, 1)

	newHour := 9
	_, err := h.svc.Update(context.Background(), uuid.NewString(), UpdateRequest{Hour: &newHour})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelAlreadyCancelled(t *testing.T) {
	h := newHarness(t, 1)

	b := h.create(t, tomorrow(), 9)

	_, err := h.svc.Cancel(context.Background(), b.ID)
	require.NoError(t, err)

	// No status-specific guard: a second cancel re-applies the time check
	// and succeeds trivially.
	again, err := h.svc.Cancel(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, again.Status)
}

//
// Approve / Complete / Delete
//

func TestApproveBooking(t *testing.T) {
	h := newHarness(t, 2)

	b := h.create(t, tomorrow(), 9)

	approved, err := h.svc.Approve(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.QRBase64)

	wantPayload := fmt.Sprintf("booking:%s|owner:%s|station:%s|date:2025-01-07|hour:9",
		b.ID, testNIC, h.stationID)
	assert.Equal(t, "png-1:"+wantPayload, *approved.QRBase64)

	// Re-approval regenerates the image; payload content is unchanged.
	reapproved, err := h.svc.Approve(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, reapproved.Status)
	assert.Equal(t, "png-2:"+wantPayload, *reapproved.QRBase64)
}

func TestCompleteBooking(t *testing.T) {
	h := newHarness(t, 2)

	b := h.create(t, tomorrow(), 9)

	// No guard that the booking was Approved first.
	completed, err := h.svc.Complete(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)
}

func TestDeleteBooking(t *testing.T) {
	h := newHarness(t, 5)

	pending := h.create(t, tomorrow(), 9)
	require.NoError(t, h.svc.Delete(context.Background(), pending.ID))

	cancelled := h.create(t, tomorrow(), 10)
	_, err := h.svc.Cancel(context.Background(), cancelled.ID)
	require.NoError(t, err)
	require.NoError(t, h.svc.Delete(context.Background(), cancelled.ID))

	completed := h.create(t, tomorrow(), 11)
	_, err = h.svc.Complete(context.Background(), completed.ID)
	require.NoError(t, err)
	require.NoError(t, h.svc.Delete(context.Background(), completed.ID))

	approved := h.create(t, tomorrow(), 12)
	_, err = h.svc.Approve(context.Background(), approved.ID)
	require.NoError(t, err)
	err = h.svc.Delete(context.Background(), approved.ID)
	assert.ErrorIs(t, err, ErrDeleteApproved)

	// Still present after the rejected delete.
	_, err = h.svc.GetByID(context.Background(), approved.ID)
	assert.NoError(t, err)
}

//
// Availability
//

func TestStationAvailability(t *testing.T) {
	h := newHarness(t, 2)

	day := tomorrow()
	h.create(t, day, 9)
	h.create(t, day, 9)
	h.create(t, day, 15)

	cancelled := h.create(t, day, 20)
	_, err := h.svc.Cancel(context.Background(), cancelled.ID)
	require.NoError(t, err)

	a, err := h.svc.StationAvailability(context.Background(), h.stationID, day)
	require.NoError(t, err)

	assert.Equal(t, h.stationID, a.StationID)
	assert.Equal(t, "Colombo Fort Supercharge", a.StationName)
	require.Len(t, a.Hours, 24)

	for i, entry := range a.Hours {
		assert.Equal(t, i, entry.Hour, "hours must be 0-23 in order")
		assert.Equal(t, 2, entry.TotalSlots)
	}

	assert.Equal(t, 0, a.Hours[9].AvailableSlots)
	assert.Equal(t, 1, a.Hours[15].AvailableSlots)
	assert.Equal(t, 2, a.Hours[20].AvailableSlots, "cancelled bookings free the slot")
	assert.Equal(t, 2, a.Hours[0].AvailableSlots)
}

func TestStationAvailabilityEmptyDay(t *testing.T) {
	h := newHarness(t, 3)

	a, err := h.svc.StationAvailability(context.Background(), h.stationID, tomorrow())
	require.NoError(t, err)

	require.Len(t, a.Hours, 24, "24 entries even with no bookings")
	for _, entry := range a.Hours {
		assert.Equal(t, 3, entry.AvailableSlots)
	}
}

func TestStationAvailabilityUnknownStation(t *testing.T) {
	h := newHarness(t, 2)

	_, err := h.svc.StationAvailability(context.Background(), uuid.NewString(), tomorrow())
	assert.ErrorIs(t, err, ErrStationNotFound)

	_, err = h.svc.AvailableHours(context.Background(), uuid.NewString(), tomorrow())
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestAvailableHours(t *testing.T) {
	h := newHarness(t, 2)

	day := tomorrow()
	h.create(t, day, 9)
	h.create(t, day, 9)
	h.create(t, day, 15) // one of two slots taken, still available

	hours, err := h.svc.AvailableHours(context.Background(), h.stationID, day)
	require.NoError(t, err)

	require.Len(t, hours, 23)
	assert.NotContains(t, hours, 9)
	assert.Contains(t, hours, 15)

	// Ascending order.
	for i := 1; i < len(hours); i++ {
		assert.Less(t, hours[i-1], hours[i])
	}
}

//
// Upcoming bookings
//

func TestListUpcomingForStation(t *testing.T) {
	h := newHarness(t, 5)

	b := h.create(t, tomorrow(), 9)

	cancelled := h.create(t, tomorrow(), 10)
	_, err := h.svc.Cancel(context.Background(), cancelled.ID)
	require.NoError(t, err)

	upcoming, err := h.svc.ListUpcomingForStation(context.Background(), h.stationID)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, b.ID, upcoming[0].ID)
}

func TestUpcomingChecker(t *testing.T) {
	h := newHarness(t, 5)

	checker := NewUpcomingChecker(h.repo)

	has, err := checker.HasUpcomingBookings(context.Background(), h.stationID)
	require.NoError(t, err)
	assert.False(t, has)

	h.create(t, tomorrow(), 9)

	has, err = checker.HasUpcomingBookings(context.Background(), h.stationID)
	require.NoError(t, err)
	assert.True(t, has)
}
