package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountByHour(t *testing.T) {
	bookings := []*Booking{
		{ReservationHour: 9, Status: StatusPending},
		{ReservationHour: 9, Status: StatusApproved},
		{ReservationHour: 9, Status: StatusCancelled},
		{ReservationHour: 15, Status: StatusCompleted},
		{ReservationHour: 0, Status: StatusPending},
		{ReservationHour: 23, Status: StatusPending},
	}

	counts := countByHour(bookings)

	assert.Equal(t, 2, counts[9], "cancelled booking must not count")
	assert.Equal(t, 1, counts[15])
	assert.Equal(t, 1, counts[0])
	assert.Equal(t, 1, counts[23])
	assert.Equal(t, 0, counts[12])
}

func TestCountByHourIgnoresCorruptHours(t *testing.T) {
	bookings := []*Booking{
		{ReservationHour: -1, Status: StatusPending},
		{ReservationHour: 24, Status: StatusPending},
	}

	counts := countByHour(bookings)
	for h, c := range counts {
		assert.Equal(t, 0, c, "hour %d", h)
	}
}

func TestBuildHours(t *testing.T) {
	var counts [hoursPerDay]int
	counts[9] = 3
	counts[15] = 1
	counts[20] = 5 // oversubscribed

	hours := buildHours(counts, 3)

	require.Len(t, hours, 24)
	for h, entry := range hours {
		assert.Equal(t, h, entry.Hour)
		assert.Equal(t, 3, entry.TotalSlots)
	}

	assert.Equal(t, 0, hours[9].AvailableSlots)
	assert.Equal(t, 2, hours[15].AvailableSlots)
	assert.Equal(t, 0, hours[20].AvailableSlots, "never negative")
	assert.Equal(t, 3, hours[0].AvailableSlots)
}

func TestFreeHours(t *testing.T) {
	var counts [hoursPerDay]int
	counts[9] = 2
	counts[10] = 1

	hours := freeHours(counts, 2)

	require.Len(t, hours, 23)
	assert.NotContains(t, hours, 9)
	assert.Contains(t, hours, 10)

	for i := 1; i < len(hours); i++ {
		assert.Less(t, hours[i-1], hours[i], "hours must be ascending")
	}
}

func TestFreeHoursAllTaken(t *testing.T) {
	var counts [hoursPerDay]int
	for h := range counts {
		counts[h] = 1
	}

	assert.Empty(t, freeHours(counts, 1))
}
