package booking

import "time"

const hoursPerDay = 24

// HourAvailability is the remaining capacity of one hour slot.
type HourAvailability struct {
	Hour           int
	AvailableSlots int
	TotalSlots     int
}

// DayAvailability is the per-hour breakdown for one station on one day.
// Hours always holds 24 entries, hours 0-23 in order.
type DayAvailability struct {
	StationID   string
	StationName string
	Date        time.Time
	Hours       []HourAvailability
}

// countByHour buckets bookings into their reservation hour.
// Cancelled bookings do not occupy capacity and are skipped.
func countByHour(bookings []*Booking) [hoursPerDay]int {
	var counts [hoursPerDay]int
	for _, b := range bookings {
		if b.Status == StatusCancelled {
			continue
		}
		if b.ReservationHour < 0 || b.ReservationHour >= hoursPerDay {
			continue
		}
		counts[b.ReservationHour]++
	}
	return counts
}

// buildHours produces the full 24-entry breakdown for a station of the given
// capacity. Available slots never go below zero even if a slot was
// oversubscribed.
func buildHours(counts [hoursPerDay]int, capacity int) []HourAvailability {
	hours := make([]HourAvailability, hoursPerDay)
	for h := 0; h < hoursPerDay; h++ {
		available := capacity - counts[h]
		if available < 0 {
			available = 0
		}
		hours[h] = HourAvailability{
			Hour:           h,
			AvailableSlots: available,
			TotalSlots:     capacity,
		}
	}
	return hours
}

// freeHours returns the hours that still have capacity left, ascending.
func freeHours(counts [hoursPerDay]int, capacity int) []int {
	hours := make([]int, 0, hoursPerDay)
	for h := 0; h < hoursPerDay; h++ {
		if counts[h] < capacity {
			hours = append(hours, h)
		}
	}
	return hours
}
