package handler

import (
	"fmt"
	"time"
)

// Booking hours are a fixed business rule: hourly slots from 10:00 to
// 22:00, venue local time.
const (
	slotOpenHour  = 10
	slotCloseHour = 22
)

// All venues live in one region; slot arithmetic uses its fixed offset
// rather than the server's local time.
var venueTimezone = time.FixedZone("WIB", 7*60*60)

// nowFunc is swapped out in tests.
var nowFunc = time.Now

// TimeSlot is one bookable hour of a venue's day.
type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Display   string `json:"display"`
	IsBooked  bool   `json:"is_booked"`
	IsPast    bool   `json:"is_past"`
	Available bool   `json:"is_available"`
}

// generateTimeSlots builds the fixed slot grid for a date. booked holds
// the start times (HH:MM) that already have a booking. Purely a read-side
// computation; callers may run it concurrently.
func generateTimeSlots(date string, booked map[string]bool) []TimeSlot {
	now := nowFunc().In(venueTimezone)
	today := now.Format("2006-01-02")

	slots := make([]TimeSlot, 0, slotCloseHour-slotOpenHour)
	for hour := slotOpenHour; hour < slotCloseHour; hour++ {
		start := fmt.Sprintf("%02d:00", hour)
		end := fmt.Sprintf("%02d:00", hour+1)

		isPast := date < today
		if date == today {
			// A slot is gone once its start time has been reached.
			slotStart := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, venueTimezone)
			isPast = !slotStart.After(now)
		}

		isBooked := booked[start]

		slots = append(slots, TimeSlot{
			StartTime: start,
			EndTime:   end,
			Display:   fmt.Sprintf("%s - %s", start, end),
			IsBooked:  isBooked,
			IsPast:    isPast,
			Available: !isBooked && !isPast,
		})
	}

	return slots
}

// validSlotStart reports whether a start time lands on one of the fixed
// hourly slots.
func validSlotStart(start string) bool {
	t, err := time.Parse("15:04", start)
	if err != nil || t.Minute() != 0 {
		return false
	}
	return t.Hour() >= slotOpenHour && t.Hour() < slotCloseHour
}
