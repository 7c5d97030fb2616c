package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingBody(venueID, date, start string) gin.H {
	return gin.H{
		"venue_id":       venueID,
		"booking_date":   date,
		"start_time":     start,
		"customer_name":  "Alice",
		"customer_email": "alice@example.com",
		"customer_phone": "08123456789",
	}
}

func TestCreateBookingAndSlotGrid(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	withFixedNow(t, time.Date(2026, 5, 20, 9, 0, 0, 0, venueTimezone))

	_, token := createTestUser(t, "alice", "customer")
	venue := createTestVenue(t, "Padel Arena")

	w := doRequest(t, router, http.MethodPost, "/api/v1/bookings",
		bookingBody(venue.ID.String(), "2026-05-21", "14:00"), token)
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]any
	decodeBody(t, w, &created)
	assert.Equal(t, true, created["success"])
	assert.NotEmpty(t, created["booking_id"])

	// The slot grid reflects the booking.
	w = doRequest(t, router, http.MethodGet, "/api/v1/venues/"+venue.ID.String()+"/slots?date=2026-05-21", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var grid struct {
		Date  string     `json:"date"`
		Slots []TimeSlot `json:"slots"`
	}
	decodeBody(t, w, &grid)
	assert.Equal(t, "2026-05-21", grid.Date)
	require.Len(t, grid.Slots, 12)

	for _, s := range grid.Slots {
		if s.StartTime == "14:00" {
			assert.True(t, s.IsBooked)
			assert.False(t, s.Available)
		} else {
			assert.False(t, s.IsBooked, s.StartTime)
		}
	}
}

func TestCreateBookingDoubleBook(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	withFixedNow(t, time.Date(2026, 5, 20, 9, 0, 0, 0, venueTimezone))

	_, aliceToken := createTestUser(t, "alice", "customer")
	_, bobToken := createTestUser(t, "bob", "customer")
	venue := createTestVenue(t, "Padel Arena")

	w := doRequest(t, router, http.MethodPost, "/api/v1/bookings",
		bookingBody(venue.ID.String(), "2026-05-21", "14:00"), aliceToken)
	require.Equal(t, http.StatusCreated, w.Code)

	// Same slot, different user: rejected.
	w = doRequest(t, router, http.MethodPost, "/api/v1/bookings",
		bookingBody(venue.ID.String(), "2026-05-21", "14:00"), bobToken)
	require.Equal(t, http.StatusConflict, w.Code)

	var body map[string]any
	decodeBody(t, w, &body)
	assert.Equal(t, "This time slot is already booked", body["message"])

	// Adjacent slot is still free.
	w = doRequest(t, router, http.MethodPost, "/api/v1/bookings",
		bookingBody(venue.ID.String(), "2026-05-21", "15:00"), bobToken)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateBookingInvalidInput(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	_, token := createTestUser(t, "alice", "customer")
	venue := createTestVenue(t, "Padel Arena")

	// Off-grid start times.
	for _, start := range []string{"14:30", "09:00", "22:00"} {
		w := doRequest(t, router, http.MethodPost, "/api/v1/bookings",
			bookingBody(venue.ID.String(), "2026-05-21", start), token)
		assert.Equal(t, http.StatusBadRequest, w.Code, start)
	}

	// Bad date.
	w := doRequest(t, router, http.MethodPost, "/api/v1/bookings",
		bookingBody(venue.ID.String(), "21-05-2026", "14:00"), token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown venue.
	w = doRequest(t, router, http.MethodPost, "/api/v1/bookings",
		bookingBody("00000000-0000-0000-0000-000000000001", "2026-05-21", "14:00"), token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMyBookingsAndDelete(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	withFixedNow(t, time.Date(2026, 5, 20, 9, 0, 0, 0, venueTimezone))

	_, aliceToken := createTestUser(t, "alice", "customer")
	_, bobToken := createTestUser(t, "bob", "customer")
	venue := createTestVenue(t, "Padel Arena")

	w := doRequest(t, router, http.MethodPost, "/api/v1/bookings",
		bookingBody(venue.ID.String(), "2026-05-21", "14:00"), aliceToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		BookingID string `json:"booking_id"`
	}
	decodeBody(t, w, &created)

	w = doRequest(t, router, http.MethodGet, "/api/v1/bookings", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	var mine struct {
		Bookings []BookingResponse `json:"bookings"`
	}
	decodeBody(t, w, &mine)
	require.Len(t, mine.Bookings, 1)
	assert.Equal(t, "Padel Arena", mine.Bookings[0].VenueName)
	assert.Equal(t, "15:00", mine.Bookings[0].EndTime)
	assert.False(t, mine.Bookings[0].IsPast)

	// Another user cannot cancel it.
	w = doRequest(t, router, http.MethodDelete, "/api/v1/bookings/"+created.BookingID, nil, bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/api/v1/bookings/"+created.BookingID, nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/bookings", nil, aliceToken)
	decodeBody(t, w, &mine)
	assert.Empty(t, mine.Bookings)
}

func TestUpdateBookingContact(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	withFixedNow(t, time.Date(2026, 5, 20, 9, 0, 0, 0, venueTimezone))

	_, token := createTestUser(t, "alice", "customer")
	venue := createTestVenue(t, "Padel Arena")

	w := doRequest(t, router, http.MethodPost, "/api/v1/bookings",
		bookingBody(venue.ID.String(), "2026-05-21", "14:00"), token)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		BookingID string `json:"booking_id"`
	}
	decodeBody(t, w, &created)

	w = doRequest(t, router, http.MethodPut, "/api/v1/bookings/"+created.BookingID, gin.H{
		"customer_phone": "08999999999",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/bookings", nil, token)
	var mine struct {
		Bookings []BookingResponse `json:"bookings"`
	}
	decodeBody(t, w, &mine)
	require.Len(t, mine.Bookings, 1)
	assert.Equal(t, "08999999999", mine.Bookings[0].CustomerPhone)
	assert.Equal(t, "Alice", mine.Bookings[0].CustomerName)
}
