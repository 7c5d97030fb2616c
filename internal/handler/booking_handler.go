package handler

import (
	"fmt"
	"net/http"
	"time"

	"courtside/backend/internal/database"
	"courtside/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// region --- DTOs ---

// BookingInput defines the body for creating a booking.
type BookingInput struct {
	VenueID       uuid.UUID `json:"venue_id" binding:"required"`
	BookingDate   string    `json:"booking_date" binding:"required"`
	StartTime     string    `json:"start_time" binding:"required"`
	CustomerName  string    `json:"customer_name" binding:"required"`
	CustomerEmail string    `json:"customer_email" binding:"required,email"`
	CustomerPhone string    `json:"customer_phone" binding:"required"`
}

// BookingUpdateInput defines the editable contact snapshot fields.
type BookingUpdateInput struct {
	CustomerName  *string `json:"customer_name"`
	CustomerEmail *string `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone *string `json:"customer_phone"`
}

// BookingResponse is a booking as returned to its owner.
type BookingResponse struct {
	ID            uuid.UUID `json:"id"`
	VenueID       uuid.UUID `json:"venue_id"`
	VenueName     string    `json:"venue_name"`
	BookingDate   string    `json:"booking_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	IsPast        bool      `json:"is_past"`
}

func newBookingResponse(b models.Booking) BookingResponse {
	now := nowFunc().In(venueTimezone)
	today := now.Format("2006-01-02")
	isPast := b.BookingDate < today ||
		(b.BookingDate == today && b.StartTime <= now.Format("15:04"))

	return BookingResponse{
		ID:            b.ID,
		VenueID:       b.VenueID,
		VenueName:     b.Venue.Name,
		BookingDate:   b.BookingDate,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		IsPast:        isPast,
	}
}

// endregion

// GetVenueSlots godoc
// @Summary      Get a venue's time slots
// @Description  Returns the fixed hourly slot grid for a date with booked/past/available flags. Read-only.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   string  true   "Venue ID"
// @Param        date  query  string  false  "Date (YYYY-MM-DD), defaults to today"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse "Invalid date"
// @Failure      404  {object}  ErrorResponse "Venue not found"
// @Router       /venues/{id}/slots [get]
func GetVenueSlots(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue ID"})
		return
	}

	var venue models.Venue
	if err := database.DB.First(&venue, "id = ?", venueID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		return
	}

	date := c.Query("date")
	if date == "" {
		date = nowFunc().In(venueTimezone).Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	var startTimes []string
	database.DB.Model(&models.Booking{}).
		Where("venue_id = ? AND booking_date = ?", venueID, date).
		Pluck("start_time", &startTimes)

	booked := make(map[string]bool, len(startTimes))
	for _, s := range startTimes {
		booked[s] = true
	}

	c.JSON(http.StatusOK, gin.H{
		"venue_id": venueID,
		"date":     date,
		"slots":    generateTimeSlots(date, booked),
	})
}

// CreateBooking godoc
// @Summary      Book a time slot
// @Description  Books one hourly slot. The pre-check is best effort; the database uniqueness constraint on (venue, date, start_time) is authoritative.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body BookingInput true "Booking"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Venue not found"
// @Failure      409  {object}  map[string]interface{} "Slot already booked"
// @Router       /bookings [post]
func CreateBooking(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		if fe := fieldErrors(err); fe != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": fe})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var venue models.Venue
	if err := database.DB.First(&venue, "id = ?", input.VenueID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Venue not found"})
		return
	}

	start, err := time.Parse("15:04", input.StartTime)
	if err != nil || !validSlotStart(input.StartTime) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Start time must be one of the hourly slots"})
		return
	}
	if _, err := time.Parse("2006-01-02", input.BookingDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking date, expected YYYY-MM-DD"})
		return
	}

	// Best-effort pre-check. Two concurrent requests can both pass it;
	// the unique index resolves the race below.
	var existing int64
	database.DB.Model(&models.Booking{}).
		Where("venue_id = ? AND booking_date = ? AND start_time = ?", venue.ID, input.BookingDate, input.StartTime).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "This time slot is already booked"})
		return
	}

	booking := models.Booking{
		UserID:        viewerID.(uint),
		VenueID:       venue.ID,
		BookingDate:   input.BookingDate,
		StartTime:     input.StartTime,
		EndTime:       fmt.Sprintf("%02d:00", start.Hour()+1),
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
	}
	if err := database.DB.Create(&booking).Error; err != nil {
		// Almost certainly the unique index; surface it the same way as
		// the pre-check.
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "This time slot is already booked"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Booking Created!",
		"booking_id": booking.ID,
	})
}

// MyBookings godoc
// @Summary      List my bookings
// @Description  The caller's bookings, newest first, flagged past/upcoming.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]BookingResponse
// @Router       /bookings [get]
func MyBookings(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var bookings []models.Booking
	if err := database.DB.
		Where("user_id = ?", viewerID).
		Preload("Venue").
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, newBookingResponse(b))
	}

	c.JSON(http.StatusOK, gin.H{"bookings": responses})
}

// UpdateBooking godoc
// @Summary      Update a booking's contact details
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string              true  "Booking ID"
// @Param        input body  BookingUpdateInput  true  "Contact fields"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse "Booking not found"
// @Router       /bookings/{id} [put]
func UpdateBooking(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var booking models.Booking
	if err := database.DB.Where("id = ? AND user_id = ?", bookingID, viewerID).First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Booking not found"})
		return
	}

	var input BookingUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.CustomerName != nil {
		booking.CustomerName = *input.CustomerName
	}
	if input.CustomerEmail != nil {
		booking.CustomerEmail = *input.CustomerEmail
	}
	if input.CustomerPhone != nil {
		booking.CustomerPhone = *input.CustomerPhone
	}

	if err := database.DB.Save(&booking).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking Updated!"})
}

// DeleteBooking godoc
// @Summary      Cancel a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Booking ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse "Booking not found"
// @Router       /bookings/{id} [delete]
func DeleteBooking(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	result := database.DB.Where("id = ? AND user_id = ?", bookingID, viewerID).Delete(&models.Booking{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete booking"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking Deleted!"})
}
