package handler

import (
	"net/http"
	"strconv"

	"courtside/backend/internal/database"
	"courtside/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// region --- DTOs ---

// ReviewInput defines the body for creating a review.
type ReviewInput struct {
	Comment   string `json:"comment" binding:"required,max=150"`
	Anonymous bool   `json:"anonymous"`
}

// ReviewUpdateInput defines the editable review fields.
type ReviewUpdateInput struct {
	Comment   *string `json:"comment" binding:"omitempty,max=150"`
	Anonymous *bool   `json:"anonymous"`
}

// ReviewResponse is a review as shown on venue and profile pages.
type ReviewResponse struct {
	ID        uint      `json:"id"`
	VenueID   uuid.UUID `json:"venue_id"`
	VenueName string    `json:"venue_name,omitempty"`
	Username  string    `json:"username"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	Anonymous bool      `json:"anonymous"`
	Views     int       `json:"views"`
	CreatedAt string    `json:"created_at"`
}

func newReviewResponse(r models.Review) ReviewResponse {
	username := r.User.Username
	if r.Anonymous {
		username = "Anonymous"
	}
	return ReviewResponse{
		ID:        r.ID,
		VenueID:   r.VenueID,
		VenueName: r.Venue.Name,
		Username:  username,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Anonymous: r.Anonymous,
		Views:     r.Views,
		CreatedAt: r.CreatedAt.Format("02 Jan 2006"),
	}
}

// endregion

// CreateReview godoc
// @Summary      Review a venue
// @Description  One review per user per venue; the rating is a snapshot of the venue's current rating.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string       true  "Venue ID"
// @Param        input body  ReviewInput  true  "Review"
// @Success      201  {object}  ReviewResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Venue not found"
// @Failure      409  {object}  map[string]interface{} "Already reviewed"
// @Router       /reviews/venues/{id} [post]
func CreateReview(c *gin.Context) {
	viewerID, _ := c.Get("userID")
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

	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		if fe := fieldErrors(err); fe != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": fe})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing int64
	database.DB.Model(&models.Review{}).
		Where("user_id = ? AND venue_id = ?", viewerID, venueID).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "You have already reviewed this court. Edit your review instead."})
		return
	}

	rating := 0.0
	if venue.Rating != nil {
		rating = *venue.Rating
	}

	review := models.Review{
		UserID:    viewerID.(uint),
		VenueID:   venueID,
		Rating:    rating,
		Comment:   input.Comment,
		Anonymous: input.Anonymous,
	}
	if err := database.DB.Create(&review).Error; err != nil {
		// Unique index on (user, venue) is the backstop for racing
		// duplicate submissions.
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "You have already reviewed this court. Edit your review instead."})
		return
	}

	database.DB.Preload("User").Preload("Venue").First(&review, review.ID)

	c.JSON(http.StatusCreated, newReviewResponse(review))
}

// ListVenueReviews godoc
// @Summary      List a venue's reviews
// @Description  All reviews for a venue, newest first, with the computed average.
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Venue ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse "Venue not found"
// @Router       /venues/{id}/reviews [get]
func ListVenueReviews(c *gin.Context) {
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

	var reviews []models.Review
	if err := database.DB.
		Where("venue_id = ?", venueID).
		Preload("User").
		Preload("Venue").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	responses := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		responses = append(responses, newReviewResponse(r))
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":    responses,
		"avg_rating": venueAvgRating(venueID),
	})
}

// MyReviews godoc
// @Summary      List my reviews
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]ReviewResponse
// @Router       /reviews/me [get]
func MyReviews(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var reviews []models.Review
	if err := database.DB.
		Where("user_id = ?", viewerID).
		Preload("User").
		Preload("Venue").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	responses := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		responses = append(responses, newReviewResponse(r))
	}

	c.JSON(http.StatusOK, gin.H{"reviews": responses})
}

// UpdateReview godoc
// @Summary      Edit my review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                true  "Review ID"
// @Param        input body  ReviewUpdateInput  true  "Fields"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse "Review not found"
// @Router       /reviews/{id} [put]
func UpdateReview(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var review models.Review
	if err := database.DB.Where("id = ? AND user_id = ?", reviewID, viewerID).First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	var input ReviewUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Comment != nil {
		review.Comment = *input.Comment
	}
	if input.Anonymous != nil {
		review.Anonymous = *input.Anonymous
	}

	if err := database.DB.Save(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"comment":   review.Comment,
		"anonymous": review.Anonymous,
	})
}

// DeleteReview godoc
// @Summary      Delete my review
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Review ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse "Review not found"
// @Router       /reviews/{id} [delete]
func DeleteReview(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	// Hard delete so the (user, venue) slot frees up for a new review.
	result := database.DB.Unscoped().
		Where("id = ? AND user_id = ?", reviewID, viewerID).
		Delete(&models.Review{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
