package handler

import (
	"context"
	"errors"
	"net/http"

	"courtside/backend/internal/config"
	"courtside/backend/internal/database"
	"courtside/backend/internal/models"
	"courtside/backend/internal/places"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlaceSearcher is the slice of the places client the venue handlers
// need; swapped for a stub in tests.
type PlaceSearcher interface {
	TextSearch(ctx context.Context, query string) ([]places.Place, error)
}

// PlacesClient is set during startup.
var PlacesClient PlaceSearcher

// region --- DTOs ---

// VenueInput defines the admin create/update body for a venue.
type VenueInput struct {
	PlaceID      string   `json:"place_id" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	Address      string   `json:"address" binding:"required"`
	Location     string   `json:"location"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Rating       *float64 `json:"rating"`
	TotalReview  *int     `json:"total_review"`
	ThumbnailURL string   `json:"thumbnail_url"`
	ImageURL     string   `json:"image_url"`
	Description  string   `json:"description"`
	Notes        string   `json:"notes"`
	IsFeatured   bool     `json:"is_featured"`
}

// VenueResponse is the public venue representation.
type VenueResponse struct {
	ID           uuid.UUID `json:"id"`
	PlaceID      string    `json:"place_id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	Address      string    `json:"address"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	Rating       *float64  `json:"rating"`
	TotalReview  *int      `json:"total_review"`
	ThumbnailURL string    `json:"thumbnail_url"`
	ImageURL     string    `json:"image_url"`
	Description  string    `json:"description"`
	IsFeatured   bool      `json:"is_featured"`
	AvgUserRating float64  `json:"avg_user_rating"`
}

func newVenueResponse(v models.Venue) VenueResponse {
	return VenueResponse{
		ID:            v.ID,
		PlaceID:       v.PlaceID,
		Name:          v.Name,
		Location:      v.Location,
		Address:       v.Address,
		Latitude:      v.Latitude,
		Longitude:     v.Longitude,
		Rating:        v.Rating,
		TotalReview:   v.TotalReview,
		ThumbnailURL:  v.ThumbnailURL,
		ImageURL:      v.ImageURL,
		Description:   v.Description,
		IsFeatured:    v.IsFeatured,
		AvgUserRating: venueAvgRating(v.ID),
	}
}

// endregion

// ListVenues godoc
// @Summary      List venues
// @Description  Paginated venue catalog ordered by upstream rating.
// @Tags         venues
// @Produce      json
// @Security     BearerAuth
// @Param        featured query  bool  false "Only featured venues"
// @Param        page     query  int   false "Page number" default(1)
// @Param        limit    query  int   false "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[VenueResponse]
// @Router       /venues [get]
func ListVenues(c *gin.Context) {
	page, limit := pageParams(c)

	query := database.DB.Model(&models.Venue{})
	if c.Query("featured") == "true" {
		query = query.Where("is_featured = ?", true)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count venues"})
		return
	}

	var venues []models.Venue
	if err := query.
		Order("rating DESC, total_review DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&venues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch venues"})
		return
	}

	responses := make([]VenueResponse, 0, len(venues))
	for _, v := range venues {
		responses = append(responses, newVenueResponse(v))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, totalItems, page, limit))
}

// GetVenueByID godoc
// @Summary      Get venue detail
// @Description  Venue detail with its four most recent reviews.
// @Tags         venues
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Venue ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /venues/{id} [get]
func GetVenueByID(c *gin.Context) {
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

	var recent []models.Review
	database.DB.Where("venue_id = ?", venueID).
		Preload("User").
		Order("created_at DESC").
		Limit(4).
		Find(&recent)

	reviews := make([]ReviewResponse, 0, len(recent))
	for _, r := range recent {
		reviews = append(reviews, newReviewResponse(r))
	}

	c.JSON(http.StatusOK, gin.H{
		"venue":   newVenueResponse(venue),
		"reviews": reviews,
	})
}

// RefreshVenues godoc
// @Summary      Refresh the venue catalog
// @Description  Fetches the upstream place search and upserts results keyed on place_id.
// @Tags         venues
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{} "created/updated counts"
// @Failure      500  {object}  ErrorResponse "Upstream failure"
// @Router       /admin/venues/refresh [post]
func RefreshVenues(c *gin.Context) {
	results, err := PlacesClient.TextSearch(c.Request.Context(), config.AppConfig.MapsQuery)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Place search failed: " + err.Error()})
		return
	}

	created, updated := 0, 0
	for _, p := range results {
		var venue models.Venue
		err := database.DB.Where("place_id = ?", p.PlaceID).First(&venue).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			venue = models.Venue{
				PlaceID:      p.PlaceID,
				Name:         p.Name,
				Address:      p.Address,
				Rating:       &p.Rating,
				TotalReview:  &p.TotalReview,
				ThumbnailURL: p.ThumbnailURL,
			}
			if err := database.DB.Create(&venue).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store venue"})
				return
			}
			created++
			continue
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up venue"})
			return
		}

		venue.Name = p.Name
		venue.Address = p.Address
		venue.Rating = &p.Rating
		venue.TotalReview = &p.TotalReview
		venue.ThumbnailURL = p.ThumbnailURL
		if err := database.DB.Save(&venue).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update venue"})
			return
		}
		updated++
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"created": created,
		"updated": updated,
	})
}

// region --- Admin venue CRUD ---

// CreateVenue godoc
// @Summary      Create a venue (Admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body VenueInput true "Venue"
// @Success      201  {object}  VenueResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Duplicate place_id"
// @Router       /admin/venues [post]
func CreateVenue(c *gin.Context) {
	var input VenueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		if fe := fieldErrors(err); fe != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": fe})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Venue
	if err := database.DB.Where("place_id = ?", input.PlaceID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A venue with this place_id already exists"})
		return
	}

	venue := models.Venue{
		PlaceID:      input.PlaceID,
		Name:         input.Name,
		Address:      input.Address,
		Location:     input.Location,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Rating:       input.Rating,
		TotalReview:  input.TotalReview,
		ThumbnailURL: input.ThumbnailURL,
		ImageURL:     input.ImageURL,
		Description:  input.Description,
		Notes:        input.Notes,
		IsFeatured:   input.IsFeatured,
	}
	if err := database.DB.Create(&venue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create venue"})
		return
	}

	c.JSON(http.StatusCreated, newVenueResponse(venue))
}

// UpdateVenue godoc
// @Summary      Update a venue (Admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string     true  "Venue ID"
// @Param        input body  VenueInput true  "Venue"
// @Success      200  {object}  VenueResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/venues/{id} [put]
func UpdateVenue(c *gin.Context) {
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

	var input VenueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	venue.PlaceID = input.PlaceID
	venue.Name = input.Name
	venue.Address = input.Address
	venue.Location = input.Location
	venue.Latitude = input.Latitude
	venue.Longitude = input.Longitude
	venue.Rating = input.Rating
	venue.TotalReview = input.TotalReview
	venue.ThumbnailURL = input.ThumbnailURL
	venue.ImageURL = input.ImageURL
	venue.Description = input.Description
	venue.Notes = input.Notes
	venue.IsFeatured = input.IsFeatured

	if err := database.DB.Save(&venue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update venue"})
		return
	}

	c.JSON(http.StatusOK, newVenueResponse(venue))
}

// DeleteVenue godoc
// @Summary      Delete a venue (Admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Venue ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/venues/{id} [delete]
func DeleteVenue(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue ID"})
		return
	}

	result := database.DB.Delete(&models.Venue{}, "id = ?", venueID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete venue"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Venue deleted"})
}

// endregion

// venueAvgRating computes the local review average for a venue on read.
func venueAvgRating(venueID uuid.UUID) float64 {
	var avg *float64
	database.DB.Model(&models.Review{}).Where("venue_id = ?", venueID).Select("AVG(rating)").Scan(&avg)
	if avg == nil {
		return 0
	}
	return *avg
}
