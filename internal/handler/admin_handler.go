package handler

import (
	"net/http"
	"strconv"

	"courtside/backend/internal/database"
	"courtside/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// region --- DTOs ---

// AdminUserInput defines the admin create-user body.
type AdminUserInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=customer venue_owner admin"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// AdminUserUpdateInput defines the admin update-user body.
type AdminUserUpdateInput struct {
	Email   *string `json:"email" binding:"omitempty,email"`
	Role    *string `json:"role" binding:"omitempty,oneof=customer venue_owner admin"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// AdminUserResponse is a user row on the admin dashboard.
type AdminUserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Joined   string `json:"joined"`
}

// endregion

// AdminListUsers godoc
// @Summary      List users (Admin)
// @Description  All users, optionally filtered by role.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role  query  string  false  "Role filter (customer, venue_owner, admin, all)"
// @Success      200  {object}  map[string][]AdminUserResponse
// @Router       /admin/users [get]
func AdminListUsers(c *gin.Context) {
	roleFilter := c.Query("role")

	query := database.DB.Model(&models.User{})
	if roleFilter != "" && roleFilter != "all" {
		query = query.Where("role = ?", roleFilter)
	}

	var users []models.User
	if err := query.Order("id ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	responses := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, AdminUserResponse{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Role:     u.Role,
			Phone:    u.Phone,
			Address:  u.Address,
			Joined:   u.CreatedAt.Format("02 Jan 2006"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": responses})
}

// AdminCreateUser godoc
// @Summary      Create a user (Admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body AdminUserInput true "User"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Duplicate username or email"
// @Router       /admin/users [post]
func AdminCreateUser(c *gin.Context) {
	var input AdminUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		if fe := fieldErrors(err); fe != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": fe})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if err := database.DB.Where("username = ? OR email = ?", input.Username, input.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
		Phone:        input.Phone,
		Address:      input.Address,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "id": user.ID})
}

// AdminUpdateUser godoc
// @Summary      Update a user (Admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                  true  "User ID"
// @Param        input body  AdminUserUpdateInput true  "Fields"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/users/{id} [put]
func AdminUpdateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input AdminUserUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}

	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminDeleteUser godoc
// @Summary      Delete a user (Admin)
// @Description  Deletes the account. Bookings, reviews, requests and messages cascade via foreign keys.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/users/{id} [delete]
func AdminDeleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	result := database.DB.Unscoped().Delete(&models.User{}, userID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminListBookings godoc
// @Summary      List all bookings (Admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]BookingResponse
// @Router       /admin/bookings [get]
func AdminListBookings(c *gin.Context) {
	var bookings []models.Booking
	if err := database.DB.
		Preload("Venue").
		Order("booking_date DESC, start_time DESC").
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

// AdminDeleteBooking godoc
// @Summary      Delete any booking (Admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Booking ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/bookings/{id} [delete]
func AdminDeleteBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	result := database.DB.Delete(&models.Booking{}, "id = ?", bookingID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete booking"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
