package handler

import (
	"errors"
	"net/http"
	"strconv"

	"courtside/backend/internal/database"
	"courtside/backend/internal/models"
	"courtside/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Username string `json:"username" binding:"required" example:"testuser"`
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
	Role     string `json:"role" binding:"omitempty,oneof=customer venue_owner" example:"customer"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UpdateProfileInput defines the editable profile fields.
type UpdateProfileInput struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Address  *string `json:"address" binding:"omitempty,max=255"`
	PhotoURL *string `json:"photo_url" binding:"omitempty,url"`
	Bio      *string `json:"bio"`
}

// PublicUserResponse defines the structure for a user's public profile.
type PublicUserResponse struct {
	ID           uint    `json:"id" example:"1"`
	Username     string  `json:"username" example:"testuser"`
	Role         string  `json:"role" example:"customer"`
	PhotoURL     string  `json:"photo_url"`
	Bio          string  `json:"bio"`
	FriendsCount int64   `json:"friends_count"`
	AvgRating    float64 `json:"avg_rating"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID              uint    `json:"id" example:"1"`
	Username        string  `json:"username" example:"testuser"`
	Email           string  `json:"email" example:"test@example.com"`
	Role            string  `json:"role" example:"customer"`
	Phone           string  `json:"phone"`
	Address         string  `json:"address"`
	PhotoURL        string  `json:"photo_url"`
	Bio             string  `json:"bio"`
	TotalBooking    int64   `json:"total_booking"`
	AvgRating       float64 `json:"avg_rating"`
	JoinedDate      string  `json:"joined_date"`
	FriendsCount    int64   `json:"friends_count"`
	PendingRequests int64   `json:"pending_requests"`
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// endregion

// fieldErrors flattens validator errors into a field -> message map.
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = "failed validation on '" + fe.Tag() + "'"
	}
	return out
}

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user account and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		if fe := fieldErrors(err); fe != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": fe})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingUser models.User
	if err := database.DB.Where("username = ? OR email = ?", input.Username, input.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	role := input.Role
	if role == "" {
		role = models.RoleCustomer
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "role": user.Role})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with username/email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /auth/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", input.Login, input.Login).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// Role is included so clients can route admins to the dashboard.
	c.JSON(http.StatusOK, gin.H{"token": token, "role": user.Role})
}

// LogoutUser godoc
// @Summary      Log out
// @Description  Tokens are stateless; logout is a client-side discard. Exists for mobile-client parity.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]bool "{"success": true}"
// @Router       /auth/logout [post]
func LogoutUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// endregion

// region --- User Handlers ---

// SearchUsers godoc
// @Summary      Search for users
// @Description  Searches for users by username with pagination.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  false  "Search query for username"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedResponse[PublicUserResponse]
// @Failure      401   {object}  ErrorResponse
// @Router       /users [get]
func SearchUsers(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	searchQuery := c.Query("q")
	page, limit := pageParams(c)
	offset := (page - 1) * limit

	query := database.DB.Model(&models.User{}).Where("id <> ?", viewerID)
	if searchQuery != "" {
		query = query.Where("username LIKE ?", "%"+searchQuery+"%")
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}

	var users []models.User
	if err := query.Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	responses := make([]PublicUserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, buildPublicUserResponse(user))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, totalItems, page, limit))
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Description  Retrieves the public profile for a specific user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  PublicUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func GetUserByID(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	// Viewing yourself gives the private profile.
	if viewerID.(uint) == uint(targetUserID) {
		GetMe(c)
		return
	}

	var targetUser models.User
	if err := database.DB.First(&targetUser, uint(targetUserID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, buildPublicUserResponse(targetUser))
}

// GetMe godoc
// @Summary      Get current user's profile
// @Description  Retrieves the private profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, buildPrivateUserResponse(user))
}

// UpdateMe godoc
// @Summary      Update current user's profile
// @Description  Updates contact and profile fields for the authenticated user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateProfileInput true "Profile fields"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  map[string]interface{} "field error map"
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [put]
func UpdateMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		if fe := fieldErrors(err); fe != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": fe})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.PhotoURL != nil {
		user.PhotoURL = *input.PhotoURL
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, buildPrivateUserResponse(user))
}

// GetFriendSuggestions godoc
// @Summary      Get friend suggestions
// @Description  Returns up to 15 random customer profiles excluding the viewer and existing friends.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]PublicUserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/suggestions [get]
func GetFriendSuggestions(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	friendIDs := friendIDsOf(viewerID.(uint))
	excluded := append(friendIDs, viewerID.(uint))

	var suggestions []models.User
	if err := database.DB.
		Where("role = ?", models.RoleCustomer).
		Where("id NOT IN ?", excluded).
		Order("RANDOM()").
		Limit(15).
		Find(&suggestions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch suggestions"})
		return
	}

	responses := make([]PublicUserResponse, 0, len(suggestions))
	for _, s := range suggestions {
		responses = append(responses, buildPublicUserResponse(s))
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": responses})
}

// endregion

// region --- Helpers ---

// friendIDsOf returns the IDs of a user's friends from the symmetric
// edge table.
func friendIDsOf(userID uint) []uint {
	var ids []uint
	database.DB.Table("user_friends").Where("user_id = ?", userID).Pluck("friend_id", &ids)
	return ids
}

func countFriends(userID uint) int64 {
	var count int64
	database.DB.Table("user_friends").Where("user_id = ?", userID).Count(&count)
	return count
}

func userAvgRating(userID uint) float64 {
	var avg *float64
	database.DB.Model(&models.Review{}).Where("user_id = ?", userID).Select("AVG(rating)").Scan(&avg)
	if avg == nil {
		return 0
	}
	return *avg
}

func buildPublicUserResponse(user models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Role:         user.Role,
		PhotoURL:     user.PhotoURL,
		Bio:          user.Bio,
		FriendsCount: countFriends(user.ID),
		AvgRating:    userAvgRating(user.ID),
	}
}

func buildPrivateUserResponse(user models.User) PrivateUserResponse {
	var totalBooking, pendingRequests int64
	database.DB.Model(&models.Booking{}).Where("user_id = ?", user.ID).Count(&totalBooking)
	database.DB.Model(&models.FriendRequest{}).Where("to_user_id = ? AND is_accepted = ?", user.ID, false).Count(&pendingRequests)

	return PrivateUserResponse{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		Role:            user.Role,
		Phone:           user.Phone,
		Address:         user.Address,
		PhotoURL:        user.PhotoURL,
		Bio:             user.Bio,
		TotalBooking:    totalBooking,
		AvgRating:       userAvgRating(user.ID),
		JoinedDate:      user.CreatedAt.Format("02 Jan 2006"),
		FriendsCount:    countFriends(user.ID),
		PendingRequests: pendingRequests,
	}
}

// endregion
