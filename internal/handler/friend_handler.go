package handler

import (
	"errors"
	"net/http"
	"strconv"

	"courtside/backend/internal/database"
	"courtside/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// FriendRequestInput defines the body for sending a friend request.
type FriendRequestInput struct {
	Username   string `json:"username" binding:"required"`
	SearchOnly bool   `json:"search_only"`
}

// FriendResponse is a friend list entry.
type FriendResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	PhotoURL string `json:"photo_url"`
	Bio      string `json:"bio"`
}

// FriendRequestResponse is an incoming pending request entry.
type FriendRequestResponse struct {
	ID       uint   `json:"id"`
	FromID   uint   `json:"from_id"`
	Username string `json:"username"`
	PhotoURL string `json:"photo_url"`
	Bio      string `json:"bio"`
	SentAt   string `json:"sent_at"`
}

func newFriendResponse(u models.User) FriendResponse {
	return FriendResponse{
		ID:       u.ID,
		Username: u.Username,
		PhotoURL: u.PhotoURL,
		Bio:      u.Bio,
	}
}

// endregion

// SendFriendRequest godoc
// @Summary      Send friend request
// @Description  Looks up a user by username and sends a friend request. With search_only set, only reports the relationship status.
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FriendRequestInput true "Target username"
// @Success      200  {object}  map[string]interface{} "status: friend|pending|found"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Router       /friends/requests [post]
func SendFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input FriendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var target models.User
	if err := database.DB.Where("username = ?", input.Username).First(&target).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	if target.ID == viewerID.(uint) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cannot send a request to yourself"})
		return
	}

	profile := gin.H{
		"username":  target.Username,
		"photo_url": target.PhotoURL,
		"bio":       target.Bio,
	}

	// Already friends.
	var edgeCount int64
	database.DB.Table("user_friends").
		Where("user_id = ? AND friend_id = ?", viewerID, target.ID).
		Count(&edgeCount)
	if edgeCount > 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "friend", "user": profile})
		return
	}

	// Pending request in this direction already exists.
	var existing models.FriendRequest
	err := database.DB.Where("from_user_id = ? AND to_user_id = ?", viewerID, target.ID).First(&existing).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "pending", "user": profile})
		return
	}

	if input.SearchOnly {
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "found", "user": profile})
		return
	}

	request := models.FriendRequest{
		FromUserID: viewerID.(uint),
		ToUserID:   target.ID,
	}
	if err := database.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create friend request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"status":  "pending",
		"user":    profile,
		"message": "Request sent to " + target.Username,
	})
}

// ListFriendRequests godoc
// @Summary      List incoming friend requests
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]FriendRequestResponse
// @Router       /friends/requests [get]
func ListFriendRequests(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var requests []models.FriendRequest
	if err := database.DB.
		Where("to_user_id = ? AND is_accepted = ?", viewerID, false).
		Preload("FromUser").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend requests"})
		return
	}

	responses := make([]FriendRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, FriendRequestResponse{
			ID:       r.ID,
			FromID:   r.FromUserID,
			Username: r.FromUser.Username,
			PhotoURL: r.FromUser.PhotoURL,
			Bio:      r.FromUser.Bio,
			SentAt:   r.CreatedAt.Format("02 Jan 2006"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"requests": responses})
}

// CountFriendRequests godoc
// @Summary      Count incoming pending requests
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64 "{"count": 0}"
// @Router       /friends/requests/count [get]
func CountFriendRequests(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var count int64
	database.DB.Model(&models.FriendRequest{}).
		Where("to_user_id = ? AND is_accepted = ?", viewerID, false).
		Count(&count)

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// AcceptFriendRequest godoc
// @Summary      Accept a friend request
// @Description  Adds the symmetric friendship and deletes the request in one transaction.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Router       /friends/requests/{id}/accept [post]
func AcceptFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var request models.FriendRequest
	if err := database.DB.
		Where("id = ? AND to_user_id = ?", requestID, viewerID).
		Preload("FromUser").
		Preload("ToUser").
		First(&request).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Friend request not found"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&request.ToUser).Association("Friends").Append(&request.FromUser); err != nil {
			return err
		}
		if err := tx.Model(&request.FromUser).Association("Friends").Append(&request.ToUser); err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&request).Error; err != nil {
			return err
		}
		// A reciprocal pending request would now violate the rule that
		// no request survives a friendship; clean it up as well.
		return tx.Unscoped().
			Where("from_user_id = ? AND to_user_id = ?", request.ToUserID, request.FromUserID).
			Delete(&models.FriendRequest{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to accept friend request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "You are now friends with " + request.FromUser.Username,
		"new_friend": newFriendResponse(request.FromUser),
	})
}

// RejectFriendRequest godoc
// @Summary      Reject a friend request
// @Description  Deletes the request without creating any friendship.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Router       /friends/requests/{id}/reject [post]
func RejectFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	result := database.DB.Unscoped().
		Where("id = ? AND to_user_id = ?", requestID, viewerID).
		Delete(&models.FriendRequest{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to reject friend request"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Friend request not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Friend request rejected"})
}

// ListFriends godoc
// @Summary      List friends
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]FriendResponse
// @Router       /friends [get]
func ListFriends(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.Preload("Friends").First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	friends := make([]FriendResponse, 0, len(user.Friends))
	for _, f := range user.Friends {
		friends = append(friends, newFriendResponse(*f))
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// CountFriends godoc
// @Summary      Count friends
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64 "{"count": 0}"
// @Router       /friends/count [get]
func CountFriends(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	c.JSON(http.StatusOK, gin.H{"count": countFriends(viewerID.(uint))})
}

// Unfriend godoc
// @Summary      Remove a friend
// @Description  Removes the symmetric friendship from both sides.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        username  path  string  true  "Friend username"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse "Not friends"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /friends/{username} [delete]
func Unfriend(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	username := c.Param("username")

	var target models.User
	if err := database.DB.Where("username = ?", username).First(&target).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	var edgeCount int64
	database.DB.Table("user_friends").
		Where("user_id = ? AND friend_id = ?", viewerID, target.ID).
		Count(&edgeCount)
	if edgeCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You are not friends with this user"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_friends WHERE user_id = ? AND friend_id = ?", viewerID, target.ID).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM user_friends WHERE user_id = ? AND friend_id = ?", target.ID, viewerID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove friend"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "You are no longer friends with " + username})
}
