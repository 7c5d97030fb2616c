package handler

import (
	"net/http"
	"strconv"

	"courtside/backend/internal/database"
	"courtside/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// Create2v2Input defines the body for creating a 2v2 match.
type Create2v2Input struct {
	Teammate string `json:"teammate" binding:"required"`
}

// MatchPlayer is a player entry in a match response.
type MatchPlayer struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	PhotoURL string `json:"photo_url"`
}

// MatchResponse is the full match representation.
type MatchResponse struct {
	ID           uint          `json:"id"`
	Mode         string        `json:"mode"`
	CreatedBy    MatchPlayer   `json:"created_by"`
	Players      []MatchPlayer `json:"players"`
	TempTeammate string        `json:"temp_teammate,omitempty"`
	PlayerCount  int           `json:"player_count"`
	MaxPlayers   int           `json:"max_players"`
	IsFull       bool          `json:"is_full"`
	CanJoin      bool          `json:"can_join"`
	CreatedAt    string        `json:"created_at"`
}

func newMatchResponse(m models.Match, viewerID uint) MatchResponse {
	players := make([]MatchPlayer, 0, len(m.Players))
	for _, p := range m.Players {
		players = append(players, MatchPlayer{ID: p.ID, Username: p.Username, PhotoURL: p.PhotoURL})
	}

	return MatchResponse{
		ID:           m.ID,
		Mode:         m.Mode,
		CreatedBy:    MatchPlayer{ID: m.CreatedBy.ID, Username: m.CreatedBy.Username, PhotoURL: m.CreatedBy.PhotoURL},
		Players:      players,
		TempTeammate: m.TempTeammate,
		PlayerCount:  m.PlayerCount(),
		MaxPlayers:   m.MaxPlayers(),
		IsFull:       m.IsFull(),
		CanJoin:      m.CanJoin(viewerID),
		CreatedAt:    m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// endregion

// userInAnyMatch reports whether the user is registered in any match
// other than excludeID (0 for none).
func userInAnyMatch(userID, excludeID uint) bool {
	var count int64
	database.DB.Table("match_players").
		Where("user_id = ?", userID).
		Where("match_id <> ?", excludeID).
		Count(&count)
	return count > 0
}

// ListMatches godoc
// @Summary      List open matches
// @Description  All matches, newest first, with capacity and join eligibility for the caller.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]MatchResponse
// @Router       /matches [get]
func ListMatches(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var matches []models.Match
	if err := database.DB.
		Preload("CreatedBy").
		Preload("Players").
		Order("created_at DESC").
		Find(&matches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch matches"})
		return
	}

	responses := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		responses = append(responses, newMatchResponse(m, viewerID.(uint)))
	}

	c.JSON(http.StatusOK, gin.H{"matches": responses})
}

// GetMatchByID godoc
// @Summary      Get a match
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Match ID"
// @Success      200  {object}  MatchResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /matches/{id} [get]
func GetMatchByID(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	matchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match ID"})
		return
	}

	var match models.Match
	if err := database.DB.Preload("CreatedBy").Preload("Players").First(&match, matchID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
		return
	}

	c.JSON(http.StatusOK, newMatchResponse(match, viewerID.(uint)))
}

// Create1v1Match godoc
// @Summary      Create a 1v1 match
// @Description  Creates a two-player match with the caller as creator and first player.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse "Already in a match"
// @Router       /matches/1v1 [post]
func Create1v1Match(c *gin.Context) {
	createMatch(c, models.Mode1v1, "")
}

// Create2v2Match godoc
// @Summary      Create a 2v2 match
// @Description  Creates a four-player match; the named teammate takes one slot.
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body Create2v2Input true "Teammate name"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /matches/2v2 [post]
func Create2v2Match(c *gin.Context) {
	var input Create2v2Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Teammate name must not be empty"})
		return
	}
	createMatch(c, models.Mode2v2, input.Teammate)
}

func createMatch(c *gin.Context, mode, teammate string) {
	viewerID, _ := c.Get("userID")

	if userInAnyMatch(viewerID.(uint), 0) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "You are already registered in another match"})
		return
	}

	var creator models.User
	if err := database.DB.First(&creator, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "User not found"})
		return
	}

	match := models.Match{
		Mode:         mode,
		CreatedByID:  creator.ID,
		TempTeammate: teammate,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&match).Error; err != nil {
			return err
		}
		return tx.Model(&match).Association("Players").Append(&creator)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to create match"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   "success",
		"message":  "Match created",
		"match_id": match.ID,
	})
}

// JoinMatch godoc
// @Summary      Join a match
// @Description  Takes a free slot if the caller is eligible (capacity, not creator, not already registered, not in another match).
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Match ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{} "Full, creator, or double registration"
// @Failure      404  {object}  ErrorResponse
// @Router       /matches/{id}/join [post]
func JoinMatch(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	matchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match ID"})
		return
	}

	var match models.Match
	if err := database.DB.Preload("Players").First(&match, matchID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Match not found"})
		return
	}

	userID := viewerID.(uint)

	if match.HasPlayer(userID) {
		c.JSON(http.StatusOK, gin.H{"status": "info", "message": "You are already registered in this match"})
		return
	}

	if userInAnyMatch(userID, match.ID) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "You are already registered in another match"})
		return
	}

	if !match.CanJoin(userID) {
		message := "Match is full"
		if match.CreatedByID == userID {
			message = "You are the creator of this match"
		}
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": message})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "User not found"})
		return
	}

	if err := database.DB.Model(&match).Association("Players").Append(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to join match"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Joined the match"})
}

// LeaveMatch godoc
// @Summary      Leave the current match
// @Description  Removes the caller from their match. The match is deleted when the creator leaves or no players remain.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse "Not in a match"
// @Router       /matches/leave [post]
func LeaveMatch(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	var matchIDs []uint
	database.DB.Table("match_players").Where("user_id = ?", userID).Pluck("match_id", &matchIDs)
	if len(matchIDs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "You are not in a match"})
		return
	}

	var match models.Match
	if err := database.DB.Preload("Players").First(&match, matchIDs[0]).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Match not found"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if err := tx.Model(&match).Association("Players").Delete(&user); err != nil {
			return err
		}
		// The creator walking away dissolves the match; so does an
		// empty player list.
		if match.CreatedByID == userID || len(match.Players) <= 1 {
			if err := tx.Model(&match).Association("Players").Clear(); err != nil {
				return err
			}
			return tx.Unscoped().Delete(&match).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to leave match"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Left the match"})
}

// DeleteMatch godoc
// @Summary      Delete a match
// @Description  Only the creator may delete a match.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Match ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{} "Not the creator"
// @Failure      404  {object}  ErrorResponse
// @Router       /matches/{id} [delete]
func DeleteMatch(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	matchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match ID"})
		return
	}

	var match models.Match
	if err := database.DB.First(&match, matchID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Match not found"})
		return
	}

	if match.CreatedByID != viewerID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "You do not have permission to delete this match"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&match).Association("Players").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&match).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to delete match"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Match deleted"})
}
