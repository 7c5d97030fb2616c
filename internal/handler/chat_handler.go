package handler

import (
	"io"
	"net/http"

	"courtside/backend/internal/database"
	"courtside/backend/internal/hub"
	"courtside/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// ChatMessageInput defines the body for sending a direct message.
type ChatMessageInput struct {
	To      string `json:"to" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// MarkReadInput defines the body for marking a conversation read.
type MarkReadInput struct {
	With string `json:"with" binding:"required"`
}

// ChatMessageResponse is a single message in a conversation.
type ChatMessageResponse struct {
	ID     uint   `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Content string `json:"content"`
	Read   bool   `json:"read"`
	SentAt string `json:"sent_at"`
}

func newChatMessageResponse(m models.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:      m.ID,
		From:    m.Sender.Username,
		To:      m.Receiver.Username,
		Content: m.Content,
		Read:    m.Read,
		SentAt:  m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// endregion

// SendChatMessage godoc
// @Summary      Send a direct message
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ChatMessageInput true "Message"
// @Success      201  {object}  ChatMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Receiver not found"
// @Router       /chats [post]
func SendChatMessage(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input ChatMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var receiver models.User
	if err := database.DB.Where("username = ?", input.To).First(&receiver).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Receiver not found"})
		return
	}

	if receiver.ID == viewerID.(uint) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot message yourself"})
		return
	}

	message := models.ChatMessage{
		SenderID:   viewerID.(uint),
		ReceiverID: receiver.ID,
		Content:    input.Content,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	database.DB.Preload("Sender").Preload("Receiver").First(&message, message.ID)

	response := newChatMessageResponse(message)
	hub.GlobalHub.Notify(receiver.ID, hub.Event{Type: "chat_message", Payload: response})

	c.JSON(http.StatusCreated, response)
}

// GetChatHistory godoc
// @Summary      Get conversation history
// @Description  Returns the two-way history with another user in chronological order.
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        with  query  string  true  "Other user's username"
// @Param        page  query  int     false "Page number" default(1)
// @Param        limit query  int     false "Items per page" default(10)
// @Success      200  {object}  map[string][]ChatMessageResponse
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /chats [get]
func GetChatHistory(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	withUsername := c.Query("with")
	page, limit := pageParams(c)

	var other models.User
	if err := database.DB.Where("username = ?", withUsername).First(&other).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var messages []models.ChatMessage
	if err := database.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			viewerID, other.ID, other.ID, viewerID).
		Preload("Sender").
		Preload("Receiver").
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	responses := make([]ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		responses = append(responses, newChatMessageResponse(m))
	}

	c.JSON(http.StatusOK, gin.H{"messages": responses})
}

// MarkChatRead godoc
// @Summary      Mark a conversation as read
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body MarkReadInput true "Conversation partner"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /chats/read [post]
func MarkChatRead(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input MarkReadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var other models.User
	if err := database.DB.Where("username = ?", input.With).First(&other).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	result := database.DB.Model(&models.ChatMessage{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", other.ID, viewerID, false).
		Update("read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updated": result.RowsAffected})
}

// CountUnreadMessages godoc
// @Summary      Count unread messages
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64 "{"count": 0}"
// @Router       /chats/unread/count [get]
func CountUnreadMessages(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var count int64
	database.DB.Model(&models.ChatMessage{}).
		Where("receiver_id = ? AND read = ?", viewerID, false).
		Count(&count)

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// StreamMessages godoc
// @Summary      Stream incoming messages
// @Description  Server-sent events stream of direct messages addressed to the caller.
// @Tags         chats
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Router       /chats/stream [get]
func StreamMessages(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	client := make(hub.Client, 16)
	hub.GlobalHub.Subscribe(viewerID.(uint), client)
	defer hub.GlobalHub.Unsubscribe(viewerID.(uint), client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
