package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/globalconnect/backend/internal/domain"
	"github.com/globalconnect/backend/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const conversationLimit = 200

type MessageHandler struct {
	messageRepo repository.MessageRepository
}

func NewMessageHandler(messageRepo repository.MessageRepository) *MessageHandler {
	return &MessageHandler{
		messageRepo: messageRepo,
	}
}

// SendMessageRequest is the POST /api/messages body.
type SendMessageRequest struct {
	SenderID    int    `json:"sender_id" binding:"required,gt=0"`
	RecipientID int    `json:"recipient_id" binding:"required,gt=0"`
	Body        string `json:"body" binding:"required,min=1,max=2000"`
}

// Send handles POST /api/messages
// @Summary Send a message
// @Tags messages
// @Accept json
// @Produce json
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}
	if req.SenderID == req.RecipientID {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "cannot message yourself",
		})
		return
	}

	message := &domain.Message{
		ID:          uuid.NewString(),
		SenderID:    req.SenderID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
	}
	if err := h.messageRepo.Create(c.Request.Context(), message); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to send message",
		})
		return
	}

	c.JSON(http.StatusCreated, message)
}

// Conversation handles GET /api/messages
// @Summary List a conversation between two users, oldest first
// @Tags messages
// @Produce json
// @Param user query int true "Requesting user ID"
// @Param peer query int true "Conversation partner ID"
// @Success 200 {object} map[string][]domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/messages [get]
func (h *MessageHandler) Conversation(c *gin.Context) {
	userID, errUser := strconv.Atoi(c.Query("user"))
	peerID, errPeer := strconv.Atoi(c.Query("peer"))
	if errUser != nil || errPeer != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "user and peer are required numeric parameters",
		})
		return
	}

	messages, err := h.messageRepo.GetConversation(c.Request.Context(), userID, peerID, conversationLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to load conversation",
		})
		return
	}
	if messages == nil {
		messages = []*domain.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Recent handles GET /api/messages/recent
// @Summary List the latest message of each conversation
// @Tags messages
// @Produce json
// @Param user query int true "Requesting user ID"
// @Success 200 {object} map[string][]domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/messages/recent [get]
func (h *MessageHandler) Recent(c *gin.Context) {
	userID, err := strconv.Atoi(c.Query("user"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "user is a required numeric parameter",
		})
		return
	}

	messages, err := h.messageRepo.GetRecentConversations(c.Request.Context(), userID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to load conversations",
		})
		return
	}
	if messages == nil {
		messages = []*domain.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// MarkRead handles POST /api/messages/:id/read
// @Summary Mark a message as read
// @Tags messages
// @Produce json
// @Param id path string true "Message ID"
// @Param user query int true "Recipient user ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/messages/{id}/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, err := strconv.Atoi(c.Query("user"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "user is a required numeric parameter",
		})
		return
	}

	if err := h.messageRepo.MarkRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "message not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to mark message read",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
