package handler

import (
	"net/http"
	"time"

	"ghostmedia/backend/internal/hub"
	"ghostmedia/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type SendMessageInput struct {
	Sender         string     `json:"sender" binding:"required"`
	Recipient      string     `json:"recipient" binding:"required"`
	Content        string     `json:"content" binding:"required"`
	IsGhost        bool       `json:"isGhost"`
	ExpirationDate *time.Time `json:"expirationDate"`
}

type MarkReadInput struct {
	MessageIDs []string `json:"messageIds" binding:"required"`
	Username   string   `json:"username" binding:"required"`
}

// endregion

type MessageHandler struct {
	svc *service.MessageService
}

func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Send godoc
// @Summary      Send a direct message
// @Description  REST mirror of the realtime sendMessage event.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SendMessageInput true "Message"
// @Success      201  {object}  models.Message
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "All fields are required"})
		return
	}

	message, err := h.svc.Send(hub.SendMessageInput{
		Sender:         input.Sender,
		Receiver:       input.Recipient,
		Content:        input.Content,
		IsGhost:        input.IsGhost,
		ExpirationDate: input.ExpirationDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// Conversations godoc
// @Summary      List a user's conversations
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Username"
// @Success      200  {array}  service.ConversationSummary
// @Router       /api/messages/conversations/{username} [get]
func (h *MessageHandler) Conversations(c *gin.Context) {
	summaries, err := h.svc.Conversations(c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// History godoc
// @Summary      Get the messages between two users
// @Description  Returns the conversation oldest-first and marks the other party's messages as read.
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        sender path string true "Viewing username"
// @Param        recipient path string true "Other username"
// @Success      200  {array}  models.Message
// @Failure      404  {object}  ErrorResponse
// @Router       /api/messages/{sender}/{recipient} [get]
func (h *MessageHandler) History(c *gin.Context) {
	messages, err := h.svc.History(c.Param("sender"), c.Param("recipient"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// MarkRead godoc
// @Summary      Mark messages as read
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body MarkReadInput true "Message ids and receiving username"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /api/messages/read [put]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	var input MarkReadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Message ids and username are required"})
		return
	}

	count, err := h.svc.MarkRead(input.MessageIDs, input.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read", "count": count})
}

// Delete godoc
// @Summary      Delete a message
// @Description  Soft-deletes a message; either party of the conversation may do this.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        messageId path string true "Message ID"
// @Param        input body ActorInput true "Acting username"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/messages/{messageId} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	var input ActorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Username is required"})
		return
	}

	if err := h.svc.Delete(c.Param("messageId"), input.Username); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
}
