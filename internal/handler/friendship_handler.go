package handler

import (
	"net/http"
	"time"

	"ghostmedia/backend/internal/models"
	"ghostmedia/backend/internal/repository"
	"ghostmedia/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type SendFriendRequestInput struct {
	Sender   string `json:"sender" binding:"required"`
	Receiver string `json:"receiver" binding:"required"`
}

type RespondInput struct {
	Action   string `json:"action" binding:"required"`
	Username string `json:"username" binding:"required"`
}

type ActorInput struct {
	Username string `json:"username" binding:"required"`
}

// FriendRequestResponse is one pending request, enriched with the other
// party's avatar.
type FriendRequestResponse struct {
	ID             string    `json:"id"`
	Sender         string    `json:"sender,omitempty"`
	Receiver       string    `json:"receiver,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	ProfilePicture string    `json:"profilePicture"`
}

// FriendResponse is one accepted friendship from the querying user's side.
type FriendResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profilePicture"`
	Since          time.Time `json:"since"`
}

// endregion

type FriendshipHandler struct {
	svc   *service.FriendshipService
	users *repository.UserRepository
}

func NewFriendshipHandler(svc *service.FriendshipService, users *repository.UserRepository) *FriendshipHandler {
	return &FriendshipHandler{svc: svc, users: users}
}

// SendRequest godoc
// @Summary      Send a friend request
// @Description  Creates a pending relationship; fails with 409 if any pending or accepted record exists for the pair in either direction.
// @Tags         friendship
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SendFriendRequestInput true "Sender and receiver"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /api/sendFriendRequest [post]
func (h *FriendshipHandler) SendRequest(c *gin.Context) {
	var input SendFriendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User IDs are required"})
		return
	}

	f, err := h.svc.SendRequest(input.Sender, input.Receiver)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Friend request sent successfully",
		"status":    string(f.Status),
		"requestId": f.ID,
	})
}

// Respond godoc
// @Summary      Accept or decline a friend request
// @Tags         friendship
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        requestId path string true "Request ID"
// @Param        input body RespondInput true "Action (accept or decline) and acting username"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/respondToFriendRequest/{requestId} [post]
func (h *FriendshipHandler) Respond(c *gin.Context) {
	var input RespondInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required information"})
		return
	}

	status, err := h.svc.Respond(c.Param("requestId"), input.Username, input.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Friend request " + status,
		"status":  status,
	})
}

// Cancel godoc
// @Summary      Cancel a sent friend request
// @Tags         friendship
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        requestId path string true "Request ID"
// @Param        input body ActorInput true "Acting username"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/cancelFriendRequest/{requestId} [delete]
func (h *FriendshipHandler) Cancel(c *gin.Context) {
	var input ActorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required information"})
		return
	}

	if err := h.svc.Cancel(c.Param("requestId"), input.Username); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request cancelled successfully"})
}

// Unfriend godoc
// @Summary      Remove an accepted friendship
// @Tags         friendship
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        friendshipId path string true "Friendship ID"
// @Param        input body ActorInput true "Acting username"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/unfriend/{friendshipId} [delete]
func (h *FriendshipHandler) Unfriend(c *gin.Context) {
	var input ActorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required information"})
		return
	}

	if err := h.svc.Unfriend(c.Param("friendshipId"), input.Username); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend removed successfully"})
}

// CheckStatus godoc
// @Summary      Check the relationship between two users
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        currentUser path string true "Viewing username"
// @Param        otherUser path string true "Other username"
// @Success      200  {object}  service.StatusResult
// @Router       /api/checkFriendshipStatus/{currentUser}/{otherUser} [get]
func (h *FriendshipHandler) CheckStatus(c *gin.Context) {
	result, err := h.svc.Status(c.Param("currentUser"), c.Param("otherUser"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PendingReceived godoc
// @Summary      List pending received friend requests
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Username"
// @Success      200  {array}  FriendRequestResponse
// @Router       /api/friendRequests/{username} [get]
func (h *FriendshipHandler) PendingReceived(c *gin.Context) {
	requests, err := h.svc.PendingReceived(c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]FriendRequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, FriendRequestResponse{
			ID:             req.ID,
			Sender:         req.Sender,
			CreatedAt:      req.CreatedAt,
			ProfilePicture: h.avatarOf(req.Sender),
		})
	}
	c.JSON(http.StatusOK, responses)
}

// PendingSent godoc
// @Summary      List pending sent friend requests
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Username"
// @Success      200  {array}  FriendRequestResponse
// @Router       /api/sentFriendRequests/{username} [get]
func (h *FriendshipHandler) PendingSent(c *gin.Context) {
	requests, err := h.svc.PendingSent(c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]FriendRequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, FriendRequestResponse{
			ID:             req.ID,
			Receiver:       req.Receiver,
			CreatedAt:      req.CreatedAt,
			ProfilePicture: h.avatarOf(req.Receiver),
		})
	}
	c.JSON(http.StatusOK, responses)
}

// Friends godoc
// @Summary      List a user's friends
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Username"
// @Success      200  {array}  FriendResponse
// @Router       /api/friends/{username} [get]
func (h *FriendshipHandler) Friends(c *gin.Context) {
	username := c.Param("username")
	friendships, err := h.svc.Friends(username)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]FriendResponse, 0, len(friendships))
	for _, f := range friendships {
		responses = append(responses, FriendResponse{
			ID:             f.ID,
			Username:       otherParty(f, username),
			ProfilePicture: h.avatarOf(otherParty(f, username)),
			Since:          f.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, responses)
}

func otherParty(f models.Friendship, username string) string {
	if f.Sender == username {
		return f.Receiver
	}
	return f.Sender
}

func (h *FriendshipHandler) avatarOf(username string) string {
	user, err := h.users.GetByUsername(username)
	if err != nil {
		return ""
	}
	return user.Avatar
}
