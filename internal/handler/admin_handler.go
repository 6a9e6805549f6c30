package handler

import (
	"errors"
	"net/http"
	"strconv"

	"ghostmedia/backend/internal/models"
	"ghostmedia/backend/internal/repository"
	"ghostmedia/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UpdateUserStatusInput struct {
	Status models.UserStatus `json:"status" binding:"required"`
}

type AdminHandler struct {
	users       *repository.UserRepository
	posts       *repository.PostRepository
	friendships *repository.FriendshipRepository
	messages    *repository.MessageRepository
}

func NewAdminHandler(
	users *repository.UserRepository,
	posts *repository.PostRepository,
	friendships *repository.FriendshipRepository,
	messages *repository.MessageRepository,
) *AdminHandler {
	return &AdminHandler{users: users, posts: posts, friendships: friendships, messages: messages}
}

// ListUsers godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Filter by username or email"
// @Param        page   query int    false "Page number" default(1)
// @Param        limit  query int    false "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[UserResponse]
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)
	users, total, err := h.users.List(c.Query("search"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, newUserResponse(u))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(responses, total, page, limit))
}

// UpdateUserStatus godoc
// @Summary      Ban or unban a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        input body UpdateUserStatusInput true "New status (active or banned)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/admin/users/{id} [patch]
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid user ID"})
		return
	}

	var input UpdateUserStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if input.Status != models.UserActive && input.Status != models.UserBanned {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid status"})
		return
	}

	user, err := h.users.UpdateStatus(uint(id), input.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User status updated successfully",
		"user":    newUserResponse(*user),
	})
}

// DeleteUser godoc
// @Summary      Delete a user and all their data
// @Description  Removes the account plus its posts, friendships and messages. The store has no foreign keys, so this is an explicit multi-step batch delete.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid user ID"})
		return
	}

	user, err := h.users.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		respondError(c, err)
		return
	}

	username := user.Username

	postsDeleted, err := h.posts.DeleteAllForUser(username)
	if err != nil {
		respondError(c, err)
		return
	}
	friendshipsDeleted, err := h.friendships.DeleteAllForUser(username)
	if err != nil {
		respondError(c, err)
		return
	}
	messagesDeleted, err := h.messages.DeleteAllForUser(username)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.users.Delete(user.ID); err != nil {
		respondError(c, err)
		return
	}

	logger.Log.Info("user deleted by admin",
		zap.String("username", username),
		zap.Int64("posts", postsDeleted),
		zap.Int64("friendships", friendshipsDeleted),
		zap.Int64("messages", messagesDeleted),
	)

	c.JSON(http.StatusOK, gin.H{
		"message":            "User and all associated data deleted successfully",
		"username":           username,
		"postsDeleted":       postsDeleted,
		"friendshipsDeleted": friendshipsDeleted,
		"messagesDeleted":    messagesDeleted,
	})
}

// ListPosts godoc
// @Summary      List posts, optionally filtered by content
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Filter by content"
// @Param        page   query int    false "Page number" default(1)
// @Param        limit  query int    false "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[models.Post]
// @Router       /api/admin/posts [get]
func (h *AdminHandler) ListPosts(c *gin.Context) {
	page, limit := pageParams(c)
	posts, total, err := h.posts.Search("", c.Query("search"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(posts, total, page, limit))
}

// ListUserPosts godoc
// @Summary      List one user's posts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Username"
// @Param        search query string false "Filter by content"
// @Param        page   query int    false "Page number" default(1)
// @Param        limit  query int    false "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[models.Post]
// @Router       /api/admin/posts/{username} [get]
func (h *AdminHandler) ListUserPosts(c *gin.Context) {
	page, limit := pageParams(c)
	posts, total, err := h.posts.Search(c.Param("username"), c.Query("search"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(posts, total, page, limit))
}

// DeletePost godoc
// @Summary      Delete a post
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  ErrorResponse
// @Router       /api/admin/posts/{id} [delete]
func (h *AdminHandler) DeletePost(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.posts.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Post not found"})
			return
		}
		respondError(c, err)
		return
	}

	if err := h.posts.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully", "postId": id})
}
