package handler

import (
	"net/http"
	"time"

	"ghostmedia/backend/internal/models"
	"ghostmedia/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type CreatePostInput struct {
	Username       string     `json:"username" binding:"required"`
	Content        string     `json:"content" binding:"required"`
	GhostMode      bool       `json:"ghostMode"`
	UserAvatar     string     `json:"userAvatar"`
	ExpirationDate *time.Time `json:"expirationDate"`
}

type UpdatePostInput struct {
	Username string `json:"username" binding:"required"`
	Content  string `json:"content" binding:"required"`
	IsGhost  bool   `json:"isGhost"`
}

// endregion

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// Create godoc
// @Summary      Create a post
// @Description  Creates a post and broadcasts it. Ghost posts with an expiration date are removed automatically when it passes.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body CreatePostInput true "Post content"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /api/user/createPost [post]
func (h *PostHandler) Create(c *gin.Context) {
	var input CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Username and content are required"})
		return
	}

	post := &models.Post{
		Username:   input.Username,
		Content:    input.Content,
		UserAvatar: input.UserAvatar,
		IsGhost:    input.GhostMode,
		ExpiresAt:  input.ExpirationDate,
	}
	if err := h.svc.Create(post); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Post created successfully", "post": post})
}

// ListAll godoc
// @Summary      List all posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[models.Post]
// @Router       /api/allPosts [get]
func (h *PostHandler) ListAll(c *gin.Context) {
	page, limit := pageParams(c)
	posts, total, err := h.svc.ListAll(page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(posts, total, page, limit))
}

// ListByUser godoc
// @Summary      List a user's posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Username"
// @Success      200  {array}  models.Post
// @Router       /api/user/posts/{username} [get]
func (h *PostHandler) ListByUser(c *gin.Context) {
	posts, err := h.svc.ListByUser(c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Update godoc
// @Summary      Edit a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId path string true "Post ID"
// @Param        input body UpdatePostInput true "New content"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/post/{postId} [put]
func (h *PostHandler) Update(c *gin.Context) {
	var input UpdatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Content is required"})
		return
	}

	post, err := h.svc.Update(c.Param("postId"), input.Username, input.Content, input.IsGhost)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated successfully", "post": post})
}

// Delete godoc
// @Summary      Delete a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId path string true "Post ID"
// @Param        input body ActorInput true "Acting username"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/post/{postId} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	var input ActorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Username is required"})
		return
	}

	if err := h.svc.Delete(c.Param("postId"), input.Username); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
