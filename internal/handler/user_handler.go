package handler

import (
	"errors"
	"net/http"

	"ghostmedia/backend/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserHandler struct {
	users *repository.UserRepository
}

func NewUserHandler(users *repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// UpdateProfileInput defines the optional fields of a profile update.
type UpdateProfileInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateAvatarInput carries a new avatar reference.
type UpdateAvatarInput struct {
	ProfilePicture string `json:"profilePicture" binding:"required"`
}

// GetUser godoc
// @Summary      Get a user's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Username"
// @Success      200  {object}  UserResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/getUser/{username} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
		return
	}

	c.JSON(http.StatusOK, newUserResponse(*user))
}

// SearchUsers godoc
// @Summary      Search users by username prefix
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Username prefix"
// @Success      200  {array}   UserResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/searchFriend/{username} [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	users, err := h.users.SearchByPrefix(c.Param("username"), 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
		return
	}
	if len(users) == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, newUserResponse(u))
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateProfile godoc
// @Summary      Update the authenticated user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Username"
// @Param        input body UpdateProfileInput true "Fields to update"
// @Success      200  {object}  UserResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/updateUserProfile/{username} [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	username := c.Param("username")
	if actor, _ := c.Get("username"); actor != username {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not authorized to edit this profile"})
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
		return
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to hash password"})
			return
		}
		user.PasswordHash = string(hashed)
	}

	if err := h.users.Save(user); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, newUserResponse(*user))
}

// UpdateAvatar godoc
// @Summary      Update the authenticated user's avatar
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateAvatarInput true "Avatar reference"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/updateProfileImage [post]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	var input UpdateAvatarInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	actor, _ := c.Get("username")
	user, err := h.users.GetByUsername(actor.(string))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		return
	}

	user.Avatar = input.ProfilePicture
	if err := h.users.Save(user); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update avatar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile picture updated successfully"})
}
