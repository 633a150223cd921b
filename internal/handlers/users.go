package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/nithinkp/kurihub/internal/identity"
	"github.com/nithinkp/kurihub/internal/models"
	"github.com/nithinkp/kurihub/internal/storage"
)

// defaultPassword is assigned to admin-created accounts that come without
// one, so the member can log in and change it later.
const defaultPassword = "123456"

// UserHandler serves identity management: listing, creation (including
// placeholder members), updates, and deletion.
type UserHandler struct {
	users    storage.UserStore
	identity *identity.Service
}

// NewUserHandler creates a user handler.
func NewUserHandler(users storage.UserStore, ids *identity.Service) *UserHandler {
	return &UserHandler{users: users, identity: ids}
}

// List returns all users. Password hashes never serialize.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	c.JSON(http.StatusOK, users)
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsDummy  bool   `json:"isDummy"`
}

// Create persists a new user. When isDummy is set and no email is given,
// the identity is fully synthesized (placeholder member). Otherwise name
// and email are required; the password defaults when omitted.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body", "code": "Validation"})
		return
	}

	if req.IsDummy && req.Email == "" {
		user, err := h.identity.CreateDummy(c.Request.Context(), req.Name)
		if err != nil {
			writeError(c, err)
			return
		}
		slog.Info("Dummy member created", "user_id", user.ID, "name", user.Name)
		c.JSON(http.StatusCreated, user)
		return
	}

	password := req.Password
	if password == "" {
		password = defaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, err)
		return
	}

	user, err := h.identity.CreateUser(c.Request.Context(), identity.CreateUserInput{
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: string(hash),
		IsDummy:      req.IsDummy,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("User created", "user_id", user.ID, "email", user.Email, "role", user.Role)
	c.JSON(http.StatusCreated, user)
}

type updateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// Update applies a typed partial update to a user record.
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body", "code": "Validation"})
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found", "code": "NotFound"})
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
		user.Avatar = identity.AvatarURL(user.Name)
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil && (*req.Role == models.RoleAdmin || *req.Role == models.RoleMember) {
		user.Role = *req.Role
	}
	if req.Status != nil && (*req.Status == models.StatusActive || *req.Status == models.StatusInactive) {
		user.Status = *req.Status
	}

	if err := h.users.UpdateUser(c.Request.Context(), user); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete removes a user. Schemes referencing the ID keep dangling member
// entries, which roster resolution covers with placeholders.
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		if err == storage.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found", "code": "NotFound"})
			return
		}
		writeError(c, err)
		return
	}

	slog.Info("User deleted", "user_id", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}
