package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "funfinance/internal/errors"
	"funfinance/internal/pagination"
	"funfinance/internal/services"
)

// UserHandler handles user registration, login, and family membership
// requests.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,not_blank,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest represents the request payload for updating a user.
type UpdateUserRequest struct {
	Username string `json:"username" binding:"omitempty,not_blank,min=3,max=50"`
}

// Register handles user registration.
// @Summary     Register a new user
// @Description Register a new user with username, email, and password
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} models.User "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate email/username"
// @Router      /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "REGISTER_USER", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login verifies credentials. No token is issued; the response carries
// the user's id, email, and username only.
// @Summary     Login
// @Description Verify a user's email and password
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} models.User "Credentials valid"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
		},
	})
}

// GetUsers handles listing all users.
// @Summary     List users
// @Tags        users
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.User] "Paginated users"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.userService.ListUsers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUser handles retrieving a user by ID.
// @Summary     Get user by ID
// @Tags        users
// @Produce     json
// @Param       id path int true "User ID"
// @Success     200 {object} models.User "User details"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser handles updating a user's username.
// @Summary     Update user
// @Tags        users
// @Accept      json
// @Param       id      path int               true "User ID"
// @Param       request body UpdateUserRequest true "Updated user details"
// @Success     204 "User updated"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate username"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if _, err := h.userService.UpdateUsername(id, req.Username); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(id, "UPDATE_USER", "user", id, c.ClientIP(),
		map[string]interface{}{"username": req.Username})

	c.Status(http.StatusNoContent)
}

// DeleteUser handles deleting a user.
// @Summary     Delete user
// @Tags        users
// @Param       id path int true "User ID"
// @Success     204 "User deleted"
// @Failure     400 {object} ErrorResponse "User has recorded expenses"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(id, "DELETE_USER", "user", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// JoinFamily handles adding a user to a family.
// @Summary     Join family
// @Tags        users
// @Param       id       path int true "User ID"
// @Param       familyId path int true "Family ID"
// @Success     204 "User joined the family"
// @Failure     404 {object} ErrorResponse "User or family not found"
// @Router      /users/{id}/join-family/{familyId} [post]
func (h *UserHandler) JoinFamily(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	familyID, err := parsePathID(c, "familyId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.JoinFamily(userID, familyID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "JOIN_FAMILY", "family", familyID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// LeaveFamily handles removing a user from their family. When the last
// member leaves, the family is removed unless expense history exists.
// @Summary     Leave family
// @Tags        users
// @Param       id path int true "User ID"
// @Success     204 "User left the family"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id}/leave-family [post]
func (h *UserHandler) LeaveFamily(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.LeaveFamily(userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "LEAVE_FAMILY", "user", userID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetUserFamily resolves the family the user currently belongs to.
// @Summary     Get the user's family
// @Tags        users
// @Produce     json
// @Param       id path int true "User ID"
// @Success     200 {object} models.Family "The user's family"
// @Failure     404 {object} ErrorResponse "User not found or not in a family"
// @Router      /users/{id}/family [get]
func (h *UserHandler) GetUserFamily(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	family, err := h.userService.GetUserFamily(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"family": family})
}
