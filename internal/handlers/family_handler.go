package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "funfinance/internal/errors"
	"funfinance/internal/pagination"
	"funfinance/internal/services"
)

// FamilyHandler handles family and invitation requests.
type FamilyHandler struct {
	familyService services.FamilyServicer
	auditService  services.AuditServicer
}

// NewFamilyHandler creates a new FamilyHandler.
func NewFamilyHandler(familyService services.FamilyServicer, auditService services.AuditServicer) *FamilyHandler {
	return &FamilyHandler{familyService: familyService, auditService: auditService}
}

// CreateFamilyRequest represents the request payload for creating a family.
type CreateFamilyRequest struct {
	Name          string `json:"name" binding:"required,not_blank,min=1,max=100"`
	CreatorUserID uint   `json:"creator_user_id" binding:"required"`
}

// UpdateFamilyRequest represents the request payload for renaming a family.
type UpdateFamilyRequest struct {
	Name string `json:"name" binding:"required,not_blank,min=1,max=100"`
}

// CreateInvitationRequest represents the request payload for inviting an email.
type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AcceptInvitationRequest represents the request payload for accepting an invitation.
type AcceptInvitationRequest struct {
	Token  string `json:"token" binding:"required"`
	UserID uint   `json:"user_id" binding:"required"`
}

// GetFamilies handles listing all families.
// @Summary     List families
// @Tags        families
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Family] "Paginated families"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /families [get]
func (h *FamilyHandler) GetFamilies(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.familyService.ListFamilies(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetFamily handles retrieving a family by ID.
// @Summary     Get family by ID
// @Tags        families
// @Produce     json
// @Param       id path int true "Family ID"
// @Success     200 {object} models.Family "Family details"
// @Failure     404 {object} ErrorResponse "Family not found"
// @Router      /families/{id} [get]
func (h *FamilyHandler) GetFamily(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	family, err := h.familyService.GetFamilyByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"family": family})
}

// GetFamilyMembers handles retrieving a family with its member list.
// @Summary     Get family with members
// @Tags        families
// @Produce     json
// @Param       id path int true "Family ID"
// @Success     200 {object} models.Family "Family with members"
// @Failure     404 {object} ErrorResponse "Family not found"
// @Router      /families/{id}/members [get]
func (h *FamilyHandler) GetFamilyMembers(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	family, err := h.familyService.GetFamilyWithMembers(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"family": family})
}

// CreateFamily handles creating a family with its creator as first member.
// @Summary     Create a family
// @Tags        families
// @Accept      json
// @Produce     json
// @Param       request body CreateFamilyRequest true "Family details"
// @Success     201 {object} models.Family "Family created"
// @Failure     400 {object} ErrorResponse "Invalid input or creator user not found"
// @Router      /families [post]
func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	var req CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	family, err := h.familyService.CreateFamily(req.Name, req.CreatorUserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(req.CreatorUserID, "CREATE_FAMILY", "family", family.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"family": family})
}

// UpdateFamily handles renaming a family.
// @Summary     Update family
// @Tags        families
// @Accept      json
// @Param       id      path int                 true "Family ID"
// @Param       request body UpdateFamilyRequest true "Updated family details"
// @Success     204 "Family updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Family not found"
// @Router      /families/{id} [put]
func (h *FamilyHandler) UpdateFamily(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if _, err := h.familyService.UpdateFamily(id, req.Name); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteFamily handles deleting a family and its dependents.
// @Summary     Delete family
// @Description Delete a family, cascading to its budgets, categories, and invitations
// @Tags        families
// @Param       id path int true "Family ID"
// @Success     204 "Family deleted"
// @Failure     400 {object} ErrorResponse "Family has recorded expenses"
// @Failure     404 {object} ErrorResponse "Family not found"
// @Router      /families/{id} [delete]
func (h *FamilyHandler) DeleteFamily(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.familyService.DeleteFamily(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateInvitation handles issuing an invitation token for an email.
// Repeated calls with the same email return the same token while the
// invitation stays pending.
// @Summary     Invite an email to a family
// @Tags        families
// @Accept      json
// @Produce     json
// @Param       id      path int                     true "Family ID"
// @Param       request body CreateInvitationRequest true "Invitee email"
// @Success     200 {object} map[string]string "Invitation token"
// @Failure     400 {object} ErrorResponse "Invalid input or family not found"
// @Router      /families/{id}/invitations [post]
func (h *FamilyHandler) CreateInvitation(c *gin.Context) {
	familyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	token, err := h.familyService.CreateInvitation(familyID, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// AcceptInvitation handles joining a user to a family via a token.
// @Summary     Accept an invitation
// @Tags        families
// @Accept      json
// @Param       request body AcceptInvitationRequest true "Token and user"
// @Success     204 "Invitation accepted"
// @Failure     400 {object} ErrorResponse "Invitation expired or already accepted"
// @Failure     404 {object} ErrorResponse "Invitation or user not found"
// @Router      /families/accept-invitation [post]
func (h *FamilyHandler) AcceptInvitation(c *gin.Context) {
	var req AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.familyService.AcceptInvitation(req.Token, req.UserID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(req.UserID, "ACCEPT_INVITATION", "invitation", 0, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetFamilyInvitations handles listing a family's invitations.
// @Summary     List a family's invitations
// @Tags        families
// @Produce     json
// @Param       id path int true "Family ID"
// @Success     200 {object} []models.FamilyInvitation "Invitations"
// @Failure     404 {object} ErrorResponse "Family not found"
// @Router      /families/{id}/invitations [get]
func (h *FamilyHandler) GetFamilyInvitations(c *gin.Context) {
	familyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	invitations, err := h.familyService.ListInvitationsByFamily(familyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

// GetInvitationsByEmail handles listing invitations addressed to an email.
// @Summary     List invitations by email
// @Tags        families
// @Produce     json
// @Param       email query string true "Invitee email"
// @Success     200 {object} []models.FamilyInvitation "Invitations"
// @Failure     400 {object} ErrorResponse "Missing email"
// @Router      /families/invitations [get]
func (h *FamilyHandler) GetInvitationsByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "email is required"))
		return
	}

	invitations, err := h.familyService.ListInvitationsByEmail(email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}
