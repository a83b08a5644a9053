package handlers

import (
	"net/http"
	"strconv"

	"github.com/LovationAdmin/birthday-api/middleware"
	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/services"

	"github.com/gin-gonic/gin"
)

type InvitationHandler struct {
	invitations *services.InvitationService
	visibility  *services.VisibilityService
}

func NewInvitationHandler(invitations *services.InvitationService, visibility *services.VisibilityService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations, visibility: visibility}
}

func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	var req models.CreateInvitationRequest
	if !bindJSON(c, &req) {
		return
	}

	inv, err := h.invitations.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Invitation created successfully",
		"invitation": inv,
	})
}

func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(services.DefaultPerPage)))

	resp, err := h.invitations.List(c.Request.Context(), middleware.GetUserID(c), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InvitationHandler) GetInvitation(c *gin.Context) {
	inv, err := h.invitations.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (h *InvitationHandler) UpdateInvitation(c *gin.Context) {
	var req models.UpdateInvitationRequest
	if !bindJSON(c, &req) {
		return
	}

	inv, err := h.invitations.Update(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Invitation updated successfully",
		"invitation": inv,
	})
}

func (h *InvitationHandler) DeleteInvitation(c *gin.Context) {
	if err := h.invitations.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation deleted successfully"})
}

func (h *InvitationHandler) PublishInvitation(c *gin.Context) {
	inv, err := h.invitations.Publish(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PublishResponse{
		Message:    "Invitation published successfully",
		Invitation: *inv,
		ShareURL:   inv.ShareURL,
	})
}

// GetGuests returns the full registration list to the invitation owner.
func (h *InvitationHandler) GetGuests(c *gin.Context) {
	resp, err := h.visibility.ListGuestsForOwner(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
