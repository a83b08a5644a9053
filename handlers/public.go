package handlers

import (
	"net/http"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/services"
	"github.com/LovationAdmin/birthday-api/utils"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated sharing endpoints.
type PublicHandler struct {
	rsvp       *services.RSVPService
	visibility *services.VisibilityService
}

func NewPublicHandler(rsvp *services.RSVPService, visibility *services.VisibilityService) *PublicHandler {
	return &PublicHandler{rsvp: rsvp, visibility: visibility}
}

func (h *PublicHandler) GetInvitation(c *gin.Context) {
	resp, err := h.visibility.PublicInvitation(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SubmitRSVP answers 201 when a new guest was recorded and 200 when an
// existing one was updated. A bad body sent to a code that is not open for
// RSVPs gets the same 404 as a good one.
func (h *PublicHandler) SubmitRSVP(c *gin.Context) {
	var req models.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if err := h.rsvp.Accepting(c.Request.Context(), c.Param("code")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ValidationMessage(err)})
		return
	}

	result, err := h.rsvp.Submit(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	c.JSON(status, models.RSVPResponse{
		Message:   "RSVP recorded successfully",
		Guest:     result.Guest,
		RSVPStats: result.Stats,
	})
}

func (h *PublicHandler) GetGuests(c *gin.Context) {
	resp, err := h.visibility.ListGuestsPublic(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
