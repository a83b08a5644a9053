package handlers

import (
	"net/http"

	"github.com/LovationAdmin/birthday-api/middleware"
	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// ============================================================================
// TWO-FACTOR AUTHENTICATION
// ============================================================================

func (h *UserHandler) SetupTOTP(c *gin.Context) {
	resp, err := h.users.SetupTOTP(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) VerifyTOTP(c *gin.Context) {
	var req models.VerifyTOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.users.VerifyTOTP(c.Request.Context(), middleware.GetUserID(c), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "2FA enabled successfully",
		"enabled": true,
	})
}

func (h *UserHandler) DisableTOTP(c *gin.Context) {
	var req models.DisableTOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.users.DisableTOTP(c.Request.Context(), middleware.GetUserID(c), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "2FA disabled successfully",
		"enabled": false,
	})
}

// ============================================================================
// ACCOUNT DELETION & DATA EXPORT
// ============================================================================

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	var req models.DeleteAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.users.DeleteAccount(c.Request.Context(), middleware.GetUserID(c), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (h *UserHandler) ExportUserData(c *gin.Context) {
	export, err := h.users.Export(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="birthday-invitations-export.json"`)
	c.JSON(http.StatusOK, export)
}
