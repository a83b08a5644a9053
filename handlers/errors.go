package handlers

import (
	"errors"
	"net/http"

	"github.com/LovationAdmin/birthday-api/repositories"
	"github.com/LovationAdmin/birthday-api/services"
	"github.com/LovationAdmin/birthday-api/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto a status code. Missing and foreign
// resources share the same 404 so that existence never leaks.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrTwoFactorRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "2FA code required", "requires_2fa": true})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		msg := err.Error()
		if errors.Is(err, repositories.ErrUniqueViolation) {
			msg = "A concurrent request already recorded this entry, please retry"
		}
		c.JSON(http.StatusConflict, gin.H{"error": msg})
	case errors.Is(err, services.ErrPersistence):
		utils.Alert("persistence failure on "+c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save changes, nothing was written"})
	default:
		utils.Alert("unexpected error on "+c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindJSON decodes the body into req and answers 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ValidationMessage(err)})
		return false
	}
	return true
}
