package handlers

import (
	"net/http"

	"github.com/LovationAdmin/birthday-api/middleware"
	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/services"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templates *services.TemplateService
	stats     *services.StatsService
}

func NewTemplateHandler(templates *services.TemplateService, stats *services.StatsService) *TemplateHandler {
	return &TemplateHandler{templates: templates, stats: stats}
}

func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req models.CreateTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	tpl, err := h.templates.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Template created successfully",
		"template": tpl,
	})
}

func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	resp, err := h.templates.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	tpl, err := h.templates.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tpl)
}

func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var req models.UpdateTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	tpl, err := h.templates.Update(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Template updated successfully",
		"template": tpl,
	})
}

func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// GetStats returns the caller's totals across invitations, guests and templates.
func (h *TemplateHandler) GetStats(c *gin.Context) {
	stats, err := h.stats.OwnerStats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
