package api

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/repository"
	"coachdesk/planner/internal/service"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TemplateHandler serves saved templates.
type TemplateHandler struct {
	templateService service.TemplateService
	log             *logger.Logger
}

func NewTemplateHandler(templateService service.TemplateService, log *logger.Logger) *TemplateHandler {
	return &TemplateHandler{templateService: templateService, log: log}
}

// ListTemplates handles GET /templates?kind=&status=
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	filter := repository.TemplateFilter{
		OwnerID: c.Query("ownerId"),
		Kind:    domain.TemplateKind(c.Query("kind")),
		Status:  domain.TemplateStatus(c.Query("status")),
	}
	if filter.Kind != "" && !filter.Kind.Valid() {
		respondError(c, h.log, domain.ErrInvalidKind)
		return
	}

	templates, err := h.templateService.ListTemplates(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// StreamTemplates handles GET /templates/stream?kind=&status=, pushing the
// full list as a server-sent event on every change.
func (h *TemplateHandler) StreamTemplates(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	filter := repository.TemplateFilter{
		OwnerID: c.Query("ownerId"),
		Kind:    domain.TemplateKind(c.Query("kind")),
		Status:  domain.TemplateStatus(c.Query("status")),
	}
	if filter.Kind != "" && !filter.Kind.Valid() {
		respondError(c, h.log, domain.ErrInvalidKind)
		return
	}

	ctx := c.Request.Context()
	lists, err := h.templateService.WatchTemplates(ctx, actor, filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case list, ok := <-lists:
			if !ok {
				return false
			}
			c.SSEvent("templates", list)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// GetTemplate handles GET /templates/:templateId
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	t, err := h.templateService.GetTemplate(c.Request.Context(), actor, c.Param("templateId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Unpublish handles POST /templates/:templateId/unpublish
func (h *TemplateHandler) Unpublish(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	t, err := h.templateService.Unpublish(c.Request.Context(), actor, c.Param("templateId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteTemplate handles DELETE /templates/:templateId
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	if err := h.templateService.DeleteTemplate(c.Request.Context(), actor, c.Param("templateId")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
