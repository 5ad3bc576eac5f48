package api

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/service"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AssignmentHandler serves template assignment for coaches and the
// assigned-template reads for clients.
type AssignmentHandler struct {
	assignmentService service.AssignmentService
	clientService     service.ClientService
	log               *logger.Logger
}

func NewAssignmentHandler(assignmentService service.AssignmentService, clientService service.ClientService, log *logger.Logger) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService, clientService: clientService, log: log}
}

// AssignRequest defines the expected JSON for assigning a template.
type AssignRequest struct {
	TemplateID string `json:"templateId" binding:"required"`
	ClientID   string `json:"clientId"` // validated by the service so the error is typed
	Notes      string `json:"notes"`
}

// ProgressRequest defines the expected JSON for a progress update.
type ProgressRequest struct {
	Progress *int                    `json:"progress" binding:"required"`
	Status   domain.AssignmentStatus `json:"status"`
}

// Targets handles GET /assignments/targets
func (h *AssignmentHandler) Targets(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	targets, err := h.assignmentService.Targets(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, targets)
}

// StreamTargets handles GET /assignments/targets/stream: a server-sent
// event each time the coach's published templates or clients change.
func (h *AssignmentHandler) StreamTargets(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	updates, err := h.assignmentService.WatchTargets(ctx, actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case targets, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("targets", targets)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// Assign handles POST /assignments
func (h *AssignmentHandler) Assign(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	res, err := h.assignmentService.Assign(c.Request.Context(), actor, req.TemplateID, req.ClientID, req.Notes)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListAssignments handles GET /assignments
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	views, err := h.assignmentService.GetAssignmentsByCoach(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// UpdateProgress handles PATCH /assignments/:assignmentId/progress
func (h *AssignmentHandler) UpdateProgress(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	a, err := h.assignmentService.UpdateProgress(c.Request.Context(), actor, c.Param("assignmentId"), *req.Progress, req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Unassign handles DELETE /assignments/:assignmentId
func (h *AssignmentHandler) Unassign(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	if err := h.assignmentService.Unassign(c.Request.Context(), actor, c.Param("assignmentId")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMyAssignments handles GET /me/assignments for clients.
func (h *AssignmentHandler) GetMyAssignments(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	views, err := h.clientService.GetMyAssignments(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetMyAssignment handles GET /me/assignments/:assignmentId for clients.
func (h *AssignmentHandler) GetMyAssignment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := h.clientService.GetMyAssignment(c.Request.Context(), actor.ID, c.Param("assignmentId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
