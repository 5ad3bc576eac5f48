package api

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/editor"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/service"
	"coachdesk/planner/internal/storage"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto an HTTP status. Validation errors
// carry their per-field details.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	if fields := domain.ValidationErrors(err); len(fields) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fields[0].Message, "fields": fields})
		return
	}

	var pe *service.PersistenceError
	switch {
	case errors.Is(err, editor.ErrSavePending), errors.Is(err, editor.ErrWrongStep):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, editor.ErrSessionNotFound),
		errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTemplateAccessDenied),
		errors.Is(err, service.ErrAssignmentAccessDenied),
		errors.Is(err, service.ErrClientAccessDenied),
		errors.Is(err, service.ErrExerciseAccessDenied),
		errors.Is(err, service.ErrVideoAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrUnknownDay),
		errors.Is(err, domain.ErrUnknownMealSlot),
		errors.Is(err, domain.ErrMealSlotRequired),
		errors.Is(err, domain.ErrEntryKindMismatch),
		errors.Is(err, storage.ErrUnsupportedContentType):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &pe) && pe.Timeout():
		abortWithError(c, http.StatusGatewayTimeout, err.Error())
	default:
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		abortWithError(c, http.StatusInternalServerError, "internal error")
	}
}
