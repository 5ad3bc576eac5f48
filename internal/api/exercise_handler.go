package api

import (
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler serves the coach's exercise library.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	log             *logger.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, log *logger.Logger) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, log: log}
}

// VideoUploadRequest asks for a presigned upload URL.
type VideoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// CreateExercise handles POST /exercises
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req service.LibraryExerciseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// GetCoachExercises handles GET /exercises
func (h *ExerciseHandler) GetCoachExercises(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	exercises, err := h.exerciseService.GetExercisesByCoach(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// DeleteExercise handles DELETE /exercises/:exerciseId
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), actor, c.Param("exerciseId")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestVideoUpload handles POST /exercises/video-upload
func (h *ExerciseHandler) RequestVideoUpload(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req VideoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	res, err := h.exerciseService.RequestVideoUpload(c.Request.Context(), actor, req.ContentType)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
