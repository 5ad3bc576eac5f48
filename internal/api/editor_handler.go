package api

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/editor"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// EditorHandler drives editor sessions over HTTP. Every mutating call
// answers with the editor's new state.
type EditorHandler struct {
	registry        *editor.Registry
	templateService service.TemplateService
	exerciseService service.ExerciseService
	log             *logger.Logger
}

func NewEditorHandler(registry *editor.Registry, templateService service.TemplateService, exerciseService service.ExerciseService, log *logger.Logger) *EditorHandler {
	return &EditorHandler{
		registry:        registry,
		templateService: templateService,
		exerciseService: exerciseService,
		log:             log,
	}
}

// OpenSessionRequest opens a new template of Kind, or an existing one.
type OpenSessionRequest struct {
	Kind       domain.TemplateKind `json:"kind"`
	TemplateID string              `json:"templateId"`
}

type SessionResponse struct {
	SessionID string       `json:"sessionId"`
	State     editor.State `json:"state"`
}

// SelectionRequest updates any of the view selections. Absent fields are
// left alone.
type SelectionRequest struct {
	Day         *domain.Weekday  `json:"day"`
	MealSlot    *domain.MealSlot `json:"mealSlot"`
	MuscleGroup *string          `json:"muscleGroup"`
	Search      *string          `json:"search"`
}

// AddExerciseRequest adds an exercise, optionally pre-filled from the
// coach's library.
type AddExerciseRequest struct {
	editor.ExerciseDraft
	LibraryExerciseID string `json:"libraryExerciseId"`
}

// OpenSession handles POST /editor/sessions
func (h *EditorHandler) OpenSession(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var t *domain.Template
	switch {
	case req.TemplateID != "":
		var err error
		t, err = h.templateService.GetTemplate(c.Request.Context(), actor, req.TemplateID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
	case req.Kind.Valid():
		t = domain.NewTemplate(actor.ID, req.Kind)
	default:
		respondError(c, h.log, domain.ErrInvalidKind)
		return
	}

	id, ed := h.registry.Open(actor.ID, t)
	c.JSON(http.StatusCreated, SessionResponse{SessionID: id, State: ed.State()})
}

// session resolves :sessionId for the actor. On failure it has already
// written the response.
func (h *EditorHandler) session(c *gin.Context) (*editor.Editor, domain.Actor, bool) {
	actor, ok := getActor(c)
	if !ok {
		return nil, actor, false
	}
	ed, err := h.registry.Get(c.Param("sessionId"), actor.ID)
	if err != nil {
		respondError(c, h.log, err)
		return nil, actor, false
	}
	return ed, actor, true
}

// reply writes the editor state, or the error if err is set.
func (h *EditorHandler) reply(c *gin.Context, ed *editor.Editor, err error) {
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ed.State())
}

// GetSession handles GET /editor/sessions/:sessionId
func (h *EditorHandler) GetSession(c *gin.Context) {
	ed, _, ok := h.session(c)
	if !ok {
		return
	}
	h.reply(c, ed, nil)
}

// CloseSession handles DELETE /editor/sessions/:sessionId
func (h *EditorHandler) CloseSession(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	if err := h.registry.Close(c.Param("sessionId"), actor.ID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetMetadata handles PUT /editor/sessions/:sessionId/metadata
func (h *EditorHandler) SetMetadata(c *gin.Context) {
	ed, _, ok := h.session(c)
	if !ok {
		return
	}
	var m domain.Metadata
	if err := c.ShouldBindJSON(&m); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	h.reply(c, ed, ed.SetMetadata(m))
}

// Next handles POST /editor/sessions/:sessionId/next
func (h *EditorHandler) Next(c *gin.Context) {
	ed, _, ok := h.session(c)
	if !ok {
		return
	}
	h.reply(c, ed, ed.Next())
}

// Back handles POST /editor/sessions/:sessionId/back
func (h *EditorHandler) Back(c *gin.Context) {
	ed, _, ok := h.session(c)
	if !ok {
		return
	}
	h.reply(c, ed, ed.Back())
}

// Select handles PUT /editor/sessions/:sessionId/selection
func (h *EditorHandler) Select(c *gin.Context) {
	ed, _, ok := h.session(c)
	if !ok {
		return
	}
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var err error
	if req.Day != nil {
		err = ed.SelectDay(*req.Day)
	}
	if err == nil && req.MealSlot != nil {
		err = ed.SelectMealSlot(*req.MealSlot)
	}
	if err == nil && req.MuscleGroup != nil {
		err = ed.SetMuscleGroupFilter(*req.MuscleGroup)
	}
	if err == nil && req.Search != nil {
		err = ed.SetSearch(*req.Search)
	}
	h.reply(c, ed, err)
}

// Library handles GET /editor/sessions/:sessionId/library: the coach's
// exercise library narrowed by the session's filter and search.
func (h *EditorHandler) Library(c *gin.Context) {
	ed, actor, ok := h.session(c)
	if !ok {
		return
	}
	library, err := h.exerciseService.GetExercisesByCoach(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ed.FilterLibrary(library))
}

// AddExercise handles POST /editor/sessions/:sessionId/exercises
func (h *EditorHandler) AddExercise(c *gin.Context) {
	ed, actor, ok := h.session(c)
	if !ok {
		return
	}
	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	draft := req.ExerciseDraft
	if req.LibraryExerciseID != "" {
		library, err := h.exerciseService.GetExercisesByCoach(c.Request.Context(), actor)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		found := false
		for _, lib := range library {
			if lib.ID == req.LibraryExerciseID {
				fromLib := editor.DraftFromLibrary(lib)
				fromLib.Sets, fromLib.Reps, fromLib.RestSeconds = draft.Sets, draft.Reps, draft.RestSeconds
				draft, found = fromLib, true
				break
			}
		}
		if !found {
			respondError(c, h.log, service.ErrExerciseNotFound)
			return
		}
	}

	_, err := ed.AddExercise(draft)
	h.reply(c, ed, err)
}

// AddMeal handles POST /editor/sessions/:sessionId/meals
func (h *EditorHandler) AddMeal(c *gin.Context) {
	ed, _, ok := h.session(c)
	if !ok {
		return
	}
	var draft editor.MealDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	_, err := ed.AddMeal(draft)
	h.reply(c, ed, err)
}

// RemoveEntry handles DELETE /editor/sessions/:sessionId/entries/:entryId?slot=
func (h *EditorHandler) RemoveEntry(c *gin.Context) {
	ed, _, ok := h.session(c)
	if !ok {
		return
	}
	h.reply(c, ed, ed.RemoveEntry(domain.MealSlot(c.Query("slot")), c.Param("entryId")))
}

// SaveDraft handles POST /editor/sessions/:sessionId/draft
func (h *EditorHandler) SaveDraft(c *gin.Context) {
	ed, _, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := ed.SaveDraft(c.Request.Context()); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.reply(c, ed, nil)
}

// Publish handles POST /editor/sessions/:sessionId/publish
func (h *EditorHandler) Publish(c *gin.Context) {
	ed, _, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := ed.Publish(c.Request.Context()); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.reply(c, ed, nil)
}
