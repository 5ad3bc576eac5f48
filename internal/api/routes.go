package api

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/editor"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Services bundles what the routes call into.
type Services struct {
	Templates   service.TemplateService
	Assignments service.AssignmentService
	Clients     service.ClientService
	Exercises   service.ExerciseService
	Calendar    service.CalendarService
	Editors     *editor.Registry
}

func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services, calendarLoc *time.Location, log *logger.Logger) {
	templateHandler := NewTemplateHandler(svc.Templates, log)
	editorHandler := NewEditorHandler(svc.Editors, svc.Templates, svc.Exercises, log)
	assignmentHandler := NewAssignmentHandler(svc.Assignments, svc.Clients, log)
	exerciseHandler := NewExerciseHandler(svc.Exercises, log)
	calendarHandler := NewCalendarHandler(svc.Calendar, calendarLoc, log)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", func(c *gin.Context) {
			actor, ok := getActor(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": actor.ID, "role": actor.Role})
		})

		// Coach and staff authoring surface.
		coach := protected.Group("")
		coach.Use(RoleMiddleware(domain.RoleCoach, domain.RoleStaff))
		{
			templates := coach.Group("/templates")
			{
				templates.GET("", templateHandler.ListTemplates)
				templates.GET("/stream", templateHandler.StreamTemplates)
				templates.GET("/:templateId", templateHandler.GetTemplate)
				templates.POST("/:templateId/unpublish", templateHandler.Unpublish)
				templates.DELETE("/:templateId", templateHandler.DeleteTemplate)
			}

			sessions := coach.Group("/editor/sessions")
			{
				sessions.POST("", editorHandler.OpenSession)
				sessions.GET("/:sessionId", editorHandler.GetSession)
				sessions.DELETE("/:sessionId", editorHandler.CloseSession)
				sessions.PUT("/:sessionId/metadata", editorHandler.SetMetadata)
				sessions.POST("/:sessionId/next", editorHandler.Next)
				sessions.POST("/:sessionId/back", editorHandler.Back)
				sessions.PUT("/:sessionId/selection", editorHandler.Select)
				sessions.GET("/:sessionId/library", editorHandler.Library)
				sessions.POST("/:sessionId/exercises", editorHandler.AddExercise)
				sessions.POST("/:sessionId/meals", editorHandler.AddMeal)
				sessions.DELETE("/:sessionId/entries/:entryId", editorHandler.RemoveEntry)
				sessions.POST("/:sessionId/draft", editorHandler.SaveDraft)
				sessions.POST("/:sessionId/publish", editorHandler.Publish)
			}

			coach.GET("/assignments/targets", assignmentHandler.Targets)
			coach.GET("/assignments/targets/stream", assignmentHandler.StreamTargets)
			coach.GET("/assignments", assignmentHandler.ListAssignments)
			coach.POST("/assignments", assignmentHandler.Assign)
			coach.DELETE("/assignments/:assignmentId", assignmentHandler.Unassign)

			exercises := coach.Group("/exercises")
			{
				exercises.GET("", exerciseHandler.GetCoachExercises)
				exercises.POST("", exerciseHandler.CreateExercise)
				exercises.DELETE("/:exerciseId", exerciseHandler.DeleteExercise)
				exercises.POST("/video-upload", exerciseHandler.RequestVideoUpload)
			}

			cal := coach.Group("/calendar")
			{
				cal.GET("", calendarHandler.GetCalendar)
				cal.GET("/navigate", calendarHandler.Navigate)
				cal.GET("/stream", calendarHandler.Stream)
			}
		}

		// Progress is reported by clients and corrected by coaches; the
		// service checks who may touch which assignment.
		protected.PATCH("/assignments/:assignmentId/progress", assignmentHandler.UpdateProgress)

		client := protected.Group("/me")
		client.Use(RoleMiddleware(domain.RoleClient))
		{
			client.GET("/assignments", assignmentHandler.GetMyAssignments)
			client.GET("/assignments/:assignmentId", assignmentHandler.GetMyAssignment)
		}
	}
}
