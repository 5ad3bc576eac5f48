package main

import (
	"coachdesk/planner/internal/api"
	"coachdesk/planner/internal/calendar"
	"coachdesk/planner/internal/config"
	"coachdesk/planner/internal/editor"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/repository/mongo"
	"coachdesk/planner/internal/service"
	"coachdesk/planner/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// Editor sessions untouched for this long are dropped.
const editorSessionIdle = 2 * time.Hour

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	appLog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer appLog.Sync()
	appLog.Info("configuration loaded", "address", cfg.Server.Address, "database", cfg.Database.Name)

	weekStart, err := calendar.ParseWeekStart(cfg.Calendar.WeekStart)
	if err != nil {
		appLog.Fatal("invalid calendar.week_start", "error", err)
	}
	loc, err := cfg.Calendar.Location()
	if err != nil {
		appLog.Fatal("invalid calendar.timezone", "error", err)
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		appLog.Fatal("could not connect to MongoDB", "error", err)
	}
	defer func() {
		appLog.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			appLog.Error("failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB, appLog)
	}()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3, appLog)
		if err != nil {
			appLog.Fatal("failed to initialize S3 storage", "error", err)
		}
	} else {
		appLog.Warn("s3.bucket_name not set; exercise video uploads are disabled")
	}

	// --- Initialize Repositories ---
	templateRepo := mongo.NewMongoTemplateRepository(appDB, appLog)
	assignmentRepo := mongo.NewMongoAssignmentRepository(appDB, appLog)
	clientRepo := mongo.NewMongoClientRepository(appDB, appLog)
	appointmentRepo := mongo.NewMongoAppointmentRepository(appDB, loc, appLog)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB, appLog)

	// --- Initialize Services ---
	timeout := cfg.Persistence.Timeout
	templateService := service.NewTemplateService(templateRepo, timeout, appLog)
	svc := api.Services{
		Templates:   templateService,
		Assignments: service.NewAssignmentService(templateRepo, assignmentRepo, clientRepo, timeout, appLog),
		Clients:     service.NewClientService(assignmentRepo, templateRepo, fileStorage, appLog),
		Exercises:   service.NewExerciseService(exerciseRepo, fileStorage, timeout, appLog),
		Calendar: service.NewCalendarService(
			appointmentRepo,
			calendar.Windower{WeekStart: weekStart},
			calendar.ChipLimits{Day: cfg.Calendar.MaxChips.Day, Week: cfg.Calendar.MaxChips.Week, Month: cfg.Calendar.MaxChips.Month},
			loc,
			appLog,
		),
		Editors: editor.NewRegistry(templateService, appLog),
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				svc.Editors.Sweep(editorSessionIdle)
			case <-sweepCtx.Done():
				return
			}
		}
	}()

	// --- Initialize Gin Engine ---
	if cfg.Log.Mode == "production" || cfg.Log.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret, svc, loc, appLog)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:        cfg.Server.Address,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: /calendar/stream holds its response open.
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		appLog.Info("server starting", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("ListenAndServe error", "error", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		appLog.Error("server forced to shutdown", "error", err)
	}
	appLog.Info("server exiting")
}
