package main

import (
	"context"
	"log"
	"strings"

	api "pulseboard-backend/cmd/api"
	authdomain "pulseboard-backend/internal/auth/domain"
	authRepo "pulseboard-backend/internal/auth/repository"
	authUsecase "pulseboard-backend/internal/auth/usecase"
	conndomain "pulseboard-backend/internal/connection/domain"
	connRepo "pulseboard-backend/internal/connection/repository"
	connUsecase "pulseboard-backend/internal/connection/usecase"
	"pulseboard-backend/internal/notification"
	triagedomain "pulseboard-backend/internal/triage/domain"
	triageRepo "pulseboard-backend/internal/triage/repository"
	"pulseboard-backend/internal/triage/scheduler"
	"pulseboard-backend/internal/triage/scoring"
	triageUsecase "pulseboard-backend/internal/triage/usecase"
	"pulseboard-backend/pkg/ai"
	"pulseboard-backend/pkg/config"
	"pulseboard-backend/pkg/database"
	"pulseboard-backend/pkg/fcm"
	"pulseboard-backend/pkg/gcalendar"
	"pulseboard-backend/pkg/gmail"
	"pulseboard-backend/pkg/gtasks"
	"pulseboard-backend/pkg/todoist"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&conndomain.Connection{},
		&triagedomain.TriageQueueEntry{},
		&triagedomain.SyncCursor{},
		&authdomain.FCMToken{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	connectionRepo := connRepo.NewConnectionRepository(db, cfg.EncryptionKey)
	queueRepo := triageRepo.NewTriageQueueRepository(db)
	cursorRepo := triageRepo.NewSyncCursorRepository(db)
	fcmTokenRepo := authRepo.NewFCMTokenRepository(db)

	// Initialize provider clients
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)
	calendarService := gcalendar.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)
	tasksService := gtasks.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)
	todoistService := todoist.NewService()

	// Initialize AI urgency scorer
	urgencyScorer, err := ai.NewUrgencyScorer(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Fatal("Failed to initialize AI scorer:", err)
	}
	log.Printf("AI scorer initialized with provider: %s", cfg.AIProvider)

	// Initialize use cases (dependency injection)
	triageUsecaseInstance := triageUsecase.NewTriageUsecase(
		queueRepo,
		scoring.NewSemanticScorer(urgencyScorer),
		triageUsecase.NewEmailAdapter(gmailService, connectionRepo, cursorRepo),
		triageUsecase.NewTaskAdapter(todoistService, connectionRepo),
		triageUsecase.NewCalendarAdapter(calendarService, connectionRepo),
		triageUsecase.NewListAdapter(tasksService, connectionRepo),
	)
	connUsecaseInstance := connUsecase.NewConnectionUsecase(connectionRepo)
	authUsecaseInstance := authUsecase.NewAuthUsecase(cfg)

	// Initialize FCM Client (optional, digests are skipped without it)
	var fcmClient *fcm.Client
	if cfg.FirebaseCredentials != "" {
		fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		}
	}

	// Initialize Notification Service (Pub/Sub Gmail push)
	if cfg.GoogleProjectID != "" {
		// Extract short topic name from full resource name if necessary
		topicName := cfg.GooglePubSubTopic
		if parts := strings.Split(topicName, "/"); len(parts) > 1 {
			topicName = parts[len(parts)-1]
		}
		if topicName == "" {
			topicName = "gmail-updates"
		}

		notifService, err := notification.NewService(cfg.GoogleProjectID, topicName, connectionRepo, triageUsecaseInstance, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("[ERROR] Failed to initialize notification service: %v", err)
		} else {
			go notifService.Start(context.Background())
		}
	} else {
		log.Printf("[WARN] GoogleProjectID not configured, notification service disabled")
	}

	// Start the periodic sync scheduler
	syncScheduler := scheduler.NewSyncScheduler(triageUsecaseInstance, connectionRepo, fcmTokenRepo, fcmClient, cfg.SyncInterval)
	syncScheduler.Start()
	defer syncScheduler.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, triageUsecaseInstance, connUsecaseInstance, fcmTokenRepo, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
