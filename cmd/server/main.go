package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyhall/internal/config"
	"studyhall/internal/database"
	"studyhall/internal/handlers"
	"studyhall/internal/repository"
	"studyhall/internal/scorer"
	"studyhall/internal/security"
	"studyhall/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Open database connection (supports sqlite, postgres, mysql)
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed the global skill catalogue
	if err := db.SeedDefaultSkills(); err != nil {
		log.Printf("Warning: Failed to seed default skills: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrgRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	studyRepo := repository.NewStudyRepository(db)
	shareRepo := repository.NewShareRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Remote scorer client
	scorerClient := scorer.NewClient(cfg.ScorerURL, cfg.ScorerModel)

	// Email delivery; disabled when SES_FROM_EMAIL is unset
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	if emailService.IsEnabled() {
		log.Println("Email delivery enabled")
	} else {
		log.Println("Email delivery disabled (SES_FROM_EMAIL not set)")
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, emailService, cfg.SessionDuration)
	orgService := service.NewOrgService(orgRepo, userRepo)
	skillService := service.NewSkillService(skillRepo, orgRepo)
	courseService := service.NewCourseService(courseRepo, skillRepo, orgRepo)
	libraryService := service.NewLibraryService(libraryRepo, orgRepo, shareRepo, cfg.UploadMaxSize)
	taskGenService := service.NewTaskGenService(scorerClient, taskRepo, libraryRepo, notificationRepo, emailService, userRepo, libraryService, cfg.TaskGenWorkers)
	studyService := service.NewStudyService(taskRepo, studyRepo, notificationRepo, libraryService, scorerClient)
	shareService := service.NewShareService(shareRepo, userRepo, notificationRepo, emailService, libraryService)
	notificationService := service.NewNotificationService(notificationRepo)
	reportService := service.NewReportService(studyRepo, libraryService)
	backupService := service.NewBackupService(db)

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name:  "facebook",
			Label: "Facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
		"apple": {
			Name:  "apple",
			Label: "Apple",
			Config: &oauth2.Config{
				ClientID:     cfg.AppleClientID,
				ClientSecret: cfg.AppleClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://appleid.apple.com/auth/authorize",
					TokenURL: "https://appleid.apple.com/auth/token",
				},
				Scopes: []string{"name", "email"},
			},
			AuthParams: map[string]string{
				"response_mode": "query",
			},
		},
	}

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	middleware := handlers.NewMiddleware(authService, csrf)
	authHandler := handlers.NewAuthHandler(authService, csrf, oauthProviders, cfg.OAuthRedirectBaseURL)
	orgHandler := handlers.NewOrgHandler(orgService)
	skillHandler := handlers.NewSkillHandler(skillService)
	courseHandler := handlers.NewCourseHandler(courseService)
	libraryHandler := handlers.NewLibraryHandler(libraryService)
	taskHandler := handlers.NewTaskHandler(taskGenService, libraryService)
	studyHandler := handlers.NewStudyHandler(studyService)
	shareHandler := handlers.NewShareHandler(shareService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	reportHandler := handlers.NewReportHandler(reportService)
	adminHandler := handlers.NewAdminHandler(backupService)

	// Setup routes
	mux := http.NewServeMux()

	// Public auth routes
	mux.HandleFunc("POST /auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("POST /auth/password-reset/request", middleware.RateLimit(authHandler.RequestPasswordReset))
	mux.HandleFunc("POST /auth/password-reset/confirm", middleware.RateLimit(authHandler.ResetPassword))
	mux.HandleFunc("GET /auth/providers", authHandler.Providers)
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Organisation routes
	mux.HandleFunc("POST /orgs", middleware.RequireAuth(middleware.CSRFProtect(orgHandler.Create)))
	mux.HandleFunc("GET /orgs", middleware.RequireAuth(orgHandler.List))
	mux.HandleFunc("GET /orgs/{id}", middleware.RequireAuth(orgHandler.Get))
	mux.HandleFunc("PUT /orgs/{id}", middleware.RequireAuth(middleware.CSRFProtect(orgHandler.Update)))
	mux.HandleFunc("DELETE /orgs/{id}", middleware.RequireAuth(middleware.CSRFProtect(orgHandler.Delete)))
	mux.HandleFunc("GET /orgs/{id}/members", middleware.RequireAuth(orgHandler.ListMembers))
	mux.HandleFunc("POST /orgs/{id}/members", middleware.RequireAuth(middleware.CSRFProtect(orgHandler.AddMember)))
	mux.HandleFunc("PUT /orgs/{id}/members/{userId}", middleware.RequireAuth(middleware.CSRFProtect(orgHandler.UpdateMember)))
	mux.HandleFunc("DELETE /orgs/{id}/members/{userId}", middleware.RequireAuth(middleware.CSRFProtect(orgHandler.RemoveMember)))

	// Skill routes
	mux.HandleFunc("GET /orgs/{id}/skills", middleware.RequireAuth(skillHandler.List))
	mux.HandleFunc("POST /orgs/{id}/skills", middleware.RequireAuth(middleware.CSRFProtect(skillHandler.Create)))
	mux.HandleFunc("PUT /orgs/{id}/skills/{skillId}", middleware.RequireAuth(middleware.CSRFProtect(skillHandler.Update)))
	mux.HandleFunc("DELETE /orgs/{id}/skills/{skillId}", middleware.RequireAuth(middleware.CSRFProtect(skillHandler.Delete)))

	// Course routes
	mux.HandleFunc("POST /orgs/{id}/courses", middleware.RequireAuth(middleware.CSRFProtect(courseHandler.Create)))
	mux.HandleFunc("GET /orgs/{id}/courses", middleware.RequireAuth(courseHandler.List))
	mux.HandleFunc("GET /courses/{id}", middleware.RequireAuth(courseHandler.Get))
	mux.HandleFunc("PUT /courses/{id}", middleware.RequireAuth(middleware.CSRFProtect(courseHandler.Update)))
	mux.HandleFunc("DELETE /courses/{id}", middleware.RequireAuth(middleware.CSRFProtect(courseHandler.Delete)))
	mux.HandleFunc("POST /courses/{id}/skills/{skillId}", middleware.RequireAuth(middleware.CSRFProtect(courseHandler.LinkSkill)))
	mux.HandleFunc("DELETE /courses/{id}/skills/{skillId}", middleware.RequireAuth(middleware.CSRFProtect(courseHandler.UnlinkSkill)))

	// Repository and document routes
	mux.HandleFunc("POST /orgs/{id}/repositories", middleware.RequireAuth(middleware.CSRFProtect(libraryHandler.CreateRepository)))
	mux.HandleFunc("GET /orgs/{id}/repositories", middleware.RequireAuth(libraryHandler.ListRepositories))
	mux.HandleFunc("GET /repositories/{id}", middleware.RequireAuth(libraryHandler.GetRepository))
	mux.HandleFunc("PUT /repositories/{id}", middleware.RequireAuth(middleware.CSRFProtect(libraryHandler.UpdateRepository)))
	mux.HandleFunc("DELETE /repositories/{id}", middleware.RequireAuth(middleware.CSRFProtect(libraryHandler.DeleteRepository)))
	mux.HandleFunc("POST /repositories/{id}/documents", middleware.RequireAuth(middleware.CSRFProtect(libraryHandler.UploadDocument)))
	mux.HandleFunc("GET /repositories/{id}/documents", middleware.RequireAuth(libraryHandler.ListDocuments))
	mux.HandleFunc("DELETE /documents/{id}", middleware.RequireAuth(middleware.CSRFProtect(libraryHandler.DeleteDocument)))
	mux.HandleFunc("GET /documents/{id}/chunks", middleware.RequireAuth(libraryHandler.ListChunks))
	mux.HandleFunc("GET /chunks/{id}", middleware.RequireAuth(libraryHandler.GetChunk))

	// Task routes
	mux.HandleFunc("GET /repositories/{id}/tasks", middleware.RequireAuth(taskHandler.List))
	mux.HandleFunc("POST /documents/{id}/generate", middleware.RequireAuth(middleware.CSRFProtect(taskHandler.Generate)))
	mux.HandleFunc("GET /generation-jobs/{id}", middleware.RequireAuth(taskHandler.GetJob))

	// Study session routes
	mux.HandleFunc("POST /study/start", middleware.RequireAuth(middleware.CSRFProtect(studyHandler.Start)))
	mux.HandleFunc("GET /study", middleware.RequireAuth(studyHandler.Current))
	mux.HandleFunc("POST /study/answer", middleware.RequireAuth(middleware.CSRFProtect(studyHandler.Answer)))
	mux.HandleFunc("POST /study/next", middleware.RequireAuth(middleware.CSRFProtect(studyHandler.Next)))
	mux.HandleFunc("POST /study/restart", middleware.RequireAuth(middleware.CSRFProtect(studyHandler.Restart)))

	// Share routes
	mux.HandleFunc("POST /repositories/{id}/shares", middleware.RequireAuth(middleware.CSRFProtect(shareHandler.Create)))
	mux.HandleFunc("GET /repositories/{id}/shares", middleware.RequireAuth(shareHandler.List))
	mux.HandleFunc("POST /shares/accept", middleware.RequireAuth(middleware.CSRFProtect(shareHandler.Accept)))
	mux.HandleFunc("GET /shares/accepted", middleware.RequireAuth(shareHandler.ListAccepted))
	mux.HandleFunc("DELETE /shares/{id}", middleware.RequireAuth(middleware.CSRFProtect(shareHandler.Revoke)))

	// Notification routes
	mux.HandleFunc("GET /notifications", middleware.RequireAuth(notificationHandler.List))
	mux.HandleFunc("POST /notifications/{id}/read", middleware.RequireAuth(middleware.CSRFProtect(notificationHandler.MarkRead)))
	mux.HandleFunc("POST /notifications/read-all", middleware.RequireAuth(middleware.CSRFProtect(notificationHandler.MarkAllRead)))
	mux.HandleFunc("GET /notifications/unread-count", middleware.RequireAuth(notificationHandler.UnreadCount))

	// Report routes
	mux.HandleFunc("GET /reports/me", middleware.RequireAuth(reportHandler.UserReport))
	mux.HandleFunc("GET /repositories/{id}/report", middleware.RequireAuth(reportHandler.RepositoryReport))
	mux.HandleFunc("GET /reports/records/{id}/attempts", middleware.RequireAuth(reportHandler.RecordAttempts))

	// Admin routes
	mux.HandleFunc("GET /admin/backup", middleware.RequireAdmin(adminHandler.ExportBackup))
	mux.HandleFunc("POST /admin/backup", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.ImportBackup)))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpired(authService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Let queued generation jobs finish before the server stops
	taskGenService.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

// cleanupExpired periodically removes expired sessions and reset tokens
func cleanupExpired(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpired(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
	}
}
