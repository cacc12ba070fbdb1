package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	slackclient "currentlybackend/clients/slack"
	"currentlybackend/config"
	"currentlybackend/db"
	"currentlybackend/handlers"
	"currentlybackend/middleware"
	"currentlybackend/services/integrations"
	"currentlybackend/services/linkedmessages"
	"currentlybackend/services/organizations"
	"currentlybackend/services/streams"
	"currentlybackend/services/txmanager"
	"currentlybackend/services/users"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.AlertWebhookURL,
		Environment: string(cfg.Environment),
		AppName:     "currentlybackend",
		LogsURL:     cfg.SiteBaseURL + "/admin/logs",
	}, nil)

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := db.RunMigrations(cfg.DatabaseURL, cfg.DatabaseSchema); err != nil {
			return err
		}
	}

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	organizationsRepo := db.NewPostgresOrganizationsRepository(dbConn, cfg.DatabaseSchema)
	streamsRepo := db.NewPostgresStreamsRepository(dbConn, cfg.DatabaseSchema)
	integrationsRepo := db.NewPostgresIntegrationsRepository(dbConn, cfg.DatabaseSchema)
	linkedMessagesRepo := db.NewPostgresLinkedMessagesRepository(dbConn, cfg.DatabaseSchema)

	// Initialize transaction manager
	txManager := txmanager.NewTransactionManager(dbConn)

	usersService := users.NewUsersService(usersRepo, txManager)
	organizationsService := organizations.NewOrganizationsService(organizationsRepo, txManager)
	streamsService := streams.NewStreamsService(streamsRepo, txManager)
	slackAPIClient := slackclient.NewSlackClient()
	integrationsService := integrations.NewIntegrationsService(
		integrationsRepo,
		slackAPIClient,
		cfg.SlackConfig.ClientID,
		cfg.SlackConfig.ClientSecret,
	)
	linkedMessagesService := linkedmessages.NewLinkedMessagesService(linkedMessagesRepo, streamsRepo)

	authMiddleware := middleware.NewClerkAuthMiddleware(usersService, cfg.ClerkConfig.SecretKey)

	eventsHandler := handlers.NewSlackEventsHandler(
		cfg.SlackConfig.SigningSecret,
		integrationsService,
		organizationsService,
		streamsService,
	)
	oauthHandler := handlers.NewSlackOAuthHandler(cfg, integrationsService, organizationsService)
	apiHandler := handlers.NewSlackAPIHandler(integrationsService, linkedMessagesService)
	usersHandler := handlers.NewUsersHandler()

	// Create a new router
	router := mux.NewRouter()

	eventsHandler.SetupEndpoints(router)
	oauthHandler.SetupEndpoints(router, authMiddleware.WithAuth)
	apiHandler.SetupEndpoints(router, authMiddleware.WithAuth)
	usersHandler.SetupEndpoints(router, authMiddleware.WithAuth)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Periodic database health check, alerting on sustained failures
	healthCheck := alertMiddleware.WrapBackgroundTask("database health check", dbConn.Ping)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if err := healthCheck(); err != nil {
				log.Printf("⚠️ Database health check failed: %v", err)
			}
		}
	}()

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
