package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"livingdocs/internal/config"
	"livingdocs/internal/handler"
	"livingdocs/internal/middleware"
	"livingdocs/internal/repository/postgres"
	"livingdocs/internal/service"
	"livingdocs/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	logger.Info("database ready", "table_prefix", cfg.TablePrefix)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	docRepo := postgres.NewDocumentRepository(repoConfig)
	versionRepo := postgres.NewVersionRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Blob store with PDF tracking post-processing
	processors := storage.NewProcessorRegistry()
	processors.Register(".pdf", storage.NewPDFProcessor())
	store, err := storage.NewStore(cfg.StorageDir, processors, logger)
	if err != nil {
		log.Fatalf("Failed to open blob store: %v", err)
	}

	authService := service.NewAuthService(userRepo, logger, cfg.JWTSecret, cfg.JWTExpiration)
	docService := service.NewDocumentService(docRepo, versionRepo, folderRepo, txManager, store, logger, cfg.BaseURL)
	folderService := service.NewFolderService(folderRepo, docRepo, docService, logger)
	treeService := service.NewTreeService(folderRepo, docRepo)
	publicService := service.NewPublicService(docRepo, store, logger, cfg.BaseURL)
	userService := service.NewUserService(userRepo, docRepo, docService, logger)

	sweeper := service.NewSweeper(versionRepo, store, logger, cfg.RetentionDays, cfg.SweepInterval, cfg.SweepStartupDelay)
	sweeper.Start(ctx)

	authHandler := handler.NewAuthHandler(authService, logger)
	docHandler := handler.NewDocumentHandler(docService, folderService, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	treeHandler := handler.NewTreeHandler(treeService, logger)
	publicHandler := handler.NewPublicHandler(publicService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	configHandler := handler.NewConfigHandler(cfg)

	logger.Info("services initialized")

	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Auth routes
	mux.HandleFunc("POST /api/login", authHandler.Login)
	mux.HandleFunc("POST /api/logout", authHandler.Logout)
	mux.HandleFunc("POST /api/change-password", authHandler.ChangePassword)

	// Document routes
	mux.HandleFunc("POST /api/documents", docHandler.Create)
	mux.HandleFunc("POST /api/documents/bulk", docHandler.BulkCreate) // Must come before {id} route
	mux.HandleFunc("GET /api/documents", docHandler.List)
	mux.HandleFunc("GET /api/documents/{id}", docHandler.Get)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.Delete)
	mux.HandleFunc("POST /api/documents/{id}/versions", docHandler.AddVersion)
	mux.HandleFunc("PUT /api/documents/{id}/version", docHandler.SetCurrentVersion)
	mux.HandleFunc("PUT /api/documents/{id}/availability", docHandler.SetAvailability)
	mux.HandleFunc("GET /api/documents/{id}/download", docHandler.Download)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.Create)
	mux.HandleFunc("GET /api/folders", folderHandler.List)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.Get)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.Delete)

	// Tree endpoint
	mux.HandleFunc("GET /api/tree", treeHandler.Get)

	// Public capability-URL routes (no auth)
	mux.HandleFunc("GET /api/public/{token}", publicHandler.Download)
	mux.HandleFunc("GET /api/public/{token}/check-update", publicHandler.CheckUpdate)

	// Account management
	mux.HandleFunc("GET /api/users/me", userHandler.Me)
	mux.HandleFunc("GET /api/users", userHandler.List)
	mux.HandleFunc("POST /api/users", userHandler.Create)
	mux.HandleFunc("PATCH /api/users/{id}", userHandler.Update)
	mux.HandleFunc("DELETE /api/users/{id}", userHandler.Delete)

	// Public configuration
	mux.HandleFunc("GET /api/config", configHandler.Get)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS -> Recovery -> Metrics -> Auth -> Routes
	var root http.Handler = mux
	root = middleware.Auth(authService)(root)
	root = middleware.Metrics(mux)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match"},
		ExposedHeaders:   []string{"ETag", "Content-Disposition"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  5 * time.Minute, // large uploads on slow links
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown: finish in-flight requests, then stop the sweeper
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	sweeper.Stop()
	logger.Info("stopped")
}
