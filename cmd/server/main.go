package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"arbor/internal/catalog"
	"arbor/internal/config"
	chatRepo "arbor/internal/domain/repositories/chat"
	"arbor/internal/handler"
	"arbor/internal/metrics"
	"arbor/internal/middleware"
	"arbor/internal/repository/postgres"
	postgresChat "arbor/internal/repository/postgres/chat"
	"arbor/internal/repository/sqlite"
	serviceChat "arbor/internal/service/chat"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
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
		"database_driver", cfg.DatabaseDriver,
	)

	ctx := context.Background()

	// Create repositories over the configured store
	messageRepo, promptRepo, closeStore, err := setupStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to set up store: %v", err)
	}
	defer closeStore()

	// Model catalog + providers
	modelCatalog, err := catalog.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load model catalog: %v", err)
	}

	providerRegistry, err := serviceChat.SetupProviders(ctx, cfg, modelCatalog, logger)
	if err != nil {
		log.Fatalf("Failed to setup providers: %v", err)
	}

	// Metrics
	m := metrics.New(prometheus.DefaultRegisterer)

	// Session orchestrator - one per active conversation session; this
	// service hosts a single conversation, matching the storage layout.
	session := serviceChat.NewSession(messageRepo, promptRepo, providerRegistry, cfg, m, logger)

	// Handlers
	chatHandler := handler.NewChatHandler(session, logger)
	generateHandler := handler.NewGenerateHandler(providerRegistry, cfg, logger)
	modelsHandler := handler.NewModelsHandler(modelCatalog, cfg, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", chatHandler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Conversation routes
	mux.HandleFunc("GET /api/messages", chatHandler.ListMessages)
	mux.HandleFunc("POST /api/messages", chatHandler.SubmitMessage)
	mux.HandleFunc("GET /api/messages/{id}/followups", chatHandler.GetFollowUps)
	mux.HandleFunc("GET /api/messages/{id}/versions", chatHandler.GetVersionHistory)

	// Completion relay + catalog
	mux.HandleFunc("POST /api/generate", generateHandler.Generate)
	mux.HandleFunc("GET /api/models", modelsHandler.ListModels)

	// Build middleware chain; applied in reverse order (they wrap each other)
	var h http.Handler = mux
	h = middleware.RequestLogging(logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ProviderTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupStore wires the repositories for the configured database driver.
// Postgres is the hosted path; sqlite keeps local development dependency-free.
func setupStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (chatRepo.MessageRepository, chatRepo.PromptRepository, func(), error) {
	switch cfg.DatabaseDriver {
	case "sqlite":
		store, err := sqlite.Open(cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return sqlite.NewMessageRepository(store), sqlite.NewPromptRepository(store), func() { store.Close() }, nil

	default:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.SetupSchema(ctx, pool, tables); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}

		logger.Info("database connected", "table_prefix", cfg.TablePrefix)

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		return postgresChat.NewMessageRepository(repoConfig), postgresChat.NewPromptRepository(repoConfig), pool.Close, nil
	}
}
