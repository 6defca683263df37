package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"arbor/internal/config"
	chatModels "arbor/internal/domain/models/chat"
	"arbor/internal/repository/postgres"
	postgresChat "arbor/internal/repository/postgres/chat"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop both tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed a demo conversation")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: never drop prod data from the seed tool
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		logger.Info("dropping tables", "prefix", cfg.TablePrefix)
		if err := postgres.DropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	if err := postgres.SetupSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to set up schema: %v", err)
	}
	logger.Info("schema ready", "prefix", cfg.TablePrefix)

	if *schemaOnly {
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	messageRepo := postgresChat.NewMessageRepository(repoConfig)
	promptRepo := postgresChat.NewPromptRepository(repoConfig)

	// Demo conversation: one root exchange plus a follow-up branch
	root := &chatModels.Message{
		Content: "What is a branching conversation?",
		Role:    chatModels.RoleUser,
		Version: 1,
	}
	if err := messageRepo.Create(ctx, root); err != nil {
		log.Fatalf("Failed to seed root message: %v", err)
	}
	if err := promptRepo.Create(ctx, &chatModels.Prompt{MessageID: root.ID, Content: root.Content}); err != nil {
		logger.Warn("seed prompt insert failed", "error", err)
	}

	reply := &chatModels.Message{
		Content:  "A branching conversation lets any message have multiple follow-up replies, forming a tree instead of a single thread.",
		ParentID: &root.ID,
		Role:     chatModels.RoleAssistant,
		Version:  1,
	}
	if err := messageRepo.Create(ctx, reply); err != nil {
		log.Fatalf("Failed to seed assistant reply: %v", err)
	}

	branch := &chatModels.Message{
		Content:  "Each branch keeps its own transcript below the shared ancestor.",
		ParentID: &root.ID,
		Role:     chatModels.RoleAssistant,
		Version:  1,
	}
	if err := messageRepo.Create(ctx, branch); err != nil {
		log.Fatalf("Failed to seed branch reply: %v", err)
	}

	logger.Info("demo conversation seeded",
		"root_id", root.ID,
		"children", 2,
	)
}
