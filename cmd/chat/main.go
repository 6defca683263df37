// Command chat is an interactive terminal client for a conversation session.
// It drives the same orchestrator the HTTP server exposes, so the full
// send/edit/branch flow can be exercised locally without a frontend.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"arbor/internal/catalog"
	"arbor/internal/config"
	chatModels "arbor/internal/domain/models/chat"
	"arbor/internal/metrics"
	"arbor/internal/repository/sqlite"
	serviceChat "arbor/internal/service/chat"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

type cli struct {
	ctx     context.Context
	session *serviceChat.Session
	scanner *bufio.Scanner
	// index -> message id, rebuilt on every transcript render
	indexed []string
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logPath, err := setupLogger()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	fmt.Printf("%sLogging to %s%s\n", colorCyan, logPath, colorReset)

	ctx := context.Background()

	// Local sessions always run on sqlite; the server owns the hosted store.
	store, err := sqlite.Open(cfg.SQLitePath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	modelCatalog, err := catalog.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load model catalog: %v", err)
	}

	providers, err := serviceChat.SetupProviders(ctx, cfg, modelCatalog, logger)
	if err != nil {
		log.Fatalf("Failed to set up providers: %v", err)
	}

	session := serviceChat.NewSession(
		sqlite.NewMessageRepository(store),
		sqlite.NewPromptRepository(store),
		providers,
		cfg,
		metrics.New(prometheus.NewRegistry()),
		logger,
	)

	c := &cli{
		ctx:     ctx,
		session: session,
		scanner: bufio.NewScanner(os.Stdin),
	}
	c.run(cfg.DefaultModel)
}

// setupLogger sends debug logs to a timestamped file so the terminal stays
// readable while the session runs.
func setupLogger() (*slog.Logger, string, error) {
	logsDir := "logs"
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create logs directory: %w", err)
	}

	logPath := filepath.Join(logsDir, fmt.Sprintf("chat_%s.log", time.Now().Format("2006-01-02_15-04-05")))
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return logger, logPath, nil
}

func (c *cli) run(model string) {
	fmt.Printf("%sarbor chat%s (model: %s)\n", colorGreen, colorReset, model)
	fmt.Println("Type a message to send it. Commands: /edit N, /cancel, /followups N, /versions N, /refresh, /quit")

	if _, err := c.session.Refresh(c.ctx); err != nil {
		fmt.Printf("%stranscript load failed: %v%s\n", colorYellow, err, colorReset)
	}
	c.renderTranscript()

	for {
		fmt.Printf("%s> %s", colorBlue, colorReset)
		if !c.scanner.Scan() {
			return
		}
		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := c.handleCommand(line); quit {
				return
			}
			continue
		}

		c.submit(line)
	}
}

func (c *cli) handleCommand(line string) bool {
	fields := strings.Fields(line)
	cmd, arg := fields[0], ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return true

	case "/cancel":
		c.session.CancelEdit()
		fmt.Println("edit cancelled")

	case "/refresh":
		if _, err := c.session.Refresh(c.ctx); err != nil {
			fmt.Printf("%srefresh failed: %v%s\n", colorRed, err, colorReset)
		}
		c.renderTranscript()

	case "/edit":
		id, ok := c.resolveIndex(arg)
		if !ok {
			return false
		}
		msg, err := c.session.BeginEdit(c.ctx, id)
		if err != nil {
			fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
			return false
		}
		fmt.Printf("editing message %s (current content: %q) - next message replaces it\n", shortID(msg.ID), msg.Content)

	case "/followups":
		id, ok := c.resolveIndex(arg)
		if !ok {
			return false
		}
		children, err := c.session.ViewFollowUps(c.ctx, id)
		if err != nil {
			fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
			return false
		}
		if len(children) == 0 {
			fmt.Println("no follow-ups")
			return false
		}
		for _, m := range children {
			fmt.Printf("  [%s] %s: %s\n", shortID(m.ID), m.Role, m.Content)
		}

	case "/versions":
		id, ok := c.resolveIndex(arg)
		if !ok {
			return false
		}
		entries, err := c.session.ViewPreviousVersions(c.ctx, id)
		if err != nil {
			fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
			return false
		}
		if len(entries) == 0 {
			fmt.Println("no history")
			return false
		}
		for _, e := range entries {
			switch e.Kind {
			case chatModels.EntryKindPrompt:
				fmt.Printf("  %s prompt: %s\n", e.CreatedAt.Format("15:04:05"), e.Content)
			default:
				fmt.Printf("  %s v%d: %s\n", e.CreatedAt.Format("15:04:05"), e.Version, e.Content)
			}
		}

	default:
		fmt.Printf("unknown command %s\n", cmd)
	}

	return false
}

func (c *cli) submit(text string) {
	result, err := c.session.Submit(c.ctx, text)
	if err != nil {
		fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
		return
	}

	if result.Edited {
		fmt.Printf("%sedited message %s (now v%d)%s\n", colorYellow, shortID(result.UserMessage.ID), result.UserMessage.Version, colorReset)
	}
	if result.AssistantMessage != nil {
		fmt.Printf("%sassistant:%s %s\n", colorGreen, colorReset, result.AssistantMessage.Content)
	} else {
		fmt.Printf("%sno reply was saved%s\n", colorYellow, colorReset)
	}
}

func (c *cli) renderTranscript() {
	transcript := c.session.Transcript()
	c.indexed = c.indexed[:0]

	if len(transcript) == 0 {
		fmt.Println("(empty conversation)")
		return
	}

	for i, m := range transcript {
		c.indexed = append(c.indexed, m.ID)
		marker := " "
		if m.Version > 1 {
			marker = fmt.Sprintf("v%d", m.Version)
		}
		fmt.Printf("%2d %s %-9s %s\n", i, marker, m.Role+":", m.Content)
	}
}

// resolveIndex maps a transcript index from the last render to a message id
func (c *cli) resolveIndex(arg string) (string, bool) {
	if arg == "" {
		fmt.Println("usage: /edit N (N from the transcript listing; /refresh to list)")
		return "", false
	}

	var idx int
	if _, err := fmt.Sscanf(arg, "%d", &idx); err != nil || idx < 0 || idx >= len(c.indexed) {
		fmt.Printf("%sno message at index %q; /refresh to list%s\n", colorRed, arg, colorReset)
		return "", false
	}
	return c.indexed[idx], true
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
