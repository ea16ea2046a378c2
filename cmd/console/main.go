package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/dialogue-engine/internal/config"
	"github.com/jwebster45206/dialogue-engine/internal/logger"
	"github.com/jwebster45206/dialogue-engine/internal/services/events"
	internalstorage "github.com/jwebster45206/dialogue-engine/internal/storage"
	"github.com/jwebster45206/dialogue-engine/pkg/dialogue"
	"github.com/jwebster45206/dialogue-engine/pkg/storage"
)

const logFile = "dialogue-console.log"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = f.Close() // Ignore error in defer
	}()
	log := logger.SetupTo(cfg, f)

	store, broadcaster, err := openStorage(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing storage", "error", err)
		}
	}()

	var listener dialogue.Listener = dialogue.NopListener{}
	if broadcaster != nil {
		defer broadcaster.Close()
		listener = broadcaster
	}

	log.Info("Starting dialogue console",
		"environment", cfg.Environment,
		"mode", cfg.DialogueType,
		"data_dir", cfg.DataDir,
		"redis", cfg.RedisURL != "")

	p := tea.NewProgram(NewConsoleUI(cfg, store, listener, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// openStorage returns Redis-backed storage and a lifecycle broadcaster when
// REDIS_URL is set, and plain file storage with no broadcaster otherwise.
func openStorage(cfg *config.Config, log *slog.Logger) (storage.Storage, *events.Broadcaster, error) {
	if cfg.RedisURL == "" {
		return internalstorage.NewFileStorage(cfg.DataDir, log), nil, nil
	}

	rs, err := internalstorage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, cfg.TranscriptTTL, log)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rs.WaitForConnection(ctx, 5, time.Second); err != nil {
		_ = rs.Close()
		return nil, nil, err
	}
	return rs, events.NewBroadcaster(rs.Client(), log), nil
}
