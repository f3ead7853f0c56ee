package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sk-py/maildraft/internal/app"
	"github.com/sk-py/maildraft/internal/credential"
	"github.com/sk-py/maildraft/internal/gateway"
	"github.com/sk-py/maildraft/internal/model"
	"github.com/sk-py/maildraft/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	dataDir := model.DefaultDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory %s: %w", dataDir, err)
	}

	logger, closeLog, err := newLogger(cfg, dataDir)
	if err != nil {
		return err
	}
	defer closeLog()

	backend, err := newBackend(cfg, dataDir)
	if err != nil {
		return err
	}
	defer backend.Close()

	mailStore := store.New(backend, logger)

	// Missing token is fine: the stock gateway accepts anonymous sends.
	token, err := credential.Token()
	if err != nil {
		logger.Debug("no gateway token in keyring", "err", err)
	}

	gw := gateway.NewClient(
		cfg.Gateway.URL,
		token,
		time.Duration(cfg.Gateway.TimeoutSec)*time.Second,
		logger,
	)

	program := tea.NewProgram(
		app.New(mailStore, gw, cfg, configPath, logger),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	return nil
}

// newLogger opens the diagnostic log file. The TUI owns the terminal,
// so logs never go to stdout.
func newLogger(cfg *model.AppConfig, dataDir string) (*slog.Logger, func(), error) {
	logPath := cfg.LogFile
	if logPath == "" {
		logPath = filepath.Join(dataDir, "maildraft.log")
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		// Logging is best effort.
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	logger := slog.New(slog.NewTextHandler(f, nil))
	return logger, func() { f.Close() }, nil
}

// newBackend constructs the persistence backend named by the config.
func newBackend(cfg *model.AppConfig, dataDir string) (store.Backend, error) {
	switch cfg.Storage.Backend {
	case model.BackendFile:
		path := cfg.Storage.Path
		if path == "" {
			path = filepath.Join(dataDir, "emails.json")
		}
		return store.NewFileBackend(path)

	case model.BackendSQLite, "":
		path := cfg.Storage.Path
		if path == "" {
			path = filepath.Join(dataDir, "maildraft.db")
		}
		return store.NewSQLiteBackend(path)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
