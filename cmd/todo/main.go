package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"

	"todoclient/internal/config"
	"todoclient/internal/logging"
	"todoclient/internal/storage"
	"todoclient/internal/todoapi"
	"todoclient/internal/todolist"
	"todoclient/internal/ui"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	configPath := fs.String("config", config.ResolveConfigPath(), "path to the config file")
	logLevel := fs.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	history := fs.Int("history", 0, "print the last N journal entries and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	store, err := storage.Open(cfg.JournalPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer store.Close()

	if *history > 0 {
		return printHistory(ctx, stdout, store, *history)
	}

	logger, closer, err := logging.OpenFile(cfg.Log.File, logging.Options{
		Level:           level,
		Formatter:       logging.ParseFormatter(cfg.Log.Format),
		ReportTimestamp: true,
		Prefix:          config.AppName,
	})
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer closer.Close()

	return runUI(ctx, cfg, store, logger)
}

func runUI(ctx context.Context, cfg config.Config, store *storage.Store, logger *log.Logger) error {
	boot := todoapi.New(cfg.BootstrapEndpoint(),
		todoapi.WithTimeout(cfg.Timeout()),
		todoapi.WithLogger(logger.WithPrefix("bootstrap")))
	api := todoapi.New(cfg.API.Endpoint,
		todoapi.WithTimeout(cfg.Timeout()),
		todoapi.WithLogger(logger.WithPrefix("api")))

	ctrl := todolist.New(api, nil,
		todolist.WithLogger(logger),
		todolist.WithRecorder(store))
	defer ctrl.Close()

	logger.Info("starting", "endpoint", api.BaseURL(), "bootstrap", boot.BaseURL())
	err := ui.Run(ctx, ui.Deps{
		Controller: ctrl,
		Bootstrap:  boot,
		Keys:       cfg.Keys,
		Logger:     logger,
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		logger.Info("interrupted")
		return nil
	}
	return err
}

func printHistory(ctx context.Context, w io.Writer, store *storage.Store, limit int) error {
	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No journal entries yet.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TIME", "OP", "TODO", "TASK", "RESULT")
	for _, e := range entries {
		result := "ok"
		if !e.OK {
			result = "failed: " + e.Error
		}
		t.Row(e.At.Local().Format("2006-01-02 15:04:05"), e.Op, e.TodoID.String(), e.Task, result)
	}
	_, err = fmt.Fprintln(w, t.Render())
	return err
}
