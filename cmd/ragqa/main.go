package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"ragqa/internal/client"
	"ragqa/internal/config"
	"ragqa/internal/controller"
	"ragqa/internal/logging"
	"ragqa/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, baseURL string
	pflag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragqa/config.yaml if not provided)")
	pflag.StringVar(&baseURL, "api-base-url", "", "Base URL of the upload/query API (overrides config and "+config.BaseURLEnv+")")
	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ragqa [--config=config.yaml] [--api-base-url=URL] [document.pdf]")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if pflag.NArg() > 1 {
		pflag.Usage()
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(client.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSecs) * time.Second,
		Logger:  logger.With("comp", "client"),
	})
	defer api.Close()

	ctrl := controller.New(ctx, api, api, logger.With("comp", "controller"))
	m := tui.New(ctx, ctrl, api, tui.Options{
		AllowedTypes: cfg.Picker.AllowedTypes,
		StartDir:     cfg.Picker.StartDir,
		Preselect:    pflag.Arg(0),
		BaseURL:      api.BaseURL(),
	})

	logger.Info("starting ragqa", "api_base_url", api.BaseURL())
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && ctx.Err() == nil {
		logger.Error("program error", "error", err)
		// the standard logger points at the log file now
		fmt.Fprintln(os.Stderr, "ragqa:", err)
		os.Exit(1)
	}
}
