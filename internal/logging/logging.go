package logging

import (
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"ragqa/internal/config"
)

// New returns a JSON logger writing to cfg.File. An empty file discards logs.
// The returned close function must be called on exit.
func New(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.TrimSpace(cfg.File) == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, opts)), func() error { return nil }, nil
	}
	// LogToFile also points the standard logger at the file, so stray log calls
	// cannot corrupt the terminal UI.
	f, err := tea.LogToFile(cfg.File, "ragqa")
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewJSONHandler(f, opts)), f.Close, nil
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
