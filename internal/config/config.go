package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// BaseURLEnv overrides APIConfig.BaseURL when set.
const BaseURLEnv = "RAGQA_API_BASE_URL"

// APIConfig locates the indexing and question-answering endpoints.
// An empty BaseURL selects the client default.
type APIConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// PickerConfig restricts what the file picker offers.
type PickerConfig struct {
	AllowedTypes []string `yaml:"allowed_types"`
	StartDir     string   `yaml:"start_dir"`
}

// LogConfig configures the log file. The terminal belongs to the UI, so logs never go to stdout.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	API    APIConfig    `yaml:"api"`
	Picker PickerConfig `yaml:"picker"`
	Log    LogConfig    `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ragqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/ragqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ragqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		API:    APIConfig{BaseURL: ""},
		Picker: PickerConfig{AllowedTypes: []string{".pdf"}, StartDir: "."},
		Log:    LogConfig{File: "ragqa.log", Level: "info"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if len(cfg.Picker.AllowedTypes) == 0 {
		cfg.Picker.AllowedTypes = []string{".pdf"}
	}
	for i, t := range cfg.Picker.AllowedTypes {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !strings.HasPrefix(t, ".") {
			t = "." + t
		}
		cfg.Picker.AllowedTypes[i] = t
	}
	if cfg.Picker.StartDir == "" {
		cfg.Picker.StartDir = "."
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.API.TimeoutSecs < 0 {
		cfg.API.TimeoutSecs = 0
	}
}

func applyEnv(cfg *AppConfig) {
	if v, ok := os.LookupEnv(BaseURLEnv); ok {
		cfg.API.BaseURL = strings.TrimSpace(v)
	}
}
