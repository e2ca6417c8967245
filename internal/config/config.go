package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings of the foxnuts terminal client.
type Config struct {
	APIURL         string
	DataDir        string
	LogLevel       string
	RequestTimeout time.Duration
	MetricsAddr    string
}

const (
	defaultConfigPath     = "~/.config/foxnuts/config.toml"
	defaultDataDir        = "~/.local/share/foxnuts"
	defaultAPIURL         = "http://localhost:5000/api"
	defaultLogLevel       = "info"
	defaultRequestTimeout = 10 * time.Second

	// EnvAPIURL overrides api_url when set.
	EnvAPIURL = "FOXNUTS_API_URL"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		DataDir:        mustExpand(defaultDataDir),
		LogLevel:       defaultLogLevel,
		RequestTimeout: defaultRequestTimeout,
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		DataDir        string `toml:"data_dir"`
		LogLevel       string `toml:"log_level"`
		RequestTimeout string `toml:"request_timeout"`
		MetricsAddr    string `toml:"metrics_addr"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse request_timeout %q: %w", v, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("request_timeout must be positive, got %s", d)
		}
		cfg.RequestTimeout = d
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
}

// StorageDir is where the durable cart, wishlist and session records live.
func (c Config) StorageDir() string {
	return filepath.Join(c.dataDir(), "storage")
}

// LogPath returns the client's log file.
func (c Config) LogPath() string {
	return filepath.Join(c.dataDir(), "foxnuts.log")
}

func (c Config) dataDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir)
	}
	return c.DataDir
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
