package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location, relative to the working
// directory. A missing file is not an error; env vars alone can configure
// the server.
const ConfigPath = "config.yaml"

const (
	defaultPort       = 3000
	defaultUploadDir  = "uploads"
	defaultSessionTTL = time.Hour
	defaultLogLevel   = "info"
)

// Config holds the fully resolved runtime configuration.
type Config struct {
	Port           int
	DatabaseURL    string
	UploadDir      string
	JWTSecret      string
	SessionTTL     time.Duration
	LogLevel       string
	MaxUploadBytes int64
}

type fileConfig struct {
	Port           int    `yaml:"port"`
	DatabaseURL    string `yaml:"database_url"`
	UploadDir      string `yaml:"upload_dir"`
	JWTSecret      string `yaml:"jwt_secret"`
	SessionTTL     string `yaml:"session_ttl"`
	LogLevel       string `yaml:"log_level"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// Load reads the YAML file at path (if it exists), overlays environment
// variables on top, applies defaults and validates the result.
func Load(path string) (Config, error) {
	var fc fileConfig
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// fall through to env-only config
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := Config{
		Port:           fc.Port,
		DatabaseURL:    fc.DatabaseURL,
		UploadDir:      fc.UploadDir,
		JWTSecret:      fc.JWTSecret,
		LogLevel:       fc.LogLevel,
		MaxUploadBytes: fc.MaxUploadBytes,
	}
	if fc.SessionTTL != "" {
		ttl, err := time.ParseDuration(fc.SessionTTL)
		if err != nil {
			return Config{}, fmt.Errorf("parse session_ttl: %w", err)
		}
		cfg.SessionTTL = ttl
	}

	if err := overlayEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlayEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("SERVER_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse SERVER_PORT: %w", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("SESSION_TTL")); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = ttl
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = defaultUploadDir
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("database_url is required (set DATABASE_URL)")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required (set JWT_SECRET)")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session_ttl must be positive")
	}
	return nil
}
