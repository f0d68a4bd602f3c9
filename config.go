package gridplan

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/gridplan/planner"
)

// Config holds all configuration for a gridplan server.
type Config struct {
	Name string `yaml:"name"` // Page title (default "Grid Planner")
	Addr string `yaml:"addr"` // Listen address (default ":3000")

	SessionSecret string `yaml:"session_secret"` // Cookie signing secret (random per process if empty)
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS

	MaxUploadSize    int64         `yaml:"max_upload_size"`    // Per-file limit in bytes (default 10MB)
	UploadsPerMinute int           `yaml:"uploads_per_minute"` // Per-IP upload requests (default 60)
	WorkspaceTTL     time.Duration `yaml:"workspace_ttl"`      // Idle time before a plan is dropped (default 2h)
	DecodeWorkers    int           `yaml:"decode_workers"`     // Concurrent decodes per upload (default 4)

	Log LogConfig `yaml:"log"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error (default info)
	Format string `yaml:"format"` // console|json (default console)
	File   string `yaml:"file"`   // optional rotated log file
}

// Environment overrides, applied on top of the config file.
const (
	EnvConfigFile       = "GRIDPLAN_CONFIG"
	EnvName             = "GRIDPLAN_NAME"
	EnvAddr             = "GRIDPLAN_ADDR"
	EnvSessionSecret    = "GRIDPLAN_SESSION_SECRET"
	EnvCookieSecure     = "GRIDPLAN_COOKIE_SECURE"
	EnvMaxUploadSize    = "GRIDPLAN_MAX_UPLOAD_SIZE"
	EnvUploadsPerMinute = "GRIDPLAN_UPLOADS_PER_MINUTE"
	EnvWorkspaceTTL     = "GRIDPLAN_WORKSPACE_TTL"
	EnvDecodeWorkers    = "GRIDPLAN_DECODE_WORKERS"
	EnvLogLevel         = "GRIDPLAN_LOG_LEVEL"
	EnvLogFormat        = "GRIDPLAN_LOG_FORMAT"
	EnvLogFile          = "GRIDPLAN_LOG_FILE"
)

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Grid Planner"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.MaxUploadSize <= 0 {
		c.MaxUploadSize = 10 << 20
	}
	if c.UploadsPerMinute <= 0 {
		c.UploadsPerMinute = 60
	}
	if c.WorkspaceTTL <= 0 {
		c.WorkspaceTTL = 2 * time.Hour
	}
	if c.DecodeWorkers <= 0 {
		c.DecodeWorkers = planner.DefaultDecodeWorkers
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// LoadConfig reads path (if non-empty and present) and applies environment
// overrides. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Name = EnvOr(EnvName, c.Name)
	c.Addr = EnvOr(EnvAddr, c.Addr)
	c.SessionSecret = EnvOr(EnvSessionSecret, c.SessionSecret)
	if v := os.Getenv(EnvCookieSecure); v != "" {
		c.CookieSecure = strings.EqualFold(v, "true")
	}
	if v := os.Getenv(EnvMaxUploadSize); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxUploadSize, err)
		}
		c.MaxUploadSize = n
	}
	if v := os.Getenv(EnvUploadsPerMinute); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvUploadsPerMinute, err)
		}
		c.UploadsPerMinute = n
	}
	if v := os.Getenv(EnvWorkspaceTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkspaceTTL, err)
		}
		c.WorkspaceTTL = d
	}
	if v := os.Getenv(EnvDecodeWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDecodeWorkers, err)
		}
		c.DecodeWorkers = n
	}
	c.Log.Level = EnvOr(EnvLogLevel, c.Log.Level)
	c.Log.Format = EnvOr(EnvLogFormat, c.Log.Format)
	c.Log.File = EnvOr(EnvLogFile, c.Log.File)
	return nil
}

// randomSecret is used when no session secret is configured. Sessions then
// do not survive a restart, which matches the in-memory plans they point to.
func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithDecoder replaces the image decoder used for uploads.
func WithDecoder(d planner.Decoder) Option {
	return func(a *App) {
		a.decoder = d
	}
}

// WithViews replaces the page components.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}
