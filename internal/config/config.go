package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/fulviofreitas/eero-exporter/internal/misc"
)

const (
	defaultAddress      = ":9118"
	defaultInterval     = 60 * time.Second
	defaultTimeout      = 30 * time.Second
	defaultRateLimitMax = 15 * time.Minute
	defaultAPIBase      = "https://api-user.e2ro.com"
	defaultLogLevel     = "info"

	envPrefix = "EERO_EXPORTER_"
)

// Config is the merged runtime configuration shared by every subcommand.
type Config struct {
	Address           string
	APIBase           string
	SessionFile       string
	AuditFile         string
	AuditURL          string
	AuditKey          string
	LogLevel          string
	Interval          time.Duration
	Timeout           time.Duration
	RateLimitMax      time.Duration
	IncludeDevices    bool
	IncludeProfiles   bool
	IncludeActivity   bool
	IncludeBackup     bool
	RateLimitCompound bool
}

// Level parses LogLevel. Load validates the string, so a parse failure only
// happens on a zero Config and falls back to info.
func (c Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// DefaultSessionPath is <user config dir>/eero-exporter/session.json. When
// the config dir cannot be resolved the path is relative to the working
// directory.
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "eero-exporter", "session.json")
}

func defaults() Config {
	return Config{
		Address:         defaultAddress,
		APIBase:         defaultAPIBase,
		SessionFile:     DefaultSessionPath(),
		LogLevel:        defaultLogLevel,
		Interval:        defaultInterval,
		Timeout:         defaultTimeout,
		RateLimitMax:    defaultRateLimitMax,
		IncludeDevices:  true,
		IncludeProfiles: true,
	}
}

// Load merges, in increasing precedence: defaults, the optional YAML config
// file (-config flag or EERO_EXPORTER_CONFIG), EERO_EXPORTER_* environment
// variables, command-line flags.
func Load(args []string, out io.Writer) (Config, error) {
	if out == nil {
		out = io.Discard
	}

	def := defaults()

	fs := flag.NewFlagSet("eero-exporter", flag.ContinueOnError)
	fs.SetOutput(out)

	address := fs.String("address", def.Address, "HTTP listen address")
	interval := fs.Duration("interval", def.Interval, "collection interval")
	timeout := fs.Duration("timeout", def.Timeout, "upstream request timeout")
	includeDevices := fs.Bool("include-devices", def.IncludeDevices, "export per-device metrics")
	includeProfiles := fs.Bool("include-profiles", def.IncludeProfiles, "export per-profile metrics")
	includeActivity := fs.Bool("include-activity", def.IncludeActivity, "export activity metrics (eero Plus)")
	includeBackup := fs.Bool("include-backup", def.IncludeBackup, "export backup internet metrics")
	rateLimitMax := fs.Duration("ratelimit-max", def.RateLimitMax, "upper bound for rate-limit backoff")
	rateLimitCompound := fs.Bool("ratelimit-compound", def.RateLimitCompound, "double the backoff on consecutive throttling")
	apiBase := fs.String("api-base", def.APIBase, "eero API base URL")
	sessionFile := fs.String("session-file", def.SessionFile, "session file path")
	auditFile := fs.String("audit-file", "", "append cycle audit events to this NDJSON file")
	auditURL := fs.String("audit-url", "", "POST cycle audit events to this URL")
	auditKey := fs.String("audit-key", "", "sign audit webhook bodies with this HMAC-SHA256 key")
	logLevel := fs.String("log-level", def.LogLevel, "log level (debug, info, warn, error)")
	configFile := fs.String("config", "", "YAML config file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := def

	path := strings.TrimSpace(*configFile)
	if path == "" {
		path = misc.Getenv(envPrefix+"CONFIG", "")
	}
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "address":
			cfg.Address = *address
		case "interval":
			cfg.Interval = *interval
		case "timeout":
			cfg.Timeout = *timeout
		case "include-devices":
			cfg.IncludeDevices = *includeDevices
		case "include-profiles":
			cfg.IncludeProfiles = *includeProfiles
		case "include-activity":
			cfg.IncludeActivity = *includeActivity
		case "include-backup":
			cfg.IncludeBackup = *includeBackup
		case "ratelimit-max":
			cfg.RateLimitMax = *rateLimitMax
		case "ratelimit-compound":
			cfg.RateLimitCompound = *rateLimitCompound
		case "api-base":
			cfg.APIBase = *apiBase
		case "session-file":
			cfg.SessionFile = *sessionFile
		case "audit-file":
			cfg.AuditFile = *auditFile
		case "audit-url":
			cfg.AuditURL = *auditURL
		case "audit-key":
			cfg.AuditKey = *auditKey
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	cfg.Address = normalizeListenAndServeURL(cfg.Address)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Address = misc.Getenv(envPrefix+"ADDRESS", cfg.Address)
	cfg.Interval = misc.GetDuration(envPrefix+"INTERVAL", cfg.Interval)
	cfg.Timeout = misc.GetDuration(envPrefix+"TIMEOUT", cfg.Timeout)
	cfg.IncludeDevices = misc.GetBool(envPrefix+"INCLUDE_DEVICES", cfg.IncludeDevices)
	cfg.IncludeProfiles = misc.GetBool(envPrefix+"INCLUDE_PROFILES", cfg.IncludeProfiles)
	cfg.IncludeActivity = misc.GetBool(envPrefix+"INCLUDE_ACTIVITY", cfg.IncludeActivity)
	cfg.IncludeBackup = misc.GetBool(envPrefix+"INCLUDE_BACKUP", cfg.IncludeBackup)
	cfg.RateLimitMax = misc.GetDuration(envPrefix+"RATELIMIT_MAX", cfg.RateLimitMax)
	cfg.RateLimitCompound = misc.GetBool(envPrefix+"RATELIMIT_COMPOUND", cfg.RateLimitCompound)
	cfg.APIBase = misc.Getenv(envPrefix+"API_BASE", cfg.APIBase)
	cfg.SessionFile = misc.Getenv(envPrefix+"SESSION_FILE", cfg.SessionFile)
	cfg.AuditFile = misc.Getenv(envPrefix+"AUDIT_FILE", cfg.AuditFile)
	cfg.AuditURL = misc.Getenv(envPrefix+"AUDIT_URL", cfg.AuditURL)
	cfg.AuditKey = misc.Getenv(envPrefix+"AUDIT_KEY", cfg.AuditKey)
	cfg.LogLevel = misc.Getenv(envPrefix+"LOG_LEVEL", cfg.LogLevel)
}

// fileConfig mirrors Config with optional fields so absent YAML keys leave
// the lower-precedence value alone. Durations accept Go syntax or bare
// seconds.
type fileConfig struct {
	Address           *string `yaml:"address"`
	Interval          *string `yaml:"interval"`
	Timeout           *string `yaml:"timeout"`
	IncludeDevices    *bool   `yaml:"include_devices"`
	IncludeProfiles   *bool   `yaml:"include_profiles"`
	IncludeActivity   *bool   `yaml:"include_activity"`
	IncludeBackup     *bool   `yaml:"include_backup"`
	RateLimitMax      *string `yaml:"ratelimit_max"`
	RateLimitCompound *bool   `yaml:"ratelimit_compound"`
	APIBase           *string `yaml:"api_base"`
	SessionFile       *string `yaml:"session_file"`
	AuditFile         *string `yaml:"audit_file"`
	AuditURL          *string `yaml:"audit_url"`
	AuditKey          *string `yaml:"audit_key"`
	LogLevel          *string `yaml:"log_level"`
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	if fc.Address != nil {
		cfg.Address = *fc.Address
	}
	if fc.Interval != nil {
		d, err := parseDuration(*fc.Interval)
		if err != nil {
			return fmt.Errorf("config file %s: interval: %w", path, err)
		}
		cfg.Interval = d
	}
	if fc.Timeout != nil {
		d, err := parseDuration(*fc.Timeout)
		if err != nil {
			return fmt.Errorf("config file %s: timeout: %w", path, err)
		}
		cfg.Timeout = d
	}
	if fc.IncludeDevices != nil {
		cfg.IncludeDevices = *fc.IncludeDevices
	}
	if fc.IncludeProfiles != nil {
		cfg.IncludeProfiles = *fc.IncludeProfiles
	}
	if fc.IncludeActivity != nil {
		cfg.IncludeActivity = *fc.IncludeActivity
	}
	if fc.IncludeBackup != nil {
		cfg.IncludeBackup = *fc.IncludeBackup
	}
	if fc.RateLimitMax != nil {
		d, err := parseDuration(*fc.RateLimitMax)
		if err != nil {
			return fmt.Errorf("config file %s: ratelimit_max: %w", path, err)
		}
		cfg.RateLimitMax = d
	}
	if fc.RateLimitCompound != nil {
		cfg.RateLimitCompound = *fc.RateLimitCompound
	}
	if fc.APIBase != nil {
		cfg.APIBase = *fc.APIBase
	}
	if fc.SessionFile != nil {
		cfg.SessionFile = *fc.SessionFile
	}
	if fc.AuditFile != nil {
		cfg.AuditFile = *fc.AuditFile
	}
	if fc.AuditURL != nil {
		cfg.AuditURL = *fc.AuditURL
	}
	if fc.AuditKey != nil {
		cfg.AuditKey = *fc.AuditKey
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

func (c *Config) validate() error {
	if _, port, err := net.SplitHostPort(c.Address); err != nil || port == "" {
		return fmt.Errorf("invalid listen address: %q", c.Address)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.RateLimitMax < c.Interval {
		return fmt.Errorf("ratelimit-max %v is below the collection interval %v", c.RateLimitMax, c.Interval)
	}
	if strings.TrimSpace(c.APIBase) == "" {
		return errors.New("api-base must not be empty")
	}
	if strings.TrimSpace(c.SessionFile) == "" {
		return errors.New("session-file must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

func normalizeListenAndServeURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultAddress
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		if u, err := url.Parse(s); err == nil && u.Host != "" {
			return u.Host
		}
	}
	if !strings.Contains(s, ":") {
		return ":" + s
	}
	return s
}
