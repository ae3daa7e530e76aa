package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

var envKeys = []string{
	"EERO_EXPORTER_ADDRESS",
	"EERO_EXPORTER_INTERVAL",
	"EERO_EXPORTER_TIMEOUT",
	"EERO_EXPORTER_INCLUDE_DEVICES",
	"EERO_EXPORTER_INCLUDE_PROFILES",
	"EERO_EXPORTER_INCLUDE_ACTIVITY",
	"EERO_EXPORTER_INCLUDE_BACKUP",
	"EERO_EXPORTER_RATELIMIT_MAX",
	"EERO_EXPORTER_RATELIMIT_COMPOUND",
	"EERO_EXPORTER_API_BASE",
	"EERO_EXPORTER_SESSION_FILE",
	"EERO_EXPORTER_AUDIT_FILE",
	"EERO_EXPORTER_AUDIT_URL",
	"EERO_EXPORTER_AUDIT_KEY",
	"EERO_EXPORTER_LOG_LEVEL",
	"EERO_EXPORTER_CONFIG",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	def := defaults()

	tests := []struct {
		env     map[string]string
		name    string
		wantErr string
		args    []string
		want    Config
	}{
		{
			name: "defaults",
			args: []string{},
			want: def,
		},
		{
			name: "env only",
			args: []string{},
			env: map[string]string{
				"EERO_EXPORTER_ADDRESS":          "0.0.0.0:9200",
				"EERO_EXPORTER_INTERVAL":         "90",
				"EERO_EXPORTER_INCLUDE_DEVICES":  "false",
				"EERO_EXPORTER_INCLUDE_ACTIVITY": "true",
				"EERO_EXPORTER_SESSION_FILE":     "/tmp/sess.json",
				"EERO_EXPORTER_AUDIT_URL":        "https://audit.example.com/hook",
				"EERO_EXPORTER_AUDIT_KEY":        "hunter2",
			},
			want: func() Config {
				c := def
				c.Address = "0.0.0.0:9200"
				c.Interval = 90 * time.Second
				c.IncludeDevices = false
				c.IncludeActivity = true
				c.SessionFile = "/tmp/sess.json"
				c.AuditURL = "https://audit.example.com/hook"
				c.AuditKey = "hunter2"
				return c
			}(),
		},
		{
			name: "flags override env",
			args: []string{
				"-address", "127.0.0.1:9300",
				"-interval", "30s",
				"-include-devices=false",
				"-ratelimit-compound",
				"-audit-file", "/tmp/cycles.ndjson",
				"-audit-key", "flagkey",
				"-log-level", "debug",
			},
			env: map[string]string{
				"EERO_EXPORTER_ADDRESS":    "0.0.0.0:1234",
				"EERO_EXPORTER_INTERVAL":   "90s",
				"EERO_EXPORTER_AUDIT_FILE": "/tmp/env.ndjson",
				"EERO_EXPORTER_AUDIT_KEY":  "envkey",
				"EERO_EXPORTER_LOG_LEVEL":  "error",
			},
			want: func() Config {
				c := def
				c.Address = "127.0.0.1:9300"
				c.Interval = 30 * time.Second
				c.IncludeDevices = false
				c.RateLimitCompound = true
				c.AuditFile = "/tmp/cycles.ndjson"
				c.AuditKey = "flagkey"
				c.LogLevel = "debug"
				return c
			}(),
		},
		{
			name: "address accepts plain port",
			args: []string{"-address", "9200"},
			want: func() Config {
				c := def
				c.Address = ":9200"
				return c
			}(),
		},
		{
			name: "address accepts URL form",
			args: []string{"-address", "http://0.0.0.0:9118"},
			want: func() Config {
				c := def
				c.Address = "0.0.0.0:9118"
				return c
			}(),
		},
		{
			name:    "invalid listen address",
			args:    []string{"-address", "http://example.com"},
			wantErr: "invalid listen address",
		},
		{
			name:    "zero interval rejected",
			args:    []string{"-interval", "0s"},
			wantErr: "interval must be positive",
		},
		{
			name:    "negative timeout rejected",
			args:    []string{"-timeout", "-5s"},
			wantErr: "timeout must be positive",
		},
		{
			name:    "ratelimit cap below interval rejected",
			args:    []string{"-interval", "60s", "-ratelimit-max", "30s"},
			wantErr: "ratelimit-max",
		},
		{
			name:    "unknown log level rejected",
			args:    []string{"-log-level", "noisy"},
			wantErr: "invalid log level",
		},
		{
			name:    "empty session file rejected",
			args:    []string{"-session-file", "  "},
			wantErr: "session-file",
		},
		{
			name:    "unknown flag",
			args:    []string{"-nope"},
			wantErr: "flag provided but not defined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load(tt.args, nil)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("config mismatch:\n got  %+v\n want %+v", got, tt.want)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "exporter.yaml")
	yaml := `
address: "0.0.0.0:9400"
interval: 2m
timeout: "45"
include_profiles: false
ratelimit_max: 20m
log_level: warn
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// Env overrides the file, flags override both.
	t.Setenv("EERO_EXPORTER_TIMEOUT", "50s")

	got, err := Load([]string{"-config", path, "-log-level", "debug"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := defaults()
	want.Address = "0.0.0.0:9400"
	want.Interval = 2 * time.Minute
	want.Timeout = 50 * time.Second
	want.IncludeProfiles = false
	want.RateLimitMax = 20 * time.Minute
	want.LogLevel = "debug"
	if got != want {
		t.Fatalf("config mismatch:\n got  %+v\n want %+v", got, want)
	}
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "exporter.yaml")
	if err := os.WriteFile(path, []byte("address: \"127.0.0.1:9500\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("EERO_EXPORTER_CONFIG", path)

	got, err := Load(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Address != "127.0.0.1:9500" {
		t.Fatalf("Address = %q, want address from the env-named config file", got.Address)
	}
}

func TestLoad_ConfigFileErrors(t *testing.T) {
	clearEnv(t)

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load([]string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}, nil); err == nil {
			t.Fatal("expected error for a missing config file")
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("interval: soon\n"), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		_, err := Load([]string{"-config", path}, nil)
		if err == nil || !strings.Contains(err.Error(), "interval") {
			t.Fatalf("expected interval parse error, got %v", err)
		}
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		if err := os.WriteFile(path, []byte("address: [unterminated\n"), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load([]string{"-config", path}, nil); err == nil {
			t.Fatal("expected error for malformed yaml")
		}
	})
}

func TestNormalizeListenAndServeURL(t *testing.T) {
	cases := map[string]string{
		"":                        ":9118",
		"   ":                     ":9118",
		"9200":                    ":9200",
		" 9090 ":                  ":9090",
		":9118":                   ":9118",
		"0.0.0.0:9090":            "0.0.0.0:9090",
		"http://0.0.0.0:9090":     "0.0.0.0:9090",
		"https://example.com:443": "example.com:443",
		"http://example.com":      "example.com",
		"[::1]:9118":              "[::1]:9118",
	}

	for in, want := range cases {
		if got := normalizeListenAndServeURL(in); got != want {
			t.Errorf("normalizeListenAndServeURL(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestDefaultSessionPath(t *testing.T) {
	got := DefaultSessionPath()
	if !strings.HasSuffix(got, filepath.Join("eero-exporter", "session.json")) {
		t.Fatalf("DefaultSessionPath() = %q", got)
	}
}

func TestConfig_Level(t *testing.T) {
	if lvl := (Config{LogLevel: "warn"}).Level(); lvl != zapcore.WarnLevel {
		t.Fatalf("Level() = %v, want warn", lvl)
	}
	if lvl := (Config{}).Level(); lvl != zapcore.InfoLevel {
		t.Fatalf("zero Config Level() = %v, want info fallback", lvl)
	}
}
