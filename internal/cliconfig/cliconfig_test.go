package cliconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the global config lookup at an empty directory and clears
// the MOCKTRANSPORT_* environment.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, name := range []string{EnvLogLevel, EnvLogFormat, EnvLogFile, EnvJSON, EnvStrictSchema, EnvBaseURL, EnvConfig} {
		t.Setenv(name, "")
	}
	return t.TempDir()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	if cfg.LogLevel != DefaultLogLevel || cfg.LogFormat != DefaultLogFormat {
		t.Errorf("logging defaults = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if !cfg.StrictSchema {
		t.Error("StrictSchema should default to true")
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Sources["baseUrl"] != SourceDefault {
		t.Errorf("Sources[baseUrl] = %q, want %q", cfg.Sources["baseUrl"], SourceDefault)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestCLIConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CLIConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*CLIConfig) {}},
		{name: "upper case level", mutate: func(c *CLIConfig) { c.LogLevel = "DEBUG" }},
		{name: "https base url", mutate: func(c *CLIConfig) { c.BaseURL = "https://api.example.com:8443" }},
		{name: "bad level", mutate: func(c *CLIConfig) { c.LogLevel = "loud" }, wantErr: `logLevel "loud"`},
		{name: "bad format", mutate: func(c *CLIConfig) { c.LogFormat = "xml" }, wantErr: `logFormat "xml"`},
		{name: "relative base url", mutate: func(c *CLIConfig) { c.BaseURL = "/api" }, wantErr: `baseUrl "/api"`},
		{name: "ftp base url", mutate: func(c *CLIConfig) { c.BaseURL = "ftp://example.com" }, wantErr: "absolute http or https"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMergeConfig_ExplicitFalse(t *testing.T) {
	target := NewDefault()
	MergeConfig(target, &CLIConfig{StrictSchema: false, SetFields: map[string]bool{"strictSchema": true}}, SourceLocal)

	if target.StrictSchema {
		t.Error("explicit false from a file should override the default")
	}
	if target.Sources["strictSchema"] != SourceLocal {
		t.Errorf("Sources[strictSchema] = %q, want %q", target.Sources["strictSchema"], SourceLocal)
	}

	MergeConfig(target, &CLIConfig{}, SourceFlag)
	if target.Sources["strictSchema"] != SourceLocal {
		t.Error("a programmatic config without SetFields should not merge false booleans")
	}
}

func TestLoadConfigFile_SyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), LocalConfigFileName)
	writeFile(t, path, "{\n  \"logLevel\": \"debug\",\n  oops\n}")

	_, err := LoadConfigFile(path)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if cfgErr.Line != 3 {
		t.Errorf("Line = %d, want 3", cfgErr.Line)
	}
	if !strings.Contains(err.Error(), "(line 3, column") {
		t.Errorf("error should carry the location: %v", err)
	}
}

func TestLoadAll_Precedence(t *testing.T) {
	dir := isolate(t)
	configHome := os.Getenv("XDG_CONFIG_HOME")

	writeFile(t, filepath.Join(configHome, GlobalConfigDir, GlobalConfigFileName),
		`{"logLevel": "info", "logFormat": "json", "baseUrl": "http://global.example.com"}`)
	writeFile(t, filepath.Join(dir, LocalConfigFileName),
		`{"logLevel": "debug", "strictSchema": false}`)
	t.Setenv(EnvBaseURL, "http://env.example.com")

	cfg, err := LoadAll(dir)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	tests := []struct {
		key, value, source string
	}{
		{"logLevel", "debug", SourceLocal},
		{"logFormat", "json", SourceGlobal},
		{"strictSchema", "false", SourceLocal},
		{"baseUrl", "http://env.example.com", SourceEnv},
		{"json", "false", SourceDefault},
		{"configFile", filepath.Join(dir, LocalConfigFileName), SourceLocal},
	}
	for _, tt := range tests {
		if got := cfg.Value(tt.key); got != tt.value {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.value)
		}
		if got := cfg.Sources[tt.key]; got != tt.source {
			t.Errorf("Sources[%s] = %q, want %q", tt.key, got, tt.source)
		}
	}
}

func TestLoadAll_ExplicitConfigFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, LocalConfigFileName), `{"logLevel": "debug"}`)
	explicit := filepath.Join(t.TempDir(), "ci.json")
	writeFile(t, explicit, `{"json": true}`)
	t.Setenv(EnvConfig, explicit)

	cfg, err := LoadAll(dir)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("local file should be ignored, LogLevel = %q", cfg.LogLevel)
	}
	if !cfg.JSON {
		t.Error("JSON should come from the explicit file")
	}
	if cfg.ConfigFile != explicit || cfg.Sources["configFile"] != SourceEnv {
		t.Errorf("configFile = %q from %q", cfg.ConfigFile, cfg.Sources["configFile"])
	}
}

func TestLoadAll_BrokenLocalConfig(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, LocalConfigFileName), `{"logLevel": 3}`)

	if _, err := LoadAll(dir); err == nil {
		t.Fatal("expected an error for a mistyped field")
	}
}

func TestLoadEnvConfig(t *testing.T) {
	isolate(t)
	t.Setenv(EnvJSON, "yes")
	t.Setenv(EnvStrictSchema, "0")
	t.Setenv(EnvLogFile, "/tmp/mt.log")

	cfg := NewDefault()
	LoadEnvConfig(cfg)

	if !cfg.JSON || cfg.StrictSchema {
		t.Errorf("JSON=%v StrictSchema=%v", cfg.JSON, cfg.StrictSchema)
	}
	if cfg.LogFile != "/tmp/mt.log" || cfg.Sources["logFile"] != SourceEnv {
		t.Errorf("logFile = %q from %q", cfg.LogFile, cfg.Sources["logFile"])
	}
}
