package cliconfig

import (
	"os"
	"strings"
)

// Environment variable names
const (
	EnvLogLevel     = "MOCKTRANSPORT_LOG_LEVEL"
	EnvLogFormat    = "MOCKTRANSPORT_LOG_FORMAT"
	EnvLogFile      = "MOCKTRANSPORT_LOG_FILE"
	EnvJSON         = "MOCKTRANSPORT_JSON"
	EnvStrictSchema = "MOCKTRANSPORT_STRICT_SCHEMA"
	EnvBaseURL      = "MOCKTRANSPORT_BASE_URL"
	EnvConfig       = "MOCKTRANSPORT_CONFIG"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment.
func LoadEnvConfig(cfg *CLIConfig) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		cfg.Sources["logLevel"] = SourceEnv
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		cfg.Sources["logFormat"] = SourceEnv
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
		cfg.Sources["logFile"] = SourceEnv
	}
	if v := os.Getenv(EnvJSON); v != "" {
		cfg.JSON = parseBool(v)
		cfg.Sources["json"] = SourceEnv
	}
	if v := os.Getenv(EnvStrictSchema); v != "" {
		cfg.StrictSchema = parseBool(v)
		cfg.Sources["strictSchema"] = SourceEnv
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
		cfg.Sources["baseUrl"] = SourceEnv
	}
	if v := os.Getenv(EnvConfig); v != "" {
		cfg.ConfigFile = v
		cfg.Sources["configFile"] = SourceEnv
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
