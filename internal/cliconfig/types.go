package cliconfig

import (
	"fmt"
	"net/url"
	"strings"
)

// CLIConfig is the complete configuration of the mocktransport CLI.
type CLIConfig struct {
	// Logging settings
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`
	LogFile   string `json:"logFile,omitempty"`

	// Output settings
	JSON bool `json:"json"`

	// StrictSchema validates expectation files against the JSON schema
	// before decoding them.
	StrictSchema bool `json:"strictSchema"`

	// BaseURL resolves relative request urls.
	BaseURL string `json:"baseUrl"`

	// ConfigFile is an explicit config file to load instead of the local one.
	ConfigFile string `json:"configFile,omitempty"`

	// Sources tracks where each value came from.
	Sources map[string]string `json:"-"`

	// SetFields records the keys present in a loaded config file, so an
	// explicit false can be told apart from an absent boolean.
	SetFields map[string]bool `json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFlag    = "flag"
)

// Default values.
const (
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
	DefaultStrictSchema = true
	DefaultBaseURL      = "http://localhost"
)

// Fields lists the config keys in display order.
var Fields = []string{"logLevel", "logFormat", "logFile", "json", "strictSchema", "baseUrl", "configFile"}

// NewDefault creates a CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		StrictSchema: DefaultStrictSchema,
		BaseURL:      DefaultBaseURL,
		Sources:      make(map[string]string),
	}
	for _, key := range []string{"logLevel", "logFormat", "json", "strictSchema", "baseUrl"} {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}

// Value returns the display value of a config key.
func (c *CLIConfig) Value(key string) string {
	switch key {
	case "logLevel":
		return c.LogLevel
	case "logFormat":
		return c.LogFormat
	case "logFile":
		return c.LogFile
	case "json":
		return fmt.Sprint(c.JSON)
	case "strictSchema":
		return fmt.Sprint(c.StrictSchema)
	case "baseUrl":
		return c.BaseURL
	case "configFile":
		return c.ConfigFile
	}
	return ""
}

// Validate checks the configuration for invalid values.
func (c *CLIConfig) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logLevel %q is not one of debug, info, warn, error", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("baseUrl %q must be an absolute http or https url", c.BaseURL)
	}
	return nil
}
