package cliconfig

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// LocalConfigFileName is the name of the local config file
	LocalConfigFileName = ".mocktransportrc.json"
	// GlobalConfigDir is the directory for global config
	GlobalConfigDir = "mocktransport"
	// GlobalConfigFileName is the name of the global config file
	GlobalConfigFileName = "config.json"
)

// FindLocalConfig returns the path of .mocktransportrc.json in dir, or ""
// when there is none.
func FindLocalConfig(dir string) string {
	path := filepath.Join(dir, LocalConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// FindGlobalConfig returns the path to the global config file.
// Returns empty string if not found.
func FindGlobalConfig() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(configDir, GlobalConfigDir, GlobalConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// LoadConfigFile loads a CLIConfig from a JSON file.
func LoadConfigFile(path string) (*CLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg CLIConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			line, col := FindLineColumn(data, syntaxErr.Offset)
			return nil, &ConfigError{
				Path:    path,
				Line:    line,
				Column:  col,
				Message: syntaxErr.Error(),
			}
		}
		return nil, &ConfigError{
			Path:    path,
			Message: err.Error(),
		}
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err == nil {
		cfg.SetFields = make(map[string]bool, len(keys))
		for key := range keys {
			cfg.SetFields[key] = true
		}
	}
	cfg.Sources = make(map[string]string)
	return &cfg, nil
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + ", column " + strconv.Itoa(e.Column) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

// FindLineColumn finds the line and column number for a byte offset.
func FindLineColumn(data []byte, offset int64) (line, col int) {
	line = 1
	col = 1
	for i := int64(0); i < offset && int(i) < len(data); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// LoadAll loads configuration from every source below the command-line
// flags and merges them. dir is searched for the local config file unless
// MOCKTRANSPORT_CONFIG names one explicitly.
func LoadAll(dir string) (*CLIConfig, error) {
	cfg := NewDefault()

	if globalPath := FindGlobalConfig(); globalPath != "" {
		globalCfg, err := LoadConfigFile(globalPath)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, globalCfg, SourceGlobal)
	}

	localPath := os.Getenv(EnvConfig)
	if localPath == "" {
		localPath = FindLocalConfig(dir)
	}
	if localPath != "" {
		localCfg, err := LoadConfigFile(localPath)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, localCfg, SourceLocal)
		cfg.ConfigFile = localPath
		if _, ok := cfg.Sources["configFile"]; !ok {
			cfg.Sources["configFile"] = SourceLocal
		}
	}

	LoadEnvConfig(cfg)
	return cfg, nil
}
