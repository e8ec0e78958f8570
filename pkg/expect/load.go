package expect

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// File is one loaded expectation file.
type File struct {
	Path         string
	Expectations Expectations
}

// Loader reads expectation files from disk.
type Loader struct {
	// BaseDir resolves relative paths and patterns. Empty means the working
	// directory.
	BaseDir string
	// SkipSchema disables schema validation before decoding.
	SkipSchema bool
}

// LoadFile loads one file with schema validation.
func LoadFile(path string) (Expectations, error) {
	return (&Loader{}).Load(path)
}

// LoadFiles loads every file matched by the given paths or glob patterns
// with schema validation.
func LoadFiles(patterns ...string) ([]File, error) {
	return (&Loader{}).LoadAll(patterns...)
}

// Load reads, validates and decodes a single file.
// ${VAR} and ${VAR:-default} references are expanded before decoding.
func (l *Loader) Load(path string) (Expectations, error) {
	resolved := l.resolve(path)

	file, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return Expectations{}, fmt.Errorf("file not found: %s", resolved)
		}
		if os.IsPermission(err) {
			return Expectations{}, fmt.Errorf("permission denied: %s", resolved)
		}
		return Expectations{}, fmt.Errorf("opening file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return Expectations{}, fmt.Errorf("reading file: %w", err)
	}
	if len(data) == 0 {
		return Expectations{}, fmt.Errorf("%w: file is empty: %s", ErrInvalidExpectation, resolved)
	}

	data = []byte(ExpandEnvVars(string(data)))

	if !l.SkipSchema {
		if err := ValidateDocument(data); err != nil {
			return Expectations{}, err
		}
	}
	return Parse(data)
}

// LoadAll loads every file matched by the given paths or patterns.
// Patterns support ** via doublestar. Matches within a pattern are sorted;
// a pattern with no matches is an error so typos do not pass silently.
func (l *Loader) LoadAll(patterns ...string) ([]File, error) {
	var result []File
	for _, pattern := range patterns {
		paths := []string{l.resolve(pattern)}
		if hasGlobMeta(pattern) {
			matches, err := doublestar.FilepathGlob(l.resolve(pattern))
			if err != nil {
				return nil, fmt.Errorf("expanding glob pattern %s: %w", pattern, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %s", pattern)
			}
			sort.Strings(matches)
			paths = matches
		}

		for _, path := range paths {
			e, err := l.Load(path)
			if err != nil {
				return nil, fmt.Errorf("loading %s: %w", l.display(path), err)
			}
			result = append(result, File{Path: path, Expectations: e})
		}
	}
	return result, nil
}

func (l *Loader) resolve(path string) string {
	if l.BaseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.BaseDir, path)
}

func (l *Loader) display(path string) string {
	if l.BaseDir == "" {
		return path
	}
	if rel, err := filepath.Rel(l.BaseDir, path); err == nil {
		return rel
	}
	return path
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnvVars replaces ${VAR} and ${VAR:-default} references with values
// from the environment. Unset variables without a default expand to "".
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		if val := os.Getenv(submatch[1]); val != "" {
			return val
		}
		if len(submatch) >= 3 {
			return submatch[2]
		}
		return ""
	})
}
