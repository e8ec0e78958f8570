package cli

import "errors"

// Common CLI errors
var (
	// ErrVerifyFailed is returned by verify after it has printed the
	// conversation diff.
	ErrVerifyFailed = errors.New("conversation did not satisfy its expectations")
	// ErrInvalidFiles is returned by validate after it has reported every
	// invalid file.
	ErrInvalidFiles = errors.New("some expectation files are invalid")
)
