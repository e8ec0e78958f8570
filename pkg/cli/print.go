package cli

import (
	"io"

	"github.com/getmockd/mocktransport/pkg/cli/internal/output"
)

// printResult outputs a single operation result.
//
// Contract: when --json is active, ONLY the JSON encoding of data is written
// to stdout. Human-readable prose must go to stderr or be omitted entirely.
// textFn is called only in text mode.
func (a *app) printResult(w io.Writer, data any, textFn func()) error {
	if a.cfg.JSON {
		return output.JSON(w, data)
	}
	textFn()
	return nil
}
