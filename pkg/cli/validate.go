package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mocktransport/pkg/expect"
)

// ValidateResult reports one validated file, or a pattern that failed.
type ValidateResult struct {
	Path         string `json:"path"`
	Form         string `json:"form,omitempty"`
	Expectations int    `json:"expectations"`
	Error        string `json:"error,omitempty"`
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|glob>...",
		Short: "Validate expectation files",
		Long: `Validate checks YAML or JSON expectation files against the expectation
schema (unless strictSchema is disabled) and decodes them. Patterns may use
** to match nested directories.`,
		Example: `  mocktransport validate fixtures/users.yaml
  mocktransport validate 'fixtures/**/*.yaml'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd, args)
		},
	}
}

func (a *app) runValidate(cmd *cobra.Command, patterns []string) error {
	loader := a.loader()

	var results []ValidateResult
	failed := false
	for _, pattern := range patterns {
		files, err := loader.LoadAll(pattern)
		if err != nil {
			a.log.Debug("validation failed", "pattern", pattern, "error", err)
			results = append(results, ValidateResult{Path: pattern, Error: err.Error()})
			failed = true
			continue
		}
		for _, f := range files {
			results = append(results, ValidateResult{
				Path:         f.Path,
				Form:         f.Expectations.Form().String(),
				Expectations: f.Expectations.Len(),
			})
		}
	}

	w := cmd.OutOrStdout()
	if err := a.printResult(w, results, func() {
		for _, r := range results {
			if r.Error != "" {
				fmt.Fprintf(w, "FAIL %s: %s\n", r.Path, r.Error)
				continue
			}
			fmt.Fprintf(w, "ok   %s (%s, %s)\n", r.Path, r.Form, plural(r.Expectations, "expectation"))
		}
	}); err != nil {
		return err
	}
	if failed {
		return ErrInvalidFiles
	}
	return nil
}

func (a *app) loader() *expect.Loader {
	return &expect.Loader{SkipSchema: !a.cfg.StrictSchema}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
