package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mocktransport/internal/cliconfig"
	"github.com/getmockd/mocktransport/pkg/cli/internal/output"
)

// ConfigEntry is one effective configuration value.
type ConfigEntry struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		Long: `Config prints every configuration value and the layer that set it:
flag, env, local, global or default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := effectiveConfig(a.cfg)
			w := cmd.OutOrStdout()
			return a.printResult(w, entries, func() {
				tw := output.Table(w)
				fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, orDash(e.Value), orDash(e.Source))
				}
				_ = tw.Flush()
			})
		},
	}
}

func effectiveConfig(cfg *cliconfig.CLIConfig) []ConfigEntry {
	entries := make([]ConfigEntry, 0, len(cliconfig.Fields))
	for _, key := range cliconfig.Fields {
		entries = append(entries, ConfigEntry{
			Key:    key,
			Value:  cfg.Value(key),
			Source: cfg.Sources[key],
		})
	}
	return entries
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
