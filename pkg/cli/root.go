package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/mocktransport/internal/cliconfig"
	"github.com/getmockd/mocktransport/pkg/logging"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// app holds what every command shares once the root command has resolved
// its configuration.
type app struct {
	cfg     *cliconfig.CLIConfig
	log     *slog.Logger
	logFile io.Closer
	flags   globalFlags
}

// globalFlags are the persistent flags available to all subcommands.
type globalFlags struct {
	logLevel  string
	logFormat string
	logFile   string
	json      bool
	baseURL   string
}

// NewRootCmd builds the mocktransport command tree.
func NewRootCmd() *cobra.Command {
	root, _ := newRootCmd()
	return root
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{cfg: cliconfig.NewDefault(), log: logging.Nop()}

	root := &cobra.Command{
		Use:   "mocktransport",
		Short: "mocktransport checks HTTP conversations against ordered expectations",
		Long: `mocktransport works with the expectation files and request logs used by the
mocktransport Go library: it validates and normalizes expectation files and
replays a recorded request log against them.

Configuration can be provided via flags, MOCKTRANSPORT_* environment
variables, a .mocktransportrc.json file in the working directory, or a global
config file in the user config directory.`,
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.logLevel, "log-level", cliconfig.DefaultLogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", cliconfig.DefaultLogFormat, "Log format: text, json")
	pf.StringVar(&a.flags.logFile, "log-file", "", "Also write JSON logs to this file")
	pf.BoolVar(&a.flags.json, "json", false, "Output command results in JSON format")
	pf.StringVar(&a.flags.baseURL, "base-url", cliconfig.DefaultBaseURL, "Base URL for relative request urls")

	root.AddCommand(
		newValidateCmd(a),
		newNormalizeCmd(a),
		newVerifyCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root, a
}

// Execute runs the CLI with os.Args and returns the process exit code.
// This is called by main.main().
func Execute() int {
	root, a := newRootCmd()
	defer a.close()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

// setup layers the flags over the loaded configuration and builds the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := cliconfig.LoadAll(dir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	level := logging.ParseLevel(cfg.LogLevel)
	handler := logging.NewHandler(logging.Config{
		Level:  level,
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	})
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		a.logFile = f
		handler = logging.NewMultiHandler(handler, logging.NewHandler(logging.Config{
			Level:  level,
			Format: logging.FormatJSON,
			Output: f,
		}))
	}
	a.log = slog.New(handler).With("command", cmd.Name())
	a.log.Debug("configuration loaded", "configFile", cfg.ConfigFile, "strictSchema", cfg.StrictSchema)
	return nil
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *cliconfig.CLIConfig) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
		cfg.Sources["logLevel"] = cliconfig.SourceFlag
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.flags.logFormat
		cfg.Sources["logFormat"] = cliconfig.SourceFlag
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.flags.logFile
		cfg.Sources["logFile"] = cliconfig.SourceFlag
	}
	if flags.Changed("json") {
		cfg.JSON = a.flags.json
		cfg.Sources["json"] = cliconfig.SourceFlag
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = a.flags.baseURL
		cfg.Sources["baseUrl"] = cliconfig.SourceFlag
	}
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}
