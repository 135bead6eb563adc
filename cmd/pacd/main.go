package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/pacd/internal/infrastructure/config"
	"github.com/GriffinCanCode/pacd/internal/infrastructure/logging"
)

// Version information set at build time.
var version = "dev"

// options holds the global flags and what they resolve to
type options struct {
	script   string
	logLevel string
	dev      bool

	config *config.Config
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pacd",
		Short: "Proxy Auto-Config evaluation engine",
		Long: `pacd loads a Proxy Auto-Config (PAC) script from a file or URL, runs it
in a sandboxed JavaScript engine and answers which proxies to use for a URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.script, "script", "s", "", "PAC script path or URL (overrides PAC_SCRIPT)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	root.PersistentFlags().BoolVar(&opts.dev, "dev", false, "Human readable logs")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newEvalCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

// setup loads configuration, applies flag overrides and builds the logger
func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if o.script != "" {
		cfg.PAC.Script = o.script
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if cmd.Flags().Changed("dev") {
		cfg.Logging.Development = o.dev
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}

	o.config = cfg
	o.logger = logger
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pacd %s\n", version)
		},
	}
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
