package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/pacd/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/pacd/internal/infrastructure/server"
	"github.com/GriffinCanCode/pacd/internal/pac"
	"github.com/GriffinCanCode/pacd/internal/resolver"
)

func newEvalCmd(opts *options) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "eval <url>...",
		Short: "Print the proxy plan for each URL",
		Long: `Evaluate the PAC script for each URL and print one line per URL:
the URL, a tab, then the directive string. A script that returns null
prints an empty directive.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := make([]*url.URL, len(args))
			for i, arg := range args {
				u, err := url.Parse(arg)
				if err != nil || u.Scheme == "" || u.Host == "" {
					return fmt.Errorf("not an absolute URL: %q", arg)
				}
				targets[i] = u
			}

			svc, err := loadResolver(cmd, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, target := range targets {
				res, err := svc.FindProxies(cmd.Context(), target)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\n", args[i], res.Plan.String())
				if verbose {
					line := res.Outcome.String()
					if res.Err != nil {
						line += fmt.Sprintf(" (%s: %v)", pac.FailureKind(res.Err), res.Err)
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "  outcome: %s\n", line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the outcome of each evaluation to stderr")
	return cmd
}

// loadResolver builds the resolver from configuration and loads the script
func loadResolver(cmd *cobra.Command, opts *options) (*resolver.Service, error) {
	svc, err := server.NewResolver(opts.config, opts.logger.Logger, monitoring.NewMetrics())
	if err != nil {
		return nil, err
	}
	if _, err := svc.Reload(cmd.Context()); err != nil {
		return nil, err
	}
	return svc, nil
}
