package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the PAC script and describe it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadResolver(cmd, opts)
			if err != nil {
				return err
			}
			status, _ := svc.Status()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "location:\t%s\n", status.Location)
			fmt.Fprintf(w, "entry point:\t%s\n", status.EntryPoint)
			fmt.Fprintf(w, "cache enabled:\t%t\n", status.CacheEnabled)
			fmt.Fprintf(w, "charset:\t%s\n", status.Charset)
			fmt.Fprintf(w, "checksum:\t%s\n", status.Checksum)
			fmt.Fprintf(w, "loaded at:\t%s\n", status.LoadedAt.Format(time.RFC3339))
			fmt.Fprintf(w, "engine:\t%s\n", status.Engine)
			return w.Flush()
		},
	}
}
