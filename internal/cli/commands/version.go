package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapurl/pkg/sqlfunc"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display leapurl version and build information.

With --debug, print the same text url_debug() returns for the configured
engine.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !debug {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "leapurl %s\n", version)
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "URL functions for SQLite and DuckDB")
				return nil
			}

			a, err := NewCommandContext(cmd).NewAdapter()
			if err != nil {
				return err
			}
			f, ok := a.Catalog().Lookup("url_debug")
			if !ok {
				return fmt.Errorf("%s does not register url_debug", a.Name())
			}
			text, err := f.Call(nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), sqlfunc.TextOrEmpty(text))
			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Print url_debug() output")
	return cmd
}
