package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapurl/pkg/querycursor"
	"github.com/leapstack-labs/leapurl/pkg/urlparse"
	"github.com/spf13/cobra"
)

// EachOptions holds options for the each command.
type EachOptions struct {
	SkipEmpty bool
	FromURL   bool
}

// NewEachCommand creates the each command.
func NewEachCommand() *cobra.Command {
	opts := &EachOptions{}

	cmd := &cobra.Command{
		Use:   "each <query-string>",
		Short: "Expand a query string into name/value rows",
		Long: `Print one row per '&'-separated pair of a query string, decoded the way
url_query_each decodes it: '+' becomes a space, then percent escapes are
decoded.

With --url the argument is a full URL and its query part is expanded.`,
		Example: `  leapurl each "a=1&b=hello+world"
  leapurl each --url "https://example.com/search?q=go&page=2"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			res, err := eachRows(args[0], opts)
			if err != nil {
				return err
			}
			return renderResultSet(cmd.OutOrStdout(), res, cmdCtx.Cfg.Output)
		},
	}

	cmd.Flags().BoolVar(&opts.SkipEmpty, "skip-empty", false, "Drop empty segments such as the middle of 'a=1&&b=2'")
	cmd.Flags().BoolVar(&opts.FromURL, "url", false, "Treat the argument as a URL and expand its query")

	return cmd
}

func eachRows(input string, opts *EachOptions) (*resultSet, error) {
	source := input
	if opts.FromURL {
		u, err := urlparse.Parse(input)
		if err != nil {
			return nil, fmt.Errorf("failed to parse url: %w", err)
		}
		source = ""
		if q := u.Query(); q != nil {
			source = *q
		}
	}

	var copts []querycursor.Option
	if opts.SkipEmpty {
		copts = append(copts, querycursor.WithSkipEmpty())
	}

	res := &resultSet{Columns: []string{"rowid", "name", "value", "raw"}}
	for _, row := range querycursor.Collect(source, copts...) {
		res.append(row.RowID, row.Name, row.Value, row.Raw)
	}
	return res, nil
}
