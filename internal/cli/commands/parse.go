package commands

import (
	"github.com/leapstack-labs/leapurl/pkg/urlparse"
	"github.com/spf13/cobra"
)

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <url>...",
		Short: "Split URLs into their parts",
		Long: `Parse each URL and print one row per URL with every part. Missing parts
print as NULL. A URL that does not parse prints valid=false and no parts.`,
		Example: `  leapurl parse "https://alex:pw@example.com:8443/a?b=c#d"
  leapurl parse -o json "imap://user;AUTH=PLAIN@mail.example.com"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			return renderResultSet(cmd.OutOrStdout(), parseRows(args), cmdCtx.Cfg.Output)
		},
	}
}

func parseRows(inputs []string) *resultSet {
	res := &resultSet{Columns: []string{"url", "valid"}}
	for _, p := range urlparse.Parts() {
		res.Columns = append(res.Columns, p.String())
	}

	for _, in := range inputs {
		values := make([]any, 0, len(res.Columns))
		u, err := urlparse.Parse(in)
		values = append(values, in, err == nil)
		for _, p := range urlparse.Parts() {
			if err != nil {
				values = append(values, nil)
				continue
			}
			values = append(values, optional(u.Get(p)))
		}
		res.append(values...)
	}
	return res
}
