package commands

import (
	"strconv"

	"github.com/leapstack-labs/leapurl/pkg/sqlfunc"
	"github.com/spf13/cobra"
)

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the SQL functions leapurl registers",
		Long: `List every function registered by the configured engine, in
registration order, with its argument count and result type.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			a, err := cmdCtx.NewAdapter()
			if err != nil {
				return err
			}
			return renderResultSet(cmd.OutOrStdout(), functionRows(a.Catalog()), cmdCtx.Cfg.Output)
		},
	}
}

func functionRows(cat *sqlfunc.Catalog) *resultSet {
	res := &resultSet{Columns: []string{"name", "kind", "args", "returns", "description"}}
	for _, f := range cat.Scalars() {
		args := strconv.Itoa(f.NArgs)
		if f.Variadic() {
			args = strconv.Itoa(f.MinArgs) + "+"
		}
		returns := "text"
		if f.Result == sqlfunc.ResultInteger {
			returns = "integer"
		}
		res.append(f.Name, "scalar", args, returns, f.Doc)
	}
	t := cat.Table()
	res.append(t.Name, "table", "1", "rowid, name, value", t.Doc)
	return res
}
