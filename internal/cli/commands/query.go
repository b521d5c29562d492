package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/leapurl/pkg/adapter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run SQL with the url functions loaded",
		Long: `Run SQL against the configured engine (SQLite or DuckDB) with every
url_* function and the url_query_each table function registered.

SQL is taken from the arguments, from --input, or from piped stdin.
When invoked without any of these on a terminal, enters interactive REPL mode.`,
		Example: `  # Extract parts of a URL
  leapurl query "SELECT url_host('https://api.github.com/repos')"

  # Expand a query string into rows
  leapurl query "SELECT * FROM url_query_each('a=1&b=2')"

  # Use DuckDB and print JSON
  leapurl query --engine duckdb -o json "SELECT url_valid('not')"

  # Interactive mode
  leapurl query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx := NewCommandContext(cmd)

	var sqlQuery string
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := afero.ReadFile(appFs, opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		return runQueryREPL(cmd, cmdCtx)
	}

	session, err := cmdCtx.OpenSession(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	return executeAndRender(cmd.Context(), cmd.OutOrStdout(), session, sqlQuery, cmdCtx.Cfg.Output)
}

// executeAndRender runs each ';'-separated statement and renders the result
// of the last one.
func executeAndRender(ctx context.Context, w io.Writer, session *adapter.Session, sqlQuery, format string) error {
	stmts := splitStatements(sqlQuery)
	if len(stmts) == 0 {
		return fmt.Errorf("no SQL to run")
	}

	for _, stmt := range stmts[:len(stmts)-1] {
		if err := session.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	rows, err := session.QueryContext(ctx, stmts[len(stmts)-1])
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	return renderResults(w, rows, format)
}

// splitStatements splits on ';' outside single-quoted strings and drops
// empty statements.
func splitStatements(s string) []string {
	var (
		stmts   []string
		current strings.Builder
		quoted  bool
	)
	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			stmts = append(stmts, stmt)
		}
		current.Reset()
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			quoted = !quoted
		case c == ';' && !quoted:
			flush()
			continue
		}
		current.WriteByte(c)
	}
	flush()
	return stmts
}
