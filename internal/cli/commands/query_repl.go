package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapurl/pkg/adapter"
	"github.com/spf13/cobra"
)

const replPrompt = "leapurl> "

func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext) error {
	ctx := cmd.Context()

	session, err := cmdCtx.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile(cmdCtx.Cfg.HistoryFile),
		AutoComplete:    newFunctionCompleter(session.Adapter()),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	styles := newStyles(out)
	_, _ = fmt.Fprintln(out, styles.Title.Render(fmt.Sprintf("leapurl REPL (engine: %s)", session.Adapter().Name())))
	_, _ = fmt.Fprintln(out, styles.Muted.Render("Type .help for commands, .quit to exit"))
	_, _ = fmt.Fprintln(out)

	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if multiLineBuffer.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(ctx, cmd, session, line, cmdCtx.Cfg.Output); quit {
				break
			}
			continue
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt("    ...> ")
			continue
		}
		rl.SetPrompt(replPrompt)

		query := multiLineBuffer.String()
		multiLineBuffer.Reset()

		if err := executeAndRender(ctx, out, session, query, cmdCtx.Cfg.Output); err != nil {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), styles.Error.Render("Error: "+err.Error()))
		}
		_, _ = fmt.Fprintln(out)
	}

	return nil
}

// handleDotCommand runs a REPL dot-command and reports whether the REPL
// should exit.
func handleDotCommand(ctx context.Context, cmd *cobra.Command, session *adapter.Session, line, format string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())

	case ".functions":
		res := functionRows(session.Adapter().Catalog())
		if err := renderResultSet(cmd.OutOrStdout(), res, format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}

	case ".debug":
		var debug string
		if err := session.QueryRowContext(ctx, "SELECT url_debug()").Scan(&debug); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			break
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), debug)

	case ".clear":
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .functions      List the registered url functions
  .debug          Show url_debug() for this engine
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for function names
`
	_, _ = fmt.Fprintln(w, help)
}

// historyFile returns the configured history path, or one under the user
// cache directory. An empty result disables history.
func historyFile(configured string) string {
	if configured != "" {
		return configured
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "leapurl")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "query_history")
}

// newFunctionCompleter completes function names and dot-commands.
func newFunctionCompleter(a adapter.Adapter) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range a.Catalog().Names() {
		items = append(items, readline.PcItem(name+"("))
	}
	for _, dot := range []string{".help", ".functions", ".debug", ".clear", ".quit", ".exit"} {
		items = append(items, readline.PcItem(dot))
	}
	return readline.NewPrefixCompleter(items...)
}
