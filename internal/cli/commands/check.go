package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leapurl/pkg/urlparse"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	File   string
	Strict bool
}

// checkResult is the outcome for one input URL.
type checkResult struct {
	URL    string
	Valid  bool
	Host   *string
	Reason string
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [url]...",
		Short: "Validate many URLs",
		Long: `Validate URLs the way url_valid() does and report the host of each valid
one and the reason each invalid one was rejected.

URLs come from the arguments, from --file, or from stdin, one per line.
Blank lines are ignored. Output keeps the input order.`,
		Example: `  leapurl check https://t.me not wss://kasldjf.c
  leapurl check --file urls.txt --strict
  cat urls.txt | leapurl check -o csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			inputs := args
			if len(inputs) == 0 {
				r := cmd.InOrStdin()
				if opts.File != "" {
					f, err := appFs.Open(opts.File)
					if err != nil {
						return fmt.Errorf("failed to open %s: %w", opts.File, err)
					}
					defer func() { _ = f.Close() }()
					r = f
				}
				lines, err := readLines(r)
				if err != nil {
					return err
				}
				inputs = lines
			}

			results, err := checkURLs(cmd.Context(), inputs, cmdCtx.Cfg.Check.Workers)
			if err != nil {
				return err
			}
			cmdCtx.Logger.Debug("checked urls", "count", len(results))

			res := &resultSet{Columns: []string{"url", "valid", "host", "reason"}}
			invalid := 0
			for _, r := range results {
				if !r.Valid {
					invalid++
				}
				res.append(r.URL, r.Valid, optional(r.Host), r.Reason)
			}
			if err := renderResultSet(cmd.OutOrStdout(), res, cmdCtx.Cfg.Output); err != nil {
				return err
			}
			if cmdCtx.Cfg.Output == "table" && len(results) > 0 {
				styles := newStyles(cmd.ErrOrStderr())
				if invalid == 0 {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), styles.Success.Render("all urls are valid"))
				} else {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), styles.Error.Render(fmt.Sprintf("%d invalid", invalid)))
				}
			}

			if opts.Strict && invalid > 0 {
				return fmt.Errorf("%d of %d urls are invalid", invalid, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Read URLs from file, one per line")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit with an error if any URL is invalid")
	cmd.Flags().Int("workers", 0, "Number of URLs validated concurrently (default from config)")

	return cmd
}

// checkURLs validates inputs with at most workers goroutines. Results are
// in input order.
func checkURLs(ctx context.Context, inputs []string, workers int) ([]checkResult, error) {
	results := make([]checkResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checkOne(in)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkOne(in string) checkResult {
	u, err := urlparse.Parse(in)
	if err != nil {
		r := checkResult{URL: in, Reason: err.Error()}
		var perr *urlparse.UnparsableURLError
		if errors.As(err, &perr) {
			r.Reason = perr.Reason
		}
		return r
	}
	return checkResult{URL: in, Valid: true, Host: u.Host()}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read urls: %w", err)
	}
	return lines, nil
}
