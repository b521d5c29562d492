package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapurl/pkg/urlparse"
	"github.com/spf13/cobra"
)

// BuildOptions holds options for the build command.
type BuildOptions struct {
	Set         []string
	Unset       []string
	QueryString []string
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build [base-url]",
		Short: "Build a URL from a base and part replacements",
		Long: `Build a URL the way url() does in SQL: start from an optional base URL,
replace parts with --set part=value, remove parts with --unset part.

--querystring name=value pairs are encoded like url_querystring() and
replace the query part.`,
		Example: `  leapurl build https://api.github.com/repos --set host=github.com --set path=/users
  leapurl build --set scheme=https --set host=example.com --querystring "q=hello world"
  leapurl build "https://example.com/?a=1#top" --unset query --unset fragment`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := ""
			if len(args) == 1 {
				base = args[0]
			}
			out, err := buildURL(base, opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "Replace a part (part=value), repeatable")
	cmd.Flags().StringSliceVar(&opts.Unset, "unset", nil, "Remove parts")
	cmd.Flags().StringArrayVarP(&opts.QueryString, "querystring", "q", nil, "Query pair (name=value), repeatable")

	return cmd
}

func buildURL(base string, opts *BuildOptions) (string, error) {
	b, err := urlparse.NewBuilder(base)
	if err != nil {
		return "", err
	}

	for _, name := range opts.Unset {
		p, err := urlparse.ParsePart(name)
		if err != nil {
			return "", err
		}
		if err := b.Set(p, nil); err != nil {
			return "", err
		}
	}

	for _, kv := range opts.Set {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return "", fmt.Errorf("--set expects part=value, got %q", kv)
		}
		p, err := urlparse.ParsePart(name)
		if err != nil {
			return "", err
		}
		if err := b.SetString(p, value); err != nil {
			return "", err
		}
	}

	if len(opts.QueryString) > 0 {
		args := make([]string, 0, 2*len(opts.QueryString))
		for _, kv := range opts.QueryString {
			name, value, _ := strings.Cut(kv, "=")
			args = append(args, name, value)
		}
		qs, err := urlparse.QueryString(args...)
		if err != nil {
			return "", err
		}
		if err := b.SetString(urlparse.PartQuery, qs); err != nil {
			return "", err
		}
	}

	return b.String()
}
