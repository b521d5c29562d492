package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/leapurl/internal/cli/config"
	"github.com/leapstack-labs/leapurl/pkg/adapter"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext collects the loaded config and logger for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:    getConfig(),
		Logger: config.GetLogger(cmd.Context()),
	}
}

// NewAdapter creates the configured engine adapter without opening it.
func (c *CommandContext) NewAdapter() (adapter.Adapter, error) {
	return adapter.NewAdapter(c.Cfg.Engine, c.Logger)
}

// OpenSession opens the configured engine with the URL functions
// registered. The caller must close the session.
func (c *CommandContext) OpenSession(ctx context.Context) (*adapter.Session, error) {
	a, err := c.NewAdapter()
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opening session", slog.String("engine", a.Name()), slog.String("path", c.Cfg.Engine.Path))
	s, err := adapter.OpenSession(ctx, a, c.Cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", a.Name(), err)
	}
	return s, nil
}

// getConfig returns the current configuration or the defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
