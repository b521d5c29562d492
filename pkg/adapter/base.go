package adapter

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/leapurl/pkg/sqlfunc"
)

// Base carries what every adapter needs: a logger and its catalog.
// Embed it in concrete adapters.
type Base struct {
	Logger *slog.Logger
	Cat    *sqlfunc.Catalog
}

// NewBase returns a Base with a discard logger when logger is nil.
func NewBase(logger *slog.Logger, cat *sqlfunc.Catalog) Base {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return Base{Logger: logger, Cat: cat}
}

// Catalog returns the functions the adapter registers.
func (b *Base) Catalog() *sqlfunc.Catalog {
	return b.Cat
}

// DecodeParams decodes cfg.Params into out, which must be a pointer to a
// struct with mapstructure tags. Unknown keys are an error.
func DecodeParams(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("invalid engine params: %w", err)
	}
	return nil
}

// LibraryLine names a Go module and the version linked into the binary,
// e.g. "modernc.org/sqlite v1.42.2". It is the last line of url_debug().
func LibraryLine(module string) string {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == module {
				version = dep.Version
				if dep.Replace != nil && dep.Replace.Version != "" {
					version = dep.Replace.Version
				}
				break
			}
		}
	}
	return module + " " + version
}
