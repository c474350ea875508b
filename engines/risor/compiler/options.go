package compiler

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/robbyt/go-ijmacro/engines/risor/internal"
	"github.com/robbyt/go-ijmacro/internal/helpers"
	"github.com/robbyt/go-ijmacro/platform/constants"
)

// FunctionalOption configures a Compiler.
type FunctionalOption func(*Compiler) error

// WithGlobals declares extra global names next to the macro surface.
func WithGlobals(globals []string) FunctionalOption {
	return func(c *Compiler) error {
		for _, g := range globals {
			if !slices.Contains(c.globals, g) {
				c.globals = append(c.globals, g)
			}
		}
		return nil
	}
}

// WithCtxGlobal declares ctx, which the defaults already include.
func WithCtxGlobal() FunctionalOption {
	return WithGlobals([]string{constants.Ctx})
}

// WithLogHandler sets the log handler for the compiler.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(c *Compiler) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.logHandler = handler
		c.logger = nil
		return nil
	}
}

// WithLogger sets a specific logger for the compiler.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(c *Compiler) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		c.logHandler = nil
		return nil
	}
}

func (c *Compiler) applyDefaults() {
	c.logHandler = slog.NewTextHandler(os.Stderr, nil)
	c.globals = internal.MacroGlobalNames()
}

func (c *Compiler) validate() error {
	if c.logHandler == nil && c.logger == nil {
		return fmt.Errorf("either log handler or logger must be specified")
	}
	return nil
}

func (c *Compiler) setupLogger() {
	if c.logger != nil {
		c.logHandler = c.logger.Handler()
	} else {
		c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "risor", "Compiler")
	}
}
