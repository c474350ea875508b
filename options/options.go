// Package options configures the top-level evaluator constructors of go-ijmacro.
package options

import (
	"errors"
	"fmt"
	"log/slog"

	engineTypes "github.com/robbyt/go-ijmacro/engines/types"
	"github.com/robbyt/go-ijmacro/macro"
	"github.com/robbyt/go-ijmacro/platform/constants"
	"github.com/robbyt/go-ijmacro/platform/data"
	"github.com/robbyt/go-ijmacro/platform/script/loader"
)

var (
	ErrNoLoader = errors.New("no loader specified")
	ErrNoEngine = errors.New("no engine specified")
)

// Config holds everything needed to build an evaluator.
type Config struct {
	handler      slog.Handler
	engine       engineTypes.Type
	dataProvider data.Provider
	loader       loader.Loader

	// sessionOpts configure the macro session of every evaluation
	sessionOpts []macro.Option
}

// Option modifies a Config.
type Option func(*Config) error

// WithLogHandler sets the log handler of the compiler, the evaluator and the sessions.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Config) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.handler = handler
		return nil
	}
}

// WithDataProvider sets where evaluations read their ctx data from.
func WithDataProvider(provider data.Provider) Option {
	return func(c *Config) error {
		if provider != nil {
			c.dataProvider = provider
		}
		return nil
	}
}

// WithStaticData makes d available to every evaluation, merged under any data added
// with AddDataToContext.
func WithStaticData(d map[string]any) Option {
	return WithDataProvider(data.NewCompositeProvider(
		data.NewStaticProvider(d),
		data.NewContextProvider(constants.EvalData),
	))
}

// WithLoader sets the script loader.
func WithLoader(l loader.Loader) Option {
	return func(c *Config) error {
		if l != nil {
			c.loader = l
		}
		return nil
	}
}

// WithEngine selects the script engine.
func WithEngine(t engineTypes.Type) Option {
	return func(c *Config) error {
		if _, err := engineTypes.Parse(t.String()); err != nil {
			return err
		}
		c.engine = t
		return nil
	}
}

// WithSessionOptions appends options for the macro session each evaluation creates,
// e.g. macro.WithPresenter for scripted dialog answers.
func WithSessionOptions(opts ...macro.Option) Option {
	return func(c *Config) error {
		c.sessionOpts = append(c.sessionOpts, opts...)
		return nil
	}
}

// Validate checks that a loader and an engine are set.
func (c *Config) Validate() error {
	if c.loader == nil {
		return ErrNoLoader
	}
	if c.engine == "" {
		return ErrNoEngine
	}
	return nil
}

func (c *Config) GetHandler() slog.Handler {
	return c.handler
}

func (c *Config) GetEngine() engineTypes.Type {
	return c.engine
}

func (c *Config) GetDataProvider() data.Provider {
	return c.dataProvider
}

func (c *Config) GetLoader() loader.Loader {
	return c.loader
}

func (c *Config) GetSessionOptions() []macro.Option {
	return c.sessionOpts
}
