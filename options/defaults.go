package options

import (
	"log/slog"
	"os"

	engineTypes "github.com/robbyt/go-ijmacro/engines/types"
	"github.com/robbyt/go-ijmacro/platform/constants"
	"github.com/robbyt/go-ijmacro/platform/data"
)

// DefaultConfig returns a Config for engine with the default handler and provider.
func DefaultConfig(engine engineTypes.Type) *Config {
	return &Config{
		engine:       engine,
		handler:      DefaultHandler(),
		dataProvider: DefaultDataProvider(),
	}
}

// DefaultHandler logs warnings and errors as text to stderr.
func DefaultHandler() slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
}

// DefaultDataProvider reads data added with AddDataToContext.
func DefaultDataProvider() data.Provider {
	return data.NewContextProvider(constants.EvalData)
}

// WithDefaults fills in whatever is still unset.
func WithDefaults() Option {
	return func(c *Config) error {
		if c.handler == nil {
			c.handler = DefaultHandler()
		}
		if c.dataProvider == nil {
			c.dataProvider = DefaultDataProvider()
		}
		return nil
	}
}
