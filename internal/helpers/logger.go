package helpers

import (
	"log/slog"
	"os"
)

// SetupLogger returns a handler and a logger for one component of the macro runtime.
// A nil handler falls back to a text handler on stderr grouped under component, and
// a warning is written so the missing configuration is visible.
//
// Parameters:
//   - handler: the slog.Handler to use, or nil for defaults
//   - component: the owning subsystem (e.g. "macro", "memhost", "starlark")
//   - groupName: optional sub group inside the component
func SetupLogger(handler slog.Handler, component string, groupName string) (slog.Handler, *slog.Logger) {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, nil).WithGroup(component)
		slog.New(handler).Warn("Handler is nil, using the default logger configuration.")
	}

	if groupName != "" {
		return handler, slog.New(handler.WithGroup(groupName))
	}
	return handler, slog.New(handler)
}

// ResolveLogger is the shared tail of the functional-option logging setup: an explicit
// logger wins, otherwise the handler (possibly nil) is turned into one.
func ResolveLogger(
	handler slog.Handler,
	logger *slog.Logger,
	component, groupName string,
) (slog.Handler, *slog.Logger) {
	if logger != nil {
		return logger.Handler(), logger
	}
	return SetupLogger(handler, component, groupName)
}
