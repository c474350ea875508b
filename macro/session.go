// Package macro is the Go surface of the macro language. A Session binds the
// passthrough functions to one host and carries the state the language keeps
// between calls: drawing settings, the dialog under construction, the last fit,
// the open output file and the installed extension.
//
// A Session is not safe for concurrent use. Independent sessions do not share any
// state, so each script evaluation gets its own.
package macro

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/google/uuid"
	"github.com/robbyt/go-ijmacro/host"
	"github.com/robbyt/go-ijmacro/host/memhost"
	"github.com/robbyt/go-ijmacro/internal/helpers"
	"github.com/robbyt/go-ijmacro/macro/dialog"
	"github.com/robbyt/go-ijmacro/macro/ext"
	"github.com/robbyt/go-ijmacro/macro/file"
	"github.com/robbyt/go-ijmacro/macro/fit"
)

// CallFunc is a Go function reachable from macros through call(name, args...).
type CallFunc func(ctx context.Context, args ...any) (any, error)

// Session is the per-evaluation macro state bound to a host.
type Session struct {
	id        string
	host      host.Host
	settings  Settings
	presenter dialog.Presenter
	fs        file.FileSystem
	files     *file.Files
	registry  *ext.Registry
	functions map[string]CallFunc
	argument  string

	dialog    *dialog.Dialog
	fit       *fit.Result
	output    *file.OutputFile
	extension *ext.Extension
	closed    bool

	logHandler slog.Handler
	logger     *slog.Logger
}

// Option configures a Session.
type Option func(*Session) error

// WithHost binds the session to h instead of a fresh in-memory host.
func WithHost(h host.Host) Option {
	return func(s *Session) error {
		if h == nil {
			return fmt.Errorf("host cannot be nil")
		}
		s.host = h
		return nil
	}
}

// WithPresenter sets how dialogs are shown.
func WithPresenter(p dialog.Presenter) Option {
	return func(s *Session) error {
		if p == nil {
			return fmt.Errorf("presenter cannot be nil")
		}
		s.presenter = p
		return nil
	}
}

// WithFileSystem replaces the OS file system used by the File functions.
func WithFileSystem(fsys file.FileSystem) Option {
	return func(s *Session) error {
		if fsys == nil {
			return fmt.Errorf("file system cannot be nil")
		}
		s.fs = fsys
		return nil
	}
}

// WithRegistry sets where Ext.install looks up extensions.
func WithRegistry(r *ext.Registry) Option {
	return func(s *Session) error {
		if r == nil {
			return fmt.Errorf("registry cannot be nil")
		}
		s.registry = r
		return nil
	}
}

// WithArgument sets the value returned by getArgument().
func WithArgument(arg string) Option {
	return func(s *Session) error {
		s.argument = arg
		return nil
	}
}

// WithFunctions registers Go functions for call(). Later registrations replace
// earlier ones with the same name.
func WithFunctions(funcs map[string]CallFunc) Option {
	return func(s *Session) error {
		for name, fn := range funcs {
			if fn == nil {
				return fmt.Errorf("function %q cannot be nil", name)
			}
		}
		maps.Copy(s.functions, funcs)
		return nil
	}
}

// WithLogHandler sets the slog handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *Session) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		s.logHandler = handler
		s.logger = nil
		return nil
	}
}

// WithLogger sets the slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		s.logger = logger
		s.logHandler = nil
		return nil
	}
}

// New creates a session. Without WithHost it runs against a new memhost.Host.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		id:        uuid.NewString(),
		presenter: dialog.Headless{},
		functions: make(map[string]CallFunc),
		settings:  defaultSettings(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("error applying session option: %w", err)
		}
	}
	s.logHandler, s.logger = helpers.ResolveLogger(s.logHandler, s.logger, "macro", "Session")
	s.logger = s.logger.With("session", s.id)

	if err := s.applyDefaults(); err != nil {
		return nil, err
	}
	s.logger.Debug("session created", "host", s.host)
	return s, nil
}

func (s *Session) applyDefaults() error {
	var err error
	if s.host == nil {
		s.host, err = memhost.New(memhost.WithLogHandler(s.logHandler))
		if err != nil {
			return err
		}
	}
	fileOpts := []file.Option{file.WithLogHandler(s.logHandler)}
	if s.fs != nil {
		fileOpts = append(fileOpts, file.WithFileSystem(s.fs))
	}
	s.files, err = file.New(fileOpts...)
	if err != nil {
		return err
	}
	if s.registry == nil {
		s.registry, err = ext.NewRegistry(ext.WithLogHandler(s.logHandler))
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) String() string {
	return fmt.Sprintf("macro.Session{ID: %s}", s.id)
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// Host returns the bound host.
func (s *Session) Host() host.Host { return s.host }

// Files returns the File functions.
func (s *Session) Files() *file.Files { return s.files }

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// GetArgument returns the argument passed to the macro.
func (s *Session) GetArgument() string { return s.argument }

// Call runs a function registered with WithFunctions.
func (s *Session) Call(ctx context.Context, name string, args ...any) (any, error) {
	fn, ok := s.functions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	s.logger.DebugContext(ctx, "call", "name", name, "args", len(args))
	return fn(ctx, args...)
}

// Shutdown closes the output file and the installed extension. The session cannot
// be used afterwards.
func (s *Session) Shutdown(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	var errs []error
	if s.output != nil {
		errs = append(errs, s.output.Close())
		s.output = nil
	}
	if s.extension != nil {
		errs = append(errs, s.extension.Close(ctx))
		s.extension = nil
	}
	s.dialog, s.fit = nil, nil
	s.logger.DebugContext(ctx, "session shut down")
	return errors.Join(errs...)
}

func (s *Session) checkOpen() error {
	if s.closed {
		return ErrSessionShutdown
	}
	return nil
}
