package macro

import (
	"context"
	"fmt"

	"github.com/robbyt/go-ijmacro/macro/dialog"
	"github.com/robbyt/go-ijmacro/macro/ext"
	"github.com/robbyt/go-ijmacro/macro/file"
	"github.com/robbyt/go-ijmacro/macro/fit"
)

// CreateDialog starts a new modal dialog and makes it the current one.
func (s *Session) CreateDialog(title string) (*dialog.Dialog, error) {
	return s.newDialog(title, dialog.New)
}

// CreateNonBlockingDialog starts a new non-modal dialog and makes it the current one.
func (s *Session) CreateNonBlockingDialog(title string) (*dialog.Dialog, error) {
	return s.newDialog(title, dialog.NewNonBlocking)
}

func (s *Session) newDialog(
	title string,
	create func(string, ...dialog.Option) (*dialog.Dialog, error),
) (*dialog.Dialog, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	d, err := create(title,
		dialog.WithPresenter(s.presenter),
		dialog.WithLogHandler(s.logHandler),
	)
	if err != nil {
		return nil, err
	}
	s.dialog = d
	return d, nil
}

// Dialog returns the dialog under construction.
func (s *Session) Dialog() (*dialog.Dialog, error) {
	if s.dialog == nil {
		return nil, ErrNoDialog
	}
	return s.dialog, nil
}

// DoFit fits and keeps the result as the current fit.
func (s *Session) DoFit(ctx context.Context, equation string, x, y, guesses []float64) (*fit.Result, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	s.fit = nil
	r, err := fit.DoFit(ctx, equation, x, y, guesses)
	if err != nil {
		return nil, err
	}
	s.fit = r
	s.logger.DebugContext(ctx, "fit done", "equation", r.Name(), "rSquared", r.RSquared())
	return r, nil
}

// Fit returns the last fit, or fit.ErrNoFit when the last DoFit failed or none ran.
func (s *Session) Fit() (*fit.Result, error) {
	if s.fit == nil {
		return nil, fit.ErrNoFit
	}
	return s.fit, nil
}

// OpenFile opens path for writing and stores it in the output slot. An empty path
// falls back to defaultName. A previously open file is closed first.
func (s *Session) OpenFile(path, defaultName string) (*file.OutputFile, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if path == "" {
		path = defaultName
	}
	if s.output != nil {
		if err := s.output.Close(); err != nil {
			s.logger.Warn("failed to close previous output file", "path", s.output.Path(), "error", err)
		}
		s.output = nil
	}
	f, err := s.files.Open(path)
	if err != nil {
		return nil, err
	}
	s.output = f
	return f, nil
}

// OutputFile returns the open output file.
func (s *Session) OutputFile() (*file.OutputFile, error) {
	if s.output == nil {
		return nil, ErrNoOutputFile
	}
	return s.output, nil
}

// CloseFile flushes and closes f, clearing the output slot when f is in it.
func (s *Session) CloseFile(f *file.OutputFile) error {
	if f == nil {
		return fmt.Errorf("%w: nil file", ErrInvalidArgument)
	}
	if f == s.output {
		s.output = nil
	}
	return f.Close()
}

// Install loads the named extension and makes it the current one. A previously
// installed extension is closed.
func (s *Session) Install(ctx context.Context, name string) (*ext.Extension, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	e, err := s.registry.Install(ctx, name, ext.Env{
		Log:    s.host.Log().Println,
		Logger: s.logger.With("extension", name),
	})
	if err != nil {
		return nil, err
	}
	if s.extension != nil {
		if err := s.extension.Close(ctx); err != nil {
			s.logger.WarnContext(ctx, "failed to close previous extension", "name", s.extension.Name(), "error", err)
		}
	}
	s.extension = e
	return e, nil
}

// Extension returns the installed extension.
func (s *Session) Extension() (*ext.Extension, error) {
	if s.extension == nil {
		return nil, ErrNoExtension
	}
	return s.extension, nil
}

// CallExtension calls a function of the installed extension.
func (s *Session) CallExtension(ctx context.Context, name string, args ...any) (any, error) {
	e, err := s.Extension()
	if err != nil {
		return nil, err
	}
	return e.Call(ctx, name, args...)
}
