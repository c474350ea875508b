package dialog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Presenter shows a dialog and fills in its fields. It reports whether the user
// canceled the dialog.
type Presenter interface {
	Present(ctx context.Context, d *Dialog) (canceled bool, err error)
}

// PresenterFunc adapts a function to a Presenter.
type PresenterFunc func(ctx context.Context, d *Dialog) (bool, error)

func (f PresenterFunc) Present(ctx context.Context, d *Dialog) (bool, error) {
	return f(ctx, d)
}

// Headless accepts every default, as if OK were clicked without changes.
type Headless struct{}

func (Headless) Present(ctx context.Context, _ *Dialog) (bool, error) {
	return false, ctx.Err()
}

// CanceledKey marks a dialog as canceled in an answers file.
const CanceledKey = "_canceled"

// Scripted answers dialogs from a table keyed by dialog title and then by field label.
// Labels match without their trailing colon. Dialogs or fields without an answer keep
// their defaults.
//
//	Greetings:
//	  Enter your name: Alice
//	Even/Odd:
//	  number: 7
//	Settings:
//	  _canceled: true
type Scripted struct {
	answers map[string]map[string]any
}

// NewScripted creates a presenter from answers.
func NewScripted(answers map[string]map[string]any) *Scripted {
	s := &Scripted{answers: make(map[string]map[string]any, len(answers))}
	for title, fields := range answers {
		norm := make(map[string]any, len(fields))
		for label, v := range fields {
			norm[normalizeLabel(label)] = v
		}
		s.answers[title] = norm
	}
	return s
}

// LoadAnswers reads a YAML answers document.
func LoadAnswers(r io.Reader) (*Scripted, error) {
	var answers map[string]map[string]any
	if err := yaml.NewDecoder(r).Decode(&answers); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnswers, err)
	}
	return NewScripted(answers), nil
}

// LoadAnswersFile reads a YAML answers file.
func LoadAnswersFile(path string) (*Scripted, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadAnswers(f)
}

func (s *Scripted) Present(ctx context.Context, d *Dialog) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	answers, ok := s.answers[d.Title()]
	if !ok {
		return false, nil
	}
	if canceled, _ := answers[CanceledKey].(bool); canceled {
		return true, nil
	}

	for _, f := range d.Fields() {
		v, ok := answers[normalizeLabel(f.Label)]
		if !ok || f.Label == "" {
			continue
		}
		if err := apply(f, v); err != nil {
			return false, err
		}
	}
	return false, nil
}

func apply(f *Field, v any) error {
	switch f.Kind {
	case KindString, KindDirectory, KindFile:
		f.SetString(fmt.Sprint(v))
	case KindNumber, KindSlider:
		n, err := toNumber(v)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidAnswers, f.Label, err)
		}
		f.SetNumber(n)
	case KindCheckbox:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: %q expects true or false, got %v", ErrInvalidAnswers, f.Label, v)
		}
		f.SetChecked(b)
	case KindChoice, KindRadio:
		return f.Select(fmt.Sprint(v))
	}
	return nil
}

func toNumber(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	}
	return 0, fmt.Errorf("not a number: %v", v)
}
