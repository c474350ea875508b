// Package dialog builds the generic input dialogs of the macro language.
//
// A Dialog collects labelled fields, is handed to a Presenter by Show and is then read
// back field by field in the order the fields were added. Each kind of field has its
// own read cursor, so GetNumber returns the first number field, then the second, and
// so on, independently of GetString or GetCheckbox.
package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/robbyt/go-ijmacro/internal/helpers"
)

// Kind identifies the type of a field.
type Kind int

const (
	KindMessage Kind = iota
	KindString
	KindNumber
	KindSlider
	KindCheckbox
	KindChoice
	KindRadio
	KindDirectory
	KindFile
	KindHelp
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindSlider:
		return "slider"
	case KindCheckbox:
		return "checkbox"
	case KindChoice:
		return "choice"
	case KindRadio:
		return "radio"
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	case KindHelp:
		return "help"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// cursor groups the kinds that are read back by the same getter.
type cursor int

const (
	cursorNone cursor = iota
	cursorString
	cursorNumber
	cursorCheckbox
	cursorChoice
	cursorRadio
)

func (k Kind) cursor() cursor {
	switch k {
	case KindString, KindDirectory, KindFile:
		return cursorString
	case KindNumber, KindSlider:
		return cursorNumber
	case KindCheckbox:
		return cursorCheckbox
	case KindChoice:
		return cursorChoice
	case KindRadio:
		return cursorRadio
	}
	return cursorNone
}

// Field is one dialog component. Presenters update Text, Number or Checked through
// the setter methods.
type Field struct {
	Kind  Kind
	Label string

	// Text is the value of string, directory, file, choice and radio fields and the
	// body of message and help fields.
	Text    string
	Number  float64
	Checked bool
	Items   []string

	Decimals int
	Columns  int
	Units    string
	Min, Max float64

	// Rows and Cols lay out radio and checkbox groups.
	Rows, Cols int

	FontSize  float64
	FontColor *colorful.Color
}

// SetString sets a text field's value.
func (f *Field) SetString(s string) { f.Text = s }

// SetNumber sets a number field, clamping sliders to their range.
func (f *Field) SetNumber(v float64) {
	if f.Kind == KindSlider {
		v = min(max(v, f.Min), f.Max)
	}
	f.Number = v
}

// SetChecked sets a checkbox.
func (f *Field) SetChecked(b bool) { f.Checked = b }

// Select picks one of a choice or radio field's items.
func (f *Field) Select(item string) error {
	if !slices.Contains(f.Items, item) {
		return fmt.Errorf("%w: %q for %q", ErrInvalidChoice, item, f.Label)
	}
	f.Text = item
	return nil
}

// Dialog is a generic dialog under construction.
type Dialog struct {
	title       string
	nonBlocking bool
	fields      []*Field
	presenter   Presenter

	shown    bool
	canceled bool
	cursors  map[cursor]int

	logHandler slog.Handler
	logger     *slog.Logger
}

// Option configures a Dialog.
type Option func(*Dialog) error

// WithPresenter sets how the dialog is shown. The default accepts the defaults.
func WithPresenter(p Presenter) Option {
	return func(d *Dialog) error {
		if p == nil {
			return fmt.Errorf("presenter cannot be nil")
		}
		d.presenter = p
		return nil
	}
}

// WithLogHandler sets the slog handler for the dialog.
func WithLogHandler(handler slog.Handler) Option {
	return func(d *Dialog) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		d.logHandler = handler
		d.logger = nil
		return nil
	}
}

// WithLogger sets a specific logger for the dialog.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dialog) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		d.logger = logger
		d.logHandler = nil
		return nil
	}
}

// New creates a modal dialog.
func New(title string, opts ...Option) (*Dialog, error) {
	d := &Dialog{
		title:     title,
		presenter: Headless{},
		cursors:   make(map[cursor]int),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, fmt.Errorf("error applying dialog option: %w", err)
		}
	}
	d.logHandler, d.logger = helpers.ResolveLogger(d.logHandler, d.logger, "dialog", "Dialog")
	d.logger = d.logger.With("title", title)
	return d, nil
}

// NewNonBlocking creates a non-modal dialog. Headless presenters treat both the same.
func NewNonBlocking(title string, opts ...Option) (*Dialog, error) {
	d, err := New(title, opts...)
	if err != nil {
		return nil, err
	}
	d.nonBlocking = true
	return d, nil
}

func (d *Dialog) String() string {
	return fmt.Sprintf("dialog.Dialog{Title: %s, Fields: %d}", d.title, len(d.fields))
}

func (d *Dialog) Title() string     { return d.title }
func (d *Dialog) NonBlocking() bool { return d.nonBlocking }
func (d *Dialog) Fields() []*Field  { return d.fields }
func (d *Dialog) WasCanceled() bool { return d.canceled }
func (d *Dialog) WasShown() bool    { return d.shown }

func (d *Dialog) add(f *Field) {
	d.fields = append(d.fields, f)
}

// AddMessage adds a text message. fontSize 0 keeps the default font and an empty
// fontColor the default colour.
func (d *Dialog) AddMessage(text string, fontSize float64, fontColor string) error {
	f := &Field{Kind: KindMessage, Text: text, FontSize: fontSize}
	if fontColor != "" {
		c, err := DecodeColor(fontColor)
		if err != nil {
			return err
		}
		f.FontColor = &c
	}
	d.add(f)
	return nil
}

// AddString adds a text field; columns <= 0 uses 8.
func (d *Dialog) AddString(label, initial string, columns int) {
	if columns <= 0 {
		columns = 8
	}
	d.add(&Field{Kind: KindString, Label: label, Text: initial, Columns: columns})
}

// AddNumber adds a numeric field. A negative decimals picks 0 for whole numbers and
// 3 otherwise; columns <= 0 uses 6.
func (d *Dialog) AddNumber(label string, def float64, decimals, columns int, units string) {
	if decimals < 0 {
		decimals = DefaultDecimals(def)
	}
	if columns <= 0 {
		columns = 6
	}
	d.add(&Field{
		Kind: KindNumber, Label: label, Number: def,
		Decimals: decimals, Columns: columns, Units: units,
	})
}

// DefaultDecimals is the number of decimals shown for def when none are given.
func DefaultDecimals(def float64) int {
	if def == math.Trunc(def) {
		return 0
	}
	return 3
}

// AddSlider adds a slider; def is clamped to [minV, maxV].
func (d *Dialog) AddSlider(label string, minV, maxV, def float64) error {
	if minV > maxV {
		return fmt.Errorf("%w: slider %q min %g > max %g", ErrInvalidField, label, minV, maxV)
	}
	decimals := 0
	if minV != math.Trunc(minV) || maxV != math.Trunc(maxV) || def != math.Trunc(def) || maxV-minV <= 5 {
		decimals = 2
	}
	d.add(&Field{
		Kind: KindSlider, Label: label, Min: minV, Max: maxV,
		Number: min(max(def, minV), maxV), Decimals: decimals,
	})
	return nil
}

// AddCheckbox adds a checkbox.
func (d *Dialog) AddCheckbox(label string, def bool) {
	d.add(&Field{Kind: KindCheckbox, Label: label, Checked: def})
}

// AddCheckboxGroup adds rows*cols checkboxes laid out in a grid. Each one is read
// back by its own GetCheckbox call.
func (d *Dialog) AddCheckboxGroup(rows, cols int, labels []string, defaults []bool) error {
	if len(labels) != len(defaults) {
		return fmt.Errorf("%w: %d labels, %d defaults", ErrInvalidField, len(labels), len(defaults))
	}
	if rows < 1 || cols < 1 || rows*cols < len(labels) {
		return fmt.Errorf("%w: %d labels do not fit %dx%d", ErrInvalidField, len(labels), rows, cols)
	}
	for i, label := range labels {
		d.add(&Field{Kind: KindCheckbox, Label: label, Checked: defaults[i], Rows: rows, Cols: cols})
	}
	return nil
}

// AddRadioButtonGroup adds a group of radio buttons. An unknown def selects the first
// item.
func (d *Dialog) AddRadioButtonGroup(label string, items []string, rows, cols int, def string) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: radio group %q has no items", ErrInvalidField, label)
	}
	if !slices.Contains(items, def) {
		def = items[0]
	}
	d.add(&Field{
		Kind: KindRadio, Label: label, Items: slices.Clone(items),
		Text: def, Rows: max(rows, 1), Cols: max(cols, 1),
	})
	return nil
}

// AddChoice adds a drop-down menu. An empty or unknown def selects the first item.
func (d *Dialog) AddChoice(label string, items []string, def string) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: choice %q has no items", ErrInvalidField, label)
	}
	if !slices.Contains(items, def) {
		def = items[0]
	}
	d.add(&Field{Kind: KindChoice, Label: label, Items: slices.Clone(items), Text: def})
	return nil
}

// AddDirectory adds a directory field, read back with GetString.
func (d *Dialog) AddDirectory(label, def string) {
	d.add(&Field{Kind: KindDirectory, Label: label, Text: def, Columns: 20})
}

// AddFile adds a file field, read back with GetString.
func (d *Dialog) AddFile(label, def string) {
	d.add(&Field{Kind: KindFile, Label: label, Text: def, Columns: 20})
}

// AddHelp adds a help button showing a URL or an HTML page.
func (d *Dialog) AddHelp(urlOrHTML string) {
	d.add(&Field{Kind: KindHelp, Text: urlOrHTML})
}

// Help returns the help text, if any.
func (d *Dialog) Help() string {
	for _, f := range slices.Backward(d.fields) {
		if f.Kind == KindHelp {
			return f.Text
		}
	}
	return ""
}

// Show presents the dialog and waits for the presenter. Cancellation is recorded in
// WasCanceled and is not an error. Read cursors restart after every Show.
func (d *Dialog) Show(ctx context.Context) error {
	canceled, err := d.presenter.Present(ctx, d)
	if err != nil {
		return fmt.Errorf("showing dialog %q: %w", d.title, err)
	}
	d.shown = true
	d.canceled = canceled
	clear(d.cursors)
	d.logger.DebugContext(ctx, "dialog shown", "fields", len(d.fields), "canceled", canceled)
	return nil
}

// next returns the next unread field for c.
func (d *Dialog) next(c cursor, getter string) (*Field, error) {
	seen := 0
	for _, f := range d.fields {
		if f.Kind.cursor() != c {
			continue
		}
		if seen == d.cursors[c] {
			d.cursors[c]++
			return f, nil
		}
		seen++
	}
	return nil, fmt.Errorf("%w: %s called %d times", ErrNoMoreFields, getter, d.cursors[c]+1)
}

// GetString returns the next string, directory or file field.
func (d *Dialog) GetString() (string, error) {
	f, err := d.next(cursorString, "getString")
	if err != nil {
		return "", err
	}
	return f.Text, nil
}

// GetNumber returns the next number or slider field.
func (d *Dialog) GetNumber() (float64, error) {
	f, err := d.next(cursorNumber, "getNumber")
	if err != nil {
		return math.NaN(), err
	}
	return f.Number, nil
}

// GetCheckbox returns the next checkbox state.
func (d *Dialog) GetCheckbox() (bool, error) {
	f, err := d.next(cursorCheckbox, "getCheckbox")
	if err != nil {
		return false, err
	}
	return f.Checked, nil
}

// GetChoice returns the selected item of the next choice field.
func (d *Dialog) GetChoice() (string, error) {
	f, err := d.next(cursorChoice, "getChoice")
	if err != nil {
		return "", err
	}
	return f.Text, nil
}

// GetRadioButton returns the selected item of the next radio group.
func (d *Dialog) GetRadioButton() (string, error) {
	f, err := d.next(cursorRadio, "getRadioButton")
	if err != nil {
		return "", err
	}
	return f.Text, nil
}

// normalizeLabel strips the trailing colon and spaces labels usually carry.
func normalizeLabel(label string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(label), ":"))
}
