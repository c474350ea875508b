// Package results holds the tabular measurement data shared between the macro layer
// and the host platform. A Table is owned by the host; the macro layer only appends to
// it and reads it back.
package results

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// DefaultTitle is the title of the host's main results table.
const DefaultTitle = "Results"

// RowLabels selects the leading label column printed by RowString.
type RowLabels int

const (
	// NoRowLabels prints only the data columns.
	NoRowLabels RowLabels = iota
	// RowNumbers prints a 1-based row number column.
	RowNumbers
	// RowIndexes prints a 0-based row index column.
	RowIndexes
)

// Table is an ordered set of named columns holding float64 or string cells.
type Table struct {
	mu        sync.RWMutex
	title     string
	headings  []string
	columns   map[string][]any
	rows      int
	labels    RowLabels
	precision int
}

// New creates an empty table with the given title.
func New(title string) *Table {
	if title == "" {
		title = DefaultTitle
	}
	return &Table{
		title:     title,
		columns:   make(map[string][]any),
		precision: 3,
	}
}

func (t *Table) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return fmt.Sprintf("results.Table{Title: %s, Columns: %d, Rows: %d}", t.title, len(t.headings), t.rows)
}

// Title returns the window title of the table.
func (t *Table) Title() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.title
}

// SetTitle renames the table.
func (t *Table) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.title = title
}

// Size returns the number of rows.
func (t *Table) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rows
}

// SetRowLabels selects the label column written by RowString and Save.
func (t *Table) SetRowLabels(l RowLabels) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.labels = l
}

// RowLabels returns the current label mode.
func (t *Table) RowLabels() RowLabels {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.labels
}

// SetPrecision sets the number of decimals used for non-integer cells.
func (t *Table) SetPrecision(decimals int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.precision = max(decimals, 0)
}

// IncrementCounter appends an empty row; numeric columns get 0 and string columns "".
func (t *Table) IncrementCounter() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows++
	for _, h := range t.headings {
		t.columns[h] = append(t.columns[h], zeroLike(t.columns[h]))
	}
}

// AddValue sets column on the last row. A table without rows gets its first row.
func (t *Table) AddValue(column string, value any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rows == 0 {
		t.rows = 1
		for _, h := range t.headings {
			t.columns[h] = append(t.columns[h], zeroLike(t.columns[h]))
		}
	}
	return t.set(column, t.rows-1, value)
}

// SetValue sets the cell at row; row may equal Size to append a row.
func (t *Table) SetValue(column string, row int, value any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if row < 0 || row > t.rows {
		return fmt.Errorf("%w: row %d of %d", ErrRowOutOfRange, row, t.rows)
	}
	if row == t.rows {
		t.rows++
		for _, h := range t.headings {
			t.columns[h] = append(t.columns[h], zeroLike(t.columns[h]))
		}
	}
	return t.set(column, row, value)
}

func (t *Table) set(column string, row int, value any) error {
	if column == "" {
		return ErrEmptyColumn
	}
	cell, err := normalize(value)
	if err != nil {
		return err
	}
	col, ok := t.columns[column]
	if !ok {
		col = make([]any, t.rows)
		for i := range col {
			col[i] = zeroOf(cell)
		}
		t.headings = append(t.headings, column)
	}
	col[row] = cell
	t.columns[column] = col
	return nil
}

// Value returns a numeric cell. String cells that parse as numbers are converted,
// anything else is NaN.
func (t *Table) Value(column string, row int) (float64, error) {
	cell, err := t.cell(column, row)
	if err != nil {
		return math.NaN(), err
	}
	switch v := cell.(type) {
	case float64:
		return v, nil
	case string:
		f, perr := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if perr != nil {
			return math.NaN(), nil
		}
		return f, nil
	}
	return math.NaN(), nil
}

// StringValue returns a cell formatted the way RowString prints it.
func (t *Table) StringValue(column string, row int) (string, error) {
	cell, err := t.cell(column, row)
	if err != nil {
		return "", err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return formatCell(cell, t.precision), nil
}

func (t *Table) cell(column string, row int) (any, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	col, ok := t.columns[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchColumn, column)
	}
	if row < 0 || row >= len(col) {
		return nil, fmt.Errorf("%w: row %d of %d", ErrRowOutOfRange, row, len(col))
	}
	return col[row], nil
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	col, ok := t.columns[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(col), true
}

// ColumnAt returns a copy of the column at position i in heading order.
func (t *Table) ColumnAt(i int) ([]any, bool) {
	t.mu.RLock()
	if i < 0 || i >= len(t.headings) {
		t.mu.RUnlock()
		return nil, false
	}
	name := t.headings[i]
	t.mu.RUnlock()
	return t.Column(name)
}

// Headings returns the column names in insertion order.
func (t *Table) Headings() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.headings)
}

// ColumnHeading returns the name of column i, or "" when out of range.
func (t *Table) ColumnHeading(i int) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= len(t.headings) {
		return ""
	}
	return t.headings[i]
}

// ColumnHeadings returns the tab separated heading line, with a leading blank label
// when row labels are shown.
func (t *Table) ColumnHeadings() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	parts := make([]string, 0, len(t.headings)+1)
	if t.labels != NoRowLabels {
		parts = append(parts, " ")
	}
	parts = append(parts, t.headings...)
	return strings.Join(parts, "\t")
}

// RowString returns row i as tab separated text.
func (t *Table) RowString(i int) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= t.rows {
		return "", fmt.Errorf("%w: row %d of %d", ErrRowOutOfRange, i, t.rows)
	}
	return strings.Join(t.rowCells(i), "\t"), nil
}

func (t *Table) rowCells(i int) []string {
	parts := make([]string, 0, len(t.headings)+1)
	switch t.labels {
	case RowNumbers:
		parts = append(parts, strconv.Itoa(i+1))
	case RowIndexes:
		parts = append(parts, strconv.Itoa(i))
	}
	for _, h := range t.headings {
		parts = append(parts, formatCell(t.columns[h][i], t.precision))
	}
	return parts
}

// DeleteRow removes row i.
func (t *Table) DeleteRow(i int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= t.rows {
		return fmt.Errorf("%w: row %d of %d", ErrRowOutOfRange, i, t.rows)
	}
	for _, h := range t.headings {
		t.columns[h] = slices.Delete(t.columns[h], i, i+1)
	}
	t.rows--
	return nil
}

// Reset removes all rows and columns; the title and label mode are kept.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.headings = nil
	t.columns = make(map[string][]any)
	t.rows = 0
}

func normalize(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case bool:
		if v {
			return 1.0, nil
		}
		return 0.0, nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
}

func zeroOf(cell any) any {
	if _, ok := cell.(string); ok {
		return ""
	}
	return 0.0
}

func zeroLike(col []any) any {
	if len(col) == 0 {
		return 0.0
	}
	return zeroOf(col[0])
}

func formatCell(cell any, precision int) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		if math.IsNaN(v) {
			return "NaN"
		}
		if v == math.Trunc(v) && math.Abs(v) < 1e9 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
	return fmt.Sprint(cell)
}
