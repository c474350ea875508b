package array

import (
	"fmt"
	"strings"

	"github.com/robbyt/go-ijmacro/host"
	"github.com/robbyt/go-ijmacro/results"
)

const (
	indexesSuffix    = "(indexes)"
	rowNumbersSuffix = "(row numbers)"
)

// Column is one array shown by Show. An empty Name is replaced by "Value" for a single
// column and "arrayN" when several are shown.
type Column struct {
	Name   string
	Values []any
}

// Show displays columns in a results window. A title containing "(indexes)" or
// "(row numbers)" switches on the matching row label column. The title "Results" fills
// the host's main results table; any other title opens a separate window.
func Show(tables host.Tables, title string, columns ...Column) (*results.Table, error) {
	if len(columns) == 0 {
		return nil, ErrNoArrays
	}

	labels := results.NoRowLabels
	if strings.Contains(title, indexesSuffix) {
		labels = results.RowIndexes
		title = strings.TrimSpace(strings.ReplaceAll(title, indexesSuffix, ""))
	}
	if strings.Contains(title, rowNumbersSuffix) {
		labels = results.RowNumbers
		title = strings.TrimSpace(strings.ReplaceAll(title, rowNumbersSuffix, ""))
	}
	if title == "" {
		title = "Arrays"
		if len(columns) == 1 {
			title = "array"
		}
	}

	var rt *results.Table
	if strings.EqualFold(title, results.DefaultTitle) {
		rt = tables.Results()
		rt.Reset()
	} else {
		rt = results.New(title)
	}
	rt.SetRowLabels(labels)

	for i, col := range columns {
		name := col.Name
		if name == "" {
			name = "Value"
			if len(columns) > 1 {
				name = fmt.Sprintf("array%d", i+1)
			}
		}
		for row, v := range col.Values {
			if err := rt.SetValue(name, row, v); err != nil {
				return nil, fmt.Errorf("column %s: %w", name, err)
			}
		}
	}

	tables.Show(rt)
	return rt, nil
}
