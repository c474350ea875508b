package results

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Save writes the table to path. The format follows the extension: ".csv" is comma
// separated, ".db" and ".sqlite" create a SQLite table named after the table title,
// anything else is tab separated text.
func (t *Table) Save(ctx context.Context, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return t.saveDelimited(path, ',')
	case ".txt", ".tsv", ".xls", "":
		return t.saveDelimited(path, '\t')
	case ".db", ".sqlite", ".sqlite3":
		return t.saveSQLite(ctx, path)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func (t *Table) saveDelimited(path string, sep rune) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = sep

	t.mu.RLock()
	header := make([]string, 0, len(t.headings)+1)
	if t.labels != NoRowLabels {
		header = append(header, " ")
	}
	header = append(header, t.headings...)
	records := [][]string{header}
	for i := range t.rows {
		records = append(records, t.rowCells(i))
	}
	t.mu.RUnlock()

	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return f.Close()
}

func (t *Table) saveSQLite(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	defer db.Close()

	t.mu.RLock()
	defer t.mu.RUnlock()

	table := quoteIdent(t.title)
	cols := []string{`"row" INTEGER PRIMARY KEY`}
	names := []string{`"row"`}
	for _, h := range t.headings {
		kind := "DOUBLE"
		if len(t.columns[h]) > 0 {
			if _, isString := t.columns[h][0].(string); isString {
				kind = "TEXT"
			}
		}
		cols = append(cols, quoteIdent(h)+" "+kind)
		names = append(names, quoteIdent(h))
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []string{
		"DROP TABLE IF EXISTS " + table,
		"CREATE TABLE " + table + " (" + strings.Join(cols, ", ") + ")",
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("%w: %w", ErrSaveFailed, err)
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	insert, err := tx.PrepareContext(ctx,
		"INSERT INTO "+table+" ("+strings.Join(names, ", ")+") VALUES ("+placeholders+")")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	defer insert.Close()

	for i := range t.rows {
		args := make([]any, 0, len(names))
		args = append(args, i+1)
		for _, h := range t.headings {
			args = append(args, t.columns[h][i])
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%w: row %d: %w", ErrSaveFailed, i, err)
		}
	}
	return tx.Commit()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
