package results

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_AddValue(t *testing.T) {
	t.Parallel()

	tbl := New("data")
	for _, v := range []float64{1.234, 2.345, 3.456} {
		tbl.IncrementCounter()
		require.NoError(t, tbl.AddValue("Value", v))
	}

	assert.Equal(t, 3, tbl.Size())
	assert.Equal(t, "data", tbl.Title())
	assert.Equal(t, "Value", tbl.ColumnHeading(0))
	assert.Empty(t, tbl.ColumnHeading(1))

	got, err := tbl.Value("Value", 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.345, got, 1e-9)

	col, ok := tbl.ColumnAt(0)
	require.True(t, ok)
	assert.Equal(t, []any{1.234, 2.345, 3.456}, col)
}

func TestTable_RowString(t *testing.T) {
	t.Parallel()

	build := func(labels RowLabels) *Table {
		tbl := New("data")
		tbl.SetRowLabels(labels)
		for i, v := range []float64{1.5, 2, 3} {
			require.NoError(t, tbl.SetValue("a", i, v))
			require.NoError(t, tbl.SetValue("b", i, "x"))
		}
		return tbl
	}

	tests := []struct {
		name     string
		labels   RowLabels
		row      int
		want     string
		headings string
	}{
		{name: "no labels", labels: NoRowLabels, row: 0, want: "1.500\tx", headings: "a\tb"},
		{name: "row numbers", labels: RowNumbers, row: 2, want: "3\t3\tx", headings: " \ta\tb"},
		{name: "row indexes", labels: RowIndexes, row: 2, want: "2\t3\tx", headings: " \ta\tb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := build(tt.labels)
			got, err := tbl.RowString(tt.row)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.headings, tbl.ColumnHeadings())
		})
	}

	t.Run("out of range", func(t *testing.T) {
		_, err := build(NoRowLabels).RowString(3)
		require.ErrorIs(t, err, ErrRowOutOfRange)
	})
}

func TestTable_SetValueErrors(t *testing.T) {
	t.Parallel()

	tbl := New("")
	assert.Equal(t, DefaultTitle, tbl.Title())
	require.ErrorIs(t, tbl.SetValue("a", 2, 1.0), ErrRowOutOfRange)
	require.ErrorIs(t, tbl.SetValue("", 0, 1.0), ErrEmptyColumn)
	require.ErrorIs(t, tbl.SetValue("a", 0, struct{}{}), ErrUnsupportedValue)

	_, err := tbl.Value("missing", 0)
	require.ErrorIs(t, err, ErrNoSuchColumn)
}

func TestTable_DeleteAndReset(t *testing.T) {
	t.Parallel()

	tbl := New("t")
	for i := range 3 {
		require.NoError(t, tbl.SetValue("n", i, i))
	}
	require.NoError(t, tbl.DeleteRow(1))
	col, _ := tbl.Column("n")
	assert.Equal(t, []any{0.0, 2.0}, col)

	tbl.Reset()
	assert.Equal(t, 0, tbl.Size())
	assert.Empty(t, tbl.Headings())
}

func TestTable_Save(t *testing.T) {
	t.Parallel()

	tbl := New("Measurements")
	for i, v := range []float64{10, 20.25} {
		require.NoError(t, tbl.SetValue("Area", i, v))
		require.NoError(t, tbl.SetValue("Label", i, "roi"))
	}
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(dir, "out.csv")
		require.NoError(t, tbl.Save(context.Background(), path))
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Area,Label\n10,roi\n20.250,roi\n", string(b))
	})

	t.Run("tab text", func(t *testing.T) {
		path := filepath.Join(dir, "out.txt")
		require.NoError(t, tbl.Save(context.Background(), path))
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Area\tLabel\n10\troi\n20.250\troi\n", string(b))
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(dir, "out.db")
		require.NoError(t, tbl.Save(context.Background(), path))

		db, err := sql.Open("sqlite", path)
		require.NoError(t, err)
		defer db.Close()

		var count int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "Measurements"`).Scan(&count))
		assert.Equal(t, 2, count)

		var area float64
		require.NoError(t, db.QueryRow(`SELECT "Area" FROM "Measurements" WHERE "row" = 2`).Scan(&area))
		assert.InDelta(t, 20.25, area, 1e-9)
	})

	t.Run("unsupported", func(t *testing.T) {
		err := tbl.Save(context.Background(), filepath.Join(dir, "out.png"))
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}
