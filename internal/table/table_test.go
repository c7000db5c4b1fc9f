package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cells(t *Table, name string) []string {
	c, ok := t.Column(name)
	if !ok {
		return nil
	}
	out := make([]string, len(c.Cells))
	for i, v := range c.Cells {
		if v != nil {
			out[i] = *v
		} else {
			out[i] = "<nil>"
		}
	}
	return out
}

func TestRead_RaggedColumnsAndBOM(t *testing.T) {
	input := "\ufeffTitanic (1997),Barbie (2023)\n" +
		"great,\"pink, fun\"\n" +
		",awful\n" +
		"fine\n"

	tbl, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Titanic (1997)", "Barbie (2023)"}, tbl.Names())
	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, []string{"great", "<nil>", "fine"}, cells(tbl, "Titanic (1997)"))
	assert.Equal(t, []string{"pink, fun", "awful", "<nil>"}, cells(tbl, "Barbie (2023)"))
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestWrite_RoundTripKeepsShape(t *testing.T) {
	tbl := New("a", "b")
	tbl.Columns[0].Cells = []*string{Str("x"), nil, Str("z")}
	tbl.Columns[1].Cells = []*string{Str("1")}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl))
	assert.Equal(t, "a,b\nx,1\n,\nz,\n", buf.String())
}

func TestMap_SkipsNilCells(t *testing.T) {
	tbl := New("a")
	tbl.Columns[0].Cells = []*string{Str("x"), nil}

	calls := 0
	out := tbl.Map(func(column, v string) *string {
		calls++
		assert.Equal(t, "a", column)
		up := strings.ToUpper(v)
		return &up
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"X", "<nil>"}, cells(out, "a"))
	assert.Equal(t, []string{"x", "<nil>"}, cells(tbl, "a"), "source table must not change")
}

func TestDropEmptyRows(t *testing.T) {
	tbl := New("a", "b")
	tbl.Columns[0].Cells = []*string{nil, Str("x"), nil, nil}
	tbl.Columns[1].Cells = []*string{nil, nil, Str("y")}

	out := tbl.DropEmptyRows()

	assert.Equal(t, 2, out.Rows())
	assert.Equal(t, []string{"x", "<nil>"}, cells(out, "a"))
	assert.Equal(t, []string{"<nil>", "y"}, cells(out, "b"))
}

func TestAddColumnAndValues(t *testing.T) {
	tbl := New()
	tbl.AddColumn("m", []string{"one", "  ", "two"})

	c, ok := tbl.Column("m")
	require.True(t, ok)
	assert.Equal(t, []string{"one", "two"}, c.Values())
	assert.Equal(t, 2, tbl.CountValues())
	assert.True(t, tbl.HasColumn("m"))
	assert.False(t, tbl.HasColumn("n"))
}

func TestWriteFile_ReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")

	tbl := New("movie")
	tbl.AddColumn("other", []string{"α", "β"})
	require.NoError(t, WriteFile(path, tbl))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"movie", "other"}, got.Names())
	assert.Equal(t, []string{"α", "β"}, cells(got, "other"))
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
