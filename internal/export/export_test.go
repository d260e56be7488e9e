package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

var sample = []domain.Recipe{
	{ID: 1, Name: "Classic Margherita Pizza", Cuisine: "Italian", Difficulty: "Easy", PrepTimeMinutes: 20, CookTimeMinutes: 15,
		Servings: 4, CaloriesPerServing: 300, Rating: 4.6, ReviewCount: 98,
		Ingredients: []string{"Pizza dough", "Basil"}, Tags: []string{"Pizza", "Italian"}, Instructions: []string{"Preheat.", "Bake."}},
	{ID: 2, Name: "Vegetarian Stir-Fry", Cuisine: "Asian", Difficulty: "Medium", Rating: 4.7},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, "Classic Margherita Pizza", rows[1][1])
	assert.Equal(t, "Pizza, Italian", rows[1][10])
	assert.Equal(t, "Pizza dough; Basil", rows[1][11])
	assert.Equal(t, "4.7", rows[2][8])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sample))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "name", rows[0][1])
	assert.Equal(t, "Vegetarian Stir-Fry", rows[2][1])

	v, err := f.GetCellValue(SheetName, "E2")
	require.NoError(t, err)
	assert.Equal(t, "20", v)
}

func TestDataCell(t *testing.T) {
	cell, err := dataCell(0)
	require.NoError(t, err)
	assert.Equal(t, "A2", cell)

	_, err = dataCell(excelize.TotalRows)
	require.ErrorIs(t, err, excelize.ErrMaxRows)
}

func TestFileByExtension(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"out.csv", "out.XLSX"} {
		path := filepath.Join(dir, name)
		require.NoError(t, File(path, sample), name)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	require.Error(t, File(filepath.Join(dir, "out.pdf"), sample))
}
