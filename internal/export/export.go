// Package export writes a recipe list to a spreadsheet, as CSV or XLSX
// depending on the output file extension.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// SheetName is the XLSX sheet holding the recipes.
const SheetName = "Recipes"

var header = []string{
	"id", "name", "cuisine", "difficulty", "prep_minutes", "cook_minutes",
	"servings", "calories", "rating", "reviews", "tags", "ingredients", "instructions",
}

func record(r *domain.Recipe) []string {
	return []string{
		strconv.Itoa(r.ID),
		r.Name,
		r.Cuisine,
		r.Difficulty,
		strconv.Itoa(r.PrepTimeMinutes),
		strconv.Itoa(r.CookTimeMinutes),
		strconv.Itoa(r.Servings),
		strconv.Itoa(r.CaloriesPerServing),
		strconv.FormatFloat(r.Rating, 'f', 1, 64),
		strconv.Itoa(r.ReviewCount),
		strings.Join(r.Tags, ", "),
		strings.Join(r.Ingredients, "; "),
		strings.Join(r.Instructions, " "),
	}
}

// File writes recipes to path, choosing the format from its extension
// (.xlsx or .csv).
func File(path string, recipes []domain.Recipe) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("export: create %s: %w", path, err)
		}
		if err := WriteXLSX(f, recipes); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("export: create %s: %w", path, err)
		}
		if err := WriteCSV(f, recipes); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("export: unsupported extension %q (want .xlsx or .csv)", filepath.Ext(path))
	}
}

// WriteCSV writes a header row and one row per recipe.
func WriteCSV(w io.Writer, recipes []domain.Recipe) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range recipes {
		if err := cw.Write(record(&recipes[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a workbook with a single "Recipes" sheet. Numeric
// columns are written as numbers.
func WriteXLSX(w io.Writer, recipes []domain.Recipe) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("export: stream writer: %w", err)
	}

	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := sw.SetRow("A1", head); err != nil {
		return err
	}

	for i := range recipes {
		r := &recipes[i]
		row := []interface{}{
			r.ID, r.Name, r.Cuisine, r.Difficulty, r.PrepTimeMinutes, r.CookTimeMinutes,
			r.Servings, r.CaloriesPerServing, r.Rating, r.ReviewCount,
			strings.Join(r.Tags, ", "), strings.Join(r.Ingredients, "; "), strings.Join(r.Instructions, " "),
		}
		cell, err := dataCell(i)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// dataCell returns the first cell of the i-th recipe row: A2, A3, ...
func dataCell(i int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(1, i+2)
	if err != nil {
		return "", fmt.Errorf("export: row %d: %w", i+2, err)
	}
	return cell, nil
}
