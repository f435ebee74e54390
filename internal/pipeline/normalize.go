package pipeline

import (
	"fmt"

	"covid-warehouse/internal/model"
	"covid-warehouse/pkg/utils"
)

// Canonical column names used throughout the warehouse.
const (
	ColumnCountry  = "country"
	ColumnDate     = "date"
	columnLocation = "location"
)

// NormalizeLocation renames the source's location column to the canonical
// country key. A dataset that already carries a country column passes
// through; one that carries neither is a schema failure.
func NormalizeLocation(t *model.Table) error {
	if t.HasColumn(columnLocation) {
		renameColumn(t, columnLocation, ColumnCountry)
		return nil
	}
	if t.HasColumn(ColumnCountry) {
		return nil
	}
	return fmt.Errorf("missing %s column", columnLocation)
}

// DropColumn removes a column if present. Absence is tolerated without
// error; the deaths dataset does not always carry continent.
func DropColumn(t *model.Table, name string) {
	kept := t.Columns[:0]
	for _, col := range t.Columns {
		if col != name {
			kept = append(kept, col)
		}
	}
	t.Columns = kept
	for _, row := range t.Rows {
		delete(row, name)
	}
}

// CanonicalizeDates rewrites the date column to canonical YYYY-MM-DD
// strings so joins and the calendar decomposition compare exact values.
func CanonicalizeDates(t *model.Table) error {
	if !t.HasColumn(ColumnDate) {
		return fmt.Errorf("missing %s column", ColumnDate)
	}
	for i, row := range t.Rows {
		raw, ok := row[ColumnDate]
		if !ok {
			continue
		}
		ts, err := utils.ParseDate(raw)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		row[ColumnDate] = ts.Format(utils.DateLayout)
	}
	return nil
}

func renameColumn(t *model.Table, from, to string) {
	for i, col := range t.Columns {
		if col == from {
			t.Columns[i] = to
		}
	}
	for _, row := range t.Rows {
		if v, ok := row[from]; ok {
			row[to] = v
			delete(row, from)
		}
	}
}
