package pipeline

import (
	"fmt"
	"sort"

	"covid-warehouse/internal/model"
	"covid-warehouse/pkg/utils"
)

// BuildCalendar derives the date dimension from the primary fact table:
// one row per distinct date, decomposed into year, month and day.
func BuildCalendar(fact model.Table) (model.Table, error) {
	if !fact.HasColumn(ColumnDate) {
		return model.Table{}, fmt.Errorf("fact table missing %s column", ColumnDate)
	}

	dates := distinctStrings(fact, ColumnDate)
	table := model.Table{Columns: []string{ColumnDate, "year", "month", "day"}}
	for _, date := range dates {
		ts, err := utils.ParseDate(date)
		if err != nil {
			return model.Table{}, fmt.Errorf("date %q: %w", date, err)
		}
		table.Rows = append(table.Rows, model.Record{
			ColumnDate: date,
			"year":     ts.Year(),
			"month":    int(ts.Month()),
			"day":      ts.Day(),
		})
	}
	return table, nil
}

// BuildCountries derives the country dimension from the primary fact table:
// one row per distinct country.
func BuildCountries(fact model.Table) (model.Table, error) {
	if !fact.HasColumn(ColumnCountry) {
		return model.Table{}, fmt.Errorf("fact table missing %s column", ColumnCountry)
	}

	table := model.Table{Columns: []string{ColumnCountry}}
	for _, country := range distinctStrings(fact, ColumnCountry) {
		table.Rows = append(table.Rows, model.Record{ColumnCountry: country})
	}
	return table, nil
}

// distinctStrings returns the sorted distinct values of one column. Sorting
// keeps regenerated dimensions identical run over run.
func distinctStrings(t model.Table, column string) []string {
	seen := make(map[string]struct{})
	for _, row := range t.Rows {
		if v, ok := row[column]; ok {
			seen[utils.AsString(v)] = struct{}{}
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
