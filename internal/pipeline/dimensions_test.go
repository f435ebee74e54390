package pipeline

import (
	"testing"

	"covid-warehouse/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func primaryFact() model.Table {
	return model.Table{
		Columns: []string{"date", "country", "new_cases"},
		Rows: []model.Record{
			{"date": "2021-01-01", "country": "A", "new_cases": 1.0},
			{"date": "2021-01-02", "country": "B", "new_cases": 2.0},
			{"date": "2021-01-01", "country": "A", "new_cases": 3.0},
		},
	}
}

func TestBuildCalendar_DeduplicatesAndDecomposesDates(t *testing.T) {
	calendar, err := BuildCalendar(primaryFact())

	require.NoError(t, err)
	assert.Equal(t, []string{"date", "year", "month", "day"}, calendar.Columns)
	require.Len(t, calendar.Rows, 2)
	assert.Equal(t, model.Record{"date": "2021-01-01", "year": 2021, "month": 1, "day": 1}, calendar.Rows[0])
	assert.Equal(t, model.Record{"date": "2021-01-02", "year": 2021, "month": 1, "day": 2}, calendar.Rows[1])
}

func TestBuildCalendar_FailsWithoutDateColumn(t *testing.T) {
	_, err := BuildCalendar(model.Table{Columns: []string{"country"}})

	assert.Error(t, err)
}

func TestBuildCountries_DeduplicatesCountries(t *testing.T) {
	countries, err := BuildCountries(primaryFact())

	require.NoError(t, err)
	assert.Equal(t, []string{"country"}, countries.Columns)
	require.Len(t, countries.Rows, 2)
	assert.Equal(t, "A", countries.Rows[0]["country"])
	assert.Equal(t, "B", countries.Rows[1]["country"])
}

func TestBuildCountries_FailsWithoutCountryColumn(t *testing.T) {
	_, err := BuildCountries(model.Table{Columns: []string{"date"}})

	assert.Error(t, err)
}

// Regenerating a dimension from the same fact table yields an identical
// dimension: derivation is wholesale replace, never accumulation.
func TestDimensions_AreDeterministic(t *testing.T) {
	first, err := BuildCalendar(primaryFact())
	require.NoError(t, err)
	second, err := BuildCalendar(primaryFact())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
