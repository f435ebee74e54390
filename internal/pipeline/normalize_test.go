package pipeline

import (
	"testing"

	"covid-warehouse/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLocation_RenamesLocationToCountry(t *testing.T) {
	table := model.Table{
		Columns: []string{"date", "location", "new_cases"},
		Rows: []model.Record{
			{"date": "2021-01-01", "location": "Andorra", "new_cases": 3.0},
		},
	}

	err := NormalizeLocation(&table)

	require.NoError(t, err)
	assert.Equal(t, []string{"date", "country", "new_cases"}, table.Columns)
	assert.Equal(t, "Andorra", table.Rows[0]["country"])
	assert.NotContains(t, table.Rows[0], "location")
}

func TestNormalizeLocation_PassesThroughExistingCountryColumn(t *testing.T) {
	table := model.Table{
		Columns: []string{"date", "country"},
		Rows:    []model.Record{{"date": "2021-01-01", "country": "Belize"}},
	}

	err := NormalizeLocation(&table)

	require.NoError(t, err)
	assert.Equal(t, []string{"date", "country"}, table.Columns)
}

func TestNormalizeLocation_FailsWithoutLocationOrCountry(t *testing.T) {
	table := model.Table{Columns: []string{"date", "new_cases"}}

	err := NormalizeLocation(&table)

	assert.Error(t, err)
}

func TestDropColumn_RemovesContinentWhenPresent(t *testing.T) {
	table := model.Table{
		Columns: []string{"date", "location", "continent", "new_deaths"},
		Rows: []model.Record{
			{"date": "2021-01-01", "location": "Chad", "continent": "Africa", "new_deaths": 1.0},
		},
	}

	DropColumn(&table, "continent")

	assert.Equal(t, []string{"date", "location", "new_deaths"}, table.Columns)
	assert.NotContains(t, table.Rows[0], "continent")
}

func TestDropColumn_ToleratesAbsentColumn(t *testing.T) {
	table := model.Table{
		Columns: []string{"date", "location"},
		Rows:    []model.Record{{"date": "2021-01-01", "location": "Chad"}},
	}

	DropColumn(&table, "continent")

	assert.Equal(t, []string{"date", "location"}, table.Columns)
}

func TestCanonicalizeDates(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"canonical string", "2021-03-05", "2021-03-05"},
		{"timestamp string", "2021-03-05T00:00:00Z", "2021-03-05"},
		{"epoch millis", float64(1614902400000), "2021-03-05"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table := model.Table{
				Columns: []string{"date"},
				Rows:    []model.Record{{"date": tc.in}},
			}

			err := CanonicalizeDates(&table)

			require.NoError(t, err)
			assert.Equal(t, tc.want, table.Rows[0]["date"])
		})
	}
}

func TestCanonicalizeDates_FailsOnMissingDateColumn(t *testing.T) {
	table := model.Table{Columns: []string{"country"}}

	err := CanonicalizeDates(&table)

	assert.Error(t, err)
}

func TestCanonicalizeDates_FailsOnUnparseableValue(t *testing.T) {
	table := model.Table{
		Columns: []string{"date"},
		Rows:    []model.Record{{"date": "not a date"}},
	}

	err := CanonicalizeDates(&table)

	assert.Error(t, err)
}
