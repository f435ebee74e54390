package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"covid-warehouse/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() model.Table {
	return model.Table{
		Columns: []string{"date", "country", "new_cases"},
		Rows: []model.Record{
			{"date": "2021-01-01", "country": "A", "new_cases": 10.0},
			{"date": "2021-01-02", "country": "B", "new_cases": 20.0},
		},
	}
}

func TestFileStore_WriteReadRoundTrip(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, fs.WriteTable(ctx, model.TargetDailyCases, sampleTable()))

	got, err := fs.ReadTable(ctx, model.TargetDailyCases)
	require.NoError(t, err)
	assert.Equal(t, sampleTable(), got)
}

func TestFileStore_UsesStarSchemaFileNames(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)
	ctx := context.Background()

	require.NoError(t, fs.WriteTable(ctx, model.TargetDailyCases, sampleTable()))
	require.NoError(t, fs.WriteTable(ctx, model.TargetCalendar, model.Table{Columns: []string{"date"}}))
	require.NoError(t, fs.WriteTable(ctx, model.TargetCountry, model.Table{Columns: []string{"country"}}))

	for _, name := range []string{"f_daily_cases.json.sz", "d_date.json.sz", "d_country.json.sz"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected %s to exist", name)
	}
}

func TestFileStore_WriteReplacesPriorContents(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	ctx := context.Background()

	big := sampleTable()
	require.NoError(t, fs.WriteTable(ctx, model.TargetDailyCases, big))

	small := model.Table{
		Columns: []string{"date", "country"},
		Rows:    []model.Record{{"date": "2022-05-05", "country": "C"}},
	}
	require.NoError(t, fs.WriteTable(ctx, model.TargetDailyCases, small))

	got, err := fs.ReadTable(ctx, model.TargetDailyCases)
	require.NoError(t, err)
	assert.Equal(t, small, got)
}

func TestFileStore_RewriteIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)
	ctx := context.Background()
	path := filepath.Join(dir, "f_daily_cases.json.sz")

	require.NoError(t, fs.WriteTable(ctx, model.TargetDailyCases, sampleTable()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, fs.WriteTable(ctx, model.TargetDailyCases, sampleTable()))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFileStore_ReadMissingTableFails(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	_, err := fs.ReadTable(context.Background(), model.TargetDailyCases)

	assert.Error(t, err)
}

func TestFileStore_EnsureSchemaCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "model")
	fs := NewFileStore(dir)

	require.NoError(t, fs.EnsureSchema(context.Background(), model.SchemaFact))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMemory_CopiesOnWriteAndRead(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	table := sampleTable()
	require.NoError(t, mem.WriteTable(ctx, model.TargetDailyCases, table))
	table.Rows[0]["country"] = "mutated"

	got, err := mem.ReadTable(ctx, model.TargetDailyCases)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Rows[0]["country"])

	got.Rows[1]["country"] = "mutated too"
	again, err := mem.ReadTable(ctx, model.TargetDailyCases)
	require.NoError(t, err)
	assert.Equal(t, "B", again.Rows[1]["country"])
}
