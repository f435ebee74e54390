package pipeline

import (
	"context"
	"fmt"

	"covid-warehouse/internal/model"
)

// ingestCases fetches the primary cases/tests dataset, normalizes it and
// writes the primary fact table. Everything downstream derives from it.
func (r *Runner) ingestCases(ctx context.Context) (int, error) {
	task := model.TaskIngestCases
	dataset := r.dataset(task)

	table, err := r.fetcher.FetchDataset(ctx, dataset.URL)
	if err != nil {
		return 0, taskError(task, ErrorKindFetch, err)
	}
	if err := NormalizeLocation(&table); err != nil {
		return 0, taskError(task, ErrorKindSchema, err)
	}
	if err := CanonicalizeDates(&table); err != nil {
		return 0, taskError(task, ErrorKindSchema, err)
	}

	if err := r.store.EnsureSchema(ctx, model.SchemaFact); err != nil {
		return 0, taskError(task, ErrorKindStorage, err)
	}
	if err := r.store.WriteTable(ctx, dataset.Target, table); err != nil {
		return 0, taskError(task, ErrorKindStorage, err)
	}
	return len(table.Rows), nil
}

// buildCalendar derives the date dimension from the persisted primary fact
// table and replaces dim.calendar.
func (r *Runner) buildCalendar(ctx context.Context) (int, error) {
	task := model.TaskBuildCalendar

	fact, err := r.store.ReadTable(ctx, model.TargetDailyCases)
	if err != nil {
		return 0, taskError(task, ErrorKindStorage, err)
	}
	calendar, err := BuildCalendar(fact)
	if err != nil {
		return 0, taskError(task, ErrorKindSchema, err)
	}

	if err := r.store.EnsureSchema(ctx, model.SchemaDim); err != nil {
		return 0, taskError(task, ErrorKindStorage, err)
	}
	if err := r.store.WriteTable(ctx, model.TargetCalendar, calendar); err != nil {
		return 0, taskError(task, ErrorKindStorage, err)
	}
	return len(calendar.Rows), nil
}

// buildCountries derives the country dimension from the persisted primary
// fact table and replaces dim.country.
func (r *Runner) buildCountries(ctx context.Context) (int, error) {
	task := model.TaskBuildCountries

	fact, err := r.store.ReadTable(ctx, model.TargetDailyCases)
	if err != nil {
		return 0, taskError(task, ErrorKindStorage, err)
	}
	countries, err := BuildCountries(fact)
	if err != nil {
		return 0, taskError(task, ErrorKindSchema, err)
	}

	if err := r.store.EnsureSchema(ctx, model.SchemaDim); err != nil {
		return 0, taskError(task, ErrorKindStorage, err)
	}
	if err := r.store.WriteTable(ctx, model.TargetCountry, countries); err != nil {
		return 0, taskError(task, ErrorKindStorage, err)
	}
	return len(countries.Rows), nil
}

// ingestFact fetches one downstream dataset, normalizes it, enforces
// referential integrity against both dimensions and replaces its fact
// table. Rows whose date or country is unknown are dropped by the joins.
func (r *Runner) ingestFact(ctx context.Context, task model.TaskName) (int, error) {
	dataset := r.dataset(task)

	table, err := r.fetcher.FetchDataset(ctx, dataset.URL)
	if err != nil {
		return 0, taskError(task, ErrorKindFetch, err)
	}
	for _, col := range dataset.DropColumns {
		DropColumn(&table, col)
	}
	if err := NormalizeLocation(&table); err != nil {
		return 0, taskError(task, ErrorKindSchema, err)
	}
	if err := CanonicalizeDates(&table); err != nil {
		return 0, taskError(task, ErrorKindSchema, err)
	}

	calendar, err := r.store.ReadTable(ctx, model.TargetCalendar)
	if err != nil {
		return 0, taskError(task, ErrorKindStorage, err)
	}
	countries, err := r.store.ReadTable(ctx, model.TargetCountry)
	if err != nil {
		return 0, taskError(task, ErrorKindStorage, err)
	}

	table = SemiJoin(table, calendar, ColumnDate)
	table = SemiJoin(table, countries, ColumnCountry)

	if err := r.store.EnsureSchema(ctx, model.SchemaFact); err != nil {
		return 0, taskError(task, ErrorKindStorage, err)
	}
	if err := r.store.WriteTable(ctx, dataset.Target, table); err != nil {
		return 0, taskError(task, ErrorKindStorage, err)
	}
	return len(table.Rows), nil
}

func (r *Runner) dataset(task model.TaskName) model.Dataset {
	dataset := model.Datasets[task]
	if url, ok := r.urlOverrides[dataset.Name]; ok && url != "" {
		dataset.URL = url
	}
	return dataset
}

// taskFunc resolves a task name to its implementation.
func (r *Runner) taskFunc(task model.TaskName) func(context.Context) (int, error) {
	switch task {
	case model.TaskIngestCases:
		return r.ingestCases
	case model.TaskBuildCalendar:
		return r.buildCalendar
	case model.TaskBuildCountries:
		return r.buildCountries
	case model.TaskIngestDeaths, model.TaskIngestVaccinations, model.TaskIngestHospital, model.TaskIngestExcess:
		return func(ctx context.Context) (int, error) {
			return r.ingestFact(ctx, task)
		}
	default:
		return func(context.Context) (int, error) {
			return 0, fmt.Errorf("unknown task: %s", task)
		}
	}
}
