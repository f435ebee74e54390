package model

// Warehouse schema names. Fact tables hold per-country daily metrics,
// dimension tables hold the values facts are allowed to reference.
const (
	SchemaFact = "fact"
	SchemaDim  = "dim"
)

// Target identifies one warehouse table: a schema (namespace) plus a table
// name. FileStem overrides the stem used by the file backend when it differs
// from the SQL table name.
type Target struct {
	Schema   string
	Table    string
	FileStem string
}

func (t Target) String() string {
	return t.Schema + "." + t.Table
}

// FileName maps the target onto the file backend's naming convention:
// f_<table> for fact tables, d_<table> for dimensions.
func (t Target) FileName() string {
	stem := t.Table
	if t.FileStem != "" {
		stem = t.FileStem
	}
	switch t.Schema {
	case SchemaFact:
		return "f_" + stem
	case SchemaDim:
		return "d_" + stem
	default:
		return t.Schema + "_" + stem
	}
}

// Warehouse targets. The calendar dimension is stored as d_date by the file
// backend, matching the star-schema naming used there.
var (
	TargetDailyCases        = Target{Schema: SchemaFact, Table: "daily_cases"}
	TargetCalendar          = Target{Schema: SchemaDim, Table: "calendar", FileStem: "date"}
	TargetCountry           = Target{Schema: SchemaDim, Table: "country"}
	TargetDailyDeaths       = Target{Schema: SchemaFact, Table: "daily_deaths"}
	TargetDailyVaccinations = Target{Schema: SchemaFact, Table: "daily_vaccinations"}
	TargetDailyHospital     = Target{Schema: SchemaFact, Table: "daily_hospital_admissions"}
	TargetDailyExcess       = Target{Schema: SchemaFact, Table: "daily_excess_mortality"}
)

// Dataset describes one remote source: where to fetch it, which columns to
// drop before normalization, and the fact table it lands in.
type Dataset struct {
	Name        string
	URL         string
	Target      Target
	DropColumns []string
}

// Default dataset registry. URLs can be overridden per dataset via config.
var Datasets = map[TaskName]Dataset{
	TaskIngestCases: {
		Name:   "cases-tests",
		URL:    "https://covid.ourworldindata.org/data/internal/megafile--cases-tests.json",
		Target: TargetDailyCases,
	},
	TaskIngestDeaths: {
		Name:        "deaths",
		URL:         "https://covid.ourworldindata.org/data/internal/megafile--deaths.json",
		Target:      TargetDailyDeaths,
		DropColumns: []string{"continent"},
	},
	TaskIngestVaccinations: {
		Name:   "vaccinations",
		URL:    "https://covid.ourworldindata.org/data/internal/megafile--vaccinations.json",
		Target: TargetDailyVaccinations,
	},
	TaskIngestHospital: {
		Name:   "hospital-admissions",
		URL:    "https://covid.ourworldindata.org/data/internal/megafile--hospital-admissions.json",
		Target: TargetDailyHospital,
	},
	TaskIngestExcess: {
		Name:   "excess-mortality",
		URL:    "https://covid.ourworldindata.org/data/internal/megafile--excess-mortality.json",
		Target: TargetDailyExcess,
	},
}
