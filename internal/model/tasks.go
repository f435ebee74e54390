package model

// TaskName identifies one pipeline task.
type TaskName string

const (
	TaskIngestCases        TaskName = "ingest_cases"
	TaskBuildCalendar      TaskName = "build_calendar_dimension"
	TaskBuildCountries     TaskName = "build_country_dimension"
	TaskIngestDeaths       TaskName = "ingest_deaths"
	TaskIngestVaccinations TaskName = "ingest_vaccinations"
	TaskIngestHospital     TaskName = "ingest_hospital_admissions"
	TaskIngestExcess       TaskName = "ingest_excess_mortality"
)

// Dependencies declares the ancestors of every task. A task may not start
// until all of its ancestors have completed; if any ancestor failed the task
// is skipped. The graph is fixed and small, so it is declared rather than
// computed.
var Dependencies = map[TaskName][]TaskName{
	TaskIngestCases:        nil,
	TaskBuildCalendar:      {TaskIngestCases},
	TaskBuildCountries:     {TaskIngestCases},
	TaskIngestDeaths:       {TaskBuildCalendar, TaskBuildCountries},
	TaskIngestVaccinations: {TaskBuildCalendar, TaskBuildCountries},
	TaskIngestHospital:     {TaskBuildCalendar, TaskBuildCountries},
	TaskIngestExcess:       {TaskBuildCalendar, TaskBuildCountries},
}

// Waves returns the execution order implied by Dependencies: the primary
// fact ingest, then the two dimension builders, then the remaining fact
// ingests. Tasks within a wave are independent and run concurrently.
func Waves() [][]TaskName {
	return [][]TaskName{
		{TaskIngestCases},
		{TaskBuildCalendar, TaskBuildCountries},
		{TaskIngestDeaths, TaskIngestVaccinations, TaskIngestHospital, TaskIngestExcess},
	}
}

// AllTasks returns every task in wave order.
func AllTasks() []TaskName {
	var all []TaskName
	for _, wave := range Waves() {
		all = append(all, wave...)
	}
	return all
}
