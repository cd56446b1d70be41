package dto

type KeyResultInput struct {
	Title   string
	Target  float64
	Current float64
}

// SaveObjectiveInput creates an objective when ID is empty and replaces the
// objective with that ID otherwise. On update a nil KeyResults keeps the
// existing key results.
type SaveObjectiveInput struct {
	ID          string
	Title       string
	Description string
	Category    string
	Timeframe   string
	StartDate   string
	EndDate     string
	KeyResults  []KeyResultInput
}

type AddKeyResultInput struct {
	ObjectiveID string
	KeyResult   KeyResultInput
}

type RemoveKeyResultInput struct {
	ObjectiveID string
	KeyResultID string
}

// UpdateProgressInput carries the value exactly as typed; it is coerced to a
// non-negative integer.
type UpdateProgressInput struct {
	ObjectiveID string
	KeyResultID string
	Value       string
}

// FilterInput overrides the default filter field by field. Empty fields keep
// the default; AllDates drops the date range entirely.
type FilterInput struct {
	Search   string
	Category string
	Status   string
	From     string
	To       string
	AllDates bool
}

type HistoryEntryOutput struct {
	Date  string
	Value float64
}

type KeyResultOutput struct {
	ID       string
	Title    string
	Current  float64
	Target   float64
	Progress int
	Status   string
	Done     bool
	Recent   []HistoryEntryOutput
	History  []HistoryEntryOutput
}

type ObjectiveOutput struct {
	ID          string
	Title       string
	Description string
	Category    string
	Timeframe   string
	StartDate   string
	EndDate     string
	Progress    int
	Status      string
	KeyResults  []KeyResultOutput
}

type SaveObjectiveOutput struct {
	Objective ObjectiveOutput
	Created   bool
	Persisted bool
}

type DeleteObjectiveOutput struct {
	ID        string
	Title     string
	Persisted bool
}

type KeyResultMutationOutput struct {
	ObjectiveID       string
	ObjectiveProgress int
	KeyResult         KeyResultOutput
	Persisted         bool
}

type FilterOutput struct {
	Search   string
	Category string
	Status   string
	From     string
	To       string
}

type ChartEntryOutput struct {
	Label          string
	FullLabel      string
	Progress       int
	KeyResultCount int
	Category       string
	Status         string
}

type SummaryOutput struct {
	Total           int
	AverageProgress int
	ByStatus        map[string]int
	ByCategory      map[string]int
}

type DashboardOutput struct {
	Filter     FilterOutput
	Objectives []ObjectiveOutput
	Chart      []ChartEntryOutput
	Summary    SummaryOutput
	// TotalCount is the size of the unfiltered collection.
	TotalCount int
	// Warning describes a recovered load problem, empty when none.
	Warning string
}
