package domain

import "strings"

var (
	// Undated objectives are treated as spanning this window so they always
	// overlap the filter range.
	UndatedStart = NewDate(2000, 1, 1)
	UndatedEnd   = NewDate(2099, 12, 31)
)

// FilterState is ephemeral view state. The zero value constrains nothing.
type FilterState struct {
	Search   string
	Category Category
	Status   StatusBand
	From     Date
	To       Date
}

// DefaultFilter is the reset state: no search, every category and status, and
// the whole calendar year of today.
func DefaultFilter(today Date) FilterState {
	return FilterState{
		Category: CategoryAll,
		Status:   StatusAll,
		From:     NewDate(today.Year(), 1, 1),
		To:       NewDate(today.Year(), 12, 31),
	}
}

// Filter keeps the objectives matching every predicate, in collection order.
func Filter(objectives []Objective, f FilterState) []Objective {
	out := make([]Objective, 0, len(objectives))
	for _, o := range objectives {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	return out
}

func (f FilterState) Matches(o Objective) bool {
	return f.matchesSearch(o) && f.matchesCategory(o) && f.matchesStatus(o) && f.matchesDateRange(o)
}

func (f FilterState) matchesSearch(o Objective) bool {
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(o.Title), term) ||
		strings.Contains(strings.ToLower(o.Description), term)
}

func (f FilterState) matchesCategory(o Objective) bool {
	if f.Category == "" || f.Category == CategoryAll {
		return true
	}
	return o.Category == f.Category
}

func (f FilterState) matchesStatus(o Objective) bool {
	if f.Status == "" || f.Status == StatusAll {
		return true
	}
	return f.Status.Contains(o.Progress())
}

// matchesDateRange is an interval overlap test. A zero filter bound leaves
// that side open.
func (f FilterState) matchesDateRange(o Objective) bool {
	start, end := o.StartDate, o.EndDate
	if start.IsZero() {
		start = UndatedStart
	}
	if end.IsZero() {
		end = UndatedEnd
	}
	if !f.To.IsZero() && start.After(f.To) {
		return false
	}
	if !f.From.IsZero() && end.Before(f.From) {
		return false
	}
	return true
}

// IsDefault reports whether f equals the reset state for today.
func (f FilterState) IsDefault(today Date) bool {
	d := DefaultFilter(today)
	return f.Search == d.Search &&
		f.Category == d.Category &&
		f.Status == d.Status &&
		f.From.Equal(d.From) &&
		f.To.Equal(d.To)
}
