package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "okr/internal/platform/errors"
)

const SchemaVersion = 1

type Category string

const (
	CategoryBusiness    Category = "Business"
	CategoryProduct     Category = "Product"
	CategoryEngineering Category = "Engineering"
	CategoryMarketing   Category = "Marketing"
	CategoryPersonal    Category = "Personal"

	// CategoryAll is the filter wildcard, never stored on an objective.
	CategoryAll Category = "All"

	DefaultCategory = CategoryBusiness

	// UncategorizedLabel is shown for objectives persisted without a category.
	UncategorizedLabel = "Uncategorized"
)

var Categories = []Category{CategoryBusiness, CategoryProduct, CategoryEngineering, CategoryMarketing, CategoryPersonal}

func (c Category) Validate() error {
	for _, known := range Categories {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("%w: unsupported category %q", apperrors.ErrInvalidInput, string(c))
}

// ParseCategory matches case-insensitively. An empty string maps to the default.
func ParseCategory(raw string) (Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultCategory, nil
	}
	if strings.EqualFold(raw, string(CategoryAll)) {
		return CategoryAll, nil
	}
	for _, known := range Categories {
		if strings.EqualFold(raw, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported category %q", apperrors.ErrInvalidInput, raw)
}

type Timeframe string

const (
	TimeframeNone      Timeframe = ""
	TimeframeMonthly   Timeframe = "monthly"
	TimeframeQuarterly Timeframe = "quarterly"
	TimeframeYearly    Timeframe = "yearly"
)

func (t Timeframe) Validate() error {
	switch t {
	case TimeframeNone, TimeframeMonthly, TimeframeQuarterly, TimeframeYearly:
		return nil
	default:
		return fmt.Errorf("%w: unsupported timeframe %q", apperrors.ErrInvalidInput, string(t))
	}
}

// Window returns the date range the timeframe pre-fills, starting at today.
func (t Timeframe) Window(today Date) (Date, Date) {
	switch t {
	case TimeframeMonthly:
		return today, today.AddDate(0, 1, 0)
	case TimeframeYearly:
		return today, today.AddDate(1, 0, 0)
	default:
		return today, today.AddDate(0, 3, 0)
	}
}

type HistoryEntry struct {
	Date  Date    `json:"date"`
	Value float64 `json:"value"`
}

type KeyResult struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Target  float64        `json:"target"`
	Current float64        `json:"current"`
	History []HistoryEntry `json:"history,omitempty"`
}

type Objective struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    Category    `json:"category,omitempty"`
	StartDate   Date        `json:"startDate"`
	EndDate     Date        `json:"endDate"`
	Timeframe   Timeframe   `json:"timeframe,omitempty"`
	KeyResults  []KeyResult `json:"keyResults"`
}

func (k KeyResult) Validate() error {
	if strings.TrimSpace(k.Title) == "" {
		return fmt.Errorf("%w: key result title is required", apperrors.ErrInvalidInput)
	}
	return nil
}

func (o Objective) Validate() error {
	if strings.TrimSpace(o.Title) == "" {
		return fmt.Errorf("%w: objective title is required", apperrors.ErrInvalidInput)
	}
	if err := o.Category.Validate(); err != nil {
		return err
	}
	if err := o.Timeframe.Validate(); err != nil {
		return err
	}
	for _, kr := range o.KeyResults {
		if err := kr.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Progress is the rollup with overachievement allowed, the value every
// display and chart path uses.
func (o Objective) Progress() int {
	return ObjectiveProgress(o.KeyResults, true)
}

func (o Objective) Status() StatusBand {
	return Classify(o.Progress())
}

func (o Objective) clone() Objective {
	out := o
	if o.KeyResults != nil {
		out.KeyResults = make([]KeyResult, len(o.KeyResults))
		for i, kr := range o.KeyResults {
			out.KeyResults[i] = kr.clone()
		}
	}
	return out
}

func (k KeyResult) clone() KeyResult {
	out := k
	if k.History != nil {
		out.History = append([]HistoryEntry(nil), k.History...)
	}
	return out
}

// Date is a calendar date without time of day or zone. The zero Date means
// "not set".
type Date struct {
	t time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf takes the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, nil
	}
	if len(raw) > len(dateLayout) && raw[len(dateLayout)] == 'T' {
		raw = raw[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", apperrors.ErrInvalidInput, raw)
	}
	return Date{t: t}, nil
}

func MustParseDate(raw string) Date {
	d, err := ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Year() int { return d.t.Year() }

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

func (d Date) After(other Date) bool { return d.t.After(other.t) }

func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// AddDate normalizes overflow the same way time.Time does (Jan 31 + 1 month
// is Mar 2 or 3).
func (d Date) AddDate(years, months, days int) Date {
	return Date{t: d.t.AddDate(years, months, days)}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
