package domain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"okr/internal/modules/okr/domain"
)

var today = domain.NewDate(2026, 10, 14)

func sampleCollection() domain.Collection {
	return domain.Collection{
		{
			ID: "o-1", Title: "Increase Customer Satisfaction", Description: "Raise NPS",
			Category: domain.CategoryBusiness, StartDate: domain.MustParseDate("2026-01-01"), EndDate: domain.MustParseDate("2026-03-31"),
			KeyResults: []domain.KeyResult{{ID: "k-1", Title: "NPS 60", Current: 90, Target: 100}},
		},
		{
			ID: "o-2", Title: "Ship v2", Description: "Improve Customer Satisfaction through speed",
			Category: domain.CategoryEngineering, StartDate: domain.MustParseDate("2026-04-01"), EndDate: domain.MustParseDate("2026-06-30"),
			KeyResults: []domain.KeyResult{{ID: "k-2", Title: "p95 < 200ms", Current: 30, Target: 100}},
		},
		{
			ID: "o-3", Title: "Run a marathon", Description: "",
			Category: domain.CategoryPersonal, StartDate: domain.MustParseDate("2025-01-01"), EndDate: domain.MustParseDate("2025-12-31"),
			KeyResults: []domain.KeyResult{{ID: "k-3", Title: "km", Current: 300, Target: 100}},
		},
		{
			ID: "o-4", Title: "Undated idea",
			KeyResults: []domain.KeyResult{{ID: "k-4", Title: "draft", Current: 10, Target: 100}},
		},
	}
}

func ids(objs []domain.Objective) []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		out = append(out, o.ID)
	}
	return out
}

func TestFilterWithoutConstraintsReturnsCollectionUnchanged(t *testing.T) {
	t.Parallel()
	c := sampleCollection()
	unconstrained := domain.FilterState{Category: domain.CategoryAll, Status: domain.StatusAll}
	got := domain.Filter(c, unconstrained)
	if diff := cmp.Diff([]domain.Objective(c), got, cmp.AllowUnexported(domain.Date{})); diff != "" {
		t.Fatalf("unconstrained filter changed the collection (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ids(c), ids(domain.Filter(c, domain.FilterState{}))); diff != "" {
		t.Fatalf("zero filter state should match everything (-want +got):\n%s", diff)
	}
}

func TestFilterSearchIsCaseInsensitiveOverTitleAndDescription(t *testing.T) {
	t.Parallel()
	got := domain.Filter(sampleCollection(), domain.FilterState{Search: "satisfaction"})
	if diff := cmp.Diff([]string{"o-1", "o-2"}, ids(got)); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}
	if got := domain.Filter(sampleCollection(), domain.FilterState{Search: "MARATHON"}); len(got) != 1 || got[0].ID != "o-3" {
		t.Fatalf("expected marathon match, got %v", ids(got))
	}
}

func TestFilterCategoryAndStatus(t *testing.T) {
	t.Parallel()
	c := sampleCollection()
	cases := []struct {
		name  string
		state domain.FilterState
		want  []string
	}{
		{"category", domain.FilterState{Category: domain.CategoryEngineering}, []string{"o-2"}},
		{"on track", domain.FilterState{Status: domain.StatusOnTrack}, []string{"o-1"}},
		{"at risk", domain.FilterState{Status: domain.StatusAtRisk}, []string{"o-2"}},
		{"off track", domain.FilterState{Status: domain.StatusOffTrack}, []string{"o-4"}},
		{"overachieved", domain.FilterState{Status: domain.StatusOverachieved}, []string{"o-3"}},
		{"in progress", domain.FilterState{Status: domain.StatusInProgress}, []string{}},
		{"conjunction", domain.FilterState{Search: "customer", Status: domain.StatusOnTrack, Category: domain.CategoryEngineering}, []string{}},
	}
	for _, tc := range cases {
		got := ids(domain.Filter(c, tc.state))
		if diff := cmp.Diff(tc.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestFilterDateRangeOverlap(t *testing.T) {
	t.Parallel()
	c := sampleCollection()

	year := domain.DefaultFilter(today)
	if diff := cmp.Diff([]string{"o-1", "o-2", "o-4"}, ids(domain.Filter(c, year))); diff != "" {
		t.Fatalf("current year (-want +got):\n%s", diff)
	}

	q2 := domain.FilterState{From: domain.MustParseDate("2026-03-31"), To: domain.MustParseDate("2026-04-01")}
	if diff := cmp.Diff([]string{"o-1", "o-2", "o-4"}, ids(domain.Filter(c, q2))); diff != "" {
		t.Fatalf("boundary days are inclusive (-want +got):\n%s", diff)
	}

	farFuture := domain.FilterState{From: domain.MustParseDate("2098-01-01"), To: domain.MustParseDate("2098-12-31")}
	if diff := cmp.Diff([]string{"o-4"}, ids(domain.Filter(c, farFuture))); diff != "" {
		t.Fatalf("only undated objective spans the far future (-want +got):\n%s", diff)
	}

	openEnded := domain.FilterState{From: domain.MustParseDate("2026-05-01")}
	if diff := cmp.Diff([]string{"o-2", "o-4"}, ids(domain.Filter(c, openEnded))); diff != "" {
		t.Fatalf("open end (-want +got):\n%s", diff)
	}
}

func TestDefaultFilterCoversCalendarYear(t *testing.T) {
	t.Parallel()
	f := domain.DefaultFilter(today)
	if f.From.String() != "2026-01-01" || f.To.String() != "2026-12-31" {
		t.Fatalf("unexpected range %s..%s", f.From, f.To)
	}
	if f.Search != "" || f.Category != domain.CategoryAll || f.Status != domain.StatusAll {
		t.Fatalf("unexpected defaults %+v", f)
	}
	if !f.IsDefault(today) {
		t.Fatalf("default filter should report IsDefault")
	}
	f.Search = "x"
	if f.IsDefault(today) {
		t.Fatalf("changed filter should not report IsDefault")
	}
}
