package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	okrout "okr/internal/modules/okr/adapter/out"
	"okr/internal/modules/okr/dto"
	okrin "okr/internal/modules/okr/port/in"
	"okr/internal/modules/okr/service"
	"okr/internal/modules/okr/usecase"
	"okr/internal/platform/clock"
	apperrors "okr/internal/platform/errors"
	"okr/internal/platform/id"
)

var today = clock.Fixed(time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC))

func newUsecase(t *testing.T, dir string) okrin.Usecase {
	t.Helper()
	store := okrout.NewBlobObjectiveStore(okrout.NewFileBlobStore(dir), "okr-data")
	svc := service.NewObjectiveService(today, &id.Sequence{}, store, nil, 0)
	return usecase.NewInteractor(svc)
}

func TestObjectiveLifecycleSurvivesRestart(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := context.Background()
	uc := newUsecase(t, dir)

	saved, err := uc.SaveObjective(ctx, dto.SaveObjectiveInput{
		Title:     "  Launch mobile app ",
		Category:  "product",
		Timeframe: "quarterly",
		KeyResults: []dto.KeyResultInput{
			{Title: "Beta testers", Target: 50, Current: 25},
			{Title: "Store rating", Target: 0, Current: -4},
		},
	})
	if err != nil {
		t.Fatalf("save objective: %v", err)
	}
	if !saved.Created || !saved.Persisted {
		t.Fatalf("unexpected flags %+v", saved)
	}
	obj := saved.Objective
	if obj.Title != "Launch mobile app" || obj.Category != "Product" {
		t.Fatalf("unexpected objective %+v", obj)
	}
	if obj.StartDate != "2026-10-14" || obj.EndDate != "2027-01-14" {
		t.Fatalf("unexpected window %s..%s", obj.StartDate, obj.EndDate)
	}
	if obj.KeyResults[1].Target != 100 || obj.KeyResults[1].Current != 0 {
		t.Fatalf("form defaults not applied: %+v", obj.KeyResults[1])
	}
	if obj.Progress != 25 || obj.Status != "At Risk" {
		t.Fatalf("expected 25%% At Risk, got %d%% %s", obj.Progress, obj.Status)
	}

	mut, err := uc.UpdateKeyResultProgress(ctx, dto.UpdateProgressInput{ObjectiveID: obj.ID, KeyResultID: obj.KeyResults[0].ID, Value: "60abc"})
	if err != nil {
		t.Fatalf("update progress: %v", err)
	}
	if mut.KeyResult.Current != 60 || mut.KeyResult.Progress != 120 || !mut.KeyResult.Done {
		t.Fatalf("unexpected key result %+v", mut.KeyResult)
	}
	if mut.ObjectiveProgress != 60 {
		t.Fatalf("expected objective progress 60, got %d", mut.ObjectiveProgress)
	}

	restarted := newUsecase(t, dir)
	got, err := restarted.GetObjective(ctx, obj.ID)
	if err != nil {
		t.Fatalf("get after restart: %v", err)
	}
	want := []dto.HistoryEntryOutput{{Date: "2026-10-14", Value: 60}}
	if diff := cmp.Diff(want, got.KeyResults[0].History); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestEditKeepsKeyResultsWhenOmitted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newUsecase(t, t.TempDir())

	created, err := uc.SaveObjective(ctx, dto.SaveObjectiveInput{Title: "Hire", KeyResults: []dto.KeyResultInput{{Title: "Engineers", Target: 4}}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	edited, err := uc.SaveObjective(ctx, dto.SaveObjectiveInput{
		ID:        created.Objective.ID[:3],
		Title:     "Hire team",
		Category:  "Engineering",
		StartDate: "2026-01-01",
		EndDate:   "2026-06-30",
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Created {
		t.Fatalf("edit must not report a create")
	}
	if edited.Objective.ID != created.Objective.ID || len(edited.Objective.KeyResults) != 1 {
		t.Fatalf("edit lost identity or key results: %+v", edited.Objective)
	}
	list, _ := uc.ListObjectives(ctx)
	if len(list) != 1 || list[0].Title != "Hire team" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestInvalidInputIsRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	uc := newUsecase(t, dir)

	cases := []dto.SaveObjectiveInput{
		{Title: "   "},
		{Title: "x", Category: "Finance"},
		{Title: "x", Category: "All"},
		{Title: "x", Timeframe: "weekly"},
		{Title: "x", StartDate: "14/10/2026"},
	}
	for _, input := range cases {
		if _, err := uc.SaveObjective(ctx, input); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("input %+v: expected invalid input, got %v", input, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "okr-data.json")); !os.IsNotExist(err) {
		t.Fatalf("rejected saves must not write data, stat err=%v", err)
	}
}

func TestDashboardFiltersAndSummarizes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newUsecase(t, t.TempDir())

	seed := []dto.SaveObjectiveInput{
		{Title: "Grow revenue this year with partners", Category: "Business", StartDate: "2026-01-01", EndDate: "2026-12-31",
			KeyResults: []dto.KeyResultInput{{Title: "ARR", Target: 100, Current: 90}}},
		{Title: "Write a book", Category: "Personal", StartDate: "2025-01-01", EndDate: "2025-06-30",
			KeyResults: []dto.KeyResultInput{{Title: "Chapters", Target: 10, Current: 2}}},
		{Title: "Ship search", Category: "Engineering", StartDate: "2026-03-01", EndDate: "2026-05-31",
			KeyResults: []dto.KeyResultInput{{Title: "Latency", Target: 10, Current: 30}}},
	}
	for _, input := range seed {
		if _, err := uc.SaveObjective(ctx, input); err != nil {
			t.Fatalf("seed %q: %v", input.Title, err)
		}
	}

	board, err := uc.Dashboard(ctx, dto.FilterInput{})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if board.TotalCount != 3 || len(board.Objectives) != 2 {
		t.Fatalf("default filter should hide last year's objective: total=%d visible=%d", board.TotalCount, len(board.Objectives))
	}
	if board.Filter.From != "2026-01-01" || board.Filter.To != "2026-12-31" || board.Filter.Category != "All" {
		t.Fatalf("unexpected default filter %+v", board.Filter)
	}
	if board.Chart[0].Label != "Grow revenue this ye..." || board.Chart[1].Progress != 300 {
		t.Fatalf("unexpected chart %+v", board.Chart)
	}
	if board.Summary.ByStatus["Overachieved"] != 1 || board.Summary.ByStatus["On Track"] != 1 {
		t.Fatalf("unexpected summary %+v", board.Summary)
	}

	board, err = uc.Dashboard(ctx, dto.FilterInput{AllDates: true, Status: "off-track"})
	if err != nil {
		t.Fatalf("dashboard all dates: %v", err)
	}
	if len(board.Objectives) != 1 || board.Objectives[0].Title != "Write a book" {
		t.Fatalf("unexpected objectives %+v", board.Objectives)
	}

	board, err = uc.Dashboard(ctx, dto.FilterInput{Search: "SEARCH", Category: "engineering"})
	if err != nil {
		t.Fatalf("dashboard search: %v", err)
	}
	if len(board.Objectives) != 1 || board.Objectives[0].Title != "Ship search" {
		t.Fatalf("unexpected objectives %+v", board.Objectives)
	}

	if _, err := uc.Dashboard(ctx, dto.FilterInput{Status: "sideways"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
	if _, err := uc.Dashboard(ctx, dto.FilterInput{From: "2026-12-01", To: "2026-01-01"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected inverted range error, got %v", err)
	}
}

func TestDashboardReportsMalformedData(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "okr-data.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write blob: %v", err)
	}
	board, err := newUsecase(t, dir).Dashboard(context.Background(), dto.FilterInput{})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if board.TotalCount != 0 || board.Warning == "" {
		t.Fatalf("expected empty board with warning, got %+v", board)
	}
}

func TestKeyResultRemovalAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newUsecase(t, t.TempDir())

	first, _ := uc.SaveObjective(ctx, dto.SaveObjectiveInput{Title: "First"})
	second, _ := uc.SaveObjective(ctx, dto.SaveObjectiveInput{Title: "Second"})
	added, err := uc.AddKeyResult(ctx, dto.AddKeyResultInput{ObjectiveID: second.Objective.ID, KeyResult: dto.KeyResultInput{Title: "Users"}})
	if err != nil {
		t.Fatalf("add key result: %v", err)
	}
	if added.KeyResult.Target != 100 {
		t.Fatalf("expected default target, got %v", added.KeyResult.Target)
	}
	removed, err := uc.RemoveKeyResult(ctx, dto.RemoveKeyResultInput{ObjectiveID: second.Objective.ID, KeyResultID: added.KeyResult.ID})
	if err != nil {
		t.Fatalf("remove key result: %v", err)
	}
	if removed.KeyResult.Title != "Users" || removed.ObjectiveProgress != 0 {
		t.Fatalf("unexpected removal %+v", removed)
	}

	if _, err := uc.DeleteObjective(ctx, first.Objective.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := uc.ListObjectives(ctx)
	if len(list) != 1 || list[0].ID != second.Objective.ID {
		t.Fatalf("unexpected list after delete %+v", list)
	}
	if _, err := uc.DeleteObjective(ctx, first.Objective.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResetFilterIsCurrentYear(t *testing.T) {
	t.Parallel()
	got, err := newUsecase(t, t.TempDir()).ResetFilter(context.Background())
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	want := dto.FilterOutput{Category: "All", Status: "All", From: "2026-01-01", To: "2026-12-31"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}
