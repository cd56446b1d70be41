package usecase

import (
	"context"
	"fmt"
	"strings"

	"okr/internal/modules/okr/domain"
	"okr/internal/modules/okr/dto"
	okrin "okr/internal/modules/okr/port/in"
	"okr/internal/modules/okr/service"
	apperrors "okr/internal/platform/errors"
)

type Interactor struct {
	svc *service.ObjectiveService
}

func NewInteractor(svc *service.ObjectiveService) okrin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) ListObjectives(ctx context.Context) ([]dto.ObjectiveOutput, error) {
	return toObjectiveOutputs(i.svc.Snapshot(ctx)), nil
}

func (i *Interactor) GetObjective(ctx context.Context, id string) (dto.ObjectiveOutput, error) {
	obj, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.ObjectiveOutput{}, err
	}
	return toObjectiveOutput(obj), nil
}

func (i *Interactor) SaveObjective(ctx context.Context, input dto.SaveObjectiveInput) (dto.SaveObjectiveOutput, error) {
	draft, err := i.draftFromInput(ctx, input)
	if err != nil {
		return dto.SaveObjectiveOutput{}, err
	}
	saved, persisted, err := i.svc.SaveObjective(ctx, draft)
	if err != nil {
		return dto.SaveObjectiveOutput{}, err
	}
	return dto.SaveObjectiveOutput{
		Objective: toObjectiveOutput(saved),
		Created:   draft.ID == "",
		Persisted: persisted,
	}, nil
}

func (i *Interactor) DeleteObjective(ctx context.Context, id string) (dto.DeleteObjectiveOutput, error) {
	removed, persisted, err := i.svc.DeleteObjective(ctx, id)
	if err != nil {
		return dto.DeleteObjectiveOutput{}, err
	}
	return dto.DeleteObjectiveOutput{ID: removed.ID, Title: removed.Title, Persisted: persisted}, nil
}

func (i *Interactor) AddKeyResult(ctx context.Context, input dto.AddKeyResultInput) (dto.KeyResultMutationOutput, error) {
	owner, kr, persisted, err := i.svc.AddKeyResult(ctx, input.ObjectiveID, keyResultFromInput(input.KeyResult))
	if err != nil {
		return dto.KeyResultMutationOutput{}, err
	}
	return toKeyResultMutation(owner, kr, persisted), nil
}

func (i *Interactor) RemoveKeyResult(ctx context.Context, input dto.RemoveKeyResultInput) (dto.KeyResultMutationOutput, error) {
	owner, kr, persisted, err := i.svc.RemoveKeyResult(ctx, input.ObjectiveID, input.KeyResultID)
	if err != nil {
		return dto.KeyResultMutationOutput{}, err
	}
	return toKeyResultMutation(owner, kr, persisted), nil
}

func (i *Interactor) UpdateKeyResultProgress(ctx context.Context, input dto.UpdateProgressInput) (dto.KeyResultMutationOutput, error) {
	owner, kr, persisted, err := i.svc.UpdateKeyResultProgress(ctx, input.ObjectiveID, input.KeyResultID, input.Value)
	if err != nil {
		return dto.KeyResultMutationOutput{}, err
	}
	return toKeyResultMutation(owner, kr, persisted), nil
}

func (i *Interactor) Dashboard(ctx context.Context, input dto.FilterInput) (dto.DashboardOutput, error) {
	filter, err := i.filterFromInput(input)
	if err != nil {
		return dto.DashboardOutput{}, err
	}
	all := i.svc.Snapshot(ctx)
	visible := domain.Filter(all, filter)

	out := dto.DashboardOutput{
		Filter:     toFilterOutput(filter),
		Objectives: toObjectiveOutputs(visible),
		Chart:      toChartOutputs(domain.ToChartData(visible)),
		Summary:    toSummaryOutput(domain.Summarize(visible)),
		TotalCount: len(all),
	}
	if loadErr := i.svc.LoadError(ctx); loadErr != nil {
		out.Warning = fmt.Sprintf("stored data could not be read, started empty: %v", loadErr)
	}
	return out, nil
}

func (i *Interactor) ResetFilter(context.Context) (dto.FilterOutput, error) {
	return toFilterOutput(domain.DefaultFilter(i.svc.Today())), nil
}

func (i *Interactor) draftFromInput(ctx context.Context, input dto.SaveObjectiveInput) (domain.Objective, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return domain.Objective{}, err
	}
	if category == domain.CategoryAll {
		return domain.Objective{}, fmt.Errorf("%w: %q is a filter value, not a category", apperrors.ErrInvalidInput, input.Category)
	}
	start, err := domain.ParseDate(input.StartDate)
	if err != nil {
		return domain.Objective{}, err
	}
	end, err := domain.ParseDate(input.EndDate)
	if err != nil {
		return domain.Objective{}, err
	}
	draft := domain.Objective{
		Title:       input.Title,
		Description: strings.TrimSpace(input.Description),
		Category:    category,
		Timeframe:   domain.Timeframe(strings.ToLower(strings.TrimSpace(input.Timeframe))),
		StartDate:   start,
		EndDate:     end,
	}
	if input.KeyResults != nil {
		draft.KeyResults = make([]domain.KeyResult, 0, len(input.KeyResults))
		for _, kr := range input.KeyResults {
			draft.KeyResults = append(draft.KeyResults, keyResultFromInput(kr))
		}
	}

	if strings.TrimSpace(input.ID) == "" {
		return draft, nil
	}
	existing, err := i.svc.Get(ctx, input.ID)
	if err != nil {
		return domain.Objective{}, err
	}
	draft.ID = existing.ID
	if input.KeyResults == nil {
		draft.KeyResults = existing.KeyResults
	}
	return draft, nil
}

// keyResultFromInput applies the form defaults: a missing target becomes
// DefaultTarget and negative progress is floored at zero.
func keyResultFromInput(input dto.KeyResultInput) domain.KeyResult {
	kr := domain.KeyResult{Title: input.Title, Target: input.Target, Current: input.Current}
	if kr.Target <= 0 {
		kr.Target = domain.DefaultTarget
	}
	if kr.Current < 0 {
		kr.Current = 0
	}
	return kr
}

func (i *Interactor) filterFromInput(input dto.FilterInput) (domain.FilterState, error) {
	filter := domain.DefaultFilter(i.svc.Today())
	filter.Search = input.Search
	if strings.TrimSpace(input.Category) != "" {
		category, err := domain.ParseCategory(input.Category)
		if err != nil {
			return domain.FilterState{}, err
		}
		filter.Category = category
	}
	status, err := domain.ParseStatusBand(input.Status)
	if err != nil {
		return domain.FilterState{}, err
	}
	filter.Status = status
	if input.AllDates {
		filter.From, filter.To = domain.Date{}, domain.Date{}
	}
	if input.From != "" {
		if filter.From, err = domain.ParseDate(input.From); err != nil {
			return domain.FilterState{}, err
		}
	}
	if input.To != "" {
		if filter.To, err = domain.ParseDate(input.To); err != nil {
			return domain.FilterState{}, err
		}
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return domain.FilterState{}, fmt.Errorf("%w: range end %s is before start %s", apperrors.ErrInvalidInput, filter.To, filter.From)
	}
	return filter, nil
}

func toObjectiveOutputs(objectives []domain.Objective) []dto.ObjectiveOutput {
	out := make([]dto.ObjectiveOutput, 0, len(objectives))
	for _, o := range objectives {
		out = append(out, toObjectiveOutput(o))
	}
	return out
}

func toObjectiveOutput(o domain.Objective) dto.ObjectiveOutput {
	progress := o.Progress()
	out := dto.ObjectiveOutput{
		ID:          o.ID,
		Title:       o.Title,
		Description: o.Description,
		Category:    string(o.Category),
		Timeframe:   string(o.Timeframe),
		StartDate:   o.StartDate.String(),
		EndDate:     o.EndDate.String(),
		Progress:    progress,
		Status:      string(domain.Classify(progress)),
		KeyResults:  make([]dto.KeyResultOutput, 0, len(o.KeyResults)),
	}
	for idx, view := range domain.KeyResultViews(o) {
		out.KeyResults = append(out.KeyResults, toKeyResultOutput(view, o.KeyResults[idx].History))
	}
	return out
}

func toKeyResultOutput(view domain.KeyResultView, history []domain.HistoryEntry) dto.KeyResultOutput {
	return dto.KeyResultOutput{
		ID:       view.ID,
		Title:    view.Title,
		Current:  view.Current,
		Target:   view.Target,
		Progress: view.Progress,
		Status:   string(view.Status),
		Done:     view.Done,
		Recent:   toHistoryOutputs(view.Recent),
		History:  toHistoryOutputs(history),
	}
}

func toHistoryOutputs(entries []domain.HistoryEntry) []dto.HistoryEntryOutput {
	out := make([]dto.HistoryEntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.HistoryEntryOutput{Date: e.Date.String(), Value: e.Value})
	}
	return out
}

func toKeyResultMutation(owner domain.Objective, kr domain.KeyResult, persisted bool) dto.KeyResultMutationOutput {
	views := domain.KeyResultViews(domain.Objective{KeyResults: []domain.KeyResult{kr}})
	return dto.KeyResultMutationOutput{
		ObjectiveID:       owner.ID,
		ObjectiveProgress: owner.Progress(),
		KeyResult:         toKeyResultOutput(views[0], kr.History),
		Persisted:         persisted,
	}
}

func toFilterOutput(f domain.FilterState) dto.FilterOutput {
	return dto.FilterOutput{
		Search:   f.Search,
		Category: string(f.Category),
		Status:   string(f.Status),
		From:     f.From.String(),
		To:       f.To.String(),
	}
}

func toChartOutputs(entries []domain.ChartEntry) []dto.ChartEntryOutput {
	out := make([]dto.ChartEntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ChartEntryOutput{
			Label:          e.Label,
			FullLabel:      e.FullLabel,
			Progress:       e.Progress,
			KeyResultCount: e.KeyResultCount,
			Category:       e.Category,
			Status:         string(domain.Classify(e.Progress)),
		})
	}
	return out
}

func toSummaryOutput(s domain.Summary) dto.SummaryOutput {
	out := dto.SummaryOutput{
		Total:           s.Total,
		AverageProgress: s.AverageProgress,
		ByStatus:        make(map[string]int, len(s.ByStatus)),
		ByCategory:      make(map[string]int, len(s.ByCategory)),
	}
	for band, n := range s.ByStatus {
		out.ByStatus[string(band)] = n
	}
	for category, n := range s.ByCategory {
		out.ByCategory[category] = n
	}
	return out
}
