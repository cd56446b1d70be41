package in

import (
	"context"

	"okr/internal/modules/okr/dto"
	okrin "okr/internal/modules/okr/port/in"
)

// CLIHandler is the presentation-facing entry point shared by the cobra
// commands and the TUI.
type CLIHandler struct {
	usecase okrin.Usecase
}

func NewCLIHandler(usecase okrin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListObjectives(ctx context.Context) ([]dto.ObjectiveOutput, error) {
	return h.usecase.ListObjectives(ctx)
}

func (h CLIHandler) GetObjective(ctx context.Context, id string) (dto.ObjectiveOutput, error) {
	return h.usecase.GetObjective(ctx, id)
}

func (h CLIHandler) SaveObjective(ctx context.Context, input dto.SaveObjectiveInput) (dto.SaveObjectiveOutput, error) {
	return h.usecase.SaveObjective(ctx, input)
}

func (h CLIHandler) DeleteObjective(ctx context.Context, id string) (dto.DeleteObjectiveOutput, error) {
	return h.usecase.DeleteObjective(ctx, id)
}

func (h CLIHandler) AddKeyResult(ctx context.Context, objectiveID, title string, target, current float64) (dto.KeyResultMutationOutput, error) {
	return h.usecase.AddKeyResult(ctx, dto.AddKeyResultInput{
		ObjectiveID: objectiveID,
		KeyResult:   dto.KeyResultInput{Title: title, Target: target, Current: current},
	})
}

func (h CLIHandler) RemoveKeyResult(ctx context.Context, objectiveID, keyResultID string) (dto.KeyResultMutationOutput, error) {
	return h.usecase.RemoveKeyResult(ctx, dto.RemoveKeyResultInput{ObjectiveID: objectiveID, KeyResultID: keyResultID})
}

func (h CLIHandler) SetProgress(ctx context.Context, objectiveID, keyResultID, value string) (dto.KeyResultMutationOutput, error) {
	return h.usecase.UpdateKeyResultProgress(ctx, dto.UpdateProgressInput{ObjectiveID: objectiveID, KeyResultID: keyResultID, Value: value})
}

func (h CLIHandler) Dashboard(ctx context.Context, filter dto.FilterInput) (dto.DashboardOutput, error) {
	return h.usecase.Dashboard(ctx, filter)
}

func (h CLIHandler) ResetFilter(ctx context.Context) (dto.FilterOutput, error) {
	return h.usecase.ResetFilter(ctx)
}
