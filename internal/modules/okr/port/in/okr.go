package in

import (
	"context"

	"okr/internal/modules/okr/dto"
)

type Usecase interface {
	ListObjectives(ctx context.Context) ([]dto.ObjectiveOutput, error)
	GetObjective(ctx context.Context, id string) (dto.ObjectiveOutput, error)
	SaveObjective(ctx context.Context, input dto.SaveObjectiveInput) (dto.SaveObjectiveOutput, error)
	DeleteObjective(ctx context.Context, id string) (dto.DeleteObjectiveOutput, error)
	AddKeyResult(ctx context.Context, input dto.AddKeyResultInput) (dto.KeyResultMutationOutput, error)
	RemoveKeyResult(ctx context.Context, input dto.RemoveKeyResultInput) (dto.KeyResultMutationOutput, error)
	UpdateKeyResultProgress(ctx context.Context, input dto.UpdateProgressInput) (dto.KeyResultMutationOutput, error)
	Dashboard(ctx context.Context, input dto.FilterInput) (dto.DashboardOutput, error)
	ResetFilter(ctx context.Context) (dto.FilterOutput, error)
}
