package ports

import (
	"context"

	"viya-model-manager/internal/core/domain"
)

type PipelineListFilter struct {
	Name   string
	Limit  int
	Offset int
}

// PipelineAutomation is the ML Pipeline Automation project API.
type PipelineAutomation interface {
	ListProjects(ctx context.Context, filter PipelineListFilter) ([]domain.PipelineProject, error)
	GetProject(ctx context.Context, id string) (*domain.PipelineProject, error)
	CreateProject(ctx context.Context, project *domain.PipelineProject) (*domain.PipelineProject, error)
	UpdateProject(ctx context.Context, project *domain.PipelineProject) (*domain.PipelineProject, error)
	DeleteProject(ctx context.Context, id string) error
}
