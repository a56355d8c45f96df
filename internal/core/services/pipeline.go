package services

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
)

// PipelineService manages ML Pipeline Automation projects.
type PipelineService struct {
	client ports.PipelineAutomation
}

func NewPipelineService(client ports.PipelineAutomation) *PipelineService {
	return &PipelineService{client: client}
}

type CreatePipelineInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// DataTableURI as returned by the data sources service.
	DataTableURI   string `json:"data_table_uri"`
	TargetVariable string `json:"target_variable"`
	// MaxModels is the number of models to train; nil leaves the server default.
	MaxModels *int `json:"max_models"`
}

func (s *PipelineService) Create(ctx context.Context, in CreatePipelineInput) (*domain.PipelineProject, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return nil, domain.ErrInvalidPipelineName
	case strings.TrimSpace(in.DataTableURI) == "":
		return nil, domain.ErrInvalidPipelineTable
	case strings.TrimSpace(in.TargetVariable) == "":
		return nil, domain.ErrInvalidPipelineTarget
	case in.MaxModels != nil && *in.MaxModels < 0:
		return nil, domain.ErrInvalidMaxModels
	}

	project := &domain.PipelineProject{
		Name:         name,
		Description:  in.Description,
		Type:         domain.PipelineProjectTypePredictive,
		DataTableURI: in.DataTableURI,
		AnalyticsProjectAttributes: domain.AnalyticsProjectAttrs{
			TargetVariable: in.TargetVariable,
		},
		Settings: domain.PipelineProjectSettings{NumberOfModels: in.MaxModels},
		Version:  1,
	}
	created, err := s.client.CreateProject(ctx, project)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"id": created.ID, "name": created.Name}).Info("Pipeline automation project created")
	return created, nil
}

func (s *PipelineService) Get(ctx context.Context, id string) (*domain.PipelineProject, error) {
	return s.client.GetProject(ctx, id)
}

func (s *PipelineService) List(ctx context.Context, filter ports.PipelineListFilter) ([]domain.PipelineProject, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.client.ListProjects(ctx, filter)
}

type UpdatePipelineInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MaxModels   *int    `json:"max_models"`
	AutoRun     *bool   `json:"auto_run"`
}

// Update fetches the project so the write carries its current ETag.
func (s *PipelineService) Update(ctx context.Context, id string, in UpdatePipelineInput) (*domain.PipelineProject, error) {
	project, err := s.client.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidPipelineName
		}
		project.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if in.MaxModels != nil {
		if *in.MaxModels < 0 {
			return nil, domain.ErrInvalidMaxModels
		}
		project.Settings.NumberOfModels = in.MaxModels
	}
	if in.AutoRun != nil {
		project.Settings.AutoRun = in.AutoRun
	}
	return s.client.UpdateProject(ctx, project)
}

func (s *PipelineService) Delete(ctx context.Context, id string) error {
	return s.client.DeleteProject(ctx, id)
}
