package dto

import (
	"time"

	"viya-model-manager/internal/core/domain"
)

type PipelineProjectResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Type           string `json:"type"`
	DataTableURI   string `json:"data_table_uri"`
	TargetVariable string `json:"target_variable"`
	State          string `json:"state,omitempty"`
	MaxModels      *int   `json:"max_models,omitempty"`
	AutoRun        *bool  `json:"auto_run,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	ModifiedAt     string `json:"modified_at,omitempty"`
}

type ListPipelineProjectsResponse struct {
	Items      []PipelineProjectResponse `json:"items"`
	PageSize   int                       `json:"page_size"`
	NextOffset int                       `json:"next_offset"`
}

func ToPipelineProjectResponse(p *domain.PipelineProject) PipelineProjectResponse {
	return PipelineProjectResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Type:           p.Type,
		DataTableURI:   p.DataTableURI,
		TargetVariable: p.AnalyticsProjectAttributes.TargetVariable,
		State:          p.State,
		MaxModels:      p.Settings.NumberOfModels,
		AutoRun:        p.Settings.AutoRun,
		CreatedAt:      formatTime(p.CreatedAt),
		ModifiedAt:     formatTime(p.ModifiedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
