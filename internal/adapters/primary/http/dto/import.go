package dto

import (
	"time"

	"github.com/google/uuid"

	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/services"
)

// ImportModelForm is the non-file part of a multipart import request. Score
// code options travel as a JSON string in the score_code field.
type ImportModelForm struct {
	Prefix         string `form:"prefix" binding:"required"`
	Project        string `form:"project" binding:"required"`
	ProjectVersion string `form:"project_version"`
	Overwrite      bool   `form:"overwrite"`
	ScoreCode      string `form:"score_code"`
}

type ModelResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ProjectID        string `json:"project_id"`
	ProjectName      string `json:"project_name,omitempty"`
	ProjectVersionID string `json:"project_version_id"`
	ScoreCodeType    string `json:"score_code_type,omitempty"`
}

type ImportModelResponse struct {
	Model           ModelResponse `json:"model"`
	Files           []string      `json:"files"`
	PlatformVersion string        `json:"platform_version"`
	ScoreCode       bool          `json:"score_code"`
}

func ToModelResponse(m *domain.Model) ModelResponse {
	return ModelResponse{
		ID:               m.ID,
		Name:             m.Name,
		ProjectID:        m.ProjectID,
		ProjectName:      m.ProjectName,
		ProjectVersionID: m.ProjectVersionID,
		ScoreCodeType:    m.ScoreCodeType,
	}
}

func ToImportModelResponse(res *services.ImportResult) ImportModelResponse {
	names, _ := res.Files.Names()
	if names == nil {
		names = []string{}
	}
	resp := ImportModelResponse{
		Model:     ToModelResponse(res.Model),
		Files:     names,
		ScoreCode: res.ScoreCode,
	}
	if res.PlatformVersion != domain.PlatformUnknown {
		resp.PlatformVersion = res.PlatformVersion.String()
	}
	return resp
}

type ImportRecordResponse struct {
	ID              uuid.UUID `json:"id"`
	CreatedAt       string    `json:"created_at"`
	ModelID         string    `json:"model_id"`
	ModelName       string    `json:"model_name"`
	ProjectID       string    `json:"project_id"`
	ProjectName     string    `json:"project_name"`
	ProjectVersion  string    `json:"project_version"`
	PlatformVersion string    `json:"platform_version"`
	ScoreCode       bool      `json:"score_code"`
	Overwrote       bool      `json:"overwrote"`
	FileCount       int       `json:"file_count"`
	RequestID       string    `json:"request_id,omitempty"`
}

type ListImportsResponse struct {
	Items      []ImportRecordResponse `json:"items"`
	Total      int                    `json:"total"`
	PageSize   int                    `json:"page_size"`
	NextOffset int                    `json:"next_offset"`
}

func ToImportRecordResponse(r *domain.ImportRecord) ImportRecordResponse {
	return ImportRecordResponse{
		ID:              r.ID,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		ModelID:         r.ModelID,
		ModelName:       r.ModelName,
		ProjectID:       r.ProjectID,
		ProjectName:     r.ProjectName,
		ProjectVersion:  r.ProjectVersion,
		PlatformVersion: r.PlatformVersion,
		ScoreCode:       r.ScoreCode,
		Overwrote:       r.Overwrote,
		FileCount:       r.FileCount,
		RequestID:       r.RequestID,
	}
}
