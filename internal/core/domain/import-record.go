package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportRecord is a local audit entry written after each successful import.
type ImportRecord struct {
	ID              uuid.UUID `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
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
