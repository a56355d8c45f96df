package ports

import (
	"context"

	"viya-model-manager/internal/core/domain"
)

// ModelRepository is the subset of the SAS Model Repository API used to
// register models.
type ModelRepository interface {
	// GetProject looks a project up by UUID or name. A missing project is
	// reported as (nil, nil).
	GetProject(ctx context.Context, ref string) (*domain.Project, error)
	DefaultRepository(ctx context.Context) (*domain.Repository, error)
	CreateProject(ctx context.Context, name, repositoryID string) (*domain.Project, error)
	ListProjectVersions(ctx context.Context, projectID string) ([]domain.ProjectVersion, error)
	ListVersionModels(ctx context.Context, projectID, versionID string) ([]domain.Model, error)
	GetModel(ctx context.Context, id string) (*domain.Model, error)
	DeleteModel(ctx context.Context, id string) error
	ImportModelFromZip(ctx context.Context, name string, project *domain.Project, zip []byte, version string) (*domain.Model, error)
	AddModelContent(ctx context.Context, modelID, name string, data []byte, role string) (*domain.ModelContent, error)
	UpdateModelScoreCode(ctx context.Context, model *domain.Model, scoreCodeType string) (*domain.Model, error)
}

// PlatformInfo reports which SAS Viya release the client is talking to.
type PlatformInfo interface {
	PlatformVersion(ctx context.Context) (domain.PlatformVersion, error)
}
