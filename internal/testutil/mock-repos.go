package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
)

// MockModelRepository is a mock of ModelRepository.
type MockModelRepository struct {
	mock.Mock
}

func (m *MockModelRepository) GetProject(ctx context.Context, ref string) (*domain.Project, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockModelRepository) DefaultRepository(ctx context.Context) (*domain.Repository, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Repository), args.Error(1)
}

func (m *MockModelRepository) CreateProject(ctx context.Context, name, repositoryID string) (*domain.Project, error) {
	args := m.Called(ctx, name, repositoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockModelRepository) ListProjectVersions(ctx context.Context, projectID string) ([]domain.ProjectVersion, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProjectVersion), args.Error(1)
}

func (m *MockModelRepository) ListVersionModels(ctx context.Context, projectID, versionID string) ([]domain.Model, error) {
	args := m.Called(ctx, projectID, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Model), args.Error(1)
}

func (m *MockModelRepository) GetModel(ctx context.Context, id string) (*domain.Model, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Model), args.Error(1)
}

func (m *MockModelRepository) DeleteModel(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockModelRepository) ImportModelFromZip(ctx context.Context, name string, project *domain.Project, zip []byte, version string) (*domain.Model, error) {
	args := m.Called(ctx, name, project, zip, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Model), args.Error(1)
}

func (m *MockModelRepository) AddModelContent(ctx context.Context, modelID, name string, data []byte, role string) (*domain.ModelContent, error) {
	args := m.Called(ctx, modelID, name, data, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelContent), args.Error(1)
}

func (m *MockModelRepository) UpdateModelScoreCode(ctx context.Context, model *domain.Model, scoreCodeType string) (*domain.Model, error) {
	args := m.Called(ctx, model, scoreCodeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Model), args.Error(1)
}

// MockPlatformInfo is a mock of PlatformInfo.
type MockPlatformInfo struct {
	mock.Mock
}

func (m *MockPlatformInfo) PlatformVersion(ctx context.Context) (domain.PlatformVersion, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.PlatformVersion), args.Error(1)
}

// MockScoreCodeWriter is a mock of ScoreCodeWriter.
type MockScoreCodeWriter struct {
	mock.Mock
}

func (m *MockScoreCodeWriter) WriteScoreCode(ctx context.Context, req ports.ScoreCodeRequest) (map[string][]byte, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]byte), args.Error(1)
}

// MockImportRecordRepo is a mock of ImportRecordRepository.
type MockImportRecordRepo struct {
	mock.Mock
}

func (m *MockImportRecordRepo) Create(ctx context.Context, record *domain.ImportRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockImportRecordRepo) List(ctx context.Context, filter ports.ImportListFilter) ([]*domain.ImportRecord, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.ImportRecord), args.Int(1), args.Error(2)
}

// MockPipelineAutomation is a mock of PipelineAutomation.
type MockPipelineAutomation struct {
	mock.Mock
}

func (m *MockPipelineAutomation) ListProjects(ctx context.Context, filter ports.PipelineListFilter) ([]domain.PipelineProject, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PipelineProject), args.Error(1)
}

func (m *MockPipelineAutomation) GetProject(ctx context.Context, id string) (*domain.PipelineProject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineProject), args.Error(1)
}

func (m *MockPipelineAutomation) CreateProject(ctx context.Context, project *domain.PipelineProject) (*domain.PipelineProject, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineProject), args.Error(1)
}

func (m *MockPipelineAutomation) UpdateProject(ctx context.Context, project *domain.PipelineProject) (*domain.PipelineProject, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineProject), args.Error(1)
}

func (m *MockPipelineAutomation) DeleteProject(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenStore is a mock of TokenStore.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Save(host, refreshToken string) error {
	return m.Called(host, refreshToken).Error(0)
}

func (m *MockTokenStore) Load(host string) (string, error) {
	args := m.Called(host)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) Delete(host string) error {
	return m.Called(host).Error(0)
}
