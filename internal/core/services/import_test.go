package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"viya-model-manager/internal/artifacts"
	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
	"viya-model-manager/internal/testutil"
)

type importMocks struct {
	repo     *testutil.MockModelRepository
	platform *testutil.MockPlatformInfo
	writer   *testutil.MockScoreCodeWriter
	history  *testutil.MockImportRecordRepo
	svc      *ModelImportService
}

func newImportMocks() *importMocks {
	m := &importMocks{
		repo:     new(testutil.MockModelRepository),
		platform: new(testutil.MockPlatformInfo),
		writer:   new(testutil.MockScoreCodeWriter),
		history:  new(testutil.MockImportRecordRepo),
	}
	m.svc = NewModelImportService(m.repo, m.platform, m.writer, m.history)
	return m
}

var testProject = &domain.Project{ID: "p-1", Name: "HMEQ", LatestVersion: "Version 1"}

func modelFiles() domain.ModelFiles {
	return domain.FilesFromMap(map[string][]byte{
		"inputVar.json": []byte("[]"),
		"hmeq.pickle":   []byte("pkl"),
	})
}

func scoreOpts() *domain.ScoreCodeOptions {
	return &domain.ScoreCodeOptions{
		InputVariables: []domain.Variable{{Name: "LOAN", Level: domain.LevelInterval, Type: domain.TypeDecimal, Length: 8}},
		PredictMethod:  "predict",
		ScoreMetrics:   []string{"EM_CLASSIFICATION"},
	}
}

func zipContains(name string) any {
	return mock.MatchedBy(func(data []byte) bool {
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return false
		}
		for _, f := range zr.File {
			if f.Name == name {
				return true
			}
		}
		return false
	})
}

func (m *importMocks) expectExistingProject() {
	m.repo.On("GetProject", mock.Anything, "HMEQ").Return(testProject, nil)
	m.repo.On("ListProjectVersions", mock.Anything, "p-1").Return([]domain.ProjectVersion{{ID: "v-1", Name: "Version 1"}}, nil)
	m.repo.On("ListVersionModels", mock.Anything, "p-1", "v-1").Return([]domain.Model{}, nil)
}

func TestImportModel_WithoutScoreCode(t *testing.T) {
	m := newImportMocks()
	m.expectExistingProject()
	imported := &domain.Model{ID: "m-1", Name: "hmeq", ProjectID: "p-1"}
	m.repo.On("ImportModelFromZip", mock.Anything, "hmeq", testProject, zipContains("hmeq.pickle"), "latest").Return(imported, nil)
	m.history.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.ImportRecord) bool {
		return r.ModelID == "m-1" && !r.ScoreCode && r.FileCount == 2 && r.ProjectName == "HMEQ"
	})).Return(nil)

	res, err := m.svc.ImportModel(context.Background(), ImportRequest{Files: modelFiles(), Prefix: "hmeq", Project: "HMEQ"})
	require.NoError(t, err)
	assert.Equal(t, "m-1", res.Model.ID)
	assert.False(t, res.ScoreCode)
	m.platform.AssertNotCalled(t, "PlatformVersion", mock.Anything)
	m.writer.AssertNotCalled(t, "WriteScoreCode", mock.Anything, mock.Anything)
	m.history.AssertExpectations(t)
}

func TestImportModel_Viya4WritesScoreCodeFirst(t *testing.T) {
	m := newImportMocks()
	m.expectExistingProject()
	m.platform.On("PlatformVersion", mock.Anything).Return(domain.Viya4, nil)
	m.writer.On("WriteScoreCode", mock.Anything, mock.MatchedBy(func(r ports.ScoreCodeRequest) bool {
		return r.Prefix == "hmeq" && r.Model == nil && r.Dir == ""
	})).Return(map[string][]byte{"score_hmeq.py": []byte("def score(): pass")}, nil)
	m.repo.On("ImportModelFromZip", mock.Anything, "hmeq", testProject, zipContains("score_hmeq.py"), "latest").
		Return(&domain.Model{ID: "m-1", Name: "hmeq"}, nil)
	m.history.On("Create", mock.Anything, mock.Anything).Return(nil)

	files := modelFiles()
	res, err := m.svc.ImportModel(context.Background(), ImportRequest{Files: files, Prefix: "hmeq", Project: "HMEQ", ScoreCode: scoreOpts()})
	require.NoError(t, err)
	assert.True(t, res.ScoreCode)
	assert.Equal(t, domain.Viya4, res.PlatformVersion)
	assert.Contains(t, files.Map(), "score_hmeq.py")
	m.repo.AssertNotCalled(t, "AddModelContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImportModel_Viya35UploadsScoreCodeAfterImport(t *testing.T) {
	m := newImportMocks()
	m.expectExistingProject()
	imported := &domain.Model{ID: "m-1", Name: "hmeq", ProjectName: "HMEQ"}
	code := []byte("def score(): pass")

	m.platform.On("PlatformVersion", mock.Anything).Return(domain.Viya35, nil)
	m.repo.On("ImportModelFromZip", mock.Anything, "hmeq", testProject, mock.Anything, "latest").Return(imported, nil)
	m.writer.On("WriteScoreCode", mock.Anything, mock.MatchedBy(func(r ports.ScoreCodeRequest) bool {
		return r.Model != nil && r.Model.ID == "m-1"
	})).Return(map[string][]byte{"score_hmeq.py": code}, nil)
	m.repo.On("AddModelContent", mock.Anything, "m-1", "score_hmeq.py", code, "score").Return(&domain.ModelContent{ID: "c-1"}, nil)
	m.repo.On("UpdateModelScoreCode", mock.Anything, imported, "python").Return(imported, nil)
	m.repo.On("GetModel", mock.Anything, "m-1").Return(&domain.Model{ID: "m-1", Name: "hmeq", ScoreCodeType: "python"}, nil)
	m.history.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.ImportRecord) bool {
		return r.PlatformVersion == "3.5" && r.ScoreCode
	})).Return(nil)

	files := modelFiles()
	res, err := m.svc.ImportModel(context.Background(), ImportRequest{Files: files, Prefix: "hmeq", Project: "HMEQ", ScoreCode: scoreOpts()})
	require.NoError(t, err)
	assert.Equal(t, "python", res.Model.ScoreCodeType)
	assert.Equal(t, "HMEQ", res.Model.ProjectName)
	assert.Contains(t, files.Map(), "score_hmeq.py")
	m.repo.AssertExpectations(t)
	m.history.AssertExpectations(t)
}

func TestImportModel_MLflowOverridesPickleType(t *testing.T) {
	m := newImportMocks()
	m.expectExistingProject()
	m.platform.On("PlatformVersion", mock.Anything).Return(domain.Viya4, nil)
	m.writer.On("WriteScoreCode", mock.Anything, mock.MatchedBy(func(r ports.ScoreCodeRequest) bool {
		return r.Options.PickleType == "cloudpickle" && r.Options.ModelFileName == "model.pkl"
	})).Return(map[string][]byte{"score_hmeq.py": []byte("x")}, nil)
	m.repo.On("ImportModelFromZip", mock.Anything, "hmeq", testProject, mock.Anything, "latest").Return(&domain.Model{ID: "m-1"}, nil)
	m.history.On("Create", mock.Anything, mock.Anything).Return(nil)

	opts := scoreOpts()
	opts.PickleType = "joblib"
	_, err := m.svc.ImportModel(context.Background(), ImportRequest{
		Files: modelFiles(), Prefix: "hmeq", Project: "HMEQ", ScoreCode: opts,
		MLflow: &artifacts.MLflowDetails{SerializationFormat: "cloudpickle", ModelFileName: "model.pkl"},
	})
	require.NoError(t, err)
	m.writer.AssertExpectations(t)
}

func TestImportModel_Validation(t *testing.T) {
	m := newImportMocks()
	ctx := context.Background()

	_, err := m.svc.ImportModel(ctx, ImportRequest{Files: modelFiles(), Project: "HMEQ"})
	assert.ErrorIs(t, err, domain.ErrInvalidModelName)

	_, err = m.svc.ImportModel(ctx, ImportRequest{Files: modelFiles(), Prefix: "hmeq"})
	assert.ErrorIs(t, err, domain.ErrInvalidProject)

	_, err = m.svc.ImportModel(ctx, ImportRequest{Prefix: "hmeq", Project: "HMEQ"})
	assert.ErrorIs(t, err, domain.ErrInvalidModelFiles)
}

func TestImportModel_PlatformUnavailable(t *testing.T) {
	m := newImportMocks()
	m.platform.On("PlatformVersion", mock.Anything).Return(domain.PlatformUnknown, domain.ErrViyaUnavailable)

	_, err := m.svc.ImportModel(context.Background(), ImportRequest{Files: modelFiles(), Prefix: "hmeq", Project: "HMEQ", ScoreCode: scoreOpts()})
	assert.ErrorIs(t, err, domain.ErrViyaUnavailable)
}

func TestImportModel_HistoryFailureIsNotFatal(t *testing.T) {
	m := newImportMocks()
	m.expectExistingProject()
	m.repo.On("ImportModelFromZip", mock.Anything, "hmeq", testProject, mock.Anything, "latest").Return(&domain.Model{ID: "m-1"}, nil)
	m.history.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	res, err := m.svc.ImportModel(context.Background(), ImportRequest{Files: modelFiles(), Prefix: "hmeq", Project: "HMEQ"})
	require.NoError(t, err)
	assert.Equal(t, "m-1", res.Model.ID)
}

func TestProjectExists(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		m := newImportMocks()
		p, err := m.svc.ProjectExists(ctx, "HMEQ", testProject)
		require.NoError(t, err)
		assert.Same(t, testProject, p)
	})

	t.Run("unknown uuid", func(t *testing.T) {
		m := newImportMocks()
		_, err := m.svc.ProjectExists(ctx, uuid.NewString(), nil)
		assert.ErrorIs(t, err, domain.ErrProjectUUIDNotFound)
		m.repo.AssertNotCalled(t, "CreateProject", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("create", func(t *testing.T) {
		m := newImportMocks()
		created := &domain.Project{ID: "p-2", Name: "New"}
		m.repo.On("DefaultRepository", mock.Anything).Return(&domain.Repository{ID: "r-1", Name: "Public"}, nil)
		m.repo.On("CreateProject", mock.Anything, "New", "r-1").Return(created, nil)

		p, err := m.svc.ProjectExists(ctx, "New", nil)
		require.NoError(t, err)
		assert.Equal(t, "p-2", p.ID)
	})

	t.Run("no default repository", func(t *testing.T) {
		m := newImportMocks()
		m.repo.On("DefaultRepository", mock.Anything).Return(nil, domain.ErrRepositoryNotFound)
		_, err := m.svc.ProjectExists(ctx, "New", nil)
		assert.ErrorIs(t, err, domain.ErrRepositoryNotFound)
	})
}

func TestModelExists(t *testing.T) {
	ctx := context.Background()
	versions := []domain.ProjectVersion{{ID: "v-1", Name: "Version 1"}, {ID: "v-2", Name: "Version 2"}}
	existing := []domain.Model{{ID: "m-9", Name: "hmeq"}, {ID: "m-8", Name: "other"}}

	t.Run("conflict", func(t *testing.T) {
		m := newImportMocks()
		m.repo.On("ListProjectVersions", mock.Anything, "p-1").Return(versions, nil)
		m.repo.On("ListVersionModels", mock.Anything, "p-1", "v-1").Return(existing, nil)

		err := m.svc.ModelExists(ctx, testProject, "hmeq", false, "latest")
		assert.ErrorIs(t, err, domain.ErrModelNameConflict)
	})

	t.Run("overwrite", func(t *testing.T) {
		m := newImportMocks()
		m.repo.On("ListProjectVersions", mock.Anything, "p-1").Return(versions, nil)
		m.repo.On("ListVersionModels", mock.Anything, "p-1", "v-2").Return(existing, nil)
		m.repo.On("DeleteModel", mock.Anything, "m-9").Return(nil)

		err := m.svc.ModelExists(ctx, testProject, "hmeq", true, "Version 2")
		require.NoError(t, err)
		m.repo.AssertCalled(t, "DeleteModel", mock.Anything, "m-9")
		m.repo.AssertNotCalled(t, "DeleteModel", mock.Anything, "m-8")
	})

	t.Run("missing version", func(t *testing.T) {
		m := newImportMocks()
		m.repo.On("ListProjectVersions", mock.Anything, "p-1").Return(versions, nil)

		err := m.svc.ModelExists(ctx, testProject, "hmeq", false, "Version 7")
		assert.ErrorIs(t, err, domain.ErrProjectVersionNotFound)
	})

	t.Run("project without versions", func(t *testing.T) {
		m := newImportMocks()
		err := m.svc.ModelExists(ctx, &domain.Project{ID: "p-3"}, "hmeq", false, "latest")
		assert.NoError(t, err)
	})
}

func TestHistory(t *testing.T) {
	m := newImportMocks()
	records := []*domain.ImportRecord{{ModelID: "m-1"}}
	m.history.On("List", mock.Anything, ports.ImportListFilter{Limit: 50}).Return(records, 1, nil)

	got, total, err := m.svc.History(context.Background(), ports.ImportListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, got, 1)

	m.history.On("List", mock.Anything, ports.ImportListFilter{Limit: 50, Offset: 0, ModelName: "tree"}).Return(records, 1, nil)
	_, _, err = m.svc.History(context.Background(), ports.ImportListFilter{Offset: -5, ModelName: "tree"})
	require.NoError(t, err)

	off := NewModelImportService(m.repo, m.platform, m.writer, nil)
	_, _, err = off.History(context.Background(), ports.ImportListFilter{})
	assert.ErrorIs(t, err, domain.ErrImportHistoryOff)
}
