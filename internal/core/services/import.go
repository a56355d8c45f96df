package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"viya-model-manager/internal/artifacts"
	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
)

const (
	scoreCodeRole = "score"
	scoreCodeType = "python"
)

type ImportRequest struct {
	Files  domain.ModelFiles
	Prefix string
	// Project is a project name or UUID.
	Project        string
	ProjectVersion string
	Overwrite      bool
	ScoreCode      *domain.ScoreCodeOptions
	MLflow         *artifacts.MLflowDetails
	RequestID      string
}

type ImportResult struct {
	Model           *domain.Model
	Files           domain.ModelFiles
	PlatformVersion domain.PlatformVersion
	ScoreCode       bool
}

// ModelImportService registers zipped model files in SAS Model Manager,
// generating score code when enough information is supplied.
type ModelImportService struct {
	repo     ports.ModelRepository
	platform ports.PlatformInfo
	writer   ports.ScoreCodeWriter
	history  ports.ImportRecordRepository
}

// NewModelImportService wires the import pipeline. history may be nil.
func NewModelImportService(repo ports.ModelRepository, platform ports.PlatformInfo, writer ports.ScoreCodeWriter, history ports.ImportRecordRepository) *ModelImportService {
	return &ModelImportService{repo: repo, platform: platform, writer: writer, history: history}
}

func (s *ModelImportService) ImportModel(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if req.Prefix == "" {
		return nil, domain.ErrInvalidModelName
	}
	if req.Project == "" {
		return nil, domain.ErrInvalidProject
	}
	if req.Files.IsZero() {
		return nil, domain.ErrInvalidModelFiles
	}
	if req.ProjectVersion == "" {
		req.ProjectVersion = domain.LatestVersion
	}

	var opts domain.ScoreCodeOptions
	if req.ScoreCode != nil {
		opts = *req.ScoreCode
	}
	if req.MLflow != nil {
		opts.PickleType = req.MLflow.SerializationFormat
		if opts.ModelFileName == "" {
			opts.ModelFileName = req.MLflow.ModelFileName
		}
	}

	var (
		res *ImportResult
		err error
	)
	if !opts.Complete() {
		log.WithField("model", req.Prefix).Warn("input variables, predict method and score metrics are required for the automatic generation of score code; importing without score code")
		res, err = s.importZip(ctx, req, false)
	} else {
		var version domain.PlatformVersion
		version, err = s.platform.PlatformVersion(ctx)
		if err != nil {
			return nil, fmt.Errorf("detect platform version: %w", err)
		}
		if version == domain.Viya4 {
			res, err = s.importViya4(ctx, req, opts)
		} else {
			res, err = s.importViya35(ctx, req, opts)
		}
		if res != nil {
			res.PlatformVersion = version
		}
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"model_id":   res.Model.ID,
		"model_name": res.Model.Name,
		"project":    res.Model.ProjectName,
	}).Info("Model was successfully imported into SAS Model Manager")
	s.record(ctx, req, res)
	return res, nil
}

// importZip zips, resolves the project, clears name conflicts and imports.
func (s *ModelImportService) importZip(ctx context.Context, req ImportRequest, viya4 bool) (*ImportResult, error) {
	zipped, err := artifacts.ZipFiles(req.Files, req.Prefix, viya4)
	if err != nil {
		return nil, fmt.Errorf("zip model files: %w", err)
	}

	found, err := s.repo.GetProject(ctx, req.Project)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	project, err := s.ProjectExists(ctx, req.Project, found)
	if err != nil {
		return nil, err
	}
	if err := s.ModelExists(ctx, project, req.Prefix, req.Overwrite, req.ProjectVersion); err != nil {
		return nil, err
	}

	model, err := s.repo.ImportModelFromZip(ctx, req.Prefix, project, zipped, req.ProjectVersion)
	if err != nil {
		return nil, fmt.Errorf("import model: %w", err)
	}
	if model.ProjectName == "" {
		model.ProjectName = project.Name
	}
	return &ImportResult{Model: model, Files: req.Files}, nil
}

// importViya4 writes score code first so it ships inside the zip.
func (s *ModelImportService) importViya4(ctx context.Context, req ImportRequest, opts domain.ScoreCodeOptions) (*ImportResult, error) {
	code, err := s.writer.WriteScoreCode(ctx, ports.ScoreCodeRequest{
		Prefix:  req.Prefix,
		Options: opts,
		Dir:     req.Files.Dir(),
	})
	if err != nil {
		return nil, fmt.Errorf("write score code: %w", err)
	}
	if !req.Files.IsDir() {
		if err := req.Files.Merge(code); err != nil {
			return nil, err
		}
	}

	res, err := s.importZip(ctx, req, true)
	if err != nil {
		return nil, err
	}
	res.ScoreCode = true
	return res, nil
}

// importViya35 imports first: the score code needs the model UUID, so it is
// uploaded as model content afterwards.
func (s *ModelImportService) importViya35(ctx context.Context, req ImportRequest, opts domain.ScoreCodeOptions) (*ImportResult, error) {
	res, err := s.importZip(ctx, req, false)
	if err != nil {
		return nil, err
	}

	code, err := s.writer.WriteScoreCode(ctx, ports.ScoreCodeRequest{
		Prefix:  req.Prefix,
		Options: opts,
		Dir:     req.Files.Dir(),
		Model:   res.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("write score code: %w", err)
	}
	for _, name := range sortedNames(code) {
		if _, err := s.repo.AddModelContent(ctx, res.Model.ID, name, code[name], scoreCodeRole); err != nil {
			return nil, fmt.Errorf("upload score code: %w", err)
		}
	}
	if _, err := s.repo.UpdateModelScoreCode(ctx, res.Model, scoreCodeType); err != nil {
		return nil, fmt.Errorf("set score code type: %w", err)
	}
	if !req.Files.IsDir() {
		if err := req.Files.Merge(code); err != nil {
			return nil, err
		}
	}

	model, err := s.repo.GetModel(ctx, res.Model.ID)
	if err != nil {
		return nil, fmt.Errorf("refresh model: %w", err)
	}
	if model.ProjectName == "" {
		model.ProjectName = res.Model.ProjectName
	}
	res.Model = model
	res.ScoreCode = true
	return res, nil
}

// ProjectExists returns found when set. Otherwise a new project named ref is
// created in the default repository, unless ref is a UUID: an unknown UUID is
// an error rather than a project name.
func (s *ModelImportService) ProjectExists(ctx context.Context, ref string, found *domain.Project) (*domain.Project, error) {
	if found != nil {
		return found, nil
	}
	if domain.IsUUID(ref) {
		return nil, domain.ErrProjectUUIDNotFound
	}

	repo, err := s.repo.DefaultRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("get default repository: %w", err)
	}
	project, err := s.repo.CreateProject(ctx, ref, repo.ID)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	log.WithFields(log.Fields{"project": project.Name, "repository": repo.Name}).Info("A new project was created")
	return project, nil
}

// ModelExists looks for models named name in the given project version and
// deletes them when overwrite is set.
func (s *ModelImportService) ModelExists(ctx context.Context, project *domain.Project, name string, overwrite bool, versionName string) error {
	if versionName == "" || versionName == domain.LatestVersion {
		versionName = project.LatestVersion
	}
	if versionName == "" {
		// A project without versions has no models to clash with.
		return nil
	}

	versions, err := s.repo.ListProjectVersions(ctx, project.ID)
	if err != nil {
		return fmt.Errorf("list project versions: %w", err)
	}
	var version *domain.ProjectVersion
	for i := range versions {
		if versions[i].Name == versionName {
			version = &versions[i]
			break
		}
	}
	if version == nil {
		return fmt.Errorf("%s: %w", versionName, domain.ErrProjectVersionNotFound)
	}

	models, err := s.repo.ListVersionModels(ctx, project.ID, version.ID)
	if err != nil {
		return fmt.Errorf("list version models: %w", err)
	}
	for _, m := range models {
		if m.Name != name {
			continue
		}
		if !overwrite {
			return fmt.Errorf("%s in %s/%s: %w", name, project.Name, version.Name, domain.ErrModelNameConflict)
		}
		if err := s.repo.DeleteModel(ctx, m.ID); err != nil {
			return fmt.Errorf("delete model %s: %w", m.ID, err)
		}
		log.WithFields(log.Fields{"model_id": m.ID, "model_name": m.Name}).Info("Existing model was deleted before import")
	}
	return nil
}

func (s *ModelImportService) record(ctx context.Context, req ImportRequest, res *ImportResult) {
	if s.history == nil {
		return
	}
	count := 0
	if names, err := res.Files.Names(); err == nil {
		count = len(names)
	}
	rec := &domain.ImportRecord{
		ID:              uuid.New(),
		CreatedAt:       time.Now(),
		ModelID:         res.Model.ID,
		ModelName:       res.Model.Name,
		ProjectID:       res.Model.ProjectID,
		ProjectName:     res.Model.ProjectName,
		ProjectVersion:  req.ProjectVersion,
		PlatformVersion: res.PlatformVersion.String(),
		ScoreCode:       res.ScoreCode,
		Overwrote:       req.Overwrite,
		FileCount:       count,
		RequestID:       req.RequestID,
	}
	if err := s.history.Create(ctx, rec); err != nil {
		log.WithError(err).WithField("model_id", rec.ModelID).Warn("failed to record model import")
	}
}

// History lists recorded imports.
func (s *ModelImportService) History(ctx context.Context, filter ports.ImportListFilter) ([]*domain.ImportRecord, int, error) {
	if s.history == nil {
		return nil, 0, domain.ErrImportHistoryOff
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.history.List(ctx, filter)
}

func sortedNames(files map[string][]byte) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
