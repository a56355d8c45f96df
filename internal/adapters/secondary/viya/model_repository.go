package viya

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"

	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
)

const (
	modelRepositoryRoot = "/modelRepository"

	projectMediaType = "application/vnd.sas.models.project+json"
	modelMediaType   = "application/vnd.sas.models.model+json"

	defaultRepositoryName = "Public"
)

// ModelRepository implements ports.ModelRepository over the Model Repository
// REST API.
type ModelRepository struct {
	c *Client
}

func NewModelRepository(c *Client) *ModelRepository {
	return &ModelRepository{c: c}
}

var _ ports.ModelRepository = (*ModelRepository)(nil)

func (r *ModelRepository) GetProject(ctx context.Context, ref string) (*domain.Project, error) {
	if domain.IsUUID(ref) {
		var p domain.Project
		_, err := r.c.get(ctx, modelRepositoryRoot+"/projects/"+url.PathEscape(ref), nil, &p)
		if IsNotFound(err) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &p, nil
	}

	var page collection[domain.Project]
	q := url.Values{"filter": {nameFilter("name", ref)}}
	if _, err := r.c.get(ctx, modelRepositoryRoot+"/projects", q, &page); err != nil {
		return nil, err
	}
	for i := range page.Items {
		if page.Items[i].Name == ref {
			return &page.Items[i], nil
		}
	}
	return nil, nil
}

// DefaultRepository returns the repository flagged as default, falling back
// to the one named Public.
func (r *ModelRepository) DefaultRepository(ctx context.Context) (*domain.Repository, error) {
	repos, err := listAll[domain.Repository](ctx, r.c, modelRepositoryRoot+"/repositories", nil)
	if err != nil {
		return nil, err
	}
	var public *domain.Repository
	for i := range repos {
		if repos[i].IsDefault {
			return &repos[i], nil
		}
		if repos[i].Name == defaultRepositoryName {
			public = &repos[i]
		}
	}
	if public != nil {
		return public, nil
	}
	return nil, domain.ErrRepositoryNotFound
}

func (r *ModelRepository) CreateProject(ctx context.Context, name, repositoryID string) (*domain.Project, error) {
	body, err := jsonBody(map[string]string{"name": name, "repositoryId": repositoryID})
	if err != nil {
		return nil, err
	}
	var p domain.Project
	_, err = r.c.do(ctx, request{
		method:  http.MethodPost,
		path:    modelRepositoryRoot + "/projects",
		body:    body,
		headers: map[string]string{"Content-Type": projectMediaType, "Accept": projectMediaType},
	}, &p)
	if err != nil {
		return nil, fmt.Errorf("create project %s: %w", name, err)
	}
	return &p, nil
}

func (r *ModelRepository) ListProjectVersions(ctx context.Context, projectID string) ([]domain.ProjectVersion, error) {
	versions, err := listAll[domain.ProjectVersion](ctx, r.c, modelRepositoryRoot+"/projects/"+url.PathEscape(projectID)+"/projectVersions", nil)
	return versions, notFoundAs(err, domain.ErrProjectNotFound)
}

func (r *ModelRepository) ListVersionModels(ctx context.Context, projectID, versionID string) ([]domain.Model, error) {
	path := fmt.Sprintf("%s/projects/%s/projectVersions/%s/models", modelRepositoryRoot, url.PathEscape(projectID), url.PathEscape(versionID))
	models, err := listAll[domain.Model](ctx, r.c, path, nil)
	return models, notFoundAs(err, domain.ErrProjectVersionNotFound)
}

func (r *ModelRepository) GetModel(ctx context.Context, id string) (*domain.Model, error) {
	var m domain.Model
	hdr, err := r.c.get(ctx, modelRepositoryRoot+"/models/"+url.PathEscape(id), nil, &m)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrModelNotFound)
	}
	m.ETag = hdr.Get("ETag")
	return &m, nil
}

func (r *ModelRepository) DeleteModel(ctx context.Context, id string) error {
	_, err := r.c.do(ctx, request{method: http.MethodDelete, path: modelRepositoryRoot + "/models/" + url.PathEscape(id)}, nil)
	return notFoundAs(err, domain.ErrModelNotFound)
}

// ImportModelFromZip posts the archive as an octet stream. version is a
// project version name, "latest" or "new".
func (r *ModelRepository) ImportModelFromZip(ctx context.Context, name string, project *domain.Project, zip []byte, version string) (*domain.Model, error) {
	q := url.Values{
		"name":      {name},
		"type":      {"ZIP"},
		"projectId": {project.ID},
	}
	switch version {
	case "", domain.LatestVersion:
	case "new":
		q.Set("versionId", "new")
	default:
		id, err := r.versionID(ctx, project.ID, version)
		if err != nil {
			return nil, err
		}
		q.Set("versionId", id)
	}

	var resp struct {
		domain.Model
		Items []domain.Model `json:"items"`
	}
	_, err := r.c.do(ctx, request{
		method:  http.MethodPost,
		path:    modelRepositoryRoot + "/models",
		query:   q,
		body:    bytes.NewReader(zip),
		headers: map[string]string{"Content-Type": "application/octet-stream"},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", name, notFoundAs(err, domain.ErrProjectNotFound))
	}

	model := resp.Model
	if len(resp.Items) > 0 {
		model = resp.Items[0]
	}
	if model.ProjectName == "" {
		model.ProjectName = project.Name
	}
	log.WithFields(log.Fields{"model_id": model.ID, "project": project.Name}).Debug("Model zip accepted")
	return &model, nil
}

func (r *ModelRepository) versionID(ctx context.Context, projectID, name string) (string, error) {
	versions, err := r.ListProjectVersions(ctx, projectID)
	if err != nil {
		return "", err
	}
	for _, v := range versions {
		if v.Name == name {
			return v.ID, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, domain.ErrProjectVersionNotFound)
}

// AddModelContent uploads one file to a model as multipart form data.
func (r *ModelRepository) AddModelContent(ctx context.Context, modelID, name string, data []byte, role string) (*domain.ModelContent, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("name", name); err != nil {
		return nil, err
	}
	if role != "" {
		if err := mw.WriteField("role", role); err != nil {
			return nil, err
		}
	}
	fw, err := mw.CreateFormFile("files", name)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var content domain.ModelContent
	_, err = r.c.do(ctx, request{
		method:  http.MethodPost,
		path:    modelRepositoryRoot + "/models/" + url.PathEscape(modelID) + "/contents",
		body:    &buf,
		headers: map[string]string{"Content-Type": mw.FormDataContentType()},
	}, &content)
	if err != nil {
		return nil, fmt.Errorf("add %s to model %s: %w", name, modelID, notFoundAs(err, domain.ErrModelNotFound))
	}
	return &content, nil
}

// UpdateModelScoreCode sets the model's score code type. The model is
// re-read first so the update carries a current ETag.
func (r *ModelRepository) UpdateModelScoreCode(ctx context.Context, model *domain.Model, scoreCodeType string) (*domain.Model, error) {
	current, err := r.GetModel(ctx, model.ID)
	if err != nil {
		return nil, err
	}
	current.ScoreCodeType = scoreCodeType

	body, err := jsonBody(current)
	if err != nil {
		return nil, err
	}
	headers := map[string]string{"Content-Type": modelMediaType, "Accept": modelMediaType}
	if current.ETag != "" {
		headers["If-Match"] = current.ETag
	}
	var updated domain.Model
	hdr, err := r.c.do(ctx, request{
		method:  http.MethodPut,
		path:    modelRepositoryRoot + "/models/" + url.PathEscape(model.ID),
		body:    body,
		headers: headers,
	}, &updated)
	if err != nil {
		return nil, fmt.Errorf("update model %s: %w", model.ID, notFoundAs(err, domain.ErrModelNotFound))
	}
	updated.ETag = hdr.Get("ETag")
	return &updated, nil
}
