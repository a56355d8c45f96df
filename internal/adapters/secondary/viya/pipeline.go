package viya

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
)

const (
	pipelineRoot      = "/mlPipelineAutomation/projects"
	pipelineMediaType = "application/vnd.sas.analytics.ml.pipeline.automation.project+json"
)

// PipelineAutomation implements ports.PipelineAutomation.
type PipelineAutomation struct {
	c *Client
}

func NewPipelineAutomation(c *Client) *PipelineAutomation {
	return &PipelineAutomation{c: c}
}

var _ ports.PipelineAutomation = (*PipelineAutomation)(nil)

func (p *PipelineAutomation) ListProjects(ctx context.Context, filter ports.PipelineListFilter) ([]domain.PipelineProject, error) {
	q := url.Values{}
	if filter.Name != "" {
		q.Set("filter", nameFilter("name", filter.Name))
	}
	if filter.Limit > 0 {
		q.Set("limit", fmt.Sprint(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("start", fmt.Sprint(filter.Offset))
	}
	var page collection[domain.PipelineProject]
	if _, err := p.c.get(ctx, pipelineRoot, q, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (p *PipelineAutomation) GetProject(ctx context.Context, id string) (*domain.PipelineProject, error) {
	var project domain.PipelineProject
	hdr, err := p.c.do(ctx, request{
		method:  http.MethodGet,
		path:    pipelineRoot + "/" + url.PathEscape(id),
		headers: map[string]string{"Accept": pipelineMediaType},
	}, &project)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrPipelineProjectNotFound)
	}
	project.ETag = hdr.Get("ETag")
	return &project, nil
}

// createProjectBody is the document the create endpoint expects. Read-only
// fields of the project resource are left out.
type createProjectBody struct {
	DataTableURI               string                         `json:"dataTableUri"`
	Description                string                         `json:"description,omitempty"`
	Name                       string                         `json:"name"`
	Type                       string                         `json:"type"`
	AnalyticsProjectAttributes domain.AnalyticsProjectAttrs   `json:"analyticsProjectAttributes"`
	Settings                   domain.PipelineProjectSettings `json:"settings"`
	Version                    int                            `json:"version"`
}

func (p *PipelineAutomation) CreateProject(ctx context.Context, project *domain.PipelineProject) (*domain.PipelineProject, error) {
	typ := project.Type
	if typ == "" {
		typ = domain.PipelineProjectTypePredictive
	}
	body, err := jsonBody(createProjectBody{
		DataTableURI:               project.DataTableURI,
		Description:                project.Description,
		Name:                       project.Name,
		Type:                       typ,
		AnalyticsProjectAttributes: project.AnalyticsProjectAttributes,
		Settings:                   project.Settings,
		Version:                    1,
	})
	if err != nil {
		return nil, err
	}
	var created domain.PipelineProject
	hdr, err := p.c.do(ctx, request{
		method:  http.MethodPost,
		path:    pipelineRoot,
		body:    body,
		headers: map[string]string{"Content-Type": pipelineMediaType, "Accept": pipelineMediaType},
	}, &created)
	if err != nil {
		return nil, fmt.Errorf("create pipeline project %s: %w", project.Name, err)
	}
	created.ETag = hdr.Get("ETag")
	return &created, nil
}

func (p *PipelineAutomation) UpdateProject(ctx context.Context, project *domain.PipelineProject) (*domain.PipelineProject, error) {
	body, err := jsonBody(project)
	if err != nil {
		return nil, err
	}
	headers := map[string]string{"Content-Type": pipelineMediaType, "Accept": pipelineMediaType}
	if project.ETag != "" {
		headers["If-Match"] = project.ETag
	}
	var updated domain.PipelineProject
	hdr, err := p.c.do(ctx, request{
		method:  http.MethodPut,
		path:    pipelineRoot + "/" + url.PathEscape(project.ID),
		body:    body,
		headers: headers,
	}, &updated)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrPipelineProjectNotFound)
	}
	updated.ETag = hdr.Get("ETag")
	return &updated, nil
}

func (p *PipelineAutomation) DeleteProject(ctx context.Context, id string) error {
	_, err := p.c.do(ctx, request{method: http.MethodDelete, path: pipelineRoot + "/" + url.PathEscape(id)}, nil)
	return notFoundAs(err, domain.ErrPipelineProjectNotFound)
}
