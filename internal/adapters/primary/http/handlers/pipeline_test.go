package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListPipelineProjects(t *testing.T) {
	m, r := setupRouter()
	m.pipeline.On("ListProjects", mock.Anything, ports.PipelineListFilter{Name: "churn", Limit: 20}).
		Return([]domain.PipelineProject{{ID: "pp-1", Name: "churn"}}, nil)

	req, _ := http.NewRequest("GET", apiBase+"/pipeline-projects?name=churn", nil)
	w := serve(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Len(t, resp["items"], 1)
}

func TestGetPipelineProject_NotFound(t *testing.T) {
	m, r := setupRouter()
	m.pipeline.On("GetProject", mock.Anything, "missing").Return(nil, domain.ErrPipelineProjectNotFound)

	req, _ := http.NewRequest("GET", apiBase+"/pipeline-projects/missing", nil)
	w := serve(r, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePipelineProject(t *testing.T) {
	m, r := setupRouter()
	m.pipeline.On("CreateProject", mock.Anything, mock.AnythingOfType("*domain.PipelineProject")).
		Return(&domain.PipelineProject{
			ID:                         "pp-1",
			Name:                       "churn",
			Type:                       domain.PipelineProjectTypePredictive,
			AnalyticsProjectAttributes: domain.AnalyticsProjectAttrs{TargetVariable: "BAD"},
		}, nil)

	body := map[string]any{
		"name":            "churn",
		"data_table_uri":  "/dataTables/dataSources/cas~fs~cas-shared-default~fs~Public/tables/HMEQ",
		"target_variable": "BAD",
	}
	w := serve(r, jsonRequest(t, "POST", "/pipeline-projects", body))

	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "pp-1", resp["id"])
	assert.Equal(t, "BAD", resp["target_variable"])
}

func TestCreatePipelineProject_Validation(t *testing.T) {
	_, r := setupRouter()

	w := serve(r, jsonRequest(t, "POST", "/pipeline-projects", map[string]any{"name": "churn"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePipelineProject(t *testing.T) {
	m, r := setupRouter()
	m.pipeline.On("GetProject", mock.Anything, "pp-1").
		Return(&domain.PipelineProject{ID: "pp-1", Name: "churn", ETag: `"v1"`}, nil)
	m.pipeline.On("UpdateProject", mock.Anything, mock.MatchedBy(func(p *domain.PipelineProject) bool {
		return p.Description == "updated" && p.ETag == `"v1"`
	})).Return(&domain.PipelineProject{ID: "pp-1", Name: "churn", Description: "updated"}, nil)

	w := serve(r, jsonRequest(t, "PATCH", "/pipeline-projects/pp-1", map[string]any{"description": "updated"}))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "updated")
}

func TestDeletePipelineProject(t *testing.T) {
	m, r := setupRouter()
	m.pipeline.On("DeleteProject", mock.Anything, "pp-1").Return(nil)

	req, _ := http.NewRequest("DELETE", apiBase+"/pipeline-projects/pp-1", nil)
	w := serve(r, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	m.pipeline.AssertExpectations(t)
}
