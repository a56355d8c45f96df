package viya

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viya-model-manager/internal/core/domain"
)

func TestModelRepository_GetProject(t *testing.T) {
	id := uuid.NewString()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /modelRepository/projects", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("filter") == `eq(name,"HMEQ")` {
			writeJSON(w, http.StatusOK, map[string]any{"items": []map[string]any{
				{"id": "p-1", "name": "HMEQ", "latestVersion": "Version 1"},
			}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
	})
	mux.HandleFunc("GET /modelRepository/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found"})
	})
	repo := NewModelRepository(newTestClient(t, mux))
	ctx := context.Background()

	p, err := repo.GetProject(ctx, "HMEQ")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Version 1", p.LatestVersion)

	p, err = repo.GetProject(ctx, "Missing")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = repo.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestModelRepository_DefaultRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /modelRepository/repositories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"count": 2, "items": []map[string]any{
			{"id": "r-1", "name": "Public"},
			{"id": "r-2", "name": "DMRepository", "defaultRepository": true},
		}})
	})
	repo, err := NewModelRepository(newTestClient(t, mux)).DefaultRepository(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r-2", repo.ID)
}

func TestModelRepository_DefaultRepository_None(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /modelRepository/repositories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
	})
	_, err := NewModelRepository(newTestClient(t, mux)).DefaultRepository(context.Background())
	assert.ErrorIs(t, err, domain.ErrRepositoryNotFound)
}

func TestModelRepository_CreateProject(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /modelRepository/projects", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, projectMediaType, r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"New","repositoryId":"r-1"}`, string(body))
		writeJSON(w, http.StatusCreated, map[string]any{"id": "p-2", "name": "New", "repositoryId": "r-1"})
	})
	p, err := NewModelRepository(newTestClient(t, mux)).CreateProject(context.Background(), "New", "r-1")
	require.NoError(t, err)
	assert.Equal(t, "p-2", p.ID)
}

func TestModelRepository_ImportModelFromZip(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /modelRepository/projects/{id}/projectVersions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []map[string]any{{"id": "v-2", "name": "Version 2"}}})
	})
	mux.HandleFunc("POST /modelRepository/models", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "hmeq", q.Get("name"))
		assert.Equal(t, "ZIP", q.Get("type"))
		assert.Equal(t, "p-1", q.Get("projectId"))
		assert.Empty(t, q.Get("versionId"))
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "PK-zip", string(body))
		writeJSON(w, http.StatusCreated, map[string]any{"items": []map[string]any{{"id": "m-1", "name": "hmeq", "projectId": "p-1"}}})
	})
	repo := NewModelRepository(newTestClient(t, mux))
	project := &domain.Project{ID: "p-1", Name: "HMEQ"}

	m, err := repo.ImportModelFromZip(context.Background(), "hmeq", project, []byte("PK-zip"), "latest")
	require.NoError(t, err)
	assert.Equal(t, "m-1", m.ID)
	assert.Equal(t, "HMEQ", m.ProjectName)

	_, err = repo.ImportModelFromZip(context.Background(), "hmeq", project, []byte("PK-zip"), "Version 9")
	assert.ErrorIs(t, err, domain.ErrProjectVersionNotFound)
}

func TestModelRepository_ImportModelFromZip_NamedVersion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /modelRepository/projects/{id}/projectVersions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []map[string]any{{"id": "v-2", "name": "Version 2"}}})
	})
	var versionID string
	mux.HandleFunc("POST /modelRepository/models", func(w http.ResponseWriter, r *http.Request) {
		versionID = r.URL.Query().Get("versionId")
		writeJSON(w, http.StatusCreated, map[string]any{"id": "m-1", "name": "hmeq"})
	})
	m, err := NewModelRepository(newTestClient(t, mux)).ImportModelFromZip(context.Background(), "hmeq", &domain.Project{ID: "p-1"}, []byte("zip"), "Version 2")
	require.NoError(t, err)
	assert.Equal(t, "m-1", m.ID)
	assert.Equal(t, "v-2", versionID)
}

func TestModelRepository_AddModelContent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /modelRepository/models/{id}/contents", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "m-1", r.PathValue("id"))
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "score", r.FormValue("role"))
		assert.Equal(t, "score_hmeq.py", r.FormValue("name"))
		f, hdr, err := r.FormFile("files")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "score_hmeq.py", hdr.Filename)
		assert.Equal(t, "def score(): pass", string(data))
		writeJSON(w, http.StatusCreated, map[string]any{"id": "c-1", "name": "score_hmeq.py", "role": "score"})
	})
	content, err := NewModelRepository(newTestClient(t, mux)).AddModelContent(context.Background(), "m-1", "score_hmeq.py", []byte("def score(): pass"), "score")
	require.NoError(t, err)
	assert.Equal(t, "c-1", content.ID)
}

func TestModelRepository_UpdateModelScoreCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /modelRepository/models/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"etag-1"`)
		writeJSON(w, http.StatusOK, map[string]any{"id": "m-1", "name": "hmeq"})
	})
	mux.HandleFunc("PUT /modelRepository/models/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `"etag-1"`, r.Header.Get("If-Match"))
		assert.Equal(t, modelMediaType, r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"scoreCodeType":"python"`)
		w.Header().Set("ETag", `"etag-2"`)
		writeJSON(w, http.StatusOK, map[string]any{"id": "m-1", "name": "hmeq", "scoreCodeType": "python"})
	})
	m, err := NewModelRepository(newTestClient(t, mux)).UpdateModelScoreCode(context.Background(), &domain.Model{ID: "m-1"}, "python")
	require.NoError(t, err)
	assert.Equal(t, "python", m.ScoreCodeType)
	assert.Equal(t, `"etag-2"`, m.ETag)
}

func TestModelRepository_ListAndDelete(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /modelRepository/projects/{id}/projectVersions/{vid}/models", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("start"))
		writeJSON(w, http.StatusOK, map[string]any{"count": 1, "items": []map[string]any{{"id": "m-9", "name": "hmeq"}}})
	})
	mux.HandleFunc("DELETE /modelRepository/models/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "m-9" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "gone"})
	})
	repo := NewModelRepository(newTestClient(t, mux))
	ctx := context.Background()

	models, err := repo.ListVersionModels(ctx, "p-1", "v-1")
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "m-9", models[0].ID)

	assert.NoError(t, repo.DeleteModel(ctx, "m-9"))
	assert.ErrorIs(t, repo.DeleteModel(ctx, "m-0"), domain.ErrModelNotFound)
}
