package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"viya-model-manager/internal/core/services"
	"viya-model-manager/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const apiBase = "/api/v1/model-manager"

type testMocks struct {
	repo     *testutil.MockModelRepository
	platform *testutil.MockPlatformInfo
	writer   *testutil.MockScoreCodeWriter
	history  *testutil.MockImportRecordRepo
	pipeline *testutil.MockPipelineAutomation
}

func setupRouter() (*testMocks, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	m := &testMocks{
		repo:     new(testutil.MockModelRepository),
		platform: new(testutil.MockPlatformInfo),
		writer:   new(testutil.MockScoreCodeWriter),
		history:  new(testutil.MockImportRecordRepo),
		pipeline: new(testutil.MockPipelineAutomation),
	}

	importSvc := services.NewModelImportService(m.repo, m.platform, m.writer, m.history)
	pipelineSvc := services.NewPipelineService(m.pipeline)

	h := New(importSvc, pipelineSvc)
	r := gin.New()
	api := r.Group(apiBase)
	h.RegisterRoutes(api)

	return m, r
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(method, apiBase+path, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := w.CreateFormFile(formFieldFiles, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest("POST", apiBase+"/imports", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
