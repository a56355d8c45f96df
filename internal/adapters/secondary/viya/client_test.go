package viya

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viya-model-manager/internal/core/domain"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:      srv.URL + "/",
		VerifyTLS:    true,
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}, nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /modelRepository/models/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"errorCode":      21302,
			"message":        "The model was not found.",
			"details":        []string{"path: /modelRepository/models/abc"},
			"httpStatusCode": 404,
		})
	})
	c := newTestClient(t, mux)

	_, err := NewModelRepository(c).GetModel(context.Background(), "abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 21302, apiErr.ErrorCode)
	assert.Contains(t, apiErr.Error(), "The model was not found.")
	assert.Contains(t, apiErr.Error(), "path: /modelRepository/models/abc")
}

func TestClient_Unauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /licenses/grants", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("unauthorized"))
	})
	p, err := NewPlatform(newTestClient(t, mux), "")
	require.NoError(t, err)

	_, err = p.PlatformVersion(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /licenses/grants", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"release": "V04"})
	})
	p, err := NewPlatform(newTestClient(t, mux), "")
	require.NoError(t, err)

	v, err := p.PlatformVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Viya4, v)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_RetriesExhausted(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /licenses/grants", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	p, err := NewPlatform(newTestClient(t, mux), "")
	require.NoError(t, err)

	_, err = p.PlatformVersion(context.Background())
	assert.ErrorIs(t, err, domain.ErrViyaUnavailable)
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url, RetryMax: 0}, nil)
	_, err := NewModelRepository(c).GetModel(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrViyaUnavailable)
}

func TestNameFilter(t *testing.T) {
	assert.Equal(t, `eq(name,"HMEQ")`, nameFilter("name", "HMEQ"))
	assert.Equal(t, `eq(name,"a\"b")`, nameFilter("name", `a"b`))
}
