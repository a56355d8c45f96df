package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"viya-model-manager/internal/config"
	"viya-model-manager/internal/core/services"
	"viya-model-manager/internal/testutil"
)

// newTestApp returns an app with fixed configuration and mocked collaborators.
func newTestApp() (*app, *testutil.MockTokenStore) {
	tokens := new(testutil.MockTokenStore)
	a := &app{
		cfg: &config.Config{
			Viya:   config.ViyaConfig{URL: "https://viya.example.com", VerifyTLS: true},
			Logger: config.LoggerConfig{Level: "error", Format: "text"},
		},
		tokens: tokens,
	}
	a.importService = func(context.Context) (*services.ModelImportService, error) {
		panic("importService not stubbed")
	}
	a.pipelineService = func(context.Context) (*services.PipelineService, error) {
		panic("pipelineService not stubbed")
	}
	return a, tokens
}

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(a)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
