package viya

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viya-model-manager/internal/core/domain"
)

func TestParsePlatformVersion(t *testing.T) {
	tests := []struct {
		in   string
		want domain.PlatformVersion
		ok   bool
	}{
		{"V03", domain.Viya35, true},
		{"3.5", domain.Viya35, true},
		{"V04", domain.Viya4, true},
		{"4", domain.Viya4, true},
		{"2023.10", domain.Viya4, true},
		{"", domain.PlatformUnknown, false},
		{"stable", domain.PlatformUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlatformVersion(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, err == nil)
		})
	}
}

func TestPlatform_DetectsAndCaches(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /licenses/grants", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"release": "V04"})
	})
	p, err := NewPlatform(newTestClient(t, mux), "")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		v, err := p.PlatformVersion(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.Viya4, v)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestPlatform_MissingGrantsMeans35(t *testing.T) {
	p, err := NewPlatform(newTestClient(t, http.NewServeMux()), "")
	require.NoError(t, err)
	v, err := p.PlatformVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Viya35, v)
}

func TestPlatform_Override(t *testing.T) {
	p, err := NewPlatform(nil, "3.5")
	require.NoError(t, err)
	v, err := p.PlatformVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Viya35, v)

	_, err = NewPlatform(nil, "nine")
	assert.Error(t, err)
}
