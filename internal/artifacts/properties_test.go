package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viya-model-manager/internal/core/domain"
)

func TestBuildModelProperties_TargetLevels(t *testing.T) {
	tests := []struct {
		name     string
		targets  []string
		level    string
		function string
		event    string
		probVar  string
		props    int
	}{
		{"regression", nil, "INTERVAL", "Prediction", "", "", 0},
		{"binary", []string{"1", "0"}, "BINARY", "Classification", "1", "P_1", 0},
		{"multiclass", []string{"a", "b", "c"}, "NOMINAL", "Classification", "", "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props, err := BuildModelProperties(ModelPropertiesInput{Name: "m", TargetVariable: "BAD", TargetValues: tt.targets})
			require.NoError(t, err)
			assert.Equal(t, tt.level, props.TargetLevel)
			assert.Equal(t, tt.function, props.Function)
			assert.Equal(t, tt.event, props.TargetEvent)
			assert.Equal(t, tt.probVar, props.EventProbVar)
			assert.Len(t, props.Properties, tt.props)
			assert.Equal(t, "3", props.ToolVersion)
		})
	}
}

func TestBuildModelProperties_Multiclass(t *testing.T) {
	props, err := BuildModelProperties(ModelPropertiesInput{Name: "m", TargetValues: []string{"a", "b", "c"}})
	require.NoError(t, err)
	assert.Equal(t, Property{Name: "multiclass_target_events", Value: "a, b, c", Type: "string"}, props.Properties[0])
	assert.Equal(t, "P_a, P_b, P_c", props.Properties[1].Value)
}

func TestBuildModelProperties_SingleTarget(t *testing.T) {
	_, err := BuildModelProperties(ModelPropertiesInput{Name: "m", TargetValues: []string{"1"}})
	assert.ErrorIs(t, err, domain.ErrInvalidTargetValues)
}

func TestBuildModelProperties_Truncation(t *testing.T) {
	props, err := BuildModelProperties(ModelPropertiesInput{
		Name:        "m",
		Description: strings.Repeat("d", 2000),
		Properties:  []Property{{Name: strings.Repeat("n", 80), Value: strings.Repeat("v", 600)}},
	})
	require.NoError(t, err)
	assert.Len(t, props.Description, 1024)
	assert.Len(t, props.Properties[0].Name, 60)
	assert.Len(t, props.Properties[0].Value, 512)
	assert.Equal(t, "string", props.Properties[0].Type)
}

func TestWriteModelPropertiesJSON(t *testing.T) {
	dir := t.TempDir()
	files, err := WriteModelPropertiesJSON(ModelPropertiesInput{Name: "hmeq", Algorithm: "Logistic regression"}, dir)
	require.NoError(t, err)
	assert.Nil(t, files)

	data, err := os.ReadFile(filepath.Join(dir, PropertiesFile))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "hmeq", decoded["name"])
	assert.Equal(t, "Logistic regression", decoded["algorithm"])
	assert.Equal(t, "python", decoded["scoreCodeType"])
}

func TestFileMetadata(t *testing.T) {
	roles := FileMetadata("hmeq", false)
	require.Len(t, roles, 4)
	assert.Equal(t, FileRole{Role: "score", Name: "score_hmeq.py"}, roles[2])
	assert.Equal(t, "hmeq.pickle", roles[3].Name)

	assert.Equal(t, "hmeq.mojo", FileMetadata("hmeq", true)[3].Name)

	files, err := WriteFileMetadataJSON("hmeq", "", false)
	require.NoError(t, err)
	assert.Contains(t, string(files[FileMetadataFile]), `"role": "scoreResource"`)
}
