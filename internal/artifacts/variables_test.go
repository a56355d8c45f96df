package artifacts

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viya-model-manager/internal/core/domain"
)

func TestGenerateVariableProperties(t *testing.T) {
	vars := GenerateVariableProperties([]Column{
		{Name: "JOB", Values: []any{nil, "Office", "Mgr"}},
		{Name: "REASON", Values: []any{1.0, 2.0}, Categorical: true},
		{Name: "LOAN", Values: []any{1100.0, 1300.0}},
	})

	assert.Equal(t, []domain.Variable{
		{Name: "JOB", Level: domain.LevelNominal, Type: domain.TypeString, Length: 6},
		{Name: "REASON", Level: domain.LevelNominal, Type: domain.TypeDecimal, Length: 8},
		{Name: "LOAN", Level: domain.LevelInterval, Type: domain.TypeDecimal, Length: 8},
	}, vars)
}

func TestGenerateMLflowVariableProperties(t *testing.T) {
	vars := GenerateMLflowVariableProperties([]MLflowVariable{
		{Name: "name", Type: "string"},
		{Name: "age", Type: "double"},
		{Type: "tensor", TensorSpec: &MLflowTensorSpec{DType: "str", Shape: []int{-1}}},
	})

	require.Len(t, vars, 3)
	assert.Equal(t, domain.LevelNominal, vars[0].Level)
	assert.Equal(t, domain.LevelInterval, vars[1].Level)
	assert.Equal(t, "tensor", vars[2].Name)
	assert.Equal(t, domain.TypeString, vars[2].Type)
}

func TestWriteVarJSON(t *testing.T) {
	files, err := WriteVarJSON([]domain.Variable{{Name: "x", Level: domain.LevelInterval, Type: domain.TypeDecimal, Length: 8}}, false, "")
	require.NoError(t, err)
	require.Contains(t, files, OutputVarFile)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(files[OutputVarFile], &decoded))
	assert.Equal(t, "x", decoded[0]["name"])
	assert.Equal(t, "interval", decoded[0]["level"])

	files, err = WriteVarJSON(nil, true, "")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(files[InputVarFile]))
}

func TestColumnsFromCSV(t *testing.T) {
	cols, err := ColumnsFromCSV(strings.NewReader("LOAN, JOB\n1100,Office\n,Mgr\n"))
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "JOB", cols[1].Name)
	assert.Equal(t, []any{1100.0, nil}, cols[0].Values)

	_, err = ColumnsFromCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidDataset)
}
