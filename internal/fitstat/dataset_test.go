package fitstat

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viya-model-manager/internal/core/domain"
)

func TestLabels_UnmarshalJSON(t *testing.T) {
	var ds Dataset
	err := json.Unmarshal([]byte(`{"actual":[1,"1.0",true,"yes"],"predicted":[0,0,0,0]}`), &ds)
	require.NoError(t, err)
	assert.Equal(t, Labels{"1", "1", "true", "yes"}, ds.Actual)
	assert.Nil(t, ds.Probability)
}

func TestDataset_Validate(t *testing.T) {
	tests := []struct {
		name string
		ds   Dataset
		ok   bool
	}{
		{"valid", Dataset{Actual: Labels{"1"}, Predicted: Labels{"1"}, Probability: []float64{0.4}}, true},
		{"empty", Dataset{}, false},
		{"predicted mismatch", Dataset{Actual: Labels{"1", "0"}, Predicted: Labels{"1"}}, false},
		{"probability mismatch", Dataset{Actual: Labels{"1"}, Predicted: Labels{"1"}, Probability: []float64{0.1, 0.2}}, false},
		{"probability range", Dataset{Actual: Labels{"1"}, Predicted: Labels{"1"}, Probability: []float64{1.5}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ds.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidDataset)
			}
		})
	}
}

func TestDataset_DerivedProbabilities(t *testing.T) {
	ds := Dataset{Actual: Labels{"1", "0", "1"}, Predicted: Labels{"1", "0", "0"}}
	assert.Equal(t, []float64{1, 0, 0}, ds.Probabilities("1.0"))
}

func TestLoadDatasetCSV(t *testing.T) {
	ds, err := LoadDatasetCSV(strings.NewReader("actual,predicted,prob\n1,1,0.9\n0,0,0.2\n"))
	require.NoError(t, err)
	assert.Equal(t, Labels{"1", "0"}, ds.Actual)
	assert.Equal(t, []float64{0.9, 0.2}, ds.Probability)

	ds, err = LoadDatasetCSV(strings.NewReader("1,0\n0,0\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Nil(t, ds.Probability)

	_, err = LoadDatasetCSV(strings.NewReader("1,0,0.1,x\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidDataset)

	_, err = LoadDatasetCSV(strings.NewReader("1,0,0.1\n1,1,high\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidDataset)
}
