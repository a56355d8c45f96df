package artifacts

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"viya-model-manager/internal/core/domain"
)

// Column is one column of example model data. Values may hold strings,
// numbers, booleans or nil for missing entries.
type Column struct {
	Name        string
	Values      []any
	Categorical bool
}

// GenerateVariableProperties derives variable descriptors from example data.
// The first non-missing value of each column decides its type.
func GenerateVariableProperties(cols []Column) []domain.Variable {
	vars := make([]domain.Variable, 0, len(cols))
	for _, col := range cols {
		v := domain.Variable{Name: col.Name}
		if _, ok := firstValid(col.Values).(string); ok {
			v.Level = domain.LevelNominal
			v.Type = domain.TypeString
			v.Length = maxStringLength(col.Values)
		} else {
			v.Level = domain.LevelInterval
			if col.Categorical {
				v.Level = domain.LevelNominal
			}
			v.Type = domain.TypeDecimal
			v.Length = 8
		}
		vars = append(vars, v)
	}
	return vars
}

// MLflowVariable is a signature entry from an MLmodel file.
type MLflowVariable struct {
	Name       string            `yaml:"name" json:"name"`
	Type       string            `yaml:"type" json:"type"`
	TensorSpec *MLflowTensorSpec `yaml:"tensor-spec,omitempty" json:"tensor-spec,omitempty"`
}

type MLflowTensorSpec struct {
	DType string `yaml:"dtype" json:"dtype"`
	Shape []int  `yaml:"shape" json:"shape"`
}

// IsString reports whether an MLflow variable holds string data.
func (v MLflowVariable) IsString() bool {
	switch v.Type {
	case "string":
		return true
	case "tensor":
		return v.TensorSpec != nil && (v.TensorSpec.DType == "string" || v.TensorSpec.DType == "str")
	default:
		return false
	}
}

// GenerateMLflowVariableProperties maps an MLflow signature to variable
// descriptors. Unnamed variables (tensor signatures) are named by type.
func GenerateMLflowVariableProperties(sig []MLflowVariable) []domain.Variable {
	vars := make([]domain.Variable, 0, len(sig))
	for _, s := range sig {
		name := s.Name
		if name == "" {
			name = s.Type
		}
		v := domain.Variable{Name: name, Level: domain.LevelInterval, Type: domain.TypeDecimal, Length: 8}
		if s.IsString() {
			v.Level = domain.LevelNominal
			v.Type = domain.TypeString
		}
		vars = append(vars, v)
	}
	return vars
}

// WriteVarJSON writes inputVar.json or outputVar.json.
func WriteVarJSON(vars []domain.Variable, isInput bool, dir string) (map[string][]byte, error) {
	name := OutputVarFile
	if isInput {
		name = InputVarFile
	}
	if vars == nil {
		vars = []domain.Variable{}
	}
	data, err := json.MarshalIndent(vars, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", name, err)
	}
	return WriteOrReturn(dir, name, data)
}

// ColumnsFromCSV reads a CSV with a header row into columns. Empty cells are
// missing values; cells that parse as numbers become float64.
func ColumnsFromCSV(r io.Reader) ([]Column, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read csv header: %w", domain.ErrInvalidDataset)
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make([]Column, len(header))
	for i, h := range header {
		cols[i].Name = strings.TrimSpace(h)
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		for i := range cols {
			if i >= len(rec) {
				cols[i].Values = append(cols[i].Values, nil)
				continue
			}
			cols[i].Values = append(cols[i].Values, parseCell(rec[i]))
		}
	}
	return cols, nil
}

func parseCell(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func firstValid(values []any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func maxStringLength(values []any) int {
	longest := 0
	for _, v := range values {
		if s, ok := v.(string); ok {
			if n := utf8.RuneCountInString(s); n > longest {
				longest = n
			}
		}
	}
	return longest
}
