package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"viya-model-manager/internal/core/domain"
)

// MLflowDetails is what the import pipeline needs from an MLflow model.
type MLflowDetails struct {
	PythonVersion       string           `json:"python_version"`
	MLflowVersion       string           `json:"mlflow_version"`
	ModelFileName       string           `json:"model_filename"`
	SerializationFormat string           `json:"serialization_format"`
	RunID               string           `json:"run_id"`
	Inputs              []MLflowVariable `json:"inputs"`
	Outputs             []MLflowVariable `json:"outputs"`
}

type mlmodelFile struct {
	ArtifactPath  string `yaml:"artifact_path"`
	RunID         string `yaml:"run_id"`
	MLflowVersion string `yaml:"mlflow_version"`
	Flavors       struct {
		PythonFunction struct {
			PythonVersion string `yaml:"python_version"`
			ModelPath     string `yaml:"model_path"`
			LoaderModule  string `yaml:"loader_module"`
		} `yaml:"python_function"`
		Sklearn *struct {
			PickledModel        string `yaml:"pickled_model"`
			SerializationFormat string `yaml:"serialization_format"`
		} `yaml:"sklearn"`
	} `yaml:"flavors"`
	Signature struct {
		// MLflow stores the signature columns as JSON strings.
		Inputs  string `yaml:"inputs"`
		Outputs string `yaml:"outputs"`
	} `yaml:"signature"`
}

// ReadMLflowModel parses dir/MLmodel.
func ReadMLflowModel(dir string) (*MLflowDetails, error) {
	data, err := os.ReadFile(filepath.Join(dir, MLflowModelFile))
	if err != nil {
		return nil, fmt.Errorf("read MLmodel: %w", err)
	}
	return ParseMLflowModel(data)
}

// ParseMLflowModel parses the contents of an MLmodel file.
func ParseMLflowModel(data []byte) (*MLflowDetails, error) {
	var m mlmodelFile
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse MLmodel: %v: %w", err, domain.ErrMLflowModelInvalid)
	}

	d := &MLflowDetails{
		PythonVersion:       m.Flavors.PythonFunction.PythonVersion,
		MLflowVersion:       m.MLflowVersion,
		ModelFileName:       m.Flavors.PythonFunction.ModelPath,
		SerializationFormat: defaultPickleType,
		RunID:               m.RunID,
	}
	if sk := m.Flavors.Sklearn; sk != nil {
		if sk.PickledModel != "" {
			d.ModelFileName = sk.PickledModel
		}
		if sk.SerializationFormat != "" {
			d.SerializationFormat = sk.SerializationFormat
		}
	}
	if d.ModelFileName == "" {
		return nil, fmt.Errorf("MLmodel has no model path: %w", domain.ErrMLflowModelInvalid)
	}

	var err error
	if d.Inputs, err = parseSignature(m.Signature.Inputs); err != nil {
		return nil, fmt.Errorf("signature inputs: %w", err)
	}
	if d.Outputs, err = parseSignature(m.Signature.Outputs); err != nil {
		return nil, fmt.Errorf("signature outputs: %w", err)
	}
	return d, nil
}

func parseSignature(s string) ([]MLflowVariable, error) {
	if s == "" {
		return nil, nil
	}
	var vars []MLflowVariable
	if err := json.Unmarshal([]byte(s), &vars); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrMLflowModelInvalid)
	}
	return vars, nil
}
