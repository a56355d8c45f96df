package artifacts

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"viya-model-manager/internal/core/domain"
)

const (
	maxDescriptionLength   = 1024
	maxPropertyNameLength  = 60
	maxPropertyValueLength = 512
	defaultToolVersion     = "3"
)

// Property is a user-defined model property.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// ModelPropertiesInput is what ModelProperties.json is built from.
type ModelPropertiesInput struct {
	Name           string     `json:"name"`
	TargetVariable string     `json:"target_variable"`
	TargetValues   []string   `json:"target_values"`
	Description    string     `json:"description"`
	Algorithm      string     `json:"algorithm"`
	Function       string     `json:"function"`
	Modeler        string     `json:"modeler"`
	TrainTable     string     `json:"train_table"`
	ToolVersion    string     `json:"tool_version"`
	Properties     []Property `json:"properties"`
}

// ModelProperties is the document stored as ModelProperties.json.
type ModelProperties struct {
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	ScoreCodeType  string     `json:"scoreCodeType"`
	TrainTable     string     `json:"trainTable"`
	TrainCodeType  string     `json:"trainCodeType"`
	Algorithm      string     `json:"algorithm"`
	Function       string     `json:"function"`
	TargetVariable string     `json:"targetVariable"`
	TargetEvent    string     `json:"targetEvent"`
	TargetLevel    string     `json:"targetLevel"`
	EventProbVar   string     `json:"eventProbVar"`
	Modeler        string     `json:"modeler"`
	Tool           string     `json:"tool"`
	ToolVersion    string     `json:"toolVersion"`
	Properties     []Property `json:"properties"`
}

// BuildModelProperties applies the Model Manager rules for target levels and
// field lengths. No target values means a regression model, two a binary
// classifier, more than two a multi-class classifier whose events are added as
// custom properties. A single target value is rejected.
func BuildModelProperties(in ModelPropertiesInput) (*ModelProperties, error) {
	out := &ModelProperties{
		Name:           in.Name,
		Description:    in.Description,
		ScoreCodeType:  "python",
		TrainTable:     in.TrainTable,
		TrainCodeType:  "Python",
		Algorithm:      in.Algorithm,
		Function:       in.Function,
		TargetVariable: in.TargetVariable,
		Modeler:        in.Modeler,
		Tool:           "Python 3",
		ToolVersion:    in.ToolVersion,
	}
	if out.ToolVersion == "" {
		out.ToolVersion = defaultToolVersion
	}

	if utf8.RuneCountInString(out.Description) > maxDescriptionLength {
		out.Description = truncateRunes(out.Description, maxDescriptionLength)
		log.Warnf("the model description was truncated to %d characters", maxDescriptionLength)
	}

	props := append([]Property(nil), in.Properties...)
	switch n := len(in.TargetValues); {
	case n == 0:
		out.TargetLevel = "INTERVAL"
		if out.Function == "" {
			out.Function = "Prediction"
		}
	case n == 2:
		out.TargetLevel = "BINARY"
		out.TargetEvent = in.TargetValues[0]
		out.EventProbVar = "P_" + in.TargetValues[0]
		if out.Function == "" {
			out.Function = "Classification"
		}
	case n > 2:
		out.TargetLevel = "NOMINAL"
		if out.Function == "" {
			out.Function = "Classification"
		}
		probVars := make([]string, len(in.TargetValues))
		for i, t := range in.TargetValues {
			probVars[i] = "P_" + t
		}
		props = append(props,
			Property{Name: "multiclass_target_events", Value: strings.Join(in.TargetValues, ", "), Type: "string"},
			Property{Name: "multiclass_proba_variables", Value: strings.Join(probVars, ", "), Type: "string"},
		)
	default:
		return nil, domain.ErrInvalidTargetValues
	}

	out.Properties = make([]Property, 0, len(props))
	for _, p := range props {
		out.Properties = append(out.Properties, TruncateProperty(p))
	}
	return out, nil
}

// TruncateProperty shortens names to 60 and values to 512 characters.
func TruncateProperty(p Property) Property {
	if utf8.RuneCountInString(p.Name) > maxPropertyNameLength {
		log.Warnf("the property name %s was truncated to %d characters", p.Name, maxPropertyNameLength)
		p.Name = truncateRunes(p.Name, maxPropertyNameLength)
	}
	if utf8.RuneCountInString(p.Value) > maxPropertyValueLength {
		log.Warnf("the value of property %s was truncated to %d characters", p.Name, maxPropertyValueLength)
		p.Value = truncateRunes(p.Value, maxPropertyValueLength)
	}
	if p.Type == "" {
		p.Type = "string"
	}
	return p
}

// WriteModelPropertiesJSON writes ModelProperties.json.
func WriteModelPropertiesJSON(in ModelPropertiesInput, dir string) (map[string][]byte, error) {
	props, err := BuildModelProperties(in)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(props, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", PropertiesFile, err)
	}
	return WriteOrReturn(dir, PropertiesFile, data)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// FileRole is one entry of fileMetadata.json.
type FileRole struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// FileMetadata lists the role of every file Model Manager should pick up.
func FileMetadata(prefix string, h2o bool) []FileRole {
	resource := prefix + ".pickle"
	if h2o {
		resource = prefix + ".mojo"
	}
	return []FileRole{
		{Role: "inputVariables", Name: InputVarFile},
		{Role: "outputVariables", Name: OutputVarFile},
		{Role: "score", Name: ScoreCodeFileName(prefix)},
		{Role: "scoreResource", Name: resource},
	}
}

// WriteFileMetadataJSON writes fileMetadata.json.
func WriteFileMetadataJSON(prefix, dir string, h2o bool) (map[string][]byte, error) {
	data, err := json.MarshalIndent(FileMetadata(prefix, h2o), "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", FileMetadataFile, err)
	}
	return WriteOrReturn(dir, FileMetadataFile, data)
}
