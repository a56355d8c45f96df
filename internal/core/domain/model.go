package domain

import "time"

type PlatformVersion int

const (
	PlatformUnknown PlatformVersion = 0
	Viya35          PlatformVersion = 3
	Viya4           PlatformVersion = 4
)

func (v PlatformVersion) String() string {
	switch v {
	case Viya35:
		return "3.5"
	case Viya4:
		return "4"
	default:
		return "unknown"
	}
}

type Model struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	ProjectID        string    `json:"projectId"`
	ProjectName      string    `json:"projectName,omitempty"`
	ProjectVersionID string    `json:"projectVersionId"`
	ScoreCodeType    string    `json:"scoreCodeType,omitempty"`
	Function         string    `json:"function,omitempty"`
	Algorithm        string    `json:"algorithm,omitempty"`
	TargetVariable   string    `json:"targetVariable,omitempty"`
	TargetEvent      string    `json:"targetEvent,omitempty"`
	Tool             string    `json:"tool,omitempty"`
	Modeler          string    `json:"modeler,omitempty"`
	CreatedAt        time.Time `json:"creationTimeStamp,omitempty"`
	ModifiedAt       time.Time `json:"modifiedTimeStamp,omitempty"`
	ETag             string    `json:"-"`
}

// ModelContent is a file attached to a registered model.
type ModelContent struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}
