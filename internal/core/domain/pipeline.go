package domain

import "time"

const PipelineProjectTypePredictive = "predictive"

type PipelineProject struct {
	ID                         string                  `json:"id,omitempty"`
	Name                       string                  `json:"name"`
	Description                string                  `json:"description,omitempty"`
	Type                       string                  `json:"type,omitempty"`
	DataTableURI               string                  `json:"dataTableUri,omitempty"`
	State                      string                  `json:"state,omitempty"`
	AnalyticsProjectAttributes AnalyticsProjectAttrs   `json:"analyticsProjectAttributes"`
	Settings                   PipelineProjectSettings `json:"settings"`
	Version                    int                     `json:"version,omitempty"`
	CreatedAt                  time.Time               `json:"creationTimeStamp,omitempty"`
	ModifiedAt                 time.Time               `json:"modifiedTimeStamp,omitempty"`
	ETag                       string                  `json:"-"`
}

type AnalyticsProjectAttrs struct {
	TargetVariable   string `json:"targetVariable,omitempty"`
	TargetEventLevel string `json:"targetEventLevel,omitempty"`
}

type PipelineProjectSettings struct {
	NumberOfModels *int  `json:"numberOfModels,omitempty"`
	AutoRun        *bool `json:"autoRun,omitempty"`
}
