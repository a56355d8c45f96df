package domain

// Variable levels and types understood by SAS Model Manager.
const (
	LevelNominal  = "nominal"
	LevelInterval = "interval"
	TypeString    = "string"
	TypeDecimal   = "decimal"
)

// Variable describes one model input or output column.
type Variable struct {
	Name   string `json:"name"`
	Level  string `json:"level"`
	Type   string `json:"type"`
	Length int    `json:"length"`
}

func (v Variable) IsString() bool { return v.Type == TypeString }

// ScoreCodeOptions carries what is needed to generate Python score code.
type ScoreCodeOptions struct {
	InputVariables   []Variable `json:"input_variables"`
	PredictMethod    string     `json:"predict_method"`
	PredictOutputs   []string   `json:"predict_outputs"`
	ScoreMetrics     []string   `json:"score_metrics"`
	PickleType       string     `json:"pickle_type"`
	PredictThreshold *float64   `json:"predict_threshold,omitempty"`
	TargetValues     []string   `json:"target_values,omitempty"`
	MissingValues    bool       `json:"missing_values"`
	ScoreCAS         bool       `json:"score_cas"`
	ModelFileName    string     `json:"model_file_name,omitempty"`
}

// Complete reports whether score code can be generated from the options.
func (o *ScoreCodeOptions) Complete() bool {
	return o != nil && len(o.InputVariables) > 0 && o.PredictMethod != "" && len(o.ScoreMetrics) > 0
}
