package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	log "github.com/sirupsen/logrus"

	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
)

const viya35ResourceRoot = "/models/resources/viya/"

var identRe = regexp.MustCompile(`[^A-Za-z0-9_]`)

var scoreTemplate = template.Must(template.New("score").Funcs(template.FuncMap{
	"quote": strconv.Quote,
	"join":  strings.Join,
}).Parse(`import math
import {{.Loader}}
import pandas as pd
import numpy as np
from pathlib import Path
{{if not .ModelPath}}
import settings
{{end}}
{{- if .ModelPath}}
model_path = Path({{quote .ModelPath}})
{{- else}}
model_path = Path(settings.pickle_path)
{{- end}}
{{.LoadBlock}}


def score({{join .Args ", "}}):
    "Output: {{join .Metrics ", "}}"

    try:
        global model
    except NameError:
{{.ReloadBlock}}
{{range .Impute}}
    {{.}}
{{- end}}

    input_array = pd.DataFrame(
        [[{{join .Args ", "}}]],
        columns=[{{range $i, $v := .Columns}}{{if $i}}, {{end}}{{quote $v}}{{end}}],
        dtype=float,
        index=[0],
    )
    prediction = model.{{.PredictMethod}}(input_array).tolist()
{{range .Assign}}
    {{.}}
{{- end}}

    return {{join .Metrics ", "}}
`))

type scoreData struct {
	Loader        string
	ModelPath     string
	LoadBlock     string
	ReloadBlock   string
	Args          []string
	Columns       []string
	Metrics       []string
	Impute        []string
	Assign        []string
	PredictMethod string
}

// TemplateScoreCodeWriter renders Python score code from a fixed template.
type TemplateScoreCodeWriter struct{}

func NewTemplateScoreCodeWriter() *TemplateScoreCodeWriter {
	return &TemplateScoreCodeWriter{}
}

var _ ports.ScoreCodeWriter = (*TemplateScoreCodeWriter)(nil)

func (w *TemplateScoreCodeWriter) WriteScoreCode(ctx context.Context, req ports.ScoreCodeRequest) (map[string][]byte, error) {
	opts := req.Options
	if !opts.Complete() {
		return nil, fmt.Errorf("score code for %s: input variables, predict method and score metrics are required", req.Prefix)
	}

	pickleType := opts.PickleType
	if pickleType == "" {
		pickleType = defaultPickleType
	}
	modelFile := opts.ModelFileName
	if modelFile == "" {
		modelFile = req.Prefix + modelFileExtension(pickleType)
	}

	data := scoreData{PredictMethod: opts.PredictMethod}
	if req.Model != nil {
		data.ModelPath = viya35ResourceRoot + req.Model.ID
	}
	data.Loader, data.LoadBlock = loadStatement(pickleType, modelFile, "")
	_, data.ReloadBlock = loadStatement(pickleType, modelFile, "        ")

	for _, v := range opts.InputVariables {
		data.Columns = append(data.Columns, v.Name)
		arg := identRe.ReplaceAllString(v.Name, "_")
		data.Args = append(data.Args, arg)
		if opts.MissingValues {
			data.Impute = append(data.Impute, imputeStatement(arg, v))
		}
	}
	for _, m := range opts.ScoreMetrics {
		data.Metrics = append(data.Metrics, identRe.ReplaceAllString(m, "_"))
	}
	data.Assign = assignMetrics(data.Metrics, opts)

	var buf bytes.Buffer
	if err := scoreTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render score code: %w", err)
	}

	name := ScoreCodeFileName(req.Prefix)
	if req.Dir != "" {
		path := filepath.Join(req.Dir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("write score code: %w", err)
		}
		log.WithField("path", path).Info("model score code was written")
	}
	return map[string][]byte{name: buf.Bytes()}, nil
}

func modelFileExtension(pickleType string) string {
	switch pickleType {
	case "joblib":
		return ".joblib"
	case "mojo":
		return ".mojo"
	default:
		return ".pickle"
	}
}

func loadStatement(pickleType, file, indent string) (string, string) {
	switch pickleType {
	case "joblib":
		return "joblib", fmt.Sprintf("%smodel = joblib.load(model_path / %q)", indent, file)
	case "dill", "cloudpickle":
		return pickleType, fmt.Sprintf("%swith open(model_path / %q, \"rb\") as pickle_model:\n%s    model = %s.load(pickle_model)", indent, file, indent, pickleType)
	default:
		return "pickle", fmt.Sprintf("%swith open(model_path / %q, \"rb\") as pickle_model:\n%s    model = pickle.load(pickle_model)", indent, file, indent)
	}
}

func imputeStatement(arg string, v domain.Variable) string {
	if v.IsString() {
		return fmt.Sprintf("if %s is None or (isinstance(%s, float) and math.isnan(%s)):\n        %s = \"\"", arg, arg, arg, arg)
	}
	return fmt.Sprintf("try:\n        if math.isnan(%s):\n            %s = 0\n    except TypeError:\n        %s = 0", arg, arg, arg)
}

// assignMetrics maps the raw prediction onto the score metrics.
func assignMetrics(metrics []string, opts domain.ScoreCodeOptions) []string {
	targets := opts.TargetValues
	switch {
	case len(metrics) == 1 && opts.PredictThreshold != nil && len(targets) == 2:
		return []string{fmt.Sprintf(
			"if prediction[0][1] >= %s:\n        %s = %q\n    else:\n        %s = %q",
			strconv.FormatFloat(*opts.PredictThreshold, 'f', -1, 64), metrics[0], targets[0], metrics[0], targets[1])}
	case len(metrics) == 1:
		return []string{fmt.Sprintf("%s = prediction[0]\n    if isinstance(%s, list):\n        %s = %s[0]", metrics[0], metrics[0], metrics[0], metrics[0])}
	case len(targets) > 0 && len(metrics) == len(targets)+1:
		lines := []string{fmt.Sprintf("target_values = [%s]", quoteAll(targets))}
		for i := range targets {
			lines = append(lines, fmt.Sprintf("%s = prediction[0][%d]", metrics[i+1], i))
		}
		lines = append(lines, fmt.Sprintf("%s = target_values[prediction[0].index(max(prediction[0]))]", metrics[0]))
		return lines
	default:
		lines := make([]string, 0, len(metrics))
		for i, m := range metrics {
			lines = append(lines, fmt.Sprintf("%s = prediction[0][%d]", m, i))
		}
		return lines
	}
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return strings.Join(quoted, ", ")
}
