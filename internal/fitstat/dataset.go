package fitstat

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"viya-model-manager/internal/core/domain"
)

// Labels is a list of class labels. JSON input may mix strings, numbers and
// booleans; numeric labels are normalized so 1, 1.0 and "1" compare equal.
type Labels []string

func (l *Labels) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Labels, 0, len(raw))
	for _, r := range raw {
		r = bytes.TrimSpace(r)
		var s string
		if len(r) > 0 && r[0] == '"' {
			if err := json.Unmarshal(r, &s); err != nil {
				return err
			}
		} else {
			s = string(r)
		}
		out = append(out, NormalizeLabel(s))
	}
	*l = out
	return nil
}

// NormalizeLabel trims s and rewrites numeric labels in canonical form.
func NormalizeLabel(s string) string {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return s
}

// Dataset holds the scored rows of one partition.
type Dataset struct {
	Actual      Labels    `json:"actual"`
	Predicted   Labels    `json:"predicted"`
	Probability []float64 `json:"probability,omitempty"`
}

func (d *Dataset) Len() int { return len(d.Actual) }

// Validate checks the columns line up and probabilities are in [0, 1].
func (d *Dataset) Validate() error {
	if len(d.Actual) == 0 {
		return fmt.Errorf("%w: no rows", domain.ErrInvalidDataset)
	}
	if len(d.Predicted) != len(d.Actual) {
		return fmt.Errorf("%w: %d actual values but %d predicted", domain.ErrInvalidDataset, len(d.Actual), len(d.Predicted))
	}
	if d.Probability != nil && len(d.Probability) != len(d.Actual) {
		return fmt.Errorf("%w: %d actual values but %d probabilities", domain.ErrInvalidDataset, len(d.Actual), len(d.Probability))
	}
	for i, p := range d.Probability {
		if p < 0 || p > 1 || p != p {
			return fmt.Errorf("%w: probability %v at row %d is outside [0, 1]", domain.ErrInvalidDataset, p, i+1)
		}
	}
	return nil
}

// Probabilities returns the event probabilities, deriving them from the
// predicted labels when none were supplied.
func (d *Dataset) Probabilities(target string) []float64 {
	if d.Probability != nil {
		return d.Probability
	}
	target = NormalizeLabel(target)
	probs := make([]float64, len(d.Predicted))
	for i, p := range d.Predicted {
		if p == target {
			probs[i] = 1
		}
	}
	return probs
}

// LoadDatasetCSV reads actual,predicted[,probability] rows. A leading header
// row is skipped: for three columns when the probability is not numeric, for
// two when the first cell is actual, target or y.
func LoadDatasetCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty csv", domain.ErrInvalidDataset)
	}
	width := len(records[0])
	if width != 2 && width != 3 {
		return nil, fmt.Errorf("%w: expected 2 or 3 columns, got %d", domain.ErrInvalidDataset, width)
	}
	if isHeader(records[0]) {
		records = records[1:]
	}

	ds := &Dataset{}
	if width == 3 {
		ds.Probability = make([]float64, 0, len(records))
	}
	for i, rec := range records {
		ds.Actual = append(ds.Actual, NormalizeLabel(rec[0]))
		ds.Predicted = append(ds.Predicted, NormalizeLabel(rec[1]))
		if width == 3 {
			p, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: bad probability %q", domain.ErrInvalidDataset, i+1, rec[2])
			}
			ds.Probability = append(ds.Probability, p)
		}
	}
	return ds, ds.Validate()
}

func isHeader(rec []string) bool {
	if len(rec) == 3 {
		_, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		return err != nil
	}
	lower := strings.ToLower(strings.TrimSpace(rec[0]))
	return lower == "actual" || lower == "target" || lower == "y"
}
