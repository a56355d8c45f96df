// Package fitstat builds the dmcas_fitstat, dmcas_roc and dmcas_lift
// documents SAS Model Manager displays for classification models.
package fitstat

import (
	"encoding/json"
	"fmt"

	"viya-model-manager/internal/core/domain"
)

const (
	rocRowsPerPartition  = 100
	liftRowsPerPartition = 21
	liftBins             = liftRowsPerPartition - 1
	zeroTimestamp        = "0001-01-01T00:00:00Z"
)

// Parameter describes one column of a document.
type Parameter struct {
	Label        string   `json:"label"`
	Length       int      `json:"length"`
	Order        int      `json:"order"`
	Parameter    string   `json:"parameter"`
	Preformatted bool     `json:"preformatted"`
	Type         string   `json:"type"`
	Values       []string `json:"values"`
}

// Row is one data row. Unset statistics are JSON null.
type Row struct {
	DataMap   map[string]any `json:"dataMap"`
	RowNumber int            `json:"rowNumber"`
	Version   int            `json:"version"`
}

// Document is the fixed layout shared by all three files.
type Document struct {
	CreationTimeStamp string               `json:"creationTimeStamp"`
	ModifiedTimeStamp string               `json:"modifiedTimeStamp"`
	Revision          int                  `json:"revision"`
	Name              string               `json:"name"`
	Version           int                  `json:"version"`
	Order             int                  `json:"order"`
	ParameterMap      map[string]Parameter `json:"parameterMap"`
	Data              []Row                `json:"data"`
	XInteger          bool                 `json:"xInteger"`
	YInteger          bool                 `json:"yInteger"`
}

// Marshal renders the document the way Model Manager stores it.
func (d *Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", d.Name, err)
	}
	return data, nil
}

// PartitionRows returns the rows belonging to one partition.
func (d *Document) PartitionRows(p domain.Partition) []Row {
	var rows []Row
	for _, r := range d.Data {
		if ind, ok := r.DataMap["_PartInd_"].(int); ok && ind == int(p) {
			rows = append(rows, r)
		}
	}
	return rows
}

type column struct {
	name   string
	label  string
	typ    string
	length int
}

func num(name, label string) column              { return column{name, label, "num", 8} }
func char(name, label string, length int) column { return column{name, label, "char", length} }

var partitionColumns = []column{
	char("_DataRole_", "Data Role", 10),
	num("_PartInd_", "Partition Indicator"),
	char("_PartInd__f", "Formatted Partition", 12),
}

var fitStatColumns = append(append([]column{}, partitionColumns...),
	num("_NObs_", "Sum of Frequencies"),
	num("_ASE_", "Average Squared Error"),
	num("_DIV_", "Divisor for ASE"),
	num("_RASE_", "Root Average Squared Error"),
	num("_MCE_", "Misclassification Rate"),
	num("_MCLL_", "Multi-Class Log Loss"),
	num("_KS_", "KS (Youden)"),
	num("_KSPostCutoff_", "ROC Separation"),
	num("_KSCut_", "KS Cutoff"),
	num("_C_", "Area Under ROC"),
	num("_GINI_", "Gini Coefficient"),
	num("_GAMMA_", "Gamma"),
	num("_TAU_", "Tau"),
)

var rocColumns = append(append([]column{}, partitionColumns...),
	char("_Column_", "Analysis Variable", 32),
	char("_Event_", "Event", 8),
	num("_Cutoff_", "Cutoff"),
	num("_Sensitivity_", "Sensitivity"),
	num("_Specificity_", "Specificity"),
	num("_FPR_", "False Positive Rate"),
	num("_OneMinusSpecificity_", "1 - Specificity"),
	num("_TP_", "True Positive"),
	num("_FP_", "False Positive"),
	num("_FN_", "False Negative"),
	num("_TN_", "True Negative"),
	num("_KS_", "Youden Index"),
	num("_KS2_", "KS Distance"),
	num("_FHALF_", "F0.5 Score"),
	num("_ACC_", "Accuracy"),
	num("_FDR_", "False Discovery Rate"),
	num("_F1_", "F1 Score"),
	num("_C_", "Area Under ROC"),
	num("_GINI_", "Gini Coefficient"),
	num("_GAMMA_", "Gamma"),
	num("_TAU_", "Tau"),
	num("_MiscEvent_", "Misclassification Rate (Event)"),
)

var liftColumns = append(append([]column{}, partitionColumns...),
	char("_Column_", "Analysis Variable", 32),
	char("_Event_", "Event", 8),
	num("_Depth_", "Depth"),
	num("_Value_", "Value"),
	num("_NObs_", "Sum of Frequencies"),
	num("_NEvents_", "Number of Events"),
	num("_NEventsBest_", "Number of Events (Best)"),
	num("_Resp_", "% Response"),
	num("_RespBest_", "% Response (Best)"),
	num("_Lift_", "Lift"),
	num("_LiftBest_", "Lift (Best)"),
	num("_CumResp_", "Cumulative % Response"),
	num("_CumRespBest_", "Cumulative % Response (Best)"),
	num("_CumLift_", "Cumulative Lift"),
	num("_CumLiftBest_", "Cumulative Lift (Best)"),
	num("_PctResp_", "% Captured Response"),
	num("_PctRespBest_", "% Captured Response (Best)"),
	num("_CumPctResp_", "Cumulative % Captured Response"),
	num("_CumPctRespBest_", "Cumulative % Captured Response (Best)"),
	num("_Gain_", "Gain"),
	num("_GainBest_", "Gain (Best)"),
)

func newDocument(name string, cols []column, rowsPerPartition int) *Document {
	doc := &Document{
		CreationTimeStamp: zeroTimestamp,
		ModifiedTimeStamp: zeroTimestamp,
		Name:              name,
		ParameterMap:      make(map[string]Parameter, len(cols)),
	}
	for i, c := range cols {
		doc.ParameterMap[c.name] = Parameter{
			Label:     c.label,
			Length:    c.length,
			Order:     i + 1,
			Parameter: c.name,
			Type:      c.typ,
			Values:    []string{c.name},
		}
	}

	for _, p := range domain.Partitions {
		for i := 0; i < rowsPerPartition; i++ {
			dm := make(map[string]any, len(cols))
			for _, c := range cols {
				dm[c.name] = nil
			}
			dm["_DataRole_"] = p.String()
			dm["_PartInd_"] = int(p)
			dm["_PartInd__f"] = fmt.Sprintf("%12d", int(p))
			doc.Data = append(doc.Data, Row{DataMap: dm, RowNumber: len(doc.Data) + 1, Version: 1})
		}
	}
	return doc
}

// NewFitStatDocument returns an empty dmcas_fitstat document with one row per
// partition.
func NewFitStatDocument() *Document { return newDocument("dmcas_fitstat", fitStatColumns, 1) }

// NewROCDocument returns an empty dmcas_roc document.
func NewROCDocument() *Document {
	return newDocument("dmcas_roc", rocColumns, rocRowsPerPartition)
}

// NewLiftDocument returns an empty dmcas_lift document.
func NewLiftDocument() *Document {
	return newDocument("dmcas_lift", liftColumns, liftRowsPerPartition)
}

// partitionOffset is the index of the first row of p.
func partitionOffset(p domain.Partition, rowsPerPartition int) int {
	return int(p) * rowsPerPartition
}
