// Package artifacts writes the files SAS Model Manager expects alongside a
// model: variable descriptors, model properties, file metadata, requirements,
// score code and the zip archive used for import.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// File names recognized by SAS Model Manager.
const (
	InputVarFile      = "inputVar.json"
	OutputVarFile     = "outputVar.json"
	PropertiesFile    = "ModelProperties.json"
	FileMetadataFile  = "fileMetadata.json"
	RequirementsFile  = "requirements.json"
	FitStatFile       = "dmcas_fitstat.json"
	ROCFile           = "dmcas_roc.json"
	LiftFile          = "dmcas_lift.json"
	MLflowModelFile   = "MLmodel"
	scoreCodePrefix   = "score_"
	scoreCodeSuffix   = ".py"
	defaultPickleType = "pickle"
)

// ScoreCodeFileName is the score code file Model Manager looks for.
func ScoreCodeFileName(prefix string) string {
	return scoreCodePrefix + prefix + scoreCodeSuffix
}

// WriteOrReturn either writes data to dir/name or returns it keyed by name.
func WriteOrReturn(dir, name string, data []byte) (map[string][]byte, error) {
	if dir == "" {
		return map[string][]byte{name: data}, nil
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", name, err)
	}
	log.WithField("path", path).Infof("%s was successfully written", name)
	return nil, nil
}
