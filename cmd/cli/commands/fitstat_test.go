package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitStatCalculateCmd_Prints(t *testing.T) {
	a, _ := newTestApp()
	train := writeFile(t, t.TempDir(), "train.csv", "actual,predicted,probability\n1,1,0.9\n1,1,0.8\n0,0,0.3\n0,0,0.1\n")

	out, err := execute(t, a, "fitstat", "calculate", "--target", "1", "--train", train)
	require.NoError(t, err)

	var files map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	assert.Contains(t, files, "dmcas_fitstat.json")
	assert.Contains(t, files, "dmcas_roc.json")
	assert.Contains(t, files, "dmcas_lift.json")
}

func TestFitStatCalculateCmd_WritesDir(t *testing.T) {
	a, _ := newTestApp()
	dir := t.TempDir()
	test := writeFile(t, dir, "test.csv", "1,1\n0,0\n1,0\n")
	outDir := t.TempDir()

	out, err := execute(t, a, "fitstat", "calculate", "--target", "1", "--test", test, "--threshold", "0.6", "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, outDir)

	for _, name := range []string{"dmcas_fitstat.json", "dmcas_roc.json", "dmcas_lift.json"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

func TestFitStatCalculateCmd_NoPartitions(t *testing.T) {
	a, _ := newTestApp()

	_, err := execute(t, a, "fitstat", "calculate", "--target", "1")
	assert.Error(t, err)
}

func TestFitStatInputCmd(t *testing.T) {
	a, _ := newTestApp()

	out, err := execute(t, a, "fitstat", "input", "--entry", "RASE,0.3,TRAIN", "--entry", "_KS_,0.6,3")
	require.NoError(t, err)

	var files map[string]struct {
		Data []struct {
			DataMap map[string]any `json:"dataMap"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	doc := files["dmcas_fitstat.json"]
	require.Len(t, doc.Data, 3)
	assert.Equal(t, 0.3, doc.Data[1].DataMap["_RASE_"])
	assert.Equal(t, 0.6, doc.Data[0].DataMap["_KS_"])
}
