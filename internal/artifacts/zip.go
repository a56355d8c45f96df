package artifacts

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"viya-model-manager/internal/core/domain"
)

// ZipFiles archives every model file except earlier archives. The score code
// score_<prefix>.py is only included for SAS Viya 4; on 3.5 it is generated
// after the model is registered.
// Directory-backed files also get the archive written to <dir>/<prefix>.zip.
func ZipFiles(files domain.ModelFiles, prefix string, viya4 bool) ([]byte, error) {
	if files.IsZero() {
		return nil, domain.ErrInvalidModelFiles
	}
	names, err := files.Names()
	if err != nil {
		return nil, err
	}

	selected := make([]string, 0, len(names))
	for _, name := range names {
		if includeInZip(name, prefix, viya4) {
			selected = append(selected, name)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("zip %s: no model files found: %w", prefix, domain.ErrInvalidModelFiles)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range selected {
		data, err := files.Read(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: time.Now(),
		})
		if err != nil {
			return nil, fmt.Errorf("add %s to zip: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("add %s to zip: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}

	if files.IsDir() {
		path := filepath.Join(files.Dir(), prefix+".zip")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("write zip: %w", err)
		}
		log.WithFields(log.Fields{"path": path, "files": len(selected)}).Info("model files were zipped")
	}

	return buf.Bytes(), nil
}

func includeInZip(name, prefix string, viya4 bool) bool {
	if strings.EqualFold(filepath.Ext(name), ".zip") {
		return false
	}
	if name == ScoreCodeFileName(prefix) {
		return viya4
	}
	return true
}
