package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ModelFiles holds the files of a model either as a directory on disk or as an
// in-memory filename to contents mapping. Exactly one of the two is set.
type ModelFiles struct {
	dir   string
	files map[string][]byte
}

func FilesFromDir(dir string) ModelFiles {
	return ModelFiles{dir: dir}
}

func FilesFromMap(files map[string][]byte) ModelFiles {
	if files == nil {
		files = make(map[string][]byte)
	}
	return ModelFiles{files: files}
}

func (f ModelFiles) IsDir() bool { return f.dir != "" }

func (f ModelFiles) Dir() string { return f.dir }

func (f ModelFiles) IsZero() bool { return f.dir == "" && f.files == nil }

// Map returns the in-memory files. It is nil for directory-backed files.
func (f ModelFiles) Map() map[string][]byte { return f.files }

// Set adds or replaces a file. Directory-backed files are written to disk.
func (f ModelFiles) Set(name string, data []byte) error {
	if f.IsDir() {
		if err := os.WriteFile(filepath.Join(f.dir, name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		return nil
	}
	if f.files == nil {
		return ErrInvalidModelFiles
	}
	f.files[name] = data
	return nil
}

// Merge copies every entry of files into f.
func (f ModelFiles) Merge(files map[string][]byte) error {
	for _, name := range sortedKeys(files) {
		if err := f.Set(name, files[name]); err != nil {
			return err
		}
	}
	return nil
}

// Names lists the file names in lexical order.
func (f ModelFiles) Names() ([]string, error) {
	if !f.IsDir() {
		return sortedKeys(f.files), nil
	}
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("read model dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the contents of one file.
func (f ModelFiles) Read(name string) ([]byte, error) {
	if f.IsDir() {
		return os.ReadFile(filepath.Join(f.dir, name))
	}
	data, ok := f.files[name]
	if !ok {
		return nil, fmt.Errorf("model file %s: %w", name, os.ErrNotExist)
	}
	return data, nil
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
