package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// printFiles prints generated JSON files as one object keyed by file name.
// A nil map means the files went to disk.
func printFiles(w io.Writer, files map[string][]byte, dir string) error {
	if files == nil {
		fmt.Fprintf(w, "Files written to %s\n", dir)
		return nil
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]json.RawMessage, len(files))
	for _, name := range names {
		out[name] = json.RawMessage(files[name])
	}
	return printJSON(w, out)
}
