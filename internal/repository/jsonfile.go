// Package repository provides JSON-file backed stores. Each store is a single
// shared document loaded fully into memory, mutated and written back wholly on
// change. There is no durability contract beyond last-write-wins file replace.
package repository

import (
	"encoding/json"
	"fmt"
	"os"
)

// readJSONFile decodes the document at path into v.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}

// writeJSONFile replaces the document at path with v, going through a temp
// file and rename so readers never observe a partially written document.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
