// Package render serializes run results into the report bundle: one JSON
// document with the full structured output and one markdown summary.
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/decodestack/decode-gate/internal/engine"
)

// WriteJSON marshals payload with indentation and writes it to path,
// creating parent directories as needed.
func WriteJSON(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteRunBundle writes the full report bundle for one run into dir:
// run.json with the structured results and report.md with the summary.
func WriteRunBundle(dir, title string, run engine.RunResult) error {
	if err := WriteJSON(filepath.Join(dir, "run.json"), run); err != nil {
		return err
	}
	md := RenderRun(run, title)
	if err := os.WriteFile(filepath.Join(dir, "report.md"), []byte(md), 0o644); err != nil {
		return fmt.Errorf("write report.md: %w", err)
	}
	return nil
}
