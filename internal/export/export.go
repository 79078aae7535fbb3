// Package export persists a report.Report as indented JSON or YAML.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/luki/specc/internal/report"
)

// Format is a persisted report encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatFor picks the encoding from a file extension; anything other
// than .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// WriteError reports a failure to persist a report at Path.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("could not write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Marshal encodes r in format f. JSON uses a four-space indent.
func Marshal(r report.Report, f Format) ([]byte, error) {
	if f == YAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	}

	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(data, '\n'), nil
}

// Export validates r and writes it to path in the format implied by the
// extension. The file is written to a temporary sibling and renamed
// into place, so path never holds a partial report. Every failure is a
// *WriteError.
func Export(r report.Report, path string) error {
	if err := r.Validate(); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	data, err := Marshal(r, FormatFor(path))
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := writeAtomic(path, data); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Load reads a report written by Export.
func Load(path string) (report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return report.Report{}, err
	}

	var r report.Report
	switch FormatFor(path) {
	case YAML:
		err = yaml.Unmarshal(data, &r)
	default:
		err = json.Unmarshal(data, &r)
	}
	if err != nil {
		return report.Report{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return r, nil
}
