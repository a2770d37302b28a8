// Package storefile provides the shared persistence layer for the
// baseline and waiver stores: a common provenance envelope, schema
// compatibility checking, and crash-safe JSON writes.
//
// Both stores follow a read-modify-write discipline: the whole file is
// loaded, mutated in memory, and written back atomically via a scoped
// temp-file-then-rename, so an interrupted process leaves either the
// old or the new file intact, never a partial write. There is no
// locking between concurrent invocations; last writer wins.
package storefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scheck/scheck/pkg/finding"
	"github.com/scheck/scheck/pkg/jsonutil"
	"github.com/scheck/scheck/pkg/version"
)

// Meta is the envelope carried by every persisted store file. Baseline
// and waiver files version their schemas independently, so each store
// owns its SchemaVersion constant.
type Meta struct {
	SchemaVersion string    `json:"schema_version"`
	ToolVersion   string    `json:"tool_version"`
	GeneratedBy   string    `json:"generated_by"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewMeta returns a stamped envelope for a freshly created store file.
func NewMeta(schemaVersion string) Meta {
	return Meta{
		SchemaVersion: schemaVersion,
		ToolVersion:   version.Version,
		GeneratedBy:   version.GeneratedBy(),
		UpdatedAt:     time.Now().UTC(),
	}
}

// Touch refreshes the provenance fields ahead of a save.
func (m *Meta) Touch() {
	m.ToolVersion = version.Version
	m.GeneratedBy = version.GeneratedBy()
	m.UpdatedAt = time.Now().UTC()
}

// SchemaCompatible reports whether a file written with fileVersion can
// be read by code supporting supportedVersion. Versions are
// "major.minor"; only the major component must match, and an empty
// file version is never compatible.
func SchemaCompatible(fileVersion, supportedVersion string) bool {
	if fileVersion == "" {
		return false
	}
	return majorOf(fileVersion) == majorOf(supportedVersion)
}

func majorOf(v string) string {
	if i := strings.IndexByte(v, '.'); i >= 0 {
		return v[:i]
	}
	return v
}

// Load reads the JSON store at path into v. It returns found=false
// with a nil error when the file does not exist, and wraps parse
// failures in finding.ErrCorruptStore so callers can decide between
// degrading to an empty store and aborting.
func Load(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading store file %s: %w", path, err)
	}

	if err := jsonutil.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", finding.ErrCorruptStore, path, err)
	}
	return true, nil
}

// Save marshals v as indented JSON and atomically replaces path,
// creating the parent directory when missing.
func Save(path string, v any) error {
	data, err := jsonutil.MarshalIndent(v, "  ")
	if err != nil {
		return fmt.Errorf("marshaling store file: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating store directory: %w", err)
		}
	}

	return writeAtomic(path, data, 0o644)
}

// writeAtomic writes data to a scoped temp file in the target
// directory, then renames it over path.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp store file: %w", err)
	}
	tmpPath := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp store file: %w", errors.Join(werr, cerr))
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting store file mode: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Clean up orphaned temp file
		return fmt.Errorf("replacing store file: %w", err)
	}
	return nil
}
