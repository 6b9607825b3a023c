// Package journal persists the operation log as a JSON file. Loading
// and saving round-trip exactly: payload, status, error, timestamps
// and dependency edges all survive a save/load cycle unchanged.
package journal

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/rewind/pkg/errors"
	"github.com/arthur-debert/rewind/pkg/logging"
	"github.com/arthur-debert/rewind/pkg/types"
)

// Version is the journal file format version.
const Version = 1

// file is the on-disk shape of the journal.
type file struct {
	Version    int                `json:"version"`
	Operations []*types.Operation `json:"operations"`
}

// Journal reads and writes the persisted operation log at a fixed
// path on a filesystem.
type Journal struct {
	fs   types.FS
	path string
}

// New creates a journal bound to path on fs.
func New(fs types.FS, path string) *Journal {
	return &Journal{fs: fs, path: path}
}

// Path returns the journal file location.
func (j *Journal) Path() string {
	return j.path
}

// Load reads the journal. A missing file is an empty journal, not an
// error; a file that cannot be parsed is.
func (j *Journal) Load() ([]*types.Operation, error) {
	data, err := j.fs.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrJournalLoad, "failed to read journal at %s", j.path)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, errors.ErrJournalLoad, "journal at %s is not valid JSON", j.path)
	}
	if f.Version > Version {
		return nil, errors.Newf(errors.ErrJournalLoad, "journal at %s has format version %d, newer than supported version %d", j.path, f.Version, Version)
	}

	logger := logging.GetLogger("journal")
	logger.Debug().
		Str("path", j.path).
		Int("operations", len(f.Operations)).
		Msg("Journal loaded")
	return f.Operations, nil
}

// Save writes the journal atomically: the content lands in a sibling
// temp file which is renamed over the target, so a crash mid-write
// never leaves a torn journal behind.
func (j *Journal) Save(ops []*types.Operation) error {
	data, err := json.MarshalIndent(file{Version: Version, Operations: ops}, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrJournalSave, "failed to encode journal")
	}
	data = append(data, '\n')

	if err := j.fs.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrJournalSave, "failed to create journal directory for %s", j.path)
	}

	tmp := j.path + ".tmp"
	if err := j.fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrJournalSave, "failed to write journal temp file %s", tmp)
	}
	if err := j.fs.Rename(tmp, j.path); err != nil {
		return errors.Wrapf(err, errors.ErrJournalSave, "failed to move journal into place at %s", j.path)
	}

	logger := logging.GetLogger("journal")
	logger.Debug().
		Str("path", j.path).
		Int("operations", len(ops)).
		Msg("Journal saved")
	return nil
}

// ExportJSON renders the operations as indented JSON, the same shape
// the journal file uses.
func ExportJSON(ops []*types.Operation) ([]byte, error) {
	data, err := json.MarshalIndent(file{Version: Version, Operations: ops}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrJournalSave, "failed to encode journal export")
	}
	return append(data, '\n'), nil
}

// ExportYAML renders the operations as YAML with the same field names
// as the JSON journal. The operations pass through their JSON encoding
// so the two export formats can never drift apart.
func ExportYAML(ops []*types.Operation) ([]byte, error) {
	data, err := json.Marshal(file{Version: Version, Operations: ops})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrJournalSave, "failed to encode journal export")
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, errors.Wrap(err, errors.ErrJournalSave, "failed to rebuild journal export")
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrJournalSave, "failed to render journal export as YAML")
	}
	return out, nil
}
