// Package paths provides centralized path handling for rewind.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/rewind/pkg/types"
)

// Environment variable names
const (
	// EnvRewindDataDir overrides the XDG data directory for rewind
	EnvRewindDataDir = "REWIND_DATA_DIR"

	// EnvRewindConfigDir overrides the XDG config directory for rewind
	EnvRewindConfigDir = "REWIND_CONFIG_DIR"

	// EnvRewindStateDir overrides the XDG state directory for rewind
	EnvRewindStateDir = "REWIND_STATE_DIR"
)

// Default directories and files
// IMPORTANT: These constants define rewind's internal datastore
// structure and are NOT user-configurable. They must remain consistent
// across installations so journals and backups stay addressable.
const (
	// RewindDirName is the directory name for rewind-specific files
	RewindDirName = "rewind"

	// BackupsDir is the subdirectory for pre-action backups
	BackupsDir = "backups"

	// JournalFileName is the name of the persisted operation journal
	JournalFileName = "journal.json"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "rewind.toml"

	// LogFileName is the name of the log file
	LogFileName = "rewind.log"
)

// paths implements types.Pather using XDG base directories with
// environment overrides.
type paths struct {
	dataDir   string
	configDir string
	stateDir  string
}

// New creates a Pather resolved from the environment.
func New() types.Pather {
	p := &paths{
		dataDir:   filepath.Join(xdg.DataHome, RewindDirName),
		configDir: filepath.Join(xdg.ConfigHome, RewindDirName),
		stateDir:  filepath.Join(xdg.StateHome, RewindDirName),
	}

	if dir := os.Getenv(EnvRewindDataDir); dir != "" {
		p.dataDir = dir
	}
	if dir := os.Getenv(EnvRewindConfigDir); dir != "" {
		p.configDir = dir
	}
	if dir := os.Getenv(EnvRewindStateDir); dir != "" {
		p.stateDir = dir
	}

	return p
}

func (p *paths) DataDir() string {
	return p.dataDir
}

func (p *paths) ConfigDir() string {
	return p.configDir
}

func (p *paths) StateDir() string {
	return p.stateDir
}

func (p *paths) BackupsDir() string {
	return filepath.Join(p.dataDir, BackupsDir)
}

func (p *paths) JournalFile() string {
	return filepath.Join(p.dataDir, JournalFileName)
}

// ConfigFile returns the path of the user configuration file.
func ConfigFile(p types.Pather) string {
	return filepath.Join(p.ConfigDir(), ConfigFileName)
}
