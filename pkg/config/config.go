// Package config loads rewind's configuration: built-in TOML defaults
// layered under an optional user rewind.toml from the config directory.
package config

import (
	_ "embed"
	"os"

	"github.com/arthur-debert/rewind/pkg/errors"
	"github.com/arthur-debert/rewind/pkg/paths"
	"github.com/arthur-debert/rewind/pkg/types"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

//go:embed defaults.toml
var defaultConfig []byte

// Undo holds reversal policy settings
type Undo struct {
	// Cascade enables recursive undo of active dependents
	Cascade bool `koanf:"cascade" toml:"cascade"`

	// ConfirmCascade asks before cascading in interactive sessions
	ConfirmCascade bool `koanf:"confirm_cascade" toml:"confirm_cascade"`
}

// Journal holds journal location settings
type Journal struct {
	// Path overrides the journal file location when non-empty
	Path string `koanf:"path" toml:"path"`
}

// Backups holds backup store settings
type Backups struct {
	// Dir overrides the backup directory when non-empty
	Dir string `koanf:"dir" toml:"dir"`
}

// Display holds presentation settings
type Display struct {
	// Color is "auto", "always" or "never"
	Color string `koanf:"color" toml:"color"`
}

// Config is the root configuration
type Config struct {
	Undo    Undo    `koanf:"undo" toml:"undo"`
	Journal Journal `koanf:"journal" toml:"journal"`
	Backups Backups `koanf:"backups" toml:"backups"`
	Display Display `koanf:"display" toml:"display"`
}

// rawBytesProvider feeds embedded bytes to koanf
type rawBytesProvider struct {
	bytes []byte
}

func (r *rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "rawBytesProvider does not support Read")
}

// Load returns the effective configuration: defaults overlaid with the
// user config file if one exists.
func Load(p types.Pather) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	userConfig := paths.ConfigFile(p)
	if _, err := os.Stat(userConfig); err == nil {
		if err := k.Load(file.Provider(userConfig), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to load config from %s", userConfig)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal config")
	}

	return &cfg, nil
}

// Default returns the built-in configuration without touching the
// filesystem.
func Default() *Config {
	k := koanf.New(".")
	// The embedded defaults are compiled in; a parse failure here is a
	// programming error.
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic(err)
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// TOML renders the configuration as TOML, used by `rewind genconfig`
// to seed a user config file.
func (c *Config) TOML() ([]byte, error) {
	data, err := gotoml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to marshal config")
	}
	return data, nil
}
