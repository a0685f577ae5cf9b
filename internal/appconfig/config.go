package appconfig

import (
	"path/filepath"

	"pkt.systems/inkline/internal/userhome"
	"pkt.systems/inkline/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int            `mapstructure:"config_version" yaml:"config_version"`
	StateDir      string         `mapstructure:"state_dir" yaml:"state_dir"`
	Registry      RegistryConfig `mapstructure:"registry" yaml:"registry"`
	Keystore      KeystoreConfig `mapstructure:"keystore" yaml:"keystore"`
	Update        UpdateConfig   `mapstructure:"update" yaml:"update"`
	Render        RenderConfig   `mapstructure:"render" yaml:"render"`
	HTTP          HTTPConfig     `mapstructure:"http" yaml:"http"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// RegistryConfig controls provider registry storage.
type RegistryConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// KeystoreConfig controls encrypted credential storage. File is the
// kryptograf key bundle; Dir holds the per-provider encrypted credentials.
type KeystoreConfig struct {
	File string `mapstructure:"file" yaml:"file"`
	Dir  string `mapstructure:"dir" yaml:"dir"`
}

// UpdateConfig controls the release update check.
type UpdateConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// RenderConfig controls terminal output defaults.
type RenderConfig struct {
	Theme      string `mapstructure:"theme" yaml:"theme"`
	Color      string `mapstructure:"color" yaml:"color"`
	Width      int    `mapstructure:"width" yaml:"width"`
	Hyperlinks bool   `mapstructure:"hyperlinks" yaml:"hyperlinks"`
}

// HTTPConfig controls outbound HTTP behavior.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	root, err := userhome.Dir(".inkline")
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		StateDir:      filepath.Join(root, "state"),
		Registry: RegistryConfig{
			File: filepath.Join(root, "providers.json"),
		},
		Keystore: KeystoreConfig{
			File: filepath.Join(root, "state", "keys.bundle"),
			Dir:  filepath.Join(root, "state", "credentials"),
		},
		Update: UpdateConfig{
			URL: "https://dl.pkt.systems/inkline/latest.json",
		},
		Render: RenderConfig{
			Theme:      string(schema.DefaultTheme),
			Color:      "auto",
			Width:      0,
			Hyperlinks: false,
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 15,
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	return userhome.Dir(".inkline", "config.yaml")
}
