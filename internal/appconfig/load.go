package appconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pkt.systems/inkline/internal/userhome"
	"pkt.systems/inkline/schema"
)

// Load reads configuration from the provided path. If path is empty, uses
// DefaultConfigPath. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("state_dir", cfg.StateDir)
	v.SetDefault("registry.file", cfg.Registry.File)
	v.SetDefault("keystore.file", cfg.Keystore.File)
	v.SetDefault("keystore.dir", cfg.Keystore.Dir)
	v.SetDefault("update.url", cfg.Update.URL)
	v.SetDefault("render.theme", cfg.Render.Theme)
	v.SetDefault("render.color", cfg.Render.Color)
	v.SetDefault("render.width", cfg.Render.Width)
	v.SetDefault("render.hyperlinks", cfg.Render.Hyperlinks)
	v.SetDefault("http.timeout_seconds", cfg.HTTP.TimeoutSeconds)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := expandConfigEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	if err := validateUpdateConfig(cfg.Update); err != nil {
		return err
	}
	switch cfg.Render.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("render.color must be auto, always, or never")
	}
	if _, ok := schema.NormalizeThemeName(cfg.Render.Theme); !ok {
		return fmt.Errorf("unsupported render.theme %q", cfg.Render.Theme)
	}
	if cfg.Render.Width < 0 {
		return fmt.Errorf("render.width must not be negative")
	}
	if cfg.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be positive")
	}
	return nil
}

func validateUpdateConfig(cfg UpdateConfig) error {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("update.url must include scheme and host (e.g. https://example.com/latest.json)")
	}
	return nil
}

func expandConfigEnv(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	var err error
	if cfg.StateDir, err = expandPath(cfg.StateDir); err != nil {
		return err
	}
	if cfg.Registry.File, err = expandPath(cfg.Registry.File); err != nil {
		return err
	}
	if cfg.Keystore.File, err = expandPath(cfg.Keystore.File); err != nil {
		return err
	}
	if cfg.Keystore.Dir, err = expandPath(cfg.Keystore.Dir); err != nil {
		return err
	}
	cfg.Update.URL = expandEnv(cfg.Update.URL)
	return nil
}

// expandPath applies $VAR expansion followed by leading-tilde expansion.
func expandPath(value string) (string, error) {
	return userhome.Expand(expandEnv(value))
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
