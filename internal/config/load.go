package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name searched for by Load.
const FileName = "atlas.yaml"

// Overrides holds command-line values applied on top of the config file.
// Zero values leave the config untouched.
type Overrides struct {
	Debug      bool
	LogFile    string
	TileDir    string
	UnitWidth  int
	UnitHeight int
	Extension  string
	OutputDir  string
	OutputName string
	Palette    int
	Preview    int
	ColorMap   string
}

// Load loads configuration with priority: defaults < file < overrides.
// An empty path searches the standard locations; a missing file there is
// not an error.
func Load(path string, ov Overrides) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	ov.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// apply copies non-zero overrides into cfg.
func (ov Overrides) apply(cfg *Config) {
	if ov.Debug {
		cfg.Logging.Level = "debug"
	}
	if ov.LogFile != "" {
		cfg.Logging.LogFile = ov.LogFile
	}
	if ov.TileDir != "" {
		cfg.Atlas.TileDir = ov.TileDir
	}
	if ov.UnitWidth > 0 {
		cfg.Atlas.UnitWidth = ov.UnitWidth
	}
	if ov.UnitHeight > 0 {
		cfg.Atlas.UnitHeight = ov.UnitHeight
	}
	if ov.Extension != "" {
		cfg.Atlas.Extension = ov.Extension
	}
	if ov.OutputDir != "" {
		cfg.Output.Dir = ov.OutputDir
	}
	if ov.OutputName != "" {
		cfg.Output.Name = ov.OutputName
	}
	if ov.Palette > 0 {
		cfg.Output.PaletteColors = ov.Palette
	}
	if ov.Preview > 0 {
		cfg.Output.PreviewSize = ov.Preview
	}
	if ov.ColorMap != "" {
		cfg.ColorMap.Path = ov.ColorMap
	}
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		filepath.Join(".", FileName),
		filepath.Join(ConfigDir(), FileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "TileAtlas")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "TileAtlas")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "tileatlas")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "tileatlas")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// SaveTo writes the config to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
