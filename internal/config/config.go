// Package config handles atlas tool configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/tileatlas/internal/texture"
)

// Config holds all tool settings.
type Config struct {
	Atlas    AtlasConfig    `yaml:"atlas"`
	ColorMap ColorMapConfig `yaml:"color_map"`
	Output   OutputConfig   `yaml:"output"`
	Device   DeviceConfig   `yaml:"device"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AtlasConfig holds tile source settings.
type AtlasConfig struct {
	TileDir    string `yaml:"tile_dir"`
	UnitWidth  int    `yaml:"unit_width"`
	UnitHeight int    `yaml:"unit_height"`
	Extension  string `yaml:"extension"` // png, tga or bmp
}

// ColorMapConfig holds the reference color map location.
type ColorMapConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig holds where packed atlases are written.
type OutputConfig struct {
	Dir           string `yaml:"dir"`
	Name          string `yaml:"name"`
	PaletteColors int    `yaml:"palette_colors"` // 0 writes RGBA only
	PreviewSize   int    `yaml:"preview_size"`   // 0 disables the preview image
}

// DeviceConfig holds texture upload settings.
type DeviceConfig struct {
	MinFilter string `yaml:"min_filter"`
	MagFilter string `yaml:"mag_filter"`
	Mipmaps   bool   `yaml:"mipmaps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Atlas: AtlasConfig{
			TileDir:    "textures",
			UnitWidth:  16,
			UnitHeight: 16,
			Extension:  texture.ExtPNG,
		},
		ColorMap: ColorMapConfig{
			Path: "textures/colormap/grass.png",
		},
		Output: OutputConfig{
			Dir:  ".",
			Name: "atlas",
		},
		Device: DeviceConfig{
			MinFilter: "nearest",
			MagFilter: "nearest",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks settings that would otherwise fail deep inside packing.
func (c *Config) Validate() error {
	var err error
	if c.Atlas.UnitWidth <= 0 || c.Atlas.UnitHeight <= 0 {
		err = multierr.Append(err, fmt.Errorf("atlas unit size must be positive, got %dx%d",
			c.Atlas.UnitWidth, c.Atlas.UnitHeight))
	}
	switch c.Atlas.Extension {
	case texture.ExtPNG, texture.ExtTGA, texture.ExtBMP:
	default:
		err = multierr.Append(err, fmt.Errorf("unsupported tile extension %q", c.Atlas.Extension))
	}
	if c.Output.Name == "" {
		err = multierr.Append(err, errors.New("output name must not be empty"))
	}
	if n := c.Output.PaletteColors; n != 0 && (n < 2 || n > 256) {
		err = multierr.Append(err, fmt.Errorf("palette_colors must be 0 or in [2, 256], got %d", n))
	}
	for _, f := range []string{c.Device.MinFilter, c.Device.MagFilter} {
		if f != "nearest" && f != "linear" {
			err = multierr.Append(err, fmt.Errorf("unknown texture filter %q", f))
		}
	}
	return err
}
