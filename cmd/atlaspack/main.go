// atlaspack packs tile images into a texture atlas and samples color maps.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Faultbox/tileatlas/internal/config"
	"github.com/Faultbox/tileatlas/internal/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "atlaspack",
		Usage: "Build texture atlases from tile images",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Also write logs to `FILE` (rotated)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "pack",
				Usage:     "Pack tiles into an atlas image and JSON manifest",
				ArgsUsage: "[tile names...]",
				Flags:     packFlags(),
				Action:    cmdPack,
			},
			{
				Name:      "upload",
				Usage:     "Pack tiles and upload the atlas to the GPU",
				ArgsUsage: "[tile names...]",
				Flags:     packFlags(),
				Action:    cmdUpload,
			},
			{
				Name:      "sample",
				Usage:     "Sample an RGB tint from a 256x256 color map",
				ArgsUsage: "[--] <u> <v>",
				Description: "Coordinates outside [0, 1] are clamped. Put negative\n" +
					"coordinates after --, e.g. atlaspack sample -- -5 2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "map",
						Usage: "Color map image `PATH`",
					},
				},
				Action: cmdSample,
			},
			{
				Name:  "config",
				Usage: "Manage the configuration file",
				Subcommands: []*cli.Command{
					{
						Name:      "init",
						Usage:     "Write the effective configuration to a YAML file",
						ArgsUsage: "[path]",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite an existing file"},
						},
						Action: cmdConfigInit,
					},
				},
			},
		},
		After: func(*cli.Context) error {
			logger.Sync()
			return nil
		},
	}
}

func packFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "tiles", Usage: "Tile source `DIR`"},
		&cli.StringFlag{Name: "unit", Usage: "Tile size as `W` or WxH pixels"},
		&cli.StringFlag{Name: "ext", Usage: "Tile file extension (png, tga, bmp)"},
		&cli.StringFlag{Name: "out", Usage: "Output `DIR`"},
		&cli.StringFlag{Name: "name", Usage: "Output base `NAME`"},
		&cli.IntFlag{Name: "colors", Usage: "Also write an indexed PNG with `N` colors"},
		&cli.IntFlag{Name: "preview", Usage: "Also write a preview scaled to `SIZE` pixels"},
		&cli.BoolFlag{Name: "keep-going", Aliases: []string{"k"}, Usage: "Skip tiles that fail to load"},
	}
}

// setup loads the config for c and initializes logging.
func setup(c *cli.Context) (*config.Config, error) {
	w, h, err := parseUnit(c.String("unit"))
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(c.String("config"), config.Overrides{
		Debug:      c.Bool("debug"),
		LogFile:    c.String("log-file"),
		TileDir:    c.String("tiles"),
		UnitWidth:  w,
		UnitHeight: h,
		Extension:  c.String("ext"),
		OutputDir:  c.String("out"),
		OutputName: c.String("name"),
		Palette:    c.Int("colors"),
		Preview:    c.Int("preview"),
		ColorMap:   c.String("map"),
	})
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger.Sugar.Debugf("config: %+v", cfg)
	return cfg, nil
}

// parseUnit parses "16" or "16x8". An empty string yields zeros.
func parseUnit(s string) (w, h int, err error) {
	if s == "" {
		return 0, 0, nil
	}
	ws, hs, found := strings.Cut(strings.ToLower(s), "x")
	if w, err = strconv.Atoi(ws); err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid tile unit %q", s)
	}
	if !found {
		return w, w, nil
	}
	if h, err = strconv.Atoi(hs); err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid tile unit %q", s)
	}
	return w, h, nil
}
