package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/tileatlas/internal/config"
	"github.com/Faultbox/tileatlas/internal/logger"
)

// cmdConfigInit saves defaults merged with any config file and global flags.
func cmdConfigInit(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}

	path := c.Args().First()
	if path == "" {
		path = config.FileName
	}

	if !c.Bool("force") {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	logger.Info("config written", zap.String("path", path))
	fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
	return nil
}
