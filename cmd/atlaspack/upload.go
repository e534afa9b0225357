package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/tileatlas/internal/config"
	"github.com/Faultbox/tileatlas/internal/device"
	"github.com/Faultbox/tileatlas/internal/device/gldevice"
	"github.com/Faultbox/tileatlas/internal/logger"
)

func cmdUpload(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}

	a, err := packAtlas(c, cfg)
	if err != nil {
		return err
	}

	win, err := gldevice.OpenHidden(logger.Named("device"))
	if err != nil {
		return err
	}
	defer win.Close()

	sink := gldevice.NewGLSink(glOptions(cfg.Device))
	tex, err := device.Upload(win, sink, a.Image)
	if err != nil {
		return err
	}
	defer sink.Delete(tex)

	logger.Info("atlas uploaded",
		zap.Uint32("texture", tex.ID),
		zap.Int("width", tex.Width),
		zap.Int("height", tex.Height))
	fmt.Printf("texture %d (%dx%d)\n", tex.ID, tex.Width, tex.Height)
	return nil
}

func glOptions(cfg config.DeviceConfig) gldevice.GLOptions {
	opts := gldevice.DefaultGLOptions()
	if cfg.MinFilter != "" {
		opts.MinFilter = gldevice.Filter(cfg.MinFilter)
	}
	if cfg.MagFilter != "" {
		opts.MagFilter = gldevice.Filter(cfg.MagFilter)
	}
	opts.Mipmaps = cfg.Mipmaps
	return opts
}
