package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/Faultbox/tileatlas/internal/colormap"
)

func cmdSample(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected <u> <v>, got %d argument(s)", c.NArg())
	}
	cfg, err := setup(c)
	if err != nil {
		return err
	}

	u, err := parseCoord(c.Args().Get(0))
	if err != nil {
		return err
	}
	v, err := parseCoord(c.Args().Get(1))
	if err != nil {
		return err
	}

	m, err := colormap.Load(cfg.ColorMap.Path, nil)
	if err != nil {
		return err
	}
	rgb := m.Sample(u, v)
	fmt.Fprintf(c.App.Writer, "%d %d %d #%02x%02x%02x\n", rgb[0], rgb[1], rgb[2], rgb[0], rgb[1], rgb[2])
	return nil
}

func parseCoord(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q", s)
	}
	return float32(f), nil
}
