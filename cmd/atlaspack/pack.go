package main

import (
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/tileatlas/internal/atlas"
	"github.com/Faultbox/tileatlas/internal/config"
	"github.com/Faultbox/tileatlas/internal/logger"
)

func cmdPack(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}

	a, err := packAtlas(c, cfg)
	if err != nil {
		return err
	}
	return writeOutputs(a, cfg.Output)
}

// packAtlas loads the named tiles, or every tile under the tile dir when no
// names are given, and completes the atlas.
func packAtlas(c *cli.Context, cfg *config.Config) (*atlas.Atlas, error) {
	names := c.Args().Slice()
	if len(names) == 0 {
		var err error
		if names, err = discoverTiles(cfg.Atlas.TileDir, cfg.Atlas.Extension); err != nil {
			return nil, err
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no .%s tiles found in %s", cfg.Atlas.Extension, cfg.Atlas.TileDir)
	}

	b, err := atlas.New(cfg.Atlas.TileDir, cfg.Atlas.UnitWidth, cfg.Atlas.UnitHeight,
		atlas.WithExtension(cfg.Atlas.Extension),
		atlas.WithLogger(logger.Named("atlas")))
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(names),
		progressbar.OptionSetDescription("packing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	keepGoing := c.Bool("keep-going")
	var failed error
	for _, name := range names {
		_ = bar.Add(1)
		if _, err := b.LoadTile(name); err != nil {
			if !keepGoing {
				_ = bar.Finish()
				return nil, err
			}
			logger.Warn("skipping tile", zap.String("tile", name), zap.Error(err))
			failed = multierr.Append(failed, err)
		}
	}
	_ = bar.Finish()

	if b.Len() == 0 {
		return nil, fmt.Errorf("no tiles packed: %w", failed)
	}

	// Opacity is read from the canvas, which Complete hands over.
	classes, err := classify(b, names)
	if err != nil {
		return nil, err
	}

	a, err := b.Complete()
	if err != nil {
		return nil, err
	}

	printSummary(a, classes)
	if n := len(multierr.Errors(failed)); n > 0 {
		fmt.Printf("%d tile(s) skipped:\n", n)
		for _, err := range multierr.Errors(failed) {
			fmt.Printf("  %v\n", err)
		}
	}
	return a, nil
}

// discoverTiles lists tile names (paths relative to dir, without extension)
// of every *.ext file below dir, sorted.
func discoverTiles(dir, ext string) ([]string, error) {
	suffix := "." + strings.TrimPrefix(ext, ".")
	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), suffix) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		names = append(names, strings.TrimSuffix(rel, filepath.Ext(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(names)
	return names, nil
}

type opacity string

const (
	opaque      opacity = "opaque"
	translucent opacity = "translucent"
	cutout      opacity = "cutout"
)

func opacityOf(minAlpha uint8) opacity {
	switch minAlpha {
	case 255:
		return opaque
	case 0:
		return cutout
	default:
		return translucent
	}
}

// classify reports the opacity of every packed tile among names.
func classify(b *atlas.Builder, names []string) (map[string]opacity, error) {
	w, h := b.UnitSize()
	classes := make(map[string]opacity, b.Len())
	for _, name := range names {
		t, ok := b.Tile(name)
		if !ok {
			continue
		}
		alpha, err := b.MinAlpha(atlas.Rect{X: t.Position.X, Y: t.Position.Y, W: w, H: h})
		if err != nil {
			return nil, err
		}
		classes[name] = opacityOf(alpha)
	}
	return classes, nil
}

func printSummary(a *atlas.Atlas, classes map[string]opacity) {
	counts := map[opacity]int{}
	for _, name := range a.Names() {
		t := a.Tiles[name]
		class := classes[name]
		counts[class]++
		note := ""
		if n := t.IgnoredFrames(); n > 0 {
			note = fmt.Sprintf(" (%d extra frames ignored)", n)
		}
		fmt.Printf("  %-32s %4d,%-4d %s%s\n", name, t.Position.X, t.Position.Y, class, note)
	}
	fmt.Printf("Packed %d tiles into %dx%d: %d opaque, %d translucent, %d cutout\n",
		len(a.Tiles), a.Image.Rect.Dx(), a.Image.Rect.Dy(),
		counts[opaque], counts[translucent], counts[cutout])
}

// writeOutputs writes NAME.png, NAME.json and the optional indexed and
// preview images into the output dir.
func writeOutputs(a *atlas.Atlas, out config.OutputConfig) error {
	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	imageName := out.Name + ".png"

	if err := writeFile(filepath.Join(out.Dir, imageName), func(f *os.File) error {
		return a.WritePNG(f)
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(out.Dir, out.Name+".json"), func(f *os.File) error {
		return a.WriteManifest(f, imageName)
	}); err != nil {
		return err
	}

	if out.PaletteColors > 0 {
		pm, err := a.Paletted(out.PaletteColors)
		if err != nil {
			return err
		}
		if err := writeFile(filepath.Join(out.Dir, out.Name+"-indexed.png"), func(f *os.File) error {
			return png.Encode(f, pm)
		}); err != nil {
			return err
		}
	}

	if out.PreviewSize > 0 {
		if err := writeFile(filepath.Join(out.Dir, out.Name+"-preview.png"), func(f *os.File) error {
			return png.Encode(f, a.Preview(out.PreviewSize))
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Info("wrote file", zap.String("path", path))
	return nil
}
