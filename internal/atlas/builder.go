// Package atlas packs uniform square tiles into one growing RGBA texture atlas.
package atlas

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/tileatlas/internal/cache"
	"github.com/Faultbox/tileatlas/internal/texture"
)

// initialUnits is the side of the initial canvas, in tiles.
const initialUnits = 4

// Rect is a pixel-space rectangle of the atlas, used as a min-alpha cache key.
type Rect struct {
	X, Y, W, H int
}

// Image returns r as an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Tile describes a loaded tile.
type Tile struct {
	Name     string
	Position image.Point // top-left corner in atlas pixels
	Frames   int         // frames in the source; only the first is packed
	Index    int         // packing order, starting at 0
}

// IgnoredFrames returns how many source frames were dropped when packing.
func (t Tile) IgnoredFrames() int {
	return t.Frames - 1
}

// Option configures a Builder.
type Option func(*Builder)

// WithDecoder replaces the file decoder.
func WithDecoder(d texture.Decoder) Option {
	return func(b *Builder) { b.decoder = d }
}

// WithLogger sets the logger used for growth and frame truncation reports.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// WithExtension sets the tile file extension (without dot). Default is png.
func WithExtension(ext string) Option {
	return func(b *Builder) { b.ext = strings.TrimPrefix(ext, ".") }
}

// Builder incrementally packs tiles loaded by name into an RGBA canvas.
//
// Positions handed out by Load never change: the canvas only grows by
// doubling, keeping existing pixels at the same coordinates.
// A Builder is not safe for concurrent use.
type Builder struct {
	image *image.NRGBA
	dir   string
	ext   string

	unitWidth  int
	unitHeight int
	cursor     Cursor

	tiles    *cache.Memo[string, Tile]
	minAlpha *cache.Memo[Rect, uint8]

	decoder   texture.Decoder
	log       *zap.Logger
	completed bool
}

// New creates a Builder loading tiles from dir. Every tile must be exactly
// unitWidth pixels wide and a positive multiple of unitHeight pixels tall.
func New(dir string, unitWidth, unitHeight int, opts ...Option) (*Builder, error) {
	if unitWidth <= 0 || unitHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidUnitSize, unitWidth, unitHeight)
	}

	b := &Builder{
		image:      image.NewNRGBA(image.Rect(0, 0, unitWidth*initialUnits, unitHeight*initialUnits)),
		dir:        dir,
		ext:        texture.ExtPNG,
		unitWidth:  unitWidth,
		unitHeight: unitHeight,
		tiles:      cache.New[string, Tile](),
		minAlpha:   cache.New[Rect, uint8](),
		decoder:    texture.FileDecoder{},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Load packs the tile called name and returns its top-left pixel position.
// Loading the same name again returns the stored position.
func (b *Builder) Load(name string) (image.Point, error) {
	t, err := b.LoadTile(name)
	if err != nil {
		return image.Point{}, err
	}
	return t.Position, nil
}

// LoadTile is Load returning the full tile record, including how many
// source frames were dropped. A failed load leaves the builder unchanged.
func (b *Builder) LoadTile(name string) (Tile, error) {
	if b.completed {
		return Tile{}, ErrCompleted
	}
	if t, ok := b.tiles.Get(name); ok {
		return t, nil
	}
	if err := validateName(name); err != nil {
		return Tile{}, err
	}

	path := filepath.Join(b.dir, name+"."+b.ext)
	img, err := b.decoder.Decode(path)
	if err != nil {
		return Tile{}, fmt.Errorf("loading tile %q: %w", name, err)
	}

	frames, err := b.checkSize(name, path, img.Rect.Size())
	if err != nil {
		return Tile{}, err
	}
	if frames > 1 {
		b.log.Info("ignoring extra frames",
			zap.String("tile", name),
			zap.Int("ignored_frames", frames-1))
	}

	if b.cursor.Position == 0 {
		b.growIfNeeded()
	}

	tx, ty := b.cursor.Slot()
	b.cursor.Advance()

	pos := image.Pt(tx*b.unitWidth, ty*b.unitHeight)
	frame := image.Rect(0, 0, b.unitWidth, b.unitHeight).Add(img.Rect.Min)
	texture.Blit(b.image, pos, img, frame)

	t := Tile{Name: name, Position: pos, Frames: frames, Index: b.tiles.Len()}
	b.tiles.Set(name, t)
	b.log.Debug("tile packed",
		zap.String("tile", name),
		zap.Int("x", pos.X),
		zap.Int("y", pos.Y))
	return t, nil
}

// checkSize validates tile dimensions and returns the number of frames.
func (b *Builder) checkSize(name, path string, size image.Point) (int, error) {
	if size.X != b.unitWidth {
		return 0, &TileSizeError{Tile: name, Source: path, Axis: "width", Expected: b.unitWidth, Actual: size.X}
	}
	if size.Y <= 0 || size.Y%b.unitHeight != 0 {
		return 0, &TileSizeError{Tile: name, Source: path, Axis: "height", Expected: b.unitHeight, Actual: size.Y}
	}
	return size.Y / b.unitHeight, nil
}

// growIfNeeded doubles the canvas when the ring about to start would not fit.
// Called only at the start of a ring.
func (b *Builder) growIfNeeded() {
	size := b.cursor.CompletedSize
	old := b.image
	w, h := old.Rect.Dx(), old.Rect.Dy()
	if b.unitWidth*size < w && b.unitHeight*size < h {
		return
	}

	b.image = image.NewNRGBA(image.Rect(0, 0, w*2, h*2))
	texture.Blit(b.image, image.Point{}, old, old.Rect)
	b.log.Debug("atlas grown",
		zap.String("from", fmt.Sprintf("%dx%d", w, h)),
		zap.String("to", fmt.Sprintf("%dx%d", w*2, h*2)))
}

// MinAlpha returns the lowest alpha value inside r, clipped to the canvas.
// A rectangle with a non-positive width or height is empty and yields 0.
// Results are cached per rectangle and reflect the canvas at the time of the
// first query.
func (b *Builder) MinAlpha(r Rect) (uint8, error) {
	if b.completed {
		return 0, ErrCompleted
	}
	return b.minAlpha.GetOrCompute(r, func() (uint8, error) {
		// image.Rect would swap the corners of a negative size.
		if r.W <= 0 || r.H <= 0 {
			return 0, nil
		}
		return scanMinAlpha(b.image, r.Image()), nil
	})
}

func scanMinAlpha(img *image.NRGBA, r image.Rectangle) uint8 {
	r = r.Intersect(img.Rect)
	if r.Empty() {
		return 0
	}
	lowest := uint8(255)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if row[i] < lowest {
				lowest = row[i]
				if lowest == 0 {
					return 0
				}
			}
		}
	}
	return lowest
}

// Complete finishes the builder and hands over the packed canvas.
// Every later call on the builder returns ErrCompleted.
func (b *Builder) Complete() (*Atlas, error) {
	if b.completed {
		return nil, ErrCompleted
	}
	b.completed = true

	tiles := make(map[string]Tile, b.tiles.Len())
	b.tiles.Each(func(name string, t Tile) {
		tiles[name] = t
	})

	a := &Atlas{
		Image:      b.image,
		UnitWidth:  b.unitWidth,
		UnitHeight: b.unitHeight,
		Tiles:      tiles,
	}
	b.image = nil

	b.log.Info("atlas completed",
		zap.Int("tiles", len(tiles)),
		zap.Int("width", a.Image.Rect.Dx()),
		zap.Int("height", a.Image.Rect.Dy()))
	return a, nil
}

// Cursor returns the current packing state.
func (b *Builder) Cursor() Cursor {
	return b.cursor
}

// Size returns the current canvas dimensions in pixels.
func (b *Builder) Size() (width, height int) {
	if b.image == nil {
		return 0, 0
	}
	return b.image.Rect.Dx(), b.image.Rect.Dy()
}

// Tile returns the record of a packed tile.
func (b *Builder) Tile(name string) (Tile, bool) {
	return b.tiles.Get(name)
}

// UnitSize returns the tile dimensions in pixels.
func (b *Builder) UnitSize() (width, height int) {
	return b.unitWidth, b.unitHeight
}

// Len returns the number of packed tiles.
func (b *Builder) Len() int {
	return b.tiles.Len()
}

// Stats returns lookup statistics of the tile and min-alpha caches.
func (b *Builder) Stats() (tiles, minAlpha cache.Stats) {
	return b.tiles.Stats(), b.minAlpha.Stats()
}

func validateName(name string) error {
	if !filepath.IsLocal(name) || name == "." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
