package atlas

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

// Atlas is the packed result of a Builder.
type Atlas struct {
	Image      *image.NRGBA
	UnitWidth  int
	UnitHeight int
	Tiles      map[string]Tile
}

// UV holds normalized texture coordinates of a tile.
type UV struct {
	U0, V0 float32 // top-left
	U1, V1 float32 // bottom-right
}

// UV returns the texture coordinates of the named tile.
func (a *Atlas) UV(name string) (UV, bool) {
	t, ok := a.Tiles[name]
	if !ok {
		return UV{}, false
	}
	w := float32(a.Image.Rect.Dx())
	h := float32(a.Image.Rect.Dy())
	return UV{
		U0: float32(t.Position.X) / w,
		V0: float32(t.Position.Y) / h,
		U1: float32(t.Position.X+a.UnitWidth) / w,
		V1: float32(t.Position.Y+a.UnitHeight) / h,
	}, true
}

// Names returns tile names in the order they were packed.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.Tiles))
	for name := range a.Tiles {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return a.Tiles[names[i]].Index < a.Tiles[names[j]].Index
	})
	return names
}

// TileRect returns the pixel rectangle occupied by the named tile.
func (a *Atlas) TileRect(name string) (Rect, bool) {
	t, ok := a.Tiles[name]
	if !ok {
		return Rect{}, false
	}
	return Rect{X: t.Position.X, Y: t.Position.Y, W: a.UnitWidth, H: a.UnitHeight}, true
}

// WritePNG encodes the atlas image as PNG.
func (a *Atlas) WritePNG(w io.Writer) error {
	return png.Encode(w, a.Image)
}

// Paletted returns a copy of the atlas reduced to at most colors entries
// with a median cut palette.
func (a *Atlas) Paletted(colors int) (*image.Paletted, error) {
	if colors < 2 || colors > 256 {
		return nil, fmt.Errorf("atlas: palette size %d out of range [2, 256]", colors)
	}
	q := quantize.MedianCutQuantizer{}
	palette := q.Quantize(make(color.Palette, 0, colors), a.Image)
	pm := image.NewPaletted(a.Image.Rect, palette)
	draw.Draw(pm, pm.Rect, a.Image, image.Point{}, draw.Src)
	return pm, nil
}

// Preview returns a nearest-neighbor scaled copy whose longest side is
// maxSide pixels. The atlas image itself is returned if it already fits.
func (a *Atlas) Preview(maxSide int) *image.NRGBA {
	b := a.Image.Rect
	if maxSide <= 0 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return a.Image
	}
	w, h := maxSide, maxSide
	if b.Dx() > b.Dy() {
		h = max(1, b.Dy()*maxSide/b.Dx())
	} else if b.Dy() > b.Dx() {
		w = max(1, b.Dx()*maxSide/b.Dy())
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Rect, a.Image, b, draw.Src, nil)
	return dst
}

// Manifest is a TexturePacker "hash" JSON description of an atlas.
type Manifest struct {
	Frames map[string]ManifestFrame `json:"frames"`
	Meta   ManifestMeta             `json:"meta"`
}

// ManifestRect is a rectangle in a Manifest.
type ManifestRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// ManifestSize is a size in a Manifest.
type ManifestSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

// ManifestFrame describes one tile in a Manifest.
type ManifestFrame struct {
	Frame            ManifestRect `json:"frame"`
	Rotated          bool         `json:"rotated"`
	Trimmed          bool         `json:"trimmed"`
	SpriteSourceSize ManifestRect `json:"spriteSourceSize"`
	SourceSize       ManifestSize `json:"sourceSize"`
}

// ManifestMeta holds atlas-level Manifest data.
type ManifestMeta struct {
	Image  string       `json:"image"`
	Format string       `json:"format"`
	Size   ManifestSize `json:"size"`
	Scale  string       `json:"scale"`
}

// Manifest describes every tile of the atlas. imageName is the file name the
// atlas image is stored under.
func (a *Atlas) Manifest(imageName string) Manifest {
	m := Manifest{
		Frames: make(map[string]ManifestFrame, len(a.Tiles)),
		Meta: ManifestMeta{
			Image:  imageName,
			Format: "RGBA8888",
			Size:   ManifestSize{W: a.Image.Rect.Dx(), H: a.Image.Rect.Dy()},
			Scale:  "1",
		},
	}
	for name, t := range a.Tiles {
		m.Frames[name] = ManifestFrame{
			Frame:            ManifestRect{X: t.Position.X, Y: t.Position.Y, W: a.UnitWidth, H: a.UnitHeight},
			SpriteSourceSize: ManifestRect{W: a.UnitWidth, H: a.UnitHeight},
			SourceSize:       ManifestSize{W: a.UnitWidth, H: a.UnitHeight},
		}
	}
	return m
}

// WriteManifest writes the Manifest as indented JSON.
func (a *Atlas) WriteManifest(w io.Writer, imageName string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a.Manifest(imageName))
}
