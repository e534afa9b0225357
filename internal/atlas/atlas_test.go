package atlas

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func completedAtlas(t *testing.T, n int) *Atlas {
	t.Helper()
	b, _ := newTestBuilder(t, n)
	for i := 0; i < n; i++ {
		_, err := b.Load(tileName(i))
		require.NoError(t, err)
	}
	a, err := b.Complete()
	require.NoError(t, err)
	return a
}

func TestAtlas_UV(t *testing.T) {
	a := completedAtlas(t, 3)

	uv, ok := a.UV(tileName(2))
	require.True(t, ok)
	want := UV{U0: 0.25, V0: 0, U1: 0.5, V1: 0.25}
	if uv != want {
		t.Errorf("expected %+v, got %+v", want, uv)
	}

	if _, ok := a.UV("nope"); ok {
		t.Error("expected missing tile to report ok=false")
	}
}

func TestAtlas_NamesInPackingOrder(t *testing.T) {
	dec := newFakeDecoder()
	order := []string{"grass", "dirt", "stone", "sand", "clay", "snow"}
	for i, name := range order {
		dec.add(name, solid(16, 16, tileColor(i)))
	}
	b, err := New(testDir, 16, 16, WithDecoder(dec))
	require.NoError(t, err)
	for _, name := range order {
		_, err := b.Load(name)
		require.NoError(t, err)
	}
	// Reloading must not change the order.
	_, err = b.Load("grass")
	require.NoError(t, err)

	a, err := b.Complete()
	require.NoError(t, err)

	if diff := cmp.Diff(order, a.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	for i, name := range order {
		if got := a.Tiles[name].Index; got != i {
			t.Errorf("%s: expected index %d, got %d", name, i, got)
		}
	}
}

func TestAtlas_TileRect(t *testing.T) {
	a := completedAtlas(t, 2)

	r, ok := a.TileRect(tileName(1))
	require.True(t, ok)
	if r != (Rect{X: 0, Y: 16, W: 16, H: 16}) {
		t.Errorf("unexpected rect %+v", r)
	}
}

func TestAtlas_Manifest(t *testing.T) {
	a := completedAtlas(t, 2)

	var buf bytes.Buffer
	require.NoError(t, a.WriteManifest(&buf, "blocks.png"))

	var got Manifest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	want := Manifest{
		Frames: map[string]ManifestFrame{
			tileName(0): {
				Frame:            ManifestRect{X: 0, Y: 0, W: 16, H: 16},
				SpriteSourceSize: ManifestRect{W: 16, H: 16},
				SourceSize:       ManifestSize{W: 16, H: 16},
			},
			tileName(1): {
				Frame:            ManifestRect{X: 0, Y: 16, W: 16, H: 16},
				SpriteSourceSize: ManifestRect{W: 16, H: 16},
				SourceSize:       ManifestSize{W: 16, H: 16},
			},
		},
		Meta: ManifestMeta{
			Image:  "blocks.png",
			Format: "RGBA8888",
			Size:   ManifestSize{W: 64, H: 64},
			Scale:  "1",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestAtlas_WritePNG(t *testing.T) {
	a := completedAtlas(t, 1)

	var buf bytes.Buffer
	require.NoError(t, a.WritePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	if img.Bounds() != a.Image.Rect {
		t.Errorf("expected bounds %v, got %v", a.Image.Rect, img.Bounds())
	}
	if c := color.NRGBAModel.Convert(img.At(3, 3)).(color.NRGBA); c != tileColor(0) {
		t.Errorf("expected %v, got %v", tileColor(0), c)
	}
}

func TestAtlas_Paletted(t *testing.T) {
	a := completedAtlas(t, 5)

	pm, err := a.Paletted(16)
	require.NoError(t, err)
	if pm.Rect != a.Image.Rect {
		t.Errorf("expected bounds %v, got %v", a.Image.Rect, pm.Rect)
	}
	if len(pm.Palette) == 0 || len(pm.Palette) > 16 {
		t.Errorf("expected 1..16 palette entries, got %d", len(pm.Palette))
	}

	for _, n := range []int{0, 1, 257} {
		if _, err := a.Paletted(n); err == nil {
			t.Errorf("Paletted(%d): expected error", n)
		}
	}
}

func TestAtlas_Preview(t *testing.T) {
	a := completedAtlas(t, 1)

	if got := a.Preview(128); got != a.Image {
		t.Error("expected atlas image when it already fits")
	}

	small := a.Preview(16)
	if small.Rect != image.Rect(0, 0, 16, 16) {
		t.Errorf("expected 16x16 preview, got %v", small.Rect)
	}
	if c := small.NRGBAAt(0, 0); c.A != tileColor(0).A {
		t.Errorf("expected first tile alpha in preview corner, got %v", c)
	}
	if c := small.NRGBAAt(15, 15); c.A != 0 {
		t.Errorf("expected empty canvas in preview corner, got %v", c)
	}
}
