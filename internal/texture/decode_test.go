package texture

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

func TestDecodeFile_RGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 10, B: 30, A: 7})
	src.SetNRGBA(2, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	path := filepath.Join(t.TempDir(), "rgba.png")
	writePNG(t, path, src)

	got, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	if diff := cmp.Diff(src.Pix, got.Pix); diff != "" {
		t.Errorf("pixel mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFile_RGBGetsOpaqueAlpha(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i] = byte(i)
		src.Pix[i+1] = 40
		src.Pix[i+2] = 80
		src.Pix[i+3] = 255
	}
	path := filepath.Join(t.TempDir(), "rgb.png")
	writePNG(t, path, src)

	got, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	if diff := cmp.Diff(src.Pix, got.Pix); diff != "" {
		t.Errorf("pixel mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFile_GrayUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gray.png")
	writePNG(t, path, image.NewGray(image.Rect(0, 0, 4, 4)))

	_, err := DecodeFile(path)
	var colorErr *UnsupportedColorError
	if !errors.As(err, &colorErr) {
		t.Fatalf("expected UnsupportedColorError, got %v", err)
	}
	if colorErr.Source != path {
		t.Errorf("expected source %s, got %s", path, colorErr.Source)
	}
	if colorErr.Layout != "Gray8" {
		t.Errorf("expected layout Gray8, got %s", colorErr.Layout)
	}
}

func TestDecodeFile_PalettedUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pal.png")
	pal := color.Palette{color.NRGBA{A: 255}, color.NRGBA{R: 255, A: 255}}
	writePNG(t, path, image.NewPaletted(image.Rect(0, 0, 2, 2), pal))

	_, err := DecodeFile(path)
	var colorErr *UnsupportedColorError
	if !errors.As(err, &colorErr) {
		t.Fatalf("expected UnsupportedColorError, got %v", err)
	}
}

func TestDecodeFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.png")
	_, err := DecodeFile(path)

	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if decErr.Source != path {
		t.Errorf("expected source %s, got %s", path, decErr.Source)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestDecodeFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.png")
	if err := os.WriteFile(path, []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := DecodeFile(path)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestToNRGBA_OffsetOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(2, 2, color.NRGBA{R: 9, A: 99})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	got, err := ToNRGBA(sub, "sub")
	if err != nil {
		t.Fatalf("ToNRGBA failed: %v", err)
	}
	if got.Rect != image.Rect(0, 0, 2, 2) {
		t.Errorf("expected zero-origin 2x2, got %v", got.Rect)
	}
	if c := got.NRGBAAt(0, 0); c != (color.NRGBA{R: 9, A: 99}) {
		t.Errorf("unexpected pixel %v", c)
	}
}

func TestBlit_Clipped(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = byte(i + 1)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, 3, 3))

	Blit(dst, image.Pt(2, 2), src, src.Rect)

	if c := dst.NRGBAAt(2, 2); c != src.NRGBAAt(0, 0) {
		t.Errorf("expected %v at (2,2), got %v", src.NRGBAAt(0, 0), c)
	}
	if c := dst.NRGBAAt(1, 1); c != (color.NRGBA{}) {
		t.Errorf("expected untouched pixel at (1,1), got %v", c)
	}
}

// writeGrayAlphaPNG writes an 8-bit gray+alpha PNG, a layout image/png
// never encodes.
func writeGrayAlphaPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	chunk := func(kind string, data []byte) {
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		crc := crc32.NewIEEE()
		crc.Write([]byte(kind))
		crc.Write(data)
		buf.WriteString(kind)
		buf.Write(data)
		_ = binary.Write(&buf, binary.BigEndian, crc.Sum32())
	}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], uint32(w))
	binary.BigEndian.PutUint32(ihdr[4:], uint32(h))
	ihdr[8] = 8 // bit depth
	ihdr[9] = 4 // gray+alpha
	chunk("IHDR", ihdr)

	var raw bytes.Buffer
	for y := 0; y < h; y++ {
		raw.WriteByte(0) // filter: none
		for x := 0; x < w; x++ {
			raw.Write([]byte{byte(x * 40), 128})
		}
	}
	var idat bytes.Buffer
	zw := zlib.NewWriter(&idat)
	_, _ = zw.Write(raw.Bytes())
	_ = zw.Close()
	chunk("IDAT", idat.Bytes())
	chunk("IEND", nil)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestDecodeFile_GrayAlphaUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ga.png")
	writeGrayAlphaPNG(t, path, 3, 2)

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(f)
	f.Close()
	if err != nil {
		t.Fatalf("fixture does not decode: %v", err)
	}
	if _, ok := img.(*image.NRGBA); !ok {
		t.Fatalf("expected image/png to widen gray+alpha to NRGBA, got %T", img)
	}

	_, err = DecodeFile(path)
	var colorErr *UnsupportedColorError
	if !errors.As(err, &colorErr) {
		t.Fatalf("expected UnsupportedColorError, got %v", err)
	}
	if colorErr.Layout != "GrayAlpha8" || colorErr.Source != path {
		t.Errorf("unexpected error %+v", colorErr)
	}
}

func TestPNGWidenedLayout(t *testing.T) {
	rgba := filepath.Join(t.TempDir(), "rgba.png")
	writePNG(t, rgba, image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	data, err := os.ReadFile(rgba)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		in   []byte
	}{
		{"rgba", data},
		{"short", data[:10]},
		{"not png", []byte(strings.Repeat("x", 64))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bufio.NewReader(bytes.NewReader(tt.in))
			if got := pngWidenedLayout(r); got != "" {
				t.Errorf("expected no layout, got %q", got)
			}
		})
	}
}
