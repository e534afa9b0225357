// Package texture decodes tile and color map source images into straight-alpha
// RGBA pixel buffers.
package texture

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Supported source file extensions, without the leading dot.
const (
	ExtPNG = "png"
	ExtTGA = "tga"
	ExtBMP = "bmp"
)

// Decoder turns a source file into an RGBA pixel buffer.
type Decoder interface {
	Decode(path string) (*image.NRGBA, error)
}

// FileDecoder reads images from the local file system, choosing the codec
// from the file extension. Unknown extensions are decoded as PNG.
type FileDecoder struct{}

// Decode implements Decoder.
func (FileDecoder) Decode(path string) (*image.NRGBA, error) {
	return DecodeFile(path)
}

// DecodeFile opens path and decodes it into an RGBA buffer.
// RGB sources get an opaque alpha channel; other layouts, gray+alpha PNGs
// included, are rejected with *UnsupportedColorError. Read and format failures return *DecodeError.
func DecodeFile(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	defer f.Close()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	r := bufio.NewReader(f)
	if ext != ExtTGA && ext != ExtBMP {
		if layout := pngWidenedLayout(r); layout != "" {
			return nil, &UnsupportedColorError{Layout: layout, Source: path}
		}
	}

	img, err := decodeByExt(r, ext)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	return ToNRGBA(img, path)
}

func decodeByExt(r io.Reader, ext string) (image.Image, error) {
	switch ext {
	case ExtTGA:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return DecodeTGA(data)
	case ExtBMP:
		return bmp.Decode(r)
	default:
		return png.Decode(r)
	}
}

const (
	pngSignature      = "\x89PNG\r\n\x1a\n"
	pngColorGrayAlpha = 4
)

// pngWidenedLayout peeks at the IHDR chunk and names the gray+alpha layouts,
// which image/png decodes into RGBA images. Other headers yield "".
func pngWidenedLayout(r *bufio.Reader) string {
	// signature(8) length(4) "IHDR"(4) width(4) height(4) depth(1) color(1)
	hdr, err := r.Peek(26)
	if err != nil || string(hdr[:8]) != pngSignature || string(hdr[12:16]) != "IHDR" {
		return ""
	}
	if hdr[25] != pngColorGrayAlpha {
		return ""
	}
	if hdr[24] == 16 {
		return "GrayAlpha16"
	}
	return "GrayAlpha8"
}

// ToNRGBA converts a decoded image into a zero-origin *image.NRGBA.
// source is only used to label errors.
func ToNRGBA(img image.Image, source string) (*image.NRGBA, error) {
	b := img.Bounds()
	switch src := img.(type) {
	case *image.NRGBA:
		if b.Min == (image.Point{}) {
			return src, nil
		}
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		Blit(dst, image.Point{}, src, b)
		return dst, nil
	case *image.RGBA:
		// 8-bit RGB sources decode to opaque *image.RGBA; the conversion
		// only un-premultiplies pixels that are not fully opaque.
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
		return dst, nil
	}
	return nil, &UnsupportedColorError{Layout: LayoutName(img), Source: source}
}

// LayoutName returns a short name for the channel layout of img.
func LayoutName(img image.Image) string {
	switch img.(type) {
	case *image.NRGBA:
		return "RGBA8"
	case *image.RGBA:
		return "RGB8"
	case *image.Gray:
		return "Gray8"
	case *image.Gray16:
		return "Gray16"
	case *image.Alpha:
		return "Alpha8"
	case *image.Alpha16:
		return "Alpha16"
	case *image.Paletted:
		return "Paletted"
	case *image.RGBA64:
		return "RGB16"
	case *image.NRGBA64:
		return "RGBA16"
	case *image.CMYK:
		return "CMYK"
	case *image.YCbCr:
		return "YCbCr"
	case *image.NYCbCrA:
		return "YCbCrA"
	}
	return fmt.Sprintf("%T", img)
}
