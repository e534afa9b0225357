package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

var (
	ErrTGATooShort  = errors.New("TGA data too short")
	ErrTGATruncated = errors.New("TGA data truncated")
)

// DecodeTGA decodes an uncompressed or RLE true-color TGA file.
// 24-bit files come back as opaque *image.RGBA (RGB layout),
// 32-bit files as *image.NRGBA (RGBA layout).
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, ErrTGATooShort
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("invalid TGA dimensions %dx%d", width, height)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, ErrTGATruncated
	}

	r := tgaReader{
		pix:         data[offset:],
		width:       width,
		height:      height,
		bpp:         bpp / 8,
		topToBottom: topToBottom,
		out:         make([]byte, width*height*4),
	}

	var err error
	if imageType == TGATypeUncompressed {
		err = r.readRaw()
	} else {
		err = r.readRLE()
	}
	if err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, width, height)
	if r.bpp == 3 {
		return &image.RGBA{Pix: r.out, Stride: width * 4, Rect: rect}, nil
	}
	return &image.NRGBA{Pix: r.out, Stride: width * 4, Rect: rect}, nil
}

// tgaReader unpacks BGR(A) pixels in file order into RGBA rows.
type tgaReader struct {
	pix         []byte
	pos         int
	width       int
	height      int
	bpp         int
	topToBottom bool
	out         []byte
	written     int
}

// pixel reads one BGR(A) pixel at the read position.
func (r *tgaReader) pixel() ([4]byte, bool) {
	if r.pos+r.bpp > len(r.pix) {
		return [4]byte{}, false
	}
	p := r.pix[r.pos : r.pos+r.bpp]
	r.pos += r.bpp
	a := byte(255)
	if r.bpp == 4 {
		a = p[3]
	}
	return [4]byte{p[2], p[1], p[0], a}, true
}

// put stores c at the next pixel slot, flipping rows for bottom-up files.
func (r *tgaReader) put(c [4]byte) {
	x := r.written % r.width
	y := r.written / r.width
	if !r.topToBottom {
		y = r.height - 1 - y
	}
	copy(r.out[(y*r.width+x)*4:], c[:])
	r.written++
}

func (r *tgaReader) readRaw() error {
	total := r.width * r.height
	if len(r.pix) < total*r.bpp {
		return ErrTGATruncated
	}
	for r.written < total {
		c, _ := r.pixel()
		r.put(c)
	}
	return nil
}

func (r *tgaReader) readRLE() error {
	total := r.width * r.height
	for r.written < total {
		if r.pos >= len(r.pix) {
			return ErrTGATruncated
		}
		packet := r.pix[r.pos]
		r.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			c, ok := r.pixel()
			if !ok {
				return ErrTGATruncated
			}
			for i := 0; i < count && r.written < total; i++ {
				r.put(c)
			}
			continue
		}

		for i := 0; i < count && r.written < total; i++ {
			c, ok := r.pixel()
			if !ok {
				return ErrTGATruncated
			}
			r.put(c)
		}
	}
	return nil
}
