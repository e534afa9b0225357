// Package gldevice implements the device sink on OpenGL 4.1 core, with an
// SDL2 hidden window providing the context.
package gldevice

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/tileatlas/internal/device"
)

// Filter selects texture sampling.
type Filter string

const (
	FilterNearest Filter = "nearest"
	FilterLinear  Filter = "linear"
)

// GLOptions configures GLSink.
type GLOptions struct {
	MinFilter Filter
	MagFilter Filter
	Mipmaps   bool
}

// DefaultGLOptions returns nearest-neighbor sampling without mipmaps,
// which keeps neighboring tiles from bleeding into each other.
func DefaultGLOptions() GLOptions {
	return GLOptions{
		MinFilter: FilterNearest,
		MagFilter: FilterNearest,
	}
}

var (
	_ device.Sink    = (*GLSink)(nil)
	_ device.Context = (*HiddenWindow)(nil)
)

// GLSink uploads buffers as OpenGL RGBA8 textures.
type GLSink struct {
	opts GLOptions
}

// NewGLSink creates a sink with the given options.
func NewGLSink(opts GLOptions) *GLSink {
	return &GLSink{opts: opts}
}

// Upload implements device.Sink. ctx must be current on the calling thread.
func (s *GLSink) Upload(ctx device.Context, img *image.NRGBA) (device.Texture, error) {
	if ctx == nil || !ctx.Current() {
		return device.Texture{}, device.ErrNoContext
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return device.Texture{}, device.ErrEmptyImage
	}
	if img.Stride != w*4 {
		tight := image.NewNRGBA(image.Rect(0, 0, w, h))
		copy(tight.Pix, tightRows(img))
		img = tight
	}

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(w), int32(h),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	minFilter := glFilter(s.opts.MinFilter)
	if s.opts.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		minFilter = gl.NEAREST_MIPMAP_LINEAR
		if s.opts.MinFilter == FilterLinear {
			minFilter = gl.LINEAR_MIPMAP_LINEAR
		}
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(s.opts.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteTextures(1, &texID)
		return device.Texture{}, fmt.Errorf("device: texture upload failed: GL error 0x%x", errCode)
	}

	return device.Texture{ID: texID, Width: w, Height: h}, nil
}

// Delete frees a texture created by Upload.
func (s *GLSink) Delete(t device.Texture) {
	if t.ID != 0 {
		gl.DeleteTextures(1, &t.ID)
	}
}

func glFilter(f Filter) int32 {
	if f == FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

// tightRows returns the pixel rows of img without stride padding.
func tightRows(img *image.NRGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := make([]byte, 0, w*h*4)
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		i := img.PixOffset(img.Rect.Min.X, y)
		out = append(out, img.Pix[i:i+w*4]...)
	}
	return out
}
