// Package device defines the hand-off of finished atlas buffers to the
// graphics device.
package device

import (
	"errors"
	"image"
)

var (
	// ErrNoContext is returned when an upload is attempted without a live
	// device context.
	ErrNoContext = errors.New("device: no active context")

	// ErrEmptyImage is returned for nil or zero-sized buffers.
	ErrEmptyImage = errors.New("device: empty image")
)

// Texture is a device-resident texture handle.
type Texture struct {
	ID     uint32
	Width  int
	Height int
}

// Context is a graphics context uploads are issued against.
type Context interface {
	// Current reports whether the context is usable from the calling thread.
	Current() bool
}

// Sink turns a pixel buffer into a device texture.
type Sink interface {
	Upload(ctx Context, img *image.NRGBA) (Texture, error)
}

// Upload checks img and ctx, then hands img to sink.
func Upload(ctx Context, sink Sink, img *image.NRGBA) (Texture, error) {
	if img == nil || img.Rect.Empty() {
		return Texture{}, ErrEmptyImage
	}
	if ctx == nil || !ctx.Current() {
		return Texture{}, ErrNoContext
	}
	return sink.Upload(ctx, img)
}
