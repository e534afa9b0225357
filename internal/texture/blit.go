package texture

import "image"

// Blit copies the sr rectangle of src into dst with its top-left corner at dp.
// Pixel bytes are copied verbatim, row by row, clipped to both images.
func Blit(dst *image.NRGBA, dp image.Point, src *image.NRGBA, sr image.Rectangle) {
	origin := sr.Min
	dr := sr.Sub(origin).Add(dp).Intersect(dst.Rect)
	sr = dr.Sub(dp).Add(origin).Intersect(src.Rect)
	if sr.Empty() {
		return
	}
	dr = sr.Sub(origin).Add(dp)
	rowBytes := sr.Dx() * 4
	for y := 0; y < sr.Dy(); y++ {
		d := dst.PixOffset(dr.Min.X, dr.Min.Y+y)
		s := src.PixOffset(sr.Min.X, sr.Min.Y+y)
		copy(dst.Pix[d:d+rowBytes], src.Pix[s:s+rowBytes])
	}
}
