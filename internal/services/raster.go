package services

import (
	"image"
)

// EncodeRaster builds a complete ESC/POS job for img scaled to width dots:
// init, GS v 0 raster, feed and partial cut.
func EncodeRaster(img image.Image, width int) []byte {
	if width > 0 && img.Bounds().Dx() != width {
		img = resizeToWidth(img, width)
	}

	var printJob []byte

	// Initialize printer
	printJob = append(printJob, 0x1B, 0x40) // ESC @

	printJob = append(printJob, convertImageToESCPOS(img)...)

	printJob = append(printJob, 0x1B, 0x64, 0x03)       // ESC d 3 - feed 3 lines
	printJob = append(printJob, 0x1D, 0x56, 0x41, 0x00) // GS V A 0 - partial cut

	return printJob
}

// maxRasterDots is the largest value a GS v 0 header field can carry.
const maxRasterDots = 0xFFFF

// convertImageToESCPOS emits img as GS v 0 bands. Images taller than one
// header can describe are split into several bands.
func convertImageToESCPOS(img image.Image) []byte {
	bounds := img.Bounds()
	width := min(bounds.Dx(), maxRasterDots*8)
	height := bounds.Dy()

	// ESC/POS width must be divisible by 8
	width -= width % 8

	rowBytes := width / 8
	raster := make([]byte, rowBytes*height)

	// Convert to 1-bit
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			gray := (r + g + b) / 3
			if gray < 0x8000 { // threshold
				raster[y*rowBytes+x/8] |= 1 << (7 - x%8)
			}
		}
	}

	var out []byte
	for top := 0; top < height; top += maxRasterDots {
		band := min(maxRasterDots, height-top)
		// GS v 0, normal density, little-endian width bytes and height dots
		out = append(out,
			0x1D, 0x76, 0x30, 0x00,
			byte(rowBytes), byte(rowBytes>>8),
			byte(band), byte(band>>8),
		)
		out = append(out, raster[top*rowBytes:(top+band)*rowBytes]...)
	}
	return out
}

// nearest-neighbour scale preserving aspect ratio
func resizeToWidth(src image.Image, targetWidth int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w == 0 || h == 0 {
		return image.NewRGBA(image.Rect(0, 0, targetWidth, 0))
	}

	scale := float64(targetWidth) / float64(w)
	newHeight := int(float64(h) * scale)

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, newHeight))
	for y := 0; y < newHeight; y++ {
		for x := 0; x < targetWidth; x++ {
			sx := bounds.Min.X + int(float64(x)/scale)
			sy := bounds.Min.Y + int(float64(y)/scale)
			dst.Set(x, y, src.At(sx, sy))
		}
	}

	return dst
}
