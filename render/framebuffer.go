// Package render rasterizes the scene into a pixel framebuffer and presents it
// on a terminal, two pixels per cell using upper half-block glyphs.
package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit colour
type RGB struct {
	R, G, B uint8
}

// FromColorful converts a [0,1] colour, clamping out-of-gamut channels
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// Framebuffer holds colour and depth per pixel, row-major
type Framebuffer struct {
	W, H  int
	Color []RGB
	Depth []float64
}

// NewFramebuffer allocates a w×h buffer
func NewFramebuffer(w, h int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(w, h)
	return fb
}

// Resize reallocates only when the pixel count grows
func (fb *Framebuffer) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	n := w * h
	if cap(fb.Color) < n {
		fb.Color = make([]RGB, n)
		fb.Depth = make([]float64, n)
	}
	fb.Color = fb.Color[:n]
	fb.Depth = fb.Depth[:n]
	fb.W, fb.H = w, h
}

// Clear fills colour with bg and resets depth to the far plane
func (fb *Framebuffer) Clear(bg RGB) {
	for i := range fb.Color {
		fb.Color[i] = bg
		fb.Depth[i] = math.Inf(1)
	}
}

// At returns the colour at (x, y); out-of-range reads return black
func (fb *Framebuffer) At(x, y int) RGB {
	if x < 0 || y < 0 || x >= fb.W || y >= fb.H {
		return RGB{}
	}
	return fb.Color[y*fb.W+x]
}
