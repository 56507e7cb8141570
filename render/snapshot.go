package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Image copies the framebuffer into an RGBA image
func (fb *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.W, fb.H))
	for y := 0; y < fb.H; y++ {
		for x := 0; x < fb.W; x++ {
			c := fb.Color[y*fb.W+x]
			img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return img
}

// captionHeight is the strip below the image reserved for text
const captionHeight = 18

// WritePNG encodes fb upscaled by scale with an optional caption strip
func WritePNG(w io.Writer, fb *Framebuffer, scale int, caption string) error {
	if fb.W == 0 || fb.H == 0 {
		return fmt.Errorf("empty framebuffer")
	}
	scale = max(scale, 1)

	src := fb.Image()
	imgH := fb.H * scale
	outH := imgH
	if caption != "" {
		outH += captionHeight
	}
	dst := image.NewRGBA(image.Rect(0, 0, fb.W*scale, outH))

	// Pixels stay crisp, the terminal look is the point
	draw.NearestNeighbor.Scale(dst, image.Rect(0, 0, fb.W*scale, imgH), src, src.Bounds(), draw.Src, nil)

	if caption != "" {
		strip := image.Rect(0, imgH, dst.Bounds().Dx(), outH)
		draw.Draw(dst, strip, image.NewUniform(color.RGBA{R: 20, G: 24, B: 32, A: 255}), image.Point{}, draw.Src)

		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(color.RGBA{R: 200, G: 200, B: 210, A: 255}),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(4, imgH+13),
		}
		d.DrawString(caption)
	}

	return png.Encode(w, dst)
}

// SaveSnapshot writes a timestamped PNG into dir and returns its path
func SaveSnapshot(dir string, fb *Framebuffer, scale int, caption string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("floating-isle-%s.png", now.Format("20060102-150405.000")))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WritePNG(f, fb, scale, caption); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
