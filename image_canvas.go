package wirecraft

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

const discSegments = 24

// ImageCanvas draws into an *image.RGBA with an anti-aliasing rasterizer.
// It backs offscreen snapshots and tests that cannot open a window.
type ImageCanvas struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

func NewImageCanvas(width, height int) *ImageCanvas {
	return &ImageCanvas{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		z:   vector.NewRasterizer(width, height),
	}
}

func (c *ImageCanvas) Image() *image.RGBA {
	return c.img
}

func (c *ImageCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *ImageCanvas) Clear(clr color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(clr), image.Point{}, draw.Src)
}

// Line strokes a segment as a quad. The segment is clipped to the canvas
// first because the rasterizer walks every scanline between the endpoints.
func (c *ImageCanvas) Line(x0, y0, x1, y1, width float64, clr color.Color) {
	w, h := c.Size()
	pad := width + 1
	x0, y0, x1, y1, ok := ClipSegment(x0, y0, x1, y1, -pad, -pad, float64(w)+pad, float64(h)+pad)
	if !ok {
		return
	}
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		c.Disc(x0, y0, width/2, clr)
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2

	c.z.Reset(w, h)
	c.z.MoveTo(float32(x0+nx), float32(y0+ny))
	c.z.LineTo(float32(x1+nx), float32(y1+ny))
	c.z.LineTo(float32(x1-nx), float32(y1-ny))
	c.z.LineTo(float32(x0-nx), float32(y0-ny))
	c.z.ClosePath()
	c.fill(clr)
}

func (c *ImageCanvas) Disc(cx, cy, radius float64, clr color.Color) {
	w, h := c.Size()
	if radius <= 0 || cx+radius < 0 || cy+radius < 0 || cx-radius > float64(w) || cy-radius > float64(h) {
		return
	}
	c.z.Reset(w, h)
	c.z.MoveTo(float32(cx+radius), float32(cy))
	for i := 1; i < discSegments; i++ {
		a := 2 * math.Pi * float64(i) / discSegments
		c.z.LineTo(float32(cx+radius*math.Cos(a)), float32(cy+radius*math.Sin(a)))
	}
	c.z.ClosePath()
	c.fill(clr)
}

func (c *ImageCanvas) fill(clr color.Color) {
	c.z.Draw(c.img, c.img.Bounds(), image.NewUniform(clr), image.Point{})
}

// ClipSegment clips a segment with Liang-Barsky against the rectangle [minX,maxX]x[minY,maxY].
func ClipSegment(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	edges := [4][2]float64{
		{-dx, x0 - minX},
		{dx, maxX - x0},
		{-dy, y0 - minY},
		{dy, maxY - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
