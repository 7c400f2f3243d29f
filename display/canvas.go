package display

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/smasonuk/wirecraft"
)

// imageCanvas adapts an ebiten image to wirecraft.Canvas.
type imageCanvas struct {
	img *ebiten.Image
}

func (c imageCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c imageCanvas) Clear(clr color.Color) {
	c.img.Fill(clr)
}

func (c imageCanvas) Line(x0, y0, x1, y1, width float64, clr color.Color) {
	w, h := c.Size()
	pad := width + 1
	x0, y0, x1, y1, ok := wirecraft.ClipSegment(x0, y0, x1, y1, -pad, -pad, float64(w)+pad, float64(h)+pad)
	if !ok {
		return
	}
	vector.StrokeLine(c.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), clr, true)
}

func (c imageCanvas) Disc(cx, cy, radius float64, clr color.Color) {
	w, h := c.Size()
	if cx+radius < 0 || cy+radius < 0 || cx-radius > float64(w) || cy-radius > float64(h) {
		return
	}
	vector.DrawFilledCircle(c.img, float32(cx), float32(cy), float32(radius), clr, true)
}
