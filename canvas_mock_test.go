package wirecraft

import "image/color"

type drawnLine struct {
	x0, y0, x1, y1, width float64
	clr                   color.Color
}

type drawnDisc struct {
	cx, cy, radius float64
	clr            color.Color
}

// recordingCanvas is a Canvas that remembers what was drawn on it.
type recordingCanvas struct {
	width, height int
	clears        []color.Color
	lines         []drawnLine
	discs         []drawnDisc
}

func newRecordingCanvas(w, h int) *recordingCanvas {
	return &recordingCanvas{width: w, height: h}
}

func (c *recordingCanvas) Size() (int, int) { return c.width, c.height }

func (c *recordingCanvas) Clear(clr color.Color) {
	c.clears = append(c.clears, clr)
	c.lines = nil
	c.discs = nil
}

func (c *recordingCanvas) Line(x0, y0, x1, y1, width float64, clr color.Color) {
	c.lines = append(c.lines, drawnLine{x0, y0, x1, y1, width, clr})
}

func (c *recordingCanvas) Disc(cx, cy, radius float64, clr color.Color) {
	c.discs = append(c.discs, drawnDisc{cx, cy, radius, clr})
}
