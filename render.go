package wirecraft

import (
	"image/color"
	"sort"
)

// Canvas is a drawing surface. Coordinates are pixels with the origin at the
// top left.
type Canvas interface {
	Size() (width, height int)
	Clear(clr color.Color)
	Line(x0, y0, x1, y1, width float64, clr color.Color)
	Disc(cx, cy, radius float64, clr color.Color)
}

const (
	crosshairSize  = 10.0
	crosshairWidth = 2.0
)

// Renderer draws points and edges back to front.
type Renderer struct {
	Background  color.NRGBA
	PointColor  color.NRGBA
	EdgeColor   color.NRGBA
	PointRadius float64
	LineWidth   float64
	ShowPoints  bool
	ShowEdges   bool

	camPoints []Vector3
	projected []ScreenPoint
	order     []int
}

func NewRenderer() *Renderer {
	return &Renderer{
		Background:  color.NRGBA{A: 255},
		PointColor:  color.NRGBA{B: 255, A: 255},
		EdgeColor:   color.NRGBA{G: 255, A: 153},
		PointRadius: 8,
		LineWidth:   2,
		ShowPoints:  true,
		ShowEdges:   true,
	}
}

// RenderStats counts what a frame actually drew.
type RenderStats struct {
	Points  int
	Edges   int
	Skipped int
}

// Render clears the canvas and draws the scene as seen by cam. It can be
// called any number of times with the same state; an empty point list only
// clears.
func (r *Renderer) Render(canvas Canvas, cam *Camera, points []Point, edges []Edge, crosshair bool) RenderStats {
	var stats RenderStats
	width, height := canvas.Size()
	canvas.Clear(r.Background)
	if width <= 0 || height <= 0 {
		return stats
	}

	if len(points) > 0 {
		stats = r.paintObjects(canvas, cam, NewProjector(width, height, cam.FOV()), points, edges)
	}

	if crosshair {
		cx, cy := float64(width)/2, float64(height)/2
		white := color.NRGBA{255, 255, 255, 255}
		canvas.Line(cx-crosshairSize, cy, cx+crosshairSize, cy, crosshairWidth, white)
		canvas.Line(cx, cy-crosshairSize, cx, cy+crosshairSize, crosshairWidth, white)
	}
	return stats
}

func (r *Renderer) paintObjects(canvas Canvas, cam *Camera, proj Projector, points []Point, edges []Edge) RenderStats {
	var stats RenderStats

	view := cam.GetCameraMatrix()
	r.camPoints = view.TransformPoints(points, r.camPoints)

	r.projected = r.projected[:0]
	r.order = r.order[:0]
	for i, p := range r.camPoints {
		r.projected = append(r.projected, proj.Project(p))
		r.order = append(r.order, i)
	}

	// farthest first so nearer points land on top
	sort.Slice(r.order, func(i, j int) bool {
		return r.projected[r.order[i]].Depth > r.projected[r.order[j]].Depth
	})

	if r.ShowEdges {
		for _, e := range edges {
			if !e.Valid(len(r.projected)) {
				stats.Skipped++
				continue
			}
			p1, p2 := r.projected[e[0]], r.projected[e[1]]
			if !p1.Ok || !p2.Ok {
				stats.Skipped++
				continue
			}
			canvas.Line(p1.X, p1.Y, p2.X, p2.Y, r.LineWidth, r.EdgeColor)
			stats.Edges++
		}
	}

	if r.ShowPoints {
		for _, idx := range r.order {
			p := r.projected[idx]
			if !p.Ok {
				stats.Skipped++
				continue
			}
			canvas.Disc(p.X, p.Y, r.PointRadius, r.PointColor)
			stats.Points++
		}
	}
	return stats
}
