package wirecraft

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidTemplate = errors.New("invalid structure template")

// Template is a reusable point/edge structure in its own local frame.
// Templates are immutable once built.
type Template struct {
	name   string
	points []Point
	edges  []Edge
	bounds AABB
}

// NewTemplate validates the edge indices and precomputes the local bounds.
func NewTemplate(name string, points []Point, edges []Edge) (*Template, error) {
	for i, p := range points {
		if !isFinite(p.X()) || !isFinite(p.Y()) || !isFinite(p.Z()) {
			return nil, fmt.Errorf("%w %q: point %d is not finite", ErrInvalidTemplate, name, i)
		}
	}
	for i, e := range edges {
		if !e.Valid(len(points)) {
			return nil, fmt.Errorf("%w %q: edge %d %v out of range for %d points", ErrInvalidTemplate, name, i, e, len(points))
		}
	}

	t := &Template{
		name:   name,
		points: append([]Point(nil), points...),
		edges:  append([]Edge(nil), edges...),
	}
	t.bounds = boundsOf(t.points)
	return t, nil
}

func (t *Template) Name() string {
	return t.name
}

// Points returns a copy of the local points.
func (t *Template) Points() []Point {
	return append([]Point(nil), t.points...)
}

// Edges returns a copy of the local edges.
func (t *Template) Edges() []Edge {
	return append([]Edge(nil), t.edges...)
}

func (t *Template) PointCount() int {
	return len(t.points)
}

func (t *Template) EdgeCount() int {
	return len(t.edges)
}

// Bounds is the local axis-aligned box around the points. Empty templates
// report an empty box.
func (t *Template) Bounds() AABB {
	return t.bounds
}

func boundsOf(points []Point) AABB {
	if len(points) == 0 {
		return AABB{empty: true}
	}
	lo := Vector3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := Vector3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range points {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	return AABB{Min: lo, Max: hi}
}

// NewCubeTemplate builds the standard cube of the given edge length centred on
// the origin: 8 corners and 12 edges.
func NewCubeTemplate(name string, size float64) *Template {
	s := size / 2
	points := []Point{
		{-s, -s, -s}, {-s, -s, s}, {-s, s, -s}, {-s, s, s},
		{s, -s, -s}, {s, -s, s}, {s, s, -s}, {s, s, s},
	}
	edges := []Edge{
		{0, 1}, {1, 3}, {3, 2}, {2, 0}, // back face
		{4, 5}, {5, 7}, {7, 6}, {6, 4}, // front face
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // connecting edges
	}
	t, _ := NewTemplate(name, points, edges)
	return t
}
