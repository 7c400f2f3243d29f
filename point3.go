package wirecraft

// Point is a position in world (or structure-local) space.
type Point = Vector3

// Edge joins two points by their index in the current point list.
type Edge [2]int

func NewPoint3d(x, y, z float64) Point {
	return Point{x, y, z}
}

// Offset returns the edge with both indices shifted by n.
func (e Edge) Offset(n int) Edge {
	return Edge{e[0] + n, e[1] + n}
}

// Valid reports whether both indices address a list of count points.
func (e Edge) Valid(count int) bool {
	return e[0] >= 0 && e[1] >= 0 && e[0] < count && e[1] < count
}
