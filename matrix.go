package wirecraft

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ViewMatrix maps world points into camera space. Its rows are the camera's
// right, up and forward vectors, i.e. the transpose of the camera's world
// orientation.
type ViewMatrix struct {
	rotation mgl64.Mat3
	origin   Vector3
}

// GetCameraMatrix returns the world-to-camera transform for the current
// camera state.
func (c *Camera) GetCameraMatrix() ViewMatrix {
	return ViewMatrix{
		rotation: mgl64.Mat3FromRows(c.right, c.up, c.forward),
		origin:   c.position,
	}
}

// Transform returns p in camera space: x right, y up, z depth along forward.
func (m ViewMatrix) Transform(p Point) Vector3 {
	return m.rotation.Mul3x1(p.Sub(m.origin))
}

// TransformPoints transforms every point into dest, growing it as needed.
func (m ViewMatrix) TransformPoints(src []Point, dest []Vector3) []Vector3 {
	dest = dest[:0]
	for _, p := range src {
		dest = append(dest, m.Transform(p))
	}
	return dest
}
