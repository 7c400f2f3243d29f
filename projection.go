package wirecraft

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// minDepth keeps points on or behind the camera plane from dividing by zero.
const minDepth = 1e-4

// Projector is a pinhole camera onto a width x height pixel surface.
type Projector struct {
	Width  float64
	Height float64
	FOV    float64 // vertical, degrees
}

func NewProjector(width, height int, fov float64) Projector {
	return Projector{Width: float64(width), Height: float64(height), FOV: fov}
}

// FocalLength is the distance in pixels from the eye to the image plane.
func (p Projector) FocalLength() float64 {
	return (p.Height / 2) / math.Tan(degreesToRadians(p.FOV)/2)
}

// ProjectCameraSpace maps a camera-space point to normalized device
// coordinates and returns the clamped depth alongside.
func (p Projector) ProjectCameraSpace(cam Vector3) (mgl64.Vec2, float64) {
	z := math.Max(cam.Z(), minDepth)
	focal := p.FocalLength()
	ndc := mgl64.Vec2{
		cam.X() * focal / z / (p.Width / 2),
		cam.Y() * focal / z / (p.Height / 2),
	}
	return ndc, z
}

// Screen maps NDC in [-1, 1] to pixels with y growing downwards.
func (p Projector) Screen(ndc mgl64.Vec2) (float64, float64) {
	x := (ndc.X() + 1) / 2 * p.Width
	y := (1 - (ndc.Y()+1)/2) * p.Height
	return x, y
}

// ScreenPoint is a projected point ready for drawing.
type ScreenPoint struct {
	X, Y  float64
	Depth float64
	Ok    bool // false when the pixel coordinates are not finite
}

// Project runs a camera-space point through ProjectCameraSpace and Screen.
func (p Projector) Project(cam Vector3) ScreenPoint {
	ndc, depth := p.ProjectCameraSpace(cam)
	x, y := p.Screen(ndc)
	return ScreenPoint{X: x, Y: y, Depth: depth, Ok: isFinite(x) && isFinite(y)}
}
