package wirecraft

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector3 is the vector type used throughout the viewer.
type Vector3 = mgl64.Vec3

var (
	worldUp      = Vector3{0, 1, 0}
	referenceFwd = Vector3{0, 0, 1}
)

// world axes for quarter turns
const (
	AxisX = iota
	AxisY
	AxisZ
)

func NewVector3(x, y, z float64) Vector3 {
	return Vector3{x, y, z}
}

// Normalize returns v scaled to unit length. A zero vector is returned as is.
func Normalize(v Vector3) Vector3 {
	length := math.Sqrt(v.X()*v.X() + v.Y()*v.Y() + v.Z()*v.Z())
	if length == 0 {
		length = 1
	}
	return Vector3{v.X() / length, v.Y() / length, v.Z() / length}
}

func Cross(a, b Vector3) Vector3 {
	return Vector3{
		a.Y()*b.Z() - a.Z()*b.Y(),
		a.Z()*b.X() - a.X()*b.Z(),
		a.X()*b.Y() - a.Y()*b.X(),
	}
}

func Dot(a, b Vector3) float64 {
	return a.X()*b.X() + a.Y()*b.Y() + a.Z()*b.Z()
}

// RotateAroundAxis rotates v around axis by angle degrees using Rodrigues'
// formula. axis must already be unit length.
func RotateAroundAxis(v, axis Vector3, angle float64) Vector3 {
	theta := degreesToRadians(angle)
	cos, sin := math.Cos(theta), math.Sin(theta)

	return v.Mul(cos).
		Add(Cross(axis, v).Mul(sin)).
		Add(axis.Mul(Dot(axis, v) * (1 - cos)))
}

// rotateQuarter turns v by 90 degrees per turn around a world axis. The
// result is exact: components are only permuted and negated.
func rotateQuarter(v Vector3, axis int, turns int) Vector3 {
	turns = ((turns % 4) + 4) % 4
	for i := 0; i < turns; i++ {
		x, y, z := v.X(), v.Y(), v.Z()
		switch axis {
		case AxisX:
			v = Vector3{x, -z, y}
		case AxisY:
			v = Vector3{z, y, -x}
		case AxisZ:
			v = Vector3{-y, x, z}
		}
	}
	return v
}

func degreesToRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

func radiansToDegrees(radians float64) float64 {
	return radians * (180 / math.Pi)
}

// quarterSinCos returns exact sine and cosine for multiples of 90 degrees and
// falls back to math.Sincos otherwise.
func quarterSinCos(degrees float64) (float64, float64) {
	if q := degrees / 90; q == math.Trunc(q) {
		switch ((int(q) % 4) + 4) % 4 {
		case 0:
			return 0, 1
		case 1:
			return 1, 0
		case 2:
			return 0, -1
		case 3:
			return -1, 0
		}
	}
	return math.Sincos(degreesToRadians(degrees))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
