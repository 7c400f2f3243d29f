package wirecraft

import (
	"errors"
	"fmt"
	"math"
)

const (
	GridSize          = 100.0
	DefaultFOV        = 60.0
	rollSnapThreshold = 0.1
	resetRollDotLimit = 0.99
	gimbalEpsilon     = 1e-9
)

var ErrDegenerateOrientation = errors.New("degenerate camera orientation")

// Camera is a position, a vertical field of view in degrees and an
// orthonormal forward/right/up basis.
type Camera struct {
	position Vector3
	fov      float64
	forward  Vector3
	right    Vector3
	up       Vector3
}

// NewCamera places a camera at (x, y, z) looking down +Z with +Y up.
func NewCamera(x, y, z float64) *Camera {
	c := &Camera{
		position: Vector3{x, y, z},
		fov:      DefaultFOV,
		forward:  Vector3{0, 0, 1},
		up:       worldUp,
	}
	c.Orthonormalize()
	return c
}

func (c *Camera) GetPosition() Vector3 {
	return c.position
}

func (c *Camera) FOV() float64 {
	return c.fov
}

func (c *Camera) Forward() Vector3 {
	return c.forward
}

func (c *Camera) Right() Vector3 {
	return c.right
}

func (c *Camera) Up() Vector3 {
	return c.up
}

func (c *Camera) SetCameraPosition(x, y, z float64) {
	c.position = Vector3{x, y, z}
}

// SetOrientation points the camera along forward, keeping up as close to the
// given up as possible.
func (c *Camera) SetOrientation(forward, up Vector3) error {
	if forward.Len() == 0 || Cross(forward, up).Len() < 1e-9 {
		return fmt.Errorf("%w: forward %v up %v", ErrDegenerateOrientation, forward, up)
	}
	c.forward = forward
	c.up = up
	c.Orthonormalize()
	return nil
}

// SetFOV sets the vertical field of view in degrees.
func (c *Camera) SetFOV(fov float64) error {
	if !isFinite(fov) || fov <= 0 || fov >= 180 {
		return fmt.Errorf("field of view %v out of range (0, 180)", fov)
	}
	c.fov = fov
	return nil
}

// Orthonormalize re-derives right and up from forward. The order matters:
// forward is kept, right follows from forward x up, up from right x forward.
func (c *Camera) Orthonormalize() {
	c.forward = Normalize(c.forward)
	c.right = Normalize(Cross(c.forward, c.up))
	c.up = Normalize(Cross(c.right, c.forward))
}

// AddAngle rotates the camera around its own axes. yaw turns around up,
// pitch around right and roll around forward; all in degrees.
func (c *Camera) AddAngle(yaw, pitch, roll float64) {
	if yaw != 0 {
		c.forward = RotateAroundAxis(c.forward, c.up, yaw)
		c.right = RotateAroundAxis(c.right, c.up, yaw)
	}
	if pitch != 0 {
		c.forward = RotateAroundAxis(c.forward, c.right, pitch)
		c.up = RotateAroundAxis(c.up, c.right, pitch)
	}
	if roll != 0 {
		c.right = RotateAroundAxis(c.right, c.forward, roll)
		c.up = RotateAroundAxis(c.up, c.forward, roll)
	}
	c.Orthonormalize()
}

// AddQuarterTurn rotates the whole basis by turns * 90 degrees around a
// world axis.
func (c *Camera) AddQuarterTurn(axis int, turns int) {
	c.forward = rotateQuarter(c.forward, axis, turns)
	c.right = rotateQuarter(c.right, axis, turns)
	c.up = rotateQuarter(c.up, axis, turns)
	c.Orthonormalize()
}

// Look applies a mouselook step: yaw around world up, then pitch around the
// yawed right axis. Angles are in degrees. The basis is not re-orthonormalized
// here.
func (c *Camera) Look(yaw, pitch float64) {
	c.forward = RotateAroundAxis(c.forward, worldUp, yaw)
	c.right = RotateAroundAxis(c.right, worldUp, yaw)
	c.up = RotateAroundAxis(c.up, worldUp, yaw)

	c.forward = RotateAroundAxis(c.forward, c.right, pitch)
	c.up = RotateAroundAxis(c.up, c.right, pitch)
}

// ResetRoll levels the camera: forward is kept and up is brought as close to
// world up as possible.
func (c *Camera) ResetRoll() {
	c.forward = Normalize(c.forward)
	if math.Abs(Dot(c.forward, worldUp)) > resetRollDotLimit {
		c.right = Normalize(Cross(referenceFwd, c.forward))
	} else {
		c.right = Normalize(Cross(c.forward, worldUp))
	}
	c.up = Normalize(Cross(c.right, c.forward))
}

// Move translates the camera along its own basis.
func (c *Camera) Move(forward, right, up float64) {
	c.position = c.position.
		Add(c.forward.Mul(forward)).
		Add(c.right.Mul(right)).
		Add(c.up.Mul(up))
}

// LevelDirections returns forward and right flattened onto the horizontal
// plane. Either may be zero when the camera looks straight up or down.
func (c *Camera) LevelDirections() (Vector3, Vector3) {
	f := Normalize(Vector3{c.forward.X(), 0, c.forward.Z()})
	r := Normalize(Vector3{c.right.X(), 0, c.right.Z()})
	return f, r
}

// EulerAngles extracts yaw, pitch and roll in degrees from the basis.
// Looking straight up or down, yaw and roll turn around the same axis, so the
// heading is read from right and roll is reported as zero.
func (c *Camera) EulerAngles() (yaw, pitch, roll float64) {
	pitch = radiansToDegrees(math.Asin(clampUnit(-c.forward.Y())))
	if math.Abs(c.forward.Y()) > 1-gimbalEpsilon {
		yaw = radiansToDegrees(math.Atan2(c.right.Z(), -c.right.X()))
		return yaw, pitch, 0
	}
	yaw = radiansToDegrees(math.Atan2(c.forward.X(), c.forward.Z()))
	roll = radiansToDegrees(math.Atan2(c.right.Y(), c.up.Y()))
	return yaw, pitch, roll
}

// SetEulerAngles rebuilds the basis from yaw, pitch and roll in degrees.
func (c *Camera) SetEulerAngles(yaw, pitch, roll float64) {
	sy, cy := quarterSinCos(yaw)
	sp, cp := quarterSinCos(pitch)

	c.forward = Vector3{sy * cp, -sp, cy * cp}
	c.right = Vector3{-cy, 0, sy}
	c.up = Cross(c.right, c.forward)

	if math.Abs(roll) > rollSnapThreshold {
		sr, cr := quarterSinCos(roll)
		right := c.right.Mul(cr).Add(c.up.Mul(sr))
		up := c.up.Mul(cr).Sub(c.right.Mul(sr))
		c.right, c.up = right, up
	}
}

// SnapToGrid rounds the position to the nearest grid cell corner and the
// orientation to the nearest 90 degrees per Euler angle.
func (c *Camera) SnapToGrid() {
	c.position = Vector3{
		snapToGrid(c.position.X()),
		snapToGrid(c.position.Y()),
		snapToGrid(c.position.Z()),
	}

	yaw, pitch, roll := c.EulerAngles()
	c.SetEulerAngles(roundToQuarter(yaw), roundToQuarter(pitch), roundToQuarter(roll))
}

func snapToGrid(v float64) float64 {
	return math.Round(v/GridSize) * GridSize
}

func roundToQuarter(deg float64) float64 {
	r := math.Round(deg/90) * 90
	if r == 0 {
		// avoid -0 leaking into the basis
		return 0
	}
	return r
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
