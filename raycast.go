package wirecraft

import (
	"math"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vector3
	empty    bool
}

func NewAABB(lo, hi Vector3) AABB {
	return AABB{Min: lo, Max: hi}
}

func (b AABB) Empty() bool {
	return b.empty
}

func (b AABB) Translate(offset Vector3) AABB {
	return AABB{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Expand grows the box by d on every side.
func (b AABB) Expand(d float64) AABB {
	pad := Vector3{d, d, d}
	return AABB{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}

// ContainsStrict reports whether p lies strictly inside the box; points on
// a face are outside.
func (b AABB) ContainsStrict(p Vector3) bool {
	for i := 0; i < 3; i++ {
		if p[i] <= b.Min[i] || p[i] >= b.Max[i] {
			return false
		}
	}
	return true
}

// Ray is a half-line from Origin along the unit vector Dir.
type Ray struct {
	Origin Vector3
	Dir    Vector3
}

func NewRay(origin, dir Vector3) Ray {
	return Ray{Origin: origin, Dir: Normalize(dir)}
}

func (r Ray) At(t float64) Vector3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Intersect runs the slab test. It returns the entry and exit distances
// along the ray; ok is false when the ray misses or the box is behind it.
func (b AABB) Intersect(r Ray) (tNear, tFar float64, ok bool) {
	if b.empty {
		return 0, 0, false
	}
	tNear, tFar = math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		o, d := r.Origin[i], r.Dir[i]
		if d == 0 {
			// parallel to this slab: inside it for all t, or never
			if o < b.Min[i] || o > b.Max[i] {
				return 0, 0, false
			}
			continue
		}
		t1 := (b.Min[i] - o) / d
		t2 := (b.Max[i] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)
	}
	if !isFinite(tNear) || !isFinite(tFar) {
		return 0, 0, false
	}
	if tNear > tFar || tFar < 0 {
		return 0, 0, false
	}
	return tNear, tFar, true
}

// Hit is the nearest structure struck by a ray.
type Hit struct {
	Key      GridKey
	Distance float64
	Point    Vector3
}

// Raycast finds the occupied cell whose box the ray enters first. A ray
// starting inside a box reports the exit distance for that box.
func (w *World) Raycast(r Ray) (Hit, bool) {
	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, key := range w.order {
		box, ok := w.CellBounds(key)
		if !ok {
			continue
		}
		tNear, tFar, ok := box.Intersect(r)
		if !ok {
			continue
		}
		dist := tFar
		if tNear > 0 {
			dist = tNear
		}
		if dist < best.Distance {
			best = Hit{Key: key, Distance: dist, Point: r.At(dist)}
			found = true
		}
	}
	return best, found
}

// cellFace is one side of a grid cell. correction is added after rounding
// the face centre to grid units; rounding is half-up, so the centre of a
// negative face lands on the hit cell itself and needs one more step back.
type cellFace struct {
	normal     [3]int
	correction [3]int
}

var cellFaces = [6]cellFace{
	{normal: [3]int{1, 0, 0}},
	{normal: [3]int{-1, 0, 0}, correction: [3]int{-1, 0, 0}},
	{normal: [3]int{0, 1, 0}},
	{normal: [3]int{0, -1, 0}, correction: [3]int{0, -1, 0}},
	{normal: [3]int{0, 0, 1}},
	{normal: [3]int{0, 0, -1}, correction: [3]int{0, 0, -1}},
}

// NearestFace returns the index into cellFaces of the face of key's cell
// whose centre is closest to p. Cells are treated as GridSize cubes centred
// on their origin.
func NearestFace(key GridKey, p Vector3) int {
	center := key.Origin()
	best, bestDist := 0, math.Inf(1)
	for i, f := range cellFaces {
		fc := faceCenter(center, f)
		if d := fc.Sub(p).Len(); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func faceCenter(center Vector3, f cellFace) Vector3 {
	half := GridSize / 2
	return center.Add(Vector3{
		float64(f.normal[0]) * half,
		float64(f.normal[1]) * half,
		float64(f.normal[2]) * half,
	})
}

// AdjacentCell is the cell on the other side of the hit face.
func AdjacentCell(hit Hit) GridKey {
	f := cellFaces[NearestFace(hit.Key, hit.Point)]
	fc := faceCenter(hit.Key.Origin(), f)
	return GridKey{
		roundHalfUp(fc.X()/GridSize) + f.correction[0],
		roundHalfUp(fc.Y()/GridSize) + f.correction[1],
		roundHalfUp(fc.Z()/GridSize) + f.correction[2],
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
