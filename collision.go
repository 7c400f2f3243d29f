package wirecraft

// PlayerRadius is the clearance kept between the camera and any structure
// while moving in interactive mode.
const PlayerRadius = 20.0

// Collides reports whether p is strictly inside any occupied cell's box
// grown by radius. Every cell is checked.
func (w *World) Collides(p Vector3, radius float64) bool {
	for _, key := range w.order {
		box, ok := w.CellBounds(key)
		if !ok {
			continue
		}
		if box.Expand(radius).ContainsStrict(p) {
			return true
		}
	}
	return false
}

// MoveWithCollision applies each movement group to pos in turn, dropping a
// group whose result would collide. A position that already collides gets
// every group applied so the camera can escape.
func (w *World) MoveWithCollision(pos Vector3, groups []Vector3, radius float64) Vector3 {
	if w.Collides(pos, radius) {
		for _, d := range groups {
			pos = pos.Add(d)
		}
		return pos
	}
	for _, d := range groups {
		if d.Len() == 0 {
			continue
		}
		candidate := pos.Add(d)
		if !w.Collides(candidate, radius) {
			pos = candidate
		}
	}
	return pos
}
