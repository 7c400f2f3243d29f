package wirecraft

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedKey = errors.New("malformed world position key")

// GridKey addresses one cell of the world grid.
type GridKey struct {
	X, Y, Z int
}

// String renders the canonical "x,y,z" form.
func (k GridKey) String() string {
	return strconv.Itoa(k.X) + "," + strconv.Itoa(k.Y) + "," + strconv.Itoa(k.Z)
}

// Origin is the world position of the cell's local origin.
func (k GridKey) Origin() Vector3 {
	return Vector3{float64(k.X) * GridSize, float64(k.Y) * GridSize, float64(k.Z) * GridSize}
}

func (k GridKey) Add(dx, dy, dz int) GridKey {
	return GridKey{k.X + dx, k.Y + dy, k.Z + dz}
}

// ParseGridKey accepts only the canonical form produced by String, so every
// cell has exactly one textual key.
func ParseGridKey(s string) (GridKey, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return GridKey{}, fmt.Errorf("%w %q: want 3 components, got %d", ErrMalformedKey, s, len(parts))
	}

	var v [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return GridKey{}, fmt.Errorf("%w %q: component %d: %v", ErrMalformedKey, s, i, err)
		}
		if strconv.Itoa(n) != part {
			return GridKey{}, fmt.Errorf("%w %q: component %d is not canonical", ErrMalformedKey, s, i)
		}
		v[i] = n
	}
	return GridKey{v[0], v[1], v[2]}, nil
}

// compareKeys orders keys by x, then y, then z.
func compareKeys(a, b GridKey) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.Z, b.Z)
}
