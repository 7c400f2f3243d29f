package backend

import (
	"github.com/smasonuk/wirecraft"
)

// Builtin returns a store with the stock structures and a small demo world.
func Builtin() *Store {
	s := NewStore()
	for _, t := range BuiltinTemplates() {
		if err := s.AddTemplate(t); err != nil {
			panic(err)
		}
	}

	s.Place(wirecraft.GridKey{X: 0, Y: 0, Z: 0}, "cube")
	s.Place(wirecraft.GridKey{X: 1, Y: 0, Z: 0}, "cube")
	s.Place(wirecraft.GridKey{X: -1, Y: 0, Z: 0}, "column")
	s.Place(wirecraft.GridKey{X: 1, Y: 1, Z: 0}, "pyramid")
	s.Place(wirecraft.GridKey{X: 0, Y: 0, Z: 2}, "cross")
	return s
}

// BuiltinTemplates are the stock structures, each sized to one grid cell.
func BuiltinTemplates() []*wirecraft.Template {
	return []*wirecraft.Template{
		wirecraft.NewCubeTemplate("cube", wirecraft.GridSize),
		pyramid(),
		cross(),
		column(),
	}
}

func pyramid() *wirecraft.Template {
	const h = wirecraft.GridSize / 2
	points := []wirecraft.Point{
		{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h},
		{0, h, 0},
	}
	edges := []wirecraft.Edge{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{0, 4}, {1, 4}, {2, 4}, {3, 4},
	}
	return mustTemplate("pyramid", points, edges)
}

// cross is three axis-aligned bars meeting at the cell centre.
func cross() *wirecraft.Template {
	const h = wirecraft.GridSize / 2
	points := []wirecraft.Point{
		{-h, 0, 0}, {h, 0, 0},
		{0, -h, 0}, {0, h, 0},
		{0, 0, -h}, {0, 0, h},
	}
	edges := []wirecraft.Edge{{0, 1}, {2, 3}, {4, 5}}
	return mustTemplate("cross", points, edges)
}

// column is a slim full-height box.
func column() *wirecraft.Template {
	const h, r = wirecraft.GridSize / 2, wirecraft.GridSize / 5
	points := []wirecraft.Point{
		{-r, -h, -r}, {r, -h, -r}, {r, -h, r}, {-r, -h, r},
		{-r, h, -r}, {r, h, -r}, {r, h, r}, {-r, h, r},
	}
	edges := []wirecraft.Edge{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	return mustTemplate("column", points, edges)
}

func mustTemplate(name string, points []wirecraft.Point, edges []wirecraft.Edge) *wirecraft.Template {
	t, err := wirecraft.NewTemplate(name, points, edges)
	if err != nil {
		panic(err)
	}
	return t
}
