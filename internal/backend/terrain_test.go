package backend

import (
	"reflect"
	"testing"

	"github.com/smasonuk/wirecraft"
)

func terrainStore(t *testing.T, opts TerrainOptions) *Store {
	t.Helper()
	s := NewStore()
	for _, tmpl := range BuiltinTemplates() {
		if err := s.AddTemplate(tmpl); err != nil {
			t.Fatal(err)
		}
	}
	if err := GenerateTerrain(s, opts); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestGenerateTerrain(t *testing.T) {
	opts := TerrainOptions{Width: 8, Depth: 6, MaxHeight: 4, Seed: 42}
	world := terrainStore(t, opts).World()

	columns := make(map[[2]int]int)
	for raw, name := range world {
		if name != "cube" {
			t.Errorf("%s holds %q", raw, name)
		}
		key, err := wirecraft.ParseGridKey(raw)
		if err != nil {
			t.Fatal(err)
		}
		if key.Y < 0 || key.Y >= opts.MaxHeight {
			t.Errorf("block %v above the height limit", key)
		}
		columns[[2]int{key.X, key.Z}]++
	}
	if len(columns) != opts.Width*opts.Depth {
		t.Errorf("%d columns, want %d", len(columns), opts.Width*opts.Depth)
	}
	for xz, h := range columns {
		if h < 1 || h > opts.MaxHeight {
			t.Errorf("column %v has height %d", xz, h)
		}
	}
}

func TestGenerateTerrainIsSeeded(t *testing.T) {
	opts := TerrainOptions{Width: 10, Depth: 10, MaxHeight: 6, Seed: 7}
	a := terrainStore(t, opts).World()
	b := terrainStore(t, opts).World()
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed gave different terrain")
	}
}

func TestGenerateTerrainErrors(t *testing.T) {
	s := NewStore()
	if err := GenerateTerrain(s, TerrainOptions{Width: 0, Depth: 1, MaxHeight: 1}); err == nil {
		t.Error("zero width accepted")
	}
	if err := GenerateTerrain(s, TerrainOptions{Width: 1, Depth: 1, MaxHeight: 1, Block: "cube"}); err == nil {
		t.Error("unknown block accepted")
	}
}

func TestColumnHeight(t *testing.T) {
	testCases := []struct {
		noise float64
		want  int
	}{
		{-1, 1},
		{-5, 1},
		{0, 3},
		{1, 4},
		{5, 4},
	}
	for _, tc := range testCases {
		if got := columnHeight(tc.noise, 4); got != tc.want {
			t.Errorf("columnHeight(%v, 4) = %d, want %d", tc.noise, got, tc.want)
		}
	}
}
