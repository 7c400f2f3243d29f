package wirecraft

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

// fakeFetcher serves canned data and counts structure requests.
type fakeFetcher struct {
	world     map[string]string
	templates map[string]*Template

	mu    sync.Mutex
	calls map[string]int
}

func newFakeFetcher(world map[string]string, templates ...*Template) *fakeFetcher {
	f := &fakeFetcher{world: world, templates: make(map[string]*Template), calls: make(map[string]int)}
	for _, t := range templates {
		f.templates[t.Name()] = t
	}
	return f
}

func (f *fakeFetcher) FetchWorld(context.Context) (map[string]string, error) {
	return f.world, nil
}

func (f *fakeFetcher) FetchStructure(_ context.Context, name string) (*Template, error) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
	t, ok := f.templates[name]
	if !ok {
		return nil, fmt.Errorf("structure %q: 404", name)
	}
	return t, nil
}

func loadWorld(t *testing.T, f Fetcher) *World {
	t.Helper()
	w := NewWorld3d(nil)
	if err := w.Load(context.Background(), f); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return w
}

func TestLoadSingleCube(t *testing.T) {
	cube := NewCubeTemplate("cube", 100)
	w := loadWorld(t, newFakeFetcher(map[string]string{"0,0,0": "cube"}, cube))

	if len(w.Points()) != 8 || len(w.Edges()) != 12 {
		t.Fatalf("got %d points %d edges, want 8 and 12", len(w.Points()), len(w.Edges()))
	}
	if !reflect.DeepEqual(w.Points(), cube.Points()) {
		t.Errorf("points at origin should equal the template's")
	}
}

func TestAddStructureAppends(t *testing.T) {
	cube := NewCubeTemplate("cube", 100)
	w := loadWorld(t, newFakeFetcher(map[string]string{"0,0,0": "cube"}, cube))

	if err := w.AddStructure(GridKey{1, 0, 0}, "cube"); err != nil {
		t.Fatal(err)
	}
	if len(w.Points()) != 16 || len(w.Edges()) != 24 {
		t.Fatalf("got %d points %d edges", len(w.Points()), len(w.Edges()))
	}
	for i, p := range cube.Points() {
		if got := w.Points()[8+i]; got != p.Add(Vector3{100, 0, 0}) {
			t.Errorf("point %d = %v, want %v", 8+i, got, p.Add(Vector3{100, 0, 0}))
		}
	}
	for i, e := range cube.Edges() {
		if got := w.Edges()[12+i]; got != e.Offset(8) {
			t.Errorf("edge %d = %v, want %v", 12+i, got, e.Offset(8))
		}
	}
}

func TestAddStructureFailures(t *testing.T) {
	cube := NewCubeTemplate("cube", 100)
	w := loadWorld(t, newFakeFetcher(map[string]string{"0,0,0": "cube"}, cube))
	points := append([]Point(nil), w.Points()...)
	edges := append([]Edge(nil), w.Edges()...)

	if err := w.AddStructure(GridKey{0, 0, 0}, "cube"); !errors.Is(err, ErrOccupied) {
		t.Errorf("occupied: err = %v", err)
	}
	if err := w.AddStructure(GridKey{5, 0, 0}, "tower"); !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("unknown: err = %v", err)
	}
	if w.Len() != 1 {
		t.Errorf("failed adds changed occupancy: %d cells", w.Len())
	}
	if !reflect.DeepEqual(w.Points(), points) || !reflect.DeepEqual(w.Edges(), edges) {
		t.Error("failed adds changed the buffers")
	}
}

func TestRemoveLeavesEarlierBuffersIntact(t *testing.T) {
	w := worldWithCubes(t, GridKey{0, 0, 0}, GridKey{1, 0, 0})
	points, edges := w.Points(), w.Edges()
	wantPoints := append([]Point(nil), points...)
	wantEdges := append([]Edge(nil), edges...)

	if err := w.RemoveStructure(GridKey{0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(points, wantPoints) || !reflect.DeepEqual(edges, wantEdges) {
		t.Error("removal rewrote buffers returned before it")
	}
	if len(w.Points()) != 8 || w.Points()[0] != (Point{50, -50, -50}) {
		t.Errorf("current buffer after removal starts at %v", w.Points()[0])
	}
}

func TestRemoveStructureRebuilds(t *testing.T) {
	cube := NewCubeTemplate("cube", 100)
	pyramid, err := NewTemplate("pyramid",
		[]Point{{-50, -50, -50}, {50, -50, -50}, {50, -50, 50}, {-50, -50, 50}, {0, 50, 0}},
		[]Edge{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 4}, {1, 4}, {2, 4}, {3, 4}})
	if err != nil {
		t.Fatal(err)
	}
	world := map[string]string{"0,0,0": "cube", "1,0,0": "pyramid", "2,0,0": "cube"}
	w := loadWorld(t, newFakeFetcher(world, cube, pyramid))

	if err := w.RemoveStructure(GridKey{0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	if err := w.RemoveStructure(GridKey{0, 0, 0}); !errors.Is(err, ErrUnoccupied) {
		t.Errorf("second remove: err = %v", err)
	}

	// the result must match a world loaded without the removed cell
	fresh := loadWorld(t, newFakeFetcher(map[string]string{"1,0,0": "pyramid", "2,0,0": "cube"}, cube, pyramid))
	if !reflect.DeepEqual(w.Points(), fresh.Points()) || !reflect.DeepEqual(w.Edges(), fresh.Edges()) {
		t.Error("buffers after removal differ from a fresh build")
	}
	for _, e := range w.Edges() {
		if !e.Valid(len(w.Points())) {
			t.Errorf("edge %v out of range after removal", e)
		}
	}
}

func TestLoadIsDeterministic(t *testing.T) {
	cube := NewCubeTemplate("cube", 100)
	world := map[string]string{}
	for x := -3; x <= 3; x++ {
		for z := -2; z <= 2; z++ {
			world[GridKey{x, x % 2, z}.String()] = "cube"
		}
	}
	first := loadWorld(t, newFakeFetcher(world, cube))
	for i := 0; i < 5; i++ {
		again := loadWorld(t, newFakeFetcher(world, cube))
		if !reflect.DeepEqual(first.Points(), again.Points()) || !reflect.DeepEqual(first.Edges(), again.Edges()) {
			t.Fatal("loading the same world twice gave different buffers")
		}
	}
	p := first.Placements()
	for i := 1; i < len(p); i++ {
		if compareKeys(p[i-1].Key, p[i].Key) >= 0 {
			t.Fatalf("placements not sorted: %v before %v", p[i-1].Key, p[i].Key)
		}
	}
}

func TestLoadSkipsMalformedKeysAndMissingTemplates(t *testing.T) {
	cube := NewCubeTemplate("cube", 100)
	world := map[string]string{
		"0,0,0":    "cube",
		"1, 0, 0":  "cube",
		"1.5,0,0":  "cube",
		"01,0,0":   "cube",
		"0,0":      "cube",
		"3,0,0":    "ghost",
		"-1,-1,-1": "cube",
	}
	f := newFakeFetcher(world, cube)
	w := loadWorld(t, f)

	if w.Len() != 3 {
		t.Errorf("Len = %d, want 3 (two cubes and the ghost cell)", w.Len())
	}
	if len(w.Points()) != 16 {
		t.Errorf("points = %d, want 16", len(w.Points()))
	}
	if _, state := w.Templates().Get("ghost"); state != TemplateFailed {
		t.Errorf("ghost state = %v, want failed", state)
	}
	if w.Templates().Err("ghost") == nil {
		t.Error("ghost failure not recorded")
	}
}

func TestTemplatesFetchedOnce(t *testing.T) {
	cube := NewCubeTemplate("cube", 100)
	f := newFakeFetcher(map[string]string{"0,0,0": "cube", "1,0,0": "cube", "2,0,0": "ghost"}, cube)
	w := NewWorld3d(nil)
	for i := 0; i < 3; i++ {
		if err := w.Load(context.Background(), f); err != nil {
			t.Fatal(err)
		}
	}
	if f.calls["cube"] != 1 {
		t.Errorf("cube fetched %d times", f.calls["cube"])
	}
	if f.calls["ghost"] != 1 {
		t.Errorf("failed template fetched %d times, want no retries", f.calls["ghost"])
	}
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &cancelingFetcher{}
	if _, err := FetchLayout(ctx, f, NewTemplateStore()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type cancelingFetcher struct{}

func (cancelingFetcher) FetchWorld(context.Context) (map[string]string, error) {
	return map[string]string{"0,0,0": "cube"}, nil
}

func (cancelingFetcher) FetchStructure(ctx context.Context, _ string) (*Template, error) {
	return nil, ctx.Err()
}

func TestCellBounds(t *testing.T) {
	w := NewWorld3d(nil)
	w.Templates().Put(NewCubeTemplate("cube", 100))
	if err := w.AddStructure(GridKey{1, 2, 3}, "cube"); err != nil {
		t.Fatal(err)
	}
	box, ok := w.CellBounds(GridKey{1, 2, 3})
	if !ok {
		t.Fatal("no bounds for occupied cell")
	}
	if box.Min != (Vector3{50, 150, 250}) || box.Max != (Vector3{150, 250, 350}) {
		t.Errorf("bounds = %v..%v", box.Min, box.Max)
	}
	if _, ok := w.CellBounds(GridKey{0, 0, 0}); ok {
		t.Error("empty cell has bounds")
	}
}

func TestRemoveThenReAddDifferentStructure(t *testing.T) {
	cube := NewCubeTemplate("cube", 100)
	post, err := NewTemplate("post", []Point{{0, -50, 0}, {0, 50, 0}}, []Edge{{0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	world := map[string]string{"0,0,0": "cube", "1,0,0": "cube", "2,0,0": "cube"}
	w := loadWorld(t, newFakeFetcher(world, cube))
	w.Templates().Put(post)

	key := GridKey{1, 0, 0}
	if err := w.RemoveStructure(key); err != nil {
		t.Fatal(err)
	}
	if err := w.AddStructure(key, "post"); err != nil {
		t.Fatal(err)
	}
	w.Rebuild()

	if len(w.Points()) != 8+8+2 || len(w.Edges()) != 12+12+1 {
		t.Errorf("got %d points %d edges", len(w.Points()), len(w.Edges()))
	}
	for _, e := range w.Edges() {
		if !e.Valid(len(w.Points())) {
			t.Errorf("edge %v out of range", e)
		}
	}
	if name, _ := w.StructureAt(key); name != "post" {
		t.Errorf("cell holds %q", name)
	}
}
