package wirecraft

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"golang.org/x/sync/errgroup"
)

var (
	ErrUnknownTemplate = errors.New("unknown structure template")
	ErrOccupied        = errors.New("world position occupied")
	ErrUnoccupied      = errors.New("world position unoccupied")
)

const templateFetchLimit = 4

// Placement is one occupied cell.
type Placement struct {
	Key  GridKey
	Name string
}

// World is the sparse grid of placed structures and the flattened point and
// edge buffers derived from it.
type World struct {
	templates *TemplateStore
	occupied  map[GridKey]string
	order     []GridKey
	points    []Point
	edges     []Edge
}

func NewWorld3d(templates *TemplateStore) *World {
	if templates == nil {
		templates = NewTemplateStore()
	}
	return &World{
		templates: templates,
		occupied:  make(map[GridKey]string),
	}
}

func (w *World) Templates() *TemplateStore {
	return w.templates
}

// Points is the flattened world point buffer. Callers must not modify it.
// Adding a structure may extend it in place; removing one replaces it.
func (w *World) Points() []Point {
	return w.points
}

// Edges indexes into Points. Callers must not modify it.
func (w *World) Edges() []Edge {
	return w.edges
}

func (w *World) Len() int {
	return len(w.order)
}

// StructureAt returns the template name placed at key.
func (w *World) StructureAt(key GridKey) (string, bool) {
	name, ok := w.occupied[key]
	return name, ok
}

// Placements lists the occupied cells in flattening order.
func (w *World) Placements() []Placement {
	out := make([]Placement, 0, len(w.order))
	for _, key := range w.order {
		out = append(out, Placement{Key: key, Name: w.occupied[key]})
	}
	return out
}

// SortPlacements orders placements by x, then y, then z.
func SortPlacements(layout []Placement) {
	slices.SortFunc(layout, func(a, b Placement) int {
		return compareKeys(a.Key, b.Key)
	})
}

// FetchLayout fetches the world listing and every template it references
// that is not cached yet. Malformed keys are skipped with a warning and
// failed templates are recorded in the store, so neither aborts the load.
func FetchLayout(ctx context.Context, f Fetcher, templates *TemplateStore) ([]Placement, error) {
	listing, err := f.FetchWorld(ctx)
	if err != nil {
		return nil, err
	}

	layout := make([]Placement, 0, len(listing))
	wanted := make(map[string]bool)
	for raw, name := range listing {
		key, err := ParseGridKey(raw)
		if err != nil {
			log.Printf("warning: skipping world entry: %v", err)
			continue
		}
		layout = append(layout, Placement{Key: key, Name: name})
		if _, state := templates.Get(name); state == TemplateMissing {
			wanted[name] = true
		}
	}
	SortPlacements(layout)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(templateFetchLimit)
	for name := range wanted {
		g.Go(func() error {
			t, err := f.FetchStructure(gctx, name)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Printf("error: loading structure %q: %v", name, err)
				templates.Fail(name, err)
				return nil
			}
			templates.Put(t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return layout, nil
}

// Load replaces the world with the one served by f.
func (w *World) Load(ctx context.Context, f Fetcher) error {
	layout, err := FetchLayout(ctx, f, w.templates)
	if err != nil {
		return err
	}
	w.SetLayout(layout)
	log.Printf("World loaded: %d structures, %d points, %d edges", w.Len(), len(w.points), len(w.edges))
	return nil
}

// SetLayout replaces the occupancy map and rebuilds the buffers. Later
// duplicates of a key are ignored.
func (w *World) SetLayout(layout []Placement) {
	w.occupied = make(map[GridKey]string, len(layout))
	w.order = w.order[:0]
	for _, p := range layout {
		if _, ok := w.occupied[p.Key]; ok {
			log.Printf("warning: duplicate world entry at %v ignored", p.Key)
			continue
		}
		w.occupied[p.Key] = p.Name
		w.order = append(w.order, p.Key)
	}
	w.Rebuild()
}

// Rebuild regenerates the flattened buffers from the occupancy map. Cells
// whose template is not loaded contribute nothing. The buffers are fresh
// slices, so ones handed out earlier keep their contents.
func (w *World) Rebuild() {
	w.points = make([]Point, 0, len(w.points))
	w.edges = make([]Edge, 0, len(w.edges))
	for _, key := range w.order {
		name := w.occupied[key]
		t, state := w.templates.Get(name)
		if state != TemplateLoaded {
			log.Printf("error: %v %q at %v (%s)", ErrUnknownTemplate, name, key, state)
			continue
		}
		w.appendTemplate(key, t)
	}
}

func (w *World) appendTemplate(key GridKey, t *Template) {
	offset := len(w.points)
	origin := key.Origin()
	for _, p := range t.points {
		w.points = append(w.points, p.Add(origin))
	}
	for _, e := range t.edges {
		w.edges = append(w.edges, e.Offset(offset))
	}
}

// AddStructure places the named template at key. Appending keeps every
// existing edge offset valid, so the buffers are extended rather than rebuilt.
func (w *World) AddStructure(key GridKey, name string) error {
	if existing, ok := w.occupied[key]; ok {
		log.Printf("warning: cannot place %q at %v: holds %q", name, key, existing)
		return fmt.Errorf("%w: %v holds %q", ErrOccupied, key, existing)
	}
	t, state := w.templates.Get(name)
	if state != TemplateLoaded {
		log.Printf("error: cannot place %q at %v: template %s", name, key, state)
		return fmt.Errorf("%w %q (%s)", ErrUnknownTemplate, name, state)
	}

	w.occupied[key] = name
	w.order = append(w.order, key)
	w.appendTemplate(key, t)
	return nil
}

// RemoveStructure clears key and rebuilds the buffers, since every structure
// after the removed one shifts down in the point list.
func (w *World) RemoveStructure(key GridKey) error {
	if _, ok := w.occupied[key]; !ok {
		log.Printf("warning: nothing to remove at %v", key)
		return fmt.Errorf("%w: %v", ErrUnoccupied, key)
	}
	delete(w.occupied, key)
	w.order = slices.DeleteFunc(w.order, func(k GridKey) bool { return k == key })
	w.Rebuild()
	return nil
}

// CellBounds is the world-space box of the structure at key. It is false for
// empty cells and cells without a loaded, non-empty template.
func (w *World) CellBounds(key GridKey) (AABB, bool) {
	name, ok := w.occupied[key]
	if !ok {
		return AABB{}, false
	}
	t, state := w.templates.Get(name)
	if state != TemplateLoaded || t.bounds.empty {
		return AABB{}, false
	}
	return t.bounds.Translate(key.Origin()), true
}
