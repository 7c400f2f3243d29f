// Package backend serves worlds and structure templates over HTTP.
package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/smasonuk/wirecraft"
)

var ErrNotFound = errors.New("not found")

// Store is the data a backend serves: a set of templates and the world
// listing that places them.
type Store struct {
	mu        sync.RWMutex
	templates *wirecraft.TemplateStore
	world     map[wirecraft.GridKey]string
}

func NewStore() *Store {
	return &Store{
		templates: wirecraft.NewTemplateStore(),
		world:     make(map[wirecraft.GridKey]string),
	}
}

// AddTemplate registers t, replacing nothing: a name can be added once.
func (s *Store) AddTemplate(t *wirecraft.Template) error {
	if !s.templates.Put(t) {
		return fmt.Errorf("structure %q already defined", t.Name())
	}
	return nil
}

// Place puts name at key, overwriting whatever was there.
func (s *Store) Place(key wirecraft.GridKey, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world[key] = name
}

// World returns the listing in wire form.
func (s *Store) World() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.world))
	for key, name := range s.world {
		out[key.String()] = name
	}
	return out
}

func (s *Store) Names() []string {
	return s.templates.Names()
}

func (s *Store) Structure(name string) (wirecraft.TemplateDoc, error) {
	t, state := s.templates.Get(name)
	if state != wirecraft.TemplateLoaded {
		return wirecraft.TemplateDoc{}, fmt.Errorf("structure %q: %w", name, ErrNotFound)
	}
	return wirecraft.DocFromTemplate(t), nil
}

// Flatten builds the world's point and edge buffers the way a viewer would.
// Placements of unknown structures were reported by LoadDir and are left out
// here, so serving the buffers logs nothing per request.
func (s *Store) Flatten() ([]wirecraft.Point, []wirecraft.Edge) {
	s.mu.RLock()
	layout := make([]wirecraft.Placement, 0, len(s.world))
	for key, name := range s.world {
		if !s.templates.Contains(name) {
			continue
		}
		layout = append(layout, wirecraft.Placement{Key: key, Name: name})
	}
	s.mu.RUnlock()

	wirecraft.SortPlacements(layout)
	w := wirecraft.NewWorld3d(s.templates)
	w.SetLayout(layout)
	return w.Points(), w.Edges()
}

// LoadDir reads dir/world.yaml and every template under dir/structures.
// Template files are YAML, JSON or DXF and are named after the structure.
func LoadDir(dir string) (*Store, error) {
	s := NewStore()

	files, err := filepath.Glob(filepath.Join(dir, "structures", "*"))
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" && ext != ".dxf" {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		t, err := loadTemplate(path, name, ext)
		if err != nil {
			return nil, err
		}
		if err := s.AddTemplate(t); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "world.yaml"))
	if err != nil {
		return nil, fmt.Errorf("reading world file: %w", err)
	}
	var listing map[string]string
	if err := yaml.Unmarshal(data, &listing); err != nil {
		return nil, fmt.Errorf("parsing world YAML: %w", err)
	}
	for raw, name := range listing {
		key, err := wirecraft.ParseGridKey(raw)
		if err != nil {
			return nil, fmt.Errorf("world.yaml: %w", err)
		}
		if !s.templates.Contains(name) {
			log.Printf("warning: world.yaml places unknown structure %q at %v", name, key)
		}
		s.world[key] = name
	}

	log.Printf("Loaded %d structures and %d placements from %s", len(s.Names()), len(s.world), dir)
	return s, nil
}

func loadTemplate(path, name, ext string) (*wirecraft.Template, error) {
	if ext == ".dxf" {
		return wirecraft.LoadTemplateFromDXFFile(name, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading structure file: %w", err)
	}
	var doc wirecraft.TemplateDoc
	if ext == ".json" {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc.Template(name)
}
