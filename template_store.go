package wirecraft

import (
	"sort"
	"sync"
)

// TemplateState tells a template that was never requested apart from one
// whose fetch failed.
type TemplateState int

const (
	TemplateMissing TemplateState = iota
	TemplateLoaded
	TemplateFailed
)

func (s TemplateState) String() string {
	switch s {
	case TemplateMissing:
		return "missing"
	case TemplateLoaded:
		return "loaded"
	case TemplateFailed:
		return "failed"
	}
	return "unknown"
}

type templateEntry struct {
	template *Template
	state    TemplateState
	err      error
}

// TemplateStore caches structure templates by name. Once a name is loaded it
// is never replaced; failed names stay failed.
type TemplateStore struct {
	mu      sync.RWMutex
	entries map[string]templateEntry
}

func NewTemplateStore() *TemplateStore {
	return &TemplateStore{entries: make(map[string]templateEntry)}
}

// Get returns the template and its state. The template is nil unless the
// state is TemplateLoaded.
func (ts *TemplateStore) Get(name string) (*Template, TemplateState) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	e, ok := ts.entries[name]
	if !ok {
		return nil, TemplateMissing
	}
	return e.template, e.state
}

// Put caches t under its name. It returns false if the name is already
// loaded.
func (ts *TemplateStore) Put(t *Template) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if e, ok := ts.entries[t.Name()]; ok && e.state == TemplateLoaded {
		return false
	}
	ts.entries[t.Name()] = templateEntry{template: t, state: TemplateLoaded}
	return true
}

// Fail records a failed fetch for name unless it is already loaded.
func (ts *TemplateStore) Fail(name string, err error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if e, ok := ts.entries[name]; ok && e.state == TemplateLoaded {
		return
	}
	ts.entries[name] = templateEntry{state: TemplateFailed, err: err}
}

// Err returns the error recorded for a failed name.
func (ts *TemplateStore) Err(name string) error {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.entries[name].err
}

func (ts *TemplateStore) Contains(name string) bool {
	_, state := ts.Get(name)
	return state == TemplateLoaded
}

// Names returns the loaded template names in sorted order.
func (ts *TemplateStore) Names() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	names := make([]string, 0, len(ts.entries))
	for name, e := range ts.entries {
		if e.state == TemplateLoaded {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
