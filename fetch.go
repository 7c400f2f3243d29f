package wirecraft

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher supplies the world listing and structure templates.
type Fetcher interface {
	// FetchWorld returns the raw "x,y,z" -> template name listing.
	FetchWorld(ctx context.Context) (map[string]string, error)
	FetchStructure(ctx context.Context, name string) (*Template, error)
}

// TemplateDoc is the wire form of a structure template.
type TemplateDoc struct {
	Points [][]float64 `json:"points" yaml:"points"`
	Edges  [][]int     `json:"edges" yaml:"edges"`
}

// Template converts the document, checking arity and edge indices.
func (d TemplateDoc) Template(name string) (*Template, error) {
	points := make([]Point, 0, len(d.Points))
	for i, p := range d.Points {
		if len(p) != 3 {
			return nil, fmt.Errorf("%w %q: point %d has %d coordinates", ErrInvalidTemplate, name, i, len(p))
		}
		points = append(points, Point{p[0], p[1], p[2]})
	}
	edges := make([]Edge, 0, len(d.Edges))
	for i, e := range d.Edges {
		if len(e) != 2 {
			return nil, fmt.Errorf("%w %q: edge %d has %d indices", ErrInvalidTemplate, name, i, len(e))
		}
		edges = append(edges, Edge{e[0], e[1]})
	}
	return NewTemplate(name, points, edges)
}

// DocFromTemplate is the inverse of TemplateDoc.Template.
func DocFromTemplate(t *Template) TemplateDoc {
	doc := TemplateDoc{
		Points: make([][]float64, 0, t.PointCount()),
		Edges:  make([][]int, 0, t.EdgeCount()),
	}
	for _, p := range t.points {
		doc.Points = append(doc.Points, []float64{p.X(), p.Y(), p.Z()})
	}
	for _, e := range t.edges {
		doc.Edges = append(doc.Edges, []int{e[0], e[1]})
	}
	return doc
}

// HTTPFetcher reads from the JSON backend.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *HTTPFetcher) FetchWorld(ctx context.Context) (map[string]string, error) {
	var listing map[string]string
	if err := f.getJSON(ctx, "/api/world", &listing); err != nil {
		return nil, fmt.Errorf("fetching world: %w", err)
	}
	return listing, nil
}

func (f *HTTPFetcher) FetchStructure(ctx context.Context, name string) (*Template, error) {
	var doc TemplateDoc
	if err := f.getJSON(ctx, "/api/structures/"+url.PathEscape(name), &doc); err != nil {
		return nil, fmt.Errorf("fetching structure %q: %w", name, err)
	}
	return doc.Template(name)
}

type errorBody struct {
	Error string `json:"error"`
}

func (f *HTTPFetcher) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorBody
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return fmt.Errorf("server returned %s: %s", resp.Status, e.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	// a 200 carrying an error field still counts as a failure
	var e errorBody
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return fmt.Errorf("server error: %s", e.Error)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
