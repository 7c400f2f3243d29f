package backend

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/smasonuk/wirecraft"
)

// Server exposes a Store as JSON.
type Server struct {
	store *Store
	mux   *http.ServeMux
}

// New creates a server for the given store.
func New(store *Store) *Server {
	s := &Server{store: store, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /api/world", s.handleWorld)
	s.mux.HandleFunc("GET /api/structures", s.handleStructures)
	s.mux.HandleFunc("GET /api/structures/{name}", s.handleStructure)
	s.mux.HandleFunc("GET /api/points", s.handlePoints)
	s.mux.HandleFunc("GET /api/edges", s.handleEdges)
	s.mux.HandleFunc("/", s.handleNotFound)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("wirecraft backend starting on http://%s", addr)
	return srv.ListenAndServe()
}

func (s *Server) handleWorld(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.World())
}

func (s *Server) handleStructures(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Names())
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Structure(r.PathValue("name"))
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handlePoints and handleEdges serve the flattened world in one piece for
// clients that do not assemble templates themselves.
func (s *Server) handlePoints(w http.ResponseWriter, _ *http.Request) {
	points, _ := s.store.Flatten()
	out := make([][3]float64, 0, len(points))
	for _, p := range points {
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": out})
}

func (s *Server) handleEdges(w http.ResponseWriter, _ *http.Request) {
	_, edges := s.store.Flatten()
	if edges == nil {
		edges = []wirecraft.Edge{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"edges": edges})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "no route for "+r.URL.Path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
