// Package control lets an external client drive a viewer over a websocket.
package control

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smasonuk/wirecraft"
)

// Target is the part of a viewer session the control channel can change.
type Target interface {
	SetPosition(p wirecraft.Vector3) error
	SetOrientation(forward, up wirecraft.Vector3) error
	SetFOV(fov float64) error
	SetPointColor(c string) error
	SetEdgeColor(c string) error
	State() wirecraft.State
}

// Request is one client message. Only the fields the op needs are read.
type Request struct {
	Op       string    `json:"op"`
	Position []float64 `json:"position,omitempty"`
	Forward  []float64 `json:"forward,omitempty"`
	Up       []float64 `json:"up,omitempty"`
	FOV      *float64  `json:"fov,omitempty"`
	Color    string    `json:"color,omitempty"`
}

type Reply struct {
	OK    bool             `json:"ok"`
	Error string           `json:"error,omitempty"`
	State *wirecraft.State `json:"state,omitempty"`
}

// Handler applies a request to the target.
type Handler func(t Target, req Request) error

var errMissingField = errors.New("missing field")

// SafeWriter serializes writes to a websocket connection.
type SafeWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewSafeWriter(conn *websocket.Conn) *SafeWriter {
	return &SafeWriter{conn: conn}
}

func (w *SafeWriter) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

func (w *SafeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.Close()
}

// Server accepts websocket clients and dispatches their requests by op.
type Server struct {
	target   Target
	upgrader websocket.Upgrader
	handlers map[string]Handler
}

func NewServer(target Target) *Server {
	s := &Server{
		target: target,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		handlers: make(map[string]Handler),
	}
	s.RegisterHandler("set_position", handleSetPosition)
	s.RegisterHandler("set_orientation", handleSetOrientation)
	s.RegisterHandler("set_fov", handleSetFOV)
	s.RegisterHandler("set_point_color", func(t Target, req Request) error {
		return t.SetPointColor(req.Color)
	})
	s.RegisterHandler("set_edge_color", func(t Target, req Request) error {
		return t.SetEdgeColor(req.Color)
	})
	s.RegisterHandler("state", func(Target, Request) error { return nil })
	return s
}

func (s *Server) RegisterHandler(op string, h Handler) {
	s.handlers[op] = h
}

// Handler returns an http.Handler with the websocket endpoint at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	return mux
}

func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("control channel listening on ws://%s/ws", addr)
	return srv.ListenAndServe()
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	writer := NewSafeWriter(conn)
	defer writer.Close()
	log.Printf("control client connected from %s", conn.RemoteAddr())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}
		if err := writer.WriteJSON(s.Dispatch(data)); err != nil {
			log.Printf("error: writing reply: %v", err)
			break
		}
	}
	log.Printf("control client disconnected: %s", conn.RemoteAddr())
}

// Dispatch decodes one message, applies it and builds the reply. Every
// successful reply carries the resulting state.
func (s *Server) Dispatch(data []byte) Reply {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Reply{Error: fmt.Sprintf("malformed request: %v", err)}
	}
	h, ok := s.handlers[req.Op]
	if !ok {
		return Reply{Error: fmt.Sprintf("unknown op %q", req.Op)}
	}
	if err := h(s.target, req); err != nil {
		log.Printf("warning: control %s: %v", req.Op, err)
		return Reply{Error: err.Error()}
	}
	state := s.target.State()
	return Reply{OK: true, State: &state}
}

func handleSetPosition(t Target, req Request) error {
	p, err := vec3("position", req.Position)
	if err != nil {
		return err
	}
	return t.SetPosition(p)
}

func handleSetOrientation(t Target, req Request) error {
	f, err := vec3("forward", req.Forward)
	if err != nil {
		return err
	}
	u, err := vec3("up", req.Up)
	if err != nil {
		return err
	}
	return t.SetOrientation(f, u)
}

func handleSetFOV(t Target, req Request) error {
	if req.FOV == nil {
		return fmt.Errorf("%w: fov", errMissingField)
	}
	return t.SetFOV(*req.FOV)
}

func vec3(field string, v []float64) (wirecraft.Vector3, error) {
	if v == nil {
		return wirecraft.Vector3{}, fmt.Errorf("%w: %s", errMissingField, field)
	}
	if len(v) != 3 {
		return wirecraft.Vector3{}, fmt.Errorf("%s needs 3 components, got %d", field, len(v))
	}
	return wirecraft.Vector3{v[0], v[1], v[2]}, nil
}
