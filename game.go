package wirecraft

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// lookOrthonormalizeEvery bounds the drift of repeated mouselook steps, which
// rotate the basis without re-deriving it.
const lookOrthonormalizeEvery = 64

var ErrNoTarget = errors.New("no structure in view")

// Session is the viewer state shared by the frame loop, the loader and the
// control channel. Every exported method takes the lock.
type Session struct {
	mu sync.Mutex

	controls ControlsConfig
	camera   *Camera
	world    *World
	renderer *Renderer
	mode     Mode
	selected int

	moveCooldown   time.Duration
	rotateCooldown time.Duration
	lookSteps      int

	dirty bool
}

// NewSession builds a session from cfg. A nil world starts empty with its
// own template store.
func NewSession(cfg *Config, world *World) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	renderer, err := NewRendererFromConfig(cfg.Render)
	if err != nil {
		return nil, err
	}
	if world == nil {
		world = NewWorld3d(nil)
	}

	pos := cfg.Camera.Position
	cam := NewCamera(pos[0], pos[1], pos[2])
	if err := cam.SetFOV(cfg.Camera.FOV); err != nil {
		return nil, err
	}

	return &Session{
		controls: cfg.Controls,
		camera:   cam,
		world:    world,
		renderer: renderer,
		dirty:    true,
	}, nil
}

// Load fetches the world from f and installs it. The network round trips
// happen without holding the session lock so frames keep rendering.
func (s *Session) Load(ctx context.Context, f Fetcher) error {
	log.Println("Loading world...")
	layout, err := FetchLayout(ctx, f, s.world.Templates())
	if err != nil {
		return fmt.Errorf("loading world: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.SetLayout(layout)
	s.dirty = true
	log.Printf("World loaded: %d structures, %d points, %d edges",
		s.world.Len(), len(s.world.Points()), len(s.world.Edges()))
	return nil
}

// TakeDirty reports whether anything changed since the last call and clears
// the flag.
func (s *Session) TakeDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.dirty
	s.dirty = false
	return d
}

func (s *Session) MarkDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Camera returns a copy of the current camera.
func (s *Session) Camera() Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.camera
}

// SetMode switches mode. Entering grid mode snaps the camera; entering
// interactive mode levels it. Cooldowns start over either way.
func (s *Session) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setMode(m)
}

func (s *Session) setMode(m Mode) {
	if m == s.mode {
		return
	}
	s.mode = m
	s.moveCooldown = 0
	s.rotateCooldown = 0
	s.lookSteps = 0

	switch m {
	case ModeNormal:
	case ModeGridAligned:
		s.camera.SnapToGrid()
	case ModeInteractive:
		s.camera.ResetRoll()
	}
	s.dirty = true
	log.Printf("mode: %s", m)
}

// Update advances the camera by one frame of held input. It reports whether
// the view changed.
func (s *Session) Update(dt time.Duration, in Input) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed bool
	switch s.mode {
	case ModeNormal:
		changed = s.updateFree(dt, in.Held)
	case ModeGridAligned:
		changed = s.updateGrid(dt, in.Held)
	case ModeInteractive:
		changed = s.updateWalk(dt, in.Held)
	}
	if changed {
		s.dirty = true
	}
	return changed
}

func (s *Session) updateFree(dt time.Duration, held Actions) bool {
	fast := held.Has(ActionFast)
	changed := false

	rot := s.controls.RotateSpeed * dt.Seconds()
	if fast {
		rot *= s.controls.FastRotate
	}
	yaw := held.axis(ActionYawLeft, ActionYawRight) * rot
	pitch := held.axis(ActionPitchUp, ActionPitchDown) * rot
	roll := held.axis(ActionRollRight, ActionRollLeft) * rot
	if yaw != 0 || pitch != 0 || roll != 0 {
		s.camera.AddAngle(yaw, pitch, roll)
		changed = true
	}

	step := s.controls.MoveSpeed * dt.Seconds()
	if fast {
		step *= s.controls.FastMove
	}
	f, r, u := moveAxes(held)
	if f != 0 || r != 0 || u != 0 {
		s.camera.Move(f*step, r*step, u*step)
		changed = true
	}
	return changed
}

// updateGrid takes at most one quarter turn and one grid step per cooldown
// period. The cooldowns run down on every frame, held keys or not, so
// tapping a key cannot step faster than the cooldown allows.
func (s *Session) updateGrid(dt time.Duration, held Actions) bool {
	changed := false
	s.rotateCooldown = max(s.rotateCooldown-dt, 0)
	s.moveCooldown = max(s.moveCooldown-dt, 0)

	yaw := int(held.axis(ActionYawLeft, ActionYawRight))
	pitch := -int(held.axis(ActionPitchUp, ActionPitchDown))
	roll := int(held.axis(ActionRollRight, ActionRollLeft))
	if (yaw != 0 || pitch != 0 || roll != 0) && s.rotateCooldown == 0 {
		if yaw != 0 {
			s.camera.AddQuarterTurn(AxisY, yaw)
		}
		if pitch != 0 {
			s.camera.AddQuarterTurn(AxisX, pitch)
		}
		if roll != 0 {
			s.camera.AddQuarterTurn(AxisZ, roll)
		}
		s.rotateCooldown = s.controls.GridCooldown
		changed = true
	}

	f, r, u := moveAxes(held)
	if (f != 0 || r != 0 || u != 0) && s.moveCooldown == 0 {
		s.camera.Move(f*GridSize, r*GridSize, u*GridSize)
		p := s.camera.GetPosition()
		s.camera.SetCameraPosition(snapToGrid(p.X()), snapToGrid(p.Y()), snapToGrid(p.Z()))
		s.moveCooldown = s.controls.GridCooldown
		changed = true
	}
	return changed
}

// updateWalk moves level with the ground and refuses steps into structures.
// Looking is driven by Look, not by held keys.
func (s *Session) updateWalk(dt time.Duration, held Actions) bool {
	f, r, u := moveAxes(held)
	if f == 0 && r == 0 && u == 0 {
		return false
	}
	step := s.controls.MoveSpeed * dt.Seconds()
	if held.Has(ActionFast) {
		step *= s.controls.FastMove
	}

	fwd, right := s.camera.LevelDirections()
	groups := []Vector3{
		fwd.Mul(f * step),
		right.Mul(r * step),
		worldUp.Mul(u * step),
	}
	from := s.camera.GetPosition()
	to := s.world.MoveWithCollision(from, groups, PlayerRadius)
	if to == from {
		return false
	}
	s.camera.SetCameraPosition(to.X(), to.Y(), to.Z())
	return true
}

func moveAxes(held Actions) (forward, right, up float64) {
	return held.axis(ActionForward, ActionBack),
		held.axis(ActionRight, ActionLeft),
		held.axis(ActionUp, ActionDown)
}

// Look applies a mouse delta in pixels. It only acts in interactive mode.
// Moving the mouse right turns right and moving it down looks down; with the
// camera's right = forward x up, both are negative angles.
func (s *Session) Look(dx, dy float64, fast bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeInteractive || (dx == 0 && dy == 0) {
		return false
	}
	sens := s.controls.MouseSensitivity
	if fast {
		sens *= s.controls.FastMouse
	}
	s.camera.Look(-dx*sens, -dy*sens)
	s.lookSteps++
	if s.lookSteps%lookOrthonormalizeEvery == 0 {
		s.camera.Orthonormalize()
	}
	s.dirty = true
	return true
}

// Apply runs a discrete key-down command.
func (s *Session) Apply(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd.Kind {
	case CommandNone:
		return
	case CommandToggleGrid:
		if s.mode == ModeGridAligned {
			s.setMode(ModeNormal)
		} else {
			s.setMode(ModeGridAligned)
		}
	case CommandToggleInteractive:
		if s.mode == ModeInteractive {
			s.setMode(ModeNormal)
		} else {
			s.setMode(ModeInteractive)
		}
	case CommandNormalMode:
		s.setMode(ModeNormal)
	case CommandTogglePoints:
		s.renderer.ShowPoints = !s.renderer.ShowPoints
	case CommandToggleEdges:
		s.renderer.ShowEdges = !s.renderer.ShowEdges
	case CommandSnapToGrid:
		s.camera.SnapToGrid()
	case CommandNextStructure:
		s.nextStructure()
	case CommandSelectSlot:
		s.selectSlot(cmd.Slot)
	}
	s.dirty = true
}

// SelectSlot picks a structure by number key: 1 to 9 are the first nine
// names and 0 is the tenth.
func (s *Session) SelectSlot(slot int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectSlot(slot)
}

func (s *Session) selectSlot(slot int) bool {
	idx := slot - 1
	if slot == 0 {
		idx = 9
	}
	names := s.world.Templates().Names()
	if idx < 0 || idx >= len(names) {
		log.Printf("warning: no structure in slot %d (%d loaded)", slot, len(names))
		return false
	}
	s.selected = idx
	return true
}

func (s *Session) NextStructure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextStructure()
}

func (s *Session) nextStructure() {
	n := len(s.world.Templates().Names())
	if n == 0 {
		return
	}
	s.selected = (s.selected + 1) % n
}

// Selected is the template name right-click places.
func (s *Session) Selected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedName()
}

func (s *Session) selectedName() (string, bool) {
	names := s.world.Templates().Names()
	if len(names) == 0 {
		return "", false
	}
	return names[s.selected%len(names)], true
}

func (s *Session) viewRay() Ray {
	return NewRay(s.camera.GetPosition(), s.camera.Forward())
}

// RemoveTargeted removes the nearest structure under the crosshair.
func (s *Session) RemoveTargeted() (GridKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hit, ok := s.world.Raycast(s.viewRay())
	if !ok {
		return GridKey{}, ErrNoTarget
	}
	if err := s.world.RemoveStructure(hit.Key); err != nil {
		return hit.Key, err
	}
	s.dirty = true
	log.Printf("removed structure at %v", hit.Key)
	return hit.Key, nil
}

// PlaceTargeted puts the selected structure in the empty cell against the
// face under the crosshair.
func (s *Session) PlaceTargeted() (GridKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, ok := s.selectedName()
	if !ok {
		return GridKey{}, fmt.Errorf("%w: nothing selected", ErrUnknownTemplate)
	}
	hit, ok := s.world.Raycast(s.viewRay())
	if !ok {
		return GridKey{}, ErrNoTarget
	}
	key := AdjacentCell(hit)
	if err := s.world.AddStructure(key, name); err != nil {
		return key, err
	}
	s.dirty = true
	log.Printf("placed %q at %v", name, key)
	return key, nil
}

func (s *Session) SetPosition(p Vector3) error {
	if !isFinite(p.X()) || !isFinite(p.Y()) || !isFinite(p.Z()) {
		return fmt.Errorf("position %v is not finite", p)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.SetCameraPosition(p.X(), p.Y(), p.Z())
	s.dirty = true
	return nil
}

func (s *Session) SetOrientation(forward, up Vector3) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.camera.SetOrientation(forward, up); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

func (s *Session) SetFOV(fov float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.camera.SetFOV(fov); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

func (s *Session) SetPointColor(c string) error {
	clr, err := ParseColor(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer.PointColor = clr
	s.dirty = true
	return nil
}

func (s *Session) SetEdgeColor(c string) error {
	clr, err := ParseColor(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer.EdgeColor = clr
	s.dirty = true
	return nil
}

// State is a snapshot of the session for the control channel.
type State struct {
	Mode       string     `json:"mode"`
	Position   [3]float64 `json:"position"`
	Forward    [3]float64 `json:"forward"`
	Right      [3]float64 `json:"right"`
	Up         [3]float64 `json:"up"`
	FOV        float64    `json:"fov"`
	PointColor string     `json:"point_color"`
	EdgeColor  string     `json:"edge_color"`
	ShowPoints bool       `json:"show_points"`
	ShowEdges  bool       `json:"show_edges"`
	Selected   string     `json:"selected,omitempty"`
	Structures int        `json:"structures"`
	Points     int        `json:"points"`
	Edges      int        `json:"edges"`
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected, _ := s.selectedName()
	return State{
		Mode:       s.mode.String(),
		Position:   s.camera.GetPosition(),
		Forward:    s.camera.Forward(),
		Right:      s.camera.Right(),
		Up:         s.camera.Up(),
		FOV:        s.camera.FOV(),
		PointColor: FormatColor(s.renderer.PointColor),
		EdgeColor:  FormatColor(s.renderer.EdgeColor),
		ShowPoints: s.renderer.ShowPoints,
		ShowEdges:  s.renderer.ShowEdges,
		Selected:   selected,
		Structures: s.world.Len(),
		Points:     len(s.world.Points()),
		Edges:      len(s.world.Edges()),
	}
}

// Render draws the current view onto canvas.
func (s *Session) Render(canvas Canvas) RenderStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Render(canvas, s.camera, s.world.Points(), s.world.Edges(), s.mode == ModeInteractive)
}

// Status is the one-line summary shown over the view.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, ok := s.selectedName()
	if !ok {
		name = "-"
	}
	p := s.camera.GetPosition()
	return fmt.Sprintf("mode: %s | structure: %s | pos: (%.0f, %.0f, %.0f) | fov: %.0f",
		s.mode, name, p.X(), p.Y(), p.Z(), s.camera.FOV())
}
