package wirecraft

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds everything a viewer needs besides the world itself.
type Config struct {
	Server   string         `yaml:"server"`
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Render   RenderConfig   `yaml:"render"`
	Controls ControlsConfig `yaml:"controls"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type CameraConfig struct {
	Position []float64 `yaml:"position"`
	FOV      float64   `yaml:"fov"`
}

type RenderConfig struct {
	Background  string  `yaml:"background"`
	PointColor  string  `yaml:"point_color"`
	EdgeColor   string  `yaml:"edge_color"`
	PointRadius float64 `yaml:"point_radius"`
	LineWidth   float64 `yaml:"line_width"`
	ShowPoints  bool    `yaml:"show_points"`
	ShowEdges   bool    `yaml:"show_edges"`
}

// ControlsConfig speeds are per second; sensitivity is degrees per pixel.
type ControlsConfig struct {
	MoveSpeed        float64       `yaml:"move_speed"`
	FastMove         float64       `yaml:"fast_move"`
	RotateSpeed      float64       `yaml:"rotate_speed"`
	FastRotate       float64       `yaml:"fast_rotate"`
	MouseSensitivity float64       `yaml:"mouse_sensitivity"`
	FastMouse        float64       `yaml:"fast_mouse"`
	GridCooldown     time.Duration `yaml:"grid_cooldown"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: "http://localhost:5000",
		Window: WindowConfig{Title: "wirecraft", Width: 800, Height: 800},
		Camera: CameraConfig{Position: []float64{0, 0, -500}, FOV: DefaultFOV},
		Render: RenderConfig{
			Background:  "#000000",
			PointColor:  "#0000ff",
			EdgeColor:   "#00ff0099",
			PointRadius: 8,
			LineWidth:   2,
			ShowPoints:  true,
			ShowEdges:   true,
		},
		Controls: ControlsConfig{
			MoveSpeed:        200,
			FastMove:         5,
			RotateSpeed:      90,
			FastRotate:       10,
			MouseSensitivity: 0.1,
			FastMouse:        2,
			GridCooldown:     500 * time.Millisecond,
		},
	}
}

// LoadConfig reads a YAML file over the defaults, so a file only needs the
// keys it changes.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Camera.Position) != 3 {
		return fmt.Errorf("%w: camera.position needs 3 coordinates, got %d", ErrInvalidConfig, len(c.Camera.Position))
	}
	for _, v := range c.Camera.Position {
		if !isFinite(v) {
			return fmt.Errorf("%w: camera.position %v", ErrInvalidConfig, c.Camera.Position)
		}
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("%w: camera.fov %v out of range (0, 180)", ErrInvalidConfig, c.Camera.FOV)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	for name, s := range map[string]string{
		"render.background":  c.Render.Background,
		"render.point_color": c.Render.PointColor,
		"render.edge_color":  c.Render.EdgeColor,
	} {
		if _, err := ParseColor(s); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
		}
	}
	if c.Render.PointRadius < 0 || c.Render.LineWidth < 0 {
		return fmt.Errorf("%w: negative point radius or line width", ErrInvalidConfig)
	}
	ctl := c.Controls
	if ctl.MoveSpeed < 0 || ctl.RotateSpeed < 0 || ctl.MouseSensitivity < 0 {
		return fmt.Errorf("%w: negative control speed", ErrInvalidConfig)
	}
	if ctl.FastMove < 1 || ctl.FastRotate < 1 || ctl.FastMouse < 1 {
		return fmt.Errorf("%w: fast multipliers must be at least 1", ErrInvalidConfig)
	}
	if ctl.GridCooldown < 0 {
		return fmt.Errorf("%w: negative grid cooldown", ErrInvalidConfig)
	}
	return nil
}

// NewRendererFromConfig builds a renderer from the render section. The
// config is expected to have passed Validate.
func NewRendererFromConfig(rc RenderConfig) (*Renderer, error) {
	r := NewRenderer()
	var err error
	if r.Background, err = ParseColor(rc.Background); err != nil {
		return nil, err
	}
	if r.PointColor, err = ParseColor(rc.PointColor); err != nil {
		return nil, err
	}
	if r.EdgeColor, err = ParseColor(rc.EdgeColor); err != nil {
		return nil, err
	}
	r.PointRadius = rc.PointRadius
	r.LineWidth = rc.LineWidth
	r.ShowPoints = rc.ShowPoints
	r.ShowEdges = rc.ShowEdges
	return r, nil
}
