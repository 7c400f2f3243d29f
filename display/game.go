// Package display runs a wirecraft session in an ebiten window.
package display

import (
	"errors"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/smasonuk/wirecraft"
)

// Game is the ebiten front end. The scene is drawn into a cached frame that
// is only repainted when the session reports a change or the window resizes.
type Game struct {
	session *wirecraft.Session

	frame        *ebiten.Image
	keyNames     map[ebiten.Key]string
	pressed      []ebiten.Key
	captured     bool
	lastX, lastY int
}

func NewGame(session *wirecraft.Session) *Game {
	g := &Game{
		session:  session,
		keyNames: make(map[ebiten.Key]string, len(keyCodes)),
	}
	for name, key := range keyCodes {
		g.keyNames[key] = name
	}
	return g
}

func (g *Game) Update() error {
	for _, key := range g.justPressed() {
		if cmd, ok := wirecraft.CommandFor(g.keyNames[key]); ok {
			g.session.Apply(cmd)
		}
	}

	mode := g.session.Mode()
	var held wirecraft.Actions
	for code, act := range wirecraft.Bindings(mode) {
		if key, ok := keyCodes[code]; ok && ebiten.IsKeyPressed(key) {
			held = held.With(act)
		}
	}
	dt := time.Second / time.Duration(ebiten.TPS())
	g.session.Update(dt, wirecraft.Input{Held: held})

	g.updateMouse(mode, held.Has(wirecraft.ActionFast))
	return nil
}

func (g *Game) justPressed() []ebiten.Key {
	g.pressed = inpututil.AppendJustPressedKeys(g.pressed[:0])
	return g.pressed
}

func (g *Game) updateMouse(mode wirecraft.Mode, fast bool) {
	if mode == wirecraft.ModeInteractive {
		x, y := ebiten.CursorPosition()
		if !g.captured {
			ebiten.SetCursorMode(ebiten.CursorModeCaptured)
			g.captured = true
		} else {
			g.session.Look(float64(x-g.lastX), float64(y-g.lastY), fast)
		}
		g.lastX, g.lastY = x, y
	} else if g.captured {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		g.captured = false
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if _, err := g.session.RemoveTargeted(); errors.Is(err, wirecraft.ErrNoTarget) {
			log.Println("nothing to remove")
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if _, err := g.session.PlaceTargeted(); errors.Is(err, wirecraft.ErrNoTarget) {
			log.Println("nothing to place against")
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	resized := g.frame == nil || g.frame.Bounds().Dx() != w || g.frame.Bounds().Dy() != h
	if resized {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(w, h)
	}
	if g.session.TakeDirty() || resized {
		g.session.Render(imageCanvas{img: g.frame})
	}

	screen.DrawImage(g.frame, nil)
	ebitenutil.DebugPrint(screen, g.session.Status())
}

// Layout keeps the canvas square, sized to the shorter window side.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	n := max(min(outsideWidth, outsideHeight), 1)
	return n, n
}

// Run opens the window and blocks until it is closed.
func Run(session *wirecraft.Session, cfg wirecraft.WindowConfig) error {
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	log.Println("Opening window...")
	return ebiten.RunGame(NewGame(session))
}
