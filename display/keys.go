package display

import "github.com/hajimehoshi/ebiten/v2"

// keyCodes maps the key code names used by wirecraft bindings to ebiten keys.
var keyCodes = map[string]ebiten.Key{
	"KeyA":       ebiten.KeyA,
	"KeyC":       ebiten.KeyC,
	"KeyD":       ebiten.KeyD,
	"KeyE":       ebiten.KeyE,
	"KeyG":       ebiten.KeyG,
	"KeyI":       ebiten.KeyI,
	"KeyL":       ebiten.KeyL,
	"KeyP":       ebiten.KeyP,
	"KeyQ":       ebiten.KeyQ,
	"KeyS":       ebiten.KeyS,
	"KeyT":       ebiten.KeyT,
	"KeyW":       ebiten.KeyW,
	"ArrowUp":    ebiten.KeyArrowUp,
	"ArrowDown":  ebiten.KeyArrowDown,
	"ArrowLeft":  ebiten.KeyArrowLeft,
	"ArrowRight": ebiten.KeyArrowRight,
	"Space":      ebiten.KeySpace,
	"ShiftLeft":  ebiten.KeyShiftLeft,
	"ShiftRight": ebiten.KeyShiftRight,
	"Escape":     ebiten.KeyEscape,
	"Tab":        ebiten.KeyTab,
	"Digit0":     ebiten.KeyDigit0,
	"Digit1":     ebiten.KeyDigit1,
	"Digit2":     ebiten.KeyDigit2,
	"Digit3":     ebiten.KeyDigit3,
	"Digit4":     ebiten.KeyDigit4,
	"Digit5":     ebiten.KeyDigit5,
	"Digit6":     ebiten.KeyDigit6,
	"Digit7":     ebiten.KeyDigit7,
	"Digit8":     ebiten.KeyDigit8,
	"Digit9":     ebiten.KeyDigit9,
}
