package wirecraft

// Action is a held-key intent sampled once per frame.
type Action int

const (
	ActionForward Action = iota
	ActionBack
	ActionLeft
	ActionRight
	ActionUp
	ActionDown
	ActionYawLeft
	ActionYawRight
	ActionPitchUp
	ActionPitchDown
	ActionRollLeft
	ActionRollRight
	ActionFast
)

// Actions is the set of actions held during a frame.
type Actions uint32

func NewActions(actions ...Action) Actions {
	var a Actions
	for _, act := range actions {
		a = a.With(act)
	}
	return a
}

func (a Actions) With(act Action) Actions {
	return a | 1<<uint(act)
}

func (a Actions) Has(act Action) bool {
	return a&(1<<uint(act)) != 0
}

// axis returns +1, -1 or 0 for a pair of opposing actions.
func (a Actions) axis(pos, neg Action) float64 {
	var v float64
	if a.Has(pos) {
		v++
	}
	if a.Has(neg) {
		v--
	}
	return v
}

// CommandKind is a discrete key-down command.
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandToggleGrid
	CommandToggleInteractive
	CommandNormalMode
	CommandTogglePoints
	CommandToggleEdges
	CommandSnapToGrid
	CommandNextStructure
	CommandSelectSlot
)

// Command is a key-down event. Slot is used by CommandSelectSlot only.
type Command struct {
	Kind CommandKind
	Slot int
}

// Key names follow the W3C KeyboardEvent.code values.
var (
	flightBindings = map[string]Action{
		"KeyW":       ActionPitchUp,
		"KeyS":       ActionPitchDown,
		"KeyA":       ActionYawLeft,
		"KeyD":       ActionYawRight,
		"KeyQ":       ActionRollLeft,
		"KeyE":       ActionRollRight,
		"ArrowUp":    ActionForward,
		"ArrowDown":  ActionBack,
		"ArrowLeft":  ActionLeft,
		"ArrowRight": ActionRight,
		"Space":      ActionUp,
		"KeyC":       ActionDown,
		"ShiftLeft":  ActionFast,
		"ShiftRight": ActionFast,
	}

	walkBindings = map[string]Action{
		"KeyW":       ActionForward,
		"KeyS":       ActionBack,
		"KeyA":       ActionLeft,
		"KeyD":       ActionRight,
		"ArrowUp":    ActionForward,
		"ArrowDown":  ActionBack,
		"ArrowLeft":  ActionLeft,
		"ArrowRight": ActionRight,
		"Space":      ActionUp,
		"KeyC":       ActionDown,
		"ShiftLeft":  ActionFast,
		"ShiftRight": ActionFast,
	}

	commandBindings = map[string]Command{
		"KeyG":   {Kind: CommandToggleGrid},
		"KeyI":   {Kind: CommandToggleInteractive},
		"Escape": {Kind: CommandNormalMode},
		"KeyP":   {Kind: CommandTogglePoints},
		"KeyL":   {Kind: CommandToggleEdges},
		"KeyT":   {Kind: CommandSnapToGrid},
		"Tab":    {Kind: CommandNextStructure},
		"Digit1": {Kind: CommandSelectSlot, Slot: 1},
		"Digit2": {Kind: CommandSelectSlot, Slot: 2},
		"Digit3": {Kind: CommandSelectSlot, Slot: 3},
		"Digit4": {Kind: CommandSelectSlot, Slot: 4},
		"Digit5": {Kind: CommandSelectSlot, Slot: 5},
		"Digit6": {Kind: CommandSelectSlot, Slot: 6},
		"Digit7": {Kind: CommandSelectSlot, Slot: 7},
		"Digit8": {Kind: CommandSelectSlot, Slot: 8},
		"Digit9": {Kind: CommandSelectSlot, Slot: 9},
		"Digit0": {Kind: CommandSelectSlot, Slot: 0},
	}
)

// Bindings returns the held-key map for mode, keyed by key code name.
func Bindings(mode Mode) map[string]Action {
	switch mode {
	case ModeNormal, ModeGridAligned:
		return flightBindings
	case ModeInteractive:
		return walkBindings
	}
	return nil
}

// CommandFor looks up the key-down command bound to a key code name.
func CommandFor(code string) (Command, bool) {
	c, ok := commandBindings[code]
	return c, ok
}

// Input is one frame's worth of sampled input.
type Input struct {
	Held Actions
}

// Commands returns the key-down command map, keyed by key code name.
func Commands() map[string]Command {
	return commandBindings
}
