package wirecraft

// Mode selects how input moves the camera. Exactly one is active.
type Mode int

const (
	// ModeNormal is smooth free flight along the camera's own axes.
	ModeNormal Mode = iota
	// ModeGridAligned snaps position to the grid and rotation to quarter
	// turns, one step per cooldown while a key is held.
	ModeGridAligned
	// ModeInteractive is mouselook with level WASD movement and collision.
	ModeInteractive
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeGridAligned:
		return "grid"
	case ModeInteractive:
		return "interactive"
	}
	return "unknown"
}
