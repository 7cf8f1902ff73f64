package renderer

import (
	"time"

	"liminal/pkg/engine/input"
	"liminal/pkg/engine/world"
	"liminal/pkg/game/state"
)

// TextStyle represents different text styling options
type TextStyle int

const (
	StyleNormal TextStyle = iota
	StyleRoom
	StyleDoor
	StyleDoorLocked
	StyleAction
	StyleActionShort
	StyleDenied
	StyleAnomaly
	StyleStage
	StyleSubtle
	StylePlayer
	StyleEndgame
)

// Hooks are the gameplay entry points a backend drives. The backend owns the
// loop; it never mutates the game state directly.
type Hooks struct {
	// Intent handles one key or button press.
	Intent func(g *state.Game, intent input.Intent)
	// Step advances the simulation by dt seconds.
	Step func(g *state.Game, dt float64)
	// GrabAt tries to take hold of the door under a pointer ray.
	GrabAt func(g *state.Game, ray world.Ray) bool
	// DragTo moves the pointer the held door follows.
	DragTo func(g *state.Game, ray world.Ray)
	// Release lets go of the held door.
	Release func(g *state.Game)

	// StepPeriod is the simulated time per step.
	StepPeriod time.Duration
}

// Renderer defines the interface for game rendering backends
type Renderer interface {
	// Init prepares the backend (colors, terminal mode, window)
	Init() error

	// Close undoes whatever Init changed
	Close()

	// Run drives the game loop until the player quits or the backend fails
	Run(g *state.Game, hooks Hooks) error

	// StyleText applies a style to text and returns the styled string.
	// For the TUI this applies ANSI colors; the window backend draws plain text.
	StyleText(text string, style TextStyle) string

	// FormatText formats a message with the renderer's markup system
	FormatText(msg string, args ...any) string
}

// Current holds the active renderer instance
var Current Renderer

// SetRenderer sets the active renderer
func SetRenderer(r Renderer) {
	Current = r
}

// StyleText applies a style to text
func StyleText(text string, style TextStyle) string {
	if Current != nil {
		return Current.StyleText(text, style)
	}
	return text
}

// ApplyMarkup formats a message with the active renderer's markup, or
// expands the markup without styling when no renderer is set.
func ApplyMarkup(msg string, args ...any) string {
	if Current != nil {
		return Current.FormatText(msg, args...)
	}
	return FormatString(PlainStyle, msg, args...)
}
