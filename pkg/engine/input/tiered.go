package input

import (
	"sort"
	"time"
)

// Device represents a physical input source.
type Device int

const (
	DeviceUnknown Device = iota
	DeviceKeyboard
	DeviceMouse
	DeviceGamepad
	DeviceTerminal
)

// Action represents a high‑level intent in the game.
type Action int

const (
	ActionNone Action = iota

	// Movement
	ActionMoveForward
	ActionMoveBack
	ActionStrafeLeft
	ActionStrafeRight
	ActionTurnLeft
	ActionTurnRight

	// Doors
	ActionGrab      // Grab the nearest door, or let go of the held one
	ActionRelease   // Let go of the held door
	ActionPushLeft  // Swing the held door anticlockwise
	ActionPushRight // Swing the held door clockwise

	// Judgment
	ActionJudgeAnomaly // "Something is wrong in this room"
	ActionJudgeClear   // "This room is normal"

	// Meta / UI
	ActionHint
	ActionQuit
	ActionDump     // Write the room graph to a file (F9)
	ActionResetRun // Start the run over (F5)
	ActionZoomIn
	ActionZoomOut
)

// Intent is the 4th‑layer, high‑level description of what the player wants to do.
type Intent struct {
	Action Action
}

// RawInput is the 1st‑layer event emitted directly from an input device.
// Code is a device‑specific identifier (e.g. "w", "arrow_up", "gamepad_a").
type RawInput struct {
	Device    Device
	Code      string
	Timestamp time.Time
}

// DebouncedInput is the 2nd‑layer representation after debouncing.
type DebouncedInput struct {
	Device Device
	Code   string
}

// NewDebouncedInput converts a raw event to a debounced event.
func NewDebouncedInput(raw RawInput) DebouncedInput {
	return DebouncedInput{
		Device: raw.Device,
		Code:   raw.Code,
	}
}

// defaultBindings maps raw codes to actions (3rd-layer bindings).
// Multiple codes may point to the same Action.
func defaultBindings() map[string]Action {
	return map[string]Action{
		// Movement (arrows, WASD)
		"arrow_up":    ActionMoveForward,
		"w":           ActionMoveForward,
		"arrow_down":  ActionMoveBack,
		"s":           ActionMoveBack,
		"a":           ActionStrafeLeft,
		"d":           ActionStrafeRight,
		"arrow_left":  ActionTurnLeft,
		"h":           ActionTurnLeft,
		"arrow_right": ActionTurnRight,
		"l":           ActionTurnRight,

		// Doors
		"e":     ActionGrab,
		"enter": ActionGrab,
		"r":     ActionRelease,
		"[":     ActionPushLeft,
		"]":     ActionPushRight,

		// Judgment
		"f": ActionJudgeAnomaly,
		"c": ActionJudgeClear,

		// Help / hint
		"?":    ActionHint,
		"hint": ActionHint,

		// Quit
		"quit":   ActionQuit,
		"q":      ActionQuit,
		"escape": ActionQuit,
		"ctrl_c": ActionQuit,

		// Developer
		"f9":    ActionDump,
		"dump":  ActionDump,
		"f5":    ActionResetRun,
		"reset": ActionResetRun,

		// Zoom (fixed bindings, not rebindable)
		"=":               ActionZoomIn,
		"+":               ActionZoomIn,
		"numpad_add":      ActionZoomIn,
		"-":               ActionZoomOut,
		"numpad_subtract": ActionZoomOut,

		// Controller/gamepad specific bindings
		"gamepad_dpad_up":    ActionMoveForward,
		"gamepad_dpad_down":  ActionMoveBack,
		"gamepad_dpad_left":  ActionTurnLeft,
		"gamepad_dpad_right": ActionTurnRight,
		"gamepad_a":          ActionGrab,
		"gamepad_b":          ActionRelease,
		"gamepad_x":          ActionJudgeAnomaly,
		"gamepad_y":          ActionJudgeClear,
		"gamepad_start":      ActionQuit,
	}
}

var bindings = defaultBindings()

// reserved codes cannot be rebound or cleared
var reserved = map[string]bool{
	"arrow_up":    true,
	"arrow_down":  true,
	"arrow_left":  true,
	"arrow_right": true,
	"e":           true,
	"enter":       true,
	"gamepad_a":   true,
	"ctrl_c":      true,
}

// MapToIntent is the 3rd+4th layer: it applies the current bindings to a
// debounced input and returns a high‑level Intent.
func MapToIntent(ev DebouncedInput) Intent {
	if act, ok := bindings[ev.Code]; ok {
		return Intent{Action: act}
	}
	return Intent{Action: ActionNone}
}

// actionKeys are the configuration names of rebindable actions
var actionKeys = map[string]Action{
	"move_forward":  ActionMoveForward,
	"move_back":     ActionMoveBack,
	"strafe_left":   ActionStrafeLeft,
	"strafe_right":  ActionStrafeRight,
	"turn_left":     ActionTurnLeft,
	"turn_right":    ActionTurnRight,
	"grab":          ActionGrab,
	"release":       ActionRelease,
	"push_left":     ActionPushLeft,
	"push_right":    ActionPushRight,
	"judge_anomaly": ActionJudgeAnomaly,
	"judge_clear":   ActionJudgeClear,
	"hint":          ActionHint,
	"quit":          ActionQuit,
	"dump":          ActionDump,
	"reset":         ActionResetRun,
}

// ParseAction looks up an action by its configuration name (e.g. "judge_clear").
func ParseAction(name string) (Action, bool) {
	a, ok := actionKeys[name]
	return a, ok
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionMoveForward:
		return "Move Forward"
	case ActionMoveBack:
		return "Move Back"
	case ActionStrafeLeft:
		return "Strafe Left"
	case ActionStrafeRight:
		return "Strafe Right"
	case ActionTurnLeft:
		return "Turn Left"
	case ActionTurnRight:
		return "Turn Right"
	case ActionGrab:
		return "Grab Door"
	case ActionRelease:
		return "Release Door"
	case ActionPushLeft:
		return "Push Door Left"
	case ActionPushRight:
		return "Push Door Right"
	case ActionJudgeAnomaly:
		return "Report Anomaly"
	case ActionJudgeClear:
		return "Report Clear"
	case ActionHint:
		return "Hint"
	case ActionQuit:
		return "Quit"
	case ActionDump:
		return "Dump Graph"
	case ActionResetRun:
		return "Reset Run"
	case ActionZoomIn:
		return "Zoom In"
	case ActionZoomOut:
		return "Zoom Out"
	default:
		return "None"
	}
}

// GetBindingsByAction returns the current bindings grouped by action.
func GetBindingsByAction() map[Action][]string {
	result := make(map[Action][]string)
	for code, act := range bindings {
		result[act] = append(result[act], code)
	}
	// Stable ordering so the help line doesn't flicker.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}

// SetSingleBinding replaces all non-reserved bindings for the given action
// with a single code. Reserved codes are never rebound.
func SetSingleBinding(action Action, code string) {
	for c, a := range bindings {
		if reserved[c] {
			continue
		}
		if a == action {
			delete(bindings, c)
		}
	}
	if code != "" && !reserved[code] {
		bindings[code] = action
	}
}

// ResetBindings restores the stock key map
func ResetBindings() {
	bindings = defaultBindings()
}
