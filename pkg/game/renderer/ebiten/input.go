// Package ebiten provides an Ebiten-based 2D top-down renderer for Liminal.
package ebiten

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	engineinput "liminal/pkg/engine/input"
	"liminal/pkg/game/state"
)

// specialKeys maps non-letter keys to the codes bindings use
var specialKeys = map[ebiten.Key]string{
	ebiten.KeyArrowUp:        "arrow_up",
	ebiten.KeyArrowDown:      "arrow_down",
	ebiten.KeyArrowLeft:      "arrow_left",
	ebiten.KeyArrowRight:     "arrow_right",
	ebiten.KeyEnter:          "enter",
	ebiten.KeyNumpadEnter:    "enter",
	ebiten.KeyEscape:         "escape",
	ebiten.KeySpace:          "space",
	ebiten.KeyBracketLeft:    "[",
	ebiten.KeyBracketRight:   "]",
	ebiten.KeyEqual:          "=",
	ebiten.KeyMinus:          "-",
	ebiten.KeyNumpadAdd:      "numpad_add",
	ebiten.KeyNumpadSubtract: "numpad_subtract",
	ebiten.KeyF5:             "f5",
	ebiten.KeyF9:             "f9",
	ebiten.KeySlash:          "/",
	ebiten.KeyComma:          ",",
	ebiten.KeyPeriod:         ".",
	ebiten.KeySemicolon:      ";",
}

// keyCode returns the binding code for a key given the modifier state, or ""
func keyCode(k ebiten.Key, shift, ctrl bool) string {
	if k >= ebiten.KeyA && k <= ebiten.KeyZ {
		c := string(rune('a' + int(k-ebiten.KeyA)))
		if ctrl && c == "c" {
			return "ctrl_c"
		}
		return c
	}
	if k >= ebiten.Key0 && k <= ebiten.Key9 {
		return string(rune('0' + int(k-ebiten.Key0)))
	}
	if k == ebiten.KeySlash && shift {
		return "?"
	}
	return specialKeys[k]
}

// repeats reports whether holding the key for an action should repeat it
func repeats(a engineinput.Action) bool {
	switch a {
	case engineinput.ActionMoveForward, engineinput.ActionMoveBack,
		engineinput.ActionStrafeLeft, engineinput.ActionStrafeRight,
		engineinput.ActionTurnLeft, engineinput.ActionTurnRight,
		engineinput.ActionPushLeft, engineinput.ActionPushRight:
		return true
	}
	return false
}

// handlePointer grabs the door under the mouse, drags it while the button is
// held and lets go on release.
func (e *EbitenRenderer) handlePointer(g *state.Game) {
	mx, my := ebiten.CursorPosition()
	ray := e.camera(g).Ray(float64(mx), float64(my))

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		e.dragging = e.hooks.GrabAt(g, ray)
	case e.dragging && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		e.hooks.DragTo(g, ray)
	case e.dragging && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		e.dragging = false
		e.hooks.Release(g)
	}
}

// handleKeys maps every pressed key through the bindings. Movement repeats
// while held; everything else fires once per press.
func (e *EbitenRenderer) handleKeys(g *state.Game) {
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)

	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		code := keyCode(k, shift, ctrl)
		if code == "" {
			continue
		}
		intent := engineinput.MapToIntent(engineinput.NewDebouncedInput(engineinput.RawInput{
			Device:    engineinput.DeviceKeyboard,
			Code:      code,
			Timestamp: time.Now(),
		}))
		if intent.Action == engineinput.ActionNone {
			continue
		}

		key := k
		var fire bool
		if repeats(intent.Action) {
			fire = e.shouldRepeatKey(func() bool { return ebiten.IsKeyPressed(key) }, "key_"+code)
		} else {
			fire = inpututil.IsKeyJustPressed(key)
		}
		if fire {
			e.dispatch(g, intent)
		}
	}
}

// handleGamepad reads the d-pad and face buttons of every connected pad.
// Button indices are tuned for common XInput-style controllers.
func (e *EbitenRenderer) handleGamepad(g *state.Game) {
	var ids []ebiten.GamepadID
	ids = ebiten.AppendGamepadIDs(ids[:0])

	held := map[ebiten.GamepadButton]string{
		ebiten.GamepadButton11: "gamepad_dpad_up",
		ebiten.GamepadButton12: "gamepad_dpad_right",
		ebiten.GamepadButton13: "gamepad_dpad_down",
		ebiten.GamepadButton14: "gamepad_dpad_left",
	}
	pressed := map[ebiten.GamepadButton]string{
		ebiten.GamepadButton0: "gamepad_a",
		ebiten.GamepadButton1: "gamepad_b",
		ebiten.GamepadButton2: "gamepad_x",
		ebiten.GamepadButton3: "gamepad_y",
		ebiten.GamepadButton7: "gamepad_start",
	}

	for _, id := range ids {
		for button, code := range held {
			id, button := id, button
			repeatCode := fmt.Sprintf("gamepad_%d_%d", id, button)
			if e.shouldRepeatKey(func() bool { return ebiten.IsGamepadButtonPressed(id, button) }, repeatCode) {
				e.dispatch(g, gamepadIntent(code))
			}
		}
		for button, code := range pressed {
			if inpututil.IsGamepadButtonJustPressed(id, button) {
				e.dispatch(g, gamepadIntent(code))
			}
		}
	}
}

func gamepadIntent(code string) engineinput.Intent {
	return engineinput.MapToIntent(engineinput.NewDebouncedInput(engineinput.RawInput{
		Device:    engineinput.DeviceGamepad,
		Code:      code,
		Timestamp: time.Now(),
	}))
}

// dispatch handles zoom locally and passes everything else to the game
func (e *EbitenRenderer) dispatch(g *state.Game, intent engineinput.Intent) {
	switch intent.Action {
	case engineinput.ActionNone:
	case engineinput.ActionZoomIn:
		e.zoomIn()
	case engineinput.ActionZoomOut:
		e.zoomOut()
	default:
		e.hooks.Intent(g, intent)
	}
}

// shouldRepeatKey checks if a key/button should trigger (initial press or repeat)
func (e *EbitenRenderer) shouldRepeatKey(isPressed func() bool, code string) bool {
	now := time.Now().UnixMilli()

	pressed := isPressed()
	state, exists := e.keyRepeatState[code]

	if !pressed {
		if exists {
			delete(e.keyRepeatState, code)
		}
		return false
	}

	if !exists {
		// First press - record it and trigger immediately
		e.keyRepeatState[code] = keyRepeatInfo{
			firstPressed: now,
			lastRepeat:   now,
		}
		return true
	}

	// Key is held - repeat once the initial delay has passed
	if now-state.firstPressed >= keyRepeatInitialDelay && now-state.lastRepeat >= keyRepeatInterval {
		state.lastRepeat = now
		e.keyRepeatState[code] = state
		return true
	}
	return false
}
