// Package gameplay provides core game logic for player movement and interactions.
package gameplay

import (
	"fmt"

	"github.com/leonelquinteros/gotext"

	engineinput "liminal/pkg/engine/input"
	"liminal/pkg/game/state"
)

// RefreshHints rebuilds the hint list for the room the player is in.
// Hints name the currently bound keys.
func RefreshHints(g *state.Game) {
	g.Hints = nil
	r := g.CurrentRoom()
	if r == nil {
		return
	}

	if r.IsEndgame() {
		g.AddHint(hintText("HINT_ENDGAME", keyFor(engineinput.ActionResetRun)))
		return
	}

	if !r.Completed() && !r.IsHallway() {
		g.AddHint(hintText("HINT_JUDGE",
			keyFor(engineinput.ActionJudgeAnomaly), keyFor(engineinput.ActionJudgeClear)))
	}
	if r.IsHallway() {
		g.AddHint(hintText("HINT_HALLWAY"))
	}
	if g.Rooms.Previous() != nil {
		g.AddHint(hintText("HINT_CLOSE_BEHIND"))
	}
	g.AddHint(hintText("HINT_GRAB",
		keyFor(engineinput.ActionGrab),
		keyFor(engineinput.ActionPushLeft), keyFor(engineinput.ActionPushRight)))
}

// lookupHint is used for hint translation lookups.
var lookupHint = gotext.Get

// hintText fills the translated hint with its key names. An untranslated key
// is returned as is.
func hintText(key string, keys ...any) string {
	msg := lookupHint(key)
	if msg == key || len(keys) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, keys...)
}

// keyFor returns the first key bound to an action, or "?" when unbound
func keyFor(a engineinput.Action) string {
	codes := engineinput.GetBindingsByAction()[a]
	if len(codes) == 0 {
		return "?"
	}
	return codes[0]
}
