// Package gameplay provides core game logic for player movement and interactions.
package gameplay

import (
	"math/rand"

	engineinput "liminal/pkg/engine/input"
	"liminal/pkg/game/devtools"
	"liminal/pkg/game/renderer"
	"liminal/pkg/game/state"
	"liminal/pkg/logger"
)

// ProcessIntent handles a high-level input intent from the tiered input system.
func ProcessIntent(g *state.Game, intent engineinput.Intent) {
	switch intent.Action {
	case engineinput.ActionNone:
		return

	case engineinput.ActionQuit:
		g.Quit = true
		return

	case engineinput.ActionHint:
		if len(g.Hints) == 0 {
			RefreshHints(g)
		}
		if len(g.Hints) > 0 {
			logMessage(g, "%s", g.Hints[rand.Intn(len(g.Hints))])
		}
		return

	case engineinput.ActionDump:
		path, err := devtools.DumpGraphToFile(g)
		if err != nil {
			logger.Error("graph dump failed", "error", err)
			logMessage(g, "DENIED{GT{DUMP_FAILED}}")
		} else {
			logMessage(g, "GT{DUMP_WRITTEN} %s", path)
		}
		return

	case engineinput.ActionResetRun:
		if err := ResetRun(g); err != nil {
			logger.Error("reset failed", "error", err)
			logMessage(g, "DENIED{GT{RESET_FAILED}}")
		}
		return

	case engineinput.ActionMoveForward:
		Walk(g, 1, 0)
		return
	case engineinput.ActionMoveBack:
		Walk(g, -1, 0)
		return
	case engineinput.ActionStrafeLeft:
		Walk(g, 0, -1)
		return
	case engineinput.ActionStrafeRight:
		Walk(g, 0, 1)
		return
	case engineinput.ActionTurnLeft:
		Turn(g, -1)
		return
	case engineinput.ActionTurnRight:
		Turn(g, 1)
		return

	case engineinput.ActionGrab:
		// Grab toggles so a single key can both take and drop a door
		if g.Holding() {
			Release(g)
			return
		}
		GrabNearest(g)
		return
	case engineinput.ActionRelease:
		Release(g)
		return
	case engineinput.ActionPushLeft:
		Push(g, -1)
		return
	case engineinput.ActionPushRight:
		Push(g, 1)
		return

	case engineinput.ActionJudgeAnomaly:
		Judge(g, true)
		return
	case engineinput.ActionJudgeClear:
		Judge(g, false)
		return

	case engineinput.ActionZoomIn, engineinput.ActionZoomOut:
		// Backends that can zoom handle these themselves
		return
	}

	logMessage(g, "GT{UNKNOWN_COMMAND}")
}

// Hooks wires the gameplay entry points for a renderer backend
func Hooks(g *state.Game) renderer.Hooks {
	return renderer.Hooks{
		Intent:     ProcessIntent,
		Step:       Step,
		GrabAt:     GrabAt,
		DragTo:     DragTo,
		Release:    Release,
		StepPeriod: secondsToDuration(g.Tuning.StepPeriod),
	}
}
