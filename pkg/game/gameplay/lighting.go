// Package gameplay provides core game logic for player movement and interactions.
package gameplay

import (
	"math"

	"liminal/pkg/game/entities"
	"liminal/pkg/game/state"
)

// Light levels, 0 (dark) to 1 (fully lit)
const (
	lightFull     = 1.0
	lightHallway  = 0.6
	lightDisabled = 0.25
	lightFlickLow = 0.15
)

// flickerPeriod is the simulated seconds of one flicker cycle
const flickerPeriod = 0.7

// RoomLight returns how lit a room is at the current game clock.
// Disabled rooms are dimmed and show no anomaly effects.
func RoomLight(g *state.Game, r *entities.Room) float64 {
	switch {
	case r == nil:
		return 0
	case r.Disabled():
		return lightDisabled
	case r.IsHallway():
		return lightHallway
	}
	if a := r.Anomaly(); a != nil && a.Kind == entities.AnomalyFlickeringLights {
		// Dark for the last fifth of every cycle
		if math.Mod(g.Clock, flickerPeriod) > flickerPeriod*0.8 {
			return lightFlickLow
		}
	}
	return lightFull
}

// AnomalyCue returns the message key for what the player perceives in a
// room, or "" when nothing is out of place. Disabled rooms give no cues.
func AnomalyCue(r *entities.Room) string {
	if r == nil || r.Disabled() || r.Anomaly() == nil {
		return ""
	}
	switch r.Anomaly().Kind {
	case entities.AnomalyObjectDisappear:
		return "CUE_OBJECT_MISSING"
	case entities.AnomalyObjectMoving:
		return "CUE_OBJECT_MOVED"
	case entities.AnomalyRadioNoise:
		return "CUE_RADIO_NOISE"
	case entities.AnomalyStatic:
		return "CUE_STATIC"
	case entities.AnomalyStrangeAudio:
		return "CUE_STRANGE_AUDIO"
	case entities.AnomalyFlickeringLights:
		return "CUE_FLICKER"
	case entities.AnomalyLargeObject:
		return "CUE_LARGE_OBJECT"
	}
	return ""
}
