// Package ebiten provides an Ebiten-based 2D top-down renderer for Liminal.
package ebiten

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/leonelquinteros/gotext"

	"liminal/pkg/game/gameplay"
	"liminal/pkg/game/state"
)

// dynamicGet is used for runtime translation key lookups.
var dynamicGet = gotext.Get

// hudLine is one line of panel text
type hudLine struct {
	text string
	col  color.Color
}

// drawColoredText draws one line of UI text with its top-left at x, y
func (e *EbitenRenderer) drawColoredText(screen *ebiten.Image, str string, x, y float64, col color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, str, e.face, op)
}

// drawHeader shows the stage, room, cue and hints in the top-left panel
func (e *EbitenRenderer) drawHeader(screen *ebiten.Image, g *state.Game) {
	room := g.CurrentRoom()
	if room == nil {
		return
	}

	lines := []hudLine{
		{fmt.Sprintf("%s %d   %s %s", gotext.Get("TUI_STAGE"), g.Rooms.CurrentStage(), gotext.Get("TUI_ROOM"), room.Name()), colorText},
	}
	if g.Rooms.IsEndgameReached() {
		lines = append(lines, hudLine{gotext.Get("ENDGAME_REACHED"), colorEndgame})
	}
	if cue := gameplay.AnomalyCue(room); cue != "" {
		lines = append(lines, hudLine{dynamicGet(cue), colorSubtle})
	}
	for _, h := range g.Hints {
		lines = append(lines, hudLine{"- " + h, colorAction})
	}

	width := 0.0
	for _, l := range lines {
		w, _ := text.Measure(l.text, e.face, lineHeight)
		if w > width {
			width = w
		}
	}
	vector.DrawFilledRect(screen, 0, 0, float32(width+panelPad*2), float32(float64(len(lines))*lineHeight+panelPad*2), colorPanelBackdrop, false)

	y := panelPad
	for _, l := range lines {
		e.drawColoredText(screen, l.text, panelPad, y, l.col)
		y += lineHeight
	}
}

// drawMessages shows the message log along the bottom of the window
func (e *EbitenRenderer) drawMessages(screen *ebiten.Image, g *state.Game) {
	if len(g.Messages) == 0 {
		return
	}
	h := float64(len(g.Messages))*lineHeight + panelPad*2
	top := float64(e.windowHeight) - h
	vector.DrawFilledRect(screen, 0, float32(top), float32(e.windowWidth), float32(h), colorPanelBackdrop, false)

	y := top + panelPad
	for i, msg := range g.Messages {
		col := colorSubtle
		if i == len(g.Messages)-1 {
			col = colorText
		}
		e.drawColoredText(screen, msg, panelPad, y, col)
		y += lineHeight
	}
}
