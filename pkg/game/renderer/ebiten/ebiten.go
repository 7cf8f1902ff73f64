// Package ebiten provides an Ebiten-based 2D top-down renderer for Liminal.
package ebiten

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"

	"liminal/pkg/game/renderer"
	"liminal/pkg/game/state"
	"liminal/pkg/logger"
)

// keyRepeatInfo tracks the repeat state for a key or button
type keyRepeatInfo struct {
	firstPressed int64 // Timestamp when first pressed (milliseconds)
	lastRepeat   int64 // Timestamp when last repeat event was sent (milliseconds)
}

// EbitenRenderer draws the live rooms from above and drives the game from
// Ebiten's update loop. Doors are dragged with the mouse.
type EbitenRenderer struct {
	windowWidth  int
	windowHeight int

	// Pixels per metre, adjustable with the zoom keys
	zoom float64

	monoFontSource *text.GoTextFaceSource
	face           *text.GoTextFace

	game  *state.Game
	hooks renderer.Hooks
	dt    float64

	keyRepeatState map[string]keyRepeatInfo
	dragging       bool

	windowOpenedLogged bool
}

// New creates a new Ebiten renderer
func New() *EbitenRenderer {
	return &EbitenRenderer{
		windowWidth:    1024,
		windowHeight:   768,
		zoom:           defaultZoom,
		keyRepeatState: make(map[string]keyRepeatInfo),
	}
}

// Init loads the font and sets up the window
func (e *EbitenRenderer) Init() error {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return fmt.Errorf("ebiten: loading font: %w", err)
	}
	e.monoFontSource = src
	e.face = &text.GoTextFace{Source: src, Size: fontSize}

	ebiten.SetWindowSize(e.windowWidth, e.windowHeight)
	ebiten.SetWindowTitle("Liminal")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return nil
}

// Close is a no-op; Ebiten releases the window when RunGame returns
func (e *EbitenRenderer) Close() {}

// Run blocks in Ebiten's loop until the player quits or closes the window
func (e *EbitenRenderer) Run(g *state.Game, hooks renderer.Hooks) error {
	e.game = g
	e.hooks = hooks

	period := hooks.StepPeriod
	if period <= 0 {
		period = time.Second / 30
	}
	e.dt = period.Seconds()
	ebiten.SetTPS(int(math.Round(1 / e.dt)))

	err := ebiten.RunGame(e)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Layout returns the game's logical screen size (Ebiten interface)
func (e *EbitenRenderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	e.windowWidth = outsideWidth
	e.windowHeight = outsideHeight
	return outsideWidth, outsideHeight
}

// Update handles input and advances the simulation one step (Ebiten interface)
func (e *EbitenRenderer) Update() error {
	if !e.windowOpenedLogged {
		e.windowOpenedLogged = true
		w, h := ebiten.WindowSize()
		logger.Info("window opened", "width", w, "height", h)
	}
	g := e.game
	if g == nil {
		return nil
	}

	e.handlePointer(g)
	e.handleKeys(g)
	e.handleGamepad(g)
	if g.Quit {
		return ebiten.Termination
	}

	e.hooks.Step(g, e.dt)
	return nil
}

// StyleText returns text unchanged; colour is chosen per draw call
func (e *EbitenRenderer) StyleText(text string, _ renderer.TextStyle) string {
	return text
}

// FormatText formats a message with the markup system
func (e *EbitenRenderer) FormatText(msg string, args ...any) string {
	return renderer.FormatString(e.StyleText, msg, args...)
}

func (e *EbitenRenderer) zoomIn() {
	e.zoom = math.Min(maxZoom, e.zoom+zoomStep)
}

func (e *EbitenRenderer) zoomOut() {
	e.zoom = math.Max(minZoom, e.zoom-zoomStep)
}
