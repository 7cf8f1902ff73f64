package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gookit/color"

	"liminal/pkg/engine/input"
	"liminal/pkg/engine/terminal"
	"liminal/pkg/game/devtools"
	"liminal/pkg/game/entities"
	"liminal/pkg/game/gameplay"
	"liminal/pkg/game/renderer"
	"liminal/pkg/game/state"
)

// Floor plan sizing
const (
	PlanMinRows   = 7
	PlanMinCols   = 15
	PlanScale     = 0.5 // metres per column
	PlanTopMargin = 22  // header, doors, hints, messages and help lines
)

// redrawEvery is how many simulation steps pass between idle redraws
const redrawEvery = 3

// Screen control sequences
const (
	clearScreen = "\x1b[H\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// helpActions are listed on the bottom line of every frame
var helpActions = []input.Action{
	input.ActionMoveForward, input.ActionTurnLeft, input.ActionTurnRight,
	input.ActionGrab, input.ActionPushLeft, input.ActionPushRight,
	input.ActionJudgeAnomaly, input.ActionJudgeClear, input.ActionHint, input.ActionQuit,
}

// TUIRenderer is the terminal-based renderer implementation
type TUIRenderer struct {
	colorRoom        color.Style
	colorAction      color.Style
	colorActionShort color.Style
	colorDenied      color.Style
	colorAnomaly     color.Style
	colorStage       color.Style
	colorSubtle      color.Style
	colorPlayer      color.Style
	colorDoor        color.Style
	colorDoorLocked  color.Style
	colorEndgame     color.Style

	out     io.Writer
	restore func()
}

// New creates a new TUI renderer
func New() *TUIRenderer {
	t := &TUIRenderer{out: os.Stdout}
	t.initColors()
	return t
}

func (t *TUIRenderer) initColors() {
	t.colorRoom = color.Style{color.FgBlue}
	t.colorAction = color.Style{color.FgMagenta}
	t.colorActionShort = color.Style{color.FgMagenta, color.OpBold}
	t.colorDenied = color.Style{color.FgRed, color.OpBold}
	t.colorAnomaly = color.Style{color.FgRed}
	t.colorStage = color.Style{color.FgCyan, color.OpBold}
	t.colorSubtle = color.Style{color.FgGray, color.OpBold}
	t.colorPlayer = color.Style{color.FgGreen, color.BgBlack, color.OpBold}
	t.colorDoor = color.Style{color.FgYellow, color.OpBold}
	t.colorDoorLocked = color.Style{color.FgYellow}
	t.colorEndgame = color.Style{color.FgGreen, color.OpBold}
}

// Init puts an interactive terminal into raw mode so single keys arrive
// without Enter. Piped input is read as is.
func (t *TUIRenderer) Init() error {
	if !terminal.IsInteractive() {
		return nil
	}
	restore, err := terminal.MakeRaw()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	t.restore = restore
	fmt.Fprint(t.out, hideCursor)
	return nil
}

// Close restores the terminal
func (t *TUIRenderer) Close() {
	if t.restore != nil {
		fmt.Fprint(t.out, showCursor)
		t.restore()
		t.restore = nil
	}
}

// Run reads keys from stdin and steps the simulation on a fixed ticker
// until the player quits or stdin closes.
func (t *TUIRenderer) Run(g *state.Game, hooks renderer.Hooks) error {
	period := hooks.StepPeriod
	if period <= 0 {
		period = time.Second / 30
	}
	dt := period.Seconds()

	keys := input.Poll(os.Stdin, input.DeviceTerminal)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	t.draw(g)
	steps := 0
	dirty := false
	for !g.Quit {
		select {
		case raw, ok := <-keys:
			if !ok {
				return nil
			}
			hooks.Intent(g, input.MapToIntent(input.NewDebouncedInput(raw)))
			dirty = true
		case <-ticker.C:
			hooks.Step(g, dt)
			steps++
			if dirty || steps%redrawEvery == 0 {
				t.draw(g)
				dirty = false
			}
		}
	}
	return nil
}

// draw clears the screen and writes one frame. Raw mode needs explicit
// carriage returns.
func (t *TUIRenderer) draw(g *state.Game) {
	w, h := terminal.GetSize()
	frame := strings.ReplaceAll(t.Frame(g, w, h), "\n", "\r\n")
	fmt.Fprint(t.out, clearScreen+frame)
}

// StyleText applies a style to text
func (t *TUIRenderer) StyleText(text string, style renderer.TextStyle) string {
	switch style {
	case renderer.StyleRoom:
		return t.colorRoom.Sprint(text)
	case renderer.StyleDoor:
		return t.colorDoor.Sprint(text)
	case renderer.StyleDoorLocked:
		return t.colorDoorLocked.Sprint(text)
	case renderer.StyleAction:
		return t.colorAction.Sprint(text)
	case renderer.StyleActionShort:
		return t.colorActionShort.Sprint(text)
	case renderer.StyleDenied:
		return t.colorDenied.Sprint(text)
	case renderer.StyleAnomaly:
		return t.colorAnomaly.Sprint(text)
	case renderer.StyleStage:
		return t.colorStage.Sprint(text)
	case renderer.StyleSubtle:
		return t.colorSubtle.Sprint(text)
	case renderer.StylePlayer:
		return t.colorPlayer.Sprint(text)
	case renderer.StyleEndgame:
		return t.colorEndgame.Sprint(text)
	default:
		return text
	}
}

// FormatText formats a message with the markup system
func (t *TUIRenderer) FormatText(msg string, args ...any) string {
	return renderer.FormatString(t.StyleText, msg, args...)
}

// PlanSize returns the floor plan dimensions for a terminal size
func PlanSize(width, height int) (cols, rows int) {
	cols = width - 2
	rows = height - PlanTopMargin

	if cols < PlanMinCols {
		cols = PlanMinCols
	}
	if rows < PlanMinRows {
		rows = PlanMinRows
	}

	// Keep both odd so the player sits in the middle
	if rows%2 == 0 {
		rows--
	}
	if cols%2 == 0 {
		cols--
	}
	return cols, rows
}

// Frame renders a complete frame for a terminal of the given size
func (t *TUIRenderer) Frame(g *state.Game, width, height int) string {
	var b strings.Builder
	room := g.CurrentRoom()

	// Stage and room
	if room != nil {
		b.WriteString(t.FormatText("GT{TUI_STAGE} STAGE{%d}   GT{TUI_ROOM} ROOM{%s}\n", g.Rooms.CurrentStage(), room.Name()))
	}
	if g.Rooms.IsEndgameReached() {
		b.WriteString(t.FormatText("END{GT{ENDGAME_REACHED}}\n"))
	}
	b.WriteString("\n")

	// Plan
	cols, rows := PlanSize(width, height)
	dim := gameplay.RoomLight(g, room) < 0.5
	for _, line := range devtools.FloorPlan(g, cols, rows, PlanScale) {
		b.WriteString(" ")
		b.WriteString(t.colorPlan(line, dim))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// What the player notices
	if cue := gameplay.AnomalyCue(room); cue != "" {
		b.WriteString(t.colorSubtle.Sprint(t.FormatText("GT{%s}", cue)))
		b.WriteString("\n")
	}

	t.writeDoors(&b, g)

	for _, hint := range g.Hints {
		b.WriteString(t.colorSubtle.Sprint("- " + hint))
		b.WriteString("\n")
	}

	t.writeMessages(&b, g, width)
	b.WriteString(t.helpLine())
	b.WriteString("\n")
	return b.String()
}

// colorPlan styles one floor plan line. A dim room loses its floor.
func (t *TUIRenderer) colorPlan(line string, dim bool) string {
	var b strings.Builder
	for _, r := range line {
		s := string(r)
		switch r {
		case '@':
			b.WriteString(t.colorPlayer.Sprint(s))
		case '#', ',':
			b.WriteString(t.colorSubtle.Sprint(s))
		case '.':
			if dim {
				b.WriteString(" ")
			} else {
				b.WriteString(t.colorRoom.Sprint(s))
			}
		case 'D', '/':
			b.WriteString(t.colorDoor.Sprint(s))
		case '+':
			b.WriteString(t.colorDoorLocked.Sprint(s))
		default:
			b.WriteString(s)
		}
	}
	return b.String()
}

// writeDoors lists the doors of the current room with their distance
func (t *TUIRenderer) writeDoors(b *strings.Builder, g *state.Game) {
	room := g.CurrentRoom()
	if room == nil {
		return
	}
	doors := room.AllDoors()
	if len(doors) == 0 {
		return
	}
	b.WriteString(t.colorSubtle.Sprint(t.FormatText("GT{TUI_DOORS}")))
	b.WriteString("\n")
	for _, d := range doors {
		label := fmt.Sprintf("#%d", d.ID())
		style := "DOOR"
		if d.Locked() {
			style = "LOCKED"
		}
		held := ""
		if d.ID() == g.HeldDoor {
			held = t.FormatText(" ACTION{GT{TUI_HELD}}")
		}
		dist := g.Player.Position.Flat().Dist(d.Center().Flat())
		fmt.Fprintf(b, "  %s %-8s %5.1f° %4.1fm%s\n",
			t.FormatText("%s{%s}", style, label), doorStateLabel(d), d.SignedAngle(), dist, held)
	}
}

func doorStateLabel(d *entities.Door) string {
	if d.Locked() {
		return "locked"
	}
	return strings.ToLower(d.State().String())
}

// writeMessages renders the messages pane
func (t *TUIRenderer) writeMessages(b *strings.Builder, g *state.Game, width int) {
	label := " " + t.FormatText("GT{TUI_MESSAGES}") + " "
	labelLen := len(label)
	sideLen := (width - labelLen) / 2
	if sideLen < 1 {
		sideLen = 1
	}
	rightLen := width - sideLen - labelLen
	if rightLen < 1 {
		rightLen = 1
	}

	b.WriteString("\n")
	b.WriteString(t.colorSubtle.Sprint(strings.Repeat("─", sideLen) + label + strings.Repeat("─", rightLen)))
	b.WriteString("\n")
	if len(g.Messages) == 0 {
		b.WriteString(t.colorSubtle.Sprint("  " + t.FormatText("GT{TUI_NO_MESSAGES}")))
		b.WriteString("\n")
	}
	for _, msg := range g.Messages {
		b.WriteString("  " + msg + "\n")
	}
	b.WriteString(t.colorSubtle.Sprint(strings.Repeat("─", max(width, 1))))
	b.WriteString("\n")
}

// helpLine names the bound key for each common action
func (t *TUIRenderer) helpLine() string {
	bound := input.GetBindingsByAction()
	parts := make([]string, 0, len(helpActions))
	for _, a := range helpActions {
		codes := bound[a]
		if len(codes) == 0 {
			continue
		}
		parts = append(parts, t.FormatText("ACTION{%s} %s", codes[0], input.ActionName(a)))
	}
	return strings.Join(parts, "  ")
}
