package state

import (
	"liminal/pkg/config"
	"liminal/pkg/engine/world"
	"liminal/pkg/game/entities"
	"liminal/pkg/game/roomgraph"
)

// maxMessages is how many log lines the message pane keeps
const maxMessages = 6

// Game represents the state of one run through the rooms
type Game struct {
	Rooms *roomgraph.Manager

	// Start is where the first room's entry is placed; kept for resets.
	Start world.Pose

	Player world.Pose
	Tuning config.PlayerConfig

	// DumpDir is where graph dumps are written.
	DumpDir string

	// HeldDoor is the door being dragged, or NoDoor.
	HeldDoor entities.DoorID
	// DragRay is the pointer the held door follows.
	DragRay world.Ray
	// PushAngle is the keyboard drag target relative to the held door's hinge.
	PushAngle float64

	Hints []string

	Messages []string

	Clock float64 // Simulated seconds since the run started
	Ticks uint64

	Judgments   int
	Transitions int

	Seed  int64
	RunID string

	Quit bool
}

// NewGame creates a new game around a room graph manager
func NewGame(rooms *roomgraph.Manager) *Game {
	return &Game{
		Rooms:    rooms,
		Messages: make([]string, 0),
	}
}

// AddMessage adds a message to the game's message log
func (g *Game) AddMessage(msg string) {
	g.Messages = append(g.Messages, msg)

	if len(g.Messages) > maxMessages {
		g.Messages = g.Messages[len(g.Messages)-maxMessages:]
	}
}

// ClearMessages clears all messages
func (g *Game) ClearMessages() {
	g.Messages = make([]string, 0)
}

// AddHint adds a hint to the game
func (g *Game) AddHint(hint string) {
	g.Hints = append(g.Hints, hint)
}

// Holding reports whether the player is dragging a door
func (g *Game) Holding() bool {
	return g.HeldDoor != entities.NoDoor
}

// CurrentRoom returns the room the graph considers current, or nil
func (g *Game) CurrentRoom() *entities.Room {
	if g.Rooms == nil {
		return nil
	}
	return g.Rooms.Current()
}
