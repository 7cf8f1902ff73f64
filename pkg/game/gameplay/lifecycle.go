// Package gameplay provides core game logic for player movement and interactions.
package gameplay

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/leonelquinteros/gotext"

	"liminal/pkg/config"
	"liminal/pkg/engine/world"
	"liminal/pkg/game/entities"
	"liminal/pkg/game/roomgraph"
	"liminal/pkg/game/stage"
	"liminal/pkg/game/state"
	"liminal/pkg/logger"
)

// eyeHeight lifts the player off the floor so containment never sits on a face
const eyeHeight = 1.0

// roomLog turns graph changes into player-facing messages
type roomLog struct {
	g *state.Game
}

// RoomSpawned implements roomgraph.Observer
func (l *roomLog) RoomSpawned(r *entities.Room) {
	if l.g == nil {
		return
	}
	l.g.Transitions++
	logMessage(l.g, "%s", stage.FlavourText(r.Kind(), r.StageIndex()))
	if r.IsEndgame() {
		logMessage(l.g, "END{%s}", gotext.Get("ENDGAME_REACHED"))
	}
	RefreshHints(l.g)
}

// RoomDestroyed implements roomgraph.Observer
func (l *roomLog) RoomDestroyed(r *entities.Room) {
	if l.g == nil {
		return
	}
	if l.g.Holding() && l.g.Rooms.Door(l.g.HeldDoor) == nil {
		l.g.HeldDoor = entities.NoDoor
	}
	RefreshHints(l.g)
}

// BuildGame creates a new run from the configuration and a room catalog
func BuildGame(cfg *config.Config, catalog *stage.Catalog) (*state.Game, error) {
	seed := cfg.Graph.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	obs := &roomLog{}
	rooms, err := roomgraph.New(catalog,
		roomgraph.WithRand(rand.New(rand.NewSource(seed))),
		roomgraph.WithAnomalyChance(cfg.Graph.AnomalyChance),
		roomgraph.WithGridResolution(cfg.Graph.GridResolution),
		roomgraph.WithOverlapRadius(cfg.Graph.OverlapRadius),
		roomgraph.WithDoorSettings(cfg.Door),
		roomgraph.WithObserver(obs),
	)
	if err != nil {
		return nil, fmt.Errorf("building room graph: %w", err)
	}

	g := state.NewGame(rooms)
	obs.g = g
	g.Start = cfg.Graph.Start.Pose()
	g.Tuning = cfg.Player
	g.DumpDir = cfg.DumpDir
	g.Seed = seed
	g.RunID = logger.RunID()

	if err := ResetRun(g); err != nil {
		return nil, err
	}
	return g, nil
}

// ResetRun drops every room and starts over at stage 0
func ResetRun(g *state.Game) error {
	if held := g.Rooms.Door(g.HeldDoor); held != nil {
		held.EndDrag()
	}
	g.HeldDoor = entities.NoDoor
	g.PushAngle = 0

	g.Rooms.Reset()
	g.ClearMessages()
	g.Hints = nil
	g.Judgments = 0
	g.Transitions = 0

	if err := g.Rooms.Start(g.Start); err != nil {
		return fmt.Errorf("starting run: %w", err)
	}
	g.Player = spawnPoint(g.Start)

	logger.Info("run started", "seed", g.Seed, "start", g.Start.Position.String())
	logMessage(g, "GT{WELCOME}")
	return nil
}

// spawnPoint is one step inside the room whose entry sits on start
func spawnPoint(start world.Pose) world.Pose {
	p := start.Position.Add(start.Forward()).Add(world.V(0, eyeHeight, 0))
	return world.Pose{Position: p, Yaw: start.Yaw}
}
