// Package devtools provides developer tools for testing and debugging.
package devtools

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"liminal/pkg/engine/world"
	"liminal/pkg/game/entities"
	"liminal/pkg/game/state"
)

// Floor plan size in a dump
const (
	dumpPlanCols  = 61
	dumpPlanRows  = 25
	dumpPlanScale = 0.5
)

// DumpFilename returns the dump file name for the game's run and tick
func DumpFilename(g *state.Game) string {
	run := g.RunID
	if len(run) > 8 {
		run = run[:8]
	}
	if run == "" {
		run = "norun"
	}
	return fmt.Sprintf("graph-%s-%06d.txt", run, g.Ticks)
}

// DumpGraphToFile writes a full debug dump of the room graph into the game's
// dump directory and returns the absolute path.
// Format is human-readable (sections, key: value, consistent structure).
func DumpGraphToFile(g *state.Game) (string, error) {
	if g.Rooms == nil {
		return "", fmt.Errorf("no room graph")
	}
	dir := g.DumpDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(filepath.Join(dir, DumpFilename(g)))
	if err != nil {
		return "", err
	}

	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteGraphDump(f, g); err != nil {
		return "", err
	}
	return absPath, nil
}

// WriteGraphDump writes the dump sections to w
func WriteGraphDump(w io.Writer, g *state.Game) error {
	ew := &errWriter{w: w}
	m := g.Rooms

	ew.println("=== ROOM GRAPH DUMP (live rooms, doors, progression) ===")
	ew.println("")

	// --- Metadata ---
	ew.println("--- Metadata ---")
	ew.printf("run_id: %s\n", g.RunID)
	ew.printf("seed: %d\n", g.Seed)
	ew.printf("ticks: %d\n", g.Ticks)
	ew.printf("clock: %.3f\n", g.Clock)
	ew.printf("stage: %d\n", m.CurrentStage())
	ew.printf("last_stage: %d\n", m.Catalog().LastStage())
	ew.printf("stage0_completed: %v\n", m.Stage0Completed())
	ew.printf("endgame_reached: %v\n", m.IsEndgameReached())
	ew.printf("player: %s yaw %.1f\n", g.Player.Position, g.Player.Yaw)
	ew.printf("held_door: %d\n", g.HeldDoor)
	ew.printf("judgments: %d\n", g.Judgments)
	ew.printf("transitions: %d\n", g.Transitions)
	ew.printf("occupied_cells: %d\n", m.Occupied())
	ew.printf("previous_spawning_door: %d\n", m.PreviousSpawningDoor())
	ew.println("")

	// --- Invariants ---
	ew.println("--- Invariants ---")
	if err := m.CheckInvariants(); err != nil {
		ew.printf("status: FAILED %v\n", err)
	} else {
		ew.println("status: ok")
	}
	ew.println("")

	// --- Rooms ---
	ew.println("--- Rooms ---")
	for _, r := range m.LiveRooms() {
		slot := "previous"
		if r == m.Current() {
			slot = "current"
		}
		anomaly := "none"
		if a := r.Anomaly(); a != nil {
			anomaly = a.Kind.String()
		}
		entry := entities.NoDoor
		if e := r.Entry(); e != nil {
			entry = e.ID()
		}
		ew.printf("  slot: %s id: %d name: %q kind: %s stage: %d pose: %s\n",
			slot, r.ID(), r.Name(), r.Kind(), r.StageIndex(), formatPose(r.Pose()))
		ew.printf("    anomaly: %s completed: %v solved: %v disabled: %v player_inside: %v spawning_door: %d entry_door: %d\n",
			anomaly, r.Completed(), r.Solved(), r.Disabled(), r.PlayerInside(), r.SpawningDoor(), entry)
	}
	ew.println("")

	// --- Doors ---
	ew.println("--- Doors ---")
	for _, d := range m.Doors() {
		owner := entities.NoRoom
		if r := m.OwnerOf(d.ID()); r != nil {
			owner = r.ID()
		}
		ew.printf("  id: %d owner: %d role: %s state: %s angle: %.1f locked: %v spawned_from: %v\n",
			d.ID(), owner, d.Role().Kind, d.State(), d.SignedAngle(), d.Locked(), m.SpawnedFrom(d.ID()))
		ew.printf("    hinge: %s exit: %s arch: %s\n",
			formatPose(d.Hinge()), formatPose(d.ExitPivot()), formatPose(d.ArchPivot()))
	}
	ew.println("")

	// --- Floor plan ---
	ew.println("--- Floor plan (north up; . current  , previous  # wall  D door  / open  + locked  @ player) ---")
	for _, line := range FloorPlan(g, dumpPlanCols, dumpPlanRows, dumpPlanScale) {
		ew.println(line)
	}

	return ew.err
}

func formatPose(p world.Pose) string {
	return fmt.Sprintf("%s yaw %.1f", p.Position, p.Yaw)
}

// errWriter keeps the first write error so the dump reads top to bottom
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, a ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}

func (e *errWriter) println(s string) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w, s)
}
