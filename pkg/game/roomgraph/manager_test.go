package roomgraph

import (
	"errors"
	"testing"

	"liminal/pkg/engine/world"
	"liminal/pkg/game/entities"
	"liminal/pkg/game/stage"
)

// scriptedProbe places the player in exactly one room.
type scriptedProbe struct {
	in *entities.Room
}

func (p *scriptedProbe) IsPointInsideRoom(r *entities.Room, _ world.Vec3) bool {
	return r == p.in
}

func newTestManager(t *testing.T, roller entities.AnomalyRoller) (*Manager, *scriptedProbe) {
	t.Helper()
	probe := &scriptedProbe{}
	m, err := New(stage.DefaultCatalog(), WithRoller(roller), WithProbe(probe))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := m.Start(world.At(0, 0, 0, 0)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	probe.in = m.Current()
	return m, probe
}

func checkInvariants(t *testing.T, m *Manager) {
	t.Helper()
	if err := m.CheckInvariants(); err != nil {
		t.Fatalf("CheckInvariants() = %v", err)
	}
}

// forward interacts with the current room's first door and returns it.
func forward(t *testing.T, m *Manager) *entities.Door {
	t.Helper()
	before := m.Current()
	door := before.Doors()[0]
	m.OnDoorInteracted(door.ID())
	if m.Current() == before {
		t.Fatalf("door %d spawned nothing", door.ID())
	}
	checkInvariants(t, m)
	return door
}

// enter moves the player into the current room and lets the previous room go.
func enter(t *testing.T, m *Manager, probe *scriptedProbe) {
	t.Helper()
	probe.in = m.Current()
	m.Tick(world.Vec3{})
	if m.Previous() != nil {
		t.Fatalf("previous room %d survived", m.Previous().ID())
	}
	checkInvariants(t, m)
}

// leafRay points at the middle of a door leaf swung to angle.
func leafRay(d *entities.Door, angle float64) world.Ray {
	h := d.Hinge()
	p := h.Position.Add(world.Forward(h.Yaw + angle).Scale(d.Width() / 2))
	return world.DownRay(p.X, p.Z)
}

func clean() entities.AnomalyRoller { return entities.FixedRoller{} }

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		hallway   bool
		anomaly   bool
		completed bool
		solved    bool
		want      Outcome
	}{
		{"hallway", true, false, false, false, FromHallway},
		{"anomaly judged correctly", false, true, true, true, Advance},
		{"anomaly not judged", false, true, false, false, Hallway},
		{"anomaly judged clear", false, true, true, false, Hallway},
		{"no anomaly judged anomaly", false, false, true, false, Reset},
		{"no anomaly judged clear", false, false, true, true, Advance},
		{"no anomaly not judged", false, false, false, false, Advance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.hallway, tt.anomaly, tt.completed, tt.solved); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		outcome          Outcome
		stage            uint32
		wantStage        uint32
		hallway, endgame bool
	}{
		{Advance, 0, 1, false, false},
		{Advance, 4, 5, false, false},
		{Advance, 5, 5, false, true},
		{Hallway, 3, 0, true, false},
		{Reset, 3, 0, false, false},
		{FromHallway, 0, 0, false, false},
	}
	for _, tt := range tests {
		next, hallway, endgame := Next(tt.outcome, tt.stage, 5)
		if next != tt.wantStage || hallway != tt.hallway || endgame != tt.endgame {
			t.Errorf("Next(%v, %d) = (%d, %v, %v), want (%d, %v, %v)",
				tt.outcome, tt.stage, next, hallway, endgame, tt.wantStage, tt.hallway, tt.endgame)
		}
	}
}

func TestNewRejectsShortCatalog(t *testing.T) {
	c := stage.DefaultCatalog()
	c.Stages = c.Stages[:2]
	if _, err := New(c); !errors.Is(err, stage.ErrTooFewStages) {
		t.Errorf("New() error = %v, want ErrTooFewStages", err)
	}
}

func TestStartSpawnsFirstRoom(t *testing.T) {
	m, _ := newTestManager(t, clean())
	if m.Current() == nil || m.Previous() != nil {
		t.Fatalf("after Start: current %v, previous %v", m.Current(), m.Previous())
	}
	for _, d := range m.Current().Doors() {
		if d.Locked() {
			t.Errorf("first room door %d locked", d.ID())
		}
	}
	if m.Occupied() != 1 {
		t.Errorf("Occupied() = %d, want 1", m.Occupied())
	}
	if err := m.Start(world.At(0, 0, 0, 0)); err == nil {
		t.Error("second Start() = nil error, want error")
	}
	checkInvariants(t, m)
}

func TestCorrectJudgmentAdvances(t *testing.T) {
	m, _ := newTestManager(t, &entities.SequenceRoller{Present: []bool{true}})
	first := m.Current()
	if !first.HasAnomaly() {
		t.Fatal("first room has no anomaly")
	}
	if !m.JudgeCurrentRoom(true) {
		t.Fatal("JudgeCurrentRoom(true) = false, want true")
	}

	door := forward(t, m)

	if got := m.Current().StageIndex(); got != 1 {
		t.Errorf("new room stage = %d, want 1", got)
	}
	if m.Previous() != first {
		t.Error("old current is not the previous room")
	}
	for _, d := range m.Current().Doors() {
		if !d.Locked() {
			t.Errorf("new room door %d unlocked, want locked", d.ID())
		}
	}
	if !m.SpawnedFrom(door.ID()) {
		t.Errorf("SpawnedFrom(%d) = false, want true", door.ID())
	}
	if !first.Disabled() {
		t.Error("previous room not disabled")
	}
	if !m.Stage0Completed() {
		t.Error("Stage0Completed() = false after leaving stage 0")
	}
	if m.Current().SpawningDoor() != door.ID() || m.PreviousSpawningDoor() != door.ID() {
		t.Errorf("spawning door = %d / %d, want %d", m.Current().SpawningDoor(), m.PreviousSpawningDoor(), door.ID())
	}
	if m.Occupied() != 2 {
		t.Errorf("Occupied() = %d, want 2", m.Occupied())
	}
}

func TestNewRoomEntryMeetsDoorExit(t *testing.T) {
	m, _ := newTestManager(t, clean())
	door := forward(t, m)
	entry := m.Current().Pose()
	exit := door.ExitPivot()
	if entry.Position.Dist(exit.Position) > 1e-9 {
		t.Errorf("entry at %v, want exit pivot %v", entry.Position, exit.Position)
	}
	if d := world.DeltaYaw(entry.Yaw, exit.Yaw+180); d > 1e-9 || d < -1e-9 {
		t.Errorf("entry yaw = %v, want exit yaw %v turned 180", entry.Yaw, exit.Yaw)
	}
}

func TestRepeatInteractionIsNoop(t *testing.T) {
	m, _ := newTestManager(t, clean())
	door := forward(t, m)
	cur, prev := m.Current(), m.Previous()

	m.OnDoorInteracted(door.ID())

	if m.Current() != cur || m.Previous() != prev || m.Occupied() != 2 {
		t.Error("second interaction with a spawning door changed the graph")
	}
	checkInvariants(t, m)
}

func TestLockedPreviousDoorBlocksReentry(t *testing.T) {
	m, _ := newTestManager(t, clean())
	forward(t, m)
	cur, prev := m.Current(), m.Previous()
	side := prev.Doors()[1]
	side.Lock()

	m.OnDoorInteracted(side.ID())

	if m.Current() != cur || m.Previous() != prev {
		t.Error("locked previous-room door changed the graph")
	}
	if side.BeginDrag(leafRay(side, 0)) {
		t.Error("BeginDrag on locked door = true, want false")
	}
	m.Tick(world.Vec3{})
	if m.Current() != cur || m.Previous() != prev {
		t.Error("queued grab on locked door changed the graph")
	}
	checkInvariants(t, m)
}

func TestClosingSpawningDoorDestroysPrevious(t *testing.T) {
	m, probe := newTestManager(t, clean())
	door := forward(t, m)
	prev := m.Previous()

	door.BeginDrag(leafRay(door, 0))
	door.DragUpdate(leafRay(door, 90), 1)
	door.EndDrag()
	probe.in = m.Current()

	m.Tick(world.Vec3{})
	if m.Previous() != prev {
		t.Fatal("previous room destroyed while its door was open")
	}

	door.Tick(1.5)
	if door.State() != entities.DoorClosed {
		t.Fatalf("door state = %v, want Closed", door.State())
	}
	m.Tick(world.Vec3{})

	if m.Previous() != nil {
		t.Fatal("previous room survived its door closing")
	}
	if m.Occupied() != 1 {
		t.Errorf("Occupied() = %d, want 1", m.Occupied())
	}
	if m.SpawnedFrom(door.ID()) {
		t.Errorf("SpawnedFrom(%d) = true after destroy, want false", door.ID())
	}
	for _, d := range prev.Doors() {
		if d != door && m.Door(d.ID()) != nil {
			t.Errorf("door %d of destroyed room still live", d.ID())
		}
	}
	for _, d := range m.Current().Doors() {
		if d.Locked() {
			t.Errorf("current door %d still locked", d.ID())
		}
	}
	if m.Current().Entry() != door {
		t.Error("current room did not adopt the wall door")
	}
	if !door.Locked() || door.Role().Kind != entities.RoleEntry {
		t.Errorf("adopted door locked=%v role=%v, want sealed entry", door.Locked(), door.Role().Kind)
	}
	checkInvariants(t, m)
}

func TestPreviousKeptWhilePlayerOutside(t *testing.T) {
	m, probe := newTestManager(t, clean())
	forward(t, m)
	probe.in = nil

	m.Tick(world.Vec3{})
	if m.DestroyPreviousRoomIfReady() {
		t.Error("DestroyPreviousRoomIfReady() = true with player outside current")
	}
	if m.Previous() == nil {
		t.Error("previous room destroyed with player outside current")
	}
}

func TestAdoptedEntryIgnoresInteraction(t *testing.T) {
	m, probe := newTestManager(t, clean())
	door := forward(t, m)
	enter(t, m, probe)
	cur := m.Current()

	m.OnDoorInteracted(door.ID())
	if m.Current() != cur || m.Previous() != nil {
		t.Error("interaction with sealed entry changed the graph")
	}
}

func TestBackwardTransition(t *testing.T) {
	m, _ := newTestManager(t, clean())
	first := m.Current()
	door := forward(t, m)
	abandoned := m.Current()
	side := first.Doors()[1]

	m.OnDoorInteracted(side.ID())

	if m.Previous() != first {
		t.Fatalf("previous = %v, want the first room", m.Previous())
	}
	if m.Current() == abandoned || m.Current().SpawningDoor() != side.ID() {
		t.Fatal("no fresh room spawned beyond the side door")
	}
	for _, d := range abandoned.Doors() {
		if m.Door(d.ID()) != nil {
			t.Errorf("door %d of abandoned room still live", d.ID())
		}
	}
	if m.SpawnedFrom(door.ID()) {
		t.Errorf("SpawnedFrom(%d) = true, want the old spawning door released", door.ID())
	}
	if !m.SpawnedFrom(side.ID()) {
		t.Errorf("SpawnedFrom(%d) = false, want true", side.ID())
	}
	if door.State() != entities.DoorClosed {
		t.Errorf("old spawning door state = %v, want Closed", door.State())
	}
	if m.Occupied() != 2 {
		t.Errorf("Occupied() = %d, want 2", m.Occupied())
	}
	checkInvariants(t, m)
}

func TestMissedAnomalyBranchesToHallway(t *testing.T) {
	m, probe := newTestManager(t, &entities.SequenceRoller{Present: []bool{true}})
	forward(t, m)

	if !m.Current().IsHallway() {
		t.Fatalf("spawned %v, want hallway", m.Current().Kind())
	}
	if m.CurrentStage() != 0 || m.Current().HasAnomaly() {
		t.Errorf("hallway stage %d anomaly %v, want 0 and none", m.CurrentStage(), m.Current().HasAnomaly())
	}
	if m.JudgeCurrentRoom(true) {
		t.Error("JudgeCurrentRoom in hallway = true, want false")
	}

	enter(t, m, probe)
	forward(t, m)
	if m.Current().IsHallway() || m.Current().StageIndex() != 0 {
		t.Errorf("after hallway: kind %v stage %d, want Stage 0", m.Current().Kind(), m.Current().StageIndex())
	}
}

func TestFalseAlarmResetsStage(t *testing.T) {
	m, probe := newTestManager(t, clean())
	forward(t, m)
	enter(t, m, probe)
	if m.CurrentStage() != 1 {
		t.Fatalf("CurrentStage() = %d, want 1", m.CurrentStage())
	}

	if !m.JudgeCurrentRoom(true) {
		t.Fatal("JudgeCurrentRoom(true) = false, want true")
	}
	forward(t, m)
	if m.CurrentStage() != 0 || m.Current().IsHallway() {
		t.Errorf("after false alarm: stage %d hallway %v, want 0 false", m.CurrentStage(), m.Current().IsHallway())
	}
}

func TestEndgameAfterLastStage(t *testing.T) {
	m, probe := newTestManager(t, clean())
	last := m.Catalog().LastStage()
	for i := uint32(0); i < last; i++ {
		forward(t, m)
		enter(t, m, probe)
	}
	if m.CurrentStage() != last || m.IsEndgameReached() {
		t.Fatalf("stage %d endgame %v, want %d false", m.CurrentStage(), m.IsEndgameReached(), last)
	}

	forward(t, m)
	if !m.Current().IsEndgame() || !m.IsEndgameReached() {
		t.Errorf("after last stage: kind %v, IsEndgameReached() = %v", m.Current().Kind(), m.IsEndgameReached())
	}
	if m.JudgeCurrentRoom(false) {
		t.Error("JudgeCurrentRoom in endgame = true, want false")
	}
	enter(t, m, probe)
}

func TestBackingOutOfEndgameRespawnsEndgame(t *testing.T) {
	m, probe := newTestManager(t, clean())
	last := m.Catalog().LastStage()
	for i := uint32(0); i < last; i++ {
		forward(t, m)
		enter(t, m, probe)
	}
	lastRoom := m.Current()
	forward(t, m)
	abandoned := m.Current()

	m.OnDoorInteracted(lastRoom.Doors()[1].ID())

	if m.Previous() != lastRoom {
		t.Fatalf("previous = %v, want the last stage room", m.Previous())
	}
	if m.Current() == abandoned {
		t.Fatal("no fresh room spawned beyond the side door")
	}
	if !m.Current().IsEndgame() {
		t.Errorf("current kind = %v, want %v", m.Current().Kind(), entities.RoomEndgame)
	}
	if !m.IsEndgameReached() {
		t.Error("IsEndgameReached() = false, want true")
	}
	if m.CurrentStage() != last {
		t.Errorf("CurrentStage() = %d, want %d", m.CurrentStage(), last)
	}
	checkInvariants(t, m)
}

func TestJudgeOncePerRoom(t *testing.T) {
	m, _ := newTestManager(t, clean())
	if !m.JudgeCurrentRoom(false) {
		t.Fatal("first JudgeCurrentRoom = false, want true")
	}
	if m.JudgeCurrentRoom(true) {
		t.Error("second JudgeCurrentRoom = true, want false")
	}
	if !m.Current().Solved() {
		t.Error("Solved() = false, want true")
	}
}

func TestStageZeroJudgmentLocksAfterCompletion(t *testing.T) {
	m, probe := newTestManager(t, clean())
	m.JudgeCurrentRoom(true)
	forward(t, m)
	enter(t, m, probe)

	if m.CurrentStage() != 0 || !m.Stage0Completed() {
		t.Fatalf("stage %d stage0Completed %v, want 0 true", m.CurrentStage(), m.Stage0Completed())
	}
	if m.JudgeCurrentRoom(false) {
		t.Error("JudgeCurrentRoom on stage 0 after completion = true, want false")
	}
}

func TestGrabIsHandledAfterDestroyCheck(t *testing.T) {
	m, probe := newTestManager(t, clean())
	forward(t, m)
	middle := m.Current()
	next := middle.Doors()[0]

	if next.BeginDrag(leafRay(next, 0)) {
		t.Fatal("BeginDrag on locked door = true, want false")
	}
	if m.Current() != middle {
		t.Fatal("grab handled before Tick")
	}

	probe.in = middle
	m.Tick(world.Vec3{})

	if m.Previous() != middle {
		t.Fatalf("previous = %v, want the middle room", m.Previous())
	}
	if !m.SpawnedFrom(next.ID()) {
		t.Errorf("SpawnedFrom(%d) = false, want true", next.ID())
	}
	checkInvariants(t, m)
}

func TestSpawnRejectedOnOccupiedCell(t *testing.T) {
	m, _ := newTestManager(t, clean())
	cur := m.Current()
	if r := m.SpawnRoom(nil, world.At(0.0002, 0, 0, 0), false, false); r != nil {
		t.Error("SpawnRoom on occupied cell returned a room")
	}
	if m.Current() != cur || m.Occupied() != 1 {
		t.Error("rejected spawn changed the graph")
	}
	checkInvariants(t, m)
}

func TestSpawnRejectedWhilePreviousAlive(t *testing.T) {
	m, _ := newTestManager(t, clean())
	forward(t, m)
	cur, prev := m.Current(), m.Previous()
	if r := m.SpawnRoom(nil, world.At(100, 0, 100, 0), false, false); r != nil {
		t.Error("SpawnRoom with a previous room alive returned a room")
	}
	if m.Current() != cur || m.Previous() != prev || m.Occupied() != 2 {
		t.Error("rejected spawn changed the graph")
	}
	checkInvariants(t, m)
}

func TestStaleDoorIsNoop(t *testing.T) {
	m, _ := newTestManager(t, clean())
	cur := m.Current()
	m.OnDoorInteracted(9999)
	m.OnDoorInteracted(entities.NoDoor)
	if m.Current() != cur || m.Previous() != nil {
		t.Error("stale door changed the graph")
	}
}

func TestResetClearsGraph(t *testing.T) {
	m, _ := newTestManager(t, clean())
	forward(t, m)
	m.Reset()
	if len(m.LiveRooms()) != 0 || m.Occupied() != 0 || len(m.Doors()) != 0 {
		t.Error("Reset left rooms behind")
	}
	if err := m.Start(world.At(0, 0, 0, 0)); err != nil {
		t.Errorf("Start() after Reset error = %v", err)
	}
	checkInvariants(t, m)
}
