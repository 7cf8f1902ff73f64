package entities

import (
	"errors"
	"math"
	"testing"

	"liminal/pkg/engine/world"
)

type recorder struct {
	events []DoorEvent
}

func (r *recorder) Notify(ev DoorEvent) { r.events = append(r.events, ev) }

func (r *recorder) count(kind DoorEventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// newTestDoor builds a door hinged at the origin whose closed leaf points along +Z.
func newTestDoor(t *testing.T) (*Door, *recorder) {
	t.Helper()
	exit := world.At(0, 0, 0.5, 180)
	arch := world.At(0, 0, 0.5, 0)
	d, err := NewDoor(1, DoorFrame{Hinge: world.At(0, 0, 0, 0), Width: 1, Exit: &exit, Arch: &arch}, DefaultDoorSettings())
	if err != nil {
		t.Fatalf("NewDoor() error = %v", err)
	}
	rec := &recorder{}
	d.SetListener(rec)
	return d, rec
}

// rayAt returns a downward ray hitting the hinge plane at the given heading from the hinge.
func rayAt(yaw float64) world.Ray {
	f := world.Forward(yaw)
	return world.DownRay(f.X, f.Z)
}

func TestDoorRoundTrip(t *testing.T) {
	d, rec := newTestDoor(t)

	if !d.BeginDrag(rayAt(0)) {
		t.Fatal("BeginDrag on closed unlocked door = false, want true")
	}
	if d.State() != DoorMoving {
		t.Errorf("State() = %v, want Moving", d.State())
	}
	d.DragUpdate(rayAt(90), 1)
	if math.Abs(d.CurrentAngle()-90) > 1e-6 {
		t.Errorf("CurrentAngle() = %v, want 90", d.CurrentAngle())
	}
	d.EndDrag()
	if d.State() != DoorOpen {
		t.Errorf("State() after EndDrag = %v, want Open", d.State())
	}
	if _, pending := d.PendingCloseAt(); !pending {
		t.Error("PendingCloseAt() pending = false, want true")
	}

	d.Tick(0.5)
	if d.State() != DoorOpen {
		t.Errorf("State() before delay = %v, want Open", d.State())
	}
	d.Tick(0.6)
	if d.State() != DoorClosed || d.CurrentAngle() != 0 {
		t.Errorf("after delay: State() = %v, CurrentAngle() = %v, want Closed, 0", d.State(), d.CurrentAngle())
	}
	if rec.count(EventOpened) != 1 || rec.count(EventClosed) != 1 {
		t.Errorf("events = %v, want one Opened and one Closed", rec.events)
	}
}

func TestDoorDragClampsToMaxAngle(t *testing.T) {
	d, _ := newTestDoor(t)
	d.BeginDrag(rayAt(0))
	d.DragUpdate(rayAt(60), 1)
	d.DragUpdate(rayAt(120), 1)
	d.DragUpdate(rayAt(170), 1)
	if got := d.SignedAngle(); math.Abs(got-90) > 1e-6 {
		t.Errorf("SignedAngle() = %v, want 90", got)
	}
}

func TestDoorRotationIsRateLimited(t *testing.T) {
	d, _ := newTestDoor(t)
	d.BeginDrag(rayAt(0))
	d.DragUpdate(rayAt(-80), 0.1)
	if got := d.SignedAngle(); math.Abs(got+50) > 1e-6 {
		t.Errorf("SignedAngle() = %v, want -50", got)
	}
}

func TestDoorBeginDragWhileDraggingIsNoop(t *testing.T) {
	d, rec := newTestDoor(t)
	d.BeginDrag(rayAt(0))
	if d.BeginDrag(rayAt(0)) {
		t.Error("second BeginDrag = true, want false")
	}
	if rec.count(EventGrabbed) != 1 {
		t.Errorf("Grabbed events = %d, want 1", rec.count(EventGrabbed))
	}
}

func TestLockedDoorRefusesDrag(t *testing.T) {
	d, rec := newTestDoor(t)
	d.Lock()
	if d.BeginDrag(rayAt(0)) {
		t.Error("BeginDrag on locked door = true, want false")
	}
	if d.State() != DoorClosed {
		t.Errorf("State() = %v, want Closed", d.State())
	}
	if rec.count(EventGrabbed) != 1 {
		t.Errorf("Grabbed events = %d, want 1", rec.count(EventGrabbed))
	}
}

func TestLockDuringDragReleases(t *testing.T) {
	d, _ := newTestDoor(t)
	d.BeginDrag(rayAt(0))
	d.DragUpdate(rayAt(90), 1)
	d.Lock()

	if d.Dragging() {
		t.Error("Dragging() after Lock = true, want false")
	}
	if _, pending := d.PendingCloseAt(); pending {
		t.Error("locked door has a pending close")
	}
	d.Tick(5)
	if math.Abs(d.CurrentAngle()-90) > 1e-6 {
		t.Errorf("locked door moved: CurrentAngle() = %v, want 90", d.CurrentAngle())
	}

	d.Unlock()
	if _, pending := d.PendingCloseAt(); !pending {
		t.Error("Unlock on open door did not re-arm the auto-close")
	}
	d.Tick(1.5)
	if d.State() != DoorClosed {
		t.Errorf("State() after unlock and delay = %v, want Closed", d.State())
	}
}

func TestRegrabCancelsAutoClose(t *testing.T) {
	d, _ := newTestDoor(t)
	d.BeginDrag(rayAt(0))
	d.DragUpdate(rayAt(90), 1)
	d.EndDrag()
	d.Tick(0.5)

	d.BeginDrag(rayAt(90))
	if _, pending := d.PendingCloseAt(); pending {
		t.Error("PendingCloseAt() pending after re-grab, want cancelled")
	}
	d.Tick(2)
	if math.Abs(d.CurrentAngle()-90) > 1e-6 {
		t.Errorf("held door moved: CurrentAngle() = %v, want 90", d.CurrentAngle())
	}
}

func TestSnapClose(t *testing.T) {
	d, rec := newTestDoor(t)
	d.BeginDrag(rayAt(0))
	d.DragUpdate(rayAt(10), 1)
	d.EndDrag()
	if d.State() != DoorOpen {
		t.Fatalf("State() = %v, want Open", d.State())
	}
	d.Tick(0.01)
	d.Tick(0.01)
	if d.State() != DoorClosed {
		t.Errorf("State() = %v, want Closed by snap", d.State())
	}
	if rec.count(EventClosed) != 1 {
		t.Errorf("Closed events = %d, want 1", rec.count(EventClosed))
	}
}

func TestEventsFireOncePerCrossing(t *testing.T) {
	d, rec := newTestDoor(t)
	for i := 0; i < 3; i++ {
		d.BeginDrag(rayAt(0))
		d.DragUpdate(rayAt(45), 1)
		d.EndDrag()
	}
	if got := rec.count(EventOpened); got != 1 {
		t.Errorf("Opened events = %d, want 1", got)
	}
	d.ForceClose()
	d.ForceClose()
	if got := rec.count(EventClosed); got != 1 {
		t.Errorf("Closed events = %d, want 1", got)
	}
}

func TestNewDoorMissingPivot(t *testing.T) {
	exit := world.At(0, 0, 0, 0)
	_, err := NewDoor(1, DoorFrame{Width: 1, Exit: &exit}, DefaultDoorSettings())
	if !errors.Is(err, ErrMissingPivot) {
		t.Errorf("NewDoor() error = %v, want ErrMissingPivot", err)
	}
}

func TestDoorSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*DoorSettings)
		ok     bool
	}{
		{"defaults", func(*DoorSettings) {}, true},
		{"snap equals close threshold", func(s *DoorSettings) { s.SnapAngleThreshold = s.CloseAngleThreshold }, true},
		{"snap equals max angle", func(s *DoorSettings) { s.SnapAngleThreshold = s.MaxAngle }, true},
		{"snap below close threshold", func(s *DoorSettings) { s.SnapAngleThreshold = 1 }, false},
		{"snap above max angle", func(s *DoorSettings) { s.SnapAngleThreshold = 120 }, false},
		{"zero max angle", func(s *DoorSettings) { s.MaxAngle = 0 }, false},
		{"negative delay", func(s *DoorSettings) { s.AutoCloseDelay = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultDoorSettings()
			tt.modify(&s)
			err := s.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidDoor) {
				t.Errorf("Validate() = %v, want ErrInvalidDoor", err)
			}
		})
	}
}

func TestSwapPivots(t *testing.T) {
	d, _ := newTestDoor(t)
	exit, arch := d.ExitPivot(), d.ArchPivot()
	d.SwapPivots()
	if d.ExitPivot() != arch || d.ArchPivot() != exit {
		t.Errorf("SwapPivots: exit %v arch %v, want %v %v", d.ExitPivot(), d.ArchPivot(), arch, exit)
	}
}

func testRoomSpec(kind RoomKind) RoomSpec {
	entry := world.Pose{}
	exit := world.At(0, 0, 4.1, 180)
	arch := world.At(0, 0, 3.9, 0)
	return RoomSpec{
		Name: "test", Kind: kind, HalfWidth: 2, Depth: 4, Height: 3, Entry: &entry,
		Doors: []DoorFrame{{Hinge: world.At(-0.5, 0, 4, 90), Width: 1, Exit: &exit, Arch: &arch}},
	}
}

func idSource() func() DoorID {
	var next DoorID
	return func() DoorID {
		next++
		return next
	}
}

func TestNewRoomErrors(t *testing.T) {
	noEntry := testRoomSpec(RoomStage)
	noEntry.Entry = nil
	noDoors := testRoomSpec(RoomStage)
	noDoors.Doors = nil
	badDoor := testRoomSpec(RoomStage)
	badDoor.Doors[0].Arch = nil

	tests := []struct {
		name string
		spec RoomSpec
		want error
	}{
		{"missing entry", noEntry, ErrMissingEntry},
		{"no doors", noDoors, ErrNoDoors},
		{"door missing pivot", badDoor, ErrMissingPivot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRoom(1, tt.spec, world.Pose{}, 0, idSource(), DefaultDoorSettings())
			if !errors.Is(err, tt.want) {
				t.Errorf("NewRoom() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEndgameRoomNeedsNoDoors(t *testing.T) {
	spec := testRoomSpec(RoomEndgame)
	spec.Doors = nil
	if _, err := NewRoom(1, spec, world.Pose{}, 0, idSource(), DefaultDoorSettings()); err != nil {
		t.Errorf("NewRoom(endgame, no doors) error = %v, want nil", err)
	}
}

func TestRoomDoorsAreInWorldSpace(t *testing.T) {
	r, err := NewRoom(1, testRoomSpec(RoomStage), world.At(10, 0, 0, 90), 0, idSource(), DefaultDoorSettings())
	if err != nil {
		t.Fatalf("NewRoom() error = %v", err)
	}
	exit := r.Doors()[0].ExitPivot()
	if math.Abs(exit.Position.X-14.1) > 1e-9 || math.Abs(exit.Position.Z) > 1e-9 {
		t.Errorf("exit position = %v, want (14.1, 0, 0)", exit.Position)
	}
	if math.Abs(world.DeltaYaw(exit.Yaw, 270)) > 1e-9 {
		t.Errorf("exit yaw = %v, want 270", exit.Yaw)
	}
	if !r.Contains(world.V(12, 1, 0)) {
		t.Error("Contains(12, 1, 0) = false, want true")
	}
	if r.Contains(world.V(8, 1, 0)) {
		t.Error("Contains(8, 1, 0) = true, want false")
	}
}

func TestAnomalyAssignedOnce(t *testing.T) {
	r, _ := NewRoom(1, testRoomSpec(RoomStage), world.Pose{}, 0, idSource(), DefaultDoorSettings())
	if err := r.AssignAnomaly(&Anomaly{Kind: AnomalyStatic}); err != nil {
		t.Fatalf("AssignAnomaly() error = %v", err)
	}
	if err := r.AssignAnomaly(nil); !errors.Is(err, ErrAnomalyAssigned) {
		t.Errorf("second AssignAnomaly() = %v, want ErrAnomalyAssigned", err)
	}
	if !r.HasAnomaly() {
		t.Error("HasAnomaly() = false after rejected reassignment, want true")
	}
}

func TestHallwayStaysClean(t *testing.T) {
	r, _ := NewRoom(1, testRoomSpec(RoomHallway), world.Pose{}, 0, idSource(), DefaultDoorSettings())
	_ = r.AssignAnomaly(&Anomaly{Kind: AnomalyLargeObject})
	if r.HasAnomaly() {
		t.Error("hallway HasAnomaly() = true, want false")
	}
}

func TestJudgeOnce(t *testing.T) {
	r, _ := NewRoom(1, testRoomSpec(RoomStage), world.Pose{}, 0, idSource(), DefaultDoorSettings())
	_ = r.AssignAnomaly(&Anomaly{Kind: AnomalyRadioNoise})

	if !r.Judge(true) {
		t.Fatal("first Judge = false, want true")
	}
	if !r.Completed() || !r.Solved() {
		t.Errorf("Completed() = %v, Solved() = %v, want true, true", r.Completed(), r.Solved())
	}
	if r.Judge(false) {
		t.Error("second Judge = true, want false")
	}
	if !r.Solved() {
		t.Error("second Judge changed Solved()")
	}
}

func TestRoomLockAndUnlockDoors(t *testing.T) {
	r, _ := NewRoom(1, testRoomSpec(RoomStage), world.Pose{}, 0, idSource(), DefaultDoorSettings())
	r.LockDoors()
	for _, d := range r.Doors() {
		if !d.Locked() {
			t.Errorf("door %d not locked", d.ID())
		}
	}
	r.UnlockDoors()
	for _, d := range r.Doors() {
		if d.Locked() {
			t.Errorf("door %d still locked", d.ID())
		}
	}
}

func TestSequenceRoller(t *testing.T) {
	s := &SequenceRoller{Present: []bool{true, false}}
	if s.Roll(0) == nil {
		t.Error("first Roll = nil, want anomaly")
	}
	if s.Roll(0) != nil {
		t.Error("second Roll = anomaly, want nil")
	}
	if s.Roll(0) != nil {
		t.Error("exhausted Roll = anomaly, want nil")
	}
}
