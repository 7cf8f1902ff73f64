// Package entities contains the interactive objects of the room graph:
// draggable doors, rooms, and the anomaly descriptor attached to a room.
package entities

import (
	"errors"
	"fmt"
	"math"

	"liminal/pkg/engine/world"
)

// DoorID identifies a door for the lifetime of its room
type DoorID uint32

// NoDoor is the zero DoorID; no live door carries it.
const NoDoor DoorID = 0

// DoorState is the interaction state of a door
type DoorState int

const (
	DoorClosed DoorState = iota // At rest within the close threshold
	DoorOpen                    // At rest beyond the close threshold
	DoorMoving                  // Held by the player
)

// String returns the state name
func (s DoorState) String() string {
	switch s {
	case DoorClosed:
		return "Closed"
	case DoorOpen:
		return "Open"
	case DoorMoving:
		return "Moving"
	default:
		return "Unknown"
	}
}

// DoorEventKind is the kind of transition a door reports
type DoorEventKind int

const (
	EventGrabbed DoorEventKind = iota // Player tried to take hold of the door
	EventOpened                       // Door came to rest open
	EventClosed                       // Door came to rest closed
)

// String returns the event name
func (k DoorEventKind) String() string {
	switch k {
	case EventGrabbed:
		return "Grabbed"
	case EventOpened:
		return "Opened"
	case EventClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// DoorEvent is emitted by a door on a relevant transition
type DoorEvent struct {
	Door DoorID
	Kind DoorEventKind
}

// DoorListener receives door events. The room graph manager is the only listener.
type DoorListener interface {
	Notify(ev DoorEvent)
}

// RoleKind tags what a door means to the room graph
type RoleKind int

const (
	RoleUnassigned RoleKind = iota
	RoleForward             // Door of the current room; may spawn the next room
	RoleBackward            // Door of the previous room; may re-enter it
	RoleEntry               // Wall door inherited from a destroyed room; never spawns
)

func (k RoleKind) String() string {
	switch k {
	case RoleForward:
		return "forward"
	case RoleBackward:
		return "backward"
	case RoleEntry:
		return "entry"
	default:
		return "unassigned"
	}
}

// DoorRole is resolved by the manager whenever rooms shift, so interactions
// never need to re-derive it.
type DoorRole struct {
	Kind  RoleKind
	Owner RoomID
}

// Door errors
var (
	ErrMissingPivot = errors.New("door is missing a pivot marker")
	ErrInvalidDoor  = errors.New("invalid door frame")
)

// DoorSettings tunes the drag and close behaviour of a door.
// Angles are in degrees, speeds in degrees per second, delays in seconds.
type DoorSettings struct {
	MaxAngle            float64 `yaml:"max_angle"`
	RotationSpeed       float64 `yaml:"rotation_speed"`
	CloseAngleThreshold float64 `yaml:"close_angle_threshold"`
	SnapAngleThreshold  float64 `yaml:"snap_angle_threshold"`
	CloseAnimationSpeed float64 `yaml:"close_animation_speed"`
	AutoCloseDelay      float64 `yaml:"auto_close_delay"`
}

// DefaultDoorSettings returns the stock door tuning
func DefaultDoorSettings() DoorSettings {
	return DoorSettings{
		MaxAngle:            90,
		RotationSpeed:       500,
		CloseAngleThreshold: 2,
		SnapAngleThreshold:  20,
		CloseAnimationSpeed: 500,
		AutoCloseDelay:      1,
	}
}

// Validate checks the settings for values the state machine cannot work with
func (s DoorSettings) Validate() error {
	switch {
	case s.MaxAngle <= 0 || s.MaxAngle > 180:
		return fmt.Errorf("%w: max angle %v out of (0, 180]", ErrInvalidDoor, s.MaxAngle)
	case s.CloseAngleThreshold < 0 || s.CloseAngleThreshold >= s.MaxAngle:
		return fmt.Errorf("%w: close threshold %v", ErrInvalidDoor, s.CloseAngleThreshold)
	case s.SnapAngleThreshold < s.CloseAngleThreshold || s.SnapAngleThreshold > s.MaxAngle:
		return fmt.Errorf("%w: snap threshold %v out of [%v, %v]", ErrInvalidDoor, s.SnapAngleThreshold, s.CloseAngleThreshold, s.MaxAngle)
	case s.RotationSpeed <= 0 || s.CloseAnimationSpeed <= 0:
		return fmt.Errorf("%w: speeds must be positive", ErrInvalidDoor)
	case s.AutoCloseDelay < 0:
		return fmt.Errorf("%w: negative auto-close delay", ErrInvalidDoor)
	}
	return nil
}

// DoorFrame places a door in world space.
type DoorFrame struct {
	Hinge world.Pose  // Hinge position; Yaw is the leaf heading when closed
	Width float64     // Leaf length from hinge to latch
	Exit  *world.Pose // Outer pivot: where a room spawned through this door is anchored
	Arch  *world.Pose // Inner pivot on the frame
}

// Door is a hinged leaf the player drags open. It closes itself after a delay.
//
// While not held, state is Closed exactly when the opening angle is within
// the close threshold. A locked door never changes angle on its own or by drag.
type Door struct {
	id       DoorID
	frame    DoorFrame
	settings DoorSettings

	state DoorState
	rest  DoorState // last resting state, for once-per-crossing events
	angle float64   // signed opening angle relative to the closed heading

	locked      bool
	dragging    bool
	accumulated float64
	lastDir     world.Vec3
	dragHeight  float64

	clock        float64
	closeAt      float64
	closePending bool
	autoClosing  bool

	role     DoorRole
	listener DoorListener
}

// NewDoor creates a closed, unlocked door
func NewDoor(id DoorID, frame DoorFrame, settings DoorSettings) (*Door, error) {
	if frame.Exit == nil || frame.Arch == nil {
		return nil, fmt.Errorf("door %d: %w", id, ErrMissingPivot)
	}
	if frame.Width <= 0 {
		return nil, fmt.Errorf("door %d: %w: width %v", id, ErrInvalidDoor, frame.Width)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("door %d: %w", id, err)
	}
	exit, arch := *frame.Exit, *frame.Arch
	frame.Exit, frame.Arch = &exit, &arch
	return &Door{
		id:       id,
		frame:    frame,
		settings: settings,
		state:    DoorClosed,
		rest:     DoorClosed,
	}, nil
}

// ID returns the door identifier
func (d *Door) ID() DoorID { return d.id }

// State returns the current interaction state
func (d *Door) State() DoorState { return d.state }

// Locked reports whether interaction is blocked
func (d *Door) Locked() bool { return d.locked }

// Dragging reports whether the player holds the door
func (d *Door) Dragging() bool { return d.dragging }

// CurrentAngle returns the unsigned opening angle in degrees
func (d *Door) CurrentAngle() float64 { return math.Abs(d.angle) }

// SignedAngle returns the opening angle with its swing side
func (d *Door) SignedAngle() float64 { return d.angle }

// Settings returns the door tuning
func (d *Door) Settings() DoorSettings { return d.settings }

// Hinge returns the hinge pose at the closed heading
func (d *Door) Hinge() world.Pose { return d.frame.Hinge }

// Width returns the leaf length
func (d *Door) Width() float64 { return d.frame.Width }

// ExitPivot returns the outer pivot marker
func (d *Door) ExitPivot() world.Pose { return *d.frame.Exit }

// ArchPivot returns the inner pivot marker
func (d *Door) ArchPivot() world.Pose { return *d.frame.Arch }

// Role returns the graph role assigned by the manager
func (d *Door) Role() DoorRole { return d.role }

// SetRole assigns the graph role
func (d *Door) SetRole(r DoorRole) { d.role = r }

// SetListener routes this door's events to l
func (d *Door) SetListener(l DoorListener) { d.listener = l }

// PendingCloseAt returns the door-clock time of a scheduled auto-close
func (d *Door) PendingCloseAt() (float64, bool) {
	return d.closeAt, d.closePending
}

// LeafTip returns the world position of the free end of the leaf
func (d *Door) LeafTip() world.Vec3 {
	dir := world.Forward(d.frame.Hinge.Yaw + d.angle)
	return d.frame.Hinge.Position.Add(dir.Scale(d.frame.Width))
}

// Center returns the midpoint of the closed leaf, used for proximity checks
func (d *Door) Center() world.Vec3 {
	dir := world.Forward(d.frame.Hinge.Yaw)
	return d.frame.Hinge.Position.Add(dir.Scale(d.frame.Width / 2))
}

// BeginDrag takes hold of the door with the given pointer ray.
// The grab is always reported to the listener; it only starts a drag when
// the door is unlocked and not already held. Returns whether a drag started.
func (d *Door) BeginDrag(ray world.Ray) bool {
	if d.dragging {
		return false
	}
	d.emit(EventGrabbed)
	if d.locked {
		return false
	}

	d.dragging = true
	d.state = DoorMoving
	d.autoClosing = false
	d.closePending = false

	d.dragHeight = d.frame.Hinge.Position.Y
	d.accumulated = world.Clamp(d.angle, -d.settings.MaxAngle, d.settings.MaxAngle)
	d.lastDir = world.Vec3{}
	if hit, ok := ray.IntersectHorizontal(d.dragHeight); ok {
		d.lastDir = hit.Sub(d.frame.Hinge.Position).Flat().Normalize()
	}
	return true
}

// DragUpdate follows the pointer for one tick of dt seconds. The leaf turns
// toward the accumulated pointer angle at no more than RotationSpeed.
func (d *Door) DragUpdate(ray world.Ray, dt float64) {
	if !d.dragging {
		return
	}
	if d.locked {
		d.release(false)
		return
	}
	hit, ok := ray.IntersectHorizontal(d.dragHeight)
	if !ok {
		return
	}
	dir := hit.Sub(d.frame.Hinge.Position).Flat().Normalize()
	if dir == (world.Vec3{}) {
		return
	}
	if d.lastDir != (world.Vec3{}) {
		d.accumulated += world.SignedAngle(d.lastDir, dir)
		d.accumulated = world.Clamp(d.accumulated, -d.settings.MaxAngle, d.settings.MaxAngle)
	}
	d.angle = world.RotateTowards(d.angle, d.accumulated, d.settings.RotationSpeed*dt)
	d.lastDir = dir
}

// EndDrag lets go of the door. An open door schedules its auto-close.
func (d *Door) EndDrag() {
	if !d.dragging {
		return
	}
	d.release(true)
}

// Tick advances the door clock by dt seconds and runs the auto-close.
func (d *Door) Tick(dt float64) {
	d.clock += dt
	if d.dragging {
		if d.locked {
			d.release(false)
		}
		return
	}
	if d.locked {
		return
	}

	if d.closePending && d.clock >= d.closeAt {
		d.closePending = false
		if d.state == DoorOpen {
			d.autoClosing = true
		}
	}

	a := d.CurrentAngle()
	snap := a > d.settings.CloseAngleThreshold && a <= d.settings.SnapAngleThreshold
	if d.state == DoorClosed || (!d.autoClosing && !snap) {
		return
	}

	d.angle = world.RotateTowards(d.angle, 0, d.settings.CloseAnimationSpeed*dt)
	d.accumulated = d.angle
	if d.CurrentAngle() <= d.settings.CloseAngleThreshold {
		d.angle = 0
		d.accumulated = 0
		d.autoClosing = false
		d.closePending = false
		d.settle()
	}
}

// Lock blocks interaction. A drag in progress is dropped on the spot and any
// scheduled auto-close is cancelled.
func (d *Door) Lock() {
	if d.locked {
		return
	}
	d.locked = true
	d.closePending = false
	d.autoClosing = false
	if d.dragging {
		d.release(false)
	}
}

// Unlock allows interaction again. A door left resting open re-arms its auto-close.
func (d *Door) Unlock() {
	if !d.locked {
		return
	}
	d.locked = false
	if d.state == DoorOpen && !d.closePending {
		d.scheduleClose()
	}
}

// ForceClose shuts the door instantly, dropping any drag or pending close.
func (d *Door) ForceClose() {
	d.dragging = false
	d.closePending = false
	d.autoClosing = false
	d.angle = 0
	d.accumulated = 0
	d.settle()
}

// SwapPivots exchanges the outer and inner pivot markers. Used when the wall
// holding this door changes owner, so "outer" keeps meaning "away from the owner".
func (d *Door) SwapPivots() {
	d.frame.Exit, d.frame.Arch = d.frame.Arch, d.frame.Exit
}

func (d *Door) release(scheduleClose bool) {
	d.dragging = false
	d.lastDir = world.Vec3{}
	d.settle()
	if scheduleClose && d.state == DoorOpen && !d.locked {
		d.scheduleClose()
	}
}

func (d *Door) scheduleClose() {
	d.closeAt = d.clock + d.settings.AutoCloseDelay
	d.closePending = true
}

// settle recomputes the resting state from the angle and reports a crossing.
func (d *Door) settle() {
	next := DoorOpen
	if d.CurrentAngle() <= d.settings.CloseAngleThreshold {
		next = DoorClosed
	}
	d.state = next
	if next == d.rest {
		return
	}
	d.rest = next
	if next == DoorClosed {
		d.emit(EventClosed)
	} else {
		d.emit(EventOpened)
	}
}

func (d *Door) emit(kind DoorEventKind) {
	if d.listener != nil {
		d.listener.Notify(DoorEvent{Door: d.id, Kind: kind})
	}
}
