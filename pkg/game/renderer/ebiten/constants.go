// Package ebiten provides an Ebiten-based 2D top-down renderer for Liminal.
package ebiten

import "image/color"

// Color palette
var (
	colorBackground    = color.RGBA{15, 15, 26, 255}    // Near black
	colorFloor         = color.RGBA{46, 46, 66, 255}    // Lit floor
	colorFloorDim      = color.RGBA{26, 26, 40, 255}    // Disabled or dark floor
	colorWall          = color.RGBA{180, 180, 200, 255} // Light gray-blue
	colorWallDim       = color.RGBA{90, 90, 110, 255}   // Walls of the room left behind
	colorPlayer        = color.RGBA{0, 255, 0, 255}     // Bright green
	colorDoorClosed    = color.RGBA{255, 220, 100, 255} // Yellow
	colorDoorOpen      = color.RGBA{0, 220, 0, 255}     // Green
	colorDoorLocked    = color.RGBA{255, 100, 100, 255} // Red
	colorDoorHeld      = color.RGBA{255, 255, 255, 255} // White while dragged
	colorPivot         = color.RGBA{120, 130, 180, 255} // Soft blue-purple-gray
	colorSubtle        = color.RGBA{120, 130, 180, 255} // Soft blue-purple-gray
	colorText          = color.RGBA{200, 210, 245, 255} // Soft off-white with blue-purple tint
	colorAction        = color.RGBA{180, 150, 250, 255} // Blue-purple
	colorEndgame       = color.RGBA{100, 255, 150, 255} // Green
	colorPanelBackdrop = color.RGBA{30, 30, 50, 220}    // Semi-transparent dark
)

// Zoom constraints, in pixels per metre
const (
	minZoom     = 12.0
	maxZoom     = 144.0
	zoomStep    = 4.0
	defaultZoom = 48.0
)

// Text layout
const (
	fontSize   = 14.0
	lineHeight = 18.0
	panelPad   = 10.0
)

const (
	keyRepeatInitialDelay = 250 // Initial delay before first repeat (milliseconds)
	keyRepeatInterval     = 60  // Interval between repeat events (milliseconds)
)
