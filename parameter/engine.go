package parameter

import "time"

// Simulation Loop
const (
	// TickInterval is the fixed simulation tick
	TickInterval = 40 * time.Millisecond

	// FrameUpdateInterval is the viewer redraw interval (~30 FPS)
	FrameUpdateInterval = 33 * time.Millisecond

	// InputQueueSize is the buffered capacity of the viewer's terminal event channel
	InputQueueSize = 100
)

// MaxEntitiesPerCell bounds occupants tracked per grid cell
// 15 * 8 (Entities) + 1 (Count) + 7 (Padding) = 128 bytes
const MaxEntitiesPerCell = 15

// Grid Defaults
const (
	// DefaultGridWidth is the map width used when a scenario omits one
	DefaultGridWidth = 48

	// DefaultGridHeight is the map height used when a scenario omits one
	DefaultGridHeight = 24
)
