package parameter

// World Geometry
const (
	// CellSize is the world-space length of one cell side
	CellSize = 1024
)

// Domain Repair
const (
	// RerootCapFactor multiplies the cell count to give the parent-chain walk limit
	// A chain longer than the number of cells must contain a cycle
	RerootCapFactor = 1
)

// Overlay
const (
	// OverlayDomainGlyphs is cycled by domain id when drawing cells
	OverlayDomainGlyphs = "0123456789abcdefghijklmnopqrstuvwxyz"

	// OverlayStreamBuffer is the per-client pending frame buffer of the overlay stream
	OverlayStreamBuffer = 8
)

// Audio Cues
const (
	// CueSplitHz is the tone played when a repair creates domains
	CueSplitHz = 660.0

	// CueMergeHz is the tone played when a repair merges domains
	CueMergeHz = 330.0

	// CueDurationMs is the length of a single cue tone
	CueDurationMs = 60
)
