package parameter

import "time"

// Event queue sizing. Must be a power of two for mask-based indexing.
const (
	EventQueueSize  = 1024
	EventBufferMask = EventQueueSize - 1
)

// TickInterval is the default fixed physics tick.
const TickInterval = 10 * time.Millisecond

// SpatialHashCellSize is the broad-phase hash cell edge length (m).
// Sized to the largest common activation radius so radius queries touch
// few cells.
const SpatialHashCellSize = 0.25
