package renderer

import (
	"time"

	"github.com/achilleasa/polaris-link/scenesync"
)

type FrameStats struct {
	// Sequence number of the frame.
	Frame int

	// The session that rendered the frame.
	SessionID string

	// Synchronization outcome.
	Decision scenesync.Decision
	Reason   string
	Updates  int

	// Number of resolved passes and resolution warnings.
	Passes   int
	Warnings int

	// True if the render was cancelled or failed before completing.
	Interrupted bool

	SyncTime   time.Duration
	RenderTime time.Duration
}
