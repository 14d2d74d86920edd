package tracer

import (
	"fmt"
	"time"
)

// TileOrder controls the order in which tiles are rendered.
type TileOrder uint8

const (
	TopToBottom TileOrder = iota
	BottomToTop
	CenterOut
)

var tileOrderNames = [...]string{"top-to-bottom", "bottom-to-top", "center"}

func (o TileOrder) String() string {
	if int(o) < len(tileOrderNames) {
		return tileOrderNames[o]
	}
	return fmt.Sprintf("order(%d)", o)
}

// ParseTileOrder maps a name to a TileOrder.
func ParseTileOrder(name string) (TileOrder, error) {
	if name == "" {
		return TopToBottom, nil
	}
	for o, oname := range tileOrderNames {
		if oname == name {
			return TileOrder(o), nil
		}
	}
	return TopToBottom, fmt.Errorf("tracer: unknown tile order %q", name)
}

// BVHType selects how the acceleration structure is maintained.
type BVHType uint8

const (
	DynamicBVH BVHType = iota
	StaticBVH
)

// ParseBVHType maps a name to a BVHType.
func ParseBVHType(name string) (BVHType, error) {
	switch name {
	case "", "dynamic":
		return DynamicBVH, nil
	case "static":
		return StaticBVH, nil
	}
	return DynamicBVH, fmt.Errorf("tracer: unknown bvh type %q", name)
}

// SessionParams captures every parameter that invalidates the render
// session when changed. Snapshots are compared with ==.
type SessionParams struct {
	// Device selection.
	Device  string
	Threads int

	Background  bool
	Progressive bool

	TileSize  int
	TileOrder TileOrder

	Samples          int
	AdaptiveSampling bool
	TimeLimit        time.Duration

	PixelSize       int
	StartResolution int
}

// SceneParams captures every parameter that invalidates the engine-side
// scene when changed. Snapshots are compared with ==.
type SceneParams struct {
	BVHType           BVHType
	SpatialSplits     bool
	UnalignedNodes    bool
	CurveSubdivisions int
	MotionSteps       int
	TextureLimit      int
	PersistentData    bool
}

// PassInfo describes a pass the engine must produce.
type PassInfo struct {
	Name     string
	Channels int
}

// BufferParams describes the render buffers of a session.
type BufferParams struct {
	Width  int
	Height int
	Passes []PassInfo
}
