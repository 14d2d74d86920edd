package scenesync

import (
	"fmt"
	"sort"

	"github.com/achilleasa/polaris-link/host"
	"github.com/achilleasa/polaris-link/pass"
	"github.com/achilleasa/polaris-link/tracer"
)

// RenderType is the category of a render request.
type RenderType uint8

const (
	// Interactive region preview.
	RenderPreview RenderType = iota

	// Full-frame pass render written to files.
	RenderPass

	// Bake lighting to textures.
	RenderBake

	// Export the scene to an archive.
	RenderExport
)

var renderTypeNames = [...]string{"preview", "pass", "bake", "export"}

func (rt RenderType) String() string {
	if int(rt) < len(renderTypeNames) {
		return renderTypeNames[rt]
	}
	return fmt.Sprintf("render(%d)", rt)
}

// ParseRenderType maps a name to a RenderType.
func ParseRenderType(name string) (RenderType, error) {
	for rt, rtName := range renderTypeNames {
		if rtName == name {
			return RenderType(rt), nil
		}
	}
	return RenderPreview, fmt.Errorf("scenesync: unknown render type %q", name)
}

// Incremental returns true if renders of this type may patch the scene.
func (rt RenderType) Incremental() bool {
	return rt == RenderPreview
}

// MotionType selects how motion is handled.
type MotionType uint8

const (
	MotionOff MotionType = iota
	MotionBlur
	MotionPass
)

var motionNames = [...]string{"off", "blur", "pass"}

func (mt MotionType) String() string {
	if int(mt) < len(motionNames) {
		return motionNames[mt]
	}
	return fmt.Sprintf("motion(%d)", mt)
}

// ParseMotionType maps a name to a MotionType.
func ParseMotionType(name string) (MotionType, error) {
	if name == "" {
		return MotionOff, nil
	}
	for mt, mtName := range motionNames {
		if mtName == name {
			return MotionType(mt), nil
		}
	}
	return MotionOff, fmt.Errorf("scenesync: unknown motion type %q", name)
}

// DisplacementMethod selects how displacement shaders are evaluated.
type DisplacementMethod uint8

const (
	DisplacementBump DisplacementMethod = iota
	DisplacementTrue
	DisplacementBoth
)

var displacementNames = [...]string{"bump", "true", "both"}

func (dm DisplacementMethod) String() string {
	if int(dm) < len(displacementNames) {
		return displacementNames[dm]
	}
	return fmt.Sprintf("displacement(%d)", dm)
}

// ParseDisplacementMethod maps a name to a DisplacementMethod.
func ParseDisplacementMethod(name string) (DisplacementMethod, error) {
	if name == "" {
		return DisplacementBump, nil
	}
	for dm, dmName := range displacementNames {
		if dmName == name {
			return DisplacementMethod(dm), nil
		}
	}
	return DisplacementBump, fmt.Errorf("scenesync: unknown displacement method %q", name)
}

// Frame is the synchronization input of one render request.
type Frame struct {
	Type RenderType

	Session tracer.SessionParams
	Scene   tracer.SceneParams

	Display      pass.DisplayPass
	Denoise      bool
	Displacement DisplacementMethod
	Motion       MotionType

	// Entities visible under an isolation view; nil when not isolated.
	Isolation []host.ObjectID

	Changes []host.Notification
}

// The subset of a frame compared against the next one.
type frameState struct {
	renderType   RenderType
	session      tracer.SessionParams
	scene        tracer.SceneParams
	display      pass.DisplayPass
	denoise      bool
	displacement DisplacementMethod
	motion       MotionType
	isolated     bool
	isolation    []host.ObjectID
}

func snapshot(f Frame) *frameState {
	st := &frameState{
		renderType:   f.Type,
		session:      f.Session,
		scene:        f.Scene,
		display:      f.Display,
		denoise:      f.Denoise,
		displacement: f.Displacement,
		motion:       f.Motion,
		isolated:     f.Isolation != nil,
		isolation:    uniqueSorted(f.Isolation),
	}
	return st
}

func uniqueSorted(ids []host.ObjectID) []host.ObjectID {
	if ids == nil {
		return nil
	}
	out := make([]host.ObjectID, 0, len(ids))
	seen := make(map[host.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (st *frameState) sameIsolation(other *frameState) bool {
	if st.isolated != other.isolated || len(st.isolation) != len(other.isolation) {
		return false
	}
	for i := range st.isolation {
		if st.isolation[i] != other.isolation[i] {
			return false
		}
	}
	return true
}
