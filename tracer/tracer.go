package tracer

import (
	"context"
	"image"

	"github.com/achilleasa/polaris-link/host"
)

// A Tile is a rectangular block of pixels delivered by the engine.
type Tile struct {
	Offset image.Point
	Size   image.Point

	// Copy the tile pixels of the named pass into dst using channels
	// components per pixel. Returns false if the pass is not rendered.
	ReadPass func(name string, channels int, dst []float32) bool
}

// Rect returns the tile rectangle in frame coordinates.
func (t Tile) Rect() image.Rectangle {
	return image.Rectangle{Min: t.Offset, Max: t.Offset.Add(t.Size)}
}

// TileSink receives tiles from the engine worker threads. Tiles delivered
// during one render never overlap.
type TileSink interface {
	WriteTile(tile Tile)
}

// A SceneObject is the engine-side representation of a host entity.
type SceneObject struct {
	ID   host.ObjectID
	Name string

	// The converter that produced this object (mesh, light, material...).
	Class string

	// Incremented whenever the object is updated in place.
	Revision int
}

// Scene is the engine-internal scene graph.
type Scene interface {
	Clear()
	Put(obj SceneObject)
	Remove(id host.ObjectID)
	Get(id host.ObjectID) (SceneObject, bool)

	// Objects returns all objects ordered by id.
	Objects() []SceneObject
	Len() int
}

// Session is the persistent device/memory context of the engine.
type Session interface {
	ID() string

	Scene() Scene

	// Reset the render buffers before a new render.
	Reset(params BufferParams) error

	// Render the scene. Start blocks until the sample budget is exhausted,
	// the session is cancelled or ctx is done.
	Start(ctx context.Context, sink TileSink) error

	// Cancel an in-flight render. Safe to call from any goroutine.
	Cancel()

	// Release device buffers.
	FreeDeviceMemory()

	Close()
}

// Engine creates render sessions.
type Engine interface {
	NewSession(session SessionParams, scene SceneParams) (Session, error)
}
