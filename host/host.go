package host

// SubKind qualifies a change notification.
type SubKind uint8

const (
	SubNone SubKind = iota

	// Kinematics notifications
	GlobalTransform
	LocalTransform

	// Material notifications: the material was (re)assigned rather than edited.
	Assignment
)

// A Notification reports that an entity changed since the last frame.
type Notification struct {
	Entity  Entity
	Kind    Kind
	SubKind SubKind
}

// Host is the read-only view of the content-creation host consumed by the
// synchronization controller.
type Host interface {
	// Objects returns every renderable object of the scene graph.
	Objects() []Entity

	// Lights returns every light of the scene.
	Lights() []Entity

	// Lookup an entity by id.
	Lookup(id ObjectID) (Entity, bool)

	// MarkClean acknowledges that the changes of the given entities have
	// been applied.
	MarkClean(ids []ObjectID)
}
