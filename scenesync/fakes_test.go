package scenesync

import (
	"context"
	"errors"
	"fmt"

	"github.com/achilleasa/polaris-link/host"
	"github.com/achilleasa/polaris-link/tracer"
)

type fakeEntity struct {
	id     host.ObjectID
	name   string
	kind   host.Kind
	typ    host.ObjectType
	root   bool
	parent *fakeEntity
}

func (e *fakeEntity) ID() host.ObjectID     { return e.id }
func (e *fakeEntity) Name() string          { return e.name }
func (e *fakeEntity) Kind() host.Kind       { return e.kind }
func (e *fakeEntity) Type() host.ObjectType { return e.typ }
func (e *fakeEntity) IsRoot() bool          { return e.root }
func (e *fakeEntity) Parent() host.Entity {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

type fakeHost struct {
	entities []*fakeEntity
	cleaned  [][]host.ObjectID
}

func (h *fakeHost) add(e *fakeEntity) *fakeEntity {
	h.entities = append(h.entities, e)
	return e
}

func (h *fakeHost) Objects() []host.Entity {
	var list []host.Entity
	for _, e := range h.entities {
		switch e.kind {
		case host.KindObject, host.KindCamera, host.KindLight:
			list = append(list, e)
		}
	}
	return list
}

func (h *fakeHost) Lights() []host.Entity {
	var list []host.Entity
	for _, e := range h.entities {
		if e.kind == host.KindLight {
			list = append(list, e)
		}
	}
	return list
}

func (h *fakeHost) Lookup(id host.ObjectID) (host.Entity, bool) {
	for _, e := range h.entities {
		if e.id == id {
			return e, true
		}
	}
	return nil, false
}

func (h *fakeHost) MarkClean(ids []host.ObjectID) {
	h.cleaned = append(h.cleaned, ids)
}

type fakeSession struct {
	id        string
	scene     *tracer.MemScene
	cancelled int
	freed     int
	closed    bool
}

func (s *fakeSession) ID() string                                   { return s.id }
func (s *fakeSession) Scene() tracer.Scene                          { return s.scene }
func (s *fakeSession) Reset(tracer.BufferParams) error              { return nil }
func (s *fakeSession) Start(context.Context, tracer.TileSink) error { return nil }
func (s *fakeSession) Cancel()                                      { s.cancelled++ }
func (s *fakeSession) FreeDeviceMemory()                            { s.freed++ }
func (s *fakeSession) Close()                                       { s.closed = true }

type fakeEngine struct {
	sessions []*fakeSession
	err      error
}

func (e *fakeEngine) NewSession(tracer.SessionParams, tracer.SceneParams) (tracer.Session, error) {
	if e.err != nil {
		return nil, e.err
	}
	sess := &fakeSession{
		id:    fmt.Sprintf("session-%d", len(e.sessions)),
		scene: tracer.NewMemScene(),
	}
	e.sessions = append(e.sessions, sess)
	return sess, nil
}

// Builds one scene object per entity.
type fakeBuilder struct {
	builds  int
	lastIDs []host.ObjectID
}

func (b *fakeBuilder) Build(sc tracer.Scene, entities []host.Entity) {
	b.builds++
	b.lastIDs = b.lastIDs[:0]
	for _, e := range entities {
		b.lastIDs = append(b.lastIDs, e.ID())
		sc.Put(tracer.SceneObject{ID: e.ID(), Name: e.Name(), Class: e.Kind().String()})
	}
}

var errUpdateFailed = errors.New("update failed")

// Records applied updates; bumps the revision of the target object.
type fakeUpdater struct {
	applied []Update
	failOn  host.ObjectID
}

func (u *fakeUpdater) Update(sc tracer.Scene, upd Update) error {
	if u.failOn != 0 && upd.targetID() == u.failOn {
		return errUpdateFailed
	}
	u.applied = append(u.applied, upd)
	obj, _ := sc.Get(upd.targetID())
	obj.ID = upd.targetID()
	obj.Revision++
	sc.Put(obj)
	return nil
}

type fakeHook struct {
	abort bool
	calls []SyncPass
}

func (h *fakeHook) PostSync(_ tracer.Scene, p SyncPass) bool {
	h.calls = append(h.calls, p)
	return h.abort
}

// A small scene: a mesh with kinematics and a cluster, a hair object, a
// camera, a light and a material with a nested shader.
type fixture struct {
	host    *fakeHost
	engine  *fakeEngine
	builder *fakeBuilder
	updater *fakeUpdater
	ctrl    *Controller

	mesh, meshKine, meshCluster *fakeEntity
	hair, hairPrim              *fakeEntity
	camera, cameraKine          *fakeEntity
	light                       *fakeEntity
	material, shader, texture   *fakeEntity
	library, libShader          *fakeEntity
}

func newFixture() *fixture {
	fx := &fixture{
		host:    &fakeHost{},
		engine:  &fakeEngine{},
		builder: &fakeBuilder{},
		updater: &fakeUpdater{},
	}

	h := fx.host
	fx.mesh = h.add(&fakeEntity{id: 1, name: "cube", kind: host.KindObject, typ: host.TypeMesh})
	fx.meshKine = h.add(&fakeEntity{id: 2, name: "cube.kine", kind: host.KindKinematics, parent: fx.mesh})
	fx.meshCluster = h.add(&fakeEntity{id: 3, name: "cube.cls", kind: host.KindCluster, parent: fx.mesh})
	fx.hair = h.add(&fakeEntity{id: 4, name: "fur", kind: host.KindObject, typ: host.TypeHair})
	fx.hairPrim = h.add(&fakeEntity{id: 5, name: "fur.prim", kind: host.KindPrimitive, parent: fx.hair})
	fx.camera = h.add(&fakeEntity{id: 6, name: "cam", kind: host.KindCamera, typ: host.TypeCamera})
	fx.cameraKine = h.add(&fakeEntity{id: 7, name: "cam.kine", kind: host.KindKinematics, parent: fx.camera})
	fx.light = h.add(&fakeEntity{id: 8, name: "key", kind: host.KindLight, typ: host.TypeLight})
	fx.material = h.add(&fakeEntity{id: 9, name: "steel", kind: host.KindMaterial, root: true})
	fx.shader = h.add(&fakeEntity{id: 10, name: "steel.diffuse", kind: host.KindShader, parent: fx.material})
	fx.texture = h.add(&fakeEntity{id: 11, name: "steel.tex", kind: host.KindTexture, parent: fx.shader})
	fx.library = h.add(&fakeEntity{id: 12, name: "lib.mat", kind: host.KindMaterial, root: false})
	fx.libShader = h.add(&fakeEntity{id: 13, name: "lib.shader", kind: host.KindShader, parent: fx.library})

	fx.ctrl = NewController(fx.host, fx.engine, fx.builder)
	for intent := IntentPass; intent < numIntents; intent++ {
		fx.ctrl.RegisterUpdater(intent, fx.updater)
	}
	return fx
}

func baseFrame() Frame {
	return Frame{
		Type:    RenderPreview,
		Session: tracer.SessionParams{Device: "cpu", Threads: 2, Samples: 8},
		Scene:   tracer.SceneParams{BVHType: tracer.DynamicBVH},
	}
}

func notify(e *fakeEntity, sub host.SubKind) host.Notification {
	return host.Notification{Entity: e, Kind: e.kind, SubKind: sub}
}
