package script

import (
	"errors"
	"fmt"

	"github.com/achilleasa/polaris-link/host"
	"github.com/achilleasa/polaris-link/log"
	"github.com/achilleasa/polaris-link/scenesync"
	"github.com/achilleasa/polaris-link/tracer"
)

var ErrUpdateFailed = errors.New("script: update failed")

// Intents handled by the builder updaters.
var updateIntents = []scenesync.Intent{
	scenesync.IntentPass,
	scenesync.IntentCamera,
	scenesync.IntentCameraTransform,
	scenesync.IntentMaterial,
	scenesync.IntentMesh,
	scenesync.IntentHair,
	scenesync.IntentPointCloud,
	scenesync.IntentVolume,
	scenesync.IntentLight,
	scenesync.IntentTransform,
	scenesync.IntentVisibility,
	scenesync.IntentLightLinking,
	scenesync.IntentAmbient,
}

// Builder translates scripted entities into engine scene objects. Every
// applied update bumps the revision of its target.
type Builder struct {
	logger log.Logger
	host   *Host

	builds  int
	updates int
}

// NewBuilder creates a builder for entities of h.
func NewBuilder(h *Host) *Builder {
	return &Builder{
		logger: log.New("script builder"),
		host:   h,
	}
}

// Register installs an updater for every update intent.
func (b *Builder) Register(ctrl *scenesync.Controller) {
	for _, intent := range updateIntents {
		ctrl.RegisterUpdater(intent, b)
	}
}

// Build populates sc from scratch.
func (b *Builder) Build(sc tracer.Scene, entities []host.Entity) {
	b.builds++
	for _, e := range entities {
		sc.Put(sceneObject(e))
	}
	b.logger.Debugf("built scene with %d object(s)", sc.Len())
}

// Update applies a single update to sc.
func (b *Builder) Update(sc tracer.Scene, u scenesync.Update) error {
	if u.Target == nil {
		return fmt.Errorf("%w: %s update without target", ErrUpdateFailed, u.Intent)
	}
	if b.host.failing(u.Target.ID()) {
		return fmt.Errorf("%w: %s %q", ErrUpdateFailed, u.Intent, u.Target.Name())
	}

	obj, ok := sc.Get(u.Target.ID())
	if !ok {
		obj = sceneObject(u.Target)
	}
	obj.Revision++
	sc.Put(obj)
	b.updates++
	return nil
}

// Builds returns the number of full scene builds.
func (b *Builder) Builds() int { return b.builds }

// Updates returns the number of applied updates.
func (b *Builder) Updates() int { return b.updates }

func sceneObject(e host.Entity) tracer.SceneObject {
	class := e.Kind().String()
	if obj, err := host.AsObject(e); err == nil && obj.Type() != host.TypeNone {
		class = obj.Type().String()
	}
	return tracer.SceneObject{ID: e.ID(), Name: e.Name(), Class: class}
}
