// Package scenesync keeps the render session in step with the host scene.
// Once per render request the Controller decides whether the session and
// scene can be reused, patched in place or must be rebuilt.
package scenesync

import (
	"fmt"
	"sort"
	"sync"

	"github.com/achilleasa/polaris-link/host"
	"github.com/achilleasa/polaris-link/log"
	"github.com/achilleasa/polaris-link/tracer"
)

// Decision is the amount of rebuild work performed for a frame. Values
// are ordered by cost.
type Decision uint8

const (
	ReuseSession Decision = iota
	PatchScene
	RebuildScene
	RebuildSession
)

var decisionNames = [...]string{"reuse", "patch", "rebuild-scene", "rebuild-session"}

func (d Decision) String() string {
	if int(d) < len(decisionNames) {
		return decisionNames[d]
	}
	return fmt.Sprintf("decision(%d)", d)
}

// SceneBuilder converts host entities into engine scene objects. Full
// builds have no failure path.
type SceneBuilder interface {
	Build(sc tracer.Scene, entities []host.Entity)
}

// Updater applies a single update to the engine scene in place.
type Updater interface {
	Update(sc tracer.Scene, u Update) error
}

// UpdaterFunc adapts a function to the Updater interface.
type UpdaterFunc func(sc tracer.Scene, u Update) error

func (fn UpdaterFunc) Update(sc tracer.Scene, u Update) error {
	return fn(sc, u)
}

// SyncPass identifies the post-sync round.
type SyncPass uint8

const (
	// The first round may request a rebuild.
	FirstPass SyncPass = iota

	// The round after a hook-requested rebuild. Abort requests are ignored.
	FinalPass
)

// PostSyncHook is invoked once all updates of a frame have been applied.
// Returning true requests a full scene rebuild.
type PostSyncHook interface {
	PostSync(sc tracer.Scene, pass SyncPass) bool
}

// Result summarizes the synchronization of one frame.
type Result struct {
	Decision Decision

	// Why a rebuild was performed.
	Reason string

	// Number of updates applied in place and notifications ignored.
	Applied int
	Ignored int

	// Number of full scene builds performed (0-2).
	Builds int

	SessionID string
}

// Controller owns the render session and synchronizes it with the host.
type Controller struct {
	logger log.Logger

	host    host.Host
	engine  tracer.Engine
	builder SceneBuilder

	updaters [numIntents]Updater
	hooks    []PostSyncHook

	// Written only by the goroutine calling Sync; the lock lets Cancel
	// run concurrently with it.
	mu      sync.Mutex
	session tracer.Session
	prev    *frameState
}

// Create a new controller.
func NewController(h host.Host, engine tracer.Engine, builder SceneBuilder) *Controller {
	return &Controller{
		logger:  log.New("scene sync"),
		host:    h,
		engine:  engine,
		builder: builder,
	}
}

// Register the updater for an intent, replacing any previous one.
func (c *Controller) RegisterUpdater(intent Intent, u Updater) {
	if intent == IntentIgnore || intent >= numIntents {
		return
	}
	c.updaters[intent] = u
}

// Register a post-sync hook.
func (c *Controller) AddHook(hook PostSyncHook) {
	c.hooks = append(c.hooks, hook)
}

// Session returns the current render session or nil.
func (c *Controller) Session() tracer.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Sync brings the render session up to date with the host for one frame.
// An error is only returned if a new session could not be created.
func (c *Controller) Sync(f Frame) (Result, error) {
	var res Result
	cur := snapshot(f)

	if reason := c.sessionRebuildReason(cur); reason != "" {
		if err := c.recreateSession(f); err != nil {
			return res, err
		}
		res.Decision, res.Reason = RebuildSession, reason
		c.rebuild(f, &res)
	} else if reason := c.sceneRebuildReason(cur); reason != "" {
		res.Decision, res.Reason = RebuildScene, reason
		c.rebuild(f, &res)
	} else {
		c.patch(f, &res)
	}

	c.postSync(f, &res)

	c.host.MarkClean(notifiedIDs(f.Changes))
	c.prev = cur
	res.SessionID = c.session.ID()

	c.logger.Debugf("frame synced: %s (%s) applied=%d ignored=%d builds=%d", res.Decision, res.Reason, res.Applied, res.Ignored, res.Builds)
	return res, nil
}

// Conditions that invalidate the session.
func (c *Controller) sessionRebuildReason(cur *frameState) string {
	prev := c.prev
	switch {
	case c.session == nil || prev == nil:
		return "no session"
	case cur.session != prev.session:
		return "session parameters changed"
	case cur.scene != prev.scene:
		return "scene parameters changed"
	case cur.display != prev.display && cur.display.Kind.IsAOV() && cur.display.Source != prev.display.Source:
		return "display aov changed"
	case cur.denoise != prev.denoise:
		return "denoising toggled"
	case cur.displacement != prev.displacement:
		return "displacement method changed"
	case prev.motion == MotionOff && cur.motion != MotionOff:
		return "motion enabled"
	case cur.renderType != prev.renderType:
		return "render type changed"
	}
	return ""
}

// Conditions that force a full scene build inside the current session.
func (c *Controller) sceneRebuildReason(cur *frameState) string {
	if !cur.renderType.Incremental() {
		return fmt.Sprintf("%s render", cur.renderType)
	}
	if !cur.sameIsolation(c.prev) {
		return "isolation changed"
	}
	return ""
}

// Tear down the current session and create a new one.
func (c *Controller) recreateSession(f Frame) error {
	c.Teardown()

	sess, err := c.engine.NewSession(f.Session, f.Scene)
	if err != nil {
		return fmt.Errorf("scenesync: could not create session: %w", err)
	}
	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()
	return nil
}

// Cancel an in-flight render of the current session.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ErrNoSession
	}
	c.session.Cancel()
	return nil
}

// Teardown cancels any in-flight render and releases the session.
func (c *Controller) Teardown() {
	c.mu.Lock()
	sess := c.session
	c.session = nil
	c.mu.Unlock()

	if sess == nil {
		return
	}
	sess.Cancel()
	sess.FreeDeviceMemory()
	sess.Close()
	c.prev = nil
}

// Build the scene from scratch.
func (c *Controller) rebuild(f Frame, res *Result) {
	c.session.Cancel()

	sc := c.session.Scene()
	sc.Clear()
	c.builder.Build(sc, c.sceneEntities(f))
	res.Builds++
}

// Entities converted by a full build: the whole object graph or, for
// isolated views, the isolated entities plus all lights.
func (c *Controller) sceneEntities(f Frame) []host.Entity {
	if f.Isolation == nil {
		return c.host.Objects()
	}

	seen := make(map[host.ObjectID]struct{})
	list := make([]host.Entity, 0, len(f.Isolation))
	appendUnique := func(e host.Entity) {
		if _, dup := seen[e.ID()]; !dup {
			seen[e.ID()] = struct{}{}
			list = append(list, e)
		}
	}

	for _, id := range uniqueSorted(f.Isolation) {
		if e, ok := c.host.Lookup(id); ok {
			appendUnique(e)
		}
	}
	for _, light := range c.host.Lights() {
		appendUnique(light)
	}
	return list
}

// Apply the frame notifications incrementally, falling back to a full
// scene build if any updater fails.
func (c *Controller) patch(f Frame, res *Result) {
	updates, ignored := classifyBatch(f.Changes, c.logger)
	res.Ignored = ignored
	if len(updates) == 0 {
		res.Decision = ReuseSession
		return
	}

	sc := c.session.Scene()
	for _, u := range updates {
		updater := c.updaters[u.Intent]
		if updater == nil {
			c.fallback(f, res, u, ErrNoUpdater)
			return
		}
		if err := updater.Update(sc, u); err != nil {
			c.fallback(f, res, u, err)
			return
		}
		res.Applied++
	}

	res.Decision = PatchScene
}

func (c *Controller) fallback(f Frame, res *Result, u Update, err error) {
	c.logger.Warningf("%s update of %d failed: %v; rebuilding scene", u.Intent, u.targetID(), err)
	res.Decision, res.Reason = RebuildScene, "update failed"
	res.Applied = 0
	c.rebuild(f, res)
}

// Give hooks a chance to request a rebuild. The rebuild they trigger is
// followed by a final round whose requests are ignored.
func (c *Controller) postSync(f Frame, res *Result) {
	if !c.runHooks(FirstPass) {
		return
	}

	c.logger.Info("post-sync hook requested a rebuild")
	if res.Decision < RebuildScene {
		res.Decision = RebuildScene
	}
	if res.Reason == "" {
		res.Reason = "post-sync abort"
	} else {
		res.Reason += ", post-sync abort"
	}
	c.rebuild(f, res)
	c.runHooks(FinalPass)
}

func (c *Controller) runHooks(p SyncPass) bool {
	sc := c.session.Scene()
	abort := false
	for _, hook := range c.hooks {
		if hook.PostSync(sc, p) {
			abort = true
		}
	}
	return abort && p == FirstPass
}

// Classify a batch into a de-duplicated, canonically ordered list of
// updates so the outcome does not depend on notification order.
func classifyBatch(changes []host.Notification, logger log.Logger) ([]Update, int) {
	type key struct {
		intent     Intent
		target     host.ObjectID
		assignment bool
	}

	ignored := 0
	seen := make(map[key]struct{}, len(changes))
	updates := make([]Update, 0, len(changes))
	for _, n := range changes {
		u := Classify(n)
		if u.Intent == IntentIgnore {
			ignored++
			if n.Entity != nil {
				logger.Debugf("ignoring %s change of %q", n.Kind, n.Entity.Name())
			}
			continue
		}

		k := key{u.Intent, u.targetID(), u.Assignment}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		updates = append(updates, u)
	}

	sort.Slice(updates, func(i, j int) bool {
		a, b := updates[i], updates[j]
		if a.Intent != b.Intent {
			return a.Intent < b.Intent
		}
		if a.targetID() != b.targetID() {
			return a.targetID() < b.targetID()
		}
		return !a.Assignment && b.Assignment
	})
	return updates, ignored
}

func notifiedIDs(changes []host.Notification) []host.ObjectID {
	ids := make([]host.ObjectID, 0, len(changes))
	for _, n := range changes {
		if n.Entity != nil {
			ids = append(ids, n.Entity.ID())
		}
	}
	return uniqueSorted(ids)
}
