package renderer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/achilleasa/polaris-link/host"
	"github.com/achilleasa/polaris-link/log"
	"github.com/achilleasa/polaris-link/pass"
	"github.com/achilleasa/polaris-link/scenesync"
	"github.com/achilleasa/polaris-link/tracer"
)

// Renderer drives one render request at a time: it synchronizes the scene,
// resolves the pass table and blocks while the engine renders.
type Renderer struct {
	logger log.Logger

	ctrl     *scenesync.Controller
	resolver *pass.Resolver

	// Pass table of the current render. Replaced before each render and
	// never modified while the engine delivers tiles.
	table *pass.Table

	frame int

	// Cancels the render context of the in-flight request.
	mu           sync.Mutex
	cancelRender context.CancelFunc
}

// Create a new renderer.
func New(h host.Host, engine tracer.Engine, builder scenesync.SceneBuilder) *Renderer {
	return &Renderer{
		logger:   log.New("renderer"),
		ctrl:     scenesync.NewController(h, engine, builder),
		resolver: pass.NewResolver(),
	}
}

// Controller exposes the scene synchronization controller so callers can
// register updaters and hooks.
func (r *Renderer) Controller() *scenesync.Controller {
	return r.ctrl
}

// Table returns the pass table of the last render.
func (r *Renderer) Table() *pass.Table {
	return r.table
}

// Render processes a render request. Only fatal setup failures are
// returned as errors; interrupted renders report partial results.
func (r *Renderer) Render(ctx context.Context, req Request) (FrameStats, error) {
	stats := FrameStats{Frame: r.frame}
	r.frame++

	if req.Type != scenesync.RenderExport && (req.Width <= 0 || req.Height <= 0) {
		return stats, ErrInvalidSize
	}

	if req.fileOutputOnly() && req.Display.Kind == pass.Unknown && !pass.WritesOutputs(req.Outputs, req.PassConfig()) {
		r.logger.Errorf("%s render aborted: %v", req.Type, ErrNoOutputs)
		return stats, ErrNoOutputs
	}

	// Abort requests issued from now on target this request, including
	// ones that arrive while the scene is still being synchronized.
	ctx, cancel := context.WithCancel(ctx)
	r.setCancel(cancel)
	defer func() {
		r.setCancel(nil)
		cancel()
	}()

	start := time.Now()
	res, err := r.ctrl.Sync(req.Frame)
	if err != nil {
		r.logger.Errorf("scene sync failed: %v", err)
		return stats, err
	}
	stats.SyncTime = time.Since(start)
	stats.SessionID = res.SessionID
	stats.Decision, stats.Reason, stats.Updates = res.Decision, res.Reason, res.Applied

	// Exports only need a synchronized scene.
	if req.Type == scenesync.RenderExport {
		return stats, nil
	}

	if err = r.resolve(&req, &stats); err != nil {
		return stats, err
	}

	sess := r.ctrl.Session()
	if err = sess.Reset(bufferParams(r.table)); err != nil {
		r.logger.Errorf("could not reset session buffers: %v", err)
		return stats, err
	}

	start = time.Now()
	if err = sess.Start(ctx, r); err != nil {
		if !errors.Is(err, tracer.ErrInterrupted) {
			r.logger.Warningf("render failed: %v", err)
		}
		stats.Interrupted = true
	}
	stats.RenderTime = time.Since(start)

	r.logger.Infof("frame %d: %s, %d pass(es) in %s", stats.Frame, stats.Decision, stats.Passes, stats.RenderTime)
	return stats, nil
}

// Build the pass table for the request.
func (r *Renderer) resolve(req *Request, stats *FrameStats) error {
	if r.table != nil {
		r.table.Release()
		r.table = nil
	}

	table, warnings, err := r.resolver.Resolve(req.Outputs, req.PassConfig())
	if err != nil {
		return err
	}
	stats.Passes, stats.Warnings = table.Len(), len(warnings)

	// Requests are validated before synchronization; this only guards
	// against the two checks drifting apart.
	if req.fileOutputOnly() && !table.HasOutputs() && req.Display.Kind == pass.Unknown {
		r.logger.Errorf("%s render aborted: %v", req.Type, ErrNoOutputs)
		return ErrNoOutputs
	}

	r.table = table
	return nil
}

func bufferParams(table *pass.Table) tracer.BufferParams {
	bp := tracer.BufferParams{
		Width:  table.Width,
		Height: table.Height,
		Passes: make([]tracer.PassInfo, 0, table.Len()),
	}
	for _, d := range table.Passes {
		bp.Passes = append(bp.Passes, tracer.PassInfo{Name: d.Name, Channels: d.Channels})
	}
	return bp
}

// WriteTile scatters a tile into the pass buffers. It runs on engine
// worker goroutines; tiles never overlap so no locking is required.
func (r *Renderer) WriteTile(tile tracer.Tile) {
	rect := tile.Rect()
	for _, d := range r.table.Passes {
		pix := make([]float32, rect.Dx()*rect.Dy()*d.Channels)
		if !tile.ReadPass(d.Name, d.Channels, pix) {
			continue
		}
		if err := d.Buffer.WriteRegion(rect, pix, d.Channels); err != nil {
			r.logger.Warningf("dropping tile %v of pass %q: %v", rect, d.Name, err)
		}
	}
}

func (r *Renderer) setCancel(cancel context.CancelFunc) {
	r.mu.Lock()
	r.cancelRender = cancel
	r.mu.Unlock()
}

// Abort cancels the in-flight render. The blocked Render call returns
// once the engine acknowledges. An abort that arrives before the engine
// starts stops the render before any tile is produced.
func (r *Renderer) Abort() error {
	r.mu.Lock()
	cancel := r.cancelRender
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if err := r.ctrl.Cancel(); err != nil && cancel == nil {
		return ErrNoSession
	}
	return nil
}

// Clear tears down the session and releases all pass buffers.
func (r *Renderer) Clear() {
	r.ctrl.Teardown()
	if r.table != nil {
		r.table.Release()
		r.table = nil
	}
}
