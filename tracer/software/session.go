package software

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/achilleasa/polaris-link/config"
	"github.com/achilleasa/polaris-link/log"
	"github.com/achilleasa/polaris-link/tracer"
	"github.com/google/uuid"
)

type session struct {
	logger log.Logger

	sync.Mutex

	id     string
	device config.Device

	threads  int
	tileSize int
	params   tracer.SessionParams
	sceneCfg tracer.SceneParams

	scene *tracer.MemScene

	// Set by Reset; dropped by FreeDeviceMemory.
	buffers *tracer.BufferParams

	cancelled atomic.Bool
	closed    bool
}

func newSession(dev config.Device, threads, tileSize int, sp tracer.SessionParams, scp tracer.SceneParams) *session {
	id := uuid.New().String()
	return &session{
		logger:   log.New(fmt.Sprintf("session (%s)", id[:8])),
		id:       id,
		device:   dev,
		threads:  threads,
		tileSize: tileSize,
		params:   sp,
		sceneCfg: scp,
		scene:    tracer.NewMemScene(),
	}
}

func (s *session) ID() string {
	return s.id
}

func (s *session) Scene() tracer.Scene {
	return s.scene
}

// Threads returns the worker count used for rendering.
func (s *session) Threads() int {
	return s.threads
}

func (s *session) Reset(params tracer.BufferParams) error {
	s.Lock()
	defer s.Unlock()

	if s.closed {
		return tracer.ErrSessionClosed
	}
	if params.Width <= 0 || params.Height <= 0 {
		return fmt.Errorf("software: invalid buffer size %dx%d", params.Width, params.Height)
	}

	s.buffers = &params
	s.cancelled.Store(false)
	return nil
}

func (s *session) Cancel() {
	s.cancelled.Store(true)
}

func (s *session) FreeDeviceMemory() {
	s.Lock()
	s.buffers = nil
	s.Unlock()
}

func (s *session) Close() {
	s.Cancel()

	s.Lock()
	s.closed = true
	s.buffers = nil
	s.Unlock()
}

// Start renders all tiles using a pool of worker goroutines and blocks
// until they exit.
func (s *session) Start(ctx context.Context, sink tracer.TileSink) error {
	s.Lock()
	if s.closed {
		s.Unlock()
		return tracer.ErrSessionClosed
	}
	if s.buffers == nil {
		s.Unlock()
		return tracer.ErrNoBuffers
	}
	bp := *s.buffers
	s.Unlock()

	if s.params.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.params.TimeLimit)
		defer cancel()
	}

	frame := image.Rect(0, 0, bp.Width, bp.Height)
	tiles := tracer.NewTileScheduler(s.params.TileOrder).Schedule(frame, s.tileSize)
	shader := newPassShader(bp.Passes)
	samples := max(1, s.params.Samples)

	start := time.Now()
	tileChan := make(chan image.Rectangle)
	var wg sync.WaitGroup
	for w := 0; w < max(1, s.threads); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rect := range tileChan {
				if s.renderTile(ctx, rect, samples) {
					sink.WriteTile(shader.tile(rect))
				}
			}
		}()
	}

dispatch:
	for _, rect := range tiles {
		if s.interrupted(ctx) {
			break
		}
		select {
		case tileChan <- rect:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(tileChan)
	wg.Wait()

	if s.interrupted(ctx) {
		s.logger.Noticef("render interrupted after %s", time.Since(start))
		return tracer.ErrInterrupted
	}

	s.logger.Infof("rendered %d tile(s) with %d sample(s) using %d worker(s) in %s", len(tiles), samples, s.threads, time.Since(start))
	return nil
}

func (s *session) interrupted(ctx context.Context) bool {
	return s.cancelled.Load() || ctx.Err() != nil
}

// Accumulate samples for a tile. Returns false if the render was
// interrupted before the tile completed.
func (s *session) renderTile(ctx context.Context, rect image.Rectangle, samples int) bool {
	for sample := 0; sample < samples; sample++ {
		if s.interrupted(ctx) {
			return false
		}
	}
	return true
}

// passShader produces a constant per-pass value. Each pass gets a value in
// (0, 1] derived from its name so tiles can be verified after scattering.
type passShader struct {
	values map[string]float32
}

func newPassShader(passes []tracer.PassInfo) *passShader {
	ps := &passShader{values: make(map[string]float32, len(passes))}
	for _, p := range passes {
		ps.values[p.Name] = PassValue(p.Name)
	}
	return ps
}

// PassValue returns the value the software engine writes to every channel
// of the named pass.
func PassValue(name string) float32 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return float32(h.Sum32()%1000+1) / 1000
}

func (ps *passShader) tile(rect image.Rectangle) tracer.Tile {
	return tracer.Tile{
		Offset: rect.Min,
		Size:   rect.Size(),
		ReadPass: func(name string, channels int, dst []float32) bool {
			v, ok := ps.values[name]
			if !ok {
				return false
			}
			n := rect.Dx() * rect.Dy() * channels
			for i := 0; i < n && i < len(dst); i++ {
				dst[i] = v
			}
			return true
		},
	}
}
