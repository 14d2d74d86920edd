// Package software implements an in-process render engine that shades every
// pass with a deterministic pattern. It honors the full session contract
// (tiling, worker pool, cancellation) and is used for previews and tests.
package software

import (
	"fmt"

	"github.com/achilleasa/polaris-link/config"
	"github.com/achilleasa/polaris-link/log"
	"github.com/achilleasa/polaris-link/tracer"
)

// Engine creates software sessions for the devices listed in the config.
type Engine struct {
	logger log.Logger
	cfg    *config.Config
}

// Create a new engine.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		logger: log.New("software engine"),
		cfg:    cfg,
	}
}

// NewSession creates a session on the requested device. Unknown devices
// fall back to the configured default device.
func (e *Engine) NewSession(sp tracer.SessionParams, scp tracer.SceneParams) (tracer.Session, error) {
	dev, ok := e.cfg.Device(sp.Device)
	if !ok {
		if sp.Device != "" {
			e.logger.Warningf("device %q is not available; falling back to %q", sp.Device, e.cfg.DefaultDevice)
		}
		dev, ok = e.cfg.Device(e.cfg.DefaultDevice)
		if !ok {
			return nil, fmt.Errorf("%w: %q", tracer.ErrUnknownDevice, e.cfg.DefaultDevice)
		}
	}

	threads := sp.Threads
	if threads <= 0 || threads > dev.Threads {
		threads = dev.Threads
	}
	tileSize := sp.TileSize
	if tileSize <= 0 {
		tileSize = e.cfg.TileSize
	}

	return newSession(dev, threads, tileSize, sp, scp), nil
}
