package renderer

import (
	"github.com/achilleasa/polaris-link/pass"
	"github.com/achilleasa/polaris-link/scenesync"
)

// Request is a single render request issued by the host.
type Request struct {
	scenesync.Frame

	// Frame dims.
	Width  int
	Height int

	// Requested file outputs.
	Outputs []pass.Request

	// Dynamic pass configuration.
	AOVColors      []string
	AOVValues      []string
	LightGroups    []string
	StoreDenoising bool
	Cryptomatte    pass.CryptomatteConfig
}

// PassConfig returns the pass resolution settings derived from the request.
func (r *Request) PassConfig() pass.Config {
	return pass.Config{
		Width:       r.Width,
		Height:      r.Height,
		AOVColors:   r.AOVColors,
		AOVValues:   r.AOVValues,
		LightGroups: r.LightGroups,
		MotionBlur:  r.Motion == scenesync.MotionBlur,
		FullFrame:   r.Type == scenesync.RenderPass,
		Denoising:   pass.DenoisingConfig{StorePasses: r.StoreDenoising},
		Cryptomatte: r.Cryptomatte,
		Display:     r.Display,
	}
}

// Renders whose only product is files on disk.
func (r *Request) fileOutputOnly() bool {
	return r.Type == scenesync.RenderPass || r.Type == scenesync.RenderBake
}
