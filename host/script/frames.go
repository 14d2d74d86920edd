package script

import (
	"fmt"

	"github.com/achilleasa/polaris-link/host"
	"github.com/achilleasa/polaris-link/pass"
	"github.com/achilleasa/polaris-link/renderer"
	"github.com/achilleasa/polaris-link/scenesync"
	"github.com/achilleasa/polaris-link/tracer"
)

var subKinds = map[string]host.SubKind{
	"":           host.SubNone,
	"global":     host.GlobalTransform,
	"local":      host.LocalTransform,
	"assignment": host.Assignment,
}

// Requests converts the script frames into render requests against h.
// Frames without dimensions inherit the script dimensions.
func (s *Script) Requests(h *Host) ([]renderer.Request, error) {
	reqs := make([]renderer.Request, 0, len(s.Frames))
	for i, def := range s.Frames {
		req, err := def.request(h)
		if err != nil {
			return nil, fmt.Errorf("script: frame %d: %w", i, err)
		}
		if req.Width == 0 {
			req.Width = s.Width
		}
		if req.Height == 0 {
			req.Height = s.Height
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func (def *FrameDef) request(h *Host) (renderer.Request, error) {
	var (
		req = renderer.Request{
			Width:          def.Width,
			Height:         def.Height,
			AOVColors:      def.AOVColors,
			AOVValues:      def.AOVValues,
			LightGroups:    def.LightGroups,
			StoreDenoising: def.Denoising,
			Cryptomatte: pass.CryptomatteConfig{
				Object:   def.Cryptomatte.Object,
				Material: def.Cryptomatte.Material,
				Asset:    def.Cryptomatte.Asset,
				Levels:   def.Cryptomatte.Levels,
			},
		}
		err error
	)

	if def.Type != "" {
		if req.Type, err = scenesync.ParseRenderType(def.Type); err != nil {
			return req, err
		}
	}
	if req.Motion, err = scenesync.ParseMotionType(def.Motion); err != nil {
		return req, err
	}
	if req.Displacement, err = scenesync.ParseDisplacementMethod(def.Displacement); err != nil {
		return req, err
	}
	req.Denoise = def.Denoise

	if req.Session, err = def.Session.params(); err != nil {
		return req, err
	}
	if req.Scene, err = def.Scene.params(); err != nil {
		return req, err
	}

	if def.Display != "" {
		kind, ok := pass.Lookup(def.Display)
		if !ok {
			return req, fmt.Errorf("unknown display pass %q", def.Display)
		}
		if kind.IsFanOut() && def.DisplaySource == "" {
			return req, fmt.Errorf("display pass %q requires a display source", def.Display)
		}
		req.Display = pass.DisplayPass{Kind: kind, Source: def.DisplaySource}
	}

	if def.Isolation != nil {
		req.Isolation = make([]host.ObjectID, 0, len(def.Isolation))
		for _, id := range def.Isolation {
			req.Isolation = append(req.Isolation, host.ObjectID(id))
		}
	}

	for _, c := range def.Changes {
		n, err := c.notification(h)
		if err != nil {
			return req, err
		}
		req.Changes = append(req.Changes, n)
	}

	for _, o := range def.Outputs {
		out := pass.Request{Channel: o.Channel, Path: o.Path}
		if out.Format, err = pass.ParseFormat(o.Format); err != nil {
			return req, err
		}
		if out.Depth, err = pass.ParseBitDepth(o.Depth); err != nil {
			return req, err
		}
		req.Outputs = append(req.Outputs, out)
	}

	// Manifests list every entity of the matching category.
	if req.Cryptomatte.Enabled() {
		for _, e := range h.Objects() {
			req.Cryptomatte.ObjectNames = append(req.Cryptomatte.ObjectNames, e.Name())
			req.Cryptomatte.AssetNames = append(req.Cryptomatte.AssetNames, e.Name())
		}
		for _, id := range h.ids {
			if e := h.byID[id]; e.kind == host.KindMaterial {
				req.Cryptomatte.MaterialNames = append(req.Cryptomatte.MaterialNames, e.name)
			}
		}
	}

	return req, nil
}

func (c *ChangeDef) notification(h *Host) (host.Notification, error) {
	e, ok := h.byID[host.ObjectID(c.ID)]
	if !ok {
		return host.Notification{}, fmt.Errorf("%w: %d", ErrUnknownEntity, c.ID)
	}

	n := host.Notification{Entity: e, Kind: e.kind}
	if c.Kind != "" {
		kind, err := host.ParseKind(c.Kind)
		if err != nil {
			return n, err
		}
		n.Kind = kind
	}

	sub, ok := subKinds[c.Sub]
	if !ok {
		return n, fmt.Errorf("unknown change sub-kind %q", c.Sub)
	}
	n.SubKind = sub
	return n, nil
}

func (sd *SessionDef) params() (tracer.SessionParams, error) {
	order, err := tracer.ParseTileOrder(sd.TileOrder)
	if err != nil {
		return tracer.SessionParams{}, err
	}
	return tracer.SessionParams{
		Device:           sd.Device,
		Threads:          sd.Threads,
		Background:       sd.Background,
		Progressive:      sd.Progressive,
		TileSize:         sd.TileSize,
		TileOrder:        order,
		Samples:          sd.Samples,
		AdaptiveSampling: sd.AdaptiveSampling,
		TimeLimit:        sd.TimeLimit,
		PixelSize:        sd.PixelSize,
		StartResolution:  sd.StartResolution,
	}, nil
}

func (sd *SceneDef) params() (tracer.SceneParams, error) {
	bvh, err := tracer.ParseBVHType(sd.BVH)
	if err != nil {
		return tracer.SceneParams{}, err
	}
	return tracer.SceneParams{
		BVHType:           bvh,
		SpatialSplits:     sd.SpatialSplits,
		UnalignedNodes:    sd.UnalignedNodes,
		CurveSubdivisions: sd.CurveSubdivisions,
		MotionSteps:       sd.MotionSteps,
		TextureLimit:      sd.TextureLimit,
		PersistentData:    sd.PersistentData,
	}, nil
}
