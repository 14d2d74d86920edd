// Package script implements a host whose scene graph and per-frame change
// notifications are described by a YAML document. It drives the replay
// command and end-to-end tests.
package script

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/polaris-link/resource"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoFrames        = errors.New("script: no frames defined")
	ErrDuplicateEntity = errors.New("script: duplicate entity id")
	ErrUnknownEntity   = errors.New("script: reference to unknown entity")
)

// Script is the decoded form of a replay document.
type Script struct {
	Width    int         `yaml:"width"`
	Height   int         `yaml:"height"`
	Entities []EntityDef `yaml:"entities"`
	Frames   []FrameDef  `yaml:"frames"`
}

// EntityDef describes a host entity.
type EntityDef struct {
	ID     uint64 `yaml:"id"`
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Type   string `yaml:"type"`
	Parent uint64 `yaml:"parent"`

	// Marks a material as the root of its shading network.
	Root bool `yaml:"root"`

	// Updates targeting this entity fail.
	Fail bool `yaml:"fail"`
}

// FrameDef describes a single render request.
type FrameDef struct {
	Type          string      `yaml:"type"`
	Width         int         `yaml:"width"`
	Height        int         `yaml:"height"`
	Session       SessionDef  `yaml:"session"`
	Scene         SceneDef    `yaml:"scene"`
	Motion        string      `yaml:"motion"`
	Denoise       bool        `yaml:"denoise"`
	Displacement  string      `yaml:"displacement"`
	Display       string      `yaml:"display"`
	DisplaySource string      `yaml:"display_source"`
	Isolation     []uint64    `yaml:"isolation"`
	Changes       []ChangeDef `yaml:"changes"`
	Outputs       []OutputDef `yaml:"outputs"`
	AOVColors     []string    `yaml:"aov_colors"`
	AOVValues     []string    `yaml:"aov_values"`
	LightGroups   []string    `yaml:"light_groups"`
	Denoising     bool        `yaml:"store_denoising"`
	Cryptomatte   CryptoDef   `yaml:"cryptomatte"`
}

// SessionDef holds the session parameters of a frame.
type SessionDef struct {
	Device           string        `yaml:"device"`
	Threads          int           `yaml:"threads"`
	Background       bool          `yaml:"background"`
	Progressive      bool          `yaml:"progressive"`
	TileSize         int           `yaml:"tile_size"`
	TileOrder        string        `yaml:"tile_order"`
	Samples          int           `yaml:"samples"`
	AdaptiveSampling bool          `yaml:"adaptive_sampling"`
	TimeLimit        time.Duration `yaml:"time_limit"`
	PixelSize        int           `yaml:"pixel_size"`
	StartResolution  int           `yaml:"start_resolution"`
}

// SceneDef holds the scene parameters of a frame.
type SceneDef struct {
	BVH               string `yaml:"bvh"`
	SpatialSplits     bool   `yaml:"spatial_splits"`
	UnalignedNodes    bool   `yaml:"unaligned_nodes"`
	CurveSubdivisions int    `yaml:"curve_subdivisions"`
	MotionSteps       int    `yaml:"motion_steps"`
	TextureLimit      int    `yaml:"texture_limit"`
	PersistentData    bool   `yaml:"persistent_data"`
}

// ChangeDef is a change notification. Kind defaults to the entity kind.
type ChangeDef struct {
	ID   uint64 `yaml:"id"`
	Kind string `yaml:"kind"`
	Sub  string `yaml:"sub"`
}

// OutputDef is a requested file output.
type OutputDef struct {
	Channel string `yaml:"channel"`
	Path    string `yaml:"path"`
	Format  string `yaml:"format"`
	Depth   string `yaml:"depth"`
}

// CryptoDef configures cryptomatte passes.
type CryptoDef struct {
	Object   bool `yaml:"object"`
	Material bool `yaml:"material"`
	Asset    bool `yaml:"asset"`
	Levels   int  `yaml:"levels"`
}

// Load reads a replay script from a local path or an http(s) URL.
func Load(path string) (*Script, error) {
	res, err := resource.Open(path)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Parse(res)
}

// Parse decodes a replay script. Unknown fields are rejected.
func Parse(r io.Reader) (*Script, error) {
	s := &Script{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoFrames
		}
		return nil, fmt.Errorf("script: %w", err)
	}
	if len(s.Frames) == 0 {
		return nil, ErrNoFrames
	}
	return s, nil
}
