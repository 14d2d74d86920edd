package pass

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/achilleasa/polaris-link/log"
)

// DenoisingConfig controls the denoising side channels.
type DenoisingConfig struct {
	// Also render the depth/albedo/normal passes used by the denoiser.
	StorePasses bool
}

// CryptomatteConfig controls cryptomatte output.
type CryptomatteConfig struct {
	Object   bool
	Material bool
	Asset    bool

	// Number of id/coverage ranks to store per pixel.
	Levels int

	// Names used to build the per-category manifests.
	ObjectNames   []string
	MaterialNames []string
	AssetNames    []string
}

// Enabled returns true if any cryptomatte category is active.
func (cc CryptomatteConfig) Enabled() bool {
	return cc.Object || cc.Material || cc.Asset
}

// DisplayPass identifies the pass shown in the interactive view.
type DisplayPass struct {
	Kind Kind

	// AOV or light group name for fan-out kinds.
	Source string
}

// Config holds the dynamic configuration that affects pass resolution.
type Config struct {
	Width  int
	Height int

	AOVColors   []string
	AOVValues   []string
	LightGroups []string

	// Motion blur and the motion vector pass are mutually exclusive.
	MotionBlur bool

	// Cryptomatte is only supported by full-frame pass renders.
	FullFrame bool

	Denoising   DenoisingConfig
	Cryptomatte CryptomatteConfig

	Display DisplayPass
}

// A Warning reports a request that could not be resolved. Warnings never
// abort resolution of the remaining requests.
type Warning struct {
	Channel string
	Reason  string
}

func (w Warning) Error() string {
	return fmt.Sprintf("pass: skipping channel %q: %s", w.Channel, w.Reason)
}

// Resolver expands output requests into a pass table.
type Resolver struct {
	logger log.Logger
}

// Create a new resolver.
func NewResolver() *Resolver {
	return &Resolver{
		logger: log.New("pass resolver"),
	}
}

type resolveState struct {
	cfg      Config
	table    *Table
	warnings []Warning
	logger   log.Logger
}

func (st *resolveState) warn(channel, format string, args ...interface{}) {
	w := Warning{Channel: channel, Reason: fmt.Sprintf(format, args...)}
	st.logger.Warning(w.Error())
	st.warnings = append(st.warnings, w)
}

// Resolve builds the pass table for the given requests. An empty table is
// a valid result. The returned error is only set if buffer allocation fails.
func (r *Resolver) Resolve(requests []Request, cfg Config) (*Table, []Warning, error) {
	st := &resolveState{
		cfg:    cfg,
		table:  newTable(cfg.Width, cfg.Height),
		logger: r.logger,
	}

	for _, req := range requests {
		st.resolveRequest(req)
	}

	st.appendDenoisingPasses()
	st.appendCryptomattePasses()
	st.appendDisplayPass()

	if err := st.table.allocate(); err != nil {
		return nil, st.warnings, err
	}

	r.logger.Debugf("resolved %d request(s) into %d pass(es) with %d warning(s)", len(requests), st.table.Len(), len(st.warnings))
	return st.table, st.warnings, nil
}

func (st *resolveState) resolveRequest(req Request) {
	kind, reason := st.cfg.check(req)
	if reason != "" {
		st.warn(req.Channel, "%s", reason)
		return
	}

	if kind.IsFanOut() {
		st.fanOut(req, kind)
		return
	}
	st.addOutput(req, &Descriptor{
		Kind:     kind,
		Name:     kind.DisplayName(),
		Channels: kind.Channels(),
		Path:     req.Path,
		Format:   req.Format,
		Depth:    req.Depth,
	})
}

// Returns the kind of a request and, if it cannot produce a pass, the
// reason why.
func (cfg *Config) check(req Request) (Kind, string) {
	kind, ok := Lookup(req.Channel)
	switch {
	case !ok:
		return kind, "unknown channel"
	case req.Path == "":
		return kind, "empty output path"
	case kind == Motion && cfg.MotionBlur:
		return kind, "motion vectors are unavailable while motion blur is enabled"
	case kind == Cryptomatte:
		return kind, "cryptomatte passes are configured through cryptomatte settings"
	case kind.IsFanOut() && len(cfg.fanOutNames(kind)) == 0:
		return kind, fmt.Sprintf("no %s names configured", kind.DisplayName())
	}
	return kind, ""
}

// Unique non-blank names configured for a fan-out kind.
func (cfg *Config) fanOutNames(kind Kind) []string {
	var names []string
	switch kind {
	case AOVColor:
		names = cfg.AOVColors
	case AOVValue:
		names = cfg.AOVValues
	case LightGroup:
		names = cfg.LightGroups
	}

	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	return unique
}

// WritesOutputs returns true if at least one request would resolve into a
// file output under cfg. It does not allocate anything and lets callers
// reject a render before any engine work starts.
func WritesOutputs(requests []Request, cfg Config) bool {
	for _, req := range requests {
		if _, reason := cfg.check(req); reason == "" {
			return true
		}
	}
	return false
}

// Add a pass with an output target or, if a pass of the same kind and
// source already exists, record the target as an alias of that pass.
func (st *resolveState) addOutput(req Request, d *Descriptor) {
	index := st.table.find(d.Kind, d.Source)
	if index == -1 {
		st.table.add(d)
		return
	}

	existing := st.table.Passes[index]
	if existing.Path == d.Path {
		st.warn(req.Channel, "duplicate request for %q", d.Path)
		return
	}

	for _, a := range st.table.Aliases {
		if a.Index == index && a.Path == d.Path {
			st.warn(req.Channel, "duplicate request for %q", d.Path)
			return
		}
	}

	st.table.Aliases = append(st.table.Aliases, Alias{
		Index:  index,
		Path:   d.Path,
		Format: d.Format,
		Depth:  d.Depth,
	})
}

// Expand a request into one pass per unique configured name.
func (st *resolveState) fanOut(req Request, kind Kind) {
	for _, name := range st.cfg.fanOutNames(kind) {
		st.addOutput(req, &Descriptor{
			Kind:     kind,
			Name:     fanOutName(kind, name),
			Channels: kind.Channels(),
			Source:   name,
			Path:     SplicePath(req.Path, name),
			Format:   req.Format,
			Depth:    req.Depth,
		})
	}
}

func fanOutName(kind Kind, name string) string {
	switch kind {
	case AOVColor:
		return "AOVC_" + name
	case AOVValue:
		return "AOVV_" + name
	}
	return "LG_" + name
}

// SplicePath inserts name before the final extension of path, e.g.
// "out/img.exr" + "heat" yields "out/img.heat.exr".
func SplicePath(path, name string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + name + ext
}

func (st *resolveState) appendDenoisingPasses() {
	if !st.cfg.Denoising.StorePasses {
		return
	}

	for _, kind := range []Kind{DenoisingDepth, DenoisingAlbedo, DenoisingNormal} {
		if st.table.find(kind, "") != -1 {
			continue
		}
		st.table.add(&Descriptor{
			Kind:     kind,
			Name:     kind.DisplayName(),
			Channels: kind.Channels(),
			Ignore:   true,
		})
	}
}

func (st *resolveState) appendCryptomattePasses() {
	cc := st.cfg.Cryptomatte
	if !cc.Enabled() {
		return
	}
	if !st.cfg.FullFrame {
		st.warn(Cryptomatte.DisplayName(), "cryptomatte requires a full-frame pass render")
		return
	}

	depth := CryptomatteDepth(cc.Levels)
	if depth == 0 {
		st.warn(Cryptomatte.DisplayName(), "cryptomatte levels must be positive; got %d", cc.Levels)
		return
	}

	layers := &st.table.Cryptomatte
	if cc.Object {
		layers.Object = st.addCryptomatteLayer(CryptoObject, depth, cc.ObjectNames)
	}
	if cc.Material {
		layers.Material = st.addCryptomatteLayer(CryptoMaterial, depth, cc.MaterialNames)
	}
	if cc.Asset {
		layers.Asset = st.addCryptomatteLayer(CryptoAsset, depth, cc.AssetNames)
	}
}

func (st *resolveState) addCryptomatteLayer(category CryptomatteCategory, depth int, names []string) []int {
	indices := make([]int, depth)
	for level := 0; level < depth; level++ {
		indices[level] = st.table.add(&Descriptor{
			Kind:     Cryptomatte,
			Name:     fmt.Sprintf("%s%02d", category.LayerName(), level),
			Channels: Cryptomatte.Channels(),
			Source:   category.LayerName(),
			Ignore:   true,
		})
	}

	st.table.Metadata = append(st.table.Metadata, newMetadata(category, names))
	return indices
}

// Make sure the display pass has a buffer even if it is not written out.
func (st *resolveState) appendDisplayPass() {
	disp := st.cfg.Display
	if !disp.Kind.valid() || st.table.find(disp.Kind, disp.Source) != -1 {
		return
	}

	d := &Descriptor{
		Kind:     disp.Kind,
		Name:     disp.Kind.DisplayName(),
		Channels: disp.Kind.Channels(),
		Source:   disp.Source,
		Ignore:   true,
	}
	if disp.Kind.IsFanOut() {
		d.Name = fanOutName(disp.Kind, disp.Source)
	}
	st.table.add(d)
}
