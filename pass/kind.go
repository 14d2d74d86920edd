package pass

import (
	"strings"

	"golang.org/x/text/cases"
)

// Kind identifies an engine render pass type.
type Kind uint8

// Supported engine pass kinds.
const (
	Unknown Kind = iota
	Combined
	Depth
	Mist
	Position
	Normal
	Roughness
	UV
	ObjectID
	MaterialID
	Motion
	Emission
	Background
	AO
	Shadow
	DiffuseColor
	DiffuseDirect
	DiffuseIndirect
	GlossyColor
	GlossyDirect
	GlossyIndirect
	TransmissionColor
	TransmissionDirect
	TransmissionIndirect
	VolumeDirect
	VolumeIndirect
	SampleCount
	AOVColor
	AOVValue
	LightGroup
	Cryptomatte
	DenoisingDepth
	DenoisingAlbedo
	DenoisingNormal

	numKinds
)

type kindInfo struct {
	// Canonical engine name used for channel lookups.
	canonical string

	// Default display name.
	display string

	channels int
}

var kinds = [numKinds]kindInfo{
	Unknown:              {"", "", 0},
	Combined:             {"combined", "Combined", 4},
	Depth:                {"depth", "Depth", 1},
	Mist:                 {"mist", "Mist", 1},
	Position:             {"position", "Position", 3},
	Normal:               {"normal", "Normal", 3},
	Roughness:            {"roughness", "Roughness", 1},
	UV:                   {"uv", "UV", 3},
	ObjectID:             {"object_id", "IndexOB", 1},
	MaterialID:           {"material_id", "IndexMA", 1},
	Motion:               {"motion", "Vector", 4},
	Emission:             {"emission", "Emit", 3},
	Background:           {"background", "Env", 3},
	AO:                   {"ao", "AO", 3},
	Shadow:               {"shadow", "Shadow", 3},
	DiffuseColor:         {"diffuse_color", "DiffCol", 3},
	DiffuseDirect:        {"diffuse_direct", "DiffDir", 3},
	DiffuseIndirect:      {"diffuse_indirect", "DiffInd", 3},
	GlossyColor:          {"glossy_color", "GlossCol", 3},
	GlossyDirect:         {"glossy_direct", "GlossDir", 3},
	GlossyIndirect:       {"glossy_indirect", "GlossInd", 3},
	TransmissionColor:    {"transmission_color", "TransCol", 3},
	TransmissionDirect:   {"transmission_direct", "TransDir", 3},
	TransmissionIndirect: {"transmission_indirect", "TransInd", 3},
	VolumeDirect:         {"volume_direct", "VolumeDir", 3},
	VolumeIndirect:       {"volume_indirect", "VolumeInd", 3},
	SampleCount:          {"sample_count", "Debug Sample Count", 1},
	AOVColor:             {"aov_color", "AOV Color", 3},
	AOVValue:             {"aov_value", "AOV Value", 1},
	LightGroup:           {"light_group", "Light Group", 3},
	Cryptomatte:          {"cryptomatte", "Crypto", 4},
	DenoisingDepth:       {"denoising_depth", "Denoising Depth", 1},
	DenoisingAlbedo:      {"denoising_albedo", "Denoising Albedo", 3},
	DenoisingNormal:      {"denoising_normal", "Denoising Normal", 3},
}

var canonicalIndex = func() map[string]Kind {
	idx := make(map[string]Kind, numKinds)
	for k := Kind(1); k < numKinds; k++ {
		idx[kinds[k].canonical] = k
	}

	// Host spellings that differ by more than separators.
	idx["motion_vector"] = Motion
	idx["vector"] = Motion
	idx["lightgroup"] = LightGroup
	idx["z"] = Depth
	return idx
}()

func (k Kind) valid() bool {
	return k > Unknown && k < numKinds
}

// Canonical engine name for this pass kind.
func (k Kind) Canonical() string {
	if !k.valid() {
		return ""
	}
	return kinds[k].canonical
}

// Default display name for this pass kind.
func (k Kind) DisplayName() string {
	if !k.valid() {
		return ""
	}
	return kinds[k].display
}

// Number of channels written by this pass kind.
func (k Kind) Channels() int {
	if !k.valid() {
		return 0
	}
	return kinds[k].channels
}

// IsFanOut returns true for kinds that expand into one pass per configured name.
func (k Kind) IsFanOut() bool {
	return k == AOVColor || k == AOVValue || k == LightGroup
}

// IsAOV returns true for arbitrary output variable kinds.
func (k Kind) IsAOV() bool {
	return k == AOVColor || k == AOVValue
}

func (k Kind) String() string {
	if !k.valid() {
		return "unknown"
	}
	return kinds[k].canonical
}

// Normalize maps a host channel name to the canonical vocabulary: the name
// is case folded and every run of separator characters collapses into a
// single underscore.
func Normalize(name string) string {
	name = cases.Fold().String(strings.TrimSpace(name))

	var sb strings.Builder
	pendingSep := false
	for _, r := range name {
		switch r {
		case ' ', '_', '-', '.', '/', '\t':
			pendingSep = sb.Len() > 0
			continue
		}
		if pendingSep {
			sb.WriteByte('_')
			pendingSep = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Lookup resolves a host channel name to a pass kind.
func Lookup(channel string) (Kind, bool) {
	k, ok := canonicalIndex[Normalize(channel)]
	return k, ok
}
