package pass

import (
	"fmt"
	"strings"

	"github.com/achilleasa/polaris-link/framebuf"
)

// Format is the file format of an output target.
type Format uint8

// Supported output formats.
const (
	NoFormat Format = iota
	EXR
	PNG
	TIFF
	JPEG
	HDR
)

var formatNames = [...]string{"", "exr", "png", "tiff", "jpeg", "hdr"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("format(%d)", f)
}

// Parse a format name or file extension (with or without a leading dot).
func ParseFormat(name string) (Format, error) {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	switch name {
	case "":
		return NoFormat, nil
	case "jpg":
		return JPEG, nil
	case "tif":
		return TIFF, nil
	}
	for f, fname := range formatNames {
		if fname == name {
			return Format(f), nil
		}
	}
	return NoFormat, fmt.Errorf("pass: unsupported output format %q", name)
}

// BitDepth is the per-channel storage of an output target.
type BitDepth uint8

// Supported bit depths.
const (
	DefaultDepth BitDepth = iota
	Depth8
	Depth16
	DepthHalf
	Depth32
)

var depthNames = [...]string{"default", "8", "16", "half", "32"}

func (d BitDepth) String() string {
	if int(d) < len(depthNames) {
		return depthNames[d]
	}
	return fmt.Sprintf("depth(%d)", d)
}

// Parse a bit depth label ("8", "16", "half", "32", "float").
func ParseBitDepth(label string) (BitDepth, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "default":
		return DefaultDepth, nil
	case "8":
		return Depth8, nil
	case "16":
		return Depth16, nil
	case "half", "16f":
		return DepthHalf, nil
	case "32", "float", "32f":
		return Depth32, nil
	}
	return DefaultDepth, fmt.Errorf("pass: unsupported bit depth %q", label)
}

// A Request asks for a host output channel to be written to a file.
type Request struct {
	Channel string
	Path    string
	Format  Format
	Depth   BitDepth
}

// A Descriptor defines a single engine pass of the render.
type Descriptor struct {
	Kind Kind

	// Unique display name. Tiles are delivered keyed by this name.
	Name string

	Channels int

	// The AOV or light group name for fan-out passes.
	Source string

	// Output target; Path is empty for passes that are never written.
	Path   string
	Format Format
	Depth  BitDepth

	// Excluded from combined-file output.
	Ignore bool

	// Pixel storage; allocated once the table is finalized.
	Buffer *framebuf.Buffer
}

// HasOutput returns true if this pass is written to a file.
func (d *Descriptor) HasOutput() bool {
	return !d.Ignore && d.Path != ""
}
