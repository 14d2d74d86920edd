package pass

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/polaris-link/framebuf"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// An Alias writes the buffer of an existing pass to an additional target.
type Alias struct {
	Index  int
	Path   string
	Format Format
	Depth  BitDepth
}

// CryptomatteLayers holds the table indices of the cryptomatte passes for
// each category, in level order.
type CryptomatteLayers struct {
	Object   []int
	Material []int
	Asset    []int
}

// Len returns the total number of cryptomatte passes.
func (cl CryptomatteLayers) Len() int {
	return len(cl.Object) + len(cl.Material) + len(cl.Asset)
}

// Table is the ordered list of passes produced by one render. Indices are
// stable for the lifetime of the render.
type Table struct {
	Width  int
	Height int

	Passes      []*Descriptor
	Aliases     []Alias
	Cryptomatte CryptomatteLayers
	Metadata    []Metadata

	byName map[string]int
}

func newTable(width, height int) *Table {
	return &Table{
		Width:  width,
		Height: height,
		byName: make(map[string]int),
	}
}

// Append a descriptor, renaming it if its display name is already taken.
// Returns the table index of the new pass.
func (t *Table) add(d *Descriptor) int {
	name := d.Name
	for suffix := 1; ; suffix++ {
		if _, taken := t.byName[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s.%03d", d.Name, suffix)
	}
	d.Name = name

	t.byName[name] = len(t.Passes)
	t.Passes = append(t.Passes, d)
	return len(t.Passes) - 1
}

// Find the pass of the given kind and source name.
func (t *Table) find(kind Kind, source string) int {
	for index, d := range t.Passes {
		if d.Kind == kind && d.Source == source {
			return index
		}
	}
	return -1
}

// Len returns the number of passes.
func (t *Table) Len() int {
	return len(t.Passes)
}

// Lookup a pass by display name.
func (t *Table) Lookup(name string) (*Descriptor, int, bool) {
	index, ok := t.byName[name]
	if !ok {
		return nil, -1, false
	}
	return t.Passes[index], index, true
}

// Outputs returns the passes that are written to files.
func (t *Table) Outputs() []*Descriptor {
	out := make([]*Descriptor, 0, len(t.Passes))
	for _, d := range t.Passes {
		if d.HasOutput() {
			out = append(out, d)
		}
	}
	return out
}

// HasOutputs returns true if any pass or alias writes to a file.
func (t *Table) HasOutputs() bool {
	return len(t.Aliases) != 0 || len(t.Outputs()) != 0
}

// Allocate a buffer for each pass in table order.
func (t *Table) allocate() error {
	for _, d := range t.Passes {
		buf, err := framebuf.New(t.Width, t.Height, d.Channels)
		if err != nil {
			return fmt.Errorf("pass: could not allocate buffer for %q: %w", d.Name, err)
		}
		d.Buffer = buf
	}
	return nil
}

// Release drops all pass buffers.
func (t *Table) Release() {
	for _, d := range t.Passes {
		d.Buffer = nil
	}
}

// MemorySize returns the total size of the allocated pass buffers in bytes.
func (t *Table) MemorySize() uint64 {
	var total uint64
	for _, d := range t.Passes {
		if d.Buffer != nil {
			total += uint64(d.Buffer.Size())
		}
	}
	return total
}

// Build a tabular representation of the pass table.
func (t *Table) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "Pass", "Kind", "Channels", "Output", "Format", "Ignore", "Buffer"})
	for index, d := range t.Passes {
		size := "-"
		if d.Buffer != nil {
			size = humanize.Bytes(uint64(d.Buffer.Size()))
		}
		table.Append([]string{
			fmt.Sprintf("%d", index),
			d.Name,
			d.Kind.String(),
			fmt.Sprintf("%d", d.Channels),
			d.Path,
			fmt.Sprintf("%s/%s", d.Format, d.Depth),
			fmt.Sprintf("%t", d.Ignore),
			size,
		})
	}
	for _, a := range t.Aliases {
		table.Append([]string{
			fmt.Sprintf("%d", a.Index),
			t.Passes[a.Index].Name,
			"alias",
			"",
			a.Path,
			fmt.Sprintf("%s/%s", a.Format, a.Depth),
			"false",
			"",
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "", "TOTAL", humanize.Bytes(t.MemorySize())})
	table.Render()

	return buf.String()
}
