// Package framebuf implements the float pixel buffers that back each render
// pass. Pixels are stored row-major with a fixed number of interleaved
// channels per pixel.
package framebuf

import (
	"image"

	"golang.org/x/image/math/f32"
)

// A Buffer is a width x height array of pixels with Channels float32
// components each.
type Buffer struct {
	width    int
	height   int
	channels int
	pix      []float32
}

// Allocate a zeroed buffer.
func New(width, height, channels int) (*Buffer, error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return nil, ErrInvalidDims
	}

	return &Buffer{
		width:    width,
		height:   height,
		channels: channels,
		pix:      make([]float32, width*height*channels),
	}, nil
}

func (b *Buffer) Width() int    { return b.width }
func (b *Buffer) Height() int   { return b.height }
func (b *Buffer) Channels() int { return b.channels }

// Bounds returns the buffer rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Size in bytes of the pixel storage.
func (b *Buffer) Size() int {
	return len(b.pix) * 4
}

// Pix exposes the underlying pixel storage.
func (b *Buffer) Pix() []float32 {
	return b.pix
}

// Offset of the first channel of pixel (x, y).
func (b *Buffer) offset(x, y int) int {
	return (y*b.width + x) * b.channels
}

// Pixel returns a view to the channels of pixel (x, y).
func (b *Buffer) Pixel(x, y int) []float32 {
	off := b.offset(x, y)
	return b.pix[off : off+b.channels : off+b.channels]
}

// RGBA returns pixel (x, y) expanded to 4 channels.
func (b *Buffer) RGBA(x, y int) f32.Vec4 {
	var out f32.Vec4
	convertPixel(out[:], b.Pixel(x, y))
	return out
}

// SetRGBA stores a 4 channel value into pixel (x, y), converting it to the
// buffer channel count.
func (b *Buffer) SetRGBA(x, y int, v f32.Vec4) {
	convertPixel(b.Pixel(x, y), v[:])
}

// Clear zeroes all pixels.
func (b *Buffer) Clear() {
	for i := range b.pix {
		b.pix[i] = 0
	}
}

// WriteRegion copies a tightly packed block of pixels with srcChannels
// components into the rectangle r. Channels are converted to the buffer
// channel count.
func (b *Buffer) WriteRegion(r image.Rectangle, src []float32, srcChannels int) error {
	if !r.In(b.Bounds()) {
		return ErrRegionOutOfBuf
	}
	if srcChannels <= 0 || len(src) < r.Dx()*r.Dy()*srcChannels {
		return ErrShortPixelSlice
	}

	rowW := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		srcRow := (y - r.Min.Y) * rowW * srcChannels
		dstOff := b.offset(r.Min.X, y)
		if srcChannels == b.channels {
			copy(b.pix[dstOff:dstOff+rowW*b.channels], src[srcRow:srcRow+rowW*srcChannels])
			continue
		}
		for x := 0; x < rowW; x++ {
			s := srcRow + x*srcChannels
			d := dstOff + x*b.channels
			convertPixel(b.pix[d:d+b.channels], src[s:s+srcChannels])
		}
	}

	return nil
}

// ReadRegion copies the pixels inside r into dst using dstChannels
// components per pixel. The destination is tightly packed.
func (b *Buffer) ReadRegion(r image.Rectangle, dst []float32, dstChannels int) error {
	if !r.In(b.Bounds()) {
		return ErrRegionOutOfBuf
	}
	if dstChannels <= 0 || len(dst) < r.Dx()*r.Dy()*dstChannels {
		return ErrShortPixelSlice
	}

	rowW := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dstRow := (y - r.Min.Y) * rowW * dstChannels
		srcOff := b.offset(r.Min.X, y)
		if dstChannels == b.channels {
			copy(dst[dstRow:dstRow+rowW*dstChannels], b.pix[srcOff:srcOff+rowW*b.channels])
			continue
		}
		for x := 0; x < rowW; x++ {
			s := srcOff + x*b.channels
			d := dstRow + x*dstChannels
			convertPixel(dst[d:d+dstChannels], b.pix[s:s+b.channels])
		}
	}

	return nil
}

// CopyRegion copies rectangle r from src into the same rectangle of b. The
// two buffers never share storage so the copy is always well defined.
func (b *Buffer) CopyRegion(src *Buffer, r image.Rectangle) error {
	if !r.In(b.Bounds()) || !r.In(src.Bounds()) {
		return ErrRegionOutOfBuf
	}

	tmp := make([]float32, r.Dx()*r.Dy()*src.channels)
	if err := src.ReadRegion(r, tmp, src.channels); err != nil {
		return err
	}
	return b.WriteRegion(r, tmp, src.channels)
}

// Convert returns a copy of the buffer with a different channel count.
func (b *Buffer) Convert(channels int) (*Buffer, error) {
	out, err := New(b.width, b.height, channels)
	if err != nil {
		return nil, err
	}

	return out, b.ReadRegion(b.Bounds(), out.pix, channels)
}

// Convert a single pixel between channel layouts:
//   - 1 -> N replicates the value into the color channels; alpha is 1.
//   - 3 -> 4 sets alpha to 1.
//   - N -> 1 keeps the first channel.
//   - otherwise channels are copied up to the shorter length and the
//     remaining destination channels are zeroed.
func convertPixel(dst, src []float32) {
	switch {
	case len(src) == len(dst):
		copy(dst, src)
	case len(src) == 1:
		for i := range dst {
			dst[i] = src[0]
		}
		if len(dst) == 4 {
			dst[3] = 1
		}
	case len(src) == 3 && len(dst) == 4:
		copy(dst, src)
		dst[3] = 1
	default:
		n := copy(dst, src)
		for i := n; i < len(dst); i++ {
			dst[i] = 0
		}
	}
}
