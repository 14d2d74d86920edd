package framebuf

import (
	"image"
	"testing"

	"golang.org/x/image/math/f32"
)

func TestNewRejectsInvalidDims(t *testing.T) {
	specs := [][3]int{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}, {-1, 2, 3}}
	for index, s := range specs {
		if _, err := New(s[0], s[1], s[2]); err != ErrInvalidDims {
			t.Fatalf("[spec %d] expected ErrInvalidDims; got %v", index, err)
		}
	}
}

func TestBufferSize(t *testing.T) {
	buf, err := New(4, 3, 3)
	if err != nil {
		t.Fatal(err)
	}

	if len(buf.Pix()) != 36 {
		t.Fatalf("expected 36 floats; got %d", len(buf.Pix()))
	}
	if buf.Size() != 144 {
		t.Fatalf("expected 144 bytes; got %d", buf.Size())
	}
}

func TestWriteReadRegion(t *testing.T) {
	buf, _ := New(4, 4, 2)

	r := image.Rect(1, 1, 3, 3)
	src := []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
	}
	if err := buf.WriteRegion(r, src, 2); err != nil {
		t.Fatal(err)
	}

	// Row major mapping
	if px := buf.Pixel(2, 2); px[0] != 7 || px[1] != 8 {
		t.Fatalf("expected pixel (2,2) to be [7 8]; got %v", px)
	}
	if px := buf.Pixel(0, 0); px[0] != 0 || px[1] != 0 {
		t.Fatalf("expected pixel (0,0) to be untouched; got %v", px)
	}

	dst := make([]float32, 8)
	if err := buf.ReadRegion(r, dst, 2); err != nil {
		t.Fatal(err)
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("expected read back %v; got %v", src, dst)
		}
	}
}

func TestRegionErrors(t *testing.T) {
	buf, _ := New(2, 2, 1)

	if err := buf.WriteRegion(image.Rect(1, 1, 3, 3), make([]float32, 4), 1); err != ErrRegionOutOfBuf {
		t.Fatalf("expected ErrRegionOutOfBuf; got %v", err)
	}
	if err := buf.WriteRegion(image.Rect(0, 0, 2, 2), make([]float32, 3), 1); err != ErrShortPixelSlice {
		t.Fatalf("expected ErrShortPixelSlice; got %v", err)
	}
	if err := buf.ReadRegion(image.Rect(0, 0, 2, 2), make([]float32, 4), 0); err != ErrShortPixelSlice {
		t.Fatalf("expected ErrShortPixelSlice; got %v", err)
	}
}

func TestChannelConversion(t *testing.T) {
	type spec struct {
		src []float32
		dst int
		exp []float32
	}
	specs := []spec{
		{[]float32{0.5}, 4, []float32{0.5, 0.5, 0.5, 1}},
		{[]float32{0.5}, 3, []float32{0.5, 0.5, 0.5}},
		{[]float32{1, 2, 3}, 4, []float32{1, 2, 3, 1}},
		{[]float32{1, 2, 3, 4}, 1, []float32{1}},
		{[]float32{1, 2, 3, 4}, 3, []float32{1, 2, 3}},
		{[]float32{1, 2}, 4, []float32{1, 2, 0, 0}},
	}

	for index, s := range specs {
		buf, _ := New(1, 1, s.dst)
		if err := buf.WriteRegion(buf.Bounds(), s.src, len(s.src)); err != nil {
			t.Fatal(err)
		}
		px := buf.Pixel(0, 0)
		for i := range s.exp {
			if px[i] != s.exp[i] {
				t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, px)
			}
		}
	}
}

func TestConvertBuffer(t *testing.T) {
	buf, _ := New(2, 1, 3)
	buf.SetRGBA(1, 0, f32.Vec4{0.1, 0.2, 0.3, 0.9})

	out, err := buf.Convert(4)
	if err != nil {
		t.Fatal(err)
	}
	if exp, got := (f32.Vec4{0.1, 0.2, 0.3, 1}), out.RGBA(1, 0); exp != got {
		t.Fatalf("expected %v; got %v", exp, got)
	}

	// The source must not alias the converted copy
	out.Clear()
	if buf.Pixel(1, 0)[0] != 0.1 {
		t.Fatal("expected converted buffer not to share storage with source")
	}
}

func TestCopyRegion(t *testing.T) {
	src, _ := New(3, 3, 1)
	for i := range src.Pix() {
		src.Pix()[i] = float32(i)
	}
	dst, _ := New(3, 3, 4)

	if err := dst.CopyRegion(src, image.Rect(0, 1, 2, 2)); err != nil {
		t.Fatal(err)
	}
	if exp, got := (f32.Vec4{4, 4, 4, 1}), dst.RGBA(1, 1); exp != got {
		t.Fatalf("expected %v; got %v", exp, got)
	}
	if exp, got := (f32.Vec4{}), dst.RGBA(2, 1); exp != got {
		t.Fatalf("expected pixel outside region untouched; got %v", got)
	}
}
