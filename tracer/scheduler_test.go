package tracer

import (
	"image"
	"testing"
)

func TestSchedulerPartitionsFrame(t *testing.T) {
	type spec struct {
		order    TileOrder
		frame    image.Rectangle
		tileSize int
		expTiles int
	}
	specs := []spec{
		{TopToBottom, image.Rect(0, 0, 64, 32), 16, 8},
		{BottomToTop, image.Rect(0, 0, 70, 33), 16, 15},
		{CenterOut, image.Rect(0, 0, 10, 10), 3, 16},
		{TopToBottom, image.Rect(0, 0, 10, 5), 0, 1},
	}

	for index, s := range specs {
		tiles := NewTileScheduler(s.order).Schedule(s.frame, s.tileSize)
		if len(tiles) != s.expTiles {
			t.Fatalf("[spec %d] expected %d tiles; got %d", index, s.expTiles, len(tiles))
		}

		// Every pixel must be covered exactly once
		coverage := make(map[image.Point]int)
		for _, tile := range tiles {
			if !tile.In(s.frame) {
				t.Fatalf("[spec %d] tile %v exceeds frame %v", index, tile, s.frame)
			}
			for y := tile.Min.Y; y < tile.Max.Y; y++ {
				for x := tile.Min.X; x < tile.Max.X; x++ {
					coverage[image.Pt(x, y)]++
				}
			}
		}
		if len(coverage) != s.frame.Dx()*s.frame.Dy() {
			t.Fatalf("[spec %d] expected %d covered pixels; got %d", index, s.frame.Dx()*s.frame.Dy(), len(coverage))
		}
		for p, count := range coverage {
			if count != 1 {
				t.Fatalf("[spec %d] pixel %v covered %d times", index, p, count)
			}
		}
	}
}

func TestSchedulerOrder(t *testing.T) {
	frame := image.Rect(0, 0, 30, 30)

	tiles := NewTileScheduler(BottomToTop).Schedule(frame, 10)
	if tiles[0].Min.Y != 20 || tiles[len(tiles)-1].Min.Y != 0 {
		t.Fatalf("expected bottom rows first; got %v", tiles)
	}

	tiles = NewTileScheduler(CenterOut).Schedule(frame, 10)
	if tiles[0] != image.Rect(10, 10, 20, 20) {
		t.Fatalf("expected the center tile first; got %v", tiles[0])
	}

	if tiles := NewTileScheduler(TopToBottom).Schedule(image.Rectangle{}, 10); tiles != nil {
		t.Fatalf("expected no tiles for an empty frame; got %v", tiles)
	}
}

func TestMemScene(t *testing.T) {
	sc := NewMemScene()
	sc.Put(SceneObject{ID: 3, Name: "c"})
	sc.Put(SceneObject{ID: 1, Name: "a"})
	sc.Put(SceneObject{ID: 2, Name: "b"})
	sc.Remove(2)

	objs := sc.Objects()
	if len(objs) != 2 || objs[0].ID != 1 || objs[1].ID != 3 {
		t.Fatalf("expected objects [1 3]; got %v", objs)
	}
	if _, ok := sc.Get(2); ok {
		t.Fatal("expected object 2 to be removed")
	}

	sc.Clear()
	if sc.Len() != 0 {
		t.Fatalf("expected empty scene; got %d objects", sc.Len())
	}
}

func TestParseOptions(t *testing.T) {
	if o, err := ParseTileOrder("center"); err != nil || o != CenterOut {
		t.Fatalf("expected center order; got %s (%v)", o, err)
	}
	if _, err := ParseTileOrder("spiral"); err == nil {
		t.Fatal("expected an error for an unknown order")
	}
	if b, err := ParseBVHType("static"); err != nil || b != StaticBVH {
		t.Fatalf("expected static bvh; got %v", err)
	}
}

func TestSnapshotEquality(t *testing.T) {
	a := SessionParams{Device: "cpu", Threads: 4, Samples: 16}
	b := a
	if a != b {
		t.Fatal("expected identical snapshots to compare equal")
	}
	b.Samples = 32
	if a == b {
		t.Fatal("expected snapshots differing in a single field to differ")
	}

	sa := SceneParams{BVHType: StaticBVH}
	sb := SceneParams{BVHType: StaticBVH, SpatialSplits: true}
	if sa == sb {
		t.Fatal("expected scene snapshots to differ")
	}
}
