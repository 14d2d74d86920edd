package tracer

import (
	"image"
	"sort"
)

// The TileScheduler interface is implemented by all tile ordering strategies.
type TileScheduler interface {
	// Split the frame into disjoint tiles of at most tileSize x tileSize
	// pixels and return them in rendering order.
	Schedule(frame image.Rectangle, tileSize int) []image.Rectangle
}

type orderedScheduler struct {
	order TileOrder
}

// Create a scheduler for the given tile order.
func NewTileScheduler(order TileOrder) TileScheduler {
	return &orderedScheduler{order: order}
}

func (sch *orderedScheduler) Schedule(frame image.Rectangle, tileSize int) []image.Rectangle {
	if frame.Empty() {
		return nil
	}
	if tileSize <= 0 {
		tileSize = max(frame.Dx(), frame.Dy())
	}

	tiles := make([]image.Rectangle, 0)
	for y := frame.Min.Y; y < frame.Max.Y; y += tileSize {
		for x := frame.Min.X; x < frame.Max.X; x += tileSize {
			tiles = append(tiles, image.Rect(x, y, x+tileSize, y+tileSize).Intersect(frame))
		}
	}

	switch sch.order {
	case BottomToTop:
		sort.SliceStable(tiles, func(i, j int) bool { return tiles[i].Min.Y > tiles[j].Min.Y })
	case CenterOut:
		c := image.Pt((frame.Min.X+frame.Max.X)/2, (frame.Min.Y+frame.Max.Y)/2)
		sort.SliceStable(tiles, func(i, j int) bool { return distSq(tiles[i], c) < distSq(tiles[j], c) })
	}

	return tiles
}

// Squared distance between the tile center and p.
func distSq(r image.Rectangle, p image.Point) int {
	dx := (r.Min.X+r.Max.X)/2 - p.X
	dy := (r.Min.Y+r.Max.Y)/2 - p.Y
	return dx*dx + dy*dy
}
