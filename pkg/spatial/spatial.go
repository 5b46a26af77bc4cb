// Package spatial builds the spatial index a IIIF viewer uses to find a
// screenshot inside the collage.
//
// The index holds at most one rectangle per snapshot identifier. The
// identifier is recovered from the file name exactly as the matcher does it,
// and the first rectangle seen for an identifier wins.
package spatial

import (
	"github.com/ehelvetica/webcollage/pkg/layout"
	"github.com/ehelvetica/webcollage/pkg/screenshot"
)

// Rect is one spatial index entry. Field order is the on-disk order.
type Rect struct {
	URNID string `json:"urnId"`
	MinX  int    `json:"minX"`
	MinY  int    `json:"minY"`
	MaxX  int    `json:"maxX"`
	MaxY  int    `json:"maxY"`
}

// Descriptor summarizes the grid of a collage.
type Descriptor struct {
	NumRows       int `json:"numRows"`       // grid rows over all super-rows
	SubRows       int `json:"subRows"`       // rows per super-row
	ItemsPerRow   int `json:"itemsPerRow"`   // images per row
	SnapshotCount int `json:"snapshotCount"` // images placed
}

// Builder accumulates index entries. The zero value is ready to use.
type Builder struct {
	rects   []Rect
	seen    map[string]bool
	dropped []string
}

// NewBuilder returns a builder sized for n entries.
func NewBuilder(n int) *Builder {
	return &Builder{
		rects: make([]Rect, 0, n),
		seen:  make(map[string]bool, n),
	}
}

// Add records the rectangle of file. It reports false, and keeps the earlier
// entry, when the file's identifier already has one.
func (b *Builder) Add(file string, r layout.Rect) bool {
	if b.seen == nil {
		b.seen = make(map[string]bool)
	}
	id := screenshot.Decode(file).ID
	if b.seen[id] {
		b.dropped = append(b.dropped, file)
		return false
	}
	b.seen[id] = true
	b.rects = append(b.rects, Rect{
		URNID: id,
		MinX:  r.MinX,
		MinY:  r.MinY,
		MaxX:  r.MaxX,
		MaxY:  r.MaxY,
	})
	return true
}

// AddBlock records every placement of a block.
func (b *Builder) AddBlock(blk layout.Block) {
	for _, p := range blk.Placements {
		b.Add(p.File, p.Rect)
	}
}

// Rects returns the entries in insertion order.
func (b *Builder) Rects() []Rect { return b.rects }

// Dropped returns the files whose identifier was already indexed.
func (b *Builder) Dropped() []string { return b.dropped }

// Len returns the number of entries.
func (b *Builder) Len() int { return len(b.rects) }

// Describe summarizes plan. SnapshotCount is the number of placed files.
func Describe(plan *layout.Plan) Descriptor {
	if plan == nil {
		return Descriptor{}
	}
	return Descriptor{
		NumRows:       plan.Rows,
		SubRows:       plan.SuperRowSize,
		ItemsPerRow:   plan.RowSize,
		SnapshotCount: plan.Total,
	}
}

// Build indexes every block of plan.
func Build(plan *layout.Plan) *Builder {
	b := NewBuilder(plan.Total)
	for _, blk := range plan.Blocks {
		b.AddBlock(blk)
	}
	return b
}
