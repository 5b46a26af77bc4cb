package layout

import (
	"math"

	"github.com/ehelvetica/webcollage/pkg/errors"
)

// Rect is an axis-aligned pixel rectangle, origin top-left, max exclusive.
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

// Placement is the grid cell and rectangle assigned to one file.
type Placement struct {
	File string
	Col  int
	Row  int
	Rect Rect
}

// Block is one super-row: the files composited by a single compositor
// invocation.
type Block struct {
	Index      int
	Files      []string // in compositor order, left to right, top to bottom
	Across     int      // images per row
	FirstRow   int      // global index of the block's first row
	Rows       int      // rows in this block
	Placements []Placement
}

// Plan is the complete layout of a run.
type Plan struct {
	RowSize      int
	SuperRowSize int
	Total        int // placed files
	Rows         int // grid rows over all blocks
	Blocks       []Block
}

// State is the planner state.
type State int

const (
	Planning State = iota
	Emitting
	Done
)

func (s State) String() string {
	switch s {
	case Planning:
		return "planning"
	case Emitting:
		return "emitting"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Planner emits the blocks of a layout one at a time.
type Planner struct {
	params       Params
	files        []string
	rowSize      int
	superRowSize int

	state     State
	index     int // super-row being emitted
	remaining int
}

// NewPlanner windows the ordered files and derives the grid sizes.
func NewPlanner(files []string, p Params) (*Planner, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.ItemsPerSuperRow == 0 {
		p.ItemsPerSuperRow = DefaultItemsPerSuperRow
	}

	window := Window(files, p.Offset, p.Count)
	pl := &Planner{
		params:       p,
		files:        window,
		rowSize:      p.RowSize,
		superRowSize: p.SuperRowSize,
		remaining:    len(window),
	}
	if len(window) > 0 {
		if pl.rowSize == 0 {
			pl.rowSize = squareSide(len(window))
		}
		if pl.superRowSize == 0 {
			pl.superRowSize = max(1, ceilDiv(p.ItemsPerSuperRow, pl.rowSize))
		}
		if err := pl.checkExtent(); err != nil {
			return nil, err
		}
	}
	return pl, nil
}

// State returns the current state and, while emitting, the index of the
// next block.
func (pl *Planner) State() (State, int) { return pl.state, pl.index }

// Files returns the windowed files the planner lays out.
func (pl *Planner) Files() []string { return pl.files }

// RowSize returns the number of images per row.
func (pl *Planner) RowSize() int { return pl.rowSize }

// SuperRowSize returns the number of rows per block.
func (pl *Planner) SuperRowSize() int { return pl.superRowSize }

// Next emits the next block. It returns false once every file is placed.
func (pl *Planner) Next() (Block, bool) {
	if pl.state == Planning {
		pl.state = Emitting
		if pl.remaining == 0 {
			pl.state = Done
		}
	}
	if pl.state == Done {
		return Block{}, false
	}

	b := pl.emit()
	pl.remaining -= len(b.Files)
	if pl.remaining == 0 {
		pl.state = Done
	} else {
		pl.index++
	}
	return b, true
}

func (pl *Planner) emit() Block {
	per := pl.rowSize * pl.superRowSize
	start := len(pl.files) - pl.remaining
	end := min(start+per, len(pl.files))
	files := pl.files[start:end]

	tw, th := pl.params.TileWidth, pl.params.TileHeight
	b := Block{
		Index:      pl.index,
		Files:      files,
		Across:     pl.rowSize,
		FirstRow:   pl.index * pl.superRowSize,
		Rows:       ceilDiv(len(files), pl.rowSize),
		Placements: make([]Placement, len(files)),
	}
	for i, f := range files {
		col := i % pl.rowSize
		row := b.FirstRow + i/pl.rowSize
		b.Placements[i] = Placement{
			File: f,
			Col:  col,
			Row:  row,
			Rect: Rect{
				MinX: col * tw,
				MinY: row * th,
				MaxX: col*tw + tw,
				MaxY: row*th + th,
			},
		}
	}
	return b
}

// Compute lays out the ordered files and returns every block.
func Compute(files []string, p Params) (*Plan, error) {
	pl, err := NewPlanner(files, p)
	if err != nil {
		return nil, err
	}
	plan := &Plan{
		RowSize:      pl.RowSize(),
		SuperRowSize: pl.SuperRowSize(),
		Total:        len(pl.Files()),
	}
	for b, ok := pl.Next(); ok; b, ok = pl.Next() {
		plan.Blocks = append(plan.Blocks, b)
		plan.Rows += b.Rows
	}
	return plan, nil
}

// squareSide returns ceil(sqrt(n)).
func squareSide(n int) int {
	r := int(math.Ceil(math.Sqrt(float64(n))))
	for r*r < n {
		r++
	}
	for r > 1 && (r-1)*(r-1) >= n {
		r--
	}
	return r
}

// checkExtent rejects derived sizes whose block length or pixel extent
// does not fit in an int.
func (pl *Planner) checkExtent() error {
	rows := ceilDiv(len(pl.files), pl.rowSize)
	switch {
	case mulOverflows(pl.rowSize, pl.superRowSize):
		return errors.New(errors.ErrCodeInvalidGrid, "row size %d times super-row size %d overflows", pl.rowSize, pl.superRowSize)
	case mulOverflows(pl.rowSize, pl.params.TileWidth):
		return errors.New(errors.ErrCodeInvalidGrid, "grid width overflows: %d columns of %dpx", pl.rowSize, pl.params.TileWidth)
	case mulOverflows(rows, pl.params.TileHeight):
		return errors.New(errors.ErrCodeInvalidGrid, "grid height overflows: %d rows of %dpx", rows, pl.params.TileHeight)
	}
	return nil
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
