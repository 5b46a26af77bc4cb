package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/ehelvetica/webcollage/pkg/errors"
)

const (
	// DefaultTileWidth is the width of one screenshot tile in pixels.
	DefaultTileWidth = 2724

	// DefaultTileHeight is the height of one screenshot tile in pixels.
	DefaultTileHeight = 2048

	// DefaultItemsPerSuperRow bounds the images per compositor invocation
	// when SuperRowSize is derived.
	DefaultItemsPerSuperRow = 5000
)

// DefaultResolution is the tile size in "WxH" form.
var DefaultResolution = strconv.Itoa(DefaultTileWidth) + "x" + strconv.Itoa(DefaultTileHeight)

// Params are the grid parameters of a run. Zero values for RowSize,
// SuperRowSize and ItemsPerSuperRow select the derived defaults.
type Params struct {
	TileWidth        int `json:"tileWidth"`
	TileHeight       int `json:"tileHeight"`
	RowSize          int `json:"rowSize,omitempty"`
	SuperRowSize     int `json:"superRowSize,omitempty"`
	ItemsPerSuperRow int `json:"itemsPerSuperRow,omitempty"`

	// Offset and Count select the window [Offset, Offset+Count) of the
	// ordered files. Count <= 0 means up to the end.
	Offset int `json:"offset,omitempty"`
	Count  int `json:"count,omitempty"`
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		TileWidth:        DefaultTileWidth,
		TileHeight:       DefaultTileHeight,
		ItemsPerSuperRow: DefaultItemsPerSuperRow,
	}
}

// Validate reports parameters that cannot describe a grid.
func (p Params) Validate() error {
	switch {
	case p.TileWidth <= 0 || p.TileHeight <= 0:
		return errors.New(errors.ErrCodeInvalidGrid, "tile size must be positive, got %dx%d", p.TileWidth, p.TileHeight)
	case p.RowSize < 0:
		return errors.New(errors.ErrCodeInvalidGrid, "row size must not be negative, got %d", p.RowSize)
	case p.SuperRowSize < 0:
		return errors.New(errors.ErrCodeInvalidGrid, "super-row size must not be negative, got %d", p.SuperRowSize)
	case p.ItemsPerSuperRow < 0:
		return errors.New(errors.ErrCodeInvalidGrid, "items per super-row must not be negative, got %d", p.ItemsPerSuperRow)
	case p.Offset < 0:
		return errors.New(errors.ErrCodeInvalidGrid, "offset must not be negative, got %d", p.Offset)
	case mulOverflows(p.RowSize, p.SuperRowSize):
		return errors.New(errors.ErrCodeInvalidGrid, "row size %d times super-row size %d overflows", p.RowSize, p.SuperRowSize)
	case mulOverflows(p.RowSize, p.TileWidth):
		return errors.New(errors.ErrCodeInvalidGrid, "grid width overflows: %d columns of %dpx", p.RowSize, p.TileWidth)
	}
	return nil
}

// mulOverflows reports whether a*b exceeds math.MaxInt for non-negative a, b.
func mulOverflows(a, b int) bool {
	return a > 0 && b > 0 && a > math.MaxInt/b
}

// ParseResolution parses a tile size such as "2724x2048".
func ParseResolution(s string) (width, height int, err error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidGrid, "invalid resolution %q (want WIDTHxHEIGHT)", s)
	}
	width, errW := strconv.Atoi(w)
	height, errH := strconv.Atoi(h)
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidGrid, "invalid resolution %q (want WIDTHxHEIGHT)", s)
	}
	return width, height, nil
}
