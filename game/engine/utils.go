package engine

import (
	"fmt"
	"math"
)

const (
	// exactDelta bounds the per-axis difference for which dx*dx + dy*dy
	// fits in an int64, with room for float64 rounding of large coordinates.
	exactDelta = 1 << 30

	// maxIsqrt is floor(sqrt(math.MaxInt64)).
	maxIsqrt = 3037000499

	// MaxCoordinate bounds the cells CellFromPixel produces.
	MaxCoordinate = 1 << 30
)

// Distance returns the straight-line distance between two cells truncated to
// a whole number of cells: floor(sqrt(dx*dx + dy*dy)). Cells too far apart
// for exact integer arithmetic fall back to float64 and saturate at
// math.MaxInt.
func Distance(from, to Cell) int {
	fdx := float64(from.Column) - float64(to.Column)
	fdy := float64(from.Row) - float64(to.Row)
	if math.Abs(fdx) < exactDelta && math.Abs(fdy) < exactDelta {
		dx := from.Column - to.Column
		dy := from.Row - to.Row
		return isqrt(dx*dx + dy*dy)
	}

	d := math.Floor(math.Hypot(fdx, fdy))
	if d >= math.MaxInt64 {
		return math.MaxInt
	}
	return int(d)
}

// isqrt returns floor(sqrt(n)) for n >= 0
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := int(math.Sqrt(float64(n)))
	if r > maxIsqrt {
		r = maxIsqrt
	}
	// float64 cannot represent every large int exactly; nudge into place
	for r*r > n {
		r--
	}
	for r < maxIsqrt && (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// LayoutFromPixels derives the board geometry from a display size: the block
// size is the display width split into gridWidth columns and the row count
// is however many whole blocks fit vertically.
func LayoutFromPixels(pixelWidth, pixelHeight, gridWidth int) (Layout, error) {
	if pixelWidth <= 0 || pixelHeight <= 0 || gridWidth <= 0 {
		return Layout{}, fmt.Errorf("%w: pixel size %dx%d with %d columns",
			ErrInvalidConfiguration, pixelWidth, pixelHeight, gridWidth)
	}

	blockSize := pixelWidth / gridWidth
	if blockSize == 0 {
		return Layout{}, fmt.Errorf("%w: %d columns do not fit in %d pixels",
			ErrInvalidConfiguration, gridWidth, pixelWidth)
	}

	gridHeight := pixelHeight / blockSize
	if gridHeight == 0 {
		return Layout{}, fmt.Errorf("%w: a %d pixel block does not fit in %d pixels of height",
			ErrInvalidConfiguration, blockSize, pixelHeight)
	}

	return Layout{
		BlockSize:  blockSize,
		GridWidth:  gridWidth,
		GridHeight: gridHeight,
	}, nil
}

// CellFromPixel converts a touch position into the grid cell under it.
// Positions left of or above the board map to negative cells. Results are
// clamped to [-MaxCoordinate, MaxCoordinate]; NaN maps to 0.
func CellFromPixel(x, y float64, blockSize int) Cell {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return Cell{
		Column: pixelToIndex(x, blockSize),
		Row:    pixelToIndex(y, blockSize),
	}
}

func pixelToIndex(v float64, blockSize int) int {
	f := math.Floor(v / float64(blockSize))
	switch {
	case math.IsNaN(f):
		return 0
	case f > MaxCoordinate:
		return MaxCoordinate
	case f < -MaxCoordinate:
		return -MaxCoordinate
	}
	return int(f)
}

// MaxDistance returns the largest distance any shot on the grid can report
func MaxDistance(width, height int) int {
	return Distance(Cell{}, Cell{Column: width - 1, Row: height - 1})
}
