// Package grid holds the discrete solver's integer cell state and the
// polygon rasterizer that classifies cells against the site boundary.
package grid

import "tekton/internal/vmath"

// Cell values. Positive values are one-based room indices.
const (
	Empty       = 0
	Corridor    = -1
	OutOfBounds = -2
)

// Buffer is a fixed-size row-major cell array. Dimensions never change
// over the buffer's lifetime. Out-of-range reads return OutOfBounds;
// out-of-range writes are dropped.
type Buffer struct {
	width  int
	height int
	cells  []int
}

func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		width:  width,
		height: height,
		cells:  make([]int, width*height),
	}
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

func (b *Buffer) At(x, y int) int {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return OutOfBounds
	}
	return b.cells[y*b.width+x]
}

func (b *Buffer) Set(x, y, v int) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = v
}

// Clear resets every cell to Empty, keeping dimensions.
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = Empty
	}
}

// Clone returns an independent copy with identical dimensions and
// contents.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		width:  b.width,
		height: b.height,
		cells:  make([]int, len(b.cells)),
	}
	copy(out.cells, b.cells)
	return out
}

// CopyFrom overwrites this buffer's cells with src's. Both buffers must
// share dimensions; mismatched sources are ignored.
func (b *Buffer) CopyFrom(src *Buffer) {
	if src == nil || src.width != b.width || src.height != b.height {
		return
	}
	copy(b.cells, src.cells)
}

// Count returns how many cells hold v.
func (b *Buffer) Count(v int) int {
	n := 0
	for _, c := range b.cells {
		if c == v {
			n++
		}
	}
	return n
}

// RasterizePolygon marks every cell whose center lies outside the
// polygon as OutOfBounds. Interior cells are left untouched.
func (b *Buffer) RasterizePolygon(poly vmath.Polygon) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			center := vmath.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if !poly.Contains(center) {
				b.cells[y*b.width+x] = OutOfBounds
			}
		}
	}
}
