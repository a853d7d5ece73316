// Package spatial provides a uniform grid hash over 2D rectangles with
// O(1)-amortized range queries. The index accelerates snap candidate lookup:
// it is rebuilt wholesale on pointer-down and queried once per pointer-move
// frame, so query cost must stay independent of the total rect count.
package spatial

import (
	"math"

	"github.com/vectra/vectra/engine-go/internal/geometry"
)

// Cell size bounds. The cell size is derived from the current rect set,
// not user-configurable.
const (
	minCellSize     = 50
	maxCellSize     = 500
	defaultCellSize = 100
)

type cellKey [2]int

// Index is a uniform grid hash over a rectangle set. Build must complete
// before any QueryCandidates call; the index is single-goroutine like the
// rest of the engine core.
type Index struct {
	cellSize float64
	cells    map[cellKey][]int
	rects    []geometry.Rect
}

// New returns an empty index. Querying it yields no candidates.
func New() *Index {
	return &Index{
		cellSize: defaultCellSize,
		cells:    make(map[cellKey][]int),
	}
}

// Build replaces the index contents with the given rect set. The cell size
// is 1.5x the mean half-perimeter of the rects, clamped to [50, 500], or
// 100 for an empty set. Each rect index is inserted into every cell its
// bounding box overlaps. The new grid is assembled off to the side and
// swapped in at the end, so a caller never observes a partial build.
func (idx *Index) Build(rects []geometry.Rect) {
	cellSize := float64(defaultCellSize)
	if len(rects) > 0 {
		var sum float64
		for _, r := range rects {
			sum += (r.W + r.H) / 2
		}
		cellSize = 1.5 * sum / float64(len(rects))
		if cellSize < minCellSize {
			cellSize = minCellSize
		}
		if cellSize > maxCellSize {
			cellSize = maxCellSize
		}
	}

	cells := make(map[cellKey][]int)
	for i, r := range rects {
		eachCell(r, cellSize, func(cx, cy int) {
			key := cellKey{cx, cy}
			cells[key] = append(cells[key], i)
		})
	}

	idx.cellSize = cellSize
	idx.cells = cells
	idx.rects = append(idx.rects[:0:0], rects...)
}

// CellSize returns the current cell size in pixels.
func (idx *Index) CellSize() float64 { return idx.cellSize }

// Len returns the number of indexed rects.
func (idx *Index) Len() int { return len(idx.rects) }

// Rect returns the indexed rect at i. Callers pass indices straight from
// QueryCandidates, so i is assumed valid.
func (idx *Index) Rect(i int) geometry.Rect { return idx.rects[i] }

// QueryCandidates returns the indices of all rects whose cells intersect
// box expanded by threshold on all sides. A rect spanning multiple cells is
// returned exactly once, in first-encounter order.
func (idx *Index) QueryCandidates(box geometry.Rect, threshold float64) []int {
	query := box.Expand(threshold)

	var out []int
	seen := make(map[int]struct{})
	eachCell(query, idx.cellSize, func(cx, cy int) {
		for _, i := range idx.cells[cellKey{cx, cy}] {
			if _, ok := seen[i]; ok {
				continue
			}
			seen[i] = struct{}{}
			out = append(out, i)
		}
	})
	return out
}

// eachCell visits every grid cell overlapped by the rect's bounding box.
func eachCell(r geometry.Rect, cellSize float64, f func(cx, cy int)) {
	x0 := int(math.Floor(r.X / cellSize))
	x1 := int(math.Floor(r.Right() / cellSize))
	y0 := int(math.Floor(r.Y / cellSize))
	y1 := int(math.Floor(r.Bottom() / cellSize))
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			f(cx, cy)
		}
	}
}
