// Package layout converts absolutely-positioned canvas arrangements into
// CSS grid descriptors. Edge coordinates are clustered into canonical grid
// lines within a pixel tolerance; each node is then placed by snapping its
// edges to the nearest lines, 1-based and end-exclusive per CSS convention.
package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// LineTolerance is the clustering tolerance in pixels: edges closer than
// this collapse onto one shared grid line.
const LineTolerance = 4

var (
	// ErrEmptyInput is returned when no nodes are submitted.
	ErrEmptyInput = errors.New("layout: no input nodes")

	// ErrDegenerateLayout is returned when an axis yields fewer than two
	// canonical lines, so no track can be formed.
	ErrDegenerateLayout = errors.New("layout: fewer than two grid lines on an axis")
)

// GridInputNode is one visual element submitted for conversion. ID ties the
// resulting placement back to the caller's element.
type GridInputNode struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	W  float64 `json:"w"`
	H  float64 `json:"h"`
}

// GridItem is a 1-based, end-exclusive CSS grid placement, matching
// grid-column/grid-row syntax directly.
type GridItem struct {
	ID       string `json:"id"`
	ColStart int    `json:"colStart"`
	ColEnd   int    `json:"colEnd"`
	RowStart int    `json:"rowStart"`
	RowEnd   int    `json:"rowEnd"`
}

// GridLayout is the complete converter output: track templates per axis,
// track sizes in pixels, and one placement per input node in input order.
type GridLayout struct {
	TemplateColumns string     `json:"templateColumns"`
	TemplateRows    string     `json:"templateRows"`
	ColWidthsPx     []int      `json:"colWidthsPx"`
	RowHeightsPx    []int      `json:"rowHeightsPx"`
	Items           []GridItem `json:"items"`
}

// ToGrid maps a set of absolutely-positioned rects to a CSS grid descriptor.
// canvasWidth is advisory and does not currently participate in track sizing.
func ToGrid(nodes []GridInputNode, canvasWidth float64) (*GridLayout, error) {
	_ = canvasWidth

	if len(nodes) == 0 {
		return nil, ErrEmptyInput
	}

	xs := make([]float64, 0, 2*len(nodes))
	ys := make([]float64, 0, 2*len(nodes))
	for _, n := range nodes {
		xs = append(xs, n.X, n.X+n.W)
		ys = append(ys, n.Y, n.Y+n.H)
	}

	xLines := Cluster(xs, LineTolerance)
	yLines := Cluster(ys, LineTolerance)
	if len(xLines) < 2 || len(yLines) < 2 {
		return nil, ErrDegenerateLayout
	}

	colWidths := trackSizes(xLines)
	rowHeights := trackSizes(yLines)

	items := make([]GridItem, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, GridItem{
			ID:       n.ID,
			ColStart: NearestIndex(xLines, n.X) + 1,
			ColEnd:   NearestIndex(xLines, n.X+n.W) + 1,
			RowStart: NearestIndex(yLines, n.Y) + 1,
			RowEnd:   NearestIndex(yLines, n.Y+n.H) + 1,
		})
	}

	return &GridLayout{
		TemplateColumns: template(colWidths),
		TemplateRows:    template(rowHeights),
		ColWidthsPx:     colWidths,
		RowHeightsPx:    rowHeights,
		Items:           items,
	}, nil
}

// trackSizes converts consecutive line deltas into integer track sizes,
// floored at 1px so rounding can never produce a zero-width ghost track.
func trackSizes(lines []float64) []int {
	sizes := make([]int, 0, len(lines)-1)
	for i := 1; i < len(lines); i++ {
		size := int(math.Round(lines[i] - lines[i-1]))
		if size < 1 {
			size = 1
		}
		sizes = append(sizes, size)
	}
	return sizes
}

// template renders track sizes as a space-joined "<n>px" list.
func template(sizes []int) string {
	tokens := make([]string, len(sizes))
	for i, s := range sizes {
		tokens[i] = fmt.Sprintf("%dpx", s)
	}
	return strings.Join(tokens, " ")
}
