// Package geometry holds the shared geometric vocabulary of the engine:
// axis-aligned rectangles in canvas-pixel space, alignment guides, and
// snap query results. Coordinates are trusted float64 values; non-finite
// inputs (NaN/Inf) are a caller contract and are not validated here.
package geometry

// Rect is an axis-aligned box in canvas-pixel space. Negative coordinates
// are legal. Rects are ephemeral values with no identity.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the x coordinate of the horizontal center.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the y coordinate of the vertical center.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Expand returns the rect grown by d on all four sides.
func (r Rect) Expand(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Guide orientations.
const (
	OrientationVertical   = "vertical"
	OrientationHorizontal = "horizontal"
)

// GuideKindAlign marks a guide produced by edge/center alignment.
const GuideKindAlign = "align"

// Guide is a transient visual alignment indicator. Pos is the aligned
// coordinate; Start/End span the union of the two rects' extents on the
// perpendicular axis.
type Guide struct {
	Orientation string  `json:"orientation"`
	Pos         float64 `json:"pos"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Kind        string  `json:"kind"`
}

// SnapResult is the outcome of one snap query: the corrected position plus
// any guides to render. It is never persisted.
type SnapResult struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Guides []Guide `json:"guides"`
}
