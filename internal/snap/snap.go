// Package snap implements the per-axis alignment search that powers
// interactive drag snapping. For each axis it tests nine (target, sibling)
// edge/center pairs per candidate and takes the first pair within threshold,
// in a fixed order. First-match wins, not closest-match: the candidate and
// pair ordering is part of the observable contract, so downstream callers
// see identical snapping across releases.
package snap

import (
	"math"

	"github.com/vectra/vectra/engine-go/internal/geometry"
	"github.com/vectra/vectra/engine-go/internal/spatial"
)

// DefaultThreshold is the drag snap distance used by the editor UI.
const DefaultThreshold = 5

// Snap computes the corrected position for a rect being dragged to
// current's coordinates, against the siblings held by idx. Each axis snaps
// independently to the first matching pair; an axis with no match keeps its
// coordinate and emits no guide. The whole scan stops once both axes have
// snapped. This runs on the per-frame path: no allocation proportional to
// the document, only the candidate set near the moving rect.
func Snap(current geometry.Rect, threshold float64, idx *spatial.Index) geometry.SnapResult {
	newX := current.X
	newY := current.Y
	guides := make([]geometry.Guide, 0, 2)

	snappedX := false
	snappedY := false

	candidates := idx.QueryCandidates(current, threshold)
	for _, ci := range candidates {
		sib := idx.Rect(ci)

		if !snappedX {
			moving := geometry.Rect{X: newX, Y: newY, W: current.W, H: current.H}
			// target-left, target-center, target-right x sibling-left,
			// sibling-center, sibling-right, in that order.
			pairs := [9][2]float64{
				{moving.X, sib.X}, {moving.X, sib.CenterX()}, {moving.X, sib.Right()},
				{moving.CenterX(), sib.X}, {moving.CenterX(), sib.CenterX()}, {moving.CenterX(), sib.Right()},
				{moving.Right(), sib.X}, {moving.Right(), sib.CenterX()}, {moving.Right(), sib.Right()},
			}
			for _, p := range pairs {
				t, s := p[0], p[1]
				if math.Abs(t-s) < threshold {
					newX += s - t
					snappedX = true
					guides = append(guides, geometry.Guide{
						Orientation: geometry.OrientationVertical,
						Pos:         s,
						Start:       math.Min(newY, sib.Y),
						End:         math.Max(newY+current.H, sib.Bottom()),
						Kind:        geometry.GuideKindAlign,
					})
					break
				}
			}
		}

		if !snappedY {
			moving := geometry.Rect{X: newX, Y: newY, W: current.W, H: current.H}
			pairs := [9][2]float64{
				{moving.Y, sib.Y}, {moving.Y, sib.CenterY()}, {moving.Y, sib.Bottom()},
				{moving.CenterY(), sib.Y}, {moving.CenterY(), sib.CenterY()}, {moving.CenterY(), sib.Bottom()},
				{moving.Bottom(), sib.Y}, {moving.Bottom(), sib.CenterY()}, {moving.Bottom(), sib.Bottom()},
			}
			for _, p := range pairs {
				t, s := p[0], p[1]
				if math.Abs(t-s) < threshold {
					newY += s - t
					snappedY = true
					guides = append(guides, geometry.Guide{
						Orientation: geometry.OrientationHorizontal,
						Pos:         s,
						Start:       math.Min(newX, sib.X),
						End:         math.Max(newX+current.W, sib.Right()),
						Kind:        geometry.GuideKindAlign,
					})
					break
				}
			}
		}

		if snappedX && snappedY {
			break
		}
	}

	return geometry.SnapResult{X: newX, Y: newY, Guides: guides}
}
