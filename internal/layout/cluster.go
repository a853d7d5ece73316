package layout

import (
	"math"
	"sort"
)

// Cluster merges 1D coordinate breakpoints into canonical lines. Values are
// sorted ascending and greedily grouped: a value joins the current group iff
// its distance to the group's running mean is within tolerance (inclusive).
// Using the running mean rather than the first member keeps a spread cluster
// from drifting while still splitting genuinely distinct lines. Each sealed
// group emits its mean; the result is sorted.
func Cluster(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	sorted := append(values[:0:0], values...)
	sort.Float64s(sorted)

	lines := make([]float64, 0, len(sorted))
	sum := sorted[0]
	count := 1
	for _, v := range sorted[1:] {
		mean := sum / float64(count)
		if math.Abs(v-mean) <= tolerance {
			sum += v
			count++
			continue
		}
		lines = append(lines, mean)
		sum = v
		count = 1
	}
	lines = append(lines, sum/float64(count))

	return lines
}

// NearestIndex returns the index of the line closest to target, lowest
// index winning ties. lines must be non-empty.
func NearestIndex(lines []float64, target float64) int {
	best := 0
	bestDist := math.Abs(lines[0] - target)
	for i, line := range lines[1:] {
		if d := math.Abs(line - target); d < bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best
}
