package assoc

import "github.com/fieldtrace/mot/geom"

// BuildCostMatrix computes the Euclidean distance between every predicted
// track position and every detection centroid. Gating is deliberately not
// applied here: spec.md §4.4 runs the assignment solver on true distances
// first and gates the resulting matches afterward, since baking a gate
// into the matrix before solving can steer the solver away from a pairing
// that was genuinely optimal for those rows, just because one of its
// cells happened to exceed the gate.
func BuildCostMatrix(predicted, detections []geom.Point) [][]float64 {
	cost := make([][]float64, len(predicted))
	for i, p := range predicted {
		row := make([]float64, len(detections))
		for j, d := range detections {
			row[j] = geom.Distance(p, d)
		}
		cost[i] = row
	}
	return cost
}

// GateMatches drops every match whose cost exceeds gate, per spec.md
// §4.4's frame-relative distance gate (D = 0.5*(H+W) scaled by the
// configured fraction). Applied after the solver has already picked its
// globally optimal pairing, so gating only vetoes a winning pair — it
// never influences which pair won.
func GateMatches(matches map[int]int, cost [][]float64, gate float64) map[int]int {
	out := make(map[int]int, len(matches))
	for trackIdx, detIdx := range matches {
		if cost[trackIdx][detIdx] > gate {
			continue
		}
		out[trackIdx] = detIdx
	}
	return out
}
