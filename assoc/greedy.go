package assoc

// SolveGreedy assigns each track to its nearest still-available detection
// in ascending distance order. It is not globally optimal but is cheap,
// mirroring the retrieved iou/simple trackers' priority-queue-driven
// greedy matching as a fallback to the Hungarian solver. Distance gating
// is not applied here — callers run GateMatches over the result, per
// spec.md §4.4's solve-then-gate order.
func SolveGreedy(cost [][]float64) map[int]int {
	matches := make(map[int]int)
	usedTracks := make(map[int]bool)
	usedDets := make(map[int]bool)

	type pair struct {
		track, det int
		dist       float64
	}
	var pairs []pair
	for i, row := range cost {
		for j, d := range row {
			pairs = append(pairs, pair{track: i, det: j, dist: d})
		}
	}

	for {
		best := -1
		for i, p := range pairs {
			if usedTracks[p.track] || usedDets[p.det] {
				continue
			}
			if best == -1 || p.dist < pairs[best].dist {
				best = i
			}
		}
		if best == -1 {
			break
		}
		p := pairs[best]
		matches[p.track] = p.det
		usedTracks[p.track] = true
		usedDets[p.det] = true
	}
	return matches
}
