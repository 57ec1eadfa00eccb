package assoc

import (
	"testing"

	"github.com/fieldtrace/mot/geom"
)

func TestBuildCostMatrixComputesEuclideanDistance(t *testing.T) {
	predicted := []geom.Point{{X: 0, Y: 0}}
	detections := []geom.Point{{X: 3, Y: 4}}
	cost := BuildCostMatrix(predicted, detections)
	if cost[0][0] != 5 {
		t.Errorf("expected euclidean distance 5, got %f", cost[0][0])
	}
}

func TestBuildCostMatrixDoesNotGate(t *testing.T) {
	predicted := []geom.Point{{X: 0, Y: 0}}
	detections := []geom.Point{{X: 1000, Y: 1000}}
	cost := BuildCostMatrix(predicted, detections)
	want := geom.Distance(predicted[0], detections[0])
	if cost[0][0] != want {
		t.Errorf("expected the raw distance regardless of any gate, got %f want %f", cost[0][0], want)
	}
}

func TestGateMatchesDropsDistantPairs(t *testing.T) {
	cost := [][]float64{{1500}}
	matches := map[int]int{0: 0}
	got := GateMatches(matches, cost, 10)
	if len(got) != 0 {
		t.Errorf("expected the pair to be dropped for exceeding the gate, got %v", got)
	}
}

func TestGateMatchesKeepsNearPairs(t *testing.T) {
	cost := [][]float64{{5}}
	matches := map[int]int{0: 0}
	got := GateMatches(matches, cost, 10)
	if got[0] != 0 {
		t.Errorf("expected the near pair to survive gating, got %v", got)
	}
}

// TestGateMatchesIsScaleInvariant exercises spec.md §8's scale invariance
// law: scaling every coordinate and the gate by the same factor must not
// change which matches the distance gate rejects.
func TestGateMatchesIsScaleInvariant(t *testing.T) {
	const scale = 7.0
	predicted := []geom.Point{{X: 10, Y: 10}, {X: 400, Y: 400}}
	detections := []geom.Point{{X: 40, Y: 40}}
	gate := 50.0

	base := BuildCostMatrix(predicted, detections)
	matches := map[int]int{0: 0, 1: 0}

	scaledPredicted := make([]geom.Point, len(predicted))
	for i, p := range predicted {
		scaledPredicted[i] = geom.Point{X: p.X * scale, Y: p.Y * scale}
	}
	scaledDetections := make([]geom.Point, len(detections))
	for i, d := range detections {
		scaledDetections[i] = geom.Point{X: d.X * scale, Y: d.Y * scale}
	}
	scaled := BuildCostMatrix(scaledPredicted, scaledDetections)

	baseGated := GateMatches(matches, base, gate)
	scaledGated := GateMatches(matches, scaled, gate*scale)

	if len(baseGated) != len(scaledGated) {
		t.Errorf("gating decision changed under uniform scaling: base=%v scaled=%v", baseGated, scaledGated)
	}
}
