package assoc

import (
	"fmt"

	"github.com/cpmech/gosl/graph"
	"github.com/pkg/errors"
)

// SolveMunkres runs the Hungarian algorithm over a cost matrix and returns
// a map from track row index to detection column index, omitting rows
// left unassigned. Distance gating is not applied here — callers run
// GateMatches over the result, per spec.md §4.4's solve-then-gate order.
//
// gosl's graph.Munkres panics on malformed input (e.g. an empty matrix)
// rather than returning an error; that panic is recovered here and
// surfaced as ErrAssignmentSolverFailure, per spec.md §7.
func SolveMunkres(cost [][]float64) (matches map[int]int, err error) {
	matches = make(map[int]int)
	rows := len(cost)
	if rows == 0 {
		return matches, nil
	}
	cols := len(cost[0])
	if cols == 0 {
		return matches, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrap(ErrAssignmentSolverFailure, fmt.Sprintf("munkres panic: %v", r))
		}
	}()

	var mk graph.Munkres
	mk.Init(rows, cols)
	mk.SetCostMatrix(cost)
	mk.Run()

	for trackIdx, detIdx := range mk.Links {
		if detIdx == -1 {
			continue
		}
		matches[trackIdx] = detIdx
	}
	return matches, nil
}
