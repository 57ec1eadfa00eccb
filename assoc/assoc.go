// Package assoc implements the association subsystem of spec.md §4.3-4.5:
// cost-matrix construction, global one-to-one assignment via the
// Hungarian algorithm, frame-relative distance gating, bounding-box
// occlusion tolerance, and track birth/death lifecycle.
//
// The assignment solver is grounded on the retrieved SORT-style tracker's
// use of gosl's graph.Munkres, not on the retrieved mot-go teacher's own
// go-hungarian dependency: go-hungarian solves a benefit-maximizing dense
// assignment with no native "unassigned" sentinel, while gosl's Munkres
// takes a cost matrix directly, tolerates rectangular inputs, and reports
// unassigned rows as -1 — exactly the contract spec.md §4.4 calls for.
package assoc

import (
	"github.com/fieldtrace/mot/detect"
	"github.com/fieldtrace/mot/filter"
	"github.com/fieldtrace/mot/geom"
	"github.com/fieldtrace/mot/track"
	"github.com/pkg/errors"
)

// AssignmentAlgorithm selects the solver the associator uses to turn a
// cost matrix into a matching.
type AssignmentAlgorithm int

const (
	// AlgorithmMunkres uses the Hungarian algorithm for a globally optimal
	// assignment. The default per spec.md §4.4.
	AlgorithmMunkres AssignmentAlgorithm = iota
	// AlgorithmGreedy assigns each track to its nearest still-available
	// detection in distance order, without global optimality. Offered as a cheaper
	// fallback for very large frames, mirroring the retrieved trackers'
	// MatchingAlgorithm option.
	AlgorithmGreedy
)

// Config holds the association subsystem's tunables.
type Config struct {
	Algorithm             AssignmentAlgorithm `toml:"algorithm"`
	DistanceGateFraction  float64             `toml:"distance_gate_fraction"` // fraction of frame-relative scale D beyond which a pairing is forbidden
	LifetimeThreshold     int                 `toml:"lifetime_threshold"`     // frames a track must survive before being reported (birth warm-up)
	MissedFramesThreshold int                 `toml:"missed_frames_threshold"` // consecutive misses before a track is evicted
	MotionFilter          filter.Config       `toml:"motion_filter"`
}

// DefaultConfig returns spec.md §6's documented defaults, with
// SPEC_FULL.md §10's fixed values for the keys spec.md leaves as
// "implementation default".
func DefaultConfig() Config {
	return Config{
		Algorithm:             AlgorithmMunkres,
		DistanceGateFraction:  0.1,
		LifetimeThreshold:     5,
		MissedFramesThreshold: 15,
		MotionFilter:          filter.DefaultConfig(),
	}
}

// ErrAssignmentSolverFailure wraps a solver-level failure (spec.md §7).
var ErrAssignmentSolverFailure = errors.New("assignment solver failure")

// Associator owns the live set of tracks and advances them one frame at a
// time against a new set of detections.
type Associator struct {
	cfg    Config
	tracks map[track.ID]*track.Track
}

// New constructs an empty associator; tracks are born as unmatched
// detections arrive.
func New(cfg Config) *Associator {
	return &Associator{
		cfg:    cfg,
		tracks: make(map[track.ID]*track.Track),
	}
}

// Tracks returns the tracks currently visible per spec.md §4.5's warm-up
// rule. Callers must not mutate the returned slice.
func (a *Associator) Tracks() []*track.Track {
	out := make([]*track.Track, 0, len(a.tracks))
	for _, t := range a.tracks {
		if t.Visible(a.cfg.LifetimeThreshold) {
			out = append(out, t)
		}
	}
	return out
}

// Update advances every live track by one frame against a new set of
// detections: predicts, matches, corrects, tolerates occlusion, ages out
// the dead, and births new tracks for leftover detections.
func (a *Associator) Update(frameWidth, frameHeight int, detections []detect.Detection) error {
	ids := make([]track.ID, 0, len(a.tracks))
	predicted := make([]geom.Point, 0, len(a.tracks))
	for id, t := range a.tracks {
		ids = append(ids, id)
		predicted = append(predicted, t.Predict())
	}

	cost := BuildCostMatrix(predicted, centers(detections))

	var matches map[int]int
	switch a.cfg.Algorithm {
	case AlgorithmGreedy:
		matches = SolveGreedy(cost)
	default:
		solved, err := SolveMunkres(cost)
		if err != nil {
			// spec.md §7: a solver crash or infeasibility is treated as "no
			// assignment for this frame", not surfaced to the caller. Every
			// filter falls through to the self-correct/no-update path below
			// and normal eviction still applies; detections are not even
			// considered for occlusion tolerance or births, since a solver
			// failure means this frame's detections can't be trusted for
			// matching at all.
			a.missFrame()
			return nil
		}
		matches = solved
	}

	// spec.md §4.4 runs assignment on true distances first, then gates the
	// result afterward — gating a cell before the solver runs would let it
	// route around a pair that was actually optimal for those two rows,
	// distorting pairs that never individually exceeded the gate.
	gate := a.cfg.DistanceGateFraction * 0.5 * float64(frameWidth+frameHeight)
	matches = GateMatches(matches, cost, gate)

	matchedDetections := make(map[int]bool, len(matches))
	for trackIdx, detIdx := range matches {
		id := ids[trackIdx]
		matchedDetections[detIdx] = true
		if err := a.tracks[id].Correct(detections[detIdx].Center); err != nil {
			// spec.md §7: a filter update failure destroys only the track
			// that hit it, as if it had already exceeded missed_frames.
			delete(a.tracks, id)
		}
	}

	for trackIdx, id := range ids {
		if _, matched := matches[trackIdx]; matched {
			continue
		}
		t := a.tracks[id]
		var err error
		if occluded(t, detections) {
			err = t.CorrectViaOcclusion()
		} else {
			err = t.CorrectNoObs()
		}
		if err != nil {
			delete(a.tracks, id)
		}
	}

	for id, t := range a.tracks {
		if t.Dead(a.cfg.MissedFramesThreshold) {
			delete(a.tracks, id)
		}
	}

	for detIdx, d := range detections {
		if matchedDetections[detIdx] {
			continue
		}
		// spec.md §4.4's "T empty and C nonempty" cold start: a newborn
		// filter is predicted and corrected within the very frame that
		// creates it, rather than waiting for the next frame's predict
		// pass, so its lifetime already reflects having survived this
		// frame (required for spec.md §8 scenario 1's "visible from frame
		// 3" warm-up count to hold).
		nt := track.New(a.cfg.MotionFilter, d.Center)
		nt.Predict()
		if err := nt.Correct(d.Center); err != nil {
			// A newborn that fails its first correction never enters the
			// pool at all, per spec.md §7's "destroyed immediately".
			continue
		}
		a.tracks[nt.ID()] = nt
	}

	return nil
}

// missFrame advances every live track without any detection at all: each
// filter self-corrects and accrues a missed frame, then normal eviction
// applies. Update calls it only on a solver failure; a frame with zero
// detections goes through Update's main path, which reaches the same
// outcome since no track is matched and no box can contain a prediction.
// A filter update failure here destroys just that track, same as the main
// path.
func (a *Associator) missFrame() {
	for id, t := range a.tracks {
		if err := t.CorrectNoObs(); err != nil {
			delete(a.tracks, id)
		}
	}
	for id, t := range a.tracks {
		if t.Dead(a.cfg.MissedFramesThreshold) {
			delete(a.tracks, id)
		}
	}
}

// occluded reports whether any detection's bounding box contains t's
// current prediction, per spec.md §4.5's occlusion-tolerance rule: a
// track that fell inside a merged blob without winning the assignment is
// still considered "seen", just not independently resolvable this frame.
// Every detection is checked regardless of whether it already won an
// assignment elsewhere this frame — the canonical occlusion case (two
// filters, one merged detection) has the detection paired with the
// *other* filter, and the losing filter must still see the very box that
// contains it.
func occluded(t *track.Track, detections []detect.Detection) bool {
	p := t.Filter().LatestPrediction()
	for _, d := range detections {
		if d.BBox.Contains(p) {
			return true
		}
	}
	return false
}

func centers(detections []detect.Detection) []geom.Point {
	out := make([]geom.Point, len(detections))
	for i, d := range detections {
		out[i] = d.Center
	}
	return out
}
