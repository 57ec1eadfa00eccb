// Package track holds the persistent object identity the associator
// manages: a monotonic ID, a stable display color, its motion filter, and
// lifecycle counters, per spec.md §3.
package track

import (
	"image/color"
	"sync/atomic"

	"github.com/fieldtrace/mot/filter"
	"github.com/fieldtrace/mot/geom"
	"github.com/pkg/errors"
)

// ErrFilterUpdateFailure marks a motion filter update that failed (e.g. a
// singular covariance). Per spec.md §7 the track owning it is destroyed
// immediately, as if its missed_frames had already exceeded threshold.
var ErrFilterUpdateFailure = errors.New("filter update failure")

// ID is a track's persistent, process-unique identity. IDs are never
// reused even after a track dies, per spec.md §3's invariant.
type ID uint64

var nextID atomic.Uint64

// NextID allocates a new, strictly increasing ID. It is the only
// process-global mutable state in this package, mirroring spec.md §4.5's
// "a process-global monotonically increasing counter assigns IDs at birth" —
// this is data the whole process must agree on, unlike the UI state
// Design Note 9 forbids as a global.
func NextID() ID {
	return ID(nextID.Add(1))
}

const defaultMaxTrajectory = 150

// Track is one tracked object's persistent state.
type Track struct {
	id         ID
	color      color.RGBA
	filter     *filter.Filter
	trajectory []geom.Point
	maxTraj    int
}

// New creates a track for a freshly-observed centroid, allocating the next
// ID and seeding its motion filter.
func New(cfg filter.Config, initial geom.Point) *Track {
	id := NextID()
	return &Track{
		id:         id,
		color:      colorForID(id),
		filter:     filter.New(cfg, initial),
		trajectory: []geom.Point{initial},
		maxTraj:    defaultMaxTrajectory,
	}
}

// ID returns the track's persistent identifier.
func (t *Track) ID() ID { return t.id }

// Color returns the track's stable display color.
func (t *Track) Color() color.RGBA { return t.color }

// Filter returns the track's motion filter. The associator drives
// Predict/Correct/CorrectNoObs directly through it.
func (t *Track) Filter() *filter.Filter { return t.filter }

// Lifetime is the number of frames since the track was created.
func (t *Track) Lifetime() int { return t.filter.Lifetime() }

// MissedFrames is the number of consecutive frames since the track last
// received an update (direct assignment or occlusion tolerance).
func (t *Track) MissedFrames() int { return t.filter.MissedFrames() }

// Visible reports whether the track has survived its warm-up period and
// should be emitted to consumers (spec.md §4.5's birth warm-up rule).
func (t *Track) Visible(lifetimeThreshold int) bool {
	return t.Lifetime() > lifetimeThreshold
}

// Dead reports whether the track has missed detections for longer than
// the eviction threshold (spec.md §4.5's death rule).
func (t *Track) Dead(missedFramesThreshold int) bool {
	return t.MissedFrames() > missedFramesThreshold
}

// recordPosition appends the filter's current prediction to the trajectory
// ring, capping it at maxTraj entries. Display-only; never consulted by
// the associator.
func (t *Track) recordPosition() {
	t.trajectory = append(t.trajectory, t.filter.LatestPrediction())
	if len(t.trajectory) > t.maxTraj {
		t.trajectory = t.trajectory[1:]
	}
}

// Trajectory returns the track's recent smoothed positions, oldest first.
// Callers must not mutate the returned slice.
func (t *Track) Trajectory() []geom.Point { return t.trajectory }

// SetMaxTrajectory sets the cap on retained trajectory points.
func (t *Track) SetMaxTrajectory(n int) { t.maxTraj = n }

// Predict advances the motion filter one step and returns the predicted
// position. It does not touch the trajectory; the Correct* methods record
// the smoothed position after the update.
func (t *Track) Predict() geom.Point {
	p := t.filter.Predict()
	return p
}

// Correct applies a direct detection update, resets the miss counter, and
// records the smoothed position.
func (t *Track) Correct(obs geom.Point) error {
	if err := t.filter.Correct(obs); err != nil {
		return errors.Wrap(ErrFilterUpdateFailure, err.Error())
	}
	t.filter.GotUpdate()
	t.recordPosition()
	return nil
}

// CorrectViaOcclusion applies the occlusion-tolerance update: the filter
// self-corrects (no real observation), but the track is still considered
// updated because some detection's bounding box contains its prediction.
func (t *Track) CorrectViaOcclusion() error {
	if err := t.filter.CorrectNoObs(); err != nil {
		return errors.Wrap(ErrFilterUpdateFailure, err.Error())
	}
	t.filter.GotUpdate()
	t.recordPosition()
	return nil
}

// CorrectNoObs applies the plain self-correction used when a track is
// neither assigned nor occlusion-tolerated this frame, and increments its
// miss counter.
func (t *Track) CorrectNoObs() error {
	if err := t.filter.CorrectNoObs(); err != nil {
		return errors.Wrap(ErrFilterUpdateFailure, err.Error())
	}
	t.filter.NoUpdateThisFrame()
	t.recordPosition()
	return nil
}
