// Package filter implements the per-track motion estimator: a discrete-time
// constant-velocity Kalman filter over a 2D centroid, per spec.md §4.3. It
// wraps github.com/LdDl/kalman-filter's Kalman2D, which already builds the
// white-noise-acceleration process-noise matrix from a scalar acceleration
// magnitude exactly as the formula in §4.3 requires.
package filter

import (
	kalmanfilter "github.com/LdDl/kalman-filter"
	"github.com/fieldtrace/mot/geom"
	"github.com/pkg/errors"
)

// Config holds the parameters shared by every filter instance in a pool.
// DT is the per-frame time step (spec key "dt", default 1.0).
// AccelNoiseMagnitude is sigma_a, the scalar acceleration magnitude feeding
// the process-noise covariance (spec key "accel_noise_magnitude").
// MeasurementNoiseX/Y are the isotropic measurement-noise standard
// deviations (spec default 0.1 px).
type Config struct {
	DT                  float64 `toml:"dt"`
	AccelNoiseMagnitude float64 `toml:"accel_noise_magnitude"`
	MeasurementNoiseX   float64 `toml:"measurement_noise_x"`
	MeasurementNoiseY   float64 `toml:"measurement_noise_y"`
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		DT:                  1.0,
		AccelNoiseMagnitude: 2.0,
		MeasurementNoiseX:   0.1,
		MeasurementNoiseY:   0.1,
	}
}

// Filter is one track's motion estimator. It is never shared between
// tracks: each Track in the association pool owns exactly one Filter, per
// spec.md §3's invariant that filters without a track do not exist.
type Filter struct {
	kf             *kalmanfilter.Kalman2D
	lastPrediction geom.Point
	lifetime       int
	missedFrames   int
}

// New seeds a filter at initial with zero velocity, as spec.md §4.3's
// `new(initial_centroid)` requires.
func New(cfg Config, initial geom.Point) *Filter {
	// Unit process-noise drive terms; the filter's own acceleration
	// magnitude scales Q, matching the teacher blob's convention.
	ux, uy := 1.0, 1.0
	kf := kalmanfilter.NewKalman2D(
		cfg.DT, ux, uy,
		cfg.AccelNoiseMagnitude,
		cfg.MeasurementNoiseX, cfg.MeasurementNoiseY,
		kalmanfilter.WithState2D(initial.X, initial.Y),
	)
	return &Filter{
		kf:             kf,
		lastPrediction: initial,
		lifetime:       0,
		missedFrames:   0,
	}
}

// Predict advances the state one step and returns the predicted position.
// It is safe to call at most once per frame; callers that need the
// prediction again within the same frame should use LatestPrediction.
func (f *Filter) Predict() geom.Point {
	f.kf.Predict()
	x, y := f.kf.GetState()
	f.lastPrediction = geom.Point{X: x, Y: y}
	f.lifetime++
	return f.lastPrediction
}

// LatestPrediction returns the filter's most recent position estimate
// without mutating any state: the result of the last Predict, or of the
// last Correct/CorrectNoObs if one ran after it (the seed position before
// either). The associator re-reads it for occlusion checks, which run
// before an unmatched track is corrected.
func (f *Filter) LatestPrediction() geom.Point {
	return f.lastPrediction
}

// Correct applies the measurement update with obs as the observed centroid.
func (f *Filter) Correct(obs geom.Point) error {
	if err := f.kf.Update(obs.X, obs.Y); err != nil {
		return errors.Wrap(err, "correct motion filter")
	}
	x, y := f.kf.GetState()
	f.lastPrediction = geom.Point{X: x, Y: y}
	return nil
}

// CorrectNoObs applies a self-correction using the last prediction as a
// synthetic observation, keeping the filter's covariance from exploding
// while no detection is available (spec.md §4.3).
func (f *Filter) CorrectNoObs() error {
	return f.Correct(f.lastPrediction)
}

// GotUpdate resets the miss counter. Called on direct assignment or on the
// occlusion-tolerance path.
func (f *Filter) GotUpdate() {
	f.missedFrames = 0
}

// NoUpdateThisFrame increments the miss counter.
func (f *Filter) NoUpdateThisFrame() {
	f.missedFrames++
}

// Lifetime returns the number of frames since creation.
func (f *Filter) Lifetime() int {
	return f.lifetime
}

// MissedFrames returns the number of consecutive frames without an update.
func (f *Filter) MissedFrames() int {
	return f.missedFrames
}
