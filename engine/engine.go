// Package engine is the top-level orchestration layer: it owns one
// detect.Pipeline and one assoc.Associator, drives them frame by frame,
// and logs each call with a correlation id, following the retrieved
// detection service's main loop pattern (slog+tint, errgroup-managed
// goroutines) but scoped down to a single per-frame method other
// callers (the demo binary, tests) drive directly.
package engine

import (
	"context"
	"log/slog"

	"github.com/fieldtrace/mot/assoc"
	"github.com/fieldtrace/mot/detect"
	"github.com/fieldtrace/mot/track"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Named error kinds of the engine. Process wraps detection and association
// failures in the first two and returns ErrEmptyFrame for a frame with no
// pixel data; a cancelled ctx comes back as ctx.Err() unwrapped, and
// Process never returns ErrDegenerateContour (zero-area contours are
// dropped during extraction).
var (
	// ErrDetectionFailure wraps a failure inside the detection subsystem
	// (background model, mask processing, contour extraction).
	ErrDetectionFailure = errors.New("detection failure")
	// ErrAssociationFailure wraps a failure inside the association
	// subsystem. Solver failures never reach here: assoc.Update absorbs
	// them internally per spec.md §7 and treats the frame as a plain miss.
	ErrAssociationFailure = errors.New("association failure")
	// ErrDegenerateContour re-exports detect's degenerate-geometry kind.
	ErrDegenerateContour = detect.ErrDegenerateContour
	// ErrEmptyFrame marks a frame with no pixel data (a dropped or
	// not-yet-decoded frame from the capture source). Per spec.md §7 it is
	// treated as the frame being absent: the engine skips detection and
	// association entirely and waits for the next frame, rather than
	// treating it as a detection failure.
	ErrEmptyFrame = errors.New("empty frame")
)

// Config bundles the two subsystems' configuration.
type Config struct {
	Detection   detect.Config
	Association assoc.Config
}

// Engine drives one video source's detect-then-associate loop.
type Engine struct {
	log        *slog.Logger
	pipeline   *detect.Pipeline
	associator *assoc.Associator
}

// New constructs an engine with a fresh pipeline and associator.
func New(cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		log:        log,
		pipeline:   detect.NewPipeline(cfg.Detection),
		associator: assoc.New(cfg.Association),
	}
}

// Close releases the detection pipeline's cgo-backed resources.
func (e *Engine) Close() error {
	return e.pipeline.Close()
}

// SetSuppression forwards a suppression rectangle update to the
// detection pipeline.
func (e *Engine) SetSuppression(s detect.Suppressor) {
	e.pipeline.SetSuppression(s)
}

// Process runs one frame through detection and association, returning the
// visible tracks after this frame's update. ctx is accepted for
// cancellation even though the current detection/association code is
// synchronous CPU work, matching spec.md's requirement that engine calls
// be cancellable in a streaming pipeline.
func (e *Engine) Process(ctx context.Context, frame gocv.Mat) ([]*track.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	callID := uuid.New()
	log := e.log.With("call_id", callID.String())

	if frame.Empty() {
		log.Debug("empty frame, treating as absent")
		return e.associator.Tracks(), ErrEmptyFrame
	}

	detections, err := e.pipeline.Detect(frame)
	if err != nil {
		log.Error("detection failed", "error", err)
		return nil, errors.Wrap(ErrDetectionFailure, err.Error())
	}
	log.Debug("detected", "count", len(detections))

	if err := e.associator.Update(frame.Cols(), frame.Rows(), detections); err != nil {
		log.Error("association failed", "error", err)
		return nil, errors.Wrap(ErrAssociationFailure, err.Error())
	}

	visible := e.associator.Tracks()
	log.Debug("updated", "visible_tracks", len(visible))
	return visible, nil
}
