package detect

import (
	"gocv.io/x/gocv"
)

// Pipeline runs the full detection subsystem over a sequence of frames:
// background subtraction, mask cleanup, suppression, contour extraction,
// size filtering, and merging.
type Pipeline struct {
	cfg        Config
	background *Background
	suppressor Suppressor
}

// NewPipeline constructs a detection pipeline with its own background
// model.
func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		background: NewBackground(cfg),
	}
}

// Close releases the background model's cgo resources.
func (p *Pipeline) Close() error {
	return p.background.Close()
}

// SetSuppression replaces the active suppression rectangle. Passing a
// caller-owned rectangle here (rather than reaching for global state) is
// the only contract this pipeline has with whatever UI collaborator lets
// an operator draw one.
func (p *Pipeline) SetSuppression(s Suppressor) {
	p.suppressor = s
}

// Detect runs one frame through the full pipeline and returns the
// surviving, merged detections.
func (p *Pipeline) Detect(frame gocv.Mat) ([]Detection, error) {
	raw := p.background.Apply(frame)
	defer raw.Close()

	mask := PostProcess(p.cfg, raw)
	defer mask.Close()

	p.suppressor.Apply(&mask)

	contours, err := ExtractContours(mask)
	if err != nil {
		return nil, err
	}

	filtered := FilterBySize(contours, p.cfg.SizeFraction)
	return Merge(filtered, p.cfg.MergeFraction), nil
}
