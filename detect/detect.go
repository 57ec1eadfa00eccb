// Package detect implements the detection subsystem of spec.md §4.1-4.2:
// adaptive background subtraction, mask denoising, external contour
// extraction, the relative-area size filter, and the centroid-proximity
// merge pass. It is built on gocv.io/x/gocv (Go bindings for OpenCV),
// following the retrieved vision-pipeline service's use of gocv for image
// operations and the retrieved AusOcean motion-filter's MOG2 + contour
// pattern.
package detect

import (
	"image"

	"github.com/fieldtrace/mot/geom"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Config holds the detection subsystem's tunables, one field per relevant
// row of spec.md §6's configuration table.
type Config struct {
	History          int     `toml:"history"`            // background adaptation window in frames
	VarThreshold     float64 `toml:"var_threshold"`      // MOG2's per-pixel Mahalanobis-distance cutoff
	DetectShadows    bool    `toml:"detect_shadows"`
	ShadowThreshold  float64 `toml:"shadow_threshold"`
	MedianFilterSize int     `toml:"median_filter_size"` // must be odd
	DilateIterations int     `toml:"dilate_iterations"`  // spec.md §4.1 default 4
	SizeFraction     float64 `toml:"size_fraction"`
	MergeFraction    float64 `toml:"merge_fraction"`
}

// DefaultConfig returns spec.md §6's documented defaults plus the
// implementation defaults SPEC_FULL.md §10 fixes.
func DefaultConfig() Config {
	return Config{
		History:          1000,
		VarThreshold:     16,
		DetectShadows:    true,
		ShadowThreshold:  0.5,
		MedianFilterSize: 5,
		DilateIterations: 4,
		SizeFraction:     0.02,
		MergeFraction:    0.5,
	}
}

// shadowGray is OpenCV's default gray value for shadow-labeled pixels; the
// spec's hard threshold of 130 sits strictly above it so shadows fold back
// into background.
const shadowGray = 127
const foregroundThreshold = 130

// Background wraps an adaptive mixture-of-Gaussians background model.
type Background struct {
	bs  gocv.BackgroundSubtractorMOG2
	knl gocv.Mat
	cfg Config
}

// NewBackground constructs the background model described in spec.md §4.1.
func NewBackground(cfg Config) *Background {
	bs := gocv.NewBackgroundSubtractorMOG2WithParams(cfg.History, cfg.VarThreshold, cfg.DetectShadows)
	return &Background{
		bs:  bs,
		knl: gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3)),
		cfg: cfg,
	}
}

// Close releases the cgo-backed resources. gocv types do not participate
// in Go's garbage collector.
func (b *Background) Close() error {
	if err := b.bs.Close(); err != nil {
		return err
	}
	return b.knl.Close()
}

// Apply runs one frame through the background model, producing a raw
// foreground mask (0/255, with an intermediate gray value at shadow
// pixels if DetectShadows is set).
func (b *Background) Apply(frame gocv.Mat) gocv.Mat {
	mask := gocv.NewMat()
	b.bs.Apply(frame, &mask)
	return mask
}

// PostProcess turns a raw foreground mask into the clean binary mask
// contour extraction expects: hard threshold (dropping shadow gray),
// median denoise, then repeated dilation to fuse adjacent fragments
// (spec.md §4.1's "median then dilate, not the reverse").
func PostProcess(cfg Config, raw gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.Threshold(raw, &out, foregroundThreshold, 255, gocv.ThresholdBinary)

	blurred := gocv.NewMat()
	gocv.MedianBlur(out, &blurred, int32(cfg.MedianFilterSize))
	out.Close()
	out = blurred

	knl := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer knl.Close()
	for i := 0; i < cfg.DilateIterations; i++ {
		dilated := gocv.NewMat()
		gocv.Dilate(out, &dilated, knl)
		out.Close()
		out = dilated
	}
	return out
}

// Suppressor holds the optional suppression rectangle: everything inside
// it is forced to background before contour extraction. Setting a new
// rectangle replaces the previous one, per spec.md §4.1 and §6. It is
// plain state the caller owns and passes in explicitly (Design Note 9
// forbids this living as a package global).
type Suppressor struct {
	rect  image.Rectangle
	armed bool
}

// Set replaces the suppression rectangle.
func (s *Suppressor) Set(rect image.Rectangle) {
	s.rect = rect
	s.armed = true
}

// Clear removes any active suppression rectangle.
func (s *Suppressor) Clear() {
	s.armed = false
}

// Apply zeroes out the suppressed region of mask in place, if one is set.
func (s *Suppressor) Apply(mask *gocv.Mat) {
	if !s.armed {
		return
	}
	bounds := image.Rect(0, 0, mask.Cols(), mask.Rows())
	rect := s.rect.Intersect(bounds)
	if rect.Empty() {
		return
	}
	region := mask.Region(rect)
	defer region.Close()
	region.SetTo(gocv.NewScalar(0, 0, 0, 0))
}

// ErrDegenerateContour marks a contour with zero area, which would make
// the centroid formula divide by zero (spec.md §7).
var ErrDegenerateContour = errors.New("degenerate contour: zero area")

// Detection is a surviving contour's derived summary: its centroid and
// axis-aligned bounding box, per spec.md §3.
type Detection struct {
	Center geom.Point
	BBox   geom.Rectangle
}
