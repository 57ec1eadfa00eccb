package detect

import (
	"github.com/fieldtrace/mot/geom"
	"gocv.io/x/gocv"
)

// approxEpsilonFraction is the Douglas-Peucker approximation tolerance, as
// a fraction of each contour's own perimeter, matching the retrieved
// detection service's use of gocv.ApproxPolyDP to simplify raw contours
// before measuring them.
const approxEpsilonFraction = 0.02

// rawContour is a candidate contour's geometry before the size filter and
// merge pass run.
type rawContour struct {
	center geom.Point
	bbox   geom.Rectangle
	area   float64
}

// ExtractContours finds external contours in a binary mask, approximates
// each with Douglas-Peucker simplification, and computes its centroid
// (via image moments) and bounding box, per spec.md §4.2.
func ExtractContours(mask gocv.Mat) ([]rawContour, error) {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	out := make([]rawContour, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		raw := contours.At(i)
		perimeter := gocv.ArcLength(raw, true)
		approx := gocv.ApproxPolyDP(raw, approxEpsilonFraction*perimeter, true)

		area := gocv.ContourArea(approx)
		if area <= 0 {
			approx.Close()
			continue
		}

		moments := gocv.Moments(approx, false)
		m00 := moments["m00"]
		if m00 == 0 {
			approx.Close()
			continue
		}
		center := geom.Point{X: moments["m10"] / m00, Y: moments["m01"] / m00}

		r := gocv.BoundingRect(approx)
		bbox := geom.Rectangle{
			X:      float64(r.Min.X),
			Y:      float64(r.Min.Y),
			Width:  float64(r.Dx()),
			Height: float64(r.Dy()),
		}
		approx.Close()

		out = append(out, rawContour{center: center, bbox: bbox, area: area})
	}
	return out, nil
}

// FilterBySize drops every contour whose area does not exceed
// sizeFraction of the largest surviving contour's area, per spec.md
// §4.2's relative size filter: `area(c) > size_fraction * A_max`. A_max
// is computed from the contour set itself, not from the frame's area, so
// the largest contour in a frame always survives regardless of how small
// it is relative to the frame — matching the retrieved tracker's own
// filterOutBadContours, which takes its threshold from
// std::max_element(areas) rather than the frame dimensions.
func FilterBySize(contours []rawContour, sizeFraction float64) []rawContour {
	var maxArea float64
	for _, c := range contours {
		if c.area > maxArea {
			maxArea = c.area
		}
	}
	threshold := sizeFraction * maxArea
	out := contours[:0:0]
	for _, c := range contours {
		if c.area > threshold {
			out = append(out, c)
		}
	}
	return out
}
