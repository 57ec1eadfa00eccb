package detect

import (
	"github.com/fieldtrace/mot/geom"
	"github.com/fieldtrace/mot/unionfind"
)

// Merge groups contours whose centroids lie within mergeFraction of their
// shared scale into single detections, using a disjoint-set over all
// pairwise gate checks (spec.md §4.2's scale-relative centroid-proximity
// merge gating). A merged group's bounding box is the union of its
// members' boxes; its centroid is recomputed as the members' area-weighted
// average rather than reused from any single member, since a merge
// changes what the "object" actually is (SPEC_FULL.md's resolution of the
// double-computed-geometry open question).
func Merge(contours []rawContour, mergeFraction float64) []Detection {
	n := len(contours)
	if n == 0 {
		return nil
	}

	uf := unionfind.New(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			gate := mergeFraction * geom.MaxSideOf(contours[i].bbox, contours[j].bbox)
			if geom.Distance(contours[i].center, contours[j].center) <= gate {
				uf.Union(i, j)
			}
		}
	}

	groups := uf.Groups()
	out := make([]Detection, 0, len(groups))
	for _, members := range groups {
		out = append(out, mergeGroup(contours, members))
	}
	return out
}

func mergeGroup(contours []rawContour, members []int) Detection {
	first := contours[members[0]]
	bbox := first.bbox
	var sumArea, sumCx, sumCy float64
	for _, idx := range members {
		c := contours[idx]
		bbox = union(bbox, c.bbox)
		sumArea += c.area
		sumCx += c.center.X * c.area
		sumCy += c.center.Y * c.area
	}
	center := first.center
	if sumArea > 0 {
		center = geom.Point{X: sumCx / sumArea, Y: sumCy / sumArea}
	}
	return Detection{Center: center, BBox: bbox}
}

// union returns the smallest rectangle containing both a and b.
func union(a, b geom.Rectangle) geom.Rectangle {
	x0 := minF(a.X, b.X)
	y0 := minF(a.Y, b.Y)
	x1 := maxF(a.X+a.Width, b.X+b.Width)
	y1 := maxF(a.Y+a.Height, b.Y+b.Height)
	return geom.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
