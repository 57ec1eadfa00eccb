// Package suppress implements the operator-driven suppression-rectangle
// editor: a caller-owned collaborator that turns mouse drag events into a
// detect.Suppressor, in line with Design Note 9's rule that UI state like
// this must never live in a package-level global.
package suppress

import (
	"image"

	"github.com/fieldtrace/mot/detect"
)

// Editor tracks an in-progress or completed mouse drag and exposes the
// resulting rectangle as a detect.Suppressor. One Editor belongs to
// exactly one display window; nothing about it is process-global.
type Editor struct {
	dragging bool
	anchor   image.Point
	current  image.Rectangle
	active   bool
}

// BeginDrag starts a new rectangle at p, replacing any previous one.
func (e *Editor) BeginDrag(p image.Point) {
	e.dragging = true
	e.anchor = p
	e.current = image.Rectangle{Min: p, Max: p}
}

// Drag extends the in-progress rectangle to p. A no-op if no drag is
// active.
func (e *Editor) Drag(p image.Point) {
	if !e.dragging {
		return
	}
	e.current = rectFromPoints(e.anchor, p)
}

// EndDrag finishes the in-progress rectangle, arming it as the active
// suppression region.
func (e *Editor) EndDrag(p image.Point) {
	if !e.dragging {
		return
	}
	e.current = rectFromPoints(e.anchor, p)
	e.dragging = false
	e.active = !e.current.Empty()
}

// Clear disarms the suppression rectangle entirely.
func (e *Editor) Clear() {
	e.active = false
	e.dragging = false
}

// Rect returns the current rectangle, and whether it is armed.
func (e *Editor) Rect() (image.Rectangle, bool) {
	return e.current, e.active
}

// Suppressor builds the detect.Suppressor this editor's state implies.
// Called once per frame by whatever owns the detection pipeline; the
// result is handed to detect.Pipeline.SetSuppression explicitly rather
// than read from shared mutable state.
func (e *Editor) Suppressor() detect.Suppressor {
	var s detect.Suppressor
	if e.active {
		s.Set(e.current)
	}
	return s
}

func rectFromPoints(a, b image.Point) image.Rectangle {
	r := image.Rectangle{Min: a, Max: b}.Canon()
	return r
}
