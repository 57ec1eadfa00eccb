package suppress

import (
	"image"
	"testing"
)

func TestDragProducesCanonicalRect(t *testing.T) {
	var e Editor
	e.BeginDrag(image.Pt(50, 50))
	e.Drag(image.Pt(10, 10))
	e.EndDrag(image.Pt(10, 10))

	rect, active := e.Rect()
	if !active {
		t.Fatal("expected an active suppression rectangle after a completed drag")
	}
	want := image.Rect(10, 10, 50, 50)
	if rect != want {
		t.Errorf("expected canonical rect %v, got %v", want, rect)
	}
}

func TestEmptyDragDoesNotArm(t *testing.T) {
	var e Editor
	e.BeginDrag(image.Pt(5, 5))
	e.EndDrag(image.Pt(5, 5))

	if _, active := e.Rect(); active {
		t.Error("expected a zero-area drag to leave suppression disarmed")
	}
}

func TestClearDisarms(t *testing.T) {
	var e Editor
	e.BeginDrag(image.Pt(0, 0))
	e.EndDrag(image.Pt(20, 20))
	e.Clear()

	if _, active := e.Rect(); active {
		t.Error("expected Clear to disarm the suppression rectangle")
	}
}
