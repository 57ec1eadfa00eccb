package assoc

import (
	"testing"

	"github.com/fieldtrace/mot/detect"
	"github.com/fieldtrace/mot/geom"
	"github.com/fieldtrace/mot/track"
)

func TestUpdateBirthsTrackForUnmatchedDetection(t *testing.T) {
	a := New(DefaultConfig())
	dets := []detect.Detection{{Center: geom.Point{X: 10, Y: 10}, BBox: geom.Rectangle{X: 5, Y: 5, Width: 10, Height: 10}}}
	if err := a.Update(640, 480, dets); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(a.tracks) != 1 {
		t.Fatalf("expected one track born from the unmatched detection, got %d", len(a.tracks))
	}
	if len(a.Tracks()) != 0 {
		t.Errorf("freshly born track should not be visible before the warm-up lifetime, got %d visible", len(a.Tracks()))
	}
}

func TestUpdateVisibleAfterWarmup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LifetimeThreshold = 2
	a := New(cfg)
	pos := geom.Point{X: 10, Y: 10}
	box := geom.Rectangle{X: 5, Y: 5, Width: 10, Height: 10}
	for i := 0; i <= cfg.LifetimeThreshold; i++ {
		dets := []detect.Detection{{Center: pos, BBox: box}}
		if err := a.Update(640, 480, dets); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if len(a.Tracks()) != 1 {
		t.Fatalf("expected the surviving track to become visible after warm-up, got %d", len(a.Tracks()))
	}
}

func TestUpdateEvictsAfterMissedFrames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MissedFramesThreshold = 2
	a := New(cfg)
	pos := geom.Point{X: 10, Y: 10}
	box := geom.Rectangle{X: 5, Y: 5, Width: 10, Height: 10}
	if err := a.Update(640, 480, []detect.Detection{{Center: pos, BBox: box}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	for i := 0; i <= cfg.MissedFramesThreshold; i++ {
		if err := a.Update(640, 480, nil); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if len(a.tracks) != 0 {
		t.Errorf("expected track to be evicted after missing its threshold of frames, got %d remaining", len(a.tracks))
	}
}

func TestMissFrameAccruesMissAndEvicts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MissedFramesThreshold = 1
	a := New(cfg)
	pos := geom.Point{X: 10, Y: 10}
	box := geom.Rectangle{X: 5, Y: 5, Width: 10, Height: 10}
	if err := a.Update(640, 480, []detect.Detection{{Center: pos, BBox: box}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	var id track.ID
	for i := range a.tracks {
		id = i
	}

	// spec.md §7: a solver failure is treated exactly like "no assignment
	// for this frame" — every filter self-corrects and accrues a miss,
	// with no detection ever reaching an occlusion check or a birth.
	a.missFrame()
	if got := a.tracks[id].MissedFrames(); got != 1 {
		t.Fatalf("expected one accrued miss after a solver-failure frame, got %d", got)
	}

	a.missFrame()
	if _, alive := a.tracks[id]; alive {
		t.Errorf("expected the track to be evicted once missFrame pushed it past the threshold")
	}
}

// TestUpdateOcclusionHandlesMergedDetection covers spec.md §8 scenario 3:
// two tracks are close enough that their contours merge into a single
// detection. The solver can only award that one detection to one of the
// two tracks; the loser must still be occlusion-tolerated because the
// merged box contains its prediction too, rather than accruing a miss.
func TestUpdateOcclusionHandlesMergedDetection(t *testing.T) {
	cfg := DefaultConfig()
	a := New(cfg)
	left := geom.Point{X: 100, Y: 100}
	right := geom.Point{X: 110, Y: 100}
	box := func(c geom.Point) geom.Rectangle {
		return geom.Rectangle{X: c.X - 5, Y: c.Y - 5, Width: 10, Height: 10}
	}
	if err := a.Update(640, 480, []detect.Detection{
		{Center: left, BBox: box(left)},
		{Center: right, BBox: box(right)},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(a.tracks) != 2 {
		t.Fatalf("expected two tracks born, got %d", len(a.tracks))
	}

	merged := geom.Point{X: 105, Y: 100}
	mergedBox := geom.Rectangle{X: 95, Y: 90, Width: 20, Height: 20}
	if err := a.Update(640, 480, []detect.Detection{{Center: merged, BBox: mergedBox}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(a.tracks) != 2 {
		t.Fatalf("expected both tracks to survive the merge via occlusion tolerance, got %d", len(a.tracks))
	}
	for id, tr := range a.tracks {
		if tr.MissedFrames() != 0 {
			t.Errorf("track %v should be occlusion-tolerated, not missed, got missed_frames=%d", id, tr.MissedFrames())
		}
	}
}

func TestUpdateOcclusionTolerance(t *testing.T) {
	cfg := DefaultConfig()
	a := New(cfg)
	pos := geom.Point{X: 10, Y: 10}
	box := geom.Rectangle{X: 0, Y: 0, Width: 20, Height: 20}
	if err := a.Update(640, 480, []detect.Detection{{Center: pos, BBox: box}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	for id := range a.tracks {
		before := a.tracks[id].MissedFrames()
		if err := a.Update(640, 480, []detect.Detection{{Center: geom.Point{X: 500, Y: 500}, BBox: box}}); err != nil {
			t.Fatalf("update: %v", err)
		}
		if a.tracks[id].MissedFrames() != before {
			t.Errorf("expected occlusion tolerance to keep the miss counter from growing when the prediction remains inside a detection's box")
		}
	}
}
