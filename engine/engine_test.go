package engine

import (
	"context"
	"testing"

	"github.com/fieldtrace/mot/assoc"
	"github.com/fieldtrace/mot/detect"
	"gocv.io/x/gocv"
)

func TestProcessBlankFrameYieldsNoTracks(t *testing.T) {
	e := New(Config{Detection: detect.DefaultConfig(), Association: assoc.DefaultConfig()}, nil)
	defer e.Close()

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()

	tracks, err := e.Process(context.Background(), frame)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(tracks) != 0 {
		t.Errorf("expected no tracks from a blank frame, got %d", len(tracks))
	}
}

func TestProcessRespectsCancellation(t *testing.T) {
	e := New(Config{Detection: detect.DefaultConfig(), Association: assoc.DefaultConfig()}, nil)
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()

	if _, err := e.Process(ctx, frame); err == nil {
		t.Error("expected cancellation to surface an error")
	}
}
