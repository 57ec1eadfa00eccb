package main

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"os"

	"github.com/fieldtrace/mot/config"
	"github.com/fieldtrace/mot/engine"
	"github.com/fieldtrace/mot/track"
	"github.com/fieldtrace/mot/tracklog"
	"github.com/hybridgroup/mjpeg"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// runCapture owns the video source and drives the engine one frame at a
// time, following the retrieved detection service's processor goroutine:
// open the source, loop until ctx is done, push annotated frames to the
// display and, if configured, to a track log and MQTT sink.
func runCapture(ctx context.Context, log *slog.Logger, cfg config.File, eng *engine.Engine, supp *suppressState, stream *mjpeg.Stream) error {
	videoCapture, err := gocv.OpenVideoCapture(cfg.Stream.Source)
	if err != nil {
		return errors.Wrap(err, "open video source")
	}
	defer videoCapture.Close()

	var logWriter *tracklog.Writer
	if cfg.Stream.TrackLogPath != "" {
		f, err := os.OpenFile(cfg.Stream.TrackLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrap(err, "open track log")
		}
		defer f.Close()
		logWriter = tracklog.NewWriter(f)
		defer logWriter.Flush()
	}

	var sink *mqttSink
	if cfg.Stream.MQTTBroker != "" {
		sink, err = newMQTTSink(ctx, cfg.Stream.MQTTBroker, cfg.Stream.MQTTTopic)
		if err != nil {
			log.Warn("mqtt sink disabled", "error", err)
			sink = nil
		} else {
			defer sink.Close()
		}
	}

	frame := gocv.NewMat()
	defer frame.Close()

	frameIndex := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if ok := videoCapture.Read(&frame); !ok {
			return errors.New("video source closed")
		}

		eng.SetSuppression(supp.snapshot())

		tracks, err := eng.Process(ctx, frame)
		if err != nil {
			if !errors.Is(err, engine.ErrEmptyFrame) {
				log.Error("engine process failed", "frame", frameIndex, "error", err)
			}
			frameIndex++
			continue
		}

		if logWriter != nil {
			if err := logWriter.WriteFrame(frameIndex, tracks); err != nil {
				log.Error("track log write failed", "error", err)
			}
		}
		if sink != nil {
			if err := sink.Publish(frameIndex, tracks); err != nil {
				log.Error("mqtt publish failed", "error", err)
			}
		}

		annotate(&frame, tracks)
		if stream != nil {
			if buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame); err == nil {
				stream.UpdateJPEG(buf.GetBytes())
				buf.Close()
			}
		}

		frameIndex++
	}
}

// annotate draws a circle at each visible track's current position and a
// polyline through its trajectory, in its stable display color, in place
// on frame. The track id is not drawn.
func annotate(frame *gocv.Mat, tracks []*track.Track) {
	for _, t := range tracks {
		c := t.Color()
		pos := t.Filter().LatestPrediction()
		center := image.Pt(int(pos.X), int(pos.Y))
		col := color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
		gocv.Circle(frame, center, 5, col, 2)

		traj := t.Trajectory()
		for i := 1; i < len(traj); i++ {
			p1 := image.Pt(int(traj[i-1].X), int(traj[i-1].Y))
			p2 := image.Pt(int(traj[i].X), int(traj[i].Y))
			gocv.Line(frame, p1, p2, col, 1)
		}
	}
}
