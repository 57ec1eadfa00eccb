package tracklog

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Frame is one decoded track-log line: a frame index and the tracks
// visible in it.
type Frame struct {
	Index  int
	Tracks []Point
}

// Point is one track's logged position within a Frame.
type Point struct {
	ID   uint64
	X, Y float64
}

// ReadAll decodes every line of a track log.
func ReadAll(r io.Reader) ([]Frame, error) {
	var frames []Frame
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			return nil, errors.Errorf("invalid track log line: %q", line)
		}
		result := gjson.Parse(line)
		frame := Frame{Index: int(result.Get("frame").Int())}
		for _, t := range result.Get("tracks").Array() {
			frame.Tracks = append(frame.Tracks, Point{
				ID: t.Get("id").Uint(),
				X:  t.Get("x").Float(),
				Y:  t.Get("y").Float(),
			})
		}
		frames = append(frames, frame)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read track log")
	}
	return frames, nil
}
