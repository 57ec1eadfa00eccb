// Package tracklog persists per-frame track snapshots as newline-delimited
// JSON, following the retrieved SORT-style tracker's use of
// tidwall/gjson and tidwall/sjson for schema-light JSON line processing
// rather than a fixed struct marshaled with encoding/json.
package tracklog

import (
	"bufio"
	"io"
	"strconv"

	"github.com/fieldtrace/mot/track"
	"github.com/pkg/errors"
	"github.com/tidwall/sjson"
)

// Writer appends one JSON line per frame, each holding that frame's
// visible tracks.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps an io.Writer (typically an *os.File opened for append).
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteFrame appends a line describing frameIndex's visible tracks.
func (wr *Writer) WriteFrame(frameIndex int, tracks []*track.Track) error {
	line := "{}"
	var err error
	line, err = sjson.Set(line, "frame", frameIndex)
	if err != nil {
		return errors.Wrap(err, "write frame index")
	}
	for i, t := range tracks {
		prefix := "tracks." + strconv.Itoa(i)
		pos := t.Filter().LatestPrediction()
		if line, err = sjson.Set(line, prefix+".id", uint64(t.ID())); err != nil {
			return errors.Wrap(err, "write track id")
		}
		if line, err = sjson.Set(line, prefix+".x", pos.X); err != nil {
			return errors.Wrap(err, "write track x")
		}
		if line, err = sjson.Set(line, prefix+".y", pos.Y); err != nil {
			return errors.Wrap(err, "write track y")
		}
	}
	if _, err := wr.w.WriteString(line); err != nil {
		return errors.Wrap(err, "write track log line")
	}
	if err := wr.w.WriteByte('\n'); err != nil {
		return errors.Wrap(err, "write track log newline")
	}
	return nil
}

// Flush flushes any buffered output to the underlying writer.
func (wr *Writer) Flush() error {
	return wr.w.Flush()
}
