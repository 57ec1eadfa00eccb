package main

import (
	"context"
	"encoding/json"
	"image"
	"log/slog"
	"net/http"

	"github.com/fieldtrace/mot/config"
	"github.com/hybridgroup/mjpeg"
)

// suppressRequest is the wire shape for operator-drawn rectangles posted
// from whatever frontend draws the suppression box over the MJPEG stream.
type suppressRequest struct {
	MinX, MinY, MaxX, MaxY int
	Clear                  bool
}

// runDisplay serves the MJPEG stream and the suppression-rectangle
// control endpoint, following the retrieved detection service's pattern
// of running the web server as its own errgroup goroutine.
func runDisplay(ctx context.Context, log *slog.Logger, cfg config.Stream, supp *suppressState, stream *mjpeg.Stream) error {
	if cfg.DisplayAddr == "" {
		<-ctx.Done()
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/stream", stream)
	mux.HandleFunc("/suppress", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req suppressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Clear {
			supp.clear()
		} else {
			supp.setRect(image.Rect(req.MinX, req.MinY, req.MaxX, req.MaxY))
		}
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{Addr: cfg.DisplayAddr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		log.Info("display server listening", "addr", cfg.DisplayAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
