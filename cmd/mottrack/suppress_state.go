package main

import (
	"image"
	"sync"

	"github.com/fieldtrace/mot/detect"
	"github.com/fieldtrace/mot/suppress"
)

// suppressState shares the operator-drawn suppression rectangle between
// the HTTP handler that receives drag events and the capture loop that
// applies it each frame. It is constructed once in main and passed by
// pointer to both goroutines; nothing here is a package-level global.
type suppressState struct {
	mu     sync.Mutex
	editor suppress.Editor
}

func newSuppressState() *suppressState {
	return &suppressState{}
}

func (s *suppressState) setRect(r image.Rectangle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.BeginDrag(r.Min)
	s.editor.EndDrag(r.Max)
}

func (s *suppressState) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.Clear()
}

func (s *suppressState) snapshot() detect.Suppressor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Suppressor()
}
