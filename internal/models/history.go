package models

import (
	"image"
	"sync"

	"github.com/anthonynsimon/bild/clone"
)

// HistoryStack is the undo history: a LIFO of earlier current images.
// A positive maxDepth discards the oldest entry once exceeded.
type HistoryStack struct {
	mu       sync.Mutex
	entries  []*image.RGBA
	maxDepth int
}

func NewHistoryStack(maxDepth int) *HistoryStack {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &HistoryStack{maxDepth: maxDepth}
}

// Push stores snapshot on top. The stack keeps the pointer; callers pass a fresh copy.
func (h *HistoryStack) Push(snapshot *image.RGBA) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, snapshot)
	if h.maxDepth > 0 && len(h.entries) > h.maxDepth {
		h.entries[0] = nil
		h.entries = h.entries[1:]
	}
}

// PopOrFallback removes and returns the top entry, or fallback when empty.
func (h *HistoryStack) PopOrFallback(fallback *image.RGBA) (*image.RGBA, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.entries)
	if n == 0 {
		return fallback, false
	}
	top := h.entries[n-1]
	h.entries[n-1] = nil
	h.entries = h.entries[:n-1]
	return top, true
}

// Peek returns a copy of the top entry without removing it.
func (h *HistoryStack) Peek() (*image.RGBA, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return nil, false
	}
	return clone.AsRGBA(h.entries[len(h.entries)-1]), true
}

// Bytes sums the pixel buffers of every entry.
func (h *HistoryStack) Bytes() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	var total int64
	for _, e := range h.entries {
		if e != nil {
			total += int64(len(e.Pix))
		}
	}
	return total
}

func (h *HistoryStack) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *HistoryStack) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

func (h *HistoryStack) MaxDepth() int {
	return h.maxDepth
}
