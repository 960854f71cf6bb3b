// Package queue provides the ordered track containers of a playback session:
// the pending Queue and the bounded playback History. Neither type locks;
// the owning dispatcher serializes access.
package queue

import (
	"math/rand"
	"sort"

	"github.com/keshon/lavaqueue/internal/music/track"
)

// Queue is the ordered sequence of pending tracks, FIFO by default.
// Duplicate tracks are allowed.
type Queue struct {
	items []*track.Track
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

func (q *Queue) Len() int { return len(q.items) }

// PushTail appends tracks to the end of the queue.
func (q *Queue) PushTail(tracks ...*track.Track) {
	q.items = append(q.items, tracks...)
}

// PushHead prepends a track so it plays next.
func (q *Queue) PushHead(t *track.Track) {
	q.items = append([]*track.Track{t}, q.items...)
}

// Shift removes and returns the head of the queue, or nil when empty.
func (q *Queue) Shift() *track.Track {
	if len(q.items) == 0 {
		return nil
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head
}

// At returns the track at index i, or nil when out of range.
func (q *Queue) At(i int) *track.Track {
	if i < 0 || i >= len(q.items) {
		return nil
	}
	return q.items[i]
}

// Head returns the next track without removing it.
func (q *Queue) Head() *track.Track { return q.At(0) }

// Tail returns the last track.
func (q *Queue) Tail() *track.Track { return q.At(len(q.items) - 1) }

// RemoveAt removes the track at index i. Reports whether a track was removed.
func (q *Queue) RemoveAt(i int) bool {
	if i < 0 || i >= len(q.items) {
		return false
	}
	q.items = append(q.items[:i], q.items[i+1:]...)
	return true
}

// DropHead removes up to n tracks from the head of the queue.
func (q *Queue) DropHead(n int) {
	if n <= 0 {
		return
	}
	if n >= len(q.items) {
		q.items = nil
		return
	}
	q.items = q.items[n:]
}

// Move relocates the track at index from to index to. Reports whether the
// move happened.
func (q *Queue) Move(from, to int) bool {
	if from < 0 || from >= len(q.items) || to < 0 || to >= len(q.items) {
		return false
	}
	t := q.items[from]
	q.items = append(q.items[:from], q.items[from+1:]...)
	rest := append([]*track.Track{}, q.items[to:]...)
	q.items = append(append(q.items[:to], t), rest...)
	return true
}

// Replace swaps the queue contents wholesale.
func (q *Queue) Replace(items []*track.Track) {
	q.items = items
}

// Clear empties the queue.
func (q *Queue) Clear() { q.items = nil }

// Has reports whether any queued track has the given encoded id.
func (q *Queue) Has(encoded string) bool {
	for _, t := range q.items {
		if t.Encoded == encoded {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the queue contents.
func (q *Queue) Snapshot() []*track.Track {
	out := make([]*track.Track, len(q.items))
	copy(out, q.items)
	return out
}

// Shuffle randomly permutes the queue.
func (q *Queue) Shuffle() {
	rand.Shuffle(len(q.items), func(i, j int) {
		q.items[i], q.items[j] = q.items[j], q.items[i]
	})
}

// SortCanonical orders the queue by track title. Disabling shuffle restores
// a canonical order, not the pre-shuffle order.
func (q *Queue) SortCanonical() {
	sort.SliceStable(q.items, func(i, j int) bool {
		return q.items[i].Info.Title < q.items[j].Info.Title
	})
}

// History records playback order, bounded by the configured maximum.
// The oldest entries are evicted first.
type History struct {
	items []*track.Track
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

func (h *History) Len() int { return len(h.items) }

// Push appends a finished track.
func (h *History) Push(t *track.Track) {
	h.items = append(h.items, t)
}

// Pop removes and returns the most recent entry, or nil when empty.
func (h *History) Pop() *track.Track {
	if len(h.items) == 0 {
		return nil
	}
	last := h.items[len(h.items)-1]
	h.items = h.items[:len(h.items)-1]
	return last
}

// TrimHead evicts the oldest entries until at most max remain.
func (h *History) TrimHead(max int) {
	if max < 0 {
		max = 0
	}
	if len(h.items) > max {
		h.items = h.items[len(h.items)-max:]
	}
}

// Has reports whether any recorded track has the given encoded id.
func (h *History) Has(encoded string) bool {
	for _, t := range h.items {
		if t.Encoded == encoded {
			return true
		}
	}
	return false
}

// Clear empties the history.
func (h *History) Clear() { h.items = nil }

// Snapshot returns a copy of the history contents, oldest first.
func (h *History) Snapshot() []*track.Track {
	out := make([]*track.Track, len(h.items))
	copy(out, h.items)
	return out
}
