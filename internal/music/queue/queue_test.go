package queue

import (
	"testing"

	"github.com/keshon/lavaqueue/internal/music/track"
)

func tr(title string) *track.Track {
	return &track.Track{
		Encoded: "enc:" + title,
		Info:    track.Info{Title: title},
	}
}

func titles(items []*track.Track) []string {
	out := make([]string, len(items))
	for i, t := range items {
		out[i] = t.Info.Title
	}
	return out
}

func TestQueueOrder(t *testing.T) {
	q := New()
	q.PushTail(tr("a"), tr("b"))
	q.PushHead(tr("c"))

	if q.Len() != 3 {
		t.Fatalf("expected len 3, got %d", q.Len())
	}
	if got := q.Head().Info.Title; got != "c" {
		t.Errorf("expected head c, got %s", got)
	}
	if got := q.Tail().Info.Title; got != "b" {
		t.Errorf("expected tail b, got %s", got)
	}

	first := q.Shift()
	if first == nil || first.Info.Title != "c" {
		t.Fatalf("expected shift to return c, got %v", first)
	}
	if q.Len() != 2 {
		t.Errorf("expected len 2 after shift, got %d", q.Len())
	}
}

func TestQueueShiftEmpty(t *testing.T) {
	q := New()
	if got := q.Shift(); got != nil {
		t.Errorf("expected nil from empty shift, got %v", got)
	}
	if got := q.Head(); got != nil {
		t.Errorf("expected nil head on empty queue, got %v", got)
	}
	if got := q.Tail(); got != nil {
		t.Errorf("expected nil tail on empty queue, got %v", got)
	}
}

func TestQueueDuplicatesAllowed(t *testing.T) {
	q := New()
	same := tr("dup")
	q.PushTail(same, same)
	if q.Len() != 2 {
		t.Errorf("expected duplicates to be kept, got len %d", q.Len())
	}
}

func TestQueueRemoveAt(t *testing.T) {
	q := New()
	q.PushTail(tr("a"), tr("b"), tr("c"))

	if !q.RemoveAt(1) {
		t.Fatal("expected RemoveAt(1) to succeed")
	}
	got := titles(q.Snapshot())
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("expected [a c], got %v", got)
	}

	if q.RemoveAt(-1) {
		t.Error("expected RemoveAt(-1) to fail")
	}
	if q.RemoveAt(5) {
		t.Error("expected RemoveAt out of range to fail")
	}
}

func TestQueueDropHead(t *testing.T) {
	q := New()
	q.PushTail(tr("a"), tr("b"), tr("c"))

	q.DropHead(2)
	if got := titles(q.Snapshot()); len(got) != 1 || got[0] != "c" {
		t.Errorf("expected [c], got %v", got)
	}

	q.DropHead(10)
	if q.Len() != 0 {
		t.Errorf("expected empty queue after overshoot, got len %d", q.Len())
	}

	q.PushTail(tr("x"))
	q.DropHead(0)
	if q.Len() != 1 {
		t.Errorf("expected DropHead(0) to be a no-op, got len %d", q.Len())
	}
}

func TestQueueMove(t *testing.T) {
	q := New()
	q.PushTail(tr("a"), tr("b"), tr("c"), tr("d"))

	if !q.Move(0, 2) {
		t.Fatal("expected move forward to succeed")
	}
	if got := titles(q.Snapshot()); got[0] != "b" || got[1] != "c" || got[2] != "a" || got[3] != "d" {
		t.Errorf("expected [b c a d], got %v", got)
	}

	if !q.Move(3, 0) {
		t.Fatal("expected move backward to succeed")
	}
	if got := titles(q.Snapshot()); got[0] != "d" || got[1] != "b" {
		t.Errorf("expected [d b c a], got %v", got)
	}

	if q.Move(0, 9) {
		t.Error("expected out of range move to fail")
	}
}

func TestQueueHas(t *testing.T) {
	q := New()
	q.PushTail(tr("a"))
	if !q.Has("enc:a") {
		t.Error("expected Has to find queued track")
	}
	if q.Has("enc:z") {
		t.Error("expected Has to miss unknown track")
	}
}

func TestQueueSnapshotIsCopy(t *testing.T) {
	q := New()
	q.PushTail(tr("a"), tr("b"))
	snap := q.Snapshot()
	snap[0] = tr("mutated")
	if q.Head().Info.Title != "a" {
		t.Error("snapshot mutation leaked into queue")
	}
}

func TestQueueSortCanonical(t *testing.T) {
	q := New()
	q.PushTail(tr("charlie"), tr("alpha"), tr("bravo"))
	q.SortCanonical()
	got := titles(q.Snapshot())
	if got[0] != "alpha" || got[1] != "bravo" || got[2] != "charlie" {
		t.Errorf("expected alphabetical order, got %v", got)
	}
}

func TestQueueShuffleKeepsContents(t *testing.T) {
	q := New()
	q.PushTail(tr("a"), tr("b"), tr("c"), tr("d"), tr("e"))
	q.Shuffle()
	if q.Len() != 5 {
		t.Fatalf("shuffle changed length to %d", q.Len())
	}
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		if !q.Has("enc:" + title) {
			t.Errorf("shuffle lost track %s", title)
		}
	}
}

func TestHistoryPushPop(t *testing.T) {
	h := NewHistory()
	if got := h.Pop(); got != nil {
		t.Errorf("expected nil from empty pop, got %v", got)
	}

	h.Push(tr("a"))
	h.Push(tr("b"))

	if got := h.Pop(); got == nil || got.Info.Title != "b" {
		t.Fatalf("expected pop to return most recent, got %v", got)
	}
	if h.Len() != 1 {
		t.Errorf("expected len 1 after pop, got %d", h.Len())
	}
}

func TestHistoryTrimHead(t *testing.T) {
	h := NewHistory()
	for _, title := range []string{"a", "b", "c", "d"} {
		h.Push(tr(title))
	}

	h.TrimHead(2)
	got := titles(h.Snapshot())
	if len(got) != 2 || got[0] != "c" || got[1] != "d" {
		t.Errorf("expected oldest entries evicted, got %v", got)
	}

	h.TrimHead(-1)
	if h.Len() != 0 {
		t.Errorf("expected negative max to clear history, got len %d", h.Len())
	}
}

func TestHistoryHasAndClear(t *testing.T) {
	h := NewHistory()
	h.Push(tr("a"))
	if !h.Has("enc:a") {
		t.Error("expected Has to find recorded track")
	}
	h.Clear()
	if h.Len() != 0 || h.Has("enc:a") {
		t.Error("expected Clear to empty history")
	}
}
