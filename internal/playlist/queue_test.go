package playlist

import (
	"testing"

	"github.com/llehouerou/wavescope/internal/track"
)

func tracks(paths ...string) []track.Track {
	out := make([]track.Track, len(paths))
	for i, p := range paths {
		out[i] = track.New(p, nil)
	}
	return out
}

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
	if q.Current() != nil {
		t.Error("Current() should be nil for empty queue")
	}
}

func TestQueue_AddKeepsCursor(t *testing.T) {
	q := NewQueue()

	q.Add(tracks("/a.mp3", "/b.mp3")...)

	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1 (unchanged)", q.CurrentIndex())
	}
}

func TestQueue_Replace(t *testing.T) {
	q := NewQueue(tracks("/old.mp3")...)
	q.JumpTo(0)

	first := q.Replace(tracks("/a.mp3", "/b.mp3")...)

	if first == nil || first.Path != "/a.mp3" {
		t.Fatalf("Replace() = %v, want /a.mp3", first)
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
	if q.Replace() != nil || q.CurrentIndex() != -1 {
		t.Error("Replace() with no tracks should clear the cursor")
	}
}

func TestQueue_NextPrevious(t *testing.T) {
	q := NewQueue(tracks("/a.mp3", "/b.mp3", "/c.mp3")...)
	q.JumpTo(0)

	if tr := q.Next(); tr == nil || tr.Path != "/b.mp3" {
		t.Fatalf("Next() = %v, want /b.mp3", tr)
	}
	if tr := q.Next(); tr == nil || tr.Path != "/c.mp3" {
		t.Fatalf("Next() = %v, want /c.mp3", tr)
	}
	if tr := q.Next(); tr != nil {
		t.Errorf("Next() at end = %v, want nil", tr)
	}
	if q.CurrentIndex() != 2 {
		t.Errorf("CurrentIndex() = %d, want 2", q.CurrentIndex())
	}

	if tr := q.Previous(); tr == nil || tr.Path != "/b.mp3" {
		t.Fatalf("Previous() = %v, want /b.mp3", tr)
	}
	q.Previous()
	if tr := q.Previous(); tr != nil {
		t.Errorf("Previous() at start = %v, want nil", tr)
	}
}

func TestQueue_JumpTo(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  string
	}{
		{"first", 0, "/a.mp3"},
		{"last", 1, "/b.mp3"},
		{"negative", -1, ""},
		{"past end", 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue(tracks("/a.mp3", "/b.mp3")...)
			tr := q.JumpTo(tt.index)
			got := ""
			if tr != nil {
				got = tr.Path
			}
			if got != tt.want {
				t.Errorf("JumpTo(%d) = %q, want %q", tt.index, got, tt.want)
			}
		})
	}
}

func TestQueue_RemoveAt(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		remove    int
		wantIndex int
		wantPath  string
	}{
		{"before current", 2, 0, 1, "/c.mp3"},
		{"after current", 0, 2, 0, "/a.mp3"},
		{"current moves to next", 1, 1, 1, "/c.mp3"},
		{"current last clamps", 2, 2, 1, "/b.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue(tracks("/a.mp3", "/b.mp3", "/c.mp3")...)
			q.JumpTo(tt.current)

			if !q.RemoveAt(tt.remove) {
				t.Fatal("RemoveAt() = false")
			}
			if q.CurrentIndex() != tt.wantIndex {
				t.Errorf("CurrentIndex() = %d, want %d", q.CurrentIndex(), tt.wantIndex)
			}
			if cur := q.Current(); cur == nil || cur.Path != tt.wantPath {
				t.Errorf("Current() = %v, want %s", cur, tt.wantPath)
			}
		})
	}

	q := NewQueue()
	if q.RemoveAt(0) {
		t.Error("RemoveAt() on empty queue should fail")
	}
}

func TestQueue_TracksIsCopy(t *testing.T) {
	q := NewQueue(tracks("/a.mp3")...)

	got := q.Tracks()
	got[0].Path = "/changed.mp3"

	if q.Tracks()[0].Path != "/a.mp3" {
		t.Error("Tracks() should return a copy")
	}
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue(tracks("/a.mp3")...)
	q.JumpTo(0)

	q.Clear()

	if !q.IsEmpty() || q.CurrentIndex() != -1 {
		t.Error("Clear() should empty the queue and reset the cursor")
	}
}
