// Package playlist holds the ordered list of tracks the player walks through.
package playlist

import "github.com/llehouerou/wavescope/internal/track"

// Queue is an ordered list of tracks with a cursor on the playing one.
// It is not safe for concurrent use.
type Queue struct {
	tracks       []track.Track
	currentIndex int // -1 if nothing selected
}

// NewQueue creates an empty queue.
func NewQueue(tracks ...track.Track) *Queue {
	q := &Queue{currentIndex: -1}
	q.tracks = append(q.tracks, tracks...)
	return q
}

// Current returns the selected track, or nil.
func (q *Queue) Current() *track.Track {
	if q.currentIndex < 0 || q.currentIndex >= len(q.tracks) {
		return nil
	}
	return &q.tracks[q.currentIndex]
}

// CurrentIndex returns the selected position, -1 if none.
func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

// Next advances the cursor and returns the new track, or nil at the end.
func (q *Queue) Next() *track.Track {
	if !q.HasNext() {
		return nil
	}
	q.currentIndex++
	return q.Current()
}

// Previous moves the cursor back and returns the new track, or nil at the
// start.
func (q *Queue) Previous() *track.Track {
	if !q.HasPrevious() {
		return nil
	}
	q.currentIndex--
	return q.Current()
}

func (q *Queue) HasNext() bool {
	return q.currentIndex < len(q.tracks)-1
}

func (q *Queue) HasPrevious() bool {
	return q.currentIndex > 0
}

// JumpTo selects index and returns its track, or nil if out of range.
func (q *Queue) JumpTo(index int) *track.Track {
	if index < 0 || index >= len(q.tracks) {
		return nil
	}
	q.currentIndex = index
	return q.Current()
}

// Add appends tracks without moving the cursor.
func (q *Queue) Add(tracks ...track.Track) {
	q.tracks = append(q.tracks, tracks...)
}

// Replace swaps the contents and selects the first track, which it returns.
func (q *Queue) Replace(tracks ...track.Track) *track.Track {
	q.tracks = append(q.tracks[:0], tracks...)
	q.currentIndex = -1
	if len(tracks) == 0 {
		return nil
	}
	q.currentIndex = 0
	return q.Current()
}

// RemoveAt removes the track at index. Removing the selected track leaves
// the cursor on the track that followed it.
func (q *Queue) RemoveAt(index int) bool {
	if index < 0 || index >= len(q.tracks) {
		return false
	}
	q.tracks = append(q.tracks[:index], q.tracks[index+1:]...)

	switch {
	case q.currentIndex > index:
		q.currentIndex--
	case q.currentIndex == index && q.currentIndex >= len(q.tracks):
		q.currentIndex = len(q.tracks) - 1
	}
	return true
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.tracks = nil
	q.currentIndex = -1
}

// Tracks returns a copy of the queued tracks.
func (q *Queue) Tracks() []track.Track {
	out := make([]track.Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

func (q *Queue) Len() int {
	return len(q.tracks)
}

func (q *Queue) IsEmpty() bool {
	return len(q.tracks) == 0
}
