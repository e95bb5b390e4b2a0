package history

import "github.com/jsphweid/secretpiano/model"

// Window keeps the most recent notes, up to a fixed capacity. Pushing onto a
// full window evicts the oldest note.
type Window struct {
	notes    model.Notes
	capacity int
}

func New(capacity int) *Window {
	if capacity < 1 {
		panic("history capacity must be positive")
	}
	return &Window{
		notes:    make(model.Notes, 0, capacity),
		capacity: capacity,
	}
}

func (w *Window) Push(n model.Note) {
	if len(w.notes) == w.capacity {
		copy(w.notes, w.notes[1:])
		w.notes = w.notes[:len(w.notes)-1]
	}
	w.notes = append(w.notes, n)
}

func (w *Window) Len() int {
	return len(w.notes)
}

func (w *Window) Cap() int {
	return w.capacity
}

func (w *Window) Full() bool {
	return len(w.notes) == w.capacity
}

// At returns the i-th oldest note.
func (w *Window) At(i int) model.Note {
	return w.notes[i]
}

// Notes returns a copy, oldest first.
func (w *Window) Notes() model.Notes {
	res := make(model.Notes, len(w.notes))
	copy(res, w.notes)
	return res
}

func (w *Window) Reset() {
	w.notes = w.notes[:0]
}
