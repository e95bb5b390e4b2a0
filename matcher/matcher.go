package matcher

import (
	"github.com/jsphweid/secretpiano/history"
	"github.com/jsphweid/secretpiano/model"
)

var secretMelody = model.Notes{
	{Pitch: model.G, Octave: 4},
	{Pitch: model.DSharp, Octave: 4},
	{Pitch: model.D, Octave: 4},
	{Pitch: model.C, Octave: 4},
	{Pitch: model.D, Octave: 4},
	{Pitch: model.DSharp, Octave: 4},
	{Pitch: model.G, Octave: 4},
	{Pitch: model.DSharp, Octave: 4},
	{Pitch: model.D, Octave: 4},
	{Pitch: model.C, Octave: 4},
}

// SecretMelody returns a copy of the melody that unlocks the celebration.
func SecretMelody() model.Notes {
	res := make(model.Notes, len(secretMelody))
	copy(res, secretMelody)
	return res
}

// Matcher compares a history window against a fixed target. It holds no state
// of its own beyond the target, so the window is the only thing that changes
// between checks.
type Matcher struct {
	target model.Notes
}

func New(target model.Notes) *Matcher {
	if len(target) == 0 {
		panic("matcher target must not be empty")
	}
	t := make(model.Notes, len(target))
	copy(t, target)
	return &Matcher{target: t}
}

func NewSecret() *Matcher {
	return New(secretMelody)
}

func (m *Matcher) Len() int {
	return len(m.target)
}

func (m *Matcher) Target() model.Notes {
	res := make(model.Notes, len(m.target))
	copy(res, m.target)
	return res
}

// Check reports whether the window holds exactly the target, in order. A match
// resets the window so the same full buffer can't match twice.
func (m *Matcher) Check(w *history.Window) bool {
	if w.Len() != len(m.target) {
		return false
	}
	for i, n := range m.target {
		if w.At(i) != n {
			return false
		}
	}
	w.Reset()
	return true
}
