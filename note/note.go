package note

import (
	"strings"

	"github.com/jsphweid/secretpiano/model"
)

// MIDI note number of C4.
const middleC = 60

func FromMIDI(key uint8) model.Note {
	return model.Note{
		Pitch:  model.PitchClass(key % 12),
		Octave: int(key)/12 - 1,
	}
}

// ToMIDI returns false for notes outside the 0-127 MIDI range.
func ToMIDI(n model.Note) (uint8, bool) {
	key := middleC + (n.Octave-4)*12 + int(n.Pitch)
	if key < 0 || key > 127 {
		return 0, false
	}
	return uint8(key), true
}

// CreateKey joins note names in order, e.g. "G4-D#4-D4".
func CreateKey(notes model.Notes) string {
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = n.String()
	}
	return strings.Join(names, "-")
}
