package model

import "fmt"

type PitchClass uint8

const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (p PitchClass) String() string {
	if int(p) >= len(pitchNames) {
		return fmt.Sprintf("PitchClass(%d)", p)
	}
	return pitchNames[p]
}

// Note identifies a pitch in a specific octave, e.g. D#4.
type Note struct {
	Pitch  PitchClass
	Octave int
}

func (n Note) String() string {
	return fmt.Sprintf("%v%d", n.Pitch, n.Octave)
}

type Notes = []Note

var flats = map[string]PitchClass{
	"Db": CSharp,
	"Eb": DSharp,
	"Gb": FSharp,
	"Ab": GSharp,
	"Bb": ASharp,
}

// ParseNote reads names like "C4", "D#4" or "Eb4". Flats are normalized to
// their sharp spelling.
func ParseNote(s string) (Note, error) {
	var n Note
	if len(s) < 2 {
		return n, fmt.Errorf("invalid note %q", s)
	}

	name := s[:1]
	rest := s[1:]
	if rest[0] == '#' || rest[0] == 'b' {
		name, rest = s[:2], s[2:]
	}

	found := false
	for i, pn := range pitchNames {
		if pn == name {
			n.Pitch = PitchClass(i)
			found = true
			break
		}
	}
	if !found {
		pc, ok := flats[name]
		if !ok {
			return n, fmt.Errorf("invalid note %q: unknown pitch %q", s, name)
		}
		n.Pitch = pc
	}

	if _, err := fmt.Sscanf(rest, "%d", &n.Octave); err != nil || fmt.Sprint(n.Octave) != rest {
		return Note{}, fmt.Errorf("invalid note %q: bad octave %q", s, rest)
	}
	return n, nil
}

func MustParseNote(s string) Note {
	n, err := ParseNote(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (n Note) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *Note) UnmarshalText(text []byte) error {
	parsed, err := ParseNote(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
