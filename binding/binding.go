package binding

import (
	"os"

	"github.com/jsphweid/secretpiano/model"
	"github.com/jsphweid/secretpiano/util"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrEmpty = errors.New("key table has no bindings")

// Table maps an input id (keyboard key or on-screen key id) to a note.
type Table map[string]model.Note

// Default is one chromatic octave from C4 on the home and top rows.
func Default() Table {
	return Table{
		"a": {Pitch: model.C, Octave: 4},
		"w": {Pitch: model.CSharp, Octave: 4},
		"s": {Pitch: model.D, Octave: 4},
		"e": {Pitch: model.DSharp, Octave: 4},
		"d": {Pitch: model.E, Octave: 4},
		"f": {Pitch: model.F, Octave: 4},
		"t": {Pitch: model.FSharp, Octave: 4},
		"g": {Pitch: model.G, Octave: 4},
		"y": {Pitch: model.GSharp, Octave: 4},
		"h": {Pitch: model.A, Octave: 4},
		"u": {Pitch: model.ASharp, Octave: 4},
		"j": {Pitch: model.B, Octave: 4},
	}
}

func (t Table) Lookup(input string) (model.Note, bool) {
	n, ok := t[input]
	return n, ok
}

// Inputs returns the bound input ids, sorted.
func (t Table) Inputs() []string {
	return util.SortedKeys(t)
}

// InputFor finds the input bound to n, if any.
func (t Table) InputFor(n model.Note) (string, bool) {
	for _, input := range t.Inputs() {
		if t[input] == n {
			return input, true
		}
	}
	return "", false
}

type file struct {
	Keys map[string]model.Note `yaml:"keys"`
}

// Parse reads a YAML document of the form
//
//	keys:
//	  a: C4
//	  w: C#4
func Parse(data []byte) (Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "could not parse key table")
	}
	if len(f.Keys) == 0 {
		return nil, ErrEmpty
	}
	t := make(Table, len(f.Keys))
	for k, v := range f.Keys {
		if k == "" {
			return nil, errors.New("key table has an empty input id")
		}
		t[k] = v
	}
	return t, nil
}

func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read key table %v", path)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "key table %v", path)
	}
	return t, nil
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (Table, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func Marshal(t Table) ([]byte, error) {
	return yaml.Marshal(file{Keys: t})
}
