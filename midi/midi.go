package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jsphweid/secretpiano/model"
	"github.com/jsphweid/secretpiano/note"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const bpm = 120

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = fmt.Errorf("panic parsing midi file %v: %v", filepath, r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading midi file")
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, "error parsing midi file")
	}
	return res, nil
}

type noteStart struct {
	absTicks int64
	track    int
	key      uint8
}

// ReadNotes returns every note-on in the file in playing order. Notes that
// start together are ordered by track, then by position in the track.
func ReadNotes(s *smf.SMF) model.Notes {
	var starts []noteStart
	for i, track := range s.Tracks {
		var absTicks int64
		for _, evt := range track {
			absTicks += int64(evt.Delta)
			var channel, key, velocity uint8
			if evt.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0 {
				starts = append(starts, noteStart{absTicks: absTicks, track: i, key: key})
			}
		}
	}

	sort.SliceStable(starts, func(i, j int) bool {
		if starts[i].absTicks != starts[j].absTicks {
			return starts[i].absTicks < starts[j].absTicks
		}
		return starts[i].track < starts[j].track
	})

	res := make(model.Notes, 0, len(starts))
	for _, ns := range starts {
		res = append(res, note.FromMIDI(ns.key))
	}
	return res
}

// CreateMelody builds a single track SMF playing notes one after another as
// half notes at 120 BPM.
func CreateMelody(name string, notes model.Notes) (*smf.SMF, error) {
	res := smf.New()
	ticks := smf.MetricTicks(960)
	res.TimeFormat = ticks
	half := ticks.Ticks4th() * 2

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(name))
	track.Add(0, smf.MetaTempo(bpm))
	for _, n := range notes {
		key, ok := note.ToMIDI(n)
		if !ok {
			return nil, fmt.Errorf("note %v is outside the MIDI range", n)
		}
		track.Add(0, gomidi.NoteOn(0, key, 100))
		track.Add(half, gomidi.NoteOff(0, key))
	}
	track.Close(0)

	if err := res.Add(track); err != nil {
		return nil, errors.Wrap(err, "could not add melody track")
	}
	return res, nil
}

func WriteMelody(w io.Writer, name string, notes model.Notes) error {
	s, err := CreateMelody(name, notes)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return errors.Wrap(err, "could not write melody")
}
