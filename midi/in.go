package midi

import (
	"log/slog"
	"strings"

	"github.com/jsphweid/secretpiano/model"
	"github.com/jsphweid/secretpiano/note"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// NoteFromMessage returns the note of a note-on with non-zero velocity.
func NoteFromMessage(msg gomidi.Message) (model.Note, bool) {
	var channel, key, velocity uint8
	if !msg.GetNoteOn(&channel, &key, &velocity) || velocity == 0 {
		return model.Note{}, false
	}
	return note.FromMIDI(key), true
}

// Listen opens the first input whose name starts with prefix and calls onNote
// for every note pressed on it. Call stop to close the port.
func Listen(ins []drivers.In, prefix string, logger *slog.Logger, onNote func(model.Note)) (stop func(), err error) {
	var found drivers.In
	for _, in := range ins {
		if strings.HasPrefix(in.String(), prefix) {
			found = in
			break
		}
	}
	if found == nil {
		return nil, errors.Errorf("no midi input matching %q", prefix)
	}
	if err := found.Open(); err != nil {
		return nil, errors.Wrapf(err, "could not open midi input %q", found.String())
	}

	stopListening, err := gomidi.ListenTo(found, func(msg gomidi.Message, _ int32) {
		if n, ok := NoteFromMessage(msg); ok {
			logger.Debug("midi: note on", "note", n.String())
			onNote(n)
		}
	}, gomidi.HandleError(func(listenErr error) {
		logger.Warn("midi: listener error", "device", found.String(), "err", listenErr)
	}))
	if err != nil {
		found.Close()
		return nil, errors.Wrapf(err, "could not listen to %q", found.String())
	}

	logger.Info("midi: connected", "device", found.String())
	return func() {
		stopListening()
		found.Close()
	}, nil
}

// PortNames lists input and output port names.
func PortNames(ins []drivers.In, outs []drivers.Out) (inNames, outNames []string) {
	for _, in := range ins {
		inNames = append(inNames, in.String())
	}
	for _, out := range outs {
		outNames = append(outNames, out.String())
	}
	return inNames, outNames
}
