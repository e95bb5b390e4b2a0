package midi

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jsphweid/secretpiano/audio"
	"github.com/jsphweid/secretpiano/matcher"
	"github.com/jsphweid/secretpiano/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestExportedMelodyReadsBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMelody(&buf, "secret", matcher.SecretMelody()))

	path := filepath.Join(t.TempDir(), "secret.mid")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	s, err := ReadMidiFile(path)
	require.NoError(t, err)
	assert.Equal(t, matcher.SecretMelody(), ReadNotes(s))
}

func TestCreateMelodyRejectsOutOfRangeNotes(t *testing.T) {
	_, err := CreateMelody("bad", model.Notes{model.MustParseNote("C11")})
	assert.Error(t, err)
}

func TestReadNotesMergesTracksByTime(t *testing.T) {
	s := smf.New()
	var melody, bass smf.Track
	// melody: G4 at 0, D4 at 480. The zero velocity note-on is a note off.
	melody.Add(0, gomidi.NoteOn(0, 67, 90))
	melody.Add(480, gomidi.NoteOff(0, 67))
	melody.Add(0, gomidi.NoteOn(0, 64, 0))
	melody.Add(0, gomidi.NoteOn(0, 62, 90))
	melody.Close(0)
	// bass: C3 at 240, G2 at 480
	bass.Add(240, gomidi.NoteOn(1, 48, 90))
	bass.Add(240, gomidi.NoteOn(1, 43, 90))
	bass.Close(0)
	require.NoError(t, s.Add(melody))
	require.NoError(t, s.Add(bass))

	expected := model.Notes{
		model.MustParseNote("G4"),
		model.MustParseNote("C3"),
		model.MustParseNote("D4"),
		model.MustParseNote("G2"),
	}
	assert.Equal(t, expected, ReadNotes(s))
}

func TestReadMidiFileErrors(t *testing.T) {
	_, err := ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "garbage.mid")
	require.NoError(t, os.WriteFile(path, []byte("not a midi file"), 0644))
	_, err = ReadMidiFile(path)
	assert.Error(t, err)
}

func TestNoteFromMessage(t *testing.T) {
	n, ok := NoteFromMessage(gomidi.NoteOn(3, 63, 80))
	assert.True(t, ok)
	assert.Equal(t, model.MustParseNote("D#4"), n)

	_, ok = NoteFromMessage(gomidi.NoteOn(3, 63, 0))
	assert.False(t, ok)
	_, ok = NoteFromMessage(gomidi.NoteOff(3, 63))
	assert.False(t, ok)
	_, ok = NoteFromMessage(gomidi.ControlChange(0, 7, 100))
	assert.False(t, ok)
}

type fakeSender struct {
	mu   sync.Mutex
	sent []gomidi.Message
}

func (f *fakeSender) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, gomidi.Message(append([]byte(nil), data...)))
	return nil
}

func (f *fakeSender) messages() []gomidi.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gomidi.Message(nil), f.sent...)
}

func TestOutPlaysNoteOnThenOff(t *testing.T) {
	sender := &fakeSender{}
	out := NewOut(func(context.Context) (Sender, error) { return sender, nil }, 2)
	require.NoError(t, out.SetVolume(audio.GainToDb(0.6)))
	require.NoError(t, out.Start(context.Background()))
	require.NoError(t, out.Play(model.MustParseNote("C4"), 10*time.Millisecond))

	assert.Eventually(t, func() bool { return len(sender.messages()) == 3 }, time.Second, 5*time.Millisecond)
	msgs := sender.messages()
	assert.Equal(t, gomidi.ControlChange(2, 7, 76), msgs[0])
	assert.Equal(t, gomidi.NoteOn(2, 60, 100), msgs[1])
	assert.Equal(t, gomidi.NoteOff(2, 60), msgs[2])
}

func TestOutRequiresStart(t *testing.T) {
	out := NewOut(func(context.Context) (Sender, error) { return nil, errors.New("no port") }, 0)
	assert.Error(t, out.Start(context.Background()))
	assert.Error(t, out.Play(model.MustParseNote("C4"), time.Millisecond))
}

func TestVolumeToCC(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint8(0), VolumeToCC(math.Inf(-1)))
	assert.Equal(uint8(127), VolumeToCC(0))
	assert.Equal(uint8(127), VolumeToCC(6))
	assert.Equal(uint8(76), VolumeToCC(audio.GainToDb(0.6)))
}
