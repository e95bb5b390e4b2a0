package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/secretpiano/binding"
	"github.com/jsphweid/secretpiano/matcher"
	"github.com/jsphweid/secretpiano/midi"
	"github.com/jsphweid/secretpiano/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useDefaults(t *testing.T) {
	oldBindings, oldOut := bindingsPath, midiOutPort
	bindingsPath, midiOutPort = "", ""
	t.Cleanup(func() {
		bindingsPath, midiOutPort = oldBindings, oldOut
	})
}

func TestPlayFindsMelody(t *testing.T) {
	useDefaults(t)
	var out bytes.Buffer
	err := play(context.Background(), strings.NewReader("zz gesasegesa\n!a"), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Congratulations!")
	assert.Contains(t, out.String(), "key labels hidden")
	assert.Contains(t, out.String(), "played 11 notes")
	assert.Contains(t, out.String(), "found the melody once")
}

func TestPlayVolumeKeys(t *testing.T) {
	useDefaults(t)
	var out bytes.Buffer
	require.NoError(t, play(context.Background(), strings.NewReader("-----+"), &out))

	assert.Contains(t, out.String(), "volume muted")
	assert.Contains(t, out.String(), "volume -20.0 dB")
	assert.Contains(t, out.String(), "found the melody 0 times")
}

func TestScanFindsExportedMelody(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, export(filepath.Join(dir, "secret.mid")))

	var buf bytes.Buffer
	require.NoError(t, midi.WriteMelody(&buf, "scale", model.Notes{
		model.MustParseNote("C4"),
		model.MustParseNote("D4"),
		model.MustParseNote("E4"),
	}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scale.mid"), buf.Bytes(), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.mid"), []byte("nope"), 0644))

	var out bytes.Buffer
	require.NoError(t, scan(&out, dir, 0))

	assert.Contains(t, out.String(), "secret.mid: melody played once (10 notes)")
	assert.NotContains(t, out.String(), "scale.mid:")
	assert.Contains(t, out.String(), "1 of 3 files play the melody")
}

func TestReplayCountsRepeats(t *testing.T) {
	twice := append(matcher.SecretMelody(), matcher.SecretMelody()...)
	var buf bytes.Buffer
	require.NoError(t, midi.WriteMelody(&buf, "twice", twice))
	path := filepath.Join(t.TempDir(), "twice.mid")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	res, err := replay(path)
	require.NoError(t, err)
	assert.Equal(t, 20, res.notes)
	assert.Equal(t, 2, res.matches)
}

func TestInspect(t *testing.T) {
	var out bytes.Buffer
	inspect(&out, binding.Default())

	assert.Contains(t, out.String(), "key: a\nnote: C4\n")
	assert.Contains(t, out.String(), "melody length: 10 (10 of 10 notes on this key table)")
	assert.NotContains(t, out.String(), "melody: ")
}
