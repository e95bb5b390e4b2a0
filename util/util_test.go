package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"s": 1, "a": 2, "j": 3}
	assert.Equal(t, []string{"a", "j", "s"}, SortedKeys(m))
}

func TestClamp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0.0, Clamp(-0.5, 0, 1))
	assert.Equal(1.0, Clamp(1.5, 0, 1))
	assert.Equal(0.25, Clamp(0.25, 0, 1))
	assert.Equal(uint8(127), Clamp[uint8](200, 0, 127))
}

func TestGatherAllMidiPaths(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(nested, 0755))
	for _, name := range []string{"a.mid", "b.MIDI", "notes.txt", filepath.Join("nested", "c.mid")} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	paths, err := GatherAllMidiPaths(dir, 0)
	require.NoError(t, err)
	assert.Len(t, paths, 3)

	limited, err := GatherAllMidiPaths(dir, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = GatherAllMidiPaths(filepath.Join(dir, "missing"), 0)
	assert.Error(t, err)
}
