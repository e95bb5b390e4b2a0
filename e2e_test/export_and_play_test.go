//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/secretpiano/api"
	"github.com/jsphweid/secretpiano/audio"
	"github.com/jsphweid/secretpiano/binding"
	"github.com/jsphweid/secretpiano/matcher"
	"github.com/jsphweid/secretpiano/midi"
	"github.com/jsphweid/secretpiano/model"
	"github.com/jsphweid/secretpiano/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var melodyPath string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "secretpiano-e2e")
	if err != nil {
		panic(err.Error())
	}
	melodyPath = filepath.Join(dir, "secret.mid")

	var buf bytes.Buffer
	if err := midi.WriteMelody(&buf, "secret melody", matcher.SecretMelody()); err != nil {
		panic(err.Error())
	}
	if err := os.WriteFile(melodyPath, buf.Bytes(), 0644); err != nil {
		panic(err.Error())
	}

	exitVal := m.Run()
	os.RemoveAll(dir)
	os.Exit(exitVal)
}

func createTriggerReqBody(input string) io.Reader {
	data, err := json.Marshal(model.TriggerRequestBody{Input: input})
	if err != nil {
		panic(err.Error())
	}
	return bytes.NewReader(data)
}

func TestExportedMelodyPlayedThroughHTTP(t *testing.T) {
	manager := session.NewManager(func() session.Config {
		return session.Config{Player: audio.Nop{}}
	})
	defer manager.CloseAll()
	table := binding.Default()
	h := api.NewServer(manager, table, slog.New(slog.NewTextHandler(io.Discard, nil))).Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var created model.CreateSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	s, err := midi.ReadMidiFile(melodyPath)
	require.NoError(t, err)

	assert := assert.New(t)
	var matches int
	for _, n := range midi.ReadNotes(s) {
		input, ok := table.InputFor(n)
		require.True(t, ok, "no key for %v", n)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/"+created.ID+"/trigger", createTriggerReqBody(input)))
		assert.Equal(http.StatusOK, w.Code)

		var res model.TriggerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		if res.Matched {
			matches++
		}
	}
	assert.Equal(1, matches)
}
