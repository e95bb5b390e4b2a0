package presenter

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/jsphweid/secretpiano/event"
	"github.com/jsphweid/secretpiano/matcher"
	"github.com/jsphweid/secretpiano/model"
	"github.com/stretchr/testify/assert"
)

func TestHighlightShowsInputWhenVisible(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.Handle(event.Highlight{Input: "g", Note: model.MustParseNote("G4"), Duration: time.Millisecond})
	term.Handle(event.VisibilityToggled{Visible: false})
	term.Handle(event.Highlight{Input: "g", Note: model.MustParseNote("G4"), Duration: time.Millisecond})

	assert.Equal(t, "♪ G4 (g)\nkey labels hidden\n♪ G4\n", buf.String())
}

func TestSuccessPrintsBanner(t *testing.T) {
	var buf bytes.Buffer
	NewTerminal(&buf).Handle(event.Success{Melody: matcher.SecretMelody()})

	assert.Contains(t, buf.String(), "Congratulations!")
	assert.Contains(t, buf.String(), "G4-D#4-D4-C4-D4-D#4-G4-D#4-D4-C4")
}

func TestFormatDb(t *testing.T) {
	assert.Equal(t, "muted", FormatDb(math.Inf(-1)))
	assert.Equal(t, "-6.0 dB", FormatDb(-6.0206))
}
