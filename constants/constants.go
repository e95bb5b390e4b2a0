package constants

import (
	"os"
	"time"
)

func GetAddr() string {
	addr := os.Getenv("SECRETPIANO_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

// GetBindingsPath returns the optional YAML key table. Empty means the
// built-in table is used.
func GetBindingsPath() string {
	return os.Getenv("SECRETPIANO_BINDINGS")
}

func GetMidiOutPort() string {
	return os.Getenv("SECRETPIANO_MIDI_OUT")
}

// PulseDuration is how long an on-screen key stays highlighted.
const PulseDuration = 150 * time.Millisecond

// NoteDuration is a half note at 120 BPM.
const NoteDuration = time.Second

const DefaultVolume = 0.5
