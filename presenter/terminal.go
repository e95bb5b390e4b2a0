package presenter

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/jsphweid/secretpiano/event"
	"github.com/jsphweid/secretpiano/note"
)

// Terminal renders signals as lines of text.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	visible bool
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w, visible: true}
}

// Handle is an event.Handler.
func (t *Terminal) Handle(s event.Signal) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch sig := s.(type) {
	case event.Highlight:
		label := sig.Note.String()
		if t.visible && sig.Input != "" {
			label = fmt.Sprintf("%v (%v)", label, sig.Input)
		}
		fmt.Fprintf(t.w, "♪ %v\n", label)
	case event.Success:
		fmt.Fprintln(t.w, Banner(note.CreateKey(sig.Melody)))
	case event.VisibilityToggled:
		t.visible = sig.Visible
		if sig.Visible {
			fmt.Fprintln(t.w, "key labels shown")
		} else {
			fmt.Fprintln(t.w, "key labels hidden")
		}
	case event.VolumeChanged:
		fmt.Fprintf(t.w, "volume %v\n", FormatDb(sig.Db))
	}
}

func Banner(melody string) string {
	title := "🎉 Congratulations! 🎉"
	body := "You played the secret sequence!"
	width := len(body) + 4
	rule := strings.Repeat("=", width)
	return fmt.Sprintf("%v\n  %v\n  %v\n  %v\n%v", rule, title, body, melody, rule)
}

func FormatDb(db float64) string {
	if math.IsInf(db, -1) {
		return "muted"
	}
	return fmt.Sprintf("%.1f dB", db)
}
