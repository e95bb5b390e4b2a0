package midi

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/jsphweid/secretpiano/audio"
	"github.com/jsphweid/secretpiano/model"
	"github.com/jsphweid/secretpiano/note"
	"github.com/jsphweid/secretpiano/util"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// channel volume
const ccVolume = 7

// Sender is the part of an output port Out needs.
type Sender interface {
	Send(data []byte) error
}

// Opener connects to an output port. It is called once, from Start.
type Opener func(ctx context.Context) (Sender, error)

// Out plays notes on an external MIDI synth. It satisfies audio.Player.
type Out struct {
	open     Opener
	channel  uint8
	velocity uint8

	mu     sync.Mutex
	port   Sender
	volume uint8
}

var _ audio.Player = (*Out)(nil)

func NewOut(open Opener, channel uint8) *Out {
	return &Out{
		open:     open,
		channel:  channel,
		velocity: 100,
		volume:   VolumeToCC(audio.GainToDb(1)),
	}
}

// PortOpener finds the first output whose name starts with prefix (any
// output for an empty prefix) and opens it.
func PortOpener(outs func() ([]drivers.Out, error), prefix string) Opener {
	return func(ctx context.Context) (Sender, error) {
		ports, err := outs()
		if err != nil {
			return nil, errors.Wrap(err, "could not list midi outputs")
		}
		for _, port := range ports {
			if !strings.HasPrefix(port.String(), prefix) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := port.Open(); err != nil {
				return nil, errors.Wrapf(err, "could not open midi output %q", port.String())
			}
			return port, nil
		}
		return nil, errors.Errorf("no midi output matching %q", prefix)
	}
}

func (o *Out) Start(ctx context.Context) error {
	port, err := o.open(ctx)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.port = port
	return o.port.Send(gomidi.ControlChange(o.channel, ccVolume, o.volume))
}

func (o *Out) Play(n model.Note, d time.Duration) error {
	key, ok := note.ToMIDI(n)
	if !ok {
		return errors.Errorf("note %v is outside the MIDI range", n)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.port == nil {
		return errors.New("midi output not started")
	}
	if err := o.port.Send(gomidi.NoteOn(o.channel, key, o.velocity)); err != nil {
		return errors.Wrap(err, "could not send note on")
	}

	// re-pressing a key before this fires just cuts the earlier note short
	time.AfterFunc(d, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.port.Send(gomidi.NoteOff(o.channel, key))
	})
	return nil
}

// SetVolume is remembered until Start when the port isn't open yet.
func (o *Out) SetVolume(db float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.volume = VolumeToCC(db)
	if o.port == nil {
		return nil
	}
	return o.port.Send(gomidi.ControlChange(o.channel, ccVolume, o.volume))
}

// VolumeToCC maps decibels onto the 0-127 controller range linearly in gain.
func VolumeToCC(db float64) uint8 {
	gain := util.Clamp(audio.DbToGain(db), 0, 1)
	return uint8(math.Round(gain * 127))
}
