package audio

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/secretpiano/model"
)

// Player renders notes. Start may block (opening a device, waiting for a
// synth) and is called once before the first Play.
type Player interface {
	Start(ctx context.Context) error
	Play(n model.Note, d time.Duration) error
	SetVolume(db float64) error
}

// GainToDb converts linear gain to decibels. Zero is silence, -Inf.
func GainToDb(linear float64) float64 {
	if linear <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(linear)
}

// DbToGain is the inverse of GainToDb.
func DbToGain(db float64) float64 {
	if math.IsInf(db, -1) {
		return 0
	}
	return math.Pow(10, db/20)
}

type Nop struct{}

func (Nop) Start(context.Context) error          { return nil }
func (Nop) Play(model.Note, time.Duration) error { return nil }
func (Nop) SetVolume(float64) error              { return nil }

// Engine guards a Player so it is started at most once. A failed start is
// retried by the next EnsureReady.
type Engine struct {
	player Player

	mu    sync.Mutex
	ready bool
}

func NewEngine(p Player) *Engine {
	if p == nil {
		p = Nop{}
	}
	return &Engine{player: p}
}

func (e *Engine) EnsureReady(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready {
		return nil
	}
	if err := e.player.Start(ctx); err != nil {
		return err
	}
	e.ready = true
	return nil
}

func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Play waits for the player to be ready, then plays n.
func (e *Engine) Play(ctx context.Context, n model.Note, d time.Duration) error {
	if err := e.EnsureReady(ctx); err != nil {
		return err
	}
	return e.player.Play(n, d)
}

func (e *Engine) SetVolume(db float64) error {
	return e.player.SetVolume(db)
}

// Debounced forwards only the last SetVolume of a burst to the wrapped
// player, once the burst has been quiet for the debounce interval.
type Debounced struct {
	Player
	debounced func(f func())
	onError   func(error)
}

func NewDebounced(p Player, after time.Duration, onError func(error)) *Debounced {
	if onError == nil {
		onError = func(error) {}
	}
	return &Debounced{
		Player:    p,
		debounced: debounce.New(after),
		onError:   onError,
	}
}

func (d *Debounced) SetVolume(db float64) error {
	d.debounced(func() {
		if err := d.Player.SetVolume(db); err != nil {
			d.onError(err)
		}
	})
	return nil
}
