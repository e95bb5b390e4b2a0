package event

import (
	"sync"
	"time"

	"github.com/jsphweid/secretpiano/model"
)

type Kind string

const (
	KindSuccess    Kind = "success"
	KindHighlight  Kind = "highlight"
	KindVisibility Kind = "visibility"
	KindVolume     Kind = "volume"
)

// Signal is anything a presenter can render.
type Signal interface {
	Kind() Kind
}

// Success fires once per completed melody.
type Success struct {
	Melody model.Notes
}

// Highlight asks the presenter to pulse a key for Duration.
type Highlight struct {
	Input    string
	Note     model.Note
	Duration time.Duration
}

type VisibilityToggled struct {
	Visible bool
}

// VolumeChanged carries the new level in decibels. Silence is -Inf.
type VolumeChanged struct {
	Db float64
}

func (Success) Kind() Kind           { return KindSuccess }
func (Highlight) Kind() Kind         { return KindHighlight }
func (VisibilityToggled) Kind() Kind { return KindVisibility }
func (VolumeChanged) Kind() Kind     { return KindVolume }

type Handler func(Signal)

// Bus delivers signals to subscribers synchronously, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
	order    []int
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers h and returns a func that removes it.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *Bus) Emit(s Signal) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(s)
	}
}
