package session

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/secretpiano/audio"
	"github.com/jsphweid/secretpiano/binding"
	"github.com/jsphweid/secretpiano/constants"
	"github.com/jsphweid/secretpiano/event"
	"github.com/jsphweid/secretpiano/history"
	"github.com/jsphweid/secretpiano/matcher"
	"github.com/jsphweid/secretpiano/model"
)

var ErrInvalidVolume = errors.New("volume must be a non-negative number")

type Config struct {
	Bindings binding.Table
	Player   audio.Player
	Logger   *slog.Logger

	NoteDuration  time.Duration
	PulseDuration time.Duration
	// InitialVolume is a linear gain applied when the session starts. Zero
	// means constants.DefaultVolume.
	InitialVolume float64
}

type TriggerResult struct {
	Note    model.Note
	Matched bool
}

type playRequest struct {
	note model.Note
	dur  time.Duration
}

// Session owns one player's state: the key table, the history window, the
// matcher and the audio engine. Trigger bookkeeping happens synchronously;
// playback runs on a per-session goroutine so a slow audio start never delays
// it.
type Session struct {
	ID      uuid.UUID
	Started time.Time

	bindings binding.Table
	matcher  *matcher.Matcher
	engine   *audio.Engine
	bus      *event.Bus
	logger   *slog.Logger
	noteDur  time.Duration
	pulseDur time.Duration

	mu       sync.Mutex
	history  *history.Window
	visible  bool
	volumeDb float64
	matches  int

	plays  chan playRequest
	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg Config) *Session {
	if cfg.Bindings == nil {
		cfg.Bindings = binding.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.NoteDuration == 0 {
		cfg.NoteDuration = constants.NoteDuration
	}
	if cfg.PulseDuration == 0 {
		cfg.PulseDuration = constants.PulseDuration
	}
	if cfg.InitialVolume == 0 {
		cfg.InitialVolume = constants.DefaultVolume
	}

	m := matcher.NewSecret()
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New()
	s := &Session{
		ID:       id,
		Started:  time.Now(),
		bindings: cfg.Bindings,
		matcher:  m,
		engine:   audio.NewEngine(cfg.Player),
		bus:      event.NewBus(),
		logger:   cfg.Logger.With("session", id.String()),
		noteDur:  cfg.NoteDuration,
		pulseDur: cfg.PulseDuration,
		history:  history.New(m.Len()),
		visible:  true,
		volumeDb: audio.GainToDb(cfg.InitialVolume),
		plays:    make(chan playRequest, 64),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	if err := s.engine.SetVolume(s.volumeDb); err != nil {
		s.logger.Warn("could not set initial volume", "err", err)
	}
	go s.playLoop(ctx)
	return s
}

func (s *Session) playLoop(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-s.plays:
			if err := s.engine.Play(ctx, req.note, req.dur); err != nil {
				s.logger.Warn("playback failed", "note", req.note.String(), "err", err)
			}
		}
	}
}

// Close stops playback. Pending notes are dropped.
func (s *Session) Close() {
	s.cancel()
	<-s.done
}

// Subscribe registers a presenter. See event.Bus.
func (s *Session) Subscribe(h event.Handler) func() {
	return s.bus.Subscribe(h)
}

// EnsureReady starts the audio engine. Triggers work without it; playback
// waits for it.
func (s *Session) EnsureReady(ctx context.Context) error {
	return s.engine.EnsureReady(ctx)
}

func (s *Session) Bindings() binding.Table {
	return s.bindings
}

// Trigger resolves input through the key table and plays it. Unmapped input
// is ignored and reported with ok == false.
func (s *Session) Trigger(ctx context.Context, input string) (TriggerResult, bool) {
	n, ok := s.bindings.Lookup(input)
	if !ok {
		s.logger.Debug("ignoring unmapped input", "input", input)
		return TriggerResult{}, false
	}
	return s.trigger(ctx, input, n), true
}

// TriggerNote plays n directly, for input sources that already carry a note.
func (s *Session) TriggerNote(ctx context.Context, n model.Note) TriggerResult {
	input, _ := s.bindings.InputFor(n)
	return s.trigger(ctx, input, n)
}

func (s *Session) trigger(ctx context.Context, input string, n model.Note) TriggerResult {
	s.mu.Lock()
	s.history.Push(n)
	matched := s.matcher.Check(s.history)
	if matched {
		s.matches++
	}
	s.mu.Unlock()

	s.bus.Emit(event.Highlight{Input: input, Note: n, Duration: s.pulseDur})
	if matched {
		s.logger.Info("secret melody played")
		s.bus.Emit(event.Success{Melody: s.matcher.Target()})
	}

	select {
	case s.plays <- playRequest{note: n, dur: s.noteDur}:
	case <-ctx.Done():
	default:
		s.logger.Warn("playback queue full, dropping note", "note", n.String())
	}

	return TriggerResult{Note: n, Matched: matched}
}

// SetVolume takes a linear gain and returns the level in decibels.
func (s *Session) SetVolume(linear float64) (float64, error) {
	if math.IsNaN(linear) || linear < 0 {
		return 0, ErrInvalidVolume
	}
	db := audio.GainToDb(linear)

	s.mu.Lock()
	s.volumeDb = db
	s.mu.Unlock()

	if err := s.engine.SetVolume(db); err != nil {
		s.logger.Warn("could not set volume", "db", db, "err", err)
	}
	s.bus.Emit(event.VolumeChanged{Db: db})
	return db, nil
}

// ToggleVisibility flips whether key labels are shown and returns the new
// state.
func (s *Session) ToggleVisibility() bool {
	s.mu.Lock()
	s.visible = !s.visible
	visible := s.visible
	s.mu.Unlock()

	s.bus.Emit(event.VisibilityToggled{Visible: visible})
	return visible
}

type Snapshot struct {
	ID       uuid.UUID
	Started  time.Time
	History  model.Notes
	Visible  bool
	VolumeDb float64
	Matches  int
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:       s.ID,
		Started:  s.Started,
		History:  s.history.Notes(),
		Visible:  s.visible,
		VolumeDb: s.volumeDb,
		Matches:  s.matches,
	}
}
