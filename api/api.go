package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
	"github.com/jsphweid/secretpiano/binding"
	"github.com/jsphweid/secretpiano/event"
	"github.com/jsphweid/secretpiano/model"
	"github.com/jsphweid/secretpiano/session"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

type Server struct {
	sessions *session.Manager
	bindings binding.Table
	logger   *slog.Logger
	creates  *rate.Limiter
}

func NewServer(sessions *session.Manager, bindings binding.Table, logger *slog.Logger) *Server {
	return &Server{
		sessions: sessions,
		bindings: bindings,
		logger:   logger,
		creates:  rate.NewLimiter(rate.Every(100*time.Millisecond), 10),
	}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/bindings", s.handleBindings).Methods("GET")
	router.HandleFunc("/sessions", s.handleCreate).Methods("POST")
	router.HandleFunc("/sessions/{id}", s.handleGet).Methods("GET")
	router.HandleFunc("/sessions/{id}", s.handleDelete).Methods("DELETE")
	router.HandleFunc("/sessions/{id}/trigger", s.handleTrigger).Methods("POST")
	router.HandleFunc("/sessions/{id}/volume", s.handleVolume).Methods("PUT")
	router.HandleFunc("/sessions/{id}/visibility", s.handleVisibility).Methods("POST")
	router.HandleFunc("/sessions/{id}/events", s.handleEvents).Methods("GET")
	return router
}

// Handler is the router wrapped for browser clients on any origin.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.Router())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func dbPtr(db float64) *float64 {
	if math.IsInf(db, 0) || math.IsNaN(db) {
		return nil
	}
	return &db
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(mux.Vars(r)["id"])
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return sess, true
}

func (s *Server) handleBindings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bindings)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !s.creates.Allow() {
		writeError(w, http.StatusTooManyRequests, "too many new sessions, try again shortly")
		return
	}
	sess := s.sessions.Create()
	s.logger.Info("session created", "session", sess.ID.String(), "sessions", s.sessions.Len())
	writeJSON(w, http.StatusCreated, model.CreateSessionResponse{ID: sess.ID.String()})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	snap := sess.Snapshot()
	writeJSON(w, http.StatusOK, model.SessionState{
		ID:      snap.ID.String(),
		History: snap.History,
		Visible: snap.Visible,
		Db:      dbPtr(snap.VolumeDb),
		Matches: snap.Matches,
		Started: humanize.Time(snap.Started),
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(mux.Vars(r)["id"]); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var input model.TriggerRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "could not decode request body: "+err.Error())
		return
	}

	var res model.TriggerResponse
	tr, mapped := sess.Trigger(r.Context(), input.Input)
	if mapped {
		res.Mapped = true
		res.Note = &tr.Note
		res.Matched = tr.Matched
	}
	res.History = sess.Snapshot().History
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var input model.VolumeRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "could not decode request body: "+err.Error())
		return
	}

	db, err := sess.SetVolume(input.Level)
	if errors.Is(err, session.ErrInvalidVolume) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.VolumeResponse{Db: dbPtr(db)})
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, model.VisibilityResponse{Visible: sess.ToggleVisibility()})
}

type eventPayload struct {
	Input      string      `json:"input,omitempty"`
	Note       *model.Note `json:"note,omitempty"`
	DurationMs int64       `json:"duration_ms,omitempty"`
	Visible    *bool       `json:"visible,omitempty"`
	Db         *float64    `json:"db,omitempty"`
	Melody     model.Notes `json:"melody,omitempty"`
}

func toPayload(sig event.Signal) eventPayload {
	var p eventPayload
	switch s := sig.(type) {
	case event.Highlight:
		p.Input = s.Input
		p.Note = &s.Note
		p.DurationMs = s.Duration.Milliseconds()
	case event.Success:
		p.Melody = s.Melody
	case event.VisibilityToggled:
		p.Visible = &s.Visible
	case event.VolumeChanged:
		p.Db = dbPtr(s.Db)
	}
	return p
}

// handleEvents streams session signals as server-sent events until the
// client goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	signals := make(chan event.Signal, 32)
	unsubscribe := sess.Subscribe(func(sig event.Signal) {
		select {
		case signals <- sig:
		default:
			s.logger.Warn("event stream too slow, dropping signal", "session", sess.ID.String(), "kind", sig.Kind())
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case sig := <-signals:
			data, err := json.Marshal(toPayload(sig))
			if err != nil {
				s.logger.Error("could not encode signal", "err", err)
				continue
			}
			fmt.Fprintf(w, "event: %v\ndata: %s\n\n", sig.Kind(), data)
			flusher.Flush()
		}
	}
}
