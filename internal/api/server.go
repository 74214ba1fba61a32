// Package api serves practice sessions over HTTP as JSON for a browser
// front end.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/grammarflow/internal/grammar"
	"github.com/abhisek/grammarflow/internal/i18n"
	"github.com/abhisek/grammarflow/internal/session"
	"github.com/abhisek/grammarflow/internal/speech"
)

// Server holds shared dependencies for HTTP handlers.
type Server struct {
	registry *Registry
	speech   *speech.Service
	lang     string
}

// New creates a Server. speech may be nil.
func New(registry *Registry, svc *speech.Service, lang string) *Server {
	if lang == "" {
		lang = "en"
	}
	return &Server{registry: registry, speech: svc, lang: lang}
}

// Handler returns the full middleware stack and routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(i18n.Middleware(s.lang))
	s.Routes(r)
	return r
}

// Routes registers all HTTP routes.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/topics", s.handleTopics)
		r.Get("/difficulties", s.handleDifficulties)
		r.Post("/sessions", s.handleCreateSession)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Use(s.withSession)
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/summary", s.handleSummary)
			r.Get("/speech", s.handleSpeech)
			r.Post("/topic", s.handleSelectTopic)
			r.Post("/practice", s.handlePractice)
			r.Post("/retry", s.handleRetry)
			r.Post("/select", s.handleSelect)
			r.Post("/text", s.handleText)
			r.Post("/pick", s.handlePick)
			r.Post("/unpick", s.handleUnpick)
			r.Post("/submit", s.handleSubmit)
			r.Post("/advance", s.handleAdvance)
			r.Post("/restart", s.handleRestart)
			r.Post("/back", s.handleBack)
		})
	})
}

type ctxKey struct{}

type sessionRef struct {
	id   string
	ctrl *session.Controller
}

// withSession resolves {sessionID} and answers 404 for unknown IDs.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		ctrl, ok := s.registry.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, i18n.T(r.Context(), "SessionNotFound"))
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, sessionRef{id: id, ctrl: ctrl})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) sessionRef {
	ref, _ := r.Context().Value(ctxKey{}).(sessionRef)
	return ref
}

// sessionResponse is the controller view plus the session ID, with
// learner-facing strings localized for the request.
type sessionResponse struct {
	ID string `json:"id"`
	session.View
	Percentage int `json:"percentage"`
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int) {
	ref := sessionFrom(r)
	writeJSON(w, status, buildResponse(r.Context(), ref.id, ref.ctrl))
}

func buildResponse(ctx context.Context, id string, ctrl *session.Controller) sessionResponse {
	v := ctrl.View()
	if v.Feedback != nil {
		v.Feedback.Message = i18n.Feedback(ctx, v.Feedback.Correct, v.Feedback.Answer)
	}
	if v.Error != "" {
		v.Error = i18n.T(ctx, "FetchError")
	}
	return sessionResponse{ID: id, View: v, Percentage: v.State.CompletionPercentage()}
}

type difficultyResponse struct {
	ID          grammar.Difficulty `json:"id"`
	Label       string             `json:"label"`
	Description string             `json:"description"`
}

func (s *Server) handleTopics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, grammar.AllTopics())
}

func (s *Server) handleDifficulties(w http.ResponseWriter, _ *http.Request) {
	var out []difficultyResponse
	for _, d := range grammar.AllDifficulties() {
		out = append(out, difficultyResponse{ID: d, Label: d.Label(), Description: d.Blurb()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, ctrl := s.registry.Create()
	writeJSON(w, http.StatusCreated, buildResponse(r.Context(), id, ctrl))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.registry.Delete(sessionFrom(r).id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctrl := sessionFrom(r).ctrl
	if ctrl.Phase() != session.PhaseComplete {
		writeError(w, http.StatusConflict, i18n.T(r.Context(), "InvalidRequest"))
		return
	}
	sum := ctrl.Summary()
	writeJSON(w, http.StatusOK, struct {
		session.Summary
		Headline string `json:"headline"`
		Body     string `json:"body"`
	}{
		Summary:  sum,
		Headline: i18n.T(r.Context(), "SummaryHeadline"),
		Body: i18n.Td(r.Context(), "SummaryBody", map[string]any{
			"Score": sum.Correct,
			"Topic": sum.Topic.Name,
		}),
	})
}

type topicRequest struct {
	TopicID string `json:"topicId"`
}

func (s *Server) handleSelectTopic(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, i18n.T(r.Context(), "InvalidRequest"))
		return
	}
	topic, ok := grammar.GetTopic(req.TopicID)
	if !ok {
		writeError(w, http.StatusBadRequest, i18n.T(r.Context(), "InvalidRequest"))
		return
	}
	sessionFrom(r).ctrl.SelectTopic(topic)
	s.respond(w, r, http.StatusOK)
}

type practiceRequest struct {
	Difficulty string `json:"difficulty"`
}

func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	var req practiceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, i18n.T(r.Context(), "InvalidRequest"))
		return
	}
	d, ok := grammar.ParseDifficulty(req.Difficulty)
	if !ok {
		writeError(w, http.StatusBadRequest, i18n.T(r.Context(), "InvalidRequest"))
		return
	}
	err := sessionFrom(r).ctrl.StartPractice(r.Context(), d)
	s.respondFetch(w, r, err)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	err := sessionFrom(r).ctrl.Retry(r.Context())
	s.respondFetch(w, r, err)
}

// respondFetch maps the outcome of a batch request to a status code.
func (s *Server) respondFetch(w http.ResponseWriter, r *http.Request, err error) {
	var fetchErr *session.ContentFetchError
	switch {
	case err == nil:
		s.respond(w, r, http.StatusOK)
	case errors.Is(err, session.ErrNoTopic):
		writeError(w, http.StatusConflict, i18n.T(r.Context(), "NoTopicSelected"))
	case errors.Is(err, session.ErrNothingToRetry):
		writeError(w, http.StatusConflict, i18n.T(r.Context(), "InvalidRequest"))
	case errors.Is(err, session.ErrStaleResponse):
		s.respond(w, r, http.StatusConflict)
	case errors.As(err, &fetchErr):
		s.respond(w, r, http.StatusBadGateway)
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

type optionRequest struct {
	Option string `json:"option"`
}

type textRequest struct {
	Text string `json:"text"`
}

type positionRequest struct {
	Position int `json:"position"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req optionRequest
	s.mutate(w, r, &req, func(c *session.Controller) bool { return c.SelectOption(req.Option) })
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	s.mutate(w, r, &req, func(c *session.Controller) bool { return c.SetText(req.Text) })
}

func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	s.mutate(w, r, &req, func(c *session.Controller) bool { return c.PickWord(req.Position) })
}

func (s *Server) handleUnpick(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	s.mutate(w, r, &req, func(c *session.Controller) bool { return c.UnpickWord(req.Position) })
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, nil, func(c *session.Controller) bool {
		_, ok := c.Submit()
		return ok
	})
}

// mutate decodes req, if any, and applies fn. A refused change answers
// 409 with the unchanged session.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, req any, fn func(*session.Controller) bool) {
	if req != nil {
		if err := decode(r, req); err != nil {
			writeError(w, http.StatusBadRequest, i18n.T(r.Context(), "InvalidRequest"))
			return
		}
	}
	if !fn(sessionFrom(r).ctrl) {
		s.respond(w, r, http.StatusConflict)
		return
	}
	s.respond(w, r, http.StatusOK)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).ctrl.Advance()
	s.respond(w, r, http.StatusOK)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).ctrl.Restart()
	s.respond(w, r, http.StatusOK)
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	ctrl := sessionFrom(r).ctrl
	ctrl.LeaveTopic()
	s.respond(w, r, http.StatusOK)
}

func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	if s.speech == nil {
		writeError(w, http.StatusServiceUnavailable, i18n.T(r.Context(), "SpeechUnavailable"))
		return
	}
	ex, ok := sessionFrom(r).ctrl.Snapshot().Current()
	if !ok {
		writeError(w, http.StatusConflict, i18n.T(r.Context(), "InvalidRequest"))
		return
	}

	audio, err := s.speech.Synthesize(r.Context(), ex.SpeakText())
	if err != nil {
		writeError(w, http.StatusBadGateway, i18n.T(r.Context(), "SpeechUnavailable"))
		return
	}
	data, err := speech.EncodeWAV(audio)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
