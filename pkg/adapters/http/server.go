package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/checkout/pkg/domain"
	"github.com/aretw0/checkout/pkg/ports"
	"github.com/aretw0/checkout/pkg/session"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/oapi-codegen/runtime"
)

// Sessions is the session orchestration the API needs.
// *session.Manager satisfies it.
type Sessions interface {
	Create(ctx context.Context) (*domain.FormSession, error)
	Load(ctx context.Context, sessionID string) (*domain.FormSession, error)
	Delete(ctx context.Context, sessionID string) error
	Update(ctx context.Context, sessionID string, fn session.UpdateFunc) (*domain.FormSession, error)
}

// Server exposes checkout sessions as a JSON API with an SSE diff stream.
type Server struct {
	sessions Sessions
	engine   ports.FlowController
	Streams  *StreamManager

	spec    *openapi3.T
	logger  *slog.Logger
	origins []string
	version string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAllowedOrigins sets the CORS allowed origins. Defaults to "*".
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = strings.TrimSpace(v)
	}
}

// NewServer creates the API server. It fails only if the embedded
// OpenAPI document is invalid.
func NewServer(sessions Sessions, engine ports.FlowController, opts ...Option) (*Server, error) {
	spec, err := GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	s := &Server{
		sessions: sessions,
		engine:   engine,
		spec:     spec,
		logger:   slog.Default(),
		origins:  []string{"*"},
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s, nil
}

// NewHandler creates a new HTTP handler for the checkout API.
func NewHandler(sessions Sessions, engine ports.FlowController, opts ...Option) (http.Handler, error) {
	s, err := NewServer(sessions, engine, opts...)
	if err != nil {
		return nil, err
	}
	return s.Handler(), nil
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(RawSpec())
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	v := r.With(s.validateRequest)
	v.Post("/sessions", s.CreateSession)
	v.Get("/sessions/{sessionID}", s.GetSession)
	v.Delete("/sessions/{sessionID}", s.DeleteSession)
	v.Put("/sessions/{sessionID}/fields/{field}", s.ChangeField)
	v.Post("/sessions/{sessionID}/fields/{field}/validate", s.ValidateField)
	v.Post("/sessions/{sessionID}/advance", s.Advance)
	v.Post("/sessions/{sessionID}/retreat", s.Retreat)
	v.Post("/sessions/{sessionID}/reset", s.Reset)
	v.Get("/events", s.SubscribeEvents)

	return r
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	created, err := s.sessions.Create(r.Context())
	if err != nil {
		s.writeFailure(w, "CreateSession", err)
		return
	}
	s.writeView(w, r, http.StatusCreated, created)
}

// GetSession handles GET /sessions/{sessionID}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.bindSessionID(w, r)
	if !ok {
		return
	}
	current, err := s.sessions.Load(r.Context(), sessionID)
	if err != nil {
		s.writeFailure(w, "GetSession", err)
		return
	}
	s.writeView(w, r, http.StatusOK, current)
}

// DeleteSession handles DELETE /sessions/{sessionID}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.bindSessionID(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Delete(r.Context(), sessionID); err != nil {
		s.writeFailure(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changeFieldRequest struct {
	Value string `json:"value"`
}

// ChangeField handles PUT /sessions/{sessionID}/fields/{field}.
func (s *Server) ChangeField(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.bindSessionID(w, r)
	if !ok {
		return
	}
	field, ok := s.bindField(w, r)
	if !ok {
		return
	}

	var body changeFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("ChangeField: Invalid request body", "err", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mutate(w, r, "ChangeField", sessionID, func(ctx context.Context, cur *domain.FormSession) (*domain.FormSession, error) {
		return s.engine.ChangeField(ctx, cur, field, body.Value)
	})
}

// ValidateField handles POST /sessions/{sessionID}/fields/{field}/validate.
func (s *Server) ValidateField(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.bindSessionID(w, r)
	if !ok {
		return
	}
	field, ok := s.bindField(w, r)
	if !ok {
		return
	}
	s.mutate(w, r, "ValidateField", sessionID, func(ctx context.Context, cur *domain.FormSession) (*domain.FormSession, error) {
		return s.engine.ValidateField(ctx, cur, field)
	})
}

// Advance handles POST /sessions/{sessionID}/advance.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := s.bindSessionID(w, r); ok {
		s.mutate(w, r, "Advance", sessionID, s.engine.Advance)
	}
}

// Retreat handles POST /sessions/{sessionID}/retreat.
func (s *Server) Retreat(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := s.bindSessionID(w, r); ok {
		s.mutate(w, r, "Retreat", sessionID, s.engine.Retreat)
	}
}

// Reset handles POST /sessions/{sessionID}/reset.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := s.bindSessionID(w, r); ok {
		s.mutate(w, r, "Reset", sessionID, s.engine.Reset)
	}
}

// mutate applies op under the session lock, broadcasts the diff and writes
// the resulting view. Blocked transitions still answer with the annotated view.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, name, sessionID string, op session.UpdateFunc) {
	var before *domain.FormSession
	next, err := s.sessions.Update(r.Context(), sessionID, func(ctx context.Context, cur *domain.FormSession) (*domain.FormSession, error) {
		before = cur.Snapshot()
		return op(ctx, cur)
	})
	if next == nil {
		s.writeFailure(w, name, err)
		return
	}

	s.broadcastDiff(before, next)

	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSubmission):
		status = http.StatusBadGateway
	default:
		s.writeFailure(w, name, err)
		return
	}
	s.writeView(w, r, status, next)
}

func (s *Server) broadcastDiff(before, after *domain.FormSession) {
	diff := domain.Diff(before, after)
	if diff == nil {
		s.logger.Debug("No diff calculated", "session_id", after.ID)
		return
	}
	bytes, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("Diff encode failed", "err", err)
		return
	}
	s.Streams.Broadcast(after.ID, string(bytes))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec != nil && s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "checkout-http",
		"version":     s.version,
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles GET /events (SSE). Each message is a JSON
// domain.SessionDiff.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	var (
		sessionID string
		watch     *string
	)
	if err := runtime.BindQueryParameter("form", true, true, "session_id", r.URL.Query(), &sessionID); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid format for parameter session_id: %s", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "watch", r.URL.Query(), &watch); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid format for parameter watch: %s", err))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", sessionID)
	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	var watchList []string
	if watch != nil && *watch != "" {
		watchList = strings.Split(*watch, ",")
	}

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !matchesWatch(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// matchesWatch reports whether a diff touches any watched part.
// Undecodable messages pass through.
func matchesWatch(msg string, watchList []string) bool {
	var diff domain.SessionDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, w := range watchList {
		switch strings.TrimSpace(w) {
		case "step":
			if diff.CurrentStep != nil || len(diff.Appended) > 0 {
				return true
			}
		case "fields":
			if len(diff.ChangedFields) > 0 {
				return true
			}
		case "markers":
			if len(diff.Markers) > 0 {
				return true
			}
		case "error":
			if diff.PaymentError != nil {
				return true
			}
		}
	}
	return false
}

// -- Helpers --

func (s *Server) bindSessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var sessionID string
	err := runtime.BindStyledParameterWithOptions("simple", "sessionID", chi.URLParam(r, "sessionID"), &sessionID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid format for parameter sessionID: %s", err))
		return "", false
	}
	return sessionID, true
}

func (s *Server) bindField(w http.ResponseWriter, r *http.Request) (string, bool) {
	var field string
	err := runtime.BindStyledParameterWithOptions("simple", "field", chi.URLParam(r, "field"), &field,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid format for parameter field: %s", err))
		return "", false
	}
	return field, true
}

func (s *Server) writeView(w http.ResponseWriter, r *http.Request, status int, fs *domain.FormSession) {
	view, err := s.engine.Render(r.Context(), fs)
	if err != nil {
		s.writeFailure(w, "Render", err)
		return
	}
	writeJSON(w, status, view)
}

func (s *Server) writeFailure(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnknownField):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error(op+" failed", "err", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("%s error", op))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
