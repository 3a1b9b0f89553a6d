package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mikey/phishguard/internal/adapters/platform"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/router"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies accepted from the extension shim
const maxBodyBytes = 1 << 20

// Interceptor is the synchronous gate
type Interceptor interface {
	Intercept(req core.InterceptRequest) core.Outcome
}

// MessageHandler answers UI messages
type MessageHandler interface {
	Handle(ctx context.Context, req router.Request) router.Response
}

// TabBridge is the platform side the shim talks to
type TabBridge interface {
	SetActiveTab(tab core.Tab)
	Badge(tabID int) (core.Badge, bool)
	Drain() []platform.Event
}

// Server implements the HTTP frontend used by the browser extension shim
type Server struct {
	gate       Interceptor
	messages   MessageHandler
	bridge     TabBridge
	logger     *zap.Logger
	listenAddr string
	server     *http.Server
	listener   net.Listener
}

type interceptResponse struct {
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// NewServer creates a new HTTP frontend
func NewServer(gate Interceptor, messages MessageHandler, bridge TabBridge, logger *zap.Logger, listenAddr string) *Server {
	return &Server{
		gate:       gate,
		messages:   messages,
		bridge:     bridge,
		logger:     logger,
		listenAddr: listenAddr,
	}
}

// Handler returns the routes of the frontend
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { writeText(w, http.StatusOK, "ok\n") })

	r.Route("/api", func(r chi.Router) {
		r.Post("/intercept", s.intercept)
		r.Post("/message", s.message)
		r.Put("/tabs/active", s.setActiveTab)
		r.Get("/tabs/{id}/badge", s.getBadge)
		r.Get("/events", s.drainEvents)
	})
	return r
}

// Start binds the listen address and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	s.logger.Info("HTTP frontend starting", zap.String("address", ln.Addr().String()))

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the server down, letting in-flight requests finish
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the bound address once started
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.listenAddr
	}
	return s.listener.Addr().String()
}

func (s *Server) intercept(w http.ResponseWriter, r *http.Request) {
	var req core.InterceptRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		// The shim allows the request on any non-200 answer
		writeJSON(w, http.StatusBadRequest, router.Failure(err))
		return
	}

	outcome := s.gate.Intercept(req)
	if outcome.Action == core.ActionRedirect {
		writeJSON(w, http.StatusOK, interceptResponse{RedirectURL: outcome.RedirectURL})
		return
	}
	writeJSON(w, http.StatusOK, interceptResponse{})
}

func (s *Server) message(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, router.Failure(err))
		return
	}

	req, err := router.DecodeRequest(body)
	if err != nil {
		s.logger.Debug("Rejected message", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, router.Failure(err))
		return
	}

	writeJSON(w, http.StatusOK, s.messages.Handle(r.Context(), req))
}

func (s *Server) setActiveTab(w http.ResponseWriter, r *http.Request) {
	var tab core.Tab
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&tab); err != nil {
		writeJSON(w, http.StatusBadRequest, router.Failure(err))
		return
	}
	s.bridge.SetActiveTab(tab)
	writeJSON(w, http.StatusOK, router.AckResponse{Success: true})
}

func (s *Server) getBadge(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, router.Failure(err))
		return
	}
	badge, ok := s.bridge.Badge(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, router.AckResponse{Success: false, Error: "no badge for tab"})
		return
	}
	writeJSON(w, http.StatusOK, badge)
}

func (s *Server) drainEvents(w http.ResponseWriter, r *http.Request) {
	events := s.bridge.Drain()
	if events == nil {
		events = []platform.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(s))
}
