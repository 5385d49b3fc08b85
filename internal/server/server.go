// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package server exposes the tools over HTTP for agent harnesses.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wneessen/weather-agent/internal/errs"
	"github.com/wneessen/weather-agent/internal/logger"
	"github.com/wneessen/weather-agent/internal/tools"
)

const (
	// MaxBodySize limits the size of request bodies.
	MaxBodySize = 1 << 20
	// MaxBatchSize limits the number of calls of a single batch request.
	MaxBatchSize = 64

	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 15 * time.Second
)

type Server struct {
	addr    string
	toolbox *tools.Toolbox
	log     *logger.Logger
	router  *mux.Router
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Tools    int    `json:"tools"`
}

func New(addr string, toolbox *tools.Toolbox, log *logger.Logger) (*Server, error) {
	if toolbox == nil {
		return nil, errors.New("toolbox is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	server := &Server{
		addr:    addr,
		toolbox: toolbox,
		log:     log,
		router:  mux.NewRouter(),
	}

	server.router.HandleFunc("/health", server.health).Methods(http.MethodGet)
	server.router.HandleFunc("/tools", server.definitions).Methods(http.MethodGet)
	server.router.HandleFunc("/tools/{name}", server.invoke).Methods(http.MethodPost)
	server.router.HandleFunc("/batch", server.batch).Methods(http.MethodPost)
	server.router.Use(server.loggingMiddleware)
	server.router.Use(contentTypeMiddleware)

	return server, nil
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP on the configured address until ctx is canceled and shuts the server down
// gracefully afterwards.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves HTTP on the given listener until ctx is canceled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server started", slog.String("address", listener.Addr().String()))
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Provider: s.toolbox.Provider(),
		Tools:    len(s.toolbox.Definitions()),
	})
}

func (s *Server) definitions(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.toolbox.Definitions())
}

func (s *Server) invoke(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("failed to read request body: %s", err)})
		return
	}

	result := s.toolbox.Invoke(r.Context(), name, body)
	status := statusFor(result)
	if !s.toolbox.Has(name) {
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, result)
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request) {
	var calls []tools.Call
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&calls); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid batch: %s", err)})
		return
	}
	if len(calls) > MaxBatchSize {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("batch contains %d calls, at most %d are allowed", len(calls), MaxBatchSize),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, s.toolbox.InvokeBatch(r.Context(), calls))
}

// writeJSON encodes payload before the status is sent, so an unencodable payload is answered with
// an internal server error instead of an empty body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	buf := bytes.NewBuffer(nil)
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		s.log.Error("failed to encode response", logger.Err(err))
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(buf).Encode(errorResponse{Error: "failed to encode response"})
	}
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.Error("failed to write response", logger.Err(err))
	}
}

// statusFor maps the outcome of a tool call to a HTTP status code.
func statusFor(result tools.Result) int {
	if result.OK() {
		return http.StatusOK
	}
	if result.Error == nil {
		return http.StatusInternalServerError
	}
	switch result.Error.Kind {
	case errs.KindValidation.String():
		return http.StatusBadRequest
	case errs.KindNotFound.String():
		return http.StatusNotFound
	case errs.KindAuthOrQuota.String(), errs.KindParse.String():
		return http.StatusBadGateway
	case errs.KindNetwork.String():
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.log.Debug("HTTP request", slog.String("method", r.Method), slog.String("path", r.URL.Path),
			slog.Int("status", rw.status), slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", r.RemoteAddr))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func contentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
