// Package server exposes package queries over HTTP.
//
// Routes:
//
//	GET /healthz
//	GET /v1/crates/{spec}   ?recursive=&max_depth=&ignore_missing=&index=&kind=&skip_optional=
//	GET /v1/path/{name}
//
// Crate responses are JSON arrays of index records in resolution order.
// Failures are JSON objects {"code": ..., "message": ...} with a status
// derived from the error code. Every response carries an X-Request-ID
// header.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/cargoquery/pkg/deps"
	errs "github.com/matzehuels/cargoquery/pkg/errors"
	"github.com/matzehuels/cargoquery/pkg/index"
	"github.com/matzehuels/cargoquery/pkg/integrations/crates"
	"github.com/matzehuels/cargoquery/pkg/query"
)

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

const shutdownTimeout = 5 * time.Second

// Options configures a [Server].
type Options struct {
	IndexURL string      // Index used when a request has no index parameter
	Logger   *log.Logger // Request log (default: log.Default())
}

// Server answers package queries using a [query.Fetcher].
type Server struct {
	fetcher query.Fetcher
	opts    Options
	router  chi.Router
}

// New creates a Server and registers its routes.
func New(f query.Fetcher, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	s := &Server{fetcher: f, opts: opts}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/crates/{spec}", s.handleCrate)
	r.Get("/v1/path/{name}", s.handlePath)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errs.New(errs.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.opts.Logger.Debug("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.opts.Logger.Error("panic", "path", r.URL.Path, "value", v)
				writeError(w, errs.New(errs.ErrCodeInternal, "internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "bad package name"))
		return
	}
	if err := errs.ValidatePackageName(name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": index.Path(name)})
}

func (s *Server) handleCrate(w http.ResponseWriter, r *http.Request) {
	spec, err := url.PathUnescape(chi.URLParam(r, "spec"))
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "bad package spec"))
		return
	}
	opts, err := s.resolveOptions(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	set, err := deps.NewResolver(s.fetcher, opts).Resolve(r.Context(), spec)
	if err != nil {
		writeError(w, err)
		return
	}
	releases := set.Releases()
	if releases == nil {
		releases = []*index.Release{}
	}
	writeJSON(w, http.StatusOK, releases)
}

func (s *Server) resolveOptions(q url.Values) (deps.Options, error) {
	opts := deps.Options{
		IndexURL: s.opts.IndexURL,
		Kinds:    q["kind"],
		Logger:   s.opts.Logger.Debugf,
	}
	if err := index.ValidateKinds(opts.Kinds); err != nil {
		return opts, err
	}
	var err error
	if opts.Recursive, err = boolParam(q, "recursive"); err != nil {
		return opts, err
	}
	if opts.IgnoreMissing, err = boolParam(q, "ignore_missing"); err != nil {
		return opts, err
	}
	if opts.SkipOptional, err = boolParam(q, "skip_optional"); err != nil {
		return opts, err
	}
	if v := q.Get("max_depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errs.New(errs.ErrCodeInvalidInput, "max_depth must be a non-negative integer, got %q", v)
		}
		opts.MaxDepth = n
	}
	if v := q.Get("index"); v != "" {
		v = crates.NormalizeIndexURL(v)
		if err := errs.ValidateURL(v); err != nil {
			return opts, err
		}
		opts.IndexURL = v
	}
	return opts, nil
}

func boolParam(q url.Values, key string) (bool, error) {
	v := q.Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errs.New(errs.ErrCodeInvalidInput, "%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

// StatusFor maps an error to the HTTP status it is reported with.
func StatusFor(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidVersion:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeRequest, errs.ErrCodeIO, errs.ErrCodeDeserialize, errs.ErrCodeEmptyIndex:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, StatusFor(err), errorBody{Code: code, Message: errs.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
