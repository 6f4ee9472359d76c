// Package server provides the HTTP API for the resume builder.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/intake"
	"github.com/jonathan/resume-builder/internal/rewriting"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/session"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultMaxUploadBytes = 10 << 20
	DefaultRequestTimeout = 2 * time.Minute
	maxJSONBodyBytes      = 2 << 20
	shutdownTimeout       = 30 * time.Second
)

// Deps are the services the handlers call.
type Deps struct {
	Sessions *session.Service
	Intake   *intake.Service
	Rewriter *rewriting.Service
	Exporter *export.Exporter
	Limiter  *ratelimit.Limiter // nil disables rate limiting
}

// Options tune the HTTP layer.
type Options struct {
	Addr           string
	MaxUploadBytes int64         // cap on the multipart body of /uploadResume
	RequestTimeout time.Duration // bound on model and export calls
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	deps       Deps
	opts       Options
}

// New creates a server. It does not start listening.
func New(deps Deps, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}

	s := &Server{deps: deps, opts: opts}
	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // PDF prints and model calls are slow
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Sessions
	mux.HandleFunc("POST /session", s.handleCreateSession)
	mux.HandleFunc("GET /session", s.handleGetSession)
	mux.HandleFunc("PATCH /session", s.handleUpdateSession)
	mux.HandleFunc("PATCH /session/presentation", s.handlePatchPresentation)
	mux.HandleFunc("GET /session/insights", s.handleSessionInsights)
	mux.HandleFunc("POST /session/items", s.handleItem)
	mux.HandleFunc("PUT /session/items", s.handleItem)
	mux.HandleFunc("DELETE /session/items", s.handleItem)
	mux.HandleFunc("POST /session/items/reorder", s.handleReorderItems)
	mux.HandleFunc("PUT /session/summary", s.handleUpdateSummary)

	// Intake
	mux.HandleFunc("POST /ai/chat", s.handleChat)
	mux.HandleFunc("POST /ai/buildResumeFromQA", s.handleBuildFromQA)
	mux.HandleFunc("POST /generateFromPrompt", s.handleGenerateFromPrompt)
	mux.HandleFunc("POST /linkedinImport", s.handleLinkedInImport)
	mux.HandleFunc("POST /uploadResume", s.handleUploadResume)

	// Rewriting and review
	mux.HandleFunc("POST /ai/experienceRewrite", s.handleExperienceRewrite)
	mux.HandleFunc("POST /ai/summaryWrite", s.handleSummaryWrite)
	mux.HandleFunc("POST /ai/genericRewrite", s.handleGenericRewrite)
	mux.HandleFunc("POST /ai/generateSkills", s.handleGenerateSkills)
	mux.HandleFunc("POST /ai/reviewResume", s.handleReviewResume)

	// Rendering and export
	mux.HandleFunc("GET /preview", s.handlePreviewSession)
	mux.HandleFunc("POST /preview", s.handlePreviewDocument)
	mux.HandleFunc("GET /download/pdf", s.handleDownloadPDF)
	mux.HandleFunc("GET /download/docx", s.handleDownloadDOCX)

	return s.withRecover(s.withRateLimit(s.withLogging(s.withCORS(mux))))
}

// Start listens until ctx ends, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("[server] listening on %s", ln.Addr())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("[server] shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if s.deps.Limiter != nil {
			s.deps.Limiter.Stop()
		}
		log.Println("[server] stopped")
		return nil
	})

	return g.Wait()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, Retry-After")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	if s.deps.Limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.deps.Limiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRecover turns a handler panic into a 500 INTERNAL_ERROR response.
func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Printf("[server] panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
			s.writeError(w, fmt.Errorf("panic: %v", rec))
		}()
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// requestContext bounds slow work by the configured request timeout.
func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.opts.RequestTimeout)
}

// extractClientID extracts the client identifier from the request.
// X-Forwarded-For is ignored since no proxy is trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":      "Rate limit exceeded. Please try again later.",
		"code":       CodeRateLimited,
		"statusCode": http.StatusTooManyRequests,
		"limit":      info.Limit,
		"remaining":  info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["resetAt"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retryAfter"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d RetryAfter=%s",
		info.Limit, info.Remaining, info.RetryAfter.Round(time.Second))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
