// Package http exposes the tracker as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"paisa/internal/advisor"
	"paisa/internal/cache"
	"paisa/internal/log"
	"paisa/internal/services"
)

type Server struct {
	http.Server

	budget  *services.BudgetService
	advisor *advisor.Advisor

	structLog   *log.StructuredLogger
	rateLimiter *rateLimiter

	// Month summaries are the only expensive read; they are cached and
	// invalidated wholesale on every ledger write.
	summaryCache *cache.LRUCache[*services.MonthSummary]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, budget *services.BudgetService, adv *advisor.Advisor) *Server {
	mux := http.NewServeMux()

	summaryCache := cache.NewLRUCache[*services.MonthSummary](100, 5*time.Minute)
	manager := cache.NewManager()
	manager.Register(summaryCache)
	manager.StartCleanup(10 * time.Minute)

	httpLogger := log.New(log.Config{Component: log.ComponentHTTP})

	// Every request gets a context logger carrying the request ID.
	handler := log.Middleware(httpLogger)(log.RequestIDMiddleware(requestIDFor)(mux))

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: handler,
		},
		budget:       budget,
		advisor:      adv,
		structLog:    log.NewStructuredLogger(httpLogger),
		rateLimiter:  newRateLimiter(),
		summaryCache: summaryCache,
		cacheManager: manager,
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/api/expenses", s.withMiddleware(s.handleExpenses))
	mux.HandleFunc("/api/expenses/", s.withMiddleware(s.handleExpenseByID))
	mux.HandleFunc("/api/subscriptions", s.withMiddleware(s.handleSubscriptions))
	mux.HandleFunc("/api/subscriptions/", s.withMiddleware(s.handleSubscriptionByID))
	mux.HandleFunc("/api/subscriptions/upcoming", s.withMiddleware(s.handleUpcomingSubscriptions))
	mux.HandleFunc("/api/wishlist", s.withMiddleware(s.handleWishlist))
	mux.HandleFunc("/api/wishlist/", s.withMiddleware(s.handleWishlistByID))
	mux.HandleFunc("/api/wishlist/affordable", s.withMiddleware(s.handleAffordableWishlist))
	mux.HandleFunc("/api/caps", s.withMiddleware(s.handleCaps))
	mux.HandleFunc("/api/splits", s.withMiddleware(s.handleSplits))
	mux.HandleFunc("/api/splits/", s.withMiddleware(s.handleSplitByID))
	mux.HandleFunc("/api/budget", s.withMiddleware(s.handleBudget))
	mux.HandleFunc("/api/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("/api/report/weekly", s.withMiddleware(s.handleWeeklyReport))
	mux.HandleFunc("/api/advisor", s.withMiddleware(s.handleAdvisor))
	mux.HandleFunc("/api/feedback", s.withMiddleware(s.handleFeedback))

	return s
}

// requestIDFor reuses an upstream X-Request-ID when present, otherwise
// mints one.
func requestIDFor(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return generateRequestID()
}

// withMiddleware adds rate limiting on writes, security headers, and
// request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := r.Context()
		clientIP := extractClientIP(r)

		s.structLog.LogHTTPStart(ctx, r, clientIP)

		if isWrite(r.Method) && !s.rateLimiter.allow(clientIP) {
			log.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.structLog.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// invalidateSummaries drops every cached month summary. Called after any
// write that changes aggregation inputs.
func (s *Server) invalidateSummaries() {
	s.summaryCache.DeletePrefix("summary:")
}

// Shutdown stops the cleanup goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
