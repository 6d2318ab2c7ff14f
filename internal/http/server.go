// Package http exposes the transaction store over a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"finanse/internal/core"
	applog "finanse/internal/log"
	"finanse/internal/middleware/ratelimit"
	"finanse/internal/middleware/security"
	"finanse/internal/middleware/trace"
)

// maxBodyBytes caps POST bodies.
const maxBodyBytes = 1 << 20

// TransactionService is the application surface the API needs.
type TransactionService interface {
	List(ctx context.Context) ([]core.Transaction, error)
	Create(ctx context.Context, nt core.NewTransaction) (core.Transaction, error)
	Summary(ctx context.Context) (core.Metrics, error)
	Ready(ctx context.Context) error
}

type Options struct {
	AllowedOrigins []string
	// RateLimitPerMinute caps POST /transactions per client IP; 0 disables it.
	RateLimitPerMinute int
	// TrustedProxies are CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string
	Logger         *applog.Logger
}

type Server struct {
	http.Server
	svc          TransactionService
	limiter      *ratelimit.Limiter
	tracer       *trace.Middleware
	shutdownOnce sync.Once
}

func NewServer(addr string, svc TransactionService, opts Options) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Logger == nil {
		opts.Logger = applog.Default(applog.ComponentHTTP)
	}

	ipExtractor := security.NewClientIPExtractor()
	for _, cidr := range opts.TrustedProxies {
		if err := ipExtractor.AddTrustedProxy(cidr); err != nil {
			opts.Logger.WarnContext(context.Background(), "Ignoring trusted proxy", applog.FieldError, err.Error())
		}
	}

	s := &Server{
		svc:    svc,
		tracer: trace.NewMiddleware(ipExtractor.ExtractClientIP, opts.Logger),
	}

	var create http.Handler = http.HandlerFunc(s.handleCreateTransaction)
	if opts.RateLimitPerMinute > 0 {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
			CleanupInterval:   5 * time.Minute,
		})
		create = s.limiter.Middleware(ipExtractor.ExtractClientIP, writeRateLimited)(create)
	}

	r := mux.NewRouter()
	r.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	r.Handle("/transactions", create).Methods(http.MethodPost)
	r.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	var handler http.Handler = r
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = security.NewCORS(opts.AllowedOrigins).Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Shutdown stops the rate limiter and gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// Stats are the request counters reported at shutdown.
type Stats struct {
	trace.Metrics
	RateLimited int64
}

// Stats returns request counters from the trace middleware and the limiter.
func (s *Server) Stats() Stats {
	st := Stats{Metrics: s.tracer.GetMetrics()}
	if s.limiter != nil {
		st.RateLimited = s.limiter.Rejected()
	}
	return st
}
