package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ganot/nossoday/internal/domain/checkout"
	"github.com/ganot/nossoday/internal/domain/couple"
	"github.com/ganot/nossoday/internal/elapsed"
	"github.com/ganot/nossoday/internal/metrics"
)

const (
	// DefaultMaxUploadBytes bounds a create-couple request body.
	DefaultMaxUploadBytes = 64 << 20
	// multipartMemory is how much of a multipart form is held in memory
	// before spilling to temporary files.
	multipartMemory = 8 << 20
)

// CoupleService defines couple operations needed by HTTP handlers.
type CoupleService interface {
	Create(ctx context.Context, req couple.CreateRequest) (*couple.Couple, error)
	Elapsed(ctx context.Context, id string) (*couple.Elapsed, error)
	Page(ctx context.Context, id string) (*couple.Page, error)
	Counter(ctx context.Context, id string, interval time.Duration, sink elapsed.Sink) (*elapsed.Counter, error)
}

// CheckoutService defines checkout operations needed by HTTP handlers.
type CheckoutService interface {
	CreateSession(ctx context.Context, plan, coupleID string) (*checkout.Session, error)
	Complete(ctx context.Context, sessionID, coupleID string) (*checkout.Confirmation, error)
}

// PageRenderer renders HTML pages.
type PageRenderer interface {
	Couple(w io.Writer, page *couple.Page, streamURL string) error
	Success(w io.Writer, conf *checkout.Confirmation) error
}

// Options configures the HTTP server.
type Options struct {
	Couples  CoupleService
	Checkout CheckoutService
	Renderer PageRenderer
	// Metrics is optional. When set, requests are instrumented and
	// /metrics is served.
	Metrics *metrics.Metrics
	// MCP is mounted at /mcp when set.
	MCP http.Handler
	// UploadsDir is served at /uploads when set.
	UploadsDir     string
	StreamInterval time.Duration
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	couples        CoupleService
	checkout       CheckoutService
	renderer       PageRenderer
	metrics        *metrics.Metrics
	streamInterval time.Duration
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv := &Server{
		couples:        opts.Couples,
		checkout:       opts.Checkout,
		renderer:       opts.Renderer,
		metrics:        opts.Metrics,
		streamInterval: opts.StreamInterval,
		maxUploadBytes: opts.MaxUploadBytes,
		logger:         logger,
	}
	if srv.streamInterval <= 0 {
		srv.streamInterval = elapsed.DefaultInterval
	}
	if srv.maxUploadBytes <= 0 {
		srv.maxUploadBytes = DefaultMaxUploadBytes
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Post("/create-couple", srv.handleCreateCouple)

	r.Route("/couple/{id}", func(r chi.Router) {
		r.Get("/", srv.handleCouplePage)
		r.Get("/elapsed", srv.handleElapsed)
		r.Get("/elapsed/stream", srv.handleElapsedStream)
	})

	// Checkout is disabled when no payment provider is configured.
	if opts.Checkout != nil {
		r.Post("/create-checkout-session", srv.handleCreateCheckoutSession)
		r.Get("/success", srv.handleSuccess)
		r.Get("/cancel", srv.handleCancel)
	}
	r.Get("/health", srv.handleHealth)

	if opts.UploadsDir != "" {
		r.Handle("/uploads/*", uploadsHandler(opts.UploadsDir))
	}
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// uploadsHandler serves stored photos without directory listings.
func uploadsHandler(dir string) http.Handler {
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}
