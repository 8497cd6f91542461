package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecomdash/internal/analytics"
	"ecomdash/internal/cache"
	"ecomdash/internal/config"
	"ecomdash/internal/core"
	"ecomdash/internal/log"
	"ecomdash/internal/middleware/ratelimit"
	"ecomdash/internal/middleware/security"
	"ecomdash/internal/middleware/trace"
	appweb "ecomdash/web"
)

// Options carries what the dashboard serves. Dataset and Report are
// computed once at startup and never mutated afterwards.
type Options struct {
	Dataset  *core.Dataset
	Report   *analytics.Report
	Panels   config.Panels
	CacheTTL time.Duration
	Logger   *log.Logger
	// RateLimit is the per-client API request budget per minute.
	RateLimit int
}

type Server struct {
	http.Server
	templates  *template.Template
	logger     *log.Logger
	ds         *core.Dataset
	report     *analytics.Report
	highlights analytics.Highlights
	panels     config.Panels

	// Recency tables for reference dates other than the report's.
	recencyCache *cache.LRUCache[[]core.Recency]
	cacheManager *cache.Manager
	limiter      *ratelimit.Limiter

	shutdownOnce sync.Once
}

// routes lists the paths used as metric labels; anything else is "other".
var routes = map[string]bool{
	"/":                      true,
	"/api/summary":           true,
	"/api/best-sellers":      true,
	"/api/cities":            true,
	"/api/recency":           true,
	"/api/recency/histogram": true,
	"/api/frequency":         true,
	"/api/monetary":          true,
	"/healthz":               true,
	"/readyz":                true,
	"/metrics":               true,
}

func routeLabel(r *http.Request) string {
	if routes[r.URL.Path] {
		return r.URL.Path
	}
	if strings.HasPrefix(r.URL.Path, "/static/") {
		return "/static/"
	}
	return "other"
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:       logger.WithComponent(log.ComponentHTTP),
		ds:           opts.Dataset,
		report:       opts.Report,
		panels:       opts.Panels,
		recencyCache: cache.NewLRUCache[[]core.Recency](32, ttl),
		cacheManager: cache.NewManager(logger.WithComponent(log.ComponentCache).Logger),
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimit}),
	}
	if s.report != nil {
		s.highlights = analytics.Highlight(s.report)
	}

	s.cacheManager.Register(s.recencyCache)
	s.cacheManager.StartCleanup(ttl)

	t, err := parseTemplates()
	if err != nil {
		s.logger.WithComponent(log.ComponentTemplate).Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	api := s.limiter.Middleware(security.ClientIP)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /api/summary", api(http.HandlerFunc(s.handleSummary)))
	mux.Handle("GET /api/best-sellers", api(http.HandlerFunc(s.handleBestSellers)))
	mux.Handle("GET /api/cities", api(http.HandlerFunc(s.handleCities)))
	mux.Handle("GET /api/recency", api(http.HandlerFunc(s.handleRecency)))
	mux.Handle("GET /api/recency/histogram", api(http.HandlerFunc(s.handleRecencyHistogram)))
	mux.Handle("GET /api/frequency", api(http.HandlerFunc(s.handleFrequency)))
	mux.Handle("GET /api/monetary", api(http.HandlerFunc(s.handleMonetary)))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	tracer := trace.NewMiddleware(security.ClientIP, routeLabel, log.NewStructuredLogger(s.logger))
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Handler = log.Middleware(s.logger)(tracer.Middleware(headers.Middleware(mux)))

	return s
}

func parseTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// Shutdown stops background cleanup and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.report == nil || s.ds == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("dataset not loaded"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
