package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// HTTPLogger provides leveled logging for the HTTP adapter
type HTTPLogger struct {
	component string
	verbose   bool
	level     entities.LogLevel
}

// NewHTTPLogger creates a logger at info level
func NewHTTPLogger(component string, verbose bool) *HTTPLogger {
	return NewHTTPLoggerWithLevel(component, verbose, entities.LogLevelInfo)
}

// NewHTTPLoggerWithLevel creates a logger with a specific level
func NewHTTPLoggerWithLevel(component string, verbose bool, level entities.LogLevel) *HTTPLogger {
	return &HTTPLogger{
		component: component,
		verbose:   verbose,
		level:     level,
	}
}

var logLevelRank = map[entities.LogLevel]int{
	entities.LogLevelDebug: 0,
	entities.LogLevelInfo:  1,
	entities.LogLevelWarn:  2,
	entities.LogLevelError: 3,
}

func (l *HTTPLogger) shouldLog(msgLevel entities.LogLevel) bool {
	return logLevelRank[msgLevel] >= logLevelRank[l.level]
}

func (l *HTTPLogger) printf(tag string, msgLevel entities.LogLevel, msg string, args []interface{}) {
	if l.shouldLog(msgLevel) {
		log.Printf("["+tag+"] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// Debug logs debug messages
func (l *HTTPLogger) Debug(msg string, args ...interface{}) {
	l.printf("DEBUG", entities.LogLevelDebug, msg, args)
}

// Info logs informational messages
func (l *HTTPLogger) Info(msg string, args ...interface{}) {
	l.printf("INFO", entities.LogLevelInfo, msg, args)
}

// Warn logs warnings
func (l *HTTPLogger) Warn(msg string, args ...interface{}) {
	l.printf("WARN", entities.LogLevelWarn, msg, args)
}

// Error logs errors
func (l *HTTPLogger) Error(msg string, args ...interface{}) {
	l.printf("ERROR", entities.LogLevelError, msg, args)
}

// Request logs one served request, only in verbose mode
func (l *HTTPLogger) Request(msg string, args ...interface{}) {
	if l.verbose {
		l.printf("HTTP", entities.LogLevelInfo, msg, args)
	}
}

// SetLevel updates the logging level
func (l *HTTPLogger) SetLevel(level entities.LogLevel) {
	l.level = level
}

// Options bundles the collaborators of the server
type Options struct {
	Catalog      ports.Catalog
	Decks        ports.DeckService
	Sessions     ports.NavigationSessions
	Renderer     ports.PageRenderer
	EnableSplits bool
	Logging      *entities.LoggingConfig

	// Monitor is optional; a nil monitor records nothing
	Monitor *monitoring.Monitor

	// RenderCache reports markdown cache counters on /health when set
	RenderCache CacheStatsReporter
}

// CacheStatsReporter exposes cache counters
type CacheStatsReporter interface {
	Stats() entities.CacheStats
}

// Server implements the HTTPServer interface
type Server struct {
	server       *http.Server
	connMgr      *ConnectionManager
	catalog      ports.Catalog
	decks        ports.DeckService
	sessions     ports.NavigationSessions
	renderer     ports.PageRenderer
	enableSplits bool
	config       *entities.ServerConfig
	logger       *HTTPLogger
	limiter      *rateLimiter
	monitor      *monitoring.Monitor
	renderCache  CacheStatsReporter
	addr         string
	cancel       context.CancelFunc
	mu           sync.RWMutex
	running      bool
}

var _ ports.HTTPServer = (*Server)(nil)

// NewServer creates a new HTTP server.
// config must not be nil - use config.GetDefaultConfig().Server if needed
func NewServer(opts Options, config *entities.ServerConfig) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid ServerConfig")
	}

	level := entities.LogLevelInfo
	verbose := false
	if opts.Logging != nil {
		level = opts.Logging.GetLevel()
		verbose = opts.Logging.Verbose
	}

	return &Server{
		connMgr:      NewConnectionManager(),
		catalog:      opts.Catalog,
		decks:        opts.Decks,
		sessions:     opts.Sessions,
		renderer:     opts.Renderer,
		enableSplits: opts.EnableSplits,
		config:       config,
		logger:       NewHTTPLoggerWithLevel("server", verbose, level),
		limiter:      newRateLimiter(requestsPerMinute, time.Minute),
		monitor:      opts.Monitor,
		renderCache:  opts.RenderCache,
	}
}

// Start binds the listener and serves in the background
func (s *Server) Start(ctx context.Context, port int, host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}

	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	go s.connMgr.Run(runCtx)
	go s.limiter.cleanupRoutine(runCtx)
	s.monitor.Start(runCtx)

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.GetReadTimeout(),
		WriteTimeout: s.config.GetWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	s.addr = ln.Addr().String()
	s.cancel = cancel
	s.running = true

	go func() {
		s.logger.Info("HTTP server listening on %s", s.addr)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()

	return nil
}

// Stop closes every socket and shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.connMgr.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.GetShutdownTimeout())
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)
	s.cancel()
	s.monitor.Stop()
	s.running = false
	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// NotifyClients sends an update event to all connected clients
func (s *Server) NotifyClients(event ports.UpdateEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.connMgr.Broadcast(event)
	return nil
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the bound address, useful when started on port 0
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Handler returns the full handler chain: CORS, middleware and routes
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.GetCORSOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	return c.Handler(s.setupRoutes())
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	pages := r.PathPrefix("/presentations/{collection}").Subrouter()
	pages.HandleFunc("", s.handleCollectionPage).Methods(http.MethodGet)
	pages.HandleFunc("/presentation/{module}", s.handleDeckPage).Methods(http.MethodGet)
	pages.HandleFunc("/support/{module}", s.handleSupportPage).Methods(http.MethodGet)

	api := r.PathPrefix("/api/collections").Subrouter()
	api.HandleFunc("", s.handleAPICollections).Methods(http.MethodGet)
	api.HandleFunc("/{collection}", s.handleAPICollection).Methods(http.MethodGet)
	api.HandleFunc("/{collection}/modules/{module}/document", s.handleAPIDocument).Methods(http.MethodGet)
	api.HandleFunc("/{collection}/modules/{module}/deck", s.handleAPIDeck).Methods(http.MethodGet)
	api.HandleFunc("/{collection}/modules/{module}/support", s.handleAPISupport).Methods(http.MethodGet)

	r.HandleFunc("/ws/{collection}/{module}", s.handleNavigationSocket)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.handleError(w, fmt.Errorf("%s: %w", req.URL.Path, entities.ErrNotFound), http.StatusNotFound)
	})

	// subrouters swallow method mismatches unless they carry their own handler
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.handleError(w, fmt.Errorf("%s %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed)
	})
	r.MethodNotAllowedHandler = methodNotAllowed
	pages.MethodNotAllowedHandler = methodNotAllowed
	api.MethodNotAllowedHandler = methodNotAllowed

	// security -> rate limiting -> logging -> recovery
	var handler http.Handler = r
	handler = securityHeadersMiddleware(handler)
	handler = s.limiter.middleware(handler)
	handler = createMetricsMiddleware(handler, s.monitor)
	handler = createLoggingMiddleware(handler, s.logger)
	handler = createRecoveryMiddleware(handler, s.logger)

	return handler
}
