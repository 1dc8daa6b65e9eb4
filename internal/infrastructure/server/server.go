package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/browsim/internal/api/http"
	"github.com/GriffinCanCode/browsim/internal/api/middleware"
	"github.com/GriffinCanCode/browsim/internal/api/ws"
	"github.com/GriffinCanCode/browsim/internal/domain/history"
	"github.com/GriffinCanCode/browsim/internal/domain/navigation"
	"github.com/GriffinCanCode/browsim/internal/domain/resolver"
	"github.com/GriffinCanCode/browsim/internal/domain/tabs"
	"github.com/GriffinCanCode/browsim/internal/infrastructure/config"
	"github.com/GriffinCanCode/browsim/internal/infrastructure/logging"
	"github.com/GriffinCanCode/browsim/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/browsim/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/browsim/internal/providers/storage"
)

// sqliteFile is the database name inside STORAGE_PATH for the sqlite driver
const sqliteFile = "browsim.db"

// Server wraps the HTTP server and dependencies
type Server struct {
	config      *config.Config
	logger      *logging.Logger
	metrics     *monitoring.Metrics
	store       storage.Store
	coordinator *navigation.Coordinator
	hub         *ws.Hub
	router      *gin.Engine
	handler     http.Handler
	httpServer  *http.Server
}

// NewServer creates a new server instance with a logger built from cfg
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.ConfigFor(cfg.Logging.Level, cfg.Logging.Development))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return NewWithLogger(cfg, logger)
}

// NewWithLogger creates a server that logs through logger
func NewWithLogger(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Initializing browsim server",
		zap.String("addr", cfg.Addr()),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("locale", cfg.Navigation.Locale),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	store, err := openStore(cfg, logger, metrics)
	if err != nil {
		return nil, err
	}

	res, err := resolver.New(cfg.Navigation.SearchEndpoint)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	historyStore := history.NewStore(store,
		history.WithKey(cfg.Storage.HistoryKey),
		history.WithLogger(logger.Named("history")),
	)
	coordinator := navigation.New(res, tabs.New(), historyStore,
		navigation.WithLogger(logger.Named("navigation")),
		navigation.WithRecorder(metrics),
	)

	// A failed read leaves history empty; the server still starts
	if err := coordinator.Hydrate(context.Background()); err != nil {
		logger.Error("Failed to load history", zap.Error(err))
	} else {
		logger.Info("History loaded", zap.Int("entries", historyStore.Len()))
	}

	hub := ws.NewHub(coordinator,
		ws.WithLogger(logger.Named("ws")),
		ws.WithRecorder(metrics),
	)

	router := newRouter(cfg, logger, metrics)
	handlers := apihttp.NewHandlers(coordinator,
		history.NewFormatter(cfg.Navigation.Locale),
		metrics,
		logger.Named("http"),
	)
	apihttp.RegisterRoutes(router, handlers)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/ws", hub.HandleConnection)

	var handler http.Handler = router
	if cfg.Server.Gzip {
		handler = withCompression(router)
	}

	logger.Info("Server initialized successfully")

	return &Server{
		config:      cfg,
		logger:      logger,
		metrics:     metrics,
		store:       store,
		coordinator: coordinator,
		hub:         hub,
		router:      router,
		handler:     handler,
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Coordinator returns the navigation coordinator
func (s *Server) Coordinator() *navigation.Coordinator {
	return s.coordinator
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var errs []error
	// Shutdown also makes a later Run return immediately
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop http server: %w", err))
	}

	// Hijacked WebSocket connections are not tracked by Shutdown
	s.hub.Close()

	if err := s.store.Close(); err != nil {
		s.logger.Error("Failed to close storage", zap.Error(err))
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}

	// Sync logger before exit
	s.logger.Sync()

	return errors.Join(errs...)
}

func openStore(cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics) (storage.Store, error) {
	path := cfg.Storage.Path
	if cfg.Storage.Driver == storage.DriverSQLite {
		path = filepath.Join(path, sqliteFile)
	}

	backend, err := storage.Open(cfg.Storage.Driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	logger.Info("Storage opened",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("path", path),
	)

	storeLogger := logger.Named("storage")
	breaker := resilience.New("history-store", resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: storage.IsNotFoundSuccess,
		IsExcluded:   storage.IsCallerCanceled,
		OnStateChange: func(name string, from, to resilience.State) {
			storeLogger.Warn("Storage circuit breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return storage.Instrument(storage.Guard(backend, breaker), metrics.ObserveStorage), nil
}

func newRouter(cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics) *gin.Engine {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(middleware.Recovery(logger.Logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Named("access")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}
	return router
}

// withCompression gzips HTTP responses. WebSocket upgrades bypass the
// wrapper since it cannot hand over the raw connection.
func withCompression(next http.Handler) http.Handler {
	gz := gzhttp.GzipHandler(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			next.ServeHTTP(w, r)
			return
		}
		gz.ServeHTTP(w, r)
	})
}
