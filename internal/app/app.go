// Package app wires configuration, services, transport, and background
// workers into the net worth race web server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"nwcli/internal/config"
	apierrors "nwcli/internal/errors"
	"nwcli/internal/infrastructure"
	customMiddleware "nwcli/internal/middleware"
	"nwcli/internal/services"
	"nwcli/internal/sheets"
	handlers "nwcli/internal/transport/http"
	"nwcli/internal/watcher"
	ws "nwcli/internal/websocket"
)

const (
	Version = "v1.0.0"
	AppName = "Net Worth Race"
)

// BuildTime is set at compile time via -ldflags.
var BuildTime = "unknown"

// Application is the dependency container for the web server.
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	WebSocketHub  *ws.Hub
	DataService   *services.DataService
	HealthService *services.HealthService
	InputWatcher  *watcher.InputWatcher
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	DashboardFS   fs.FS
}

// NewApplication builds the application with its full dependency graph.
// dashboardFS carries the embedded dashboard assets.
func NewApplication(dashboardFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	paths, err := resolvePaths(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		DashboardFS:   dashboardFS,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// resolvePaths builds the path layout, honoring config overrides.
func resolvePaths(cfg *config.Config) (*config.Paths, error) {
	if cfg.Paths.DataDir != "" {
		paths := config.NewPaths(cfg.Paths.DataDir)
		// DataDir overrides anchor the whole layout at that directory.
		if cfg.Paths.LogsDir != "" {
			paths.LogsDir = cfg.Paths.LogsDir
		}
		return paths, nil
	}
	return config.GetPaths()
}

func (a *Application) initializeServices() error {
	hub := ws.NewHub(a.Logger)
	hub.Start()
	a.WebSocketHub = hub

	dataService := services.NewDataService(a.Config, a.Paths, a.Logger)
	if metrics, err := infrastructure.CreateBusinessMetrics(a.OTelProviders.Meter); err != nil {
		a.Logger.Warn("business metrics unavailable", slog.String("error", err.Error()))
	} else {
		dataService.SetMetrics(metrics)
	}
	a.DataService = dataService

	a.HealthService = services.NewHealthService(Version, BuildTime, dataService, hub, a.Logger)

	// Optionally pull the survey worksheet from Google Sheets before the
	// first load. A failed pull falls back to whatever CSV is on disk.
	a.syncFromSheets(context.Background())

	// Initial load is best effort: the server starts degraded and recovers
	// when the watcher sees valid input files.
	if err := dataService.Load(context.Background()); err != nil {
		a.Logger.Warn("initial dataset load failed, serving degraded until inputs appear",
			slog.String("error", err.Error()))
	}

	inputWatcher, err := watcher.New(a.Paths.InputDir, a.onInputChanged, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create input watcher: %w", err)
	}
	a.InputWatcher = inputWatcher

	return nil
}

// syncFromSheets downloads the participant worksheet when a spreadsheet is
// configured. Missing configuration is not an error.
func (a *Application) syncFromSheets(ctx context.Context) {
	client, err := sheets.NewClient(ctx, a.Paths.CredentialsPath, a.Config.Sheets, a.Logger)
	if err != nil {
		if errors.Is(err, sheets.ErrNotConfigured) {
			return
		}
		a.Logger.Warn("google sheets unavailable, using local CSV",
			slog.String("error", err.Error()))
		return
	}

	if err := client.DownloadParticipants(ctx, a.Paths.ParticipantsPath()); err != nil {
		a.Logger.Warn("failed to download participant worksheet",
			slog.String("error", err.Error()))
		return
	}

	a.Logger.Info("participant worksheet synced from google sheets",
		slog.String("path", a.Paths.ParticipantsPath()))
}

// onInputChanged reloads the dataset and notifies connected dashboards.
func (a *Application) onInputChanged(ctx context.Context, changed []string) {
	if err := a.DataService.Load(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "reload after input change failed",
			slog.String("error", err.Error()))
		return
	}

	a.WebSocketHub.BroadcastDataUpdate("dataset", map[string]interface{}{
		"files": changed,
	})
	a.WebSocketHub.BroadcastRefresh()
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Minimal middleware outside the group so the WebSocket upgrade never
	// sees a wrapped ResponseWriter.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.HandleFunc("/ws", a.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.corsConfig()))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
		a.setupDashboardRoutes(r)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.GetVersion)

		errorHandler := apierrors.NewErrorHandler(a.Logger, false)
		dataHandler := handlers.NewDataHandler(a.DataService, a.Logger, errorHandler)
		r.Mount("/data", dataHandler.Routes())
	})
}

// setupDashboardRoutes serves the embedded single-page dashboard.
func (a *Application) setupDashboardRoutes(r chi.Router) {
	if a.DashboardFS == nil {
		a.Logger.Warn("dashboard assets not embedded, UI routes disabled")
		return
	}

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Compress(5))
		r.Get("/*", a.serveDashboard)
	})
}

func (a *Application) serveDashboard(w http.ResponseWriter, r *http.Request) {
	urlPath := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if urlPath == "" || urlPath == "." {
		urlPath = "index.html"
	}

	file, err := a.DashboardFS.Open(urlPath)
	if err != nil {
		// SPA fallback keeps deep links working.
		file, err = a.DashboardFS.Open("index.html")
		if err != nil {
			http.Error(w, "dashboard not available", http.StatusServiceUnavailable)
			return
		}
		urlPath = "index.html"
	}
	defer file.Close()

	w.Header().Set("Content-Type", contentTypeFor(urlPath))
	if urlPath == "index.html" {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=86400")
	}

	io.Copy(w, file)
}

func contentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".js":
		return "application/javascript"
	case ".css":
		return "text/css"
	case ".json":
		return "application/json"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}

func (a *Application) corsConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// handleWebSocket upgrades the connection and hands it to the hub.
func (a *Application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := ws.Upgrader(
		a.Config.WebSocket.ReadBufferSize,
		a.Config.WebSocket.WriteBufferSize,
		a.Config.Security.AllowedOrigins,
	)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.Logger.ErrorContext(r.Context(), "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("origin", r.Header.Get("Origin")))
		return
	}

	client := ws.NewClient(a.WebSocketHub, conn, a.Logger)
	client.Register()

	a.Logger.InfoContext(r.Context(), "WebSocket client connected",
		slog.String("remote_addr", r.RemoteAddr))
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run starts the server and background workers, blocking until the context
// is cancelled or a SIGINT/SIGTERM arrives.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.InputWatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start input watcher: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("HTTP server listening",
			slog.String("addr", a.Server.Addr),
			slog.String("url", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})

	err := g.Wait()
	a.Logger.Info("Application shutdown complete")
	return err
}

func (a *Application) shutdown() error {
	a.Logger.Info("Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}

	if err := a.InputWatcher.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("watcher stop: %w", err))
	}

	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("otel shutdown: %w", err))
		}
	}

	infrastructure.CloseLogFile()

	return errors.Join(errs...)
}
