// Package gridplan serves a profile grid planner: an 18-cell grid that
// mimics a social-media profile, a panel of uploaded images, drag-and-drop
// rearrangement and inline editing of the profile header.
//
// Plans live in memory, one per browser session, and are dropped when the
// session goes idle. Nothing is written to disk.
package gridplan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/gridplan/planner"
	"github.com/eringen/gridplan/views"
)

// ViewFuncs holds the components the handlers render. DefaultViews returns
// the built-in set; callers may override any of them with WithViews.
type ViewFuncs struct {
	Page         func(v views.PlannerView) templ.Component
	Planner      func(v views.PlannerView) templ.Component
	FieldDisplay func(f views.FieldView) templ.Component
	FieldEditor  func(f views.FieldView) templ.Component
	NotFound     func() templ.Component
	ServerError  func() templ.Component
}

// DefaultViews returns the built-in components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Page:         views.Page,
		Planner:      views.Planner,
		FieldDisplay: views.FieldDisplay,
		FieldEditor:  views.FieldEditor,
		NotFound:     views.NotFound,
		ServerError:  views.ServerError,
	}
}

// App is the central gridplan application. It wires together the workspace
// registry, the upload pipeline, handlers, middleware and views.
type App struct {
	Config   Config
	Echo     *echo.Echo
	Registry *Registry
	Views    ViewFuncs

	log           *slog.Logger
	plannerLog    *slog.Logger
	decoder       planner.Decoder
	uploadLimiter *UploadLimiter
	customRoutes  []func(*App)
	ready         bool
}

// New creates a new gridplan App with the given configuration.
func New(cfg Config, logger *slog.Logger, opts ...Option) *App {
	cfg.setDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config:     cfg,
		Echo:       e,
		Views:      DefaultViews(),
		log:        logger.With(slog.String("component", "http")),
		plannerLog: logger,
		decoder:    ImageDecoder{MaxSize: cfg.MaxUploadSize},
	}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Setup initializes the registry, middleware and routes without listening.
// Start calls it; tests call it directly and drive a.Echo.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("gridplan: %w", err)
		}
		a.Config.SessionSecret = secret
		a.log.Warn("no session secret configured; sessions end when the server restarts")
	}

	a.Registry = NewRegistry(a.Config.WorkspaceTTL, a.newPlanner)
	a.uploadLimiter = NewUploadLimiter(a.Config.UploadsPerMinute, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

func (a *App) newPlanner() *planner.Planner {
	return planner.New(a.decoder,
		planner.WithDecodeWorkers(a.Config.DecodeWorkers),
		planner.WithLogger(a.plannerLog))
}

// Start sets the app up and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.log.Info("listening", slog.String("addr", a.Config.Addr))
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully and releases background workers.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	a.Close()
	return err
}

func (a *App) setupRoutes() {
	e := a.Echo

	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/*", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(assets)))))

	e.GET("/", a.handleHome)
	e.GET("/api/state", a.handleState)

	bodyLimit := middleware.BodyLimit(strconv.FormatInt(a.Config.MaxUploadSize*maxFilesPerRequest+uploadBodySlop, 10))
	e.POST("/upload/target", a.handleUploadTarget)
	e.POST("/upload", a.handleUpload, consumeTargetOnError, bodyLimit)

	e.POST("/drag/start", a.handleDragStart)
	e.POST("/drag/drop", a.handleDrop)
	e.POST("/drag/end", a.handleDragEnd)

	e.DELETE("/grid/:index", a.handleGridDelete)
	e.DELETE("/panel/:id", a.handlePanelDelete)

	e.GET("/profile/edit/:field", a.handleFieldEdit)
	e.POST("/profile/edit/:field", a.handleFieldCommit)
	e.POST("/profile/edit/:field/cancel", a.handleFieldCancel)
	e.POST("/highlights/:id/name/edit", a.handleHighlightEdit)
	e.POST("/highlights/:id/name", a.handleHighlightName)
	e.POST("/highlights/:id/name/cancel", a.handleHighlightCancel)
}

// Close releases background workers. Call this when the app is shutting down.
func (a *App) Close() {
	if a.Registry != nil {
		a.Registry.Close()
	}
	if a.uploadLimiter != nil {
		a.uploadLimiter.Stop()
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
