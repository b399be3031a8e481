// Package server hosts a surface over HTTP.
//
// The server owns one [cloud.Surface] and serializes every request against it
// with a mutex, so the single-threaded core can be driven by any number of
// clients. An optional ticker advances the physics in real time; without it
// clients step the simulation explicitly with POST /step.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bubblecloud/pkg/cloud"
	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/physics"
	"github.com/matzehuels/bubblecloud/pkg/store"
)

const (
	defaultNodeRadius = 30.0
	shutdownTimeout   = 10 * time.Second
)

// Config controls the HTTP host.
type Config struct {
	Addr string
	// TickRate is the number of physics steps per second. Zero disables
	// the background ticker.
	TickRate int
	// NodeRadius is used by POST /nodes when the request omits a radius.
	NodeRadius float64
	// Physics configures the integrator of restored surfaces.
	Physics physics.Config
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithStore enables the /snapshots routes.
func WithStore(st store.Store) Option { return func(s *Server) { s.store = st } }

// Server serves a single surface.
type Server struct {
	cfg    Config
	logger *log.Logger
	store  store.Store

	mu      sync.Mutex
	surface *cloud.Surface
	events  *eventLog
	pointer geom.Vec
	pressed bool
}

// New creates a server around surface. The server installs its own
// listener on the surface to record selection events.
func New(surface *cloud.Surface, cfg Config, opts ...Option) *Server {
	if cfg.NodeRadius <= 0 {
		cfg.NodeRadius = defaultNodeRadius
	}
	s := &Server{cfg: cfg, events: newEventLog(maxEvents)}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.attach(surface)
	return s
}

// attach makes surface the served surface. Callers hold mu or own s
// exclusively.
func (s *Server) attach(surface *cloud.Surface) {
	surface.SetListener(cloud.ListenerFuncs{
		Select:   func(n *cloud.Node) { s.events.add(EventSelect, n.ID()) },
		Deselect: func(n *cloud.Node) { s.events.add(EventDeselect, n.ID()) },
	})
	s.surface = surface
	s.pressed = false
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Post("/surface/size", s.handleResize)

	r.Post("/nodes", s.handleAddNode)
	r.Delete("/nodes/{id}", s.handleRemoveNode)

	r.Route("/pointer", func(r chi.Router) {
		r.Post("/down", s.handlePointerDown)
		r.Post("/move", s.handlePointerMove)
		r.Post("/up", s.handlePointerUp)
		r.Post("/cancel", s.handlePointerCancel)
	})

	r.Post("/step", s.handleStep)
	r.Get("/snapshot", s.handleSnapshot)
	r.Get("/selection", s.handleSelection)
	r.Put("/selection/mode", s.handleSelectionMode)
	r.Delete("/selection", s.handleDeselectAll)
	r.Get("/events", s.handleEvents)
	r.Get("/render.svg", s.handleRenderSVG)

	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", s.handleListSnapshots)
		r.Put("/{name}", s.handleSaveSnapshot)
		r.Post("/{name}/restore", s.handleRestoreSnapshot)
		r.Delete("/{name}", s.handleDeleteSnapshot)
	})

	return r
}

// Tick advances the simulation by dt seconds.
func (s *Server) Tick(dt float64) {
	s.mu.Lock()
	s.surface.Step(dt)
	s.mu.Unlock()
}

// Run serves until ctx is cancelled, then shuts down gracefully. The
// background ticker is stopped before Run returns, including when the
// listener fails to start.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	var ticking sync.WaitGroup
	defer func() {
		cancel()
		ticking.Wait()
	}()

	if s.cfg.TickRate > 0 {
		ticking.Add(1)
		go func() {
			defer ticking.Done()
			s.tick(ctx, time.Second/time.Duration(s.cfg.TickRate))
		}()
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "tick_rate", s.cfg.TickRate)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) tick(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
