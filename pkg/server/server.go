package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/storygraph/pkg/canvas"
	"github.com/matzehuels/storygraph/pkg/export"
	"github.com/matzehuels/storygraph/pkg/generator"
	"github.com/matzehuels/storygraph/pkg/layout"
)

// DefaultMaxCanvases bounds how many canvases a server hosts at once.
const DefaultMaxCanvases = 256

// maxBodyBytes caps request bodies (stories, briefs, actions).
const maxBodyBytes = 8 << 20

// Options configures a Server.
type Options struct {
	Canvas   canvas.Config
	Layouter *layout.Layouter

	// Generator backs POST /api/generate. Nil disables the endpoint.
	Generator generator.Generator

	// S3 backs uploads from POST /api/canvases/{id}/export.
	S3 export.S3Config

	MaxCanvases    int
	AllowedOrigins []string
}

// Server hosts canvases over HTTP and WebSocket. Canvases live in an LRU;
// the least recently used one is dropped when MaxCanvases is exceeded.
type Server struct {
	opts     Options
	logger   *log.Logger
	sessions *lru.Cache[string, *session]
	upgrader websocket.Upgrader
	router   chi.Router
}

// New returns a server ready to serve.
func New(opts Options, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxCanvases <= 0 {
		opts.MaxCanvases = DefaultMaxCanvases
	}
	if opts.Layouter == nil {
		opts.Layouter = layout.New(nil, logger)
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	sessions, err := lru.NewWithEvict[string, *session](opts.MaxCanvases, func(id string, s *session) {
		s.close()
		logger.Debug("canvas evicted", "id", id)
	})
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:     opts,
		logger:   logger,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Len returns the number of hosted canvases.
func (s *Server) Len() int { return s.sessions.Len() }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Route("/canvases", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Delete("/", s.handleDelete)
				r.Get("/svg", s.handleSVG)
				r.Get("/png", s.handlePNG)
				r.Get("/analysis", s.handleAnalysis)
				r.Get("/export", s.handleDownload)
				r.Post("/export", s.handleUpload)
				r.Post("/actions", s.handleAction)
				r.Get("/ws", s.handleWS)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.sessions.Purge()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()))
		})
	}
}
