package dev

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/loom"
)

// Page is a template and the values it renders with.
type Page struct {
	Template *loom.Template
	Values   []any
}

// Loader produces the page to serve. It runs at start and after every
// watched change.
type Loader func() (*Page, error)

// Options configures a Server.
type Options struct {
	// Addr is the listen address, such as "localhost:3000".
	Addr string

	Env  *loom.Environment
	Load Loader

	// Watch lists the files and directories whose changes reload the page.
	Watch []string

	// Reload injects the reload client and notifies browsers on change.
	Reload bool

	Logger *slog.Logger
}

// Server is the preview server.
type Server struct {
	opts   Options
	hub    *Hub
	router chi.Router

	mu      sync.RWMutex
	page    *Page
	loadErr error

	// renderMu serializes renders; an Environment builds one result at a time.
	renderMu sync.Mutex
}

// NewServer creates a Server and performs the first load. A load error is
// kept and shown in the browser rather than returned.
func NewServer(opts Options) *Server {
	if opts.Env == nil {
		opts.Env = loom.Default()
	}
	if opts.Logger == nil {
		opts.Logger = opts.Env.Logger()
	}
	s := &Server{opts: opts, hub: NewHub()}
	s.router = s.routes()
	s.Refresh()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handlePage)
	r.Get("/_loom/program", s.handleProgram)
	r.Handle(ReloadPath, s.hub)
	if m := s.opts.Env.Metrics(); m != nil && m.Gatherer() != nil {
		r.Handle("/metrics", promhttp.HandlerFor(m.Gatherer(), promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the reload hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Refresh reloads the page and notifies browsers.
func (s *Server) Refresh() error {
	page, err := s.opts.Load()
	if err == nil && page == nil {
		err = errors.New("loader returned no page")
	}

	s.mu.Lock()
	if err != nil {
		s.loadErr = err
	} else {
		s.page, s.loadErr = page, nil
	}
	s.mu.Unlock()

	if err != nil {
		s.opts.Logger.Error("preview load failed", "error", err)
		if s.opts.Reload {
			s.hub.Error(err.Error())
		}
		return err
	}
	if s.opts.Reload {
		s.hub.Clear()
		s.hub.Reload()
	}
	return nil
}

func (s *Server) current() (*Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page, s.loadErr
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := s.current()
	var body string
	if err == nil {
		s.renderMu.Lock()
		body, err = s.opts.Env.RenderHTML(page.Template, page.Values...)
		s.renderMu.Unlock()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		body = errorPage(err)
	}
	if s.opts.Reload {
		body = injectScript(body)
	}
	fmt.Fprint(w, body)
}

func (s *Server) handleProgram(w http.ResponseWriter, r *http.Request) {
	page, err := s.current()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// Compile goes through the cache, which is safe for concurrent use.
	prog, err := s.opts.Env.Compile(page.Template)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, prog.String())
}

// Start serves until ctx is done, re-loading on watched changes.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if len(s.opts.Watch) > 0 {
		w, err := NewWatcher(WatcherConfig{Paths: s.opts.Watch, Logger: s.opts.Logger})
		if err != nil {
			return err
		}
		defer w.Close()
		w.OnChange(func(changes []Change) {
			s.opts.Logger.Info("change detected", "files", len(changes), "first", changes[0].Path)
			s.Refresh()
		})
		go w.Run(ctx)
	}

	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.opts.Logger.Info("preview server listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.hub.Close()
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}

func errorPage(err error) string {
	return "<!DOCTYPE html><html><head><title>loom error</title></head><body><pre>" +
		html.EscapeString(err.Error()) + "</pre></body></html>"
}

func injectScript(body string) string {
	if i := strings.LastIndex(body, "</body>"); i >= 0 {
		return body[:i] + ClientScript + body[i:]
	}
	return body + ClientScript
}
