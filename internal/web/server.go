// Package web serves the network grid to a browser.
//
// The page is rendered on the server. A long-lived datastar SSE stream
// morphs the grid element whenever the grid renders a new frame, and
// header clicks, row clicks and scrolling are posted back as datastar
// actions. One grid is shared by every connected browser.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/netgrid/internal/capture"
	"github.com/leapstack-labs/netgrid/pkg/datagrid"
	"golang.org/x/sync/errgroup"
)

// DefaultRowHeight is the pixel height of a grid row in the page.
const DefaultRowHeight = 24

// containerUnits is the width handed to the grid. Column widths are shown
// as fractions of it.
const containerUnits = 1000

// Server is the web host of a grid.
type Server struct {
	mu     sync.Mutex
	grid   *datagrid.Grid
	frames *datagrid.ManualFrames
	count  int

	port      int
	rowHeight int
	title     string
	tailer    *capture.Tailer
	logger    *slog.Logger
	updates   *broadcaster
}

// Config holds configuration for the web server.
type Config struct {
	Grid *datagrid.Grid
	// Frames must be the grid's scheduler.
	Frames *datagrid.ManualFrames
	Port   int
	// Title names the capture in the page.
	Title string
	// Tailer, when set, is followed while serving.
	Tailer    *capture.Tailer
	RowHeight int
	Logger    *slog.Logger
}

// NewServer creates a new web server instance.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.RowHeight <= 0 {
		cfg.RowHeight = DefaultRowHeight
	}
	s := &Server{
		grid:      cfg.Grid,
		frames:    cfg.Frames,
		port:      cfg.Port,
		rowHeight: cfg.RowHeight,
		title:     cfg.Title,
		tailer:    cfg.Tailer,
		logger:    cfg.Logger,
		updates:   newBroadcaster(),
	}
	s.grid.SetViewport(containerUnits, 0)
	s.frames.Flush()
	return s
}

// Count returns the number of requests fed so far.
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Feed adds entries to the grid.
func (s *Server) Feed(entries []capture.Entry) error {
	return s.mutate(func(g *datagrid.Grid) error {
		for _, e := range entries {
			s.count += e.Count()
		}
		return capture.Feed(g, entries)
	})
}

// mutate runs fn with the grid locked, renders the pending frame and tells
// every stream when a new frame was rendered.
func (s *Server) mutate(fn func(*datagrid.Grid) error) error {
	s.mu.Lock()
	err := fn(s.grid)
	rendered := s.frames.Flush() > 0
	s.mu.Unlock()

	if rendered {
		s.updates.broadcast()
	}
	return err
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.routes(r)
	return r
}

// Serve starts the web server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting web server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.tailer != nil {
		eg.Go(func() error {
			return s.follow(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down web server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// follow feeds what the tailer reads until ctx is done.
func (s *Server) follow(ctx context.Context) error {
	ch := make(chan []capture.Entry, 16)
	errc := make(chan error, 1)
	go func() {
		errc <- s.tailer.Follow(ctx, ch)
		close(ch)
	}()

	for entries := range ch {
		if err := s.Feed(entries); err != nil {
			s.logger.Error("failed to feed entries", "error", err)
		}
	}
	return <-errc
}
