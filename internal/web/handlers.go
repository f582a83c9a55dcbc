package web

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/netgrid/pkg/datagrid"
	"github.com/starfederation/datastar-go/datastar"
)

// ScrollSignals are the signals the grid body posts when it scrolls or
// changes size, in pixels.
type ScrollSignals struct {
	ScrollTop float64 `json:"scrollTop"`
	Height    float64 `json:"height"`
}

func (s *Server) routes(r chi.Router) {
	r.Handle("/static/*", staticHandler())

	r.Get("/", s.Page)
	r.Get("/grid/updates", s.Updates)
	r.Post("/grid/sort/{column}", s.Sort)
	r.Post("/grid/scroll", s.Scroll)
	r.Post("/grid/rows/{index}/select", s.SelectRow)
	r.Post("/grid/rows/{index}/toggle", s.ToggleRow)
}

// Page renders the full page with the current grid.
func (s *Server) Page(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := s.renderPage(&buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// Updates is the long-lived SSE endpoint of the page. It morphs the grid
// each time a new frame is rendered. The current grid is already in the
// page, so nothing is sent on connect.
func (s *Server) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates, unsubscribe := s.updates.subscribe()
	defer unsubscribe()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := s.sendGrid(sse); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (s *Server) sendGrid(sse *datastar.ServerSentEventGenerator) error {
	var buf bytes.Buffer
	if err := s.renderGrid(&buf); err != nil {
		return err
	}
	return sse.PatchElements(buf.String())
}

// Sort cycles the sort of a column, as a header click does.
func (s *Server) Sort(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")
	err := s.mutate(func(g *datagrid.Grid) error {
		return g.OnHeaderClick(column)
	})
	s.respond(w, err)
}

// Scroll applies the scroll position and height of the grid body.
func (s *Server) Scroll(w http.ResponseWriter, r *http.Request) {
	var signals ScrollSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows := float64(s.rowHeight)
	err := s.mutate(func(g *datagrid.Grid) error {
		g.SetViewport(containerUnits, max(signals.Height, 0)/rows)
		g.ScrollTo(max(signals.ScrollTop, 0) / rows)
		return nil
	})
	s.respond(w, err)
}

// SelectRow selects the row at a flattened index.
func (s *Server) SelectRow(w http.ResponseWriter, r *http.Request) {
	s.withRow(w, r, func(g *datagrid.Grid, n *datagrid.Node) error {
		return g.Select(n)
	})
}

// ToggleRow expands or collapses the row at a flattened index and selects
// it.
func (s *Server) ToggleRow(w http.ResponseWriter, r *http.Request) {
	s.withRow(w, r, func(g *datagrid.Grid, n *datagrid.Node) error {
		if n.Expanded() {
			n.Collapse()
		} else {
			n.Expand()
		}
		return g.Select(n)
	})
}

func (s *Server) withRow(w http.ResponseWriter, r *http.Request, fn func(*datagrid.Grid, *datagrid.Node) error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid row index", http.StatusBadRequest)
		return
	}

	found := true
	err = s.mutate(func(g *datagrid.Grid) error {
		flat := g.Flatten()
		if index < 0 || index >= len(flat) {
			found = false
			return nil
		}
		return fn(g, flat[index])
	})
	if !found {
		http.Error(w, "row not found", http.StatusNotFound)
		return
	}
	s.respond(w, err)
}

// respond finishes an action. The new grid reaches the page through the
// updates stream, so a successful action has no body.
func (s *Server) respond(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, datagrid.ErrInvalidParameter), errors.Is(err, datagrid.ErrInvalidNode):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("grid action failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
