package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/leapstack-labs/netgrid/pkg/datagrid"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// staticHandler serves the embedded assets under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	fileServer := http.FileServer(http.FS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		http.StripPrefix("/static/", fileServer).ServeHTTP(w, r)
	})
}

type pageView struct {
	Title string
	Grid  gridView
}

type gridView struct {
	Header        []headerView
	Rows          []rowView
	TopPadding    int
	BottomPadding int
	RowHeight     int
	Requests      int
	TotalRows     int
	Sort          string
}

type headerView struct {
	ID        string
	Title     string
	Indicator string
	Width     string
	Align     string
	Sortable  bool
}

type rowView struct {
	Index      int
	Selected   bool
	Expandable bool
	Expanded   bool
	Cells      []cellView
}

type cellView struct {
	Text       string
	Width      string
	Align      string
	Tree       bool
	Indent     int
	Disclosure string
	Class      string
}

// gridViewOf converts a rendered frame into template data. Widths are
// shown as percentages of the container.
func (s *Server) gridViewOf(frame datagrid.Frame, sort datagrid.SortState) gridView {
	total := 0
	for _, h := range frame.Header {
		total += h.Width
	}
	percent := func(w int) string {
		if total == 0 {
			return "0%"
		}
		return fmt.Sprintf("%.2f%%", float64(w)*100/float64(total))
	}

	v := gridView{
		TopPadding:    int(frame.TopPadding * float64(s.rowHeight)),
		BottomPadding: int(frame.BottomPadding * float64(s.rowHeight)),
		RowHeight:     s.rowHeight,
		Requests:      s.count,
		TotalRows:     frame.TotalRows,
	}
	if sort.Active() {
		v.Sort = sort.ColumnID + " " + sort.Direction.String()
	}

	for _, h := range frame.Header {
		if h.Width <= 0 {
			continue
		}
		v.Header = append(v.Header, headerView{
			ID:        url.PathEscape(h.ColumnID),
			Title:     h.Title,
			Indicator: h.SortIndicator,
			Width:     percent(h.Width),
			Align:     alignClass(h.Align),
			Sortable:  h.Sortable,
		})
	}

	for i, row := range frame.Rows {
		rv := rowView{
			Index:      frame.Offset + i,
			Selected:   row.Selected(),
			Expandable: row.Expandable(),
			Expanded:   row.Expanded(),
		}
		for _, c := range row.Cells {
			if c.Width <= 0 {
				continue
			}
			cv := cellView{
				Text:       c.Text,
				Width:      percent(c.Width),
				Align:      alignClass(c.Align),
				Tree:       c.Tree,
				Indent:     c.Indent,
				Disclosure: c.Disclosure,
			}
			if c.ColumnID == "status" {
				if code, ok := row.Node().Value("status").(int); ok {
					cv.Class = statusClass(code)
				}
			}
			rv.Cells = append(rv.Cells, cv)
		}
		v.Rows = append(v.Rows, rv)
	}
	return v
}

func alignClass(a datagrid.Align) string {
	if a == datagrid.AlignRight {
		return "right"
	}
	return "left"
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "status-5xx"
	case code >= 400:
		return "status-4xx"
	case code >= 300:
		return "status-3xx"
	case code >= 200:
		return "status-2xx"
	}
	return ""
}

// renderPage writes the full page with the current grid.
func (s *Server) renderPage(w io.Writer) error {
	s.mu.Lock()
	v := pageView{Title: s.title, Grid: s.gridViewOf(s.grid.Frame(), s.grid.Sort())}
	s.mu.Unlock()
	return templates.ExecuteTemplate(w, "page.html", v)
}

// renderGrid writes the grid element alone, the fragment morphed into the
// page on every frame.
func (s *Server) renderGrid(w io.Writer) error {
	s.mu.Lock()
	v := s.gridViewOf(s.grid.Frame(), s.grid.Sort())
	s.mu.Unlock()
	return templates.ExecuteTemplate(w, "grid.html", v)
}
