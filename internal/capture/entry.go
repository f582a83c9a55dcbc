// Package capture reads recorded network traffic and feeds it into a grid.
//
// A capture is a JSON Lines file with one request per line. Requests that
// carry a batch array become parent rows whose children are the
// sub-requests.
package capture

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded request.
type Entry struct {
	ID         string    `json:"id,omitempty"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	Status     int       `json:"status"`
	StatusText string    `json:"status_text,omitempty"`
	Type       string    `json:"type,omitempty"`
	Size       int64     `json:"size"`
	DurationMS float64   `json:"duration_ms"`
	Started    time.Time `json:"started"`
	Batch      []Entry   `json:"batch,omitempty"`
}

// Name is the last path segment of the URL, with the query string kept so
// OData options stay visible.
func (e Entry) Name() string {
	u := e.URL
	query := ""
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u, query = u[:i], u[i:]
	}
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
		if j := strings.IndexByte(u, '/'); j >= 0 {
			u = u[j:]
		} else {
			u = "/"
		}
	}
	base := path.Base(u)
	if base == "." || base == "" {
		base = "/"
	}
	return base + query
}

// Values is the row data of the entry, keyed by column id.
func (e Entry) Values() map[string]any {
	return map[string]any{
		"id":          e.ID,
		"name":        e.Name(),
		"method":      e.Method,
		"url":         e.URL,
		"status":      e.Status,
		"status_text": e.StatusText,
		"type":        e.Type,
		"size":        e.Size,
		"time":        e.DurationMS,
		"started":     e.Started,
	}
}

// ensureIDs fills missing ids, recursing into batches.
func (e *Entry) ensureIDs() {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	for i := range e.Batch {
		e.Batch[i].ensureIDs()
	}
}

// Count returns the number of requests in the entry, including its batch.
func (e Entry) Count() int {
	n := 1
	for _, b := range e.Batch {
		n += b.Count()
	}
	return n
}
