package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of writes into one read.
const DefaultDebounce = 100 * time.Millisecond

// Tailer follows a capture file that is still being written.
type Tailer struct {
	path     string
	logger   *slog.Logger
	Debounce time.Duration

	offset  int64
	partial []byte
}

// NewTailer creates a tailer positioned at the start of path.
func NewTailer(path string, logger *slog.Logger) *Tailer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tailer{
		path:     filepath.Clean(path),
		logger:   logger,
		Debounce: DefaultDebounce,
	}
}

// Path returns the followed file.
func (t *Tailer) Path() string { return t.path }

// ReadNew returns the entries completed since the previous call. A trailing
// line without newline is held back until it is finished. A file that
// shrank is read again from the start.
func (t *Tailer) ReadNew() ([]Entry, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat capture: %w", err)
	}
	if info.Size() < t.offset {
		t.logger.Info("capture truncated, starting over", "path", t.path)
		t.offset = 0
		t.partial = nil
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek capture: %w", err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}
	t.offset += int64(len(data))

	buf := append(t.partial, data...)
	last := bytes.LastIndexByte(buf, '\n')
	if last < 0 {
		t.partial = buf
		return nil, nil
	}
	t.partial = bytes.Clone(buf[last+1:])

	var entries []Entry
	for _, line := range bytes.Split(buf[:last], []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		e, err := Decode(line)
		if err != nil {
			t.logger.Warn("skipping malformed capture line", "path", t.path, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Follow sends what the file already holds, then every batch of new
// entries, until ctx is cancelled. The directory is watched rather than the
// file so a capture that is replaced keeps being followed.
func (t *Tailer) Follow(ctx context.Context, out chan<- []Entry) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(t.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", t.path, err)
	}

	ready := make(chan struct{}, 1)
	ready <- struct{}{}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ready:
			entries, err := t.ReadNew()
			if err != nil {
				t.logger.Error("tail failed", "path", t.path, "error", err)
				continue
			}
			if len(entries) == 0 {
				continue
			}
			t.logger.Debug("capture grew", "path", t.path, "entries", len(entries))
			select {
			case out <- entries:
			case <-ctx.Done():
				return nil
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != t.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(t.Debounce, func() {
				select {
				case ready <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			t.logger.Error("watcher error", "error", err)
		}
	}
}
