package ook

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/lestrrat-go/strftime"
)

// DailyWriter is an io.Writer that rotates to a new file named by a
// strftime pattern (e.g. "ook-%Y%m%d.log") whenever the wall-clock day
// changes, mirroring the teacher's log_init/daily-rotated diagnostic
// log file, but driven by github.com/lestrrat-go/strftime instead of
// hand-rolled date formatting.
type DailyWriter struct {
	dir     string
	pattern *strftime.Strftime

	mu      sync.Mutex
	current string
	file    *os.File
}

// NewDailyWriter builds a DailyWriter that writes files named by
// pattern (a strftime format string) inside dir.
func NewDailyWriter(dir, pattern string) (*DailyWriter, error) {
	p, err := strftime.New(pattern)
	if err != nil {
		return nil, fmt.Errorf("ook: invalid log rotation pattern %q: %w", pattern, err)
	}
	return &DailyWriter{dir: dir, pattern: p}, nil
}

// Write implements io.Writer, rotating to today's file first if the
// day has changed since the last write.
func (w *DailyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.rotateLocked(); err != nil {
		return 0, err
	}
	return w.file.Write(p)
}

func (w *DailyWriter) rotateLocked() error {
	name := w.pattern.FormatString(time.Now())
	if name == w.current && w.file != nil {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("ook: creating log directory: %w", err)
	}

	f, err := os.OpenFile(w.dir+string(os.PathSeparator)+name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("ook: opening log file %q: %w", name, err)
	}

	if w.file != nil {
		w.file.Close()
	}
	w.file = f
	w.current = name
	return nil
}

// Close closes the currently open log file, if any.
func (w *DailyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

var _ io.WriteCloser = (*DailyWriter)(nil)
