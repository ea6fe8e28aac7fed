package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogFilePath is the path to the editor log file, relative to the working directory (project root when run via go run ./cmd/stage).
const LogFilePath = "logs/stage.txt"

// Logger stores lines of text (terminal input and log records) in memory and appends them to a file on disk.
// It also serves as a slog.Handler so that packages log structured records into the same buffer.
type Logger struct {
	mu    sync.Mutex
	lines []string
	path  string
	level slog.Level
}

// New returns a new Logger writing to LogFilePath and ensures the logs directory exists.
func New() *Logger {
	return NewAt(LogFilePath)
}

// NewAt returns a Logger that appends to path. An empty path keeps lines in memory only.
func NewAt(path string) *Logger {
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
	}
	return &Logger{lines: make([]string, 0), path: path, level: slog.LevelInfo}
}

// SetLevel sets the minimum level of slog records that are kept. Lines passed to Log are always kept.
func (l *Logger) SetLevel(level slog.Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Log appends a line to the logger and appends it to the log file on disk. Each entry is prefixed with [timestamp] using computer time.
func (l *Logger) Log(line string) {
	l.write(time.Now(), line)
}

// Logf formats according to format and logs the result.
func (l *Logger) Logf(format string, args ...any) {
	l.write(time.Now(), fmt.Sprintf(format, args...))
}

func (l *Logger) write(t time.Time, line string) {
	stamped := "[" + t.Format("2006-01-02 15:04:05") + "] " + line

	l.mu.Lock()
	l.lines = append(l.lines, stamped)
	path := l.path
	l.mu.Unlock()

	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Slog returns a *slog.Logger that writes into l.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(&handler{l: l})
}

// handler adapts Logger to slog.Handler. Records are flattened to "LEVEL msg key=value ..." lines.
// pre holds attributes added with WithAttrs, already rendered with the group prefix in effect at that time.
type handler struct {
	l      *Logger
	pre    string
	prefix string
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	h.l.mu.Lock()
	defer h.l.mu.Unlock()
	return level >= h.l.level
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Level.String())
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.WriteString(h.pre)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})
	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}
	h.l.write(t, b.String())
	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(h.pre)
	for _, a := range attrs {
		writeAttr(&b, h.prefix, a)
	}
	return &handler{l: h.l, pre: b.String(), prefix: h.prefix}
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &handler{l: h.l, pre: h.pre, prefix: h.prefix + name + "."}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, g := range a.Value.Group() {
			writeAttr(b, prefix+a.Key+".", g)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}
