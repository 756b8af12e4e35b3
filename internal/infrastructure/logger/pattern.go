package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// PatternHandler writes one line per record:
//
//	2006-01-02 15:04:05,000 - INFO - namesilo_ddns.reconciler - message key=value
type PatternHandler struct {
	opts   slog.HandlerOptions
	w      io.Writer
	mu     *sync.Mutex
	name   string
	prefix string
	attrs  []string
}

func NewPatternHandler(w io.Writer, opts *slog.HandlerOptions) *PatternHandler {
	h := &PatternHandler{w: w, mu: &sync.Mutex{}, name: RootName}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *PatternHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PatternHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}
	b.WriteString(t.Format(timeLayout))
	fmt.Fprintf(&b, ",%03d", t.Nanosecond()/int(time.Millisecond))
	b.WriteString(" - ")
	b.WriteString(levelName(r.Level))
	b.WriteString(" - ")

	name := h.name
	extra := make([]string, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		if h.prefix == "" && a.Key == NameKey {
			name = a.Value.String()
			return true
		}
		extra = appendAttr(extra, h.prefix, a)
		return true
	})

	b.WriteString(name)
	b.WriteString(" - ")
	b.WriteString(r.Message)

	for _, kv := range h.attrs {
		b.WriteByte(' ')
		b.WriteString(kv)
	}
	for _, kv := range extra {
		b.WriteByte(' ')
		b.WriteString(kv)
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *PatternHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	for _, a := range attrs {
		if h.prefix == "" && a.Key == NameKey {
			h2.name = a.Value.String()
			continue
		}
		h2.attrs = appendAttr(h2.attrs, h.prefix, a)
	}
	return h2
}

func (h *PatternHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.prefix = h.prefix + name + "."
	return h2
}

func (h *PatternHandler) clone() *PatternHandler {
	attrs := make([]string, len(h.attrs))
	copy(attrs, h.attrs)
	return &PatternHandler{
		opts:   h.opts,
		w:      h.w,
		mu:     h.mu,
		name:   h.name,
		prefix: h.prefix,
		attrs:  attrs,
	}
}

func appendAttr(dst []string, prefix string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			dst = appendAttr(dst, groupPrefix, ga)
		}
		return dst
	}
	return append(dst, prefix+a.Key+"="+formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = v.String()
		}
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARNING"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
