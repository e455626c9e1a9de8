// Package slogadapter routes log/slog records into a logkeep.Sink.
//
//	l, _ := logkeep.New(...)
//	_ = l.Initialize()
//	slog.SetDefault(slog.New(slogadapter.New(l, slogadapter.WithTag("app"))))
//
// The adapter holds no state beyond the sink, a tag and the attributes
// bound with WithAttrs. Records carry only severity, tag and message, so
// attributes are flattened into the message as key=value pairs; error
// values keep only their text.
package slogadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/logkeep"
)

// TagKey is the attribute key that overrides the handler's tag.
const TagKey = "tag"

// Handler is a slog.Handler that forwards every record to a Sink.
type Handler struct {
	sink     logkeep.Sink
	tag      string
	minLevel slog.Leveler
	prefix   string // pre-rendered attrs from WithAttrs
	groups   []string
}

var _ slog.Handler = (*Handler)(nil)

// Option configures a Handler.
type Option func(*Handler)

// WithTag sets the tag for records that carry no "tag" attribute.
func WithTag(tag string) Option {
	return func(h *Handler) {
		h.tag = tag
	}
}

// WithLevel sets the minimum slog level forwarded. Default is
// slog.LevelDebug - 4, so the sink's own threshold decides.
func WithLevel(l slog.Leveler) Option {
	return func(h *Handler) {
		if l != nil {
			h.minLevel = l
		}
	}
}

// New creates a Handler forwarding to sink.
func New(sink logkeep.Sink, opts ...Option) *Handler {
	h := &Handler{sink: sink, minLevel: slog.LevelDebug - 4}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Severity maps a slog level onto a logkeep severity.
func Severity(level slog.Level) logkeep.Severity {
	switch {
	case level < slog.LevelDebug:
		return logkeep.SeverityVerbose
	case level < slog.LevelInfo:
		return logkeep.SeverityDebug
	case level < slog.LevelWarn:
		return logkeep.SeverityInfo
	case level < slog.LevelError:
		return logkeep.SeverityWarn
	case level <= slog.LevelError+4:
		return logkeep.SeverityError
	default:
		return logkeep.SeverityAssert
	}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	tag := h.tag
	var b strings.Builder
	b.WriteString(r.Message)
	b.WriteString(h.prefix)

	r.Attrs(func(a slog.Attr) bool {
		if len(h.groups) == 0 && a.Key == TagKey {
			tag = a.Value.String()
			return true
		}
		appendAttr(&b, h.groupPrefix(), a)
		return true
	})

	return h.sink.Log(Severity(r.Level), tag, strings.TrimLeft(b.String(), " "))
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := h.clone()
	var b strings.Builder
	for _, a := range attrs {
		if len(h.groups) == 0 && a.Key == TagKey {
			h2.tag = a.Value.String()
			continue
		}
		appendAttr(&b, h.groupPrefix(), a)
	}
	h2.prefix += b.String()
	return h2
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.groups = append(h2.groups, name)
	return h2
}

func (h *Handler) clone() *Handler {
	h2 := *h
	h2.groups = append([]string(nil), h.groups...)
	return &h2
}

func (h *Handler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, p, ga)
		}
		return
	}
	fmt.Fprintf(b, " %s%s=%s", prefix, a.Key, formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	s := v.String()
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		}
	}
	if strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
