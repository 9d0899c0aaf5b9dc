// internal/pkg/logger/handlers.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
)

const redacted = "***REDACTED***"

// ContextHandler copies request-scoped context values into each record
type ContextHandler struct {
	next slog.Handler
}

// NewContextHandler creates a handler that enriches logs with context values
func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs := contextAttrs(ctx); len(attrs) > 0 {
		record = record.Clone()
		record.AddAttrs(attrs...)
	}
	return h.next.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewContextHandler(h.next.WithAttrs(attrs))
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return NewContextHandler(h.next.WithGroup(name))
}

// SamplingHandler keeps a share of debug and info records. Warnings and
// records about a specific delivery are always kept so a delivery's trail
// stays complete.
type SamplingHandler struct {
	next slog.Handler
	rate float64
}

// NewSamplingHandler keeps roughly rate of the low-level records
func NewSamplingHandler(next slog.Handler, rate float64) *SamplingHandler {
	return &SamplingHandler{next: next, rate: rate}
}

func (h *SamplingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if !h.next.Enabled(ctx, level) {
		return false
	}
	if level >= slog.LevelWarn {
		return true
	}
	if _, ok := DeliveryID(ctx); ok {
		return true
	}
	return rand.Float64() < h.rate
}

func (h *SamplingHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.next.Handle(ctx, record)
}

func (h *SamplingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewSamplingHandler(h.next.WithAttrs(attrs), h.rate)
}

func (h *SamplingHandler) WithGroup(name string) slog.Handler {
	return NewSamplingHandler(h.next.WithGroup(name), h.rate)
}

var (
	credentialPattern = regexp.MustCompile(`(?i)(password|secret|token|bearer|api[-_]?key)\s*[:=]\s*["']?([^"'\s]+)`)
	secretKeys        = []string{"password", "secret", "token", "authorization", "api_key"}
)

// SanitizationHandler masks credentials and workshop phone numbers in
// messages and attributes
type SanitizationHandler struct {
	next slog.Handler
}

// NewSanitizationHandler creates a handler that sanitizes sensitive data
func NewSanitizationHandler(next slog.Handler) *SanitizationHandler {
	return &SanitizationHandler{next: next}
}

func (h *SanitizationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SanitizationHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, maskCredentials(record.Message), record.PC)
	record.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(sanitizeAttr(a))
		return true
	})
	return h.next.Handle(ctx, clean)
}

func (h *SanitizationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = sanitizeAttr(a)
	}
	return NewSanitizationHandler(h.next.WithAttrs(clean))
}

func (h *SanitizationHandler) WithGroup(name string) slog.Handler {
	return NewSanitizationHandler(h.next.WithGroup(name))
}

func sanitizeAttr(a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	for _, secret := range secretKeys {
		if strings.Contains(key, secret) {
			return slog.String(a.Key, redacted)
		}
	}
	if a.Value.Kind() != slog.KindString {
		return a
	}
	if strings.Contains(key, "phone") {
		return slog.String(a.Key, maskPhone(a.Value.String()))
	}
	return slog.String(a.Key, maskCredentials(a.Value.String()))
}

func maskCredentials(s string) string {
	return credentialPattern.ReplaceAllString(s, "$1="+redacted)
}

// maskPhone keeps the last four characters so numbers stay distinguishable
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// PrettyTextHandler writes colored single-line records for local development
type PrettyTextHandler struct {
	level slog.Leveler
	attrs []slog.Attr
	mu    *sync.Mutex
	w     io.Writer
}

// NewPrettyTextHandler creates a pretty text handler
func NewPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyTextHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &PrettyTextHandler{level: level, mu: &sync.Mutex{}, w: w}
}

func (h *PrettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *PrettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s %-5s\033[0m %s",
		levelColor(r.Level), r.Time.Format("15:04:05.000"), r.Level.String(), r.Message)

	write := func(a slog.Attr) bool {
		fmt.Fprintf(&b, " \033[36m%s\033[0m=%v", a.Key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *PrettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &PrettyTextHandler{level: h.level, attrs: merged, mu: h.mu, w: h.w}
}

// WithGroup is flattened; pretty output is for local development only.
func (h *PrettyTextHandler) WithGroup(_ string) slog.Handler {
	return h
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "\033[31m"
	case level >= slog.LevelWarn:
		return "\033[33m"
	case level >= slog.LevelInfo:
		return "\033[34m"
	default:
		return "\033[37m"
	}
}
