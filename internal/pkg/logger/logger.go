// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContextKey represents keys for context values
type ContextKey string

const (
	ContextKeyRequestID  ContextKey = "request_id"
	ContextKeyUserID     ContextKey = "user_id"
	ContextKeyDeliveryID ContextKey = "delivery_id"
	ContextKeyTraceID    ContextKey = "trace_id"
	ContextKeyClientIP   ContextKey = "client_ip"
	ContextKeyMethod     ContextKey = "method"
	ContextKeyPath       ContextKey = "path"
	ContextKeyTaskType   ContextKey = "task_type"
)

// recordKeys are copied from the context onto every record. Client IP,
// method and path are left to the request log line.
var recordKeys = []ContextKey{
	ContextKeyRequestID,
	ContextKeyUserID,
	ContextKeyDeliveryID,
	ContextKeyTraceID,
	ContextKeyTaskType,
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level          string
	Format         string // json, text, pretty
	Output         string // stdout, stderr, file:<path>
	AddSource      bool
	SampleRate     float64
	EnableSampling bool
	Environment    string
	ServiceName    string
	ServiceVersion string
	// Writer overrides Output, mostly for tests
	Writer io.Writer
}

// Logger is the process logger
type Logger struct {
	*slog.Logger
}

// SetupLogger builds the process logger and installs it as the slog default.
func SetupLogger(config *LogConfig) *Logger {
	l := NewLogger(config)
	slog.SetDefault(l.Logger)
	return l
}

// NewLogger creates a logger. The handler chain, outermost first, is
// sanitize → sample → context → format.
func NewLogger(config *LogConfig) *Logger {
	if config == nil {
		config = &LogConfig{Level: "info", Format: "json", Output: "stdout"}
	}

	handler := NewSanitizationHandler(sampled(config, NewContextHandler(formatHandler(config))))

	if meta := serviceAttrs(config); len(meta) > 0 {
		return &Logger{Logger: slog.New(handler.WithAttrs(meta))}
	}
	return &Logger{Logger: slog.New(handler)}
}

func formatHandler(config *LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(config.Level),
		AddSource: config.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return rewriteAttr(config.Format, a)
		},
	}

	w := config.Writer
	if w == nil {
		w = openOutput(config.Output)
	}

	switch config.Format {
	case "text":
		return slog.NewTextHandler(w, opts)
	case "pretty":
		return NewPrettyTextHandler(w, opts)
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

func sampled(config *LogConfig, next slog.Handler) slog.Handler {
	if !config.EnableSampling || config.SampleRate <= 0 || config.SampleRate >= 1 {
		return next
	}
	return NewSamplingHandler(next, config.SampleRate)
}

func serviceAttrs(config *LogConfig) []slog.Attr {
	var attrs []slog.Attr
	for _, kv := range [][2]string{
		{"app", config.ServiceName},
		{"version", config.ServiceVersion},
		{"env", config.Environment},
	} {
		if kv[1] != "" {
			attrs = append(attrs, slog.String(kv[0], kv[1]))
		}
	}
	return attrs
}

// WithDeliveryID tags ctx so every record logged with it names the delivery.
func WithDeliveryID(ctx context.Context, deliveryID uuid.UUID) context.Context {
	return context.WithValue(ctx, ContextKeyDeliveryID, deliveryID)
}

// DeliveryID reports whether ctx was tagged with a delivery
func DeliveryID(ctx context.Context) (string, bool) {
	switch v := ctx.Value(ContextKeyDeliveryID).(type) {
	case uuid.UUID:
		return v.String(), v != uuid.Nil
	case string:
		return v, v != ""
	default:
		return "", false
	}
}

func parseLevel(level string) slog.Leveler {
	var l slog.Level
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// openOutput falls back to stdout when a log file cannot be opened
func openOutput(output string) io.Writer {
	if output == "stderr" {
		return os.Stderr
	}
	if path, ok := strings.CutPrefix(output, "file:"); ok {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			return f
		}
	}
	return os.Stdout
}

func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	for _, key := range recordKeys {
		name := string(key)
		switch v := ctx.Value(key).(type) {
		case nil:
		case string:
			if v != "" {
				attrs = append(attrs, slog.String(name, v))
			}
		case uuid.UUID:
			if v != uuid.Nil {
				attrs = append(attrs, slog.String(name, v.String()))
			}
		default:
			attrs = append(attrs, slog.Any(name, v))
		}
	}
	return attrs
}

// rewriteAttr normalizes time to UTC, names the level "severity" in JSON for
// the log collector and renders *_ms durations as integers.
func rewriteAttr(format string, a slog.Attr) slog.Attr {
	switch {
	case a.Key == slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.UTC().Format(time.RFC3339Nano))
		}
	case a.Key == slog.LevelKey && format == "json":
		a.Key = "severity"
	case strings.HasSuffix(a.Key, "_ms"):
		if d, ok := a.Value.Any().(time.Duration); ok {
			a.Value = slog.Int64Value(d.Milliseconds())
		}
	}
	return a
}
