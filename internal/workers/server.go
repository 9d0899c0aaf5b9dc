// internal/workers/server.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/atelier-ops/internal/core/domain"
)

const (
	baseRetryDelay      = time.Second
	maxRetryDelay       = 10 * time.Minute
	rateLimitRetryDelay = time.Minute
)

// RetryDelay backs off exponentially with up to 20% jitter. Syncs the
// remote function rate limited wait at least a minute.
func RetryDelay(n int, err error, _ *asynq.Task) time.Duration {
	delay := maxRetryDelay
	if n >= 0 && n < 20 {
		delay = min(baseRetryDelay<<n, maxRetryDelay)
	}
	if domain.ClassifySyncError(err) == domain.SyncErrorRateLimited {
		delay = max(delay, rateLimitRetryDelay)
	}
	return delay + rand.N(delay/5+1)
}

// ErrorHandler logs failed runs. The payload is not logged since
// notification payloads carry workshop phone numbers.
func ErrorHandler(log *slog.Logger) asynq.ErrorHandler {
	log = log.With(slog.String("component", "task_errors"))
	return asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		taskID, _ := asynq.GetTaskID(ctx)
		queue, _ := asynq.GetQueueName(ctx)

		attrs := []any{
			slog.String("task_type", task.Type()),
			slog.String("task_id", taskID),
			slog.String("queue", queue),
			slog.Int("retry", retried),
			slog.Int("max_retry", maxRetry),
			slog.String("sync_error_kind", string(domain.ClassifySyncError(err))),
			slog.String("error", err.Error()),
		}
		if retried >= maxRetry {
			log.ErrorContext(ctx, "task exhausted its retries and was archived", attrs...)
			return
		}
		log.WarnContext(ctx, "task failed, will retry", attrs...)
	})
}

// AsynqLogger adapts slog for the asynq server and scheduler
type AsynqLogger struct {
	logger *slog.Logger
}

var _ asynq.Logger = (*AsynqLogger)(nil)

// NewAsynqLogger creates an asynq logger writing through log
func NewAsynqLogger(log *slog.Logger) *AsynqLogger {
	return &AsynqLogger{logger: log.With(slog.String("component", "asynq"))}
}

func (l *AsynqLogger) Debug(args ...any) { l.logger.Debug(fmt.Sprint(args...)) }
func (l *AsynqLogger) Info(args ...any)  { l.logger.Info(fmt.Sprint(args...)) }
func (l *AsynqLogger) Warn(args ...any)  { l.logger.Warn(fmt.Sprint(args...)) }
func (l *AsynqLogger) Error(args ...any) { l.logger.Error(fmt.Sprint(args...)) }

// Fatal logs and exits, as asynq expects of its logger
func (l *AsynqLogger) Fatal(args ...any) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
