// internal/workers/middleware.go
package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/atelier-ops/internal/pkg/logger"
)

// LoggingMiddleware tags the context with the task type and logs each run
func LoggingMiddleware(log *slog.Logger) asynq.MiddlewareFunc {
	log = log.With(slog.String("component", "task_runner"))
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			ctx = context.WithValue(ctx, logger.ContextKeyTaskType, t.Type())
			start := time.Now()

			err := next.ProcessTask(ctx, t)

			attrs := []any{
				slog.String("task_type", t.Type()),
				slog.Duration("duration", time.Since(start)),
			}
			if id, ok := asynq.GetTaskID(ctx); ok {
				attrs = append(attrs, slog.String("task_id", id))
			}
			if retried, ok := asynq.GetRetryCount(ctx); ok {
				attrs = append(attrs, slog.Int("retry", retried))
			}

			if err != nil {
				log.WarnContext(ctx, "task failed", append(attrs, slog.String("error", err.Error()))...)
				return err
			}
			log.DebugContext(ctx, "task processed", attrs...)
			return nil
		})
	}
}

// NewServeMux wires every task type to its processor
func NewServeMux(syncProc *SyncProcessor, notifyProc *NotificationProcessor, lockProc *LockProcessor, log *slog.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(LoggingMiddleware(log))

	mux.HandleFunc(TypeDeliverySync, syncProc.ProcessDeliverySync)
	mux.HandleFunc(TypeWorkshopNotify, notifyProc.ProcessWorkshopReview)
	mux.HandleFunc(TypeClearStaleLocks, lockProc.ClearStaleLocks)
	return mux
}
