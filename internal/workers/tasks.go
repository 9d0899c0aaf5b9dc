// internal/workers/tasks.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// Task types
const (
	TypeDeliverySync    = "sync:delivery"
	TypeWorkshopNotify  = "notify:workshop_review"
	TypeClearStaleLocks = "locks:clear_stale"
)

// Queues
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// DeliverySyncPayload is the payload of a sync:delivery task
type DeliverySyncPayload struct {
	DeliveryID  uuid.UUID `json:"delivery_id"`
	OnlyPending bool      `json:"only_pending"`
}

// WorkshopNotifyPayload is the payload of a notify:workshop_review task
type WorkshopNotifyPayload struct {
	DeliveryID uuid.UUID `json:"delivery_id"`
}

// NewDeliverySyncTask builds a retry of the pending sync of a delivery
func NewDeliverySyncTask(deliveryID uuid.UUID, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(DeliverySyncPayload{DeliveryID: deliveryID, OnlyPending: true})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync payload: %w", err)
	}
	return asynq.NewTask(TypeDeliverySync, payload, opts...), nil
}

// NewWorkshopNotifyTask builds a review notification for the workshop of a delivery
func NewWorkshopNotifyTask(deliveryID uuid.UUID, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(WorkshopNotifyPayload{DeliveryID: deliveryID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification payload: %w", err)
	}
	return asynq.NewTask(TypeWorkshopNotify, payload, opts...), nil
}

// NewClearStaleLocksTask builds the periodic stale lock sweep
func NewClearStaleLocksTask() *asynq.Task {
	return asynq.NewTask(TypeClearStaleLocks, nil, asynq.Queue(QueueCritical), asynq.MaxRetry(0))
}

// Enqueuer is the part of *asynq.Client used to schedule tasks
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

var _ Enqueuer = (*asynq.Client)(nil)

// TaskQueue schedules background work on asynq
type TaskQueue struct {
	client   Enqueuer
	maxRetry int
	logger   *slog.Logger
}

var _ ports.TaskQueue = (*TaskQueue)(nil)

// NewTaskQueue creates a task queue backed by client
func NewTaskQueue(client Enqueuer, maxRetry int, logger *slog.Logger) *TaskQueue {
	if maxRetry <= 0 {
		maxRetry = 3
	}
	return &TaskQueue{
		client:   client,
		maxRetry: maxRetry,
		logger:   logger.With(slog.String("component", "task_queue")),
	}
}

// EnqueueDeliverySync schedules a pending-items sync of deliveryID after delay.
// One retry per delivery is queued at a time; a duplicate is dropped.
func (q *TaskQueue) EnqueueDeliverySync(ctx context.Context, deliveryID uuid.UUID, delay time.Duration) error {
	task, err := NewDeliverySyncTask(deliveryID,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(q.maxRetry),
		asynq.TaskID(TypeDeliverySync+":"+deliveryID.String()),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, task, asynq.ProcessIn(delay))
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			q.logger.DebugContext(ctx, "sync retry already queued",
				slog.String("delivery_id", deliveryID.String()))
			return nil
		}
		return fmt.Errorf("failed to enqueue sync task: %w", err)
	}

	q.logger.InfoContext(ctx, "sync retry enqueued",
		slog.String("delivery_id", deliveryID.String()),
		slog.String("task_id", info.ID),
		slog.Duration("delay", delay))
	return nil
}

// EnqueueWorkshopNotification schedules the review message to the workshop
func (q *TaskQueue) EnqueueWorkshopNotification(ctx context.Context, deliveryID uuid.UUID) error {
	task, err := NewWorkshopNotifyTask(deliveryID,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(q.maxRetry),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue notification task: %w", err)
	}

	q.logger.InfoContext(ctx, "workshop notification enqueued",
		slog.String("delivery_id", deliveryID.String()),
		slog.String("task_id", info.ID))
	return nil
}

// RegisterPeriodicTasks registers the cron tasks of the worker
func RegisterPeriodicTasks(scheduler *asynq.Scheduler, staleLockCron string) error {
	if staleLockCron == "" {
		return nil
	}
	if _, err := scheduler.Register(staleLockCron, NewClearStaleLocksTask()); err != nil {
		return fmt.Errorf("failed to register stale lock sweep: %w", err)
	}
	return nil
}
