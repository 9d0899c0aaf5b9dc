// internal/workers/server_test.go
package workers_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/workers"
)

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		name    string
		retried int
		err     error
		atLeast time.Duration
	}{
		{name: "first_retry", retried: 0, err: errors.New("boom"), atLeast: time.Second},
		{name: "grows_exponentially", retried: 4, err: errors.New("boom"), atLeast: 16 * time.Second},
		{name: "capped", retried: 30, err: errors.New("boom"), atLeast: 10 * time.Minute},
		{
			name:    "rate_limited_waits_a_minute",
			retried: 0,
			err:     &domain.SyncError{Kind: domain.SyncErrorRateLimited, Message: "429"},
			atLeast: time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 20 {
				got := workers.RetryDelay(tt.retried, tt.err, asynq.NewTask(workers.TypeDeliverySync, nil))
				assert.GreaterOrEqual(t, got, tt.atLeast)
				assert.LessOrEqual(t, got, tt.atLeast+tt.atLeast/5)
			}
		})
	}
}

func TestErrorHandler_OmitsPayload(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	task := asynq.NewTask(workers.TypeWorkshopNotify, []byte(`{"phone":"573001234567"}`))
	workers.ErrorHandler(log).HandleError(context.Background(), task, errors.New("whatsapp unavailable"))

	out := buf.String()
	assert.Contains(t, out, workers.TypeWorkshopNotify)
	assert.Contains(t, out, "whatsapp unavailable")
	assert.NotContains(t, out, "573001234567")
}
