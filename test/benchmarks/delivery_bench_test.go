// test/benchmarks/delivery_bench_test.go
package benchmarks

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/services"
	"github.com/ammerola/atelier-ops/internal/pkg/fileinspect"
	"github.com/ammerola/atelier-ops/internal/pkg/messaging"
	"github.com/ammerola/atelier-ops/test/helpers"
	"github.com/ammerola/atelier-ops/test/mocks"
)

func BenchmarkSkuStatusProjection(b *testing.B) {
	deliveryID := uuid.New()

	for _, size := range []struct{ skus, logs int }{
		{skus: 5, logs: 3},
		{skus: 50, logs: 20},
		{skus: 200, logs: 100},
	} {
		skus := benchmarkSKUs(size.skus)
		journal := createJournal(deliveryID, skus, size.logs)

		b.Run(fmt.Sprintf("skus=%d/logs=%d", size.skus, size.logs), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = domain.ProjectSkuStatuses(journal, skus)
			}
		})
	}
}

func BenchmarkDeriveDeliveryStatus(b *testing.B) {
	items := createReviewedItems(uuid.New(), 100)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = domain.DeriveDeliveryStatus(items)
	}
}

func BenchmarkApprovedSyncItems(b *testing.B) {
	delivery := helpers.CreateTestDelivery()
	delivery.Items = createReviewedItems(delivery.ID, 100)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = delivery.ApprovedSyncItems()
	}
}

func BenchmarkExtractDeliveryCode(b *testing.B) {
	notes := []string{
		"Hola, quiero saber el estado de la entrega código 0042",
		"Codigo: 10457 por favor",
		"buenos días, ¿ya revisaron lo que mandamos?",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = messaging.ExtractDeliveryCode(notes[i%len(notes)])
	}
}

func BenchmarkFileInspect(b *testing.B) {
	b.Run("declared", func(b *testing.B) {
		content := bytes.NewReader(helpers.PNGBytes)
		for i := 0; i < b.N; i++ {
			_, _ = fileinspect.Inspect(content, "image/png")
		}
	})

	b.Run("sniffed", func(b *testing.B) {
		content := bytes.NewReader(helpers.PNGBytes)
		for i := 0; i < b.N; i++ {
			_, _ = fileinspect.Inspect(content, "application/octet-stream")
		}
	})
}

func BenchmarkSkuSyncStatusService(b *testing.B) {
	ctrl := gomock.NewController(b)
	deliveryID := uuid.New()
	skus := benchmarkSKUs(50)
	journal := createJournal(deliveryID, skus, 20)

	logs := mocks.NewMockSyncLogRepository(ctrl)
	logs.EXPECT().ListByDelivery(gomock.Any(), deliveryID).Return(journal, nil).AnyTimes()

	svc := services.NewInventorySyncService(
		mocks.NewMockDeliveryRepository(ctrl),
		logs,
		mocks.NewMockSyncLock(ctrl),
		mocks.NewMockInventoryPusher(ctrl),
		services.SyncConfig{},
		helpers.TestLogger(),
	)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = svc.CheckSkuSyncStatus(ctx, deliveryID, skus)
	}
}
