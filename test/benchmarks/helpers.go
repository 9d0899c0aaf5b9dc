// test/benchmarks/helpers.go
package benchmarks

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/test/helpers"
)

// benchmarkSKUs returns n distinct variant SKUs
func benchmarkSKUs(n int) []string {
	skus := make([]string, n)
	for i := range skus {
		skus[i] = fmt.Sprintf("CAM-%03d-M", i)
	}
	return skus
}

// createJournal builds logs sync runs over skus. Every third SKU fails on
// odd runs so the fold has to resolve mixed histories.
func createJournal(deliveryID uuid.UUID, skus []string, logs int) []domain.InventorySyncLog {
	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	journal := make([]domain.InventorySyncLog, 0, logs)
	for run := 0; run < logs; run++ {
		results := make([]domain.SyncItemResult, len(skus))
		for i, sku := range skus {
			if run%2 == 1 && i%3 == 0 {
				results[i] = helpers.SyncFailure(sku, "variant not found")
				continue
			}
			results[i] = helpers.SyncSuccess(sku)
		}
		journal = append(journal, helpers.CreateTestSyncLog(deliveryID, start.Add(time.Duration(run)*time.Minute), results...))
	}
	// the repository returns newest first
	for i, j := 0, len(journal)-1; i < j; i, j = i+1, j-1 {
		journal[i], journal[j] = journal[j], journal[i]
	}
	return journal
}

// createReviewedItems builds n reviewed items of one delivery with mixed verdicts
func createReviewedItems(deliveryID uuid.UUID, n int) []domain.DeliveryItem {
	items := make([]domain.DeliveryItem, n)
	for i := range items {
		items[i] = helpers.CreateTestDeliveryItem(deliveryID, fmt.Sprintf("PAN-%03d-32", i), func(item *domain.DeliveryItem) {
			item.QuantityApproved = item.QuantityDelivered - i%3
			item.QuantityDefective = i % 3
			item.QualityStatus = domain.ItemQualityStatus(item.QuantityApproved, item.QuantityDefective)
		})
	}
	return items
}
