//go:build integration
// +build integration

package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/ammerola/atelier-ops/internal/adapters/db"
	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
	"github.com/ammerola/atelier-ops/test/helpers"
)

type DeliveryRepositorySuite struct {
	suite.Suite
	testDB     *helpers.TestDB
	catalog    ports.CatalogRepository
	deliveries ports.DeliveryRepository
	files      ports.DeliveryFileRepository
	logs       ports.SyncLogRepository
	lock       *db.SyncLock
	ctx        context.Context
}

func (s *DeliveryRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	logger := helpers.TestLogger()
	s.catalog = db.NewCatalogRepository(s.testDB.Database, logger)
	s.deliveries = db.NewDeliveryRepository(s.testDB.Database, logger)
	s.files = db.NewDeliveryFileRepository(s.testDB.Database, logger)
	s.logs = db.NewSyncLogRepository(s.testDB.Database, logger)
	s.lock = db.NewSyncLock(s.testDB.Database, 15*time.Minute, logger)
	s.ctx = context.Background()
}

func (s *DeliveryRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

// createDelivery stores a delivery with one item per seeded order item.
func (s *DeliveryRepositorySuite) createDelivery(seeded *helpers.SeededCatalog) (*domain.Delivery, []domain.DeliveryItem) {
	number, err := s.deliveries.GenerateTrackingNumber(s.ctx)
	s.Require().NoError(err)

	d := domain.NewDelivery(seeded.Order.ID, &seeded.Workshop.ID, number, "caja 3 de 4")
	s.Require().NoError(s.deliveries.Create(s.ctx, d))

	items := make([]domain.DeliveryItem, len(seeded.OrderItems))
	for i, oi := range seeded.OrderItems {
		items[i] = domain.DeliveryItem{
			ID:                uuid.New(),
			DeliveryID:        d.ID,
			OrderItemID:       oi.ID,
			QuantityDelivered: 10,
			QualityStatus:     domain.QualityStatusPending,
		}
	}
	s.Require().NoError(s.deliveries.CreateItems(s.ctx, items))
	return d, items
}

func (s *DeliveryRepositorySuite) TestGenerateTrackingNumber() {
	first, err := s.deliveries.GenerateTrackingNumber(s.ctx)
	s.Require().NoError(err)
	second, err := s.deliveries.GenerateTrackingNumber(s.ctx)
	s.Require().NoError(err)

	s.Len(first, 4)
	s.NotEqual(first, second)
}

func (s *DeliveryRepositorySuite) TestFindOrderItems_ReturnsOnlyExisting() {
	seeded := helpers.SeedCatalog(s.T(), s.catalog, "CAM-M-NEG", "CAM-L-NEG")

	found, err := s.catalog.FindOrderItems(s.ctx, []uuid.UUID{seeded.OrderItems[0].ID, uuid.New()})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(seeded.OrderItems[0].ID, found[0].ID)
	s.Require().NotNil(found[0].Variant)
	s.Equal("CAM-M-NEG", found[0].Variant.SKUVariant)

	missing, err := s.catalog.FindOrder(s.ctx, uuid.New())
	s.NoError(err)
	s.Nil(missing)
}

func (s *DeliveryRepositorySuite) TestFindWithItems() {
	seeded := helpers.SeedCatalog(s.T(), s.catalog, "CAM-M-NEG", "CAM-L-NEG")
	d, items := s.createDelivery(seeded)

	s.Require().NoError(s.files.Create(s.ctx, &domain.DeliveryFile{
		ID:           uuid.New(),
		DeliveryID:   d.ID,
		FileName:     "remision.pdf",
		FileURL:      "http://localhost/files/remision.pdf",
		FileType:     "application/pdf",
		FileSize:     1024,
		FileCategory: domain.FileCategoryInvoice,
		CreatedAt:    time.Now(),
	}))

	loaded, err := s.deliveries.FindWithItems(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Require().NotNil(loaded)
	s.Equal(d.TrackingNumber, loaded.TrackingNumber)
	s.Require().NotNil(loaded.Order)
	s.Equal(seeded.Order.OrderNumber, loaded.Order.OrderNumber)
	s.Require().NotNil(loaded.Workshop)
	s.Len(loaded.Items, len(items))
	s.Len(loaded.Files, 1)

	skus := map[string]bool{}
	for i := range loaded.Items {
		skus[loaded.Items[i].SKU()] = true
	}
	s.True(skus["CAM-M-NEG"])
	s.True(skus["CAM-L-NEG"])

	none, err := s.deliveries.FindWithItems(s.ctx, uuid.New())
	s.NoError(err)
	s.Nil(none)
}

func (s *DeliveryRepositorySuite) TestItemUpdatesAreScopedToDelivery() {
	seeded := helpers.SeedCatalog(s.T(), s.catalog, "CAM-M-NEG")
	d, items := s.createDelivery(seeded)

	review := domain.NewItemReview(items[0].ID, domain.VariantReview{Approved: 8, Defective: 2}, "")
	s.Require().NoError(s.deliveries.UpdateItemReview(s.ctx, d.ID, review))

	err := s.deliveries.UpdateItemReview(s.ctx, uuid.New(), review)
	s.True(errors.Is(err, domain.ErrDeliveryItemNotFound))

	err = s.deliveries.UpdateItemQuantity(s.ctx, d.ID, uuid.New(), 3)
	s.True(errors.Is(err, domain.ErrDeliveryItemNotFound))

	loaded, err := s.deliveries.FindWithItems(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(8, loaded.Items[0].QuantityApproved)
	s.Equal(domain.QualityStatusPartialApproved, loaded.Items[0].QualityStatus)
}

func (s *DeliveryRepositorySuite) TestListFilters() {
	seeded := helpers.SeedCatalog(s.T(), s.catalog, "CAM-M-NEG")
	first, _ := s.createDelivery(seeded)
	s.createDelivery(seeded)
	s.Require().NoError(s.deliveries.UpdateStatus(s.ctx, first.ID, domain.DeliveryStatusApproved))

	tests := []struct {
		name      string
		filter    domain.DeliveryFilter
		wantCount int
	}{
		{name: "all", filter: domain.DeliveryFilter{Limit: 10}, wantCount: 2},
		{name: "by_status", filter: domain.DeliveryFilter{Status: domain.DeliveryStatusApproved, Limit: 10}, wantCount: 1},
		{name: "search_tracking_number", filter: domain.DeliveryFilter{Search: first.TrackingNumber, Limit: 10}, wantCount: 1},
		{name: "search_observations", filter: domain.DeliveryFilter{Search: "CAJA 3", Limit: 10}, wantCount: 2},
		{name: "by_order", filter: domain.DeliveryFilter{OrderID: &seeded.Order.ID, Limit: 1}, wantCount: 2},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			items, total, err := s.deliveries.List(s.ctx, tt.filter)
			s.Require().NoError(err)
			s.Equal(int64(tt.wantCount), total)
			s.LessOrEqual(len(items), tt.filter.Limit)
		})
	}

	counts, err := s.deliveries.StatusCounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), counts[domain.DeliveryStatusApproved])
	s.Equal(int64(1), counts[domain.DeliveryStatusPending])
}

func (s *DeliveryRepositorySuite) TestSyncBookkeeping() {
	seeded := helpers.SeedCatalog(s.T(), s.catalog, "CAM-M-NEG")
	d, items := s.createDelivery(seeded)
	now := time.Now()

	msg := "variant not found"
	s.Require().NoError(s.deliveries.RecordItemSyncAttempts(s.ctx, d.ID, []domain.ItemSyncAttempt{
		{ItemID: items[0].ID, Synced: false, Error: &msg, At: now},
	}))
	s.Require().NoError(s.deliveries.RecordItemSyncAttempts(s.ctx, d.ID, []domain.ItemSyncAttempt{
		{ItemID: items[0].ID, Synced: true, At: now},
	}))
	s.Require().NoError(s.deliveries.RecordDeliverySync(s.ctx, d.ID, true, now))
	s.Require().NoError(s.deliveries.RecordDeliverySync(s.ctx, d.ID, false, now))

	loaded, err := s.deliveries.FindWithItems(s.ctx, d.ID)
	s.Require().NoError(err)
	s.True(loaded.SyncedToShopify, "a later failed attempt must not clear the synced flag")
	s.Equal(2, loaded.SyncAttempts)
	s.True(loaded.Items[0].SyncedToShopify)
	s.Equal(2, loaded.Items[0].SyncAttemptCount)
	s.Nil(loaded.Items[0].SyncErrorMessage)
}

func (s *DeliveryRepositorySuite) TestSyncLogs() {
	seeded := helpers.SeedCatalog(s.T(), s.catalog, "CAM-M-NEG")
	d, _ := s.createDelivery(seeded)

	recent, err := s.logs.HasRecentSuccessfulSync(s.ctx, d.ID, 30*time.Minute)
	s.Require().NoError(err)
	s.False(recent)

	appClock := time.Now().Add(time.Hour)
	failed := domain.NewSyncLog(d.ID, []domain.SyncItemResult{helpers.SyncFailure("CAM-M-NEG", "timeout")}, appClock)
	s.Require().NoError(s.logs.Append(s.ctx, failed))
	s.True(failed.CreatedAt.Before(appClock), "created_at is stamped by the database")

	recent, err = s.logs.HasRecentSuccessfulSync(s.ctx, d.ID, 30*time.Minute)
	s.Require().NoError(err)
	s.False(recent)

	ok := domain.NewSyncLog(d.ID, []domain.SyncItemResult{helpers.SyncSuccess("CAM-M-NEG")}, time.Now())
	s.Require().NoError(s.logs.Append(s.ctx, ok))

	recent, err = s.logs.HasRecentSuccessfulSync(s.ctx, d.ID, 30*time.Minute)
	s.Require().NoError(err)
	s.True(recent)

	logs, err := s.logs.ListByDelivery(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Require().Len(logs, 2)
	s.Equal(ok.ID, logs[0].ID, "the later insert sorts first even though its app clock is earlier")
	s.True(logs[0].CreatedAt.After(logs[1].CreatedAt))
	s.Equal("CAM-M-NEG", logs[1].SyncResults.Results[0].Key())

	statuses := domain.ProjectSkuStatuses(logs, []string{"CAM-M-NEG"})
	s.True(statuses[0].IsSynced)
}

func (s *DeliveryRepositorySuite) TestSyncLock() {
	seeded := helpers.SeedCatalog(s.T(), s.catalog, "CAM-M-NEG")
	d, _ := s.createDelivery(seeded)

	token, err := s.lock.Acquire(s.ctx, d.ID, "ana")
	s.Require().NoError(err)
	s.Equal("ana", token.Holder)

	_, err = s.lock.Acquire(s.ctx, d.ID, "luis")
	var held *domain.LockHeldError
	s.Require().True(errors.As(err, &held))
	s.True(errors.Is(err, domain.ErrLockHeld))
	s.Equal("ana", *held.Info.AcquiredBy)

	info, err := s.lock.Status(s.ctx, d.ID)
	s.Require().NoError(err)
	s.True(info.IsHeld)
	s.False(info.Expired)
	s.Equal(d.TrackingNumber, info.TrackingNumber)

	s.Require().NoError(s.lock.Release(s.ctx, token))
	s.True(errors.Is(s.lock.Release(s.ctx, token), domain.ErrLockNotHeld))

	_, err = s.lock.Acquire(s.ctx, d.ID, "luis")
	s.Require().NoError(err)
	s.Require().NoError(s.lock.ForceRelease(s.ctx, d.ID))

	info, err = s.lock.Status(s.ctx, d.ID)
	s.Require().NoError(err)
	s.False(info.IsHeld)

	_, err = s.lock.Acquire(s.ctx, uuid.New(), "ana")
	s.True(errors.Is(err, domain.ErrDeliveryNotFound))
}

func (s *DeliveryRepositorySuite) TestStaleLocks() {
	seeded := helpers.SeedCatalog(s.T(), s.catalog, "CAM-M-NEG")
	d, _ := s.createDelivery(seeded)

	_, err := s.testDB.PgxPool.Exec(s.ctx,
		`UPDATE deliveries SET sync_lock_acquired_at = NOW() - INTERVAL '2 hours', sync_lock_acquired_by = 'ana' WHERE id = $1`, d.ID)
	s.Require().NoError(err)

	stale, err := s.deliveries.ListStaleLocked(s.ctx, time.Now().Add(-time.Hour))
	s.Require().NoError(err)
	s.Require().Len(stale, 1)
	s.Equal(d.ID, stale[0].ID)

	info, err := s.lock.Status(s.ctx, d.ID)
	s.Require().NoError(err)
	s.True(info.Expired)

	s.Require().NoError(s.deliveries.ClearLockColumns(s.ctx, d.ID))
	stale, err = s.deliveries.ListStaleLocked(s.ctx, time.Now().Add(-time.Hour))
	s.Require().NoError(err)
	s.Empty(stale)
}

func (s *DeliveryRepositorySuite) TestDeleteCascades() {
	seeded := helpers.SeedCatalog(s.T(), s.catalog, "CAM-M-NEG")
	d, _ := s.createDelivery(seeded)

	s.Require().NoError(s.deliveries.Delete(s.ctx, d.ID))
	s.True(errors.Is(s.deliveries.Delete(s.ctx, d.ID), domain.ErrDeliveryNotFound))

	var count int
	s.Require().NoError(s.testDB.PgxPool.QueryRow(s.ctx,
		`SELECT COUNT(*) FROM delivery_items WHERE delivery_id = $1`, d.ID).Scan(&count))
	s.Zero(count)
}

func TestDeliveryRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(DeliveryRepositorySuite))
}
