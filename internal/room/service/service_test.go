package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	billingdomain "github.com/nhatrolabs/nhatro/internal/billing/domain"
	"github.com/nhatrolabs/nhatro/internal/migration"
	"github.com/nhatrolabs/nhatro/internal/room/domain"
	roomrepo "github.com/nhatrolabs/nhatro/internal/room/repository"
	tenantdomain "github.com/nhatrolabs/nhatro/internal/tenant/domain"
)

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now(context.Context) time.Time { return f.t }

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := &Service{
		db:    db,
		log:   zap.NewNop(),
		genID: node,
		clock: fixedClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		repo:  roomrepo.Provide(),
	}
	return svc, db
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateRequest{Name: "  "})
	require.ErrorIs(t, err, domain.ErrNameRequired)
}

func TestCreateRejectsNegativePrices(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateRequest{
		Name:      "P101",
		RentPrice: -1,
	})
	require.ErrorIs(t, err, domain.ErrNegativePrice)
}

func TestUpdateNeverTouchesCarriedBalance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:      "P101",
		RentPrice: 3_000_000,
	})
	require.NoError(t, err)

	adjusted, err := svc.AdjustBalance(ctx, domain.AdjustBalanceRequest{
		ID:     created.ID,
		Delta:  -500_000,
		Reason: "overpay carried from February",
	})
	require.NoError(t, err)
	require.Equal(t, int64(-500_000), adjusted.CarriedBalance)

	// A price edit must not move the balance.
	newRent := int64(3_500_000)
	updated, err := svc.Update(ctx, domain.UpdateRequest{
		ID:        created.ID,
		RentPrice: &newRent,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3_500_000), updated.RentPrice)
	assert.Equal(t, int64(-500_000), updated.CarriedBalance)
}

func TestAdjustBalanceAccumulates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "P101"})
	require.NoError(t, err)

	_, err = svc.AdjustBalance(ctx, domain.AdjustBalanceRequest{ID: created.ID, Delta: 200_000})
	require.NoError(t, err)
	adjusted, err := svc.AdjustBalance(ctx, domain.AdjustBalanceRequest{ID: created.ID, Delta: -50_000})
	require.NoError(t, err)
	assert.Equal(t, int64(150_000), adjusted.CarriedBalance)
}

func TestDeleteOccupiedRoomRejected(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "P101"})
	require.NoError(t, err)
	roomID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	node, _ := snowflake.NewNode(2)
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	tenant := &tenantdomain.Tenant{
		ID:        node.Generate().Int64(),
		Name:      "Nguyen Van A",
		RoomID:    roomID.Int64(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(tenant).Error)

	err = svc.Delete(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrOccupied)

	// Once vacated, the delete cascades billing history.
	require.NoError(t, db.Exec(`DELETE FROM tenants WHERE id = ?`, tenant.ID).Error)

	record := &billingdomain.BillingRecord{
		ID:        node.Generate().Int64(),
		RoomID:    roomID.Int64(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(record).Error)
	entry := &billingdomain.PaymentEntry{
		ID:              node.Generate().Int64(),
		BillingRecordID: record.ID,
		AmountPaid:      100,
		CreatedAt:       now,
	}
	require.NoError(t, db.Create(entry).Error)

	require.NoError(t, svc.Delete(ctx, created.ID))

	var remaining int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM payment_entries`).Scan(&remaining).Error)
	assert.Equal(t, int64(0), remaining)
}

func TestGetAttachesRecordsAndOccupants(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "P101", RentPrice: 1_000_000})
	require.NoError(t, err)
	roomID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	node, _ := snowflake.NewNode(3)
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&billingdomain.BillingRecord{
		ID:             node.Generate().Int64(),
		RoomID:         roomID.Int64(),
		ComputedCharge: 1_000_000,
		CreatedAt:      now,
		UpdatedAt:      now,
	}).Error)
	require.NoError(t, db.Create(&tenantdomain.Tenant{
		ID:        node.Generate().Int64(),
		Name:      "Nguyen Van A",
		RoomID:    roomID.Int64(),
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.BillingRecords, 1)
	assert.Equal(t, int64(1_000_000), got.BillingRecords[0].ComputedCharge)
	require.Len(t, got.Occupants, 1)
	assert.Equal(t, "Nguyen Van A", got.Occupants[0].Name)
}

func TestMalformedIDIsDistinctFromMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "bad-id")
	require.ErrorIs(t, err, domain.ErrInvalidID)

	node, _ := snowflake.NewNode(4)
	_, err = svc.Get(context.Background(), node.Generate().String())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateVersionConflict(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "P101"})
	require.NoError(t, err)
	roomID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	// Simulate a concurrent writer bumping the version underneath us.
	room, err := svc.repo.FindByID(ctx, db, roomID.Int64())
	require.NoError(t, err)
	require.NoError(t, db.Exec(
		`UPDATE rooms SET lock_version = lock_version + 1 WHERE id = ?`, roomID.Int64(),
	).Error)

	name := "P102"
	room.Name = name
	err = svc.repo.Update(ctx, db, room)
	require.ErrorIs(t, err, domain.ErrVersionConflict)
}
