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

	"github.com/nhatrolabs/nhatro/internal/billing/domain"
	billingrepo "github.com/nhatrolabs/nhatro/internal/billing/repository"
	"github.com/nhatrolabs/nhatro/internal/migration"
	roomdomain "github.com/nhatrolabs/nhatro/internal/room/domain"
	roomrepo "github.com/nhatrolabs/nhatro/internal/room/repository"
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
		db:       db,
		log:      zap.NewNop(),
		genID:    node,
		clock:    fixedClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		repo:     billingrepo.Provide(),
		roomRepo: roomrepo.Provide(),
	}
	return svc, db
}

func seedRoom(t *testing.T, db *gorm.DB, rent, electric, water int64) *roomdomain.Room {
	t.Helper()

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	room := &roomdomain.Room{
		ID:                node.Generate().Int64(),
		Name:              "P101",
		RentPrice:         rent,
		ElectricUnitPrice: electric,
		WaterUnitPrice:    water,
		Occupied:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, db.Create(room).Error)
	return room
}

func carriedBalance(t *testing.T, db *gorm.DB, roomID int64) int64 {
	t.Helper()
	var balance int64
	require.NoError(t, db.Raw(`SELECT carried_balance FROM rooms WHERE id = ?`, roomID).Scan(&balance).Error)
	return balance
}

func TestComputeCharge(t *testing.T) {
	room := &roomdomain.Room{
		RentPrice:         3_000_000,
		ElectricUnitPrice: 3_000,
		WaterUnitPrice:    15_000,
	}

	charge, err := domain.ComputeCharge(room, 100, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3_450_000), charge) // 100*3000 + 10*15000 + 3000000
}

func TestComputeChargeRejectsNegativeUsage(t *testing.T) {
	room := &roomdomain.Room{RentPrice: 1_000_000}

	_, err := domain.ComputeCharge(room, -1, 0)
	require.ErrorIs(t, err, domain.ErrNegativeUsage)

	_, err = domain.ComputeCharge(room, 0, -1)
	require.ErrorIs(t, err, domain.ErrNegativeUsage)
}

func TestCreateComputesChargeFromRoomPrices(t *testing.T) {
	svc, db := newTestService(t)
	room := seedRoom(t, db, 3_000_000, 3_000, 15_000)

	resp, err := svc.Create(context.Background(), domain.CreateRequest{
		RoomID:        snowflake.ID(room.ID).String(),
		ElectricUsage: 100,
		WaterUsage:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3_450_000), resp.ComputedCharge)
	assert.Equal(t, int64(3_450_000), resp.Shortfall)
	assert.Empty(t, resp.Ledger)
}

func TestCreateRequiresExistingRoom(t *testing.T) {
	svc, _ := newTestService(t)

	node, _ := snowflake.NewNode(3)
	_, err := svc.Create(context.Background(), domain.CreateRequest{
		RoomID: node.Generate().String(),
	})
	require.ErrorIs(t, err, roomdomain.ErrNotFound)
}

func TestCreateRejectsMalformedRoomID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateRequest{RoomID: "not-an-id"})
	require.ErrorIs(t, err, roomdomain.ErrInvalidID)
}

func TestSettleRollsShortfallIntoCarriedBalance(t *testing.T) {
	svc, db := newTestService(t)
	room := seedRoom(t, db, 3_000_000, 3_000, 15_000)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{
		RoomID:        snowflake.ID(room.ID).String(),
		ElectricUsage: 100,
		WaterUsage:    10,
		Ledger: []domain.EntryRequest{
			{AmountPaid: 2_000_000},
			{AmountPaid: 1_450_000},
		},
	})
	require.NoError(t, err)

	settle, err := svc.Settle(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3_450_000), settle.SettledAmount)
	assert.Equal(t, int64(0), settle.Shortfall)
	assert.Equal(t, int64(0), carriedBalance(t, db, room.ID))
}

func TestSettleIsIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	room := seedRoom(t, db, 2_000_000, 0, 0)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{
		RoomID: snowflake.ID(room.ID).String(),
		Ledger: []domain.EntryRequest{{AmountPaid: 500_000}},
	})
	require.NoError(t, err)

	first, err := svc.Settle(ctx, resp.ID)
	require.NoError(t, err)
	second, err := svc.Settle(ctx, resp.ID)
	require.NoError(t, err)

	assert.Equal(t, first.CarriedBalance, second.CarriedBalance)
	assert.Equal(t, int64(1_500_000), carriedBalance(t, db, room.ID))
}

func TestAppendPaymentDoesNotSettle(t *testing.T) {
	svc, db := newTestService(t)
	room := seedRoom(t, db, 2_000_000, 0, 0)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{
		RoomID: snowflake.ID(room.ID).String(),
	})
	require.NoError(t, err)

	paymentDate := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	updated, err := svc.AppendPayment(ctx, resp.ID, domain.EntryRequest{
		PaymentDate: &paymentDate,
		AmountPaid:  2_000_000,
	})
	require.NoError(t, err)
	assert.Len(t, updated.Ledger, 1)
	assert.Equal(t, int64(0), updated.Shortfall)

	// Appending records the payment; the room balance only moves on Settle.
	assert.Equal(t, int64(0), carriedBalance(t, db, room.ID))
}

func TestAppendPaymentKeepsPriorEntriesAndOrder(t *testing.T) {
	svc, db := newTestService(t)
	room := seedRoom(t, db, 0, 0, 0)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{
		RoomID: snowflake.ID(room.ID).String(),
		Ledger: []domain.EntryRequest{{AmountPaid: 100, Note: "first"}},
	})
	require.NoError(t, err)

	updated, err := svc.AppendPayment(ctx, resp.ID, domain.EntryRequest{AmountPaid: -40, Note: "correction"})
	require.NoError(t, err)

	require.Len(t, updated.Ledger, 2)
	assert.Equal(t, "first", updated.Ledger[0].Note)
	assert.Equal(t, "correction", updated.Ledger[1].Note)
	assert.Equal(t, int64(60), updated.SettledAmount)
}

func TestReplaceLedgerThenSettleUsesOnlyNewEntries(t *testing.T) {
	svc, db := newTestService(t)
	room := seedRoom(t, db, 1_000_000, 0, 0)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{
		RoomID: snowflake.ID(room.ID).String(),
		Ledger: []domain.EntryRequest{
			{AmountPaid: 700_000},
			{AmountPaid: 300_000},
		},
	})
	require.NoError(t, err)

	// Full resend with one entry: the other is gone, not merged.
	replaced, err := svc.ReplaceLedger(ctx, resp.ID, []domain.EntryRequest{
		{AmountPaid: 250_000},
	})
	require.NoError(t, err)
	require.Len(t, replaced.Ledger, 1)

	settle, err := svc.Settle(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250_000), settle.SettledAmount)
	assert.Equal(t, int64(750_000), settle.Shortfall)
	assert.Equal(t, int64(750_000), carriedBalance(t, db, room.ID))
}

func TestOverpaymentIsNotAllocatedAcrossPeriods(t *testing.T) {
	svc, db := newTestService(t)
	room := seedRoom(t, db, 5_000_000, 0, 0)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateRequest{
		RoomID: snowflake.ID(room.ID).String(),
		Ledger: []domain.EntryRequest{{AmountPaid: 5_000_000, Note: "covers March and April"}},
	})
	require.NoError(t, err)

	settle, err := svc.Settle(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), settle.Shortfall)

	second, err := svc.Create(ctx, domain.CreateRequest{
		RoomID: snowflake.ID(room.ID).String(),
	})
	require.NoError(t, err)

	settle2, err := svc.Settle(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000_000), settle2.Shortfall)
	assert.Equal(t, int64(5_000_000), carriedBalance(t, db, room.ID))
}

func TestChargeNotRecomputedUntilExplicit(t *testing.T) {
	svc, db := newTestService(t)
	room := seedRoom(t, db, 3_000_000, 3_000, 15_000)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{
		RoomID:        snowflake.ID(room.ID).String(),
		ElectricUsage: 100,
		WaterUsage:    10,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3_450_000), resp.ComputedCharge)

	// Retroactive price change: history keeps the stored charge.
	require.NoError(t, db.Exec(`UPDATE rooms SET rent_price = ? WHERE id = ?`, int64(4_000_000), room.ID).Error)

	got, err := svc.Get(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3_450_000), got.ComputedCharge)

	recomputed, err := svc.Recompute(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4_450_000), recomputed.ComputedCharge)
}

func TestUpdateRecomputesAndReplacesLedger(t *testing.T) {
	svc, db := newTestService(t)
	room := seedRoom(t, db, 3_000_000, 3_000, 15_000)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{
		RoomID: snowflake.ID(room.ID).String(),
		Ledger: []domain.EntryRequest{{AmountPaid: 1}},
	})
	require.NoError(t, err)

	electric := int64(100)
	water := int64(10)
	updated, err := svc.Update(ctx, domain.UpdateRequest{
		ID:            resp.ID,
		ElectricUsage: &electric,
		WaterUsage:    &water,
		Ledger:        []domain.EntryRequest{{AmountPaid: 3_450_000}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3_450_000), updated.ComputedCharge)
	require.Len(t, updated.Ledger, 1)
	assert.Equal(t, int64(3_450_000), updated.SettledAmount)
}

func TestUpdateRejectsNegativeUsage(t *testing.T) {
	svc, db := newTestService(t)
	room := seedRoom(t, db, 1_000_000, 0, 0)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{RoomID: snowflake.ID(room.ID).String()})
	require.NoError(t, err)

	bad := int64(-5)
	_, err = svc.Update(ctx, domain.UpdateRequest{ID: resp.ID, ElectricUsage: &bad})
	require.ErrorIs(t, err, domain.ErrNegativeUsage)
}

func TestSettleOrphanedRecordIsIntegrityError(t *testing.T) {
	svc, db := newTestService(t)
	room := seedRoom(t, db, 1_000_000, 0, 0)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{RoomID: snowflake.ID(room.ID).String()})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`DELETE FROM rooms WHERE id = ?`, room.ID).Error)

	_, err = svc.Settle(ctx, resp.ID)
	require.ErrorIs(t, err, domain.ErrRoomMissing)
}

func TestGetMissingRecord(t *testing.T) {
	svc, _ := newTestService(t)

	node, _ := snowflake.NewNode(4)
	_, err := svc.Get(context.Background(), node.Generate().String())
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), "garbage")
	require.ErrorIs(t, err, domain.ErrInvalidID)
}
