package domain

import (
	"errors"
	"time"

	roomdomain "github.com/nhatrolabs/nhatro/internal/room/domain"
)

// BillingRecord holds one period's metered usage and computed charge for a
// room. The room reference is immutable after creation. Period identity is
// implied by creation time; one record per room per period is a convention,
// not a constraint.
type BillingRecord struct {
	ID             int64 `gorm:"primaryKey"`
	RoomID         int64
	ElectricUsage  int64
	WaterUsage     int64
	ComputedCharge int64
	Overdue        bool
	Paid           bool
	LockVersion    int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (BillingRecord) TableName() string { return "billing_records" }

// PaymentEntry is one line of a record's payment ledger. Position preserves
// insertion order. A nil PaymentDate means not yet paid; AmountPaid may be
// negative for corrections. Note is the only place a payer can indicate the
// period the money actually targets.
type PaymentEntry struct {
	ID              int64 `gorm:"primaryKey"`
	BillingRecordID int64
	Position        int
	PaymentDate     *time.Time
	AmountPaid      int64
	Note            string
	CreatedAt       time.Time
}

func (PaymentEntry) TableName() string { return "payment_entries" }

var (
	ErrInvalidID       = errors.New("invalid_billing_record_id")
	ErrNotFound        = errors.New("billing_record_not_found")
	ErrNegativeUsage   = errors.New("negative_usage_reading")
	ErrVersionConflict = errors.New("billing_record_version_conflict")

	// ErrRoomMissing marks an integrity breach: a record's room reference no
	// longer resolves. Distinct from a plain not-found so callers can tell an
	// orphaned graph from a bad id.
	ErrRoomMissing = errors.New("billing_record_room_missing")
)

// ComputeCharge derives the period charge from usage readings and the owning
// room's live prices:
//
//	charge = electricUsage*electricUnitPrice + waterUsage*waterUnitPrice + rentPrice
func ComputeCharge(room *roomdomain.Room, electricUsage, waterUsage int64) (int64, error) {
	if electricUsage < 0 || waterUsage < 0 {
		return 0, ErrNegativeUsage
	}
	return electricUsage*room.ElectricUnitPrice + waterUsage*room.WaterUnitPrice + room.RentPrice, nil
}

// SettledAmount is the ledger sum in insertion order. Order does not change
// the sum but callers rely on it for display.
func SettledAmount(ledger []PaymentEntry) int64 {
	var total int64
	for _, entry := range ledger {
		total += entry.AmountPaid
	}
	return total
}

type EntryRequest struct {
	PaymentDate *time.Time `json:"payment_date"`
	AmountPaid  int64      `json:"amount_paid"`
	Note        string     `json:"note"`
}

type CreateRequest struct {
	RoomID        string         `json:"room_id"`
	ElectricUsage int64          `json:"electric_usage"`
	WaterUsage    int64          `json:"water_usage"`
	Ledger        []EntryRequest `json:"ledger"`
}

// UpdateRequest mirrors the reference update path: usage readings are
// re-submitted, the charge is recomputed from live room prices, and the ledger
// is replaced wholesale by the supplied sequence.
type UpdateRequest struct {
	ID            string
	ElectricUsage *int64         `json:"electric_usage"`
	WaterUsage    *int64         `json:"water_usage"`
	Overdue       *bool          `json:"overdue"`
	Ledger        []EntryRequest `json:"ledger"`
}

type EntryResponse struct {
	PaymentDate *time.Time `json:"payment_date"`
	AmountPaid  int64      `json:"amount_paid"`
	Note        string     `json:"note,omitempty"`
}

type Response struct {
	ID             string          `json:"id"`
	RoomID         string          `json:"room_id"`
	ElectricUsage  int64           `json:"electric_usage"`
	WaterUsage     int64           `json:"water_usage"`
	ComputedCharge int64           `json:"computed_charge"`
	Overdue        bool            `json:"overdue"`
	Paid           bool            `json:"paid"`
	Ledger         []EntryResponse `json:"ledger"`
	SettledAmount  int64           `json:"settled_amount"`
	Shortfall      int64           `json:"shortfall"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type SettleResponse struct {
	ID             string `json:"id"`
	SettledAmount  int64  `json:"settled_amount"`
	Shortfall      int64  `json:"shortfall"`
	CarriedBalance int64  `json:"carried_balance"`
}
