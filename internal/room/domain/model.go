package domain

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// Room is a rentable unit: fixed per-period pricing, occupancy state and the
// balance carried over from settled billing periods.
type Room struct {
	ID                int64 `gorm:"primaryKey"`
	Name              string
	RentPrice         int64
	ElectricUnitPrice int64
	WaterUnitPrice    int64
	RentDate          *time.Time
	DueDate           *time.Time
	Occupied          bool
	CarriedBalance    int64
	Note              *string
	Metadata          datatypes.JSONMap
	LockVersion       int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Room) TableName() string { return "rooms" }

var (
	ErrInvalidID       = errors.New("invalid_room_id")
	ErrNameRequired    = errors.New("room_name_required")
	ErrNegativePrice   = errors.New("negative_room_price")
	ErrNotFound        = errors.New("room_not_found")
	ErrOccupied        = errors.New("room_still_occupied")
	ErrVersionConflict = errors.New("room_version_conflict")
)

type CreateRequest struct {
	Name              string         `json:"name"`
	RentPrice         int64          `json:"rent_price"`
	ElectricUnitPrice int64          `json:"electric_unit_price"`
	WaterUnitPrice    int64          `json:"water_unit_price"`
	RentDate          *time.Time     `json:"rent_date"`
	DueDate           *time.Time     `json:"due_date"`
	Occupied          *bool          `json:"occupied"`
	Note              *string        `json:"note"`
	Metadata          map[string]any `json:"metadata"`
}

// UpdateRequest deliberately carries no carried-balance field: the balance is
// only written by period settlement and explicit adjustments.
type UpdateRequest struct {
	ID                string
	Name              *string        `json:"name"`
	RentPrice         *int64         `json:"rent_price"`
	ElectricUnitPrice *int64         `json:"electric_unit_price"`
	WaterUnitPrice    *int64         `json:"water_unit_price"`
	RentDate          *time.Time     `json:"rent_date"`
	DueDate           *time.Time     `json:"due_date"`
	Occupied          *bool          `json:"occupied"`
	Note              *string        `json:"note"`
	Metadata          map[string]any `json:"metadata"`
}

type AdjustBalanceRequest struct {
	ID     string
	Delta  int64  `json:"delta"`
	Reason string `json:"reason"`
}

type BillingRecordSummary struct {
	ID             string    `json:"id"`
	ComputedCharge int64     `json:"computed_charge"`
	Paid           bool      `json:"paid"`
	Overdue        bool      `json:"overdue"`
	CreatedAt      time.Time `json:"created_at"`
}

type OccupantSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Response struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name"`
	RentPrice         int64                  `json:"rent_price"`
	ElectricUnitPrice int64                  `json:"electric_unit_price"`
	WaterUnitPrice    int64                  `json:"water_unit_price"`
	RentDate          *time.Time             `json:"rent_date,omitempty"`
	DueDate           *time.Time             `json:"due_date,omitempty"`
	Occupied          bool                   `json:"occupied"`
	CarriedBalance    int64                  `json:"carried_balance"`
	Note              *string                `json:"note,omitempty"`
	Metadata          map[string]any         `json:"metadata,omitempty"`
	BillingRecords    []BillingRecordSummary `json:"billing_records,omitempty"`
	Occupants         []OccupantSummary      `json:"occupants,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}
