package domain

import (
	"errors"
	"time"
)

// Tenant occupies exactly one room at a time; RoomID is the single source of
// truth for occupancy, room occupant sets are derived from it.
type Tenant struct {
	ID             int64 `gorm:"primaryKey"`
	Name           string
	DateOfBirth    string
	IdentityNumber string
	RoomID         int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Tenant) TableName() string { return "tenants" }

var (
	ErrInvalidID    = errors.New("invalid_tenant_id")
	ErrNameRequired = errors.New("tenant_name_required")
	ErrNotFound     = errors.New("tenant_not_found")
)

type CreateRequest struct {
	Name           string `json:"name"`
	DateOfBirth    string `json:"date_of_birth"`
	IdentityNumber string `json:"identity_number"`
	RoomID         string `json:"room_id"`
}

type UpdateRequest struct {
	ID             string
	Name           *string `json:"name"`
	DateOfBirth    *string `json:"date_of_birth"`
	IdentityNumber *string `json:"identity_number"`
	// A changed room id moves the tenant; the move runs in one transaction.
	RoomID *string `json:"room_id"`
}

type TransferRequest struct {
	ID     string
	RoomID string `json:"room_id"`
}

type Response struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	DateOfBirth    string    `json:"date_of_birth,omitempty"`
	IdentityNumber string    `json:"identity_number,omitempty"`
	RoomID         string    `json:"room_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
