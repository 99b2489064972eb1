package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, room *Room) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Room, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Room, error)
	// Update is a compare-and-swap on LockVersion; ErrVersionConflict when
	// the stored row moved underneath the caller.
	Update(ctx context.Context, db *gorm.DB, room *Room) error
	// SetCarriedBalance writes the balance without bumping LockVersion; it is
	// the settlement path, not a client update.
	SetCarriedBalance(ctx context.Context, db *gorm.DB, id, balance int64) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	CountOccupants(ctx context.Context, db *gorm.DB, id int64) (int64, error)
	ListRecordRows(ctx context.Context, db *gorm.DB, id int64) ([]RecordRow, error)
	ListOccupantRows(ctx context.Context, db *gorm.DB, id int64) ([]OccupantRow, error)
}

// RecordRow and OccupantRow are raw projections of the tables owned by the
// billing and tenant packages; the service formats them into summaries.
type RecordRow struct {
	ID             int64
	ComputedCharge int64
	Paid           bool
	Overdue        bool
	CreatedAt      time.Time
}

type OccupantRow struct {
	ID   int64
	Name string
}
