package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, record *BillingRecord) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*BillingRecord, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]BillingRecord, error)
	// Update is a compare-and-swap on LockVersion.
	Update(ctx context.Context, db *gorm.DB, record *BillingRecord) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error

	ListEntries(ctx context.Context, db *gorm.DB, recordID int64) ([]PaymentEntry, error)
	AppendEntry(ctx context.Context, db *gorm.DB, entry *PaymentEntry) error
	// ReplaceEntries discards the stored ledger and writes the supplied
	// sequence; entries omitted by the caller are gone.
	ReplaceEntries(ctx context.Context, db *gorm.DB, recordID int64, entries []PaymentEntry) error
	NextPosition(ctx context.Context, db *gorm.DB, recordID int64) (int, error)
}
