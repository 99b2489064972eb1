package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nhatrolabs/nhatro/internal/billing/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, record *domain.BillingRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.BillingRecord, error) {
	var record domain.BillingRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, room_id, electric_usage, water_usage, computed_charge, overdue, paid,
		        lock_version, created_at, updated_at
		 FROM billing_records WHERE id = ?`,
		id,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.BillingRecord, error) {
	var records []domain.BillingRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, room_id, electric_usage, water_usage, computed_charge, overdue, paid,
		        lock_version, created_at, updated_at
		 FROM billing_records ORDER BY created_at ASC, id ASC`,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, record *domain.BillingRecord) error {
	if record == nil {
		return gorm.ErrInvalidData
	}
	res := db.WithContext(ctx).Exec(
		`UPDATE billing_records
		 SET electric_usage = ?, water_usage = ?, computed_charge = ?, overdue = ?, paid = ?,
		     lock_version = lock_version + 1, updated_at = ?
		 WHERE id = ? AND lock_version = ?`,
		record.ElectricUsage,
		record.WaterUsage,
		record.ComputedCharge,
		record.Overdue,
		record.Paid,
		record.UpdatedAt,
		record.ID,
		record.LockVersion,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrVersionConflict
	}
	record.LockVersion++
	return nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM payment_entries WHERE billing_record_id = ?`, id,
	).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(`DELETE FROM billing_records WHERE id = ?`, id).Error
}

func (r *repo) ListEntries(ctx context.Context, db *gorm.DB, recordID int64) ([]domain.PaymentEntry, error) {
	var entries []domain.PaymentEntry
	err := db.WithContext(ctx).Raw(
		`SELECT id, billing_record_id, position, payment_date, amount_paid, note, created_at
		 FROM payment_entries WHERE billing_record_id = ? ORDER BY position ASC`,
		recordID,
	).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) AppendEntry(ctx context.Context, db *gorm.DB, entry *domain.PaymentEntry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) ReplaceEntries(ctx context.Context, db *gorm.DB, recordID int64, entries []domain.PaymentEntry) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM payment_entries WHERE billing_record_id = ?`, recordID,
	).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&entries).Error
}

func (r *repo) NextPosition(ctx context.Context, db *gorm.DB, recordID int64) (int, error) {
	var next int
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(position) + 1, 0) FROM payment_entries WHERE billing_record_id = ?`,
		recordID,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}
