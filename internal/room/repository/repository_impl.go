package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nhatrolabs/nhatro/internal/room/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, room *domain.Room) error {
	return db.WithContext(ctx).Create(room).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Room, error) {
	var room domain.Room
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, rent_price, electric_unit_price, water_unit_price, rent_date, due_date,
		        occupied, carried_balance, note, metadata, lock_version, created_at, updated_at
		 FROM rooms WHERE id = ?`,
		id,
	).Scan(&room).Error
	if err != nil {
		return nil, err
	}
	if room.ID == 0 {
		return nil, nil
	}
	return &room, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Room, error) {
	var rooms []domain.Room
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, rent_price, electric_unit_price, water_unit_price, rent_date, due_date,
		        occupied, carried_balance, note, metadata, lock_version, created_at, updated_at
		 FROM rooms ORDER BY created_at ASC, id ASC`,
	).Scan(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, room *domain.Room) error {
	if room == nil {
		return gorm.ErrInvalidData
	}
	res := db.WithContext(ctx).Exec(
		`UPDATE rooms
		 SET name = ?, rent_price = ?, electric_unit_price = ?, water_unit_price = ?,
		     rent_date = ?, due_date = ?, occupied = ?, note = ?, metadata = ?,
		     lock_version = lock_version + 1, updated_at = ?
		 WHERE id = ? AND lock_version = ?`,
		room.Name,
		room.RentPrice,
		room.ElectricUnitPrice,
		room.WaterUnitPrice,
		room.RentDate,
		room.DueDate,
		room.Occupied,
		room.Note,
		room.Metadata,
		room.UpdatedAt,
		room.ID,
		room.LockVersion,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrVersionConflict
	}
	room.LockVersion++
	return nil
}

func (r *repo) SetCarriedBalance(ctx context.Context, db *gorm.DB, id, balance int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE rooms SET carried_balance = ? WHERE id = ?`,
		balance,
		id,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM rooms WHERE id = ?`, id).Error
}

func (r *repo) CountOccupants(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM tenants WHERE room_id = ?`,
		id,
	).Scan(&count).Error
	return count, err
}

func (r *repo) ListRecordRows(ctx context.Context, db *gorm.DB, id int64) ([]domain.RecordRow, error) {
	var rows []domain.RecordRow
	err := db.WithContext(ctx).Raw(
		`SELECT id, computed_charge, paid, overdue, created_at
		 FROM billing_records WHERE room_id = ? ORDER BY created_at ASC, id ASC`,
		id,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListOccupantRows(ctx context.Context, db *gorm.DB, id int64) ([]domain.OccupantRow, error) {
	var rows []domain.OccupantRow
	err := db.WithContext(ctx).Raw(
		`SELECT id, name FROM tenants WHERE room_id = ? ORDER BY created_at ASC, id ASC`,
		id,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
