package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nhatrolabs/nhatro/internal/tenant/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, tenant *domain.Tenant) error {
	return db.WithContext(ctx).Create(tenant).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Tenant, error) {
	var t domain.Tenant
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, date_of_birth, identity_number, room_id, created_at, updated_at
		 FROM tenants WHERE id = ?`,
		id,
	).Scan(&t).Error
	if err != nil {
		return nil, err
	}
	if t.ID == 0 {
		return nil, nil
	}
	return &t, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Tenant, error) {
	var tenants []domain.Tenant
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, date_of_birth, identity_number, room_id, created_at, updated_at
		 FROM tenants ORDER BY created_at ASC, id ASC`,
	).Scan(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, tenant *domain.Tenant) error {
	if tenant == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE tenants
		 SET name = ?, date_of_birth = ?, identity_number = ?, room_id = ?, updated_at = ?
		 WHERE id = ?`,
		tenant.Name,
		tenant.DateOfBirth,
		tenant.IdentityNumber,
		tenant.RoomID,
		tenant.UpdatedAt,
		tenant.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM tenants WHERE id = ?`, id).Error
}
