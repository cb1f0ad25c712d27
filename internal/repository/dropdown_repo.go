package repository

import (
	"context"

	"gorm.io/gorm"

	"college-erp/internal/model"
)

// DropdownRepository admin-managed option data access
type DropdownRepository interface {
	Create(ctx context.Context, v *model.DropdownValue) error
	Exists(ctx context.Context, collegeID, field, value string) (bool, error)
	ListByCollege(ctx context.Context, collegeID string) ([]model.DropdownValue, error)
	// Delete reports whether a row of the college was removed.
	Delete(ctx context.Context, collegeID, id string) (bool, error)
}

type dropdownRepo struct {
	db *gorm.DB
}

// NewDropdownRepo creates a DropdownRepository.
func NewDropdownRepo(db *gorm.DB) DropdownRepository {
	return &dropdownRepo{db: db}
}

func (r *dropdownRepo) Create(ctx context.Context, v *model.DropdownValue) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *dropdownRepo) Exists(ctx context.Context, collegeID, field, value string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DropdownValue{}).
		Where("college_id = ? AND field = ? AND value = ?", collegeID, field, value).
		Count(&count).Error
	return count > 0, err
}

func (r *dropdownRepo) ListByCollege(ctx context.Context, collegeID string) ([]model.DropdownValue, error) {
	var list []model.DropdownValue
	err := r.db.WithContext(ctx).
		Where("college_id = ?", collegeID).
		Order("field ASC, value ASC").
		Find(&list).Error
	return list, err
}

func (r *dropdownRepo) Delete(ctx context.Context, collegeID, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND college_id = ?", id, collegeID).
		Delete(&model.DropdownValue{})
	return res.RowsAffected > 0, res.Error
}
