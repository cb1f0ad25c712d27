package repository

import (
	"context"

	"gorm.io/gorm"

	"college-erp/internal/model"
)

// CollegeRepository tenant data access
type CollegeRepository interface {
	Create(ctx context.Context, college *model.College) error
	GetByID(ctx context.Context, id string) (*model.College, error)
	GetByName(ctx context.Context, name string) (*model.College, error)
	GetByDomain(ctx context.Context, domain string) (*model.College, error)
	List(ctx context.Context) ([]model.College, error)
	Update(ctx context.Context, college *model.College) error
	Delete(ctx context.Context, id string) error
	CountUsers(ctx context.Context, id string) (int64, error)
}

type collegeRepo struct {
	db *gorm.DB
}

// NewCollegeRepo creates a CollegeRepository.
func NewCollegeRepo(db *gorm.DB) CollegeRepository {
	return &collegeRepo{db: db}
}

func (r *collegeRepo) Create(ctx context.Context, college *model.College) error {
	return r.db.WithContext(ctx).Create(college).Error
}

func (r *collegeRepo) GetByID(ctx context.Context, id string) (*model.College, error) {
	var college model.College
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&college).Error; err != nil {
		return nil, err
	}
	return &college, nil
}

func (r *collegeRepo) GetByName(ctx context.Context, name string) (*model.College, error) {
	var college model.College
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&college).Error; err != nil {
		return nil, err
	}
	return &college, nil
}

func (r *collegeRepo) GetByDomain(ctx context.Context, domain string) (*model.College, error) {
	var college model.College
	if err := r.db.WithContext(ctx).Where("domain = ?", domain).First(&college).Error; err != nil {
		return nil, err
	}
	return &college, nil
}

func (r *collegeRepo) List(ctx context.Context) ([]model.College, error) {
	var colleges []model.College
	err := r.db.WithContext(ctx).Order("name ASC").Find(&colleges).Error
	return colleges, err
}

func (r *collegeRepo) Update(ctx context.Context, college *model.College) error {
	return r.db.WithContext(ctx).Save(college).Error
}

func (r *collegeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.College{}).Error
}

func (r *collegeRepo) CountUsers(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("college_id = ?", id).
		Count(&count).Error
	return count, err
}
