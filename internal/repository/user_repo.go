package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"college-erp/internal/model"
)

// StudentFilter narrows student listings; blank fields match everything.
type StudentFilter struct {
	Program string
	Branch  string
	Year    string
	Section string
	Keyword string // name, email, roll or enrollment number
}

// UserRepository user data access
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	ListStudents(ctx context.Context, collegeID string, f StudentFilter, offset, limit int) ([]model.User, int64, error)
	ListAllStudents(ctx context.Context, collegeID string, f StudentFilter) ([]model.User, error)
	ListByClass(ctx context.Context, collegeID, branch, year string) ([]model.User, error)
	DistinctStudentValues(ctx context.Context, collegeID, column string) ([]string, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a UserRepository.
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("College").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("College").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit("College").Save(user).Error
}

func (r *userRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{}).Error
}

func (r *userRepo) studentQuery(ctx context.Context, collegeID string, f StudentFilter) *gorm.DB {
	db := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("college_id = ? AND role = ?", collegeID, model.RoleStudent)
	if f.Program != "" {
		db = db.Where("program = ?", f.Program)
	}
	if f.Branch != "" {
		db = db.Where("branch = ?", f.Branch)
	}
	if f.Year != "" {
		db = db.Where("year = ?", f.Year)
	}
	if f.Section != "" {
		db = db.Where("section = ?", f.Section)
	}
	if f.Keyword != "" {
		like := "%" + f.Keyword + "%"
		db = db.Where("(name ILIKE ? OR email ILIKE ? OR roll_no ILIKE ? OR enrollment_no ILIKE ?)", like, like, like, like)
	}
	return db
}

func (r *userRepo) ListStudents(ctx context.Context, collegeID string, f StudentFilter, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.studentQuery(ctx, collegeID, f)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("name ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepo) ListAllStudents(ctx context.Context, collegeID string, f StudentFilter) ([]model.User, error) {
	var users []model.User
	err := r.studentQuery(ctx, collegeID, f).
		Order("program ASC, branch ASC, year ASC, roll_no ASC NULLS LAST, name ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepo) ListByClass(ctx context.Context, collegeID, branch, year string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("college_id = ? AND role = ? AND branch = ? AND year = ?", collegeID, model.RoleStudent, branch, year).
		Order("roll_no ASC NULLS LAST, name ASC").
		Find(&users).Error
	return users, err
}

// DistinctStudentValues only accepts the dropdown columns it knows.
func (r *userRepo) DistinctStudentValues(ctx context.Context, collegeID, column string) ([]string, error) {
	switch column {
	case model.FieldProgram, model.FieldBranch, model.FieldYear, model.FieldSection, model.FieldSemester:
	default:
		return nil, fmt.Errorf("column %q not allowed", column)
	}
	var values []string
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("college_id = ? AND role = ?", collegeID, model.RoleStudent).
		Where(column+" <> ''").
		Distinct(column).
		Pluck(column, &values).Error
	return values, err
}
