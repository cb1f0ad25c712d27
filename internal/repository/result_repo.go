package repository

import (
	"context"

	"gorm.io/gorm"

	"college-erp/internal/model"
)

// ResultRepository result data access
type ResultRepository interface {
	GetByKey(ctx context.Context, studentID, courseID, semester string) (*model.Result, error)
	Create(ctx context.Context, result *model.Result) error
	// UpdatePendingMarks rewrites marks and grade only while the result is
	// unapproved; false means an approval got there first.
	UpdatePendingMarks(ctx context.Context, id string, marks int, grade string) (bool, error)
	ListPending(ctx context.Context, collegeID string) ([]model.Result, error)
	// Approve flips the pending results among ids that belong to the college
	// and returns the rows it approved.
	Approve(ctx context.Context, collegeID string, ids []string) ([]model.Result, error)
	ListApproved(ctx context.Context, studentID, semester string) ([]model.Result, error)
	ApprovedSemesters(ctx context.Context, studentID string) ([]string, error)
}

type resultRepo struct {
	db *gorm.DB
}

// NewResultRepo creates a ResultRepository.
func NewResultRepo(db *gorm.DB) ResultRepository {
	return &resultRepo{db: db}
}

func (r *resultRepo) GetByKey(ctx context.Context, studentID, courseID, semester string) (*model.Result, error) {
	var result model.Result
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ? AND semester = ?", studentID, courseID, semester).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepo) Create(ctx context.Context, result *model.Result) error {
	return r.db.WithContext(ctx).Omit("Student", "Course").Create(result).Error
}

func (r *resultRepo) UpdatePendingMarks(ctx context.Context, id string, marks int, grade string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Result{}).
		Where("id = ? AND approved_by_admin = ?", id, false).
		Updates(map[string]interface{}{
			"marks":      marks,
			"grade":      grade,
			"updated_at": gorm.Expr("NOW()"),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *resultRepo) ListPending(ctx context.Context, collegeID string) ([]model.Result, error) {
	var list []model.Result
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Joins("JOIN users u ON u.id = results.student_id").
		Where("u.college_id = ? AND results.approved_by_admin = ?", collegeID, false).
		Order("results.created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *resultRepo) Approve(ctx context.Context, collegeID string, ids []string) ([]model.Result, error) {
	var approved []model.Result
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Joins("JOIN users u ON u.id = results.student_id").
			Where("results.id IN ? AND u.college_id = ? AND results.approved_by_admin = ?", ids, collegeID, false).
			Find(&approved).Error; err != nil {
			return err
		}
		if len(approved) == 0 {
			return nil
		}
		approvedIDs := make([]string, len(approved))
		for i := range approved {
			approvedIDs[i] = approved[i].ID
			approved[i].ApprovedByAdmin = true
		}
		return tx.Model(&model.Result{}).
			Where("id IN ?", approvedIDs).
			Updates(map[string]interface{}{
				"approved_by_admin": true,
				"updated_at":        gorm.Expr("NOW()"),
			}).Error
	})
	return approved, err
}

func (r *resultRepo) ListApproved(ctx context.Context, studentID, semester string) ([]model.Result, error) {
	var list []model.Result
	db := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ? AND approved_by_admin = ?", studentID, true)
	if semester != "" {
		db = db.Where("semester = ?", semester)
	}
	err := db.Order("semester DESC, created_at ASC").Find(&list).Error
	return list, err
}

func (r *resultRepo) ApprovedSemesters(ctx context.Context, studentID string) ([]string, error) {
	var semesters []string
	err := r.db.WithContext(ctx).
		Model(&model.Result{}).
		Where("student_id = ? AND approved_by_admin = ?", studentID, true).
		Distinct("semester").
		Order("semester DESC").
		Pluck("semester", &semesters).Error
	return semesters, err
}
