package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"college-erp/internal/model"
)

// AttendanceQuery filters attendance listings; nil fields are ignored.
type AttendanceQuery struct {
	CourseID *string
	From     *time.Time
	To       *time.Time
}

// AttendanceRepository attendance data access
type AttendanceRepository interface {
	ListForDay(ctx context.Context, studentIDs []string, date time.Time, courseID *string) ([]model.Attendance, error)
	// Replace deletes the day's rows of the given students for the course
	// (NULL course included) and inserts rows in the same transaction.
	Replace(ctx context.Context, studentIDs []string, date time.Time, courseID *string, rows []model.Attendance) error
	ListByStudent(ctx context.Context, studentID string, q AttendanceQuery) ([]model.Attendance, error)
	ListByCourse(ctx context.Context, courseID string, q AttendanceQuery) ([]model.Attendance, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo creates an AttendanceRepository.
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func courseScope(db *gorm.DB, courseID *string) *gorm.DB {
	if courseID == nil {
		return db.Where("course_id IS NULL")
	}
	return db.Where("course_id = ?", *courseID)
}

func (r *attendanceRepo) ListForDay(ctx context.Context, studentIDs []string, date time.Time, courseID *string) ([]model.Attendance, error) {
	var rows []model.Attendance
	if len(studentIDs) == 0 {
		return rows, nil
	}
	db := r.db.WithContext(ctx).
		Where("student_id IN ? AND date = ?", studentIDs, date.Format("2006-01-02"))
	err := courseScope(db, courseID).Find(&rows).Error
	return rows, err
}

func (r *attendanceRepo) Replace(ctx context.Context, studentIDs []string, date time.Time, courseID *string, rows []model.Attendance) error {
	if len(studentIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Where("student_id IN ? AND date = ?", studentIDs, date.Format("2006-01-02"))
		if err := courseScope(del, courseID).Delete(&model.Attendance{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Omit("Course").Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func applyAttendanceQuery(db *gorm.DB, q AttendanceQuery) *gorm.DB {
	if q.CourseID != nil {
		db = db.Where("course_id = ?", *q.CourseID)
	}
	if q.From != nil {
		db = db.Where("date >= ?", q.From.Format("2006-01-02"))
	}
	if q.To != nil {
		db = db.Where("date <= ?", q.To.Format("2006-01-02"))
	}
	return db
}

func (r *attendanceRepo) ListByStudent(ctx context.Context, studentID string, q AttendanceQuery) ([]model.Attendance, error) {
	var rows []model.Attendance
	db := r.db.WithContext(ctx).Preload("Course").Where("student_id = ?", studentID)
	err := applyAttendanceQuery(db, q).
		Order("date DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *attendanceRepo) ListByCourse(ctx context.Context, courseID string, q AttendanceQuery) ([]model.Attendance, error) {
	var rows []model.Attendance
	q.CourseID = &courseID
	err := applyAttendanceQuery(r.db.WithContext(ctx), q).
		Order("date DESC, student_id ASC").
		Find(&rows).Error
	return rows, err
}
