package repository

import (
	"context"

	"gorm.io/gorm"

	"college-erp/internal/model"
)

// ── courses ──

// CourseRepository course catalogue data access
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, collegeID, id string) (*model.Course, error)
	FindByNameOrCode(ctx context.Context, collegeID, name, code string) (*model.Course, error)
	List(ctx context.Context, collegeID string) ([]model.Course, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo creates a CourseRepository.
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, collegeID, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("id = ? AND college_id = ?", id, collegeID).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) FindByNameOrCode(ctx context.Context, collegeID, name, code string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("college_id = ? AND (course_name = ? OR course_code = ?)", collegeID, name, code).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, collegeID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("college_id = ?", collegeID).
		Order("course_name ASC").
		Find(&courses).Error
	return courses, err
}

// ── enrollments ──

// EnrollmentRepository student-course enrollment data access
type EnrollmentRepository interface {
	Create(ctx context.Context, e *model.StudentCourse) error
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.StudentCourse, error)
	ListStudents(ctx context.Context, courseID string) ([]model.User, error)
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo creates an EnrollmentRepository.
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, e *model.StudentCourse) error {
	return r.db.WithContext(ctx).Omit("Course", "Student").Create(e).Error
}

func (r *enrollmentRepo) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.StudentCourse{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]model.StudentCourse, error) {
	var list []model.StudentCourse
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *enrollmentRepo) ListStudents(ctx context.Context, courseID string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN student_courses sc ON sc.student_id = users.id").
		Where("sc.course_id = ?", courseID).
		Order("users.roll_no ASC NULLS LAST, users.name ASC").
		Find(&users).Error
	return users, err
}

// ── faculty assignments ──

// AssignmentRepository faculty-course assignment data access
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.FacultyCourse) error
	Exists(ctx context.Context, facultyID, courseID, program, branch, year string) (bool, error)
	IsAssigned(ctx context.Context, facultyID, courseID string) (bool, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]model.FacultyCourse, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo creates an AssignmentRepository.
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, a *model.FacultyCourse) error {
	return r.db.WithContext(ctx).Omit("Course").Create(a).Error
}

func (r *assignmentRepo) Exists(ctx context.Context, facultyID, courseID, program, branch, year string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.FacultyCourse{}).
		Where("faculty_id = ? AND course_id = ? AND program = ? AND branch = ? AND year = ?",
			facultyID, courseID, program, branch, year).
		Count(&count).Error
	return count > 0, err
}

func (r *assignmentRepo) IsAssigned(ctx context.Context, facultyID, courseID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.FacultyCourse{}).
		Where("faculty_id = ? AND course_id = ?", facultyID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *assignmentRepo) ListByFaculty(ctx context.Context, facultyID string) ([]model.FacultyCourse, error) {
	var list []model.FacultyCourse
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("faculty_id = ?", facultyID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
