package repository

import "gorm.io/gorm"

// Repository aggregates every repository.
type Repository struct {
	College    CollegeRepository
	User       UserRepository
	Course     CourseRepository
	Enrollment EnrollmentRepository
	Assignment AssignmentRepository
	Attendance AttendanceRepository
	FeeConfig  FeeConfigRepository
	FeePayment FeePaymentRepository
	Result     ResultRepository
	Dropdown   DropdownRepository
}

// NewRepository wires the GORM implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		College:    NewCollegeRepo(db),
		User:       NewUserRepo(db),
		Course:     NewCourseRepo(db),
		Enrollment: NewEnrollmentRepo(db),
		Assignment: NewAssignmentRepo(db),
		Attendance: NewAttendanceRepo(db),
		FeeConfig:  NewFeeConfigRepo(db),
		FeePayment: NewFeePaymentRepo(db),
		Result:     NewResultRepo(db),
		Dropdown:   NewDropdownRepo(db),
	}
}
