package service

import (
	"go.uber.org/zap"

	"college-erp/config"
	"college-erp/internal/repository"
	"college-erp/pkg/events"
	"college-erp/pkg/jwt"
	"college-erp/pkg/mailer"
	"college-erp/pkg/storage"
)

// Service aggregates every business service.
type Service struct {
	Auth       AuthService
	College    CollegeService
	Profile    ProfileService
	Course     CourseService
	Attendance AttendanceService
	Fee        FeeService
	Export     ExportService
	Grade      GradeService
	Dropdown   DropdownService
}

// Deps collects the infrastructure adapters shared by services.
// Blacklist may be nil when Redis is not configured.
type Deps struct {
	JWT       *jwt.Manager
	OTP       OTPStore
	Blacklist TokenBlacklist
	Mailer    mailer.Mailer
	Storage   storage.Storage
	Events    events.Publisher
}

// NewService wires every service.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	deps Deps,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, deps.JWT, deps.OTP, deps.Blacklist, deps.Mailer, deps.Events, logger),
		College:    NewCollegeService(repo, deps.Storage, logger),
		Profile:    NewProfileService(repo, deps.Storage, logger),
		Course:     NewCourseService(repo, logger),
		Attendance: NewAttendanceService(repo, logger),
		Fee:        NewFeeService(cfg, repo, deps.Events, logger),
		Export:     NewExportService(repo, logger),
		Grade:      NewGradeService(repo, deps.Events, logger),
		Dropdown:   NewDropdownService(repo, logger),
	}
}
